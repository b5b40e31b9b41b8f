package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const sessionIssuer = "marketd"

// Config holds the fixed parameters of the sign-in messages and the
// session tokens.
type Config struct {
	Domain        string
	Statement     string
	URI           string
	Timeout       time.Duration
	SessionSecret []byte
	SessionTTL    time.Duration
}

func (c Config) validate() error {
	if c.Domain == "" {
		return fmt.Errorf("missing auth domain")
	}
	if c.URI == "" {
		return fmt.Errorf("missing auth uri")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("auth timeout must be positive")
	}
	if len(c.SessionSecret) <= 0 {
		return fmt.Errorf("missing session secret")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

// Service is a thin layer over the wallet-auth provider. It requests the
// sign-in messages, remembers them until they expire and turns a verified
// signature into a signed session token.
type Service struct {
	provider   ports.AuthProvider
	cfg        Config
	challenges *cache.Cache
}

func NewService(provider ports.AuthProvider, cfg Config) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("missing auth provider")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Service{
		provider:   provider,
		cfg:        cfg,
		challenges: cache.New(cfg.Timeout, 2*cfg.Timeout),
	}, nil
}

// RequestMessage asks the provider for a sign-in message for the given
// account. The provider is called exactly once.
func (s *Service) RequestMessage(
	ctx context.Context, address, chain, network string,
) (*ports.AuthMessage, error) {
	network = strings.ToLower(network)
	if network != ports.NetworkEvm && network != ports.NetworkSolana {
		return nil, ErrInvalidNetwork
	}
	if len(strings.TrimSpace(address)) <= 0 {
		return nil, ErrInvalidAddress
	}
	if network == ports.NetworkEvm {
		if !domain.IsValidAddress(domain.NormalizeAddress(address)) {
			return nil, ErrInvalidAddress
		}
		if len(chain) <= 0 {
			return nil, ErrInvalidChain
		}
	}

	msg, err := s.provider.RequestMessage(ctx, ports.AuthMessageRequest{
		Address:   address,
		Chain:     chain,
		Network:   network,
		Domain:    s.cfg.Domain,
		Statement: s.cfg.Statement,
		URI:       s.cfg.URI,
		Timeout:   int(s.cfg.Timeout / time.Second),
	})
	if err != nil {
		log.WithError(err).Debugf("auth: request message failed for %s", address)
		return nil, fmt.Errorf("%w: %s", ErrProvider, err)
	}

	s.challenges.SetDefault(msg.Message, network)
	return msg, nil
}

// Verify checks the signature of a previously requested message and returns
// the session of the signer along with its token.
func (s *Service) Verify(
	ctx context.Context, message, signature, network string,
) (*Session, string, error) {
	if len(message) <= 0 || len(signature) <= 0 {
		return nil, "", ErrMissingSignature
	}
	requestedNetwork, ok := s.challenges.Get(message)
	if !ok {
		return nil, "", ErrUnknownChallenge
	}
	if network == "" {
		network = requestedNetwork.(string)
	}
	if !strings.EqualFold(network, requestedNetwork.(string)) {
		return nil, "", ErrInvalidNetwork
	}

	profile, err := s.provider.Verify(ctx, ports.AuthVerifyRequest{
		Message:   message,
		Signature: signature,
		Network:   requestedNetwork.(string),
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrProvider, err)
	}
	s.challenges.Delete(message)

	address := profile.Address
	if requestedNetwork.(string) == ports.NetworkEvm {
		address = domain.NormalizeAddress(address)
	}
	session := &Session{
		Address:   address,
		ProfileID: profile.ProfileID,
		ChainID:   profile.ChainID,
		Domain:    profile.Domain,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL).Unix(),
	}
	token, err := s.IssueToken(*session)
	if err != nil {
		return nil, "", err
	}
	log.Debugf("auth: signed in %s", session.Address)
	return session, token, nil
}

// IssueToken returns the HS256 signed token of the given session.
func (s *Service) IssueToken(session Session) (string, error) {
	claims := sessionClaims{
		Address:   session.Address,
		ProfileID: session.ProfileID,
		ChainID:   session.ChainID,
		Domain:    session.Domain,
		StandardClaims: jwt.StandardClaims{
			Subject:   session.Address,
			Issuer:    sessionIssuer,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: session.ExpiresAt,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(s.cfg.SessionSecret)
}

// SessionFromToken parses and validates a session token.
func (s *Service) SessionFromToken(tokenString string) (*Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.cfg.SessionSecret, nil
		},
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Issuer != sessionIssuer || len(claims.Address) <= 0 {
		return nil, ErrInvalidSession
	}
	// jwt accepts a token until the second after its expiration.
	session := claims.session()
	if session.IsExpired() {
		return nil, ErrInvalidSession
	}
	return session, nil
}
