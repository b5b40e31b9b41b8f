package auth

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Session identifies the account signed in with a wallet.
type Session struct {
	Address   string `json:"address"`
	ProfileID string `json:"profileId"`
	ChainID   string `json:"chainId"`
	Domain    string `json:"domain"`
	ExpiresAt int64  `json:"expires"`
}

func (s Session) IsExpired() bool {
	return time.Now().Unix() >= s.ExpiresAt
}

type sessionClaims struct {
	Address   string `json:"address"`
	ProfileID string `json:"profileId"`
	ChainID   string `json:"chainId"`
	Domain    string `json:"domain"`
	jwt.StandardClaims
}

func (c sessionClaims) session() *Session {
	return &Session{
		Address:   c.Address,
		ProfileID: c.ProfileID,
		ChainID:   c.ChainID,
		Domain:    c.Domain,
		ExpiresAt: c.ExpiresAt,
	}
}
