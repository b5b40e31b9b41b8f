package moralisauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/pasta-science/marketd/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	// DefaultBaseURL is the endpoint of the hosted Moralis auth API.
	DefaultBaseURL = "https://authapi.moralis.io"

	apiKeyHeader          = "X-API-Key"
	defaultRequestTimeout = 15 * time.Second
)

type service struct {
	baseURL string
	apiKey  string

	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
}

// NewService returns a ports.AuthProvider talking to a Moralis compatible
// auth API. Requests are never retried. They go through a circuit breaker
// and are limited to rate requests per second.
func NewService(baseURL, apiKey string, rate int) (ports.AuthProvider, error) {
	if len(baseURL) <= 0 {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") &&
		!strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("invalid auth provider url %s", baseURL)
	}
	if len(apiKey) <= 0 {
		return nil, fmt.Errorf("missing auth provider api key")
	}
	if rate <= 0 {
		return nil, fmt.Errorf("rate limit must be positive")
	}

	return &service{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		cb:         circuitbreaker.NewCircuitBreaker("authprovider"),
		limiter:    ratelimit.New(rate),
	}, nil
}

func (s *service) RequestMessage(
	ctx context.Context, req ports.AuthMessageRequest,
) (*ports.AuthMessage, error) {
	body := requestMessageBody{
		Domain:    req.Domain,
		Address:   req.Address,
		Statement: req.Statement,
		URI:       req.URI,
		Timeout:   req.Timeout,
	}
	if req.Network == ports.NetworkSolana {
		body.Network = req.Chain
	} else {
		body.ChainID = req.Chain
	}

	msg := &ports.AuthMessage{}
	if err := s.post(
		ctx, fmt.Sprintf("/challenge/request/%s", req.Network), body, msg,
	); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *service) Verify(
	ctx context.Context, req ports.AuthVerifyRequest,
) (*ports.AuthProfile, error) {
	body := verifyBody{
		Message:   req.Message,
		Signature: req.Signature,
	}

	profile := &ports.AuthProfile{}
	if err := s.post(
		ctx, fmt.Sprintf("/challenge/verify/%s", req.Network), body, profile,
	); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *service) post(
	ctx context.Context, path string, body, result interface{},
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	// 4xx errors are returned as value and are not counted by the breaker.
	clientErr, err := s.cb.Execute(func() (interface{}, error) {
		s.limiter.Take()

		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set(apiKeyHeader, s.apiKey)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		buf, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Debugf(
				"auth provider: %s replied with status %d", path, resp.StatusCode,
			)
			if resp.StatusCode < 500 {
				return parseError(resp.StatusCode, buf), nil
			}
			return nil, parseError(resp.StatusCode, buf)
		}
		return nil, json.Unmarshal(buf, result)
	})
	if err != nil {
		return err
	}
	if clientErr != nil {
		return clientErr.(error)
	}
	return nil
}

type requestMessageBody struct {
	Domain    string `json:"domain"`
	ChainID   string `json:"chainId,omitempty"`
	Network   string `json:"network,omitempty"`
	Address   string `json:"address"`
	Statement string `json:"statement,omitempty"`
	URI       string `json:"uri"`
	Timeout   int    `json:"timeout"`
}

type verifyBody struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func parseError(status int, buf []byte) error {
	e := errorBody{}
	if err := json.Unmarshal(buf, &e); err != nil || len(e.Message) <= 0 {
		return fmt.Errorf("request failed with status %d", status)
	}
	return fmt.Errorf("%s", e.Message)
}
