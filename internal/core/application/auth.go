package application

import (
	"context"

	"github.com/pasta-science/marketd/internal/core/application/auth"
	"github.com/pasta-science/marketd/internal/core/ports"
)

type AuthService interface {
	RequestMessage(
		ctx context.Context, address, chain, network string,
	) (*ports.AuthMessage, error)
	Verify(
		ctx context.Context, message, signature, network string,
	) (*auth.Session, string, error)
	IssueToken(session auth.Session) (string, error)
	SessionFromToken(token string) (*auth.Session, error)
}

func NewAuthService(
	provider ports.AuthProvider, cfg auth.Config,
) (AuthService, error) {
	return auth.NewService(provider, cfg)
}
