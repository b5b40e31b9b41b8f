package auth_test

import (
	"context"

	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

type mockAuthProvider struct {
	mock.Mock
}

func (m *mockAuthProvider) RequestMessage(
	ctx context.Context, req ports.AuthMessageRequest,
) (*ports.AuthMessage, error) {
	args := m.Called(ctx, req)

	var res *ports.AuthMessage
	if a := args.Get(0); a != nil {
		res = a.(*ports.AuthMessage)
	}
	return res, args.Error(1)
}

func (m *mockAuthProvider) Verify(
	ctx context.Context, req ports.AuthVerifyRequest,
) (*ports.AuthProfile, error) {
	args := m.Called(ctx, req)

	var res *ports.AuthProfile
	if a := args.Get(0); a != nil {
		res = a.(*ports.AuthProfile)
	}
	return res, args.Error(1)
}
