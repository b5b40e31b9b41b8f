package domain

import "context"

// DerivativeRepository is the abstraction for any kind of database intended
// to persist minted Derivatives.
type DerivativeRepository interface {
	// MintDerivative assigns the next token id to the derivative and stores
	// it. Token ids start from 1.
	MintDerivative(ctx context.Context, derivative *Derivative) (uint64, error)
	// GetDerivative returns the derivative with the given token id or
	// ErrDerivativeNotFound.
	GetDerivative(ctx context.Context, tokenID uint64) (*Derivative, error)
	// GetDerivativesByOwner returns the derivatives of the given owner, or all
	// of them if owner is empty, ordered by token id.
	GetDerivativesByOwner(
		ctx context.Context, owner string, page *Page,
	) ([]Derivative, error)
}
