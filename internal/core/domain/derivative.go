package domain

import (
	"net/url"
	"time"

	"github.com/gosimple/slug"
)

// Derivative is a token minted by the derivative registry, bound to a
// metadata URI.
type Derivative struct {
	ContractAddress string
	// TokenID is assigned by the repository when the derivative is minted.
	TokenID   uint64
	URI       string
	Name      string
	Slug      string
	Owner     string
	CreatedAt int64
}

// NewDerivative returns a derivative not yet minted, ie. without a token id.
func NewDerivative(contractAddress, owner, uri, name string) (*Derivative, error) {
	contractAddress = NormalizeAddress(contractAddress)
	owner = NormalizeAddress(owner)

	if !IsValidAddress(contractAddress) {
		return nil, ErrDerivativeInvalidContractAddress
	}
	if !IsValidAddress(owner) {
		return nil, ErrDerivativeInvalidOwner
	}
	u, err := url.ParseRequestURI(uri)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, ErrDerivativeInvalidURI
	}

	s := slug.Make(name)
	if s == "" {
		s = slug.Make(u.Host + u.Path)
	}

	return &Derivative{
		ContractAddress: contractAddress,
		URI:             uri,
		Name:            name,
		Slug:            s,
		Owner:           owner,
		CreatedAt:       time.Now().Unix(),
	}, nil
}

// IsMinted returns whether a token id has been assigned to the derivative.
func (d *Derivative) IsMinted() bool {
	return d.TokenID > 0
}

// IsOwnedBy ...
func (d *Derivative) IsOwnedBy(addr string) bool {
	return SameAddress(d.Owner, addr)
}
