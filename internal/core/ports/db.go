package ports

import (
	"github.com/pasta-science/marketd/internal/core/domain"
)

// RepoManager interface defines the methods for listings and derivatives.
type RepoManager interface {
	ListingRepository() domain.ListingRepository
	DerivativeRepository() domain.DerivativeRepository

	Close()
}
