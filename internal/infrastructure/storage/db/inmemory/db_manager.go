package inmemory

import (
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
)

type RepoManager struct {
	listingRepository    domain.ListingRepository
	derivativeRepository domain.DerivativeRepository
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		listingRepository:    NewListingRepositoryImpl(),
		derivativeRepository: NewDerivativeRepositoryImpl(),
	}
}

func (d *RepoManager) ListingRepository() domain.ListingRepository {
	return d.listingRepository
}

func (d *RepoManager) DerivativeRepository() domain.DerivativeRepository {
	return d.derivativeRepository
}

func (d *RepoManager) Close() {}
