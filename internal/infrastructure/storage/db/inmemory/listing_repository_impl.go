package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pasta-science/marketd/internal/core/domain"
)

// ListingRepositoryImpl represents an in memory storage
type ListingRepositoryImpl struct {
	listings map[string]domain.Listing

	lock *sync.RWMutex
}

// NewListingRepositoryImpl returns a new empty ListingRepositoryImpl
func NewListingRepositoryImpl() domain.ListingRepository {
	return &ListingRepositoryImpl{
		listings: map[string]domain.Listing{},
		lock:     &sync.RWMutex{},
	}
}

func (r *ListingRepositoryImpl) AddListing(
	_ context.Context, listing *domain.Listing,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.listings[listing.ID]; ok {
		return fmt.Errorf("listing with id %s already exists", listing.ID)
	}
	r.listings[listing.ID] = *listing
	return nil
}

func (r *ListingRepositoryImpl) GetListing(
	_ context.Context, id string,
) (*domain.Listing, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &listing, nil
}

func (r *ListingRepositoryImpl) GetListings(
	_ context.Context, filter domain.ListingFilter, page *domain.Page,
) ([]domain.Listing, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	listings := make([]domain.Listing, 0)
	for _, l := range r.listings {
		if matchListing(l, filter) {
			listings = append(listings, l)
		}
	}
	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].CreatedAt == listings[j].CreatedAt {
			return listings[i].ID < listings[j].ID
		}
		return listings[i].CreatedAt < listings[j].CreatedAt
	})

	start, end := pageBounds(len(listings), page)
	return listings[start:end], nil
}

// UpdateListing holds the write lock across the whole closure so that the
// read-check-write sequence can't interleave with concurrent updates.
func (r *ListingRepositoryImpl) UpdateListing(
	_ context.Context,
	id string, updateFn func(l *domain.Listing) (*domain.Listing, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	current, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}

	updated, err := updateFn(&current)
	if err != nil {
		return err
	}

	r.listings[id] = *updated
	return nil
}

func matchListing(l domain.Listing, filter domain.ListingFilter) bool {
	if filter.ContractAddress != "" &&
		!domain.SameAddress(filter.ContractAddress, l.ContractAddress) {
		return false
	}
	if filter.Beneficiary != "" &&
		!domain.SameAddress(filter.Beneficiary, l.Beneficiary) {
		return false
	}
	if filter.Proprietary != nil && *filter.Proprietary != l.Proprietary {
		return false
	}
	return true
}

func pageBounds(count int, page *domain.Page) (int, int) {
	if page == nil {
		return 0, count
	}
	start := page.Offset()
	if start < 0 || start > count {
		start = count
	}
	end := count
	if page.Size >= 0 && page.Size < count-start {
		end = start + page.Size
	}
	return start, end
}
