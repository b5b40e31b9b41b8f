package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type listingRepositoryImpl struct {
	store *badgerhold.Store
}

// NewListingRepositoryImpl initialize a badger implementation of the
// domain.ListingRepository
func NewListingRepositoryImpl(store *badgerhold.Store) domain.ListingRepository {
	return &listingRepositoryImpl{store}
}

func (r *listingRepositoryImpl) AddListing(
	_ context.Context, listing *domain.Listing,
) error {
	if err := r.store.Insert(listing.ID, *listing); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("listing with id %s already exists", listing.ID)
		}
		return err
	}
	return nil
}

func (r *listingRepositoryImpl) GetListing(
	_ context.Context, id string,
) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.store.Get(id, &listing); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepositoryImpl) GetListings(
	_ context.Context, filter domain.ListingFilter, page *domain.Page,
) ([]domain.Listing, error) {
	query := queryForFilter(filter).SortBy("CreatedAt", "ID")
	if page != nil {
		query = query.Skip(page.Offset()).Limit(page.Size)
	}

	listings := make([]domain.Listing, 0)
	if err := r.store.Find(&listings, query); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepositoryImpl) UpdateListing(
	_ context.Context,
	id string, updateFn func(l *domain.Listing) (*domain.Listing, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var listing domain.Listing
		if err := r.store.TxGet(tx, id, &listing); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrListingNotFound
			}
			return err
		}

		updated, err := updateFn(&listing)
		if err != nil {
			return err
		}

		if err := r.store.TxUpdate(tx, id, *updated); err != nil {
			return fmt.Errorf("trying to update listing %s: %w", id, err)
		}
		return nil
	})
}

func queryForFilter(filter domain.ListingFilter) *badgerhold.Query {
	var query *badgerhold.Query
	where := func(field string, value interface{}) {
		if query == nil {
			query = badgerhold.Where(field).Eq(value)
			return
		}
		query = query.And(field).Eq(value)
	}

	if filter.ContractAddress != "" {
		where("ContractAddress", domain.NormalizeAddress(filter.ContractAddress))
	}
	if filter.Beneficiary != "" {
		where("Beneficiary", domain.NormalizeAddress(filter.Beneficiary))
	}
	if filter.Proprietary != nil {
		where("Proprietary", *filter.Proprietary)
	}

	if query == nil {
		query = &badgerhold.Query{}
	}
	return query
}
