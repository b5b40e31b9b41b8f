package domain

import "context"

// ListingRepository is the abstraction for any kind of database intended to
// persist Listings.
type ListingRepository interface {
	// AddListing adds a new listing to the repository.
	AddListing(ctx context.Context, listing *Listing) error
	// GetListing returns the listing with the given id or ErrListingNotFound.
	GetListing(ctx context.Context, id string) (*Listing, error)
	// GetListings returns the listings matching the filter, oldest first. A
	// nil page returns all of them.
	GetListings(
		ctx context.Context, filter ListingFilter, page *Page,
	) ([]Listing, error)
	// UpdateListing updates the state of a listing. The closure function let's
	// commit multiple changes to a listing in a transactional way: if it
	// returns an error nothing is persisted.
	UpdateListing(
		ctx context.Context,
		id string, updateFn func(l *Listing) (*Listing, error),
	) error
}
