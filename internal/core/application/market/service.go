package market

import (
	"context"
	"fmt"

	"github.com/pasta-science/marketd/internal/core/application/pubsub"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Service exposes the use cases of the marketplace ledger. Every operation
// that changes a listing is authorized against the given caller.
type Service struct {
	repoManager ports.RepoManager
	pubsub      *pubsub.Service
}

func NewService(
	repoManager ports.RepoManager, pubsubSvc *pubsub.Service,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	return &Service{repoManager, pubsubSvc}, nil
}

func (s *Service) AddListing(
	ctx context.Context, caller, contractAddress string, tokenID uint64,
	price decimal.Decimal, beneficiary string, feeBasisPoints uint32,
) (*domain.Listing, error) {
	listing, err := domain.NewListing(
		caller, contractAddress, tokenID, price, beneficiary, feeBasisPoints,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repoManager.ListingRepository().AddListing(
		ctx, listing,
	); err != nil {
		return nil, err
	}
	log.Debugf(
		"added listing %s for token %s/%d", listing.ID, contractAddress, tokenID,
	)

	go func(l domain.Listing) {
		if err := s.pubsub.PublishListingAddedEvent(l); err != nil {
			log.WithError(err).Warnf(
				"pubsub: failed to publish event for added listing %s", l.ID,
			)
		}
	}(*listing)

	return listing, nil
}

func (s *Service) MakeProprietary(
	ctx context.Context, caller, listingID string, value decimal.Decimal,
) (*domain.Listing, error) {
	var listing *domain.Listing
	if err := s.repoManager.ListingRepository().UpdateListing(
		ctx, listingID, func(l *domain.Listing) (*domain.Listing, error) {
			if err := l.MakeProprietary(caller, value); err != nil {
				return nil, err
			}
			listing = l
			return l, nil
		},
	); err != nil {
		return nil, err
	}
	log.Debugf("listing %s made proprietary by %s", listingID, listing.Proprietor)

	go func(l domain.Listing) {
		if err := s.pubsub.PublishListingProprietaryEvent(l); err != nil {
			log.WithError(err).Warnf(
				"pubsub: failed to publish event for proprietary listing %s", l.ID,
			)
		}
	}(*listing)

	return listing, nil
}

func (s *Service) UpdateListingPrice(
	ctx context.Context, caller, listingID string, price decimal.Decimal,
) (*domain.Listing, error) {
	var listing *domain.Listing
	var oldPrice string
	if err := s.repoManager.ListingRepository().UpdateListing(
		ctx, listingID, func(l *domain.Listing) (*domain.Listing, error) {
			oldPrice = l.Price
			if err := l.ChangePrice(caller, price); err != nil {
				return nil, err
			}
			listing = l
			return l, nil
		},
	); err != nil {
		return nil, err
	}

	go func(l domain.Listing) {
		if err := s.pubsub.PublishListingPriceUpdatedEvent(l, oldPrice); err != nil {
			log.WithError(err).Warnf(
				"pubsub: failed to publish event for repriced listing %s", l.ID,
			)
		}
	}(*listing)

	return listing, nil
}

func (s *Service) GetListing(
	ctx context.Context, listingID string,
) (*domain.Listing, error) {
	return s.repoManager.ListingRepository().GetListing(ctx, listingID)
}

func (s *Service) ListListings(
	ctx context.Context, filter domain.ListingFilter, page *domain.Page,
) ([]domain.Listing, error) {
	return s.repoManager.ListingRepository().GetListings(ctx, filter, page)
}

// PreviewFee returns the fee that the listing would take over the given
// amount.
func (s *Service) PreviewFee(
	ctx context.Context, listingID string, amount decimal.Decimal,
) (decimal.Decimal, error) {
	listing, err := s.repoManager.ListingRepository().GetListing(ctx, listingID)
	if err != nil {
		return decimal.Zero, err
	}
	return listing.Fee(amount)
}
