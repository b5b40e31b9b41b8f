package application

import (
	"context"

	"github.com/pasta-science/marketd/internal/core/application/market"
	"github.com/pasta-science/marketd/internal/core/application/pubsub"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/shopspring/decimal"
)

type MarketService interface {
	AddListing(
		ctx context.Context, caller, contractAddress string, tokenID uint64,
		price decimal.Decimal, beneficiary string, feeBasisPoints uint32,
	) (*domain.Listing, error)
	MakeProprietary(
		ctx context.Context, caller, listingID string, value decimal.Decimal,
	) (*domain.Listing, error)
	UpdateListingPrice(
		ctx context.Context, caller, listingID string, price decimal.Decimal,
	) (*domain.Listing, error)
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
	ListListings(
		ctx context.Context, filter domain.ListingFilter, page *domain.Page,
	) ([]domain.Listing, error)
	PreviewFee(
		ctx context.Context, listingID string, amount decimal.Decimal,
	) (decimal.Decimal, error)
}

func NewMarketService(
	repoManager ports.RepoManager, pubsubSvc PubSubService,
) (MarketService, error) {
	p := pubsubSvc.(*pubsub.Service)
	return market.NewService(repoManager, p)
}
