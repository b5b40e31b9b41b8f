package market_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pasta-science/marketd/internal/core/application/market"
	"github.com/pasta-science/marketd/internal/core/application/pubsub"
	"github.com/pasta-science/marketd/internal/core/domain"
	webhookpubsub "github.com/pasta-science/marketd/internal/infrastructure/pubsub"
	"github.com/pasta-science/marketd/internal/infrastructure/storage/db/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	contractAddress = "0x8ba1f109551bd432803012645ac136ddd64dba72"
	beneficiary     = "0x1111111111111111111111111111111111111111"
	other           = "0x2222222222222222222222222222222222222222"
	tokenID         = uint64(1)
)

var (
	ctx   = context.Background()
	price = decimal.NewFromInt(100)
	value = decimal.NewFromInt(200)
)

func TestAddListing(t *testing.T) {
	t.Parallel()

	svc, events := newTestService(t)

	listing, err := svc.AddListing(
		ctx, beneficiary, contractAddress, tokenID, price, beneficiary, 3,
	)
	require.NoError(t, err)
	require.NotNil(t, listing)
	require.NotEmpty(t, listing.ID)

	stored, err := svc.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Exactly(t, *listing, *stored)
	require.False(t, stored.IsProprietary())

	event := waitForEvent(t, events)
	require.Equal(t, pubsub.EventListingAdded, event["event"])

	_, err = svc.AddListing(
		ctx, beneficiary, contractAddress, tokenID, price, beneficiary, 0,
	)
	require.EqualError(t, err, domain.ErrListingZeroFeeFromBeneficiary.Error())

	listings, err := svc.ListListings(ctx, domain.ListingFilter{}, nil)
	require.NoError(t, err)
	require.Len(t, listings, 1)
}

func TestMakeProprietary(t *testing.T) {
	t.Parallel()

	svc, events := newTestService(t)

	listing, err := svc.AddListing(
		ctx, beneficiary, contractAddress, tokenID, price, beneficiary, 3,
	)
	require.NoError(t, err)
	waitForEvent(t, events)

	_, err = svc.MakeProprietary(ctx, beneficiary, listing.ID, value)
	require.EqualError(t, err, domain.ErrListingCallerIsBeneficiary.Error())

	stored, err := svc.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	require.False(t, stored.IsProprietary())

	updated, err := svc.MakeProprietary(ctx, other, listing.ID, value)
	require.NoError(t, err)
	require.True(t, updated.IsProprietary())
	require.Equal(t, other, updated.Proprietor)

	event := waitForEvent(t, events)
	require.Equal(t, pubsub.EventListingProprietary, event["event"])
	require.Equal(t, value.String(), event["proprietary_value"])

	_, err = svc.MakeProprietary(ctx, other, listing.ID, value)
	require.EqualError(t, err, domain.ErrListingAlreadyProprietary.Error())

	_, err = svc.MakeProprietary(ctx, other, "unknown", value)
	require.EqualError(t, err, domain.ErrListingNotFound.Error())
}

func TestUpdateListingPrice(t *testing.T) {
	t.Parallel()

	svc, events := newTestService(t)

	listing, err := svc.AddListing(
		ctx, other, contractAddress, tokenID, price, beneficiary, 0,
	)
	require.NoError(t, err)
	waitForEvent(t, events)

	newPrice := decimal.NewFromInt(150)
	tests := []struct {
		name          string
		caller        string
		price         decimal.Decimal
		expectedError error
	}{
		{
			name:          "not_allowed",
			caller:        "0x3333333333333333333333333333333333333333",
			price:         newPrice,
			expectedError: domain.ErrListingCallerNotAllowed,
		},
		{
			name:          "invalid_price",
			caller:        beneficiary,
			price:         decimal.Zero,
			expectedError: domain.ErrListingInvalidPrice,
		},
	}
	for _, tt := range tests {
		_, err := svc.UpdateListingPrice(ctx, tt.caller, listing.ID, tt.price)
		require.EqualError(t, err, tt.expectedError.Error(), tt.name)
	}

	updated, err := svc.UpdateListingPrice(ctx, other, listing.ID, newPrice)
	require.NoError(t, err)
	require.True(t, newPrice.Equal(updated.GetPrice()))

	event := waitForEvent(t, events)
	require.Equal(t, pubsub.EventListingPriceUpdated, event["event"])
	require.Equal(t, price.String(), event["old_price"])
}

func TestPreviewFee(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	listing, err := svc.AddListing(
		ctx, beneficiary, contractAddress, tokenID, price, beneficiary, 250,
	)
	require.NoError(t, err)

	fee, err := svc.PreviewFee(ctx, listing.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(25).Equal(fee))

	_, err = svc.PreviewFee(ctx, listing.ID, decimal.NewFromInt(-1))
	require.EqualError(t, err, domain.ErrListingInvalidAmount.Error())

	_, err = svc.PreviewFee(ctx, "unknown", decimal.NewFromInt(1))
	require.EqualError(t, err, domain.ErrListingNotFound.Error())
}

func TestNewServiceMissingDeps(t *testing.T) {
	_, err := market.NewService(nil, nil)
	require.Error(t, err)

	_, err = market.NewService(inmemory.NewRepoManager(), nil)
	require.Error(t, err)
}

func newTestService(t *testing.T) (*market.Service, chan map[string]interface{}) {
	ps, err := webhookpubsub.NewService(webhookpubsub.NewInMemoryStore())
	require.NoError(t, err)
	pubsubSvc := pubsub.NewService(ps)

	events := make(chan map[string]interface{}, 10)
	pubsubSvc.RegisterObserver(func(_, message string) {
		event := make(map[string]interface{})
		//nolint
		json.Unmarshal([]byte(message), &event)
		events <- event
	})

	svc, err := market.NewService(inmemory.NewRepoManager(), pubsubSvc)
	require.NoError(t, err)
	return svc, events
}

func waitForEvent(t *testing.T, events chan map[string]interface{}) map[string]interface{} {
	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return nil
}
