package pubsub_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pasta-science/marketd/internal/core/application/pubsub"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestWebhooks(t *testing.T) {
	t.Parallel()

	ps := &mockPubSub{}
	ps.On("Subscribe", pubsub.EventListingAdded, "http://localhost/hook", "").
		Return("id", nil)
	ps.On("Unsubscribe", ports.UnspecifiedTopic, "id").Return(nil)
	ps.On("ListSubscriptionsForTopic", ports.AnyTopic).
		Return([]ports.Subscription{})

	svc := pubsub.NewService(ps)

	id, err := svc.AddWebhook(ctx, pubsub.EventListingAdded, "http://localhost/hook", "")
	require.NoError(t, err)
	require.Equal(t, "id", id)

	_, err = svc.AddWebhook(ctx, "TRADE_SETTLED", "http://localhost/hook", "")
	require.EqualError(t, err, pubsub.ErrUnknownEvent.Error())

	_, err = svc.ListWebhooks(ctx, "TRADE_SETTLED")
	require.EqualError(t, err, pubsub.ErrUnknownEvent.Error())

	hooks, err := svc.ListWebhooks(ctx, ports.AnyTopic)
	require.NoError(t, err)
	require.Empty(t, hooks)

	err = svc.RemoveWebhook(ctx, "id")
	require.NoError(t, err)

	ps.AssertExpectations(t)
}

func TestPublish(t *testing.T) {
	t.Parallel()

	ps := &mockPubSub{}
	ps.On("Publish", pubsub.EventListingAdded, mock.Anything).Return(nil)

	svc := pubsub.NewService(ps)

	received := make([]string, 0)
	unregister := svc.RegisterObserver(func(event, message string) {
		received = append(received, message)
	})

	listing := domain.Listing{
		ID:             "d1c5cd2a-64a7-4d05-a3cd-5d0c4b2a0f0e",
		Price:          "100",
		FeeBasisPoints: 3,
	}
	err := svc.PublishListingAddedEvent(listing)
	require.NoError(t, err)
	require.Len(t, received, 1)

	payload := struct {
		Event   string                 `json:"event"`
		Listing map[string]interface{} `json:"listing"`
	}{}
	err = json.Unmarshal([]byte(received[0]), &payload)
	require.NoError(t, err)
	require.Equal(t, pubsub.EventListingAdded, payload.Event)
	require.Equal(t, listing.ID, payload.Listing["id"])
	require.Equal(t, "100", payload.Listing["price"])

	unregister()
	err = svc.PublishListingAddedEvent(listing)
	require.NoError(t, err)
	require.Len(t, received, 1)

	ps.AssertNumberOfCalls(t, "Publish", 2)
}

type mockPubSub struct {
	mock.Mock
}

func (m *mockPubSub) Subscribe(topic, endpoint, secret string) (string, error) {
	args := m.Called(topic, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSub) Unsubscribe(topic, id string) error {
	args := m.Called(topic, id)
	return args.Error(0)
}

func (m *mockPubSub) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	args := m.Called(topic)

	var res []ports.Subscription
	if a := args.Get(0); a != nil {
		res = a.([]ports.Subscription)
	}
	return res
}

func (m *mockPubSub) Publish(topic string, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

func (m *mockPubSub) Close() error {
	args := m.Called()
	return args.Error(0)
}
