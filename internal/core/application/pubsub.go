package application

import (
	"context"

	"github.com/pasta-science/marketd/internal/core/application/pubsub"
	"github.com/pasta-science/marketd/internal/core/ports"
)

type PubSubService interface {
	AddWebhook(ctx context.Context, event, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, event string) ([]ports.Subscription, error)
	RegisterObserver(fn pubsub.ObserverFunc) func()
	Close()
}

func NewPubSubService(pubsubSvc ports.PubSub) PubSubService {
	return pubsub.NewService(pubsubSvc)
}
