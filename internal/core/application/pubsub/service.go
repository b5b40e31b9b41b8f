package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const (
	EventListingAdded        = "LISTING_ADDED"
	EventListingProprietary  = "LISTING_PROPRIETARY"
	EventListingPriceUpdated = "LISTING_PRICE_UPDATED"
	EventDerivativeMinted    = "DERIVATIVE_MINTED"
)

var (
	ErrUnknownEvent = fmt.Errorf("unknown webhook event")

	events = map[string]struct{}{
		EventListingAdded:        {},
		EventListingProprietary:  {},
		EventListingPriceUpdated: {},
		EventDerivativeMinted:    {},
		ports.AnyTopic:           {},
	}
)

// ObserverFunc is notified of every published event.
type ObserverFunc func(event, message string)

type Service struct {
	pubsub ports.PubSub

	lock      *sync.RWMutex
	observers map[string]ObserverFunc
}

func NewService(pubsub ports.PubSub) *Service {
	return &Service{
		pubsub:    pubsub,
		lock:      &sync.RWMutex{},
		observers: make(map[string]ObserverFunc),
	}
}

func (s *Service) AddWebhook(
	_ context.Context, event, endpoint, secret string,
) (string, error) {
	if _, ok := events[event]; !ok {
		return "", ErrUnknownEvent
	}
	return s.pubsub.Subscribe(event, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

func (s *Service) ListWebhooks(
	_ context.Context, event string,
) ([]ports.Subscription, error) {
	if event != ports.UnspecifiedTopic {
		if _, ok := events[event]; !ok {
			return nil, ErrUnknownEvent
		}
	}
	return s.pubsub.ListSubscriptionsForTopic(event), nil
}

// RegisterObserver adds a local listener of the published events. The
// returned function removes it.
func (s *Service) RegisterObserver(fn ObserverFunc) func() {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := uuid.New().String()
	s.observers[id] = fn
	return func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		delete(s.observers, id)
	}
}

func (s *Service) PublishListingAddedEvent(listing domain.Listing) error {
	return s.publish(EventListingAdded, map[string]interface{}{
		"listing": getListingPayload(listing),
	})
}

func (s *Service) PublishListingProprietaryEvent(listing domain.Listing) error {
	return s.publish(EventListingProprietary, map[string]interface{}{
		"listing":           getListingPayload(listing),
		"proprietor":        listing.Proprietor,
		"proprietary_value": listing.ProprietaryValue,
	})
}

func (s *Service) PublishListingPriceUpdatedEvent(
	listing domain.Listing, oldPrice string,
) error {
	return s.publish(EventListingPriceUpdated, map[string]interface{}{
		"listing":   getListingPayload(listing),
		"old_price": oldPrice,
	})
}

func (s *Service) PublishDerivativeMintedEvent(derivative domain.Derivative) error {
	return s.publish(EventDerivativeMinted, map[string]interface{}{
		"derivative": map[string]interface{}{
			"contract_address": derivative.ContractAddress,
			"token_id":         derivative.TokenID,
			"uri":              derivative.URI,
			"name":             derivative.Name,
			"slug":             derivative.Slug,
			"owner":            derivative.Owner,
		},
	})
}

func (s *Service) Close() {
	if err := s.pubsub.Close(); err != nil {
		log.WithError(err).Warn("failed to close pubsub store")
	}
}

func (s *Service) publish(event string, payload map[string]interface{}) error {
	payload["event"] = event
	payload["timestamp"] = time.Now().Unix()
	message, _ := json.Marshal(payload)

	s.lock.RLock()
	for _, fn := range s.observers {
		fn(event, string(message))
	}
	s.lock.RUnlock()

	return s.pubsub.Publish(event, string(message))
}

func getListingPayload(listing domain.Listing) map[string]interface{} {
	return map[string]interface{}{
		"id":               listing.ID,
		"contract_address": listing.ContractAddress,
		"token_id":         listing.TokenID,
		"price":            listing.Price,
		"beneficiary":      listing.Beneficiary,
		"seller":           listing.Seller,
		"fee_basis_points": listing.FeeBasisPoints,
		"proprietary":      listing.Proprietary,
	}
}
