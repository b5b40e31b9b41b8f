package pubsub

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const subscriptionsDir = "subscriptions"

// SubscriptionStore persists the webhooks registered to the pubsub service.
type SubscriptionStore interface {
	Add(sub Subscription) error
	Get(id string) (*Subscription, error)
	Remove(id string) error
	// ListForEvent returns the subscriptions for the given event, or all of
	// them if the event is unspecified, sorted by id.
	ListForEvent(event string) ([]Subscription, error)
	Close() error
}

type badgerStore struct {
	store *badgerhold.Store
}

// NewBadgerStore opens the subscriptions db under the given datadir. An empty
// datadir opens it in memory.
func NewBadgerStore(datadir string, logger badger.Logger) (SubscriptionStore, error) {
	var dbDir string
	if len(datadir) > 0 {
		dbDir = filepath.Join(datadir, subscriptionsDir)
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if len(dbDir) <= 0 {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}
	return &badgerStore{store}, nil
}

func (s *badgerStore) Add(sub Subscription) error {
	return s.store.Insert(sub.ID, sub)
}

func (s *badgerStore) Get(id string) (*Subscription, error) {
	var sub Subscription
	if err := s.store.Get(id, &sub); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ports.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *badgerStore) Remove(id string) error {
	if err := s.store.Delete(id, Subscription{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ports.ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *badgerStore) ListForEvent(event string) ([]Subscription, error) {
	query := &badgerhold.Query{}
	if event != "" {
		query = badgerhold.Where("Event").Eq(event)
	}

	subs := make([]Subscription, 0)
	if err := s.store.Find(&subs, query.SortBy("ID")); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *badgerStore) Close() error {
	return s.store.Close()
}

type inmemoryStore struct {
	subs map[string]Subscription
	lock *sync.RWMutex
}

// NewInMemoryStore returns a volatile SubscriptionStore.
func NewInMemoryStore() SubscriptionStore {
	return &inmemoryStore{
		subs: map[string]Subscription{},
		lock: &sync.RWMutex{},
	}
}

func (s *inmemoryStore) Add(sub Subscription) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.subs[sub.ID]; ok {
		return badgerhold.ErrKeyExists
	}
	s.subs[sub.ID] = sub
	return nil
}

func (s *inmemoryStore) Get(id string) (*Subscription, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, ports.ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (s *inmemoryStore) Remove(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.subs[id]; !ok {
		return ports.ErrSubscriptionNotFound
	}
	delete(s.subs, id)
	return nil
}

func (s *inmemoryStore) ListForEvent(event string) ([]Subscription, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	subs := make([]Subscription, 0)
	for _, sub := range s.subs {
		if event == "" || sub.Event == event {
			subs = append(subs, sub)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

func (s *inmemoryStore) Close() error {
	return nil
}
