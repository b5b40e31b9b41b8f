package dbbadger

import (
	"context"
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const tokenSequenceKey = "tokenSequence"

type tokenSequence struct {
	LastTokenID uint64
}

type derivativeRepositoryImpl struct {
	store *badgerhold.Store
	lock  *sync.Mutex
}

// NewDerivativeRepositoryImpl initialize a badger implementation of the
// domain.DerivativeRepository
func NewDerivativeRepositoryImpl(store *badgerhold.Store) domain.DerivativeRepository {
	return &derivativeRepositoryImpl{store, &sync.Mutex{}}
}

// MintDerivative increments the token sequence and stores the derivative in
// the same transaction.
func (r *derivativeRepositoryImpl) MintDerivative(
	_ context.Context, derivative *domain.Derivative,
) (uint64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	d := *derivative
	if err := r.store.Badger().Update(func(tx *badger.Txn) error {
		seq := tokenSequence{}
		if err := r.store.TxGet(tx, tokenSequenceKey, &seq); err != nil {
			if !errors.Is(err, badgerhold.ErrNotFound) {
				return err
			}
		}
		seq.LastTokenID++

		if err := r.store.TxUpsert(tx, tokenSequenceKey, seq); err != nil {
			return err
		}

		d.TokenID = seq.LastTokenID
		return r.store.TxInsert(tx, d.TokenID, d)
	}); err != nil {
		return 0, err
	}

	*derivative = d
	return d.TokenID, nil
}

func (r *derivativeRepositoryImpl) GetDerivative(
	_ context.Context, tokenID uint64,
) (*domain.Derivative, error) {
	var derivative domain.Derivative
	if err := r.store.Get(tokenID, &derivative); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrDerivativeNotFound
		}
		return nil, err
	}
	return &derivative, nil
}

func (r *derivativeRepositoryImpl) GetDerivativesByOwner(
	_ context.Context, owner string, page *domain.Page,
) ([]domain.Derivative, error) {
	query := &badgerhold.Query{}
	if owner != "" {
		query = badgerhold.Where("Owner").Eq(domain.NormalizeAddress(owner))
	}
	query = query.SortBy("TokenID")
	if page != nil {
		query = query.Skip(page.Offset()).Limit(page.Size)
	}

	derivatives := make([]domain.Derivative, 0)
	if err := r.store.Find(&derivatives, query); err != nil {
		return nil, err
	}
	return derivatives, nil
}
