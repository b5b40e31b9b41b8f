package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/pasta-science/marketd/internal/core/domain"
)

// DerivativeRepositoryImpl represents an in memory storage
type DerivativeRepositoryImpl struct {
	derivatives map[uint64]domain.Derivative
	lastTokenID uint64

	lock *sync.RWMutex
}

// NewDerivativeRepositoryImpl returns a new empty DerivativeRepositoryImpl
func NewDerivativeRepositoryImpl() domain.DerivativeRepository {
	return &DerivativeRepositoryImpl{
		derivatives: map[uint64]domain.Derivative{},
		lock:        &sync.RWMutex{},
	}
}

func (r *DerivativeRepositoryImpl) MintDerivative(
	_ context.Context, derivative *domain.Derivative,
) (uint64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.lastTokenID++
	derivative.TokenID = r.lastTokenID
	r.derivatives[derivative.TokenID] = *derivative

	return derivative.TokenID, nil
}

func (r *DerivativeRepositoryImpl) GetDerivative(
	_ context.Context, tokenID uint64,
) (*domain.Derivative, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	derivative, ok := r.derivatives[tokenID]
	if !ok {
		return nil, domain.ErrDerivativeNotFound
	}
	return &derivative, nil
}

func (r *DerivativeRepositoryImpl) GetDerivativesByOwner(
	_ context.Context, owner string, page *domain.Page,
) ([]domain.Derivative, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	derivatives := make([]domain.Derivative, 0)
	for _, d := range r.derivatives {
		if owner == "" || d.IsOwnedBy(owner) {
			derivatives = append(derivatives, d)
		}
	}
	sort.Slice(derivatives, func(i, j int) bool {
		return derivatives[i].TokenID < derivatives[j].TokenID
	})

	start, end := pageBounds(len(derivatives), page)
	return derivatives[start:end], nil
}
