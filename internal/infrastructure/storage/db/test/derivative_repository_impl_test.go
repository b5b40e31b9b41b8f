package db_test

import (
	"sync"
	"testing"

	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestDerivativeRepositoryImplementations(t *testing.T) {
	repoManagers, cancel := createRepoManagers(t)
	t.Cleanup(cancel)

	for i := range repoManagers {
		repoManager := repoManagers[i]

		t.Run(repoManager.Name, func(t *testing.T) {
			t.Run("testMintGetDerivative", func(t *testing.T) {
				testMintGetDerivative(t, repoManager.DerivativeRepository())
			})

			t.Run("testMintDerivative_concurrent", func(t *testing.T) {
				testMintDerivativeConcurrent(t, repoManager.DerivativeRepository())
			})

			t.Run("testGetDerivativesByOwner", func(t *testing.T) {
				testGetDerivativesByOwner(t, repoManager.DerivativeRepository())
			})
		})
	}
}

func testMintGetDerivative(t *testing.T, repo domain.DerivativeRepository) {
	d, err := repo.GetDerivative(ctx, 1)
	require.EqualError(t, err, domain.ErrDerivativeNotFound.Error())
	require.Nil(t, d)

	owner := randomAddress()
	for i := 1; i <= 3; i++ {
		derivative := makeRandomDerivative(t, owner)
		require.False(t, derivative.IsMinted())

		tokenID, err := repo.MintDerivative(ctx, derivative)
		require.NoError(t, err)
		require.Equal(t, uint64(i), tokenID)
		require.Equal(t, tokenID, derivative.TokenID)

		d, err := repo.GetDerivative(ctx, tokenID)
		require.NoError(t, err)
		require.Exactly(t, *derivative, *d)
		require.True(t, d.IsMinted())
	}
}

func testMintDerivativeConcurrent(t *testing.T, repo domain.DerivativeRepository) {
	owner := randomAddress()
	count := 10

	wg := &sync.WaitGroup{}
	wg.Add(count)
	tokenIDs := make(chan uint64, count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			tokenID, err := repo.MintDerivative(ctx, makeRandomDerivative(t, owner))
			require.NoError(t, err)
			tokenIDs <- tokenID
		}()
	}
	wg.Wait()
	close(tokenIDs)

	unique := make(map[uint64]struct{})
	for id := range tokenIDs {
		unique[id] = struct{}{}
	}
	require.Len(t, unique, count)
}

func testGetDerivativesByOwner(t *testing.T, repo domain.DerivativeRepository) {
	owner := randomAddress()

	minted := make([]uint64, 0, 4)
	for i := 0; i < 4; i++ {
		tokenID, err := repo.MintDerivative(ctx, makeRandomDerivative(t, owner))
		require.NoError(t, err)
		minted = append(minted, tokenID)

		_, err = repo.MintDerivative(ctx, makeRandomDerivative(t, randomAddress()))
		require.NoError(t, err)
	}

	derivatives, err := repo.GetDerivativesByOwner(ctx, owner, nil)
	require.NoError(t, err)
	require.Len(t, derivatives, 4)
	for i, d := range derivatives {
		require.Equal(t, minted[i], d.TokenID)
	}

	derivatives, err = repo.GetDerivativesByOwner(ctx, owner, domain.NewPage(2, 3))
	require.NoError(t, err)
	require.Len(t, derivatives, 1)
	require.Equal(t, minted[3], derivatives[0].TokenID)

	for _, page := range []*domain.Page{
		domain.NewPage(4611686018427387904, 4),
		{Number: 4611686018427387904, Size: 4},
	} {
		require.NotPanics(t, func() {
			derivatives, err = repo.GetDerivativesByOwner(ctx, owner, page)
		})
		require.NoError(t, err)
		require.Empty(t, derivatives)
	}

	all, err := repo.GetDerivativesByOwner(ctx, "", nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 8)
}
