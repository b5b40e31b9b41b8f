package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"os"
	"testing"

	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	dbbadger "github.com/pasta-science/marketd/internal/infrastructure/storage/db/badger"
	"github.com/pasta-science/marketd/internal/infrastructure/storage/db/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type repoManager struct {
	Name string
	ports.RepoManager
}

func createRepoManagers(t *testing.T) ([]repoManager, func()) {
	datadir, err := os.MkdirTemp("", "marketdb")
	require.NoError(t, err)

	badgerRepoManager, err := dbbadger.NewRepoManager(datadir, nil)
	require.NoError(t, err)

	return []repoManager{
			{
				Name:        "badger",
				RepoManager: badgerRepoManager,
			},
			{
				Name:        "inmemory",
				RepoManager: inmemory.NewRepoManager(),
			},
		}, func() {
			badgerRepoManager.Close()
			os.RemoveAll(datadir)
		}
}

func makeRandomListing(t *testing.T, contractAddress, beneficiary string) *domain.Listing {
	listing, err := domain.NewListing(
		randomAddress(), contractAddress, uint64(randomIntInRange(1, 1000)),
		decimal.NewFromInt(int64(randomIntInRange(1, 1000))),
		beneficiary, uint32(randomIntInRange(0, domain.MaxFeeBasisPoints)),
	)
	require.NoError(t, err)
	return listing
}

func makeRandomDerivative(t *testing.T, owner string) *domain.Derivative {
	derivative, err := domain.NewDerivative(
		randomAddress(), owner, "https://pasta.science/meta/"+randomHex(8), "",
	)
	require.NoError(t, err)
	return derivative
}

func randomAddress() string {
	return "0x" + randomHex(20)
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return int(n.Int64()) + min
}
