package dbbadger

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	listingsDir    = "listings"
	derivativesDir = "derivatives"
)

type repoManager struct {
	listingStore    *badgerhold.Store
	derivativeStore *badgerhold.Store

	listingRepository    domain.ListingRepository
	derivativeRepository domain.DerivativeRepository
}

// NewRepoManager opens (or creates if not exists) the badger stores on disk.
// It expects a base data dir and an optional logger. If the data dir is
// empty, the stores are kept in memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var listingDbDir, derivativeDbDir string
	if len(baseDbDir) > 0 {
		listingDbDir = filepath.Join(baseDbDir, listingsDir)
		derivativeDbDir = filepath.Join(baseDbDir, derivativesDir)
	}

	listingStore, err := createDb(listingDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening listings db: %w", err)
	}

	derivativeStore, err := createDb(derivativeDbDir, logger)
	if err != nil {
		//nolint
		listingStore.Close()
		return nil, fmt.Errorf("opening derivatives db: %w", err)
	}

	return &repoManager{
		listingStore:         listingStore,
		derivativeStore:      derivativeStore,
		listingRepository:    NewListingRepositoryImpl(listingStore),
		derivativeRepository: NewDerivativeRepositoryImpl(derivativeStore),
	}, nil
}

func (d *repoManager) ListingRepository() domain.ListingRepository {
	return d.listingRepository
}

func (d *repoManager) DerivativeRepository() domain.DerivativeRepository {
	return d.derivativeRepository
}

func (d *repoManager) Close() {
	//nolint
	d.listingStore.Close()
	//nolint
	d.derivativeStore.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
