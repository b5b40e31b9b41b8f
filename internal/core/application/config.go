package application

import (
	"fmt"

	"github.com/pasta-science/marketd/internal/core/application/auth"
	"github.com/pasta-science/marketd/internal/core/ports"
	webhookpubsub "github.com/pasta-science/marketd/internal/infrastructure/pubsub"
	dbbadger "github.com/pasta-science/marketd/internal/infrastructure/storage/db/badger"
	"github.com/pasta-science/marketd/internal/infrastructure/storage/db/inmemory"
	log "github.com/sirupsen/logrus"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

type Config struct {
	DBType string
	// DBConfig is the datadir for the badger db type.
	DBConfig interface{}

	AuthProvider              ports.AuthProvider
	AuthConfig                auth.Config
	DerivativeContractAddress string

	repo       ports.RepoManager
	pubsub     PubSubService
	market     MarketService
	derivative DerivativeService
	auth       AuthService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.pubsubService(); err != nil {
		return err
	}
	if _, err := c.marketService(); err != nil {
		return err
	}
	if _, err := c.derivativeService(); err != nil {
		return err
	}
	if _, err := c.authService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) PubSubService() PubSubService {
	svc, _ := c.pubsubService()
	return svc
}

func (c *Config) MarketService() MarketService {
	svc, _ := c.marketService()
	return svc
}

func (c *Config) DerivativeService() DerivativeService {
	svc, _ := c.derivativeService()
	return svc
}

func (c *Config) AuthService() AuthService {
	svc, _ := c.authService()
	return svc
}

// Close releases the stores opened by the services.
func (c *Config) Close() {
	if c.pubsub != nil {
		c.pubsub.Close()
	}
	if c.repo != nil {
		c.repo.Close()
	}
}

func (c *Config) datadir() string {
	if c.DBType != DBBadger || c.DBConfig == nil {
		return ""
	}
	datadir, _ := c.DBConfig.(string)
	return datadir
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			repoManager, err := dbbadger.NewRepoManager(c.datadir(), log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("unsupported db type %s", c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) pubsubService() (PubSubService, error) {
	if c.pubsub == nil {
		var store webhookpubsub.SubscriptionStore
		if c.DBType == DBBadger {
			s, err := webhookpubsub.NewBadgerStore(c.datadir(), log.New())
			if err != nil {
				return nil, err
			}
			store = s
		} else {
			store = webhookpubsub.NewInMemoryStore()
		}

		ps, err := webhookpubsub.NewService(store)
		if err != nil {
			return nil, err
		}
		c.pubsub = NewPubSubService(ps)
	}
	return c.pubsub, nil
}

func (c *Config) marketService() (MarketService, error) {
	if c.market == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, err := c.pubsubService()
		if err != nil {
			return nil, err
		}
		svc, err := NewMarketService(repo, pubsub)
		if err != nil {
			return nil, err
		}
		c.market = svc
	}
	return c.market, nil
}

func (c *Config) derivativeService() (DerivativeService, error) {
	if c.derivative == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, err := c.pubsubService()
		if err != nil {
			return nil, err
		}
		svc, err := NewDerivativeService(
			repo, pubsub, c.DerivativeContractAddress,
		)
		if err != nil {
			return nil, err
		}
		c.derivative = svc
	}
	return c.derivative, nil
}

func (c *Config) authService() (AuthService, error) {
	if c.auth == nil {
		svc, err := NewAuthService(c.AuthProvider, c.AuthConfig)
		if err != nil {
			return nil, err
		}
		c.auth = svc
	}
	return c.auth, nil
}
