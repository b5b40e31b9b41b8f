package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pasta-science/marketd/internal/core/application"
	"github.com/pasta-science/marketd/internal/core/domain"
	moralisauth "github.com/pasta-science/marketd/internal/infrastructure/auth-provider/moralis"
	"github.com/spf13/viper"
	"github.com/thanhpk/randstr"
)

const (
	// HTTPListeningPortKey is the port where the HTTP interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// AuthProviderURLKey is the base url of the wallet-auth provider
	AuthProviderURLKey = "AUTH_PROVIDER_URL"
	// AuthProviderAPIKeyKey is the api key sent to the wallet-auth provider
	AuthProviderAPIKeyKey = "AUTH_PROVIDER_API_KEY"
	// AuthDomainKey is the domain requesting the sign-in messages
	AuthDomainKey = "AUTH_DOMAIN"
	// AuthStatementKey is the statement shown in the sign-in messages
	AuthStatementKey = "AUTH_STATEMENT"
	// AuthURIKey is the uri of the app requesting the sign-in messages
	AuthURIKey = "AUTH_URI"
	// AuthTimeoutKey is the validity in seconds of a sign-in message
	AuthTimeoutKey = "AUTH_TIMEOUT"
	// AuthRateLimitKey is the max number of requests per second sent to the
	// wallet-auth provider
	AuthRateLimitKey = "AUTH_RATE_LIMIT"
	// SessionSecretKey is the secret used to sign session tokens. A random one
	// is generated at every start if not set, invalidating previous sessions
	SessionSecretKey = "SESSION_SECRET"
	// SessionTTLKey is the validity in seconds of a session
	SessionTTLKey = "SESSION_TTL"
	// SecureCookieKey marks the session cookie as https only
	SecureCookieKey = "SECURE_COOKIE"
	// DerivativeContractAddressKey is the address of the contract the
	// derivatives are minted for
	DerivativeContractAddressKey = "DERIVATIVE_CONTRACT_ADDRESS"
	// AdminAddressesKey is the comma separated list of accounts allowed to
	// manage webhooks
	AdminAddressesKey = "ADMIN_ADDRESSES"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic marketd statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	defaultDerivativeContractAddress = "0x5fbdb2315678afecb367f032d93f642f64180aa3"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("marketd", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("MARKETD")
	vip.AutomaticEnv()

	vip.SetDefault(HTTPListeningPortKey, 8080)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(AuthProviderURLKey, moralisauth.DefaultBaseURL)
	vip.SetDefault(AuthDomainKey, "auth.app")
	vip.SetDefault(AuthStatementKey, "Pasta Science Auth")
	vip.SetDefault(AuthURIKey, "http://localhost:3000")
	vip.SetDefault(AuthTimeoutKey, 60)
	vip.SetDefault(AuthRateLimitKey, 10)
	vip.SetDefault(SessionSecretKey, randstr.Hex(32))
	vip.SetDefault(SessionTTLKey, 24*60*60)
	vip.SetDefault(SecureCookieKey, false)
	vip.SetDefault(DerivativeContractAddressKey, defaultDerivativeContractAddress)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetStringSlice splits comma separated values, as env vars can't carry
// lists.
func GetStringSlice(key string) []string {
	list := make([]string, 0)
	for _, v := range strings.Split(vip.GetString(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}

// GetSeconds returns the value of a key expressed in seconds as duration.
func GetSeconds(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

// IsSet returns whether the key has been set through env, ignoring defaults.
func IsSet(key string) bool {
	_, ok := os.LookupEnv("MARKETD_" + key)
	return ok
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if port := GetInt(HTTPListeningPortKey); port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be in range [1, 65535]", HTTPListeningPortKey)
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	if len(GetString(AuthProviderAPIKeyKey)) <= 0 {
		return fmt.Errorf("missing auth provider api key")
	}
	if GetInt(AuthTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds", AuthTimeoutKey)
	}
	if GetInt(AuthRateLimitKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", AuthRateLimitKey)
	}
	if GetInt(SessionTTLKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds", SessionTTLKey)
	}

	addr := domain.NormalizeAddress(GetString(DerivativeContractAddressKey))
	if !domain.IsValidAddress(addr) {
		return fmt.Errorf("invalid derivative contract address")
	}
	for _, addr := range GetStringSlice(AdminAddressesKey) {
		if !domain.IsValidAddress(domain.NormalizeAddress(addr)) {
			return fmt.Errorf("invalid admin address %s", addr)
		}
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) == application.DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
