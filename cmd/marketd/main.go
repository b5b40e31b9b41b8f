package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pasta-science/marketd/internal/config"
	"github.com/pasta-science/marketd/internal/core/application"
	"github.com/pasta-science/marketd/internal/core/application/auth"
	moralisauth "github.com/pasta-science/marketd/internal/infrastructure/auth-provider/moralis"
	httpinterface "github.com/pasta-science/marketd/internal/interfaces/http"
	"github.com/pasta-science/marketd/pkg/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbType := config.GetString(config.DBTypeKey)
	dbDir := filepath.Join(datadir, config.DbLocation)
	profilerEnabled := config.GetBool(config.EnableProfilerKey)

	if !config.IsSet(config.SessionSecretKey) {
		log.Warn(
			"session secret not set, using a random one: sessions won't survive " +
				"a restart",
		)
	}

	authProvider, err := moralisauth.NewService(
		config.GetString(config.AuthProviderURLKey),
		config.GetString(config.AuthProviderAPIKeyKey),
		config.GetInt(config.AuthRateLimitKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init auth provider")
	}

	appConfig := &application.Config{
		DBType:       dbType,
		DBConfig:     dbDir,
		AuthProvider: authProvider,
		AuthConfig: auth.Config{
			Domain:        config.GetString(config.AuthDomainKey),
			Statement:     config.GetString(config.AuthStatementKey),
			URI:           config.GetString(config.AuthURIKey),
			Timeout:       config.GetSeconds(config.AuthTimeoutKey),
			SessionSecret: []byte(config.GetString(config.SessionSecretKey)),
			SessionTTL:    config.GetSeconds(config.SessionTTLKey),
		},
		DerivativeContractAddress: config.GetString(
			config.DerivativeContractAddressKey,
		),
	}
	if err := appConfig.Validate(); err != nil {
		appConfig.Close()
		log.WithError(err).Fatal("invalid application config")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:           config.GetInt(config.HTTPListeningPortKey),
		AdminAddresses: config.GetStringSlice(config.AdminAddressesKey),
		SecureCookie:   config.GetBool(config.SecureCookieKey),
		MarketSvc:      appConfig.MarketService(),
		DerivativeSvc:  appConfig.DerivativeService(),
		AuthSvc:        appConfig.AuthService(),
		PubSubSvc:      appConfig.PubSubService(),
		Registry:       registry,
	})
	if err != nil {
		appConfig.Close()
		log.WithError(err).Fatal("failed to init http interface")
	}

	ctx, cancel := context.WithCancel(context.Background())
	if profilerEnabled {
		stats.EnableMemoryStatistics(
			ctx, config.GetSeconds(config.StatsIntervalKey), registry,
			filepath.Join(datadir, config.ProfilerLocation),
		)
	}

	log.RegisterExitHandler(func() {
		cancel()
		svc.Stop()
		appConfig.Close()
	})

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start http interface")
	}
	log.Infof("marketd started with %s db", dbType)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
	cancel()
	svc.Stop()
	appConfig.Close()
	log.Info("exiting")
}
