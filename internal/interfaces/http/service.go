package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pasta-science/marketd/internal/core/application"
	"github.com/pasta-science/marketd/internal/core/domain"
	interfaces "github.com/pasta-science/marketd/internal/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	Port int
	// AdminAddresses are the accounts allowed to manage webhooks.
	AdminAddresses []string
	// SecureCookie marks the session cookie as https only.
	SecureCookie bool

	MarketSvc     application.MarketService
	DerivativeSvc application.DerivativeService
	AuthSvc       application.AuthService
	PubSubSvc     application.PubSubService

	// Registry is where the HTTP metrics are registered. Defaults to a new
	// registry.
	Registry *prometheus.Registry
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}
	for _, addr := range o.AdminAddresses {
		if !domain.IsValidAddress(domain.NormalizeAddress(addr)) {
			return fmt.Errorf("invalid admin address %s", addr)
		}
	}
	if o.MarketSvc == nil {
		return fmt.Errorf("market app service must not be null")
	}
	if o.DerivativeSvc == nil {
		return fmt.Errorf("derivative app service must not be null")
	}
	if o.AuthSvc == nil {
		return fmt.Errorf("auth app service must not be null")
	}
	if o.PubSubSvc == nil {
		return fmt.Errorf("pubsub app service must not be null")
	}
	return nil
}

type service struct {
	opts     ServiceOpts
	admins   map[string]struct{}
	registry *prometheus.Registry
	metrics  *metrics
	pages    *pages
	events   *eventsHub

	server *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	return newService(opts)
}

// NewHandler returns the router of the HTTP interface without binding any
// port.
func NewHandler(opts ServiceOpts) (http.Handler, error) {
	if opts.Port == 0 {
		opts.Port = 80
	}
	svc, err := newService(opts)
	if err != nil {
		return nil, err
	}
	return svc.server.Handler, nil
}

func newService(opts ServiceOpts) (*service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m, err := newMetrics(registry)
	if err != nil {
		return nil, err
	}

	p, err := newPages()
	if err != nil {
		return nil, err
	}

	admins := make(map[string]struct{})
	for _, addr := range opts.AdminAddresses {
		admins[domain.NormalizeAddress(addr)] = struct{}{}
	}

	svc := &service{
		opts:     opts,
		admins:   admins,
		registry: registry,
		metrics:  m,
		pages:    p,
		events:   newEventsHub(opts.PubSubSvc),
	}
	svc.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           svc.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return svc, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server stopped unexpectedly")
		}
	}()
	log.Infof("http server listening on %s", s.server.Addr)
	return nil
}

func (s *service) Stop() {
	s.events.close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("http server forced to shutdown")
	}
	log.Debug("stopped http server")
}

func (s *service) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger, s.metrics.middleware, s.withSession)

	// Pages
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/user", s.handleUser).Methods(http.MethodGet)
	r.HandleFunc("/signin", s.handleSignin).Methods(http.MethodGet)

	// Auth
	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/request-message", s.handleRequestMessage).Methods(http.MethodPost)
	a.HandleFunc("/verify", s.handleVerify).Methods(http.MethodPost)
	a.HandleFunc("/signout", s.handleSignout).Methods(http.MethodPost)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Derivatives
	v1.HandleFunc("/derivatives", requireSession(s.handleMintDerivative)).
		Methods(http.MethodPost)
	v1.HandleFunc("/derivatives", s.handleListDerivatives).
		Methods(http.MethodGet)
	v1.HandleFunc("/derivatives/{tokenId:[0-9]+}", s.handleGetDerivative).
		Methods(http.MethodGet)

	// Listings
	v1.HandleFunc("/listings", requireSession(s.handleAddListing)).
		Methods(http.MethodPost)
	v1.HandleFunc("/listings", s.handleListListings).Methods(http.MethodGet)
	v1.HandleFunc("/listings/{id}", s.handleGetListing).Methods(http.MethodGet)
	v1.HandleFunc("/listings/{id}/proprietary", requireSession(s.handleMakeProprietary)).
		Methods(http.MethodPost)
	v1.HandleFunc("/listings/{id}/price", requireSession(s.handleUpdateListingPrice)).
		Methods(http.MethodPost)
	v1.HandleFunc("/listings/{id}/fee", s.handlePreviewFee).Methods(http.MethodGet)

	// Events
	v1.HandleFunc("/events", s.events.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/webhooks", s.requireAdmin(s.handleAddWebhook)).
		Methods(http.MethodPost)
	v1.HandleFunc("/webhooks", s.requireAdmin(s.handleListWebhooks)).
		Methods(http.MethodGet)
	v1.HandleFunc("/webhooks/{id}", s.requireAdmin(s.handleRemoveWebhook)).
		Methods(http.MethodDelete)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).
		Methods(http.MethodGet)

	r.NotFoundHandler = notFoundHandler()
	return r
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1") || strings.HasPrefix(r.URL.Path, "/api") {
			writeJSON(w, http.StatusNotFound, errorResponse{"route not found"})
			return
		}
		http.Error(w, "Page not found", http.StatusNotFound)
	})
}
