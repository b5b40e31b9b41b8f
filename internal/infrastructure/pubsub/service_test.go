package pubsub_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/pasta-science/marketd/internal/core/ports"
	"github.com/pasta-science/marketd/internal/infrastructure/pubsub"
	"github.com/stretchr/testify/require"
)

var testMessage = `{"event":"LISTING_ADDED","listing":{"id":"d1c5cd2a-64a7-4d05-a3cd-5d0c4b2a0f0e","price":"100"}}`

func TestPubSubService(t *testing.T) {
	badgerStore, err := pubsub.NewBadgerStore("", nil)
	require.NoError(t, err)

	stores := []struct {
		name  string
		store pubsub.SubscriptionStore
	}{
		{"badger", badgerStore},
		{"inmemory", pubsub.NewInMemoryStore()},
	}

	for i := range stores {
		s := stores[i]
		t.Run(s.name, func(t *testing.T) {
			testPubSubService(t, s.store)
		})
	}
}

func testPubSubService(t *testing.T, store pubsub.SubscriptionStore) {
	server := newTestWebServer(t)
	t.Cleanup(server.Close)

	pubsubSvc, err := pubsub.NewService(store)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		pubsubSvc.Close()
	})

	testSubs := newTestSubs(server)
	for _, sub := range testSubs {
		subID, err := pubsubSvc.Subscribe(sub.Topic(), sub.Endpoint, sub.Secret)
		require.NoError(t, err)
		require.NotEmpty(t, subID)
	}

	subs := pubsubSvc.ListSubscriptionsForTopic("test")
	require.Len(t, subs, len(testSubs))
	for _, sub := range subs {
		require.NotEmpty(t, sub.Id())
		if sub.Topic() == ports.AnyTopic {
			require.False(t, sub.IsSecured())
		} else {
			require.True(t, sub.IsSecured())
		}
	}

	// Should invoke all hooks.
	err = pubsubSvc.Publish("test", testMessage)
	require.NoError(t, err)
	require.Equal(t, len(testSubs), server.count())

	for i, s := range subs {
		err := pubsubSvc.Unsubscribe(s.Topic(), s.Id())
		require.NoError(t, err)

		if s.Topic() == ports.AnyTopic {
			subs := pubsubSvc.ListSubscriptionsForTopic(ports.AnyTopic)
			require.Len(t, subs, 0)
		}
		subs := pubsubSvc.ListSubscriptionsForTopic(ports.UnspecifiedTopic)
		require.Len(t, subs, len(testSubs)-1-i)
	}

	err = pubsubSvc.Unsubscribe("", "unknown")
	require.EqualError(t, err, ports.ErrSubscriptionNotFound.Error())

	// Checks that it's all ok if there are no hooks to invoke.
	err = pubsubSvc.Publish("test1", testMessage)
	require.NoError(t, err)
}

func TestFailingPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		},
	))
	t.Cleanup(server.Close)

	pubsubSvc, err := pubsub.NewService(pubsub.NewInMemoryStore())
	require.NoError(t, err)

	_, err = pubsubSvc.Subscribe("test", server.URL, "")
	require.NoError(t, err)

	err = pubsubSvc.Publish("test", testMessage)
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}

func TestPublishAcceptsAnySuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusAccepted, http.StatusNoContent} {
		status := status
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(status)
				},
			))
			t.Cleanup(server.Close)

			pubsubSvc, err := pubsub.NewService(pubsub.NewInMemoryStore())
			require.NoError(t, err)

			_, err = pubsubSvc.Subscribe("test", server.URL, "")
			require.NoError(t, err)

			// More deliveries than the breaker tolerates as failures.
			for i := 0; i < 15; i++ {
				require.NoError(t, pubsubSvc.Publish("test", testMessage))
			}
		})
	}
}

func TestPublishRejectsRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotModified)
		},
	))
	t.Cleanup(server.Close)

	pubsubSvc, err := pubsub.NewService(pubsub.NewInMemoryStore())
	require.NoError(t, err)

	_, err = pubsubSvc.Subscribe("test", server.URL, "")
	require.NoError(t, err)

	err = pubsubSvc.Publish("test", testMessage)
	require.Error(t, err)
	require.Contains(t, err.Error(), "304")
}

func TestInvalidSubscription(t *testing.T) {
	pubsubSvc, err := pubsub.NewService(pubsub.NewInMemoryStore())
	require.NoError(t, err)

	tests := []struct {
		name     string
		topic    string
		endpoint string
	}{
		{"missing topic", "", "http://localhost:8080/hook"},
		{"invalid endpoint", "test", "not an url"},
		{"relative endpoint", "test", "/hook"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			id, err := pubsubSvc.Subscribe(tt.topic, tt.endpoint, "")
			require.Error(t, err)
			require.Empty(t, id)
		})
	}
}

type testWebServer struct {
	*httptest.Server
	secrets map[string]struct{}

	lock     *sync.Mutex
	requests int
}

func (s *testWebServer) count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.requests
}

func newTestWebServer(t *testing.T) *testWebServer {
	srv := &testWebServer{
		secrets: map[string]struct{}{},
		lock:    &sync.Mutex{},
	}
	srv.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "Bad method", http.StatusMethodNotAllowed)
				return
			}
			if r.Header.Get("Content-Type") == "" {
				http.Error(w, "Missing Content-Type header", http.StatusUnsupportedMediaType)
				return
			}
			if r.URL.Path == "/listings" {
				if err := verifyToken(r, srv.secrets); err != nil {
					http.Error(w, err.Error(), http.StatusUnauthorized)
					return
				}
			}

			defer r.Body.Close()
			payload, _ := io.ReadAll(r.Body)
			if string(payload) != testMessage {
				http.Error(w, "Unexpected payload", http.StatusBadRequest)
				return
			}

			srv.lock.Lock()
			srv.requests++
			srv.lock.Unlock()

			fmt.Fprintf(w, "Done")
			t.Logf("request info: %s %s", r.Method, r.URL.String())
		},
	))
	return srv
}

func verifyToken(r *http.Request, secrets map[string]struct{}) error {
	tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	for secret := range secrets {
		token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err == nil && token.Valid {
			return nil
		}
	}
	return fmt.Errorf("invalid token")
}

func newTestSubs(srv *testWebServer) []*pubsub.Subscription {
	serverURL := srv.URL
	subsDetails := []struct {
		topic    string
		endpoint string
		secret   string
	}{
		{"test", serverURL + "/listings", randomSecret()},
		{"test", serverURL + "/listings", randomSecret()},
		{"test", serverURL + "/listings", randomSecret()},
		{"*", serverURL + "/allevents", ""},
	}
	subs := make([]*pubsub.Subscription, 0, len(subsDetails))
	for _, d := range subsDetails {
		if d.secret != "" {
			srv.secrets[d.secret] = struct{}{}
		}
		sub, _ := pubsub.NewSubscription(d.topic, d.endpoint, d.secret)
		sub.ID = ""
		subs = append(subs, sub)
	}
	return subs
}

func randomSecret() string {
	b := make([]byte, 32)
	//nolint
	rand.Read(b)
	return hex.EncodeToString(b)
}
