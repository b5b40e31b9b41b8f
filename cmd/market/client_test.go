package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/require"
)

func newTestClient(server, token string) *client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 0
	retryClient.RetryWaitMax = 0
	return &client{server, token, retryClient}
}

func TestClientGetRetries(t *testing.T) {
	var count int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&count, 1) < 2 {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, `{"listings":[]}`)
		},
	))
	t.Cleanup(srv.Close)

	resp, err := newTestClient(srv.URL, "").get("/v1/listings")
	require.NoError(t, err)
	require.JSONEq(t, `{"listings":[]}`, string(resp))
	require.EqualValues(t, 2, atomic.LoadInt32(&count))
}

func TestClientPost(t *testing.T) {
	var count int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&count, 1)
			if r.Header.Get("Authorization") != "Bearer token" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"missing session, sign in first"}`)
				return
			}
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":"caller is the beneficiary"}`)
		},
	))
	t.Cleanup(srv.Close)

	_, err := newTestClient(srv.URL, "").post("/v1/listings", nil)
	require.Error(t, err)
	require.EqualValues(t, 0, atomic.LoadInt32(&count))

	_, err = newTestClient(srv.URL, "token").post("/v1/listings", map[string]string{})
	require.EqualError(t, err, "caller is the beneficiary (status 403)")
	require.EqualValues(t, 1, atomic.LoadInt32(&count))
}

func TestMerge(t *testing.T) {
	merged := merge(
		map[string]string{"server": "http://localhost:8080", "token": "a"},
		map[string]string{"token": "b"},
	)
	require.Equal(t, map[string]string{
		"server": "http://localhost:8080",
		"token":  "b",
	}, merged)
}
