package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type errorResponse struct {
	Error string `json:"error"`
}

// client talks to the marketd JSON API. Only GET requests are retried.
type client struct {
	server string
	token  string
	http   *retryablehttp.Client
}

func getClient() (*client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	server, ok := state["server"]
	if !ok || server == "" {
		return nil, errors.New("set server with `config set server`")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = 15 * time.Second

	return &client{
		server: strings.TrimSuffix(server, "/"),
		token:  state["token"],
		http:   retryClient,
	}, nil
}

func (c *client) get(path string) ([]byte, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, c.server+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	return readResponse(resp)
}

func (c *client) post(path string, body interface{}) ([]byte, error) {
	if c.token == "" {
		return nil, errors.New("set a session token with `config set token`")
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(
		http.MethodPost, c.server+path, bytes.NewReader(buf),
	)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req.Header)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	return readResponse(resp)
}

func (c *client) setHeaders(h http.Header) {
	h.Set("Accept", "application/json")
	if c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
}

func readResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e errorResponse
		if err := json.Unmarshal(buf, &e); err == nil && e.Error != "" {
			return nil, fmt.Errorf("%s (status %d)", e.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return buf, nil
}
