package data

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const vpnapiBaseURL = "https://vpnapi.io/api"

// vpnapi.io answers within a couple of seconds when healthy; anything
// slower is treated as a failure rather than blocking the caller.
const requestTimeout = 5 * time.Second

// RemoteError reports a non-success HTTP status from the upstream service.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("vpnapi: unexpected status %d: %s", e.StatusCode, e.Body)
}

// VPNAPIClient implements InfoLookup against the vpnapi.io HTTP API.
type VPNAPIClient struct {
	client *resty.Client

	mu  sync.RWMutex
	key string
}

// NewVPNAPIClient creates a client authenticated with the given API key.
func NewVPNAPIClient(apiKey string) *VPNAPIClient {
	return newVPNAPIClient(vpnapiBaseURL, apiKey)
}

func newVPNAPIClient(baseURL, apiKey string) *VPNAPIClient {
	return &VPNAPIClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout),
		key: apiKey,
	}
}

// SetAPIKey swaps the API key used for subsequent requests.
func (c *VPNAPIClient) SetAPIKey(apiKey string) {
	c.mu.Lock()
	c.key = apiKey
	c.mu.Unlock()
}

// LookupInfo issues one GET to the upstream API and parses the response.
// The IP string is interpolated without validation; the service's own error
// response surfaces as a *RemoteError.
func (c *VPNAPIClient) LookupInfo(ctx context.Context, ip string) (*RawInfo, error) {
	c.mu.RLock()
	key := c.key
	c.mu.RUnlock()

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("key", key).
		Get("/" + ip)
	if err != nil {
		return nil, fmt.Errorf("vpnapi request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &RemoteError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var info RawInfo
	if err := json.Unmarshal(resp.Body(), &info); err != nil {
		return nil, fmt.Errorf("vpnapi response decode failed: %w", err)
	}
	info.Normalize()
	return &info, nil
}

// Close is a no-op; the underlying HTTP client holds no resources that
// outlive its idle connections.
func (c *VPNAPIClient) Close() error {
	return nil
}
