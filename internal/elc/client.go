// Package elc is a client for the WSDOT Enterprise Location Class (ELC) REST
// service, which converts state route measures to map coordinates and back.
package elc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"elcmap/internal/logging"
)

const DefaultBaseURL = "https://data.wsdot.wa.gov/arcgis/rest/services/Shared/ElcRestSOE/MapServer/exts/ElcRestSoe"

const (
	findRouteLocationsEndpoint        = "Find Route Locations"
	findNearestRouteLocationsEndpoint = "Find Nearest Route Locations"
	routesEndpoint                    = "routes"

	defaultRouteListTTL = time.Hour
	maxErrorBody        = 512
)

// Client talks to an ELC endpoint. The zero value is usable and targets
// DefaultBaseURL.
type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	Timeout      time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
	RouteListTTL time.Duration
	Logger       *slog.Logger

	mu              sync.Mutex
	routeList       RouteList
	routeListExpiry time.Time
}

// NewClient returns a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL}
}

// FindRouteLocations locates each of params.Locations on its route.
// Per-location failures come back in RouteLocation.LocatingError.
func (c *Client) FindRouteLocations(ctx context.Context, params FindRouteLocationsParams) ([]RouteLocation, error) {
	if err := validationError(params.Validate()); err != nil {
		return nil, err
	}
	q, err := params.query()
	if err != nil {
		return nil, err
	}

	var out []RouteLocation
	if err := c.getWithRetry(ctx, findRouteLocationsEndpoint, q, &out); err != nil {
		return nil, fmt.Errorf("find route locations: %w", err)
	}
	return out, nil
}

// FindNearestRouteLocations returns route locations within SearchRadius of
// the given coordinates.
func (c *Client) FindNearestRouteLocations(ctx context.Context, params FindNearestRouteLocationsParams) ([]RouteLocation, error) {
	if err := validationError(params.Validate()); err != nil {
		return nil, err
	}

	var out []RouteLocation
	if err := c.getWithRetry(ctx, findNearestRouteLocationsEndpoint, params.query(), &out); err != nil {
		return nil, fmt.Errorf("find nearest route locations: %w", err)
	}
	return out, nil
}

// GetRouteList returns the routes of every LRS year. Results are cached for
// RouteListTTL.
func (c *Client) GetRouteList(ctx context.Context) (RouteList, error) {
	if cached, ok := c.cachedRouteList(); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("f", "json")
	var out RouteList
	if err := c.getWithRetry(ctx, routesEndpoint, q, &out); err != nil {
		return nil, fmt.Errorf("get route list: %w", err)
	}

	c.mu.Lock()
	c.routeList = out
	c.routeListExpiry = time.Now().Add(c.effectiveRouteListTTL())
	c.mu.Unlock()
	return out, nil
}

// InvalidateRouteList drops the cached route list.
func (c *Client) InvalidateRouteList() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routeList = nil
	c.routeListExpiry = time.Time{}
}

func (c *Client) cachedRouteList() (RouteList, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.routeList == nil || time.Now().After(c.routeListExpiry) {
		return nil, false
	}
	return c.routeList, true
}

func (c *Client) getWithRetry(ctx context.Context, endpoint string, q url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.effectiveTimeout())
	defer cancel()

	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	baseSleep := c.BackoffBase
	if baseSleep <= 0 {
		baseSleep = time.Second
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		start := time.Now()
		err := c.getOnce(ctx, endpoint, q, out)
		logging.LogUpstreamCall(c.Logger, "elc", endpoint, attempt+1, time.Since(start), err)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isRetryable(err) || attempt == maxAttempts-1 {
			break
		}
		sleep := baseSleep << attempt
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return lastErr
}

func (c *Client) getOnce(ctx context.Context, endpoint string, q url.Values, out any) error {
	u := strings.TrimRight(c.baseURL(), "/") + "/" + url.PathEscape(endpoint) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.Logger, "elc_response_body")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if apiErr := parseAPIError(resp.StatusCode, body); apiErr != nil {
			return apiErr
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(truncate(body, maxErrorBody))),
		}
	}

	// ArcGIS reports many failures as 200 with an error object.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if apiErr := parseAPIError(resp.StatusCode, trimmed); apiErr != nil {
			return apiErr
		}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, errors.Join(ErrUnexpectedResponse, err))
	}
	return nil
}

// ErrUnexpectedResponse marks a well-formed body that does not match the
// expected shape.
var ErrUnexpectedResponse = errors.New("unexpected elc response")

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.effectiveTimeout()}
}

func (c *Client) effectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 15 * time.Second
}

func (c *Client) effectiveRouteListTTL() time.Duration {
	if c.RouteListTTL > 0 {
		return c.RouteListTTL
	}
	return defaultRouteListTTL
}
