// Package restapi serves the route-locating JSON API.
package restapi

import (
	"time"

	"elcmap/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter.
// A configured rate limit of zero disables limiting.
func NewRestAPI(app *app.Application) *RestAPI {
	limit := app.Config.RateLimit
	if limit <= 0 {
		limit = -1
	}
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(limit, time.Second),
	}
}

// Shutdown stops the rate limiter's background cleanup.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
