package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func validateAPIKey(api *RestAPI, finalHandler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers the API endpoints on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/routes.json", validateAPIKey(api, api.routesHandler))
	router.Handler(http.MethodPost, "/api/find-route-locations.json", validateAPIKey(api, api.findRouteLocationsHandler))
	router.Handler(http.MethodGet, "/api/find-nearest-route-locations.json", validateAPIKey(api, api.findNearestRouteLocationsHandler))
	router.Handler(http.MethodGet, "/api/layer.json", validateAPIKey(api, api.layerHandler))
	router.Handler(http.MethodDelete, "/api/layer.json", validateAPIKey(api, api.clearLayerHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(api.sendMethodNotAllowed)
}

// Handler wraps h with the middleware chain. From the outside in: request ID,
// request logging, security headers, compression, rate limiting.
func (api *RestAPI) Handler(h http.Handler) http.Handler {
	h = api.rateLimiter.Handler(h)
	h = CompressionMiddleware(h)
	h = securityHeaders(h)
	h = NewRequestLoggingMiddleware(api.Logger)(h)
	return RequestIDMiddleware(h)
}
