package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elcmap/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveKey(handler http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/routes.json?key="+key, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	middleware := NewRateLimitMiddleware(5, time.Second)
	defer middleware.Stop()
	handler := middleware.Handler(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serveKey(handler, "test-api-key").Code, "request %d should be allowed", i+1)
	}
}

func TestRateLimitMiddleware_BlocksRequestsOverLimit(t *testing.T) {
	middleware := NewRateLimitMiddleware(3, time.Second)
	defer middleware.Stop()
	handler := middleware.Handler(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serveKey(handler, "test-api-key").Code)
	}

	w := serveKey(handler, "test-api-key")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var body models.ResponseModel
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	assert.Contains(t, body.Text, "Rate limit exceeded")
}

func TestRateLimitMiddleware_PerAPIKeyLimiting(t *testing.T) {
	middleware := NewRateLimitMiddleware(2, time.Second)
	defer middleware.Stop()
	handler := middleware.Handler(okHandler())

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serveKey(handler, "api-key-1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serveKey(handler, "api-key-1").Code)
	assert.Equal(t, http.StatusOK, serveKey(handler, "api-key-2").Code, "separate keys have separate budgets")
}

func TestRateLimitMiddleware_RequestsWithoutKeyShareABucket(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Second)
	defer middleware.Stop()
	handler := middleware.Handler(okHandler())

	assert.Equal(t, http.StatusOK, serveKey(handler, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveKey(handler, "").Code)
}

func TestRateLimitMiddleware_ExemptKeys(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Second, "map-client")
	defer middleware.Stop()
	handler := middleware.Handler(okHandler())

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, serveKey(handler, "map-client").Code)
	}
}

func TestRateLimitMiddleware_NegativeRateDisablesLimiting(t *testing.T) {
	middleware := NewRateLimitMiddleware(-1, time.Second)
	defer middleware.Stop()
	handler := middleware.Handler(okHandler())

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, serveKey(handler, "busy").Code)
	}
}

func TestRateLimitMiddleware_ZeroRateBlocks(t *testing.T) {
	middleware := NewRateLimitMiddleware(0, time.Second)
	defer middleware.Stop()

	w := serveKey(middleware.Handler(okHandler()), "any")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_RefillsOverTime(t *testing.T) {
	middleware := NewRateLimitMiddleware(10, time.Second)
	defer middleware.Stop()
	handler := middleware.Handler(okHandler())

	for i := 0; i < 10; i++ {
		serveKey(handler, "refill")
	}
	assert.Equal(t, http.StatusTooManyRequests, serveKey(handler, "refill").Code)

	assert.Eventually(t, func() bool {
		return serveKey(handler, "refill").Code == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRateLimitMiddleware_Concurrent(t *testing.T) {
	middleware := NewRateLimitMiddleware(20, time.Minute)
	defer middleware.Stop()
	handler := middleware.Handler(okHandler())

	var wg sync.WaitGroup
	var mu sync.Mutex
	codes := make(map[int]int)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := serveKey(handler, fmt.Sprintf("key-%d", i%2)).Code
			mu.Lock()
			codes[code]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 40, codes[http.StatusOK])
}

func TestRateLimitMiddleware_StopIsIdempotent(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Second)
	middleware.Stop()
	assert.NotPanics(t, middleware.Stop)
}

func TestRestAPIRateLimitFromConfig(t *testing.T) {
	api, _ := createTestApi(t)
	api.Shutdown()
	api.Config.RateLimit = 2
	limited := NewRestAPI(api.Application)
	t.Cleanup(limited.Shutdown)

	router := newTestRouter(limited)
	handler := limited.Handler(router)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serveEndpoint(handler, "/api/current-time.json?key=TEST").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serveEndpoint(handler, "/api/current-time.json?key=TEST").Code)
}
