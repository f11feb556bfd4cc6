package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"elcmap/internal/app"
	"elcmap/internal/appconf"
	"elcmap/internal/catalog"
	"elcmap/internal/elc"
	"elcmap/internal/graphic"
	"elcmap/internal/models"
)

// fakeLocator records the last request and replays canned results.
type fakeLocator struct {
	mu          sync.Mutex
	results     []elc.RouteLocation
	err         error
	lastFind    *elc.FindRouteLocationsParams
	lastNearest *elc.FindNearestRouteLocationsParams
}

func (f *fakeLocator) FindRouteLocations(ctx context.Context, params elc.FindRouteLocationsParams) ([]elc.RouteLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFind = &params
	return f.results, f.err
}

func (f *fakeLocator) FindNearestRouteLocations(ctx context.Context, params elc.FindNearestRouteLocationsParams) ([]elc.RouteLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastNearest = &params
	return f.results, f.err
}

func ptr[T any](v T) *T { return &v }

func pointResult(route string, x, y float64) elc.RouteLocation {
	return elc.RouteLocation{
		Route: route,
		Srmp:  ptr(10.5),
		RouteGeometry: &models.Geometry{
			Type:             "Point:#ESRI.ArcGIS.SOESupport",
			X:                x,
			Y:                y,
			SpatialReference: &models.SpatialReference{WKID: 3857},
		},
	}
}

func lineResult(route string) elc.RouteLocation {
	return elc.RouteLocation{
		Route:  route,
		Arm:    ptr(1.0),
		EndArm: ptr(2.0),
		RouteGeometry: &models.Geometry{
			Type:  "Polyline:#ESRI.ArcGIS.SOESupport",
			Paths: [][][]float64{{{-122.5, 47.25}, {-122.4, 47.3}}},
		},
	}
}

// createTestApi creates a RestAPI backed by a fake locator and a mock catalog.
func createTestApi(t *testing.T) (*RestAPI, *fakeLocator) {
	t.Helper()

	locator := &fakeLocator{}
	application := &app.Application{
		Config: appconf.Config{
			Env:          appconf.EnvFlagToEnvironment("test"),
			ApiKeys:      []string{"TEST"},
			DefaultOutSR: appconf.DefaultOutSR,
		},
		Locator: locator,
		Catalog: catalog.NewMockManager(elc.RouteList{
			elc.CurrentLrsYear: {
				{Name: "005", LrsTypes: elc.LrsTypeBoth},
				{Name: "090", LrsTypes: elc.LrsTypeBoth},
			},
			"2014": {{Name: "005", LrsTypes: elc.LrsTypeIncrease}},
		}),
		Layer: graphic.NewLayer(10),
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api, locator
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, api *RestAPI, method, endpoint string, body any) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := newTestServer(t, api)

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, server.URL+endpoint, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&model))
	return resp, model
}

// serveAndRetrieveEndpoint issues a GET against a fresh test API.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	t.Helper()
	api, _ := createTestApi(t)
	resp, model := doRequest(t, api, http.MethodGet, endpoint, nil)
	return api, resp, model
}

// decodeFieldErrors reads a 400 validation body.
func decodeFieldErrors(t *testing.T, api *RestAPI, method, endpoint string, body any) (int, map[string][]string) {
	t.Helper()
	server := newTestServer(t, api)

	var reader io.Reader
	if s, ok := body.(string); ok {
		reader = bytes.NewBufferString(s)
	} else if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, server.URL+endpoint, reader)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out.FieldErrors
}

func dataMap(t *testing.T, model models.ResponseModel) map[string]any {
	t.Helper()
	data, ok := model.Data.(map[string]any)
	require.True(t, ok, "data should be an object, got %T", model.Data)
	return data
}


func newTestRouter(api *RestAPI) *httprouter.Router {
	router := httprouter.New()
	api.SetRoutes(router)
	return router
}

func serveEndpoint(handler http.Handler, endpoint string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, endpoint, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}
