package restapi

import (
	"net/http"

	"elcmap/internal/elc"
	"elcmap/internal/models"
)

// RoutesEntry is the route list for one LRS year.
type RoutesEntry struct {
	LrsYear     string      `json:"lrsYear"`
	Routes      []elc.Route `json:"routes"`
	Years       []string    `json:"years"`
	LastUpdated int64       `json:"lastUpdated"`
}

func (api *RestAPI) routesHandler(w http.ResponseWriter, r *http.Request) {
	if api.Catalog == nil {
		api.sendNotFound(w, r)
		return
	}

	lrsYear := r.URL.Query().Get("lrsYear")
	if lrsYear == "" {
		lrsYear = elc.CurrentLrsYear
	}

	routes := api.Catalog.Routes(lrsYear)
	if routes == nil {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(RoutesEntry{
		LrsYear:     lrsYear,
		Routes:      routes,
		Years:       api.Catalog.Years(),
		LastUpdated: api.Catalog.LastUpdated().UnixMilli(),
	}))
}
