package restapi

import (
	"log/slog"
	"net/http"

	"elcmap/internal/graphic"
	"elcmap/internal/logging"
	"elcmap/internal/models"
)

func (api *RestAPI) layerHandler(w http.ResponseWriter, r *http.Request) {
	if api.Layer == nil {
		api.sendNotFound(w, r)
		return
	}

	features := api.Layer.Features()

	switch outputFormat(r.URL.Query().Get("format")) {
	case "", formatEsri:
		api.sendResponse(w, r, models.NewListResponse(features, false))
	case formatGeoJSON:
		api.sendResponse(w, r, models.NewOKResponse(graphic.ToGeoJSON(features)))
	default:
		api.validationErrorResponse(w, r, map[string][]string{
			"format": {"format must be one of esri, geojson"},
		})
	}
}

func (api *RestAPI) clearLayerHandler(w http.ResponseWriter, r *http.Request) {
	if api.Layer == nil {
		api.sendNotFound(w, r)
		return
	}

	removed := api.Layer.Clear()
	logging.LogOperation(logging.FromContext(r.Context()), "layer_cleared", slog.Int("removed", removed))
	api.sendResponse(w, r, models.NewEntryResponse(map[string]int{"removed": removed}))
}
