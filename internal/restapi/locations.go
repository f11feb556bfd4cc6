package restapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/paulmach/orb/geojson"

	"elcmap/internal/elc"
	"elcmap/internal/graphic"
	"elcmap/internal/logging"
	"elcmap/internal/models"
	"elcmap/internal/utils"
)

// outputFormat selects the shape of feature responses.
type outputFormat string

const (
	formatEsri     outputFormat = "esri"
	formatGeoJSON  outputFormat = "geojson"
	formatPolyline outputFormat = "polyline"
)

// wgs84 is the only spatial reference encoded polylines can carry.
const wgs84 = 4326

// locationError reports a request item that produced no feature.
type locationError struct {
	Index   int    `json:"index"`
	Route   string `json:"route,omitempty"`
	Message string `json:"message"`
}

// FeaturesResult is the esri-format payload of the locate endpoints.
type FeaturesResult struct {
	Features         []graphic.RenderableFeature `json:"features"`
	Errors           []locationError             `json:"errors"`
	SpatialReference models.SpatialReference     `json:"spatialReference"`
	LayerSize        int                         `json:"layerSize,omitempty"`
	LayerEvicted     int                         `json:"layerEvicted,omitempty"`
}

// PolylineFeature is one located route as Google encoded polylines.
type PolylineFeature struct {
	Route      string         `json:"route"`
	Points     []string       `json:"points"`
	Attributes map[string]any `json:"attributes"`
}

type outputOptions struct {
	format     outputFormat
	outSR      int
	addToLayer bool
}

// parseOutputOptions reads format, outSR and addToLayer shared by the locate
// endpoints. outSR falls back to def.
func (api *RestAPI) parseOutputOptions(q url.Values, def int, fieldErrors map[string][]string) (outputOptions, map[string][]string) {
	var opts outputOptions

	switch f := outputFormat(q.Get("format")); f {
	case "":
		opts.format = formatEsri
	case formatEsri, formatGeoJSON, formatPolyline:
		opts.format = f
	default:
		fieldErrors["format"] = append(fieldErrors["format"], "format must be one of esri, geojson, polyline")
	}

	opts.outSR, fieldErrors = utils.ParseIntParam(q, "outSR", def, fieldErrors)
	opts.addToLayer, fieldErrors = utils.ParseBoolParam(q, "addToLayer", fieldErrors)
	return opts, fieldErrors
}

func (api *RestAPI) validateOutputOptions(opts outputOptions, fieldErrors map[string][]string) map[string][]string {
	if err := utils.ValidateWKID(opts.outSR); err != nil {
		fieldErrors["outSR"] = append(fieldErrors["outSR"], err.Error())
	}
	if opts.format == formatPolyline && opts.outSR != wgs84 {
		fieldErrors["format"] = append(fieldErrors["format"],
			fmt.Sprintf("polyline output requires outSR=%d", wgs84))
	}
	return fieldErrors
}

// validateLrsYear checks lrsYear against the catalog; "" is always allowed.
func (api *RestAPI) validateLrsYear(lrsYear string, fieldErrors map[string][]string) map[string][]string {
	if lrsYear == "" || api.Catalog == nil {
		return fieldErrors
	}
	if api.Catalog.Routes(lrsYear) == nil {
		fieldErrors["lrsYear"] = append(fieldErrors["lrsYear"], fmt.Sprintf("unknown LRS year %q", lrsYear))
	}
	return fieldErrors
}

// sendLocations converts locator results to features and writes them in the
// requested format. Items without a usable geometry are reported in errors.
func (api *RestAPI) sendLocations(w http.ResponseWriter, r *http.Request, results []elc.RouteLocation, opts outputOptions) {
	logger := logging.FromContext(r.Context())

	errs := make([]locationError, 0)
	located := make([]models.LocatedRoute, 0, len(results))
	sourceIndex := make([]int, 0, len(results))

	for i, result := range results {
		switch {
		case result.LocatingError != "":
			errs = append(errs, locationError{Index: i, Route: result.Route, Message: result.LocatingError})
		case result.RouteGeometry == nil:
			errs = append(errs, locationError{Index: i, Route: result.Route, Message: "no geometry returned"})
		default:
			located = append(located, result.ToLocatedRoute())
			sourceIndex = append(sourceIndex, i)
		}
	}

	features, failures := graphic.ToRenderableFeatures(located)
	for _, f := range failures {
		errs = append(errs, locationError{Index: sourceIndex[f.Index], Route: f.RouteID, Message: f.Err.Error()})
	}

	layerSize, layerEvicted := 0, 0
	if opts.addToLayer && api.Layer != nil && len(features) > 0 {
		layerSize, layerEvicted = api.Layer.Add(features...)
		if layerEvicted > 0 {
			logger.Warn("display layer full, oldest features evicted",
				slog.Int("evicted", layerEvicted),
				slog.Int("max_features", api.Layer.MaxFeatures()))
		}
	}

	vertices := 0
	for _, l := range located {
		vertices += l.Geometry.PointCount()
	}

	logging.LogOperation(logger, "routes_located",
		slog.Int("requested", len(results)),
		slog.Int("features", len(features)),
		slog.Int("vertices", vertices),
		slog.Int("errors", len(errs)),
		slog.String("format", string(opts.format)))

	spatialReference := models.SpatialReference{WKID: opts.outSR}

	switch opts.format {
	case formatGeoJSON:
		fc := graphic.ToGeoJSON(features)
		fc.ExtraMembers = geojson.Properties{
			"errors":           errs,
			"spatialReference": spatialReference,
		}
		if opts.addToLayer {
			fc.ExtraMembers["layerSize"] = layerSize
			fc.ExtraMembers["layerEvicted"] = layerEvicted
		}
		api.sendResponse(w, r, models.NewOKResponse(fc))
	case formatPolyline:
		encoded := make([]PolylineFeature, 0, len(features))
		for _, f := range features {
			encoded = append(encoded, PolylineFeature{
				Route:      f.RouteID(),
				Points:     graphic.EncodePaths(f.Geometry),
				Attributes: f.Attributes,
			})
		}
		data := map[string]any{
			"features": encoded,
			"errors":   errs,
		}
		if opts.addToLayer {
			data["layerSize"] = layerSize
			data["layerEvicted"] = layerEvicted
		}
		api.sendResponse(w, r, models.NewOKResponse(data))
	default:
		api.sendResponse(w, r, models.NewOKResponse(FeaturesResult{
			Features:         features,
			Errors:           errs,
			SpatialReference: spatialReference,
			LayerSize:        layerSize,
			LayerEvicted:     layerEvicted,
		}))
	}
}
