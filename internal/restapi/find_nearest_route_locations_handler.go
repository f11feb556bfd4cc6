package restapi

import (
	"errors"
	"net/http"

	"elcmap/internal/elc"
	"elcmap/internal/models"
	"elcmap/internal/utils"
)

// defaultSearchRadius is in the units of inSR; 200 m for Web Mercator.
const defaultSearchRadius = 200

// findNearestRouteLocationsHandler answers a map click: the routes within
// radius of (x, y).
func (api *RestAPI) findNearestRouteLocationsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fieldErrors := make(map[string][]string)

	for _, key := range []string{"x", "y"} {
		if q.Get(key) == "" {
			fieldErrors[key] = append(fieldErrors[key], key+" is required")
		}
	}
	x, fieldErrors := utils.ParseFloatParam(q, "x", fieldErrors)
	y, fieldErrors := utils.ParseFloatParam(q, "y", fieldErrors)

	inSR, fieldErrors := utils.ParseIntParam(q, "inSR", api.Config.DefaultOutSR, fieldErrors)
	if err := utils.ValidateWKID(inSR); err != nil {
		fieldErrors["inSR"] = append(fieldErrors["inSR"], err.Error())
	}

	radius := float64(defaultSearchRadius)
	if q.Get("radius") != "" {
		radius, fieldErrors = utils.ParseFloatParam(q, "radius", fieldErrors)
	}
	if err := utils.ValidateRadius(radius); err != nil {
		fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
	}

	if inSR == models.WashingtonExtent.SpatialReference.WKID && len(fieldErrors) == 0 {
		if err := utils.ValidateLongitude(x); err != nil {
			fieldErrors["x"] = append(fieldErrors["x"], err.Error())
		}
		if err := utils.ValidateLatitude(y); err != nil {
			fieldErrors["y"] = append(fieldErrors["y"], err.Error())
		}
		if len(fieldErrors) == 0 && !models.WashingtonExtent.Contains(x, y) {
			fieldErrors["location"] = append(fieldErrors["location"], "point is outside Washington State")
		}
	}

	routeFilter, err := utils.ValidateAndSanitizeQuery(q.Get("routeFilter"))
	if err != nil {
		fieldErrors["routeFilter"] = append(fieldErrors["routeFilter"], err.Error())
	}

	referenceDate, err := utils.ParseReferenceDate(q.Get("referenceDate"))
	if err != nil {
		fieldErrors["referenceDate"] = append(fieldErrors["referenceDate"], err.Error())
	}

	lrsYear := q.Get("lrsYear")
	fieldErrors = api.validateLrsYear(lrsYear, fieldErrors)

	opts, fieldErrors := api.parseOutputOptions(q, api.Config.DefaultOutSR, fieldErrors)
	fieldErrors = api.validateOutputOptions(opts, fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	results, err := api.Locator.FindNearestRouteLocations(r.Context(), elc.FindNearestRouteLocationsParams{
		ReferenceDate: referenceDate,
		Coordinates:   []float64{x, y},
		InSR:          inSR,
		OutSR:         opts.outSR,
		LrsYear:       lrsYear,
		SearchRadius:  radius,
		RouteFilter:   routeFilter,
	})
	if err != nil {
		if errors.Is(err, elc.ErrInvalidParams) {
			api.validationErrorResponse(w, r, map[string][]string{"location": {err.Error()}})
			return
		}
		api.badGatewayResponse(w, r, err)
		return
	}

	api.sendLocations(w, r, results, opts)
}
