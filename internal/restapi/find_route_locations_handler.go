package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"elcmap/internal/elc"
	"elcmap/internal/utils"
)

const (
	maxRequestBodyBytes = 1 << 20
	maxLocations        = 100
)

type findRouteLocationsRequest struct {
	Locations     []elc.RouteLocation `json:"locations"`
	ReferenceDate string              `json:"referenceDate"`
	OutSR         int                 `json:"outSR"`
	LrsYear       string              `json:"lrsYear"`
}

func (api *RestAPI) findRouteLocationsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var body findRouteLocationsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {fmt.Sprintf("Invalid request body: %v", err)},
		})
		return
	}

	fieldErrors := make(map[string][]string)

	// The body's outSR is the default; a query parameter overrides it.
	defaultOutSR := api.Config.DefaultOutSR
	if body.OutSR != 0 {
		defaultOutSR = body.OutSR
	}
	opts, fieldErrors := api.parseOutputOptions(r.URL.Query(), defaultOutSR, fieldErrors)
	fieldErrors = api.validateOutputOptions(opts, fieldErrors)

	referenceDate, err := utils.ParseReferenceDate(body.ReferenceDate)
	if err != nil {
		fieldErrors["referenceDate"] = append(fieldErrors["referenceDate"], err.Error())
	}

	if len(body.Locations) > maxLocations {
		fieldErrors["locations"] = append(fieldErrors["locations"],
			fmt.Sprintf("too many locations (max %d)", maxLocations))
	}

	fieldErrors = api.validateLrsYear(body.LrsYear, fieldErrors)

	params := elc.FindRouteLocationsParams{
		Locations:     body.Locations,
		ReferenceDate: referenceDate,
		OutSR:         opts.outSR,
		LrsYear:       body.LrsYear,
	}
	for key, msgs := range params.Validate() {
		fieldErrors[key] = append(fieldErrors[key], msgs...)
	}

	for i, loc := range body.Locations {
		if loc.Route == "" {
			continue
		}
		key := fmt.Sprintf("locations[%d].Route", i)
		if err := utils.ValidateRouteID(loc.Route); err != nil {
			fieldErrors[key] = append(fieldErrors[key], err.Error())
			continue
		}
		if api.Catalog != nil && !api.Catalog.HasRoute(body.LrsYear, loc.Route) {
			fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("unknown route %q", loc.Route))
		}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	results, err := api.Locator.FindRouteLocations(r.Context(), params)
	if err != nil {
		if errors.Is(err, elc.ErrInvalidParams) {
			api.validationErrorResponse(w, r, map[string][]string{"locations": {err.Error()}})
			return
		}
		api.badGatewayResponse(w, r, err)
		return
	}

	api.sendLocations(w, r, results, opts)
}
