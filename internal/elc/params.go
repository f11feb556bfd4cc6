package elc

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FindRouteLocationsParams locates explicit route measures.
type FindRouteLocationsParams struct {
	Locations     []RouteLocation
	ReferenceDate *time.Time
	OutSR         int
	LrsYear       string
}

// Validate reports field errors keyed like "locations[0].Route".
func (p FindRouteLocationsParams) Validate() map[string][]string {
	fieldErrors := make(map[string][]string)
	if len(p.Locations) == 0 {
		fieldErrors["locations"] = []string{"at least one location is required"}
	}
	for i, loc := range p.Locations {
		for field, msgs := range loc.Validate() {
			key := fmt.Sprintf("locations[%d].%s", i, field)
			fieldErrors[key] = append(fieldErrors[key], msgs...)
		}
	}
	if p.OutSR < 0 {
		fieldErrors["outSR"] = []string{"outSR must be a positive wkid"}
	}
	return fieldErrors
}

func (p FindRouteLocationsParams) query() (url.Values, error) {
	locations, err := json.Marshal(p.Locations)
	if err != nil {
		return nil, fmt.Errorf("encode locations: %w", err)
	}
	q := url.Values{}
	q.Set("f", "json")
	q.Set("locations", string(locations))
	setCommon(q, p.ReferenceDate, p.OutSR, p.LrsYear)
	return q, nil
}

// FindNearestRouteLocationsParams searches for routes near a coordinate.
type FindNearestRouteLocationsParams struct {
	ReferenceDate *time.Time
	Coordinates   []float64
	InSR          int
	OutSR         int
	LrsYear       string
	SearchRadius  float64
	RouteFilter   string
}

func (p FindNearestRouteLocationsParams) Validate() map[string][]string {
	fieldErrors := make(map[string][]string)
	if len(p.Coordinates) == 0 || len(p.Coordinates)%2 != 0 {
		fieldErrors["coordinates"] = append(fieldErrors["coordinates"], "coordinates must be x,y pairs")
	}
	for _, c := range p.Coordinates {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			fieldErrors["coordinates"] = append(fieldErrors["coordinates"], "coordinates must be finite")
			break
		}
	}
	if p.InSR <= 0 {
		fieldErrors["inSR"] = []string{"inSR is required"}
	}
	if math.IsNaN(p.SearchRadius) || p.SearchRadius < 0 {
		fieldErrors["radius"] = []string{"radius must be zero or greater"}
	}
	if p.OutSR < 0 {
		fieldErrors["outSR"] = []string{"outSR must be a positive wkid"}
	}
	return fieldErrors
}

func (p FindNearestRouteLocationsParams) query() url.Values {
	coords := make([]string, len(p.Coordinates))
	for i, c := range p.Coordinates {
		coords[i] = strconv.FormatFloat(c, 'f', -1, 64)
	}
	q := url.Values{}
	q.Set("f", "json")
	q.Set("coordinates", "["+strings.Join(coords, ",")+"]")
	q.Set("inSR", strconv.Itoa(p.InSR))
	q.Set("searchRadius", strconv.FormatFloat(p.SearchRadius, 'f', -1, 64))
	if p.RouteFilter != "" {
		q.Set("routeFilter", p.RouteFilter)
	}
	setCommon(q, p.ReferenceDate, p.OutSR, p.LrsYear)
	return q
}

func setCommon(q url.Values, referenceDate *time.Time, outSR int, lrsYear string) {
	if referenceDate != nil && !referenceDate.IsZero() {
		q.Set("referenceDate", FormatDate(*referenceDate))
	}
	if outSR > 0 {
		q.Set("outSR", strconv.Itoa(outSR))
	}
	if lrsYear != "" {
		q.Set("lrsYear", lrsYear)
	}
}

func validationError(fieldErrors map[string][]string) error {
	if len(fieldErrors) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fieldErrors))
	for k := range fieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(keys, ", "))
}
