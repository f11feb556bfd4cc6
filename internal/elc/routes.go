package elc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// CurrentLrsYear is the route list key for the current LRS publication.
const CurrentLrsYear = "Current"

// LrsType is a bit set describing which directions of a route exist.
type LrsType int

const (
	LrsTypeIncrease LrsType = 1
	LrsTypeDecrease LrsType = 2
	LrsTypeBoth     LrsType = LrsTypeIncrease | LrsTypeDecrease
	LrsTypeRamp     LrsType = 4
	LrsTypeTurnback LrsType = 8
)

// Has reports whether every bit of flag is set.
func (t LrsType) Has(flag LrsType) bool {
	return t&flag == flag
}

func (t LrsType) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	if t.Has(LrsTypeBoth) {
		parts = append(parts, "both")
	} else if t.Has(LrsTypeIncrease) {
		parts = append(parts, "increase")
	} else if t.Has(LrsTypeDecrease) {
		parts = append(parts, "decrease")
	}
	if t.Has(LrsTypeRamp) {
		parts = append(parts, "ramp")
	}
	if t.Has(LrsTypeTurnback) {
		parts = append(parts, "turnback")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("LrsType(%d)", int(t))
	}
	return strings.Join(parts, "|")
}

// Route is a single state route within an LRS year.
type Route struct {
	Name     string  `json:"name"`
	LrsTypes LrsType `json:"lrsTypes"`
}

// RouteList maps an LRS year ("Current", "2014", ...) to its routes, sorted
// by name.
type RouteList map[string][]Route

// Current returns the routes of the current LRS publication.
func (l RouteList) Current() []Route {
	return l[CurrentLrsYear]
}

// Years returns the LRS year keys in sorted order.
func (l RouteList) Years() []string {
	years := make([]string, 0, len(l))
	for year := range l {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// Find returns the named route in the given year.
func (l RouteList) Find(lrsYear, name string) (Route, bool) {
	for _, r := range l[lrsYear] {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// UnmarshalJSON accepts {"Current":{"005":3}} and the older
// {"Current":[{"name":"005","lrsTypes":3}]} shapes.
func (l *RouteList) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode route list: %w", err)
	}
	out := make(RouteList, len(raw))
	for year, body := range raw {
		routes, err := decodeYear(body)
		if err != nil {
			return fmt.Errorf("decode route list year %q: %w", year, err)
		}
		out[year] = routes
	}
	*l = out
	return nil
}

func decodeYear(body json.RawMessage) ([]Route, error) {
	var flags map[string]LrsType
	if err := json.Unmarshal(body, &flags); err == nil {
		routes := make([]Route, 0, len(flags))
		for name, t := range flags {
			routes = append(routes, Route{Name: name, LrsTypes: t})
		}
		sortRoutes(routes)
		return routes, nil
	}
	var routes []Route
	if err := json.Unmarshal(body, &routes); err != nil {
		return nil, err
	}
	sortRoutes(routes)
	return routes, nil
}

func sortRoutes(routes []Route) {
	sort.Slice(routes, func(i, j int) bool { return routes[i].Name < routes[j].Name })
}
