package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGeometryKind is returned when a geometry discriminator is neither
// a point nor a polyline.
var ErrUnknownGeometryKind = errors.New("unknown geometry kind")

// GeometryKind is the closed set of shapes a located route can carry.
type GeometryKind int

const (
	GeometryKindUnknown GeometryKind = iota
	GeometryKindPoint
	GeometryKindPolyline
)

// String returns the rendering host's name for the kind.
func (k GeometryKind) String() string {
	switch k {
	case GeometryKindPoint:
		return "point"
	case GeometryKindPolyline:
		return "polyline"
	default:
		return "unknown"
	}
}

// ParseGeometryKind classifies a discriminator tag such as
// "esri.geometry.Point" or "Polyline:#ESRI.ArcGIS.SOESupport".
// Polyline is tested first.
func ParseGeometryKind(tag string) (GeometryKind, error) {
	lower := strings.ToLower(tag)
	switch {
	case strings.Contains(lower, "polyline"):
		return GeometryKindPolyline, nil
	case strings.Contains(lower, "point"):
		return GeometryKindPoint, nil
	default:
		return GeometryKindUnknown, fmt.Errorf("%w: %q", ErrUnknownGeometryKind, tag)
	}
}

// SpatialReference identifies a coordinate system by well-known ID.
type SpatialReference struct {
	WKID       int `json:"wkid,omitempty"`
	LatestWKID int `json:"latestWkid,omitempty"`
}

// Geometry is a located route's shape as delivered by the locator service.
// Type is the raw discriminator; X/Y are set for points and Paths for polylines.
type Geometry struct {
	Type             string            `json:"__type"`
	X                float64           `json:"x"`
	Y                float64           `json:"y"`
	M                *float64          `json:"m,omitempty"`
	Z                *float64          `json:"z,omitempty"`
	Paths            [][][]float64     `json:"paths,omitempty"`
	SpatialReference *SpatialReference `json:"spatialReference,omitempty"`
}

// Discriminators given to geometries that arrive without "__type".
const (
	PointTag    = "esri.geometry.Point"
	PolylineTag = "esri.geometry.Polyline"
	PolygonTag  = "esri.geometry.Polygon"
)

// UnmarshalJSON reads the ArcGIS JSON form. The service omits "__type" for
// plain JSON geometries, so a missing discriminator is taken from the keys
// present: paths is a polyline, x and y a point, rings a polygon. Anything
// else keeps an empty Type and fails classification.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	type plain Geometry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Geometry(p)
	if g.Type != "" {
		return nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	switch {
	case present(keys, "paths"):
		g.Type = PolylineTag
	case present(keys, "x") && present(keys, "y"):
		g.Type = PointTag
	case present(keys, "rings"):
		g.Type = PolygonTag
	}
	return nil
}

func present(keys map[string]json.RawMessage, key string) bool {
	raw, ok := keys[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Kind classifies the geometry's discriminator.
func (g Geometry) Kind() (GeometryKind, error) {
	return ParseGeometryKind(g.Type)
}

// PointCount returns the number of vertices across all paths, or 1 for a point.
func (g Geometry) PointCount() int {
	if len(g.Paths) == 0 {
		return 1
	}
	n := 0
	for _, path := range g.Paths {
		n += len(path)
	}
	return n
}
