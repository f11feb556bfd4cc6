package graphic

import (
	"encoding/json"
	"slices"

	"elcmap/internal/models"
)

// RenderableGeometry is a geometry in the rendering host's vocabulary.
type RenderableGeometry struct {
	Kind             models.GeometryKind
	X                float64
	Y                float64
	M                *float64
	Z                *float64
	Paths            [][][]float64
	SpatialReference *models.SpatialReference
}

type renderableGeometryJSON struct {
	Type             string                   `json:"type"`
	X                *float64                 `json:"x,omitempty"`
	Y                *float64                 `json:"y,omitempty"`
	M                *float64                 `json:"m,omitempty"`
	Z                *float64                 `json:"z,omitempty"`
	Paths            [][][]float64            `json:"paths,omitempty"`
	SpatialReference *models.SpatialReference `json:"spatialReference,omitempty"`
}

// MarshalJSON writes {"type":"point","x":..,"y":..} or {"type":"polyline","paths":..}.
func (g RenderableGeometry) MarshalJSON() ([]byte, error) {
	out := renderableGeometryJSON{
		Type:             g.Kind.String(),
		SpatialReference: g.SpatialReference,
	}
	switch g.Kind {
	case models.GeometryKindPoint:
		x, y := g.X, g.Y
		out.X, out.Y, out.M, out.Z = &x, &y, g.M, g.Z
	case models.GeometryKindPolyline:
		out.Paths = g.Paths
		if out.Paths == nil {
			out.Paths = [][][]float64{}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (g *RenderableGeometry) UnmarshalJSON(data []byte) error {
	var in renderableGeometryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, err := models.ParseGeometryKind(in.Type)
	if err != nil {
		return &UnrecognizedGeometryKindError{Tag: in.Type}
	}
	*g = RenderableGeometry{
		Kind:             kind,
		M:                in.M,
		Z:                in.Z,
		Paths:            in.Paths,
		SpatialReference: in.SpatialReference,
	}
	if in.X != nil {
		g.X = *in.X
	}
	if in.Y != nil {
		g.Y = *in.Y
	}
	return nil
}

// RenderableFeature is a geometry plus attributes, symbol and popup, ready
// to be drawn by a map client.
type RenderableFeature struct {
	Geometry      RenderableGeometry `json:"geometry"`
	Attributes    map[string]any     `json:"attributes"`
	Symbol        Symbol             `json:"symbol"`
	PopupTemplate PopupTemplate      `json:"popupTemplate"`
}

// RouteID returns the feature's route attribute, or "" when absent.
func (f RenderableFeature) RouteID() string {
	id, _ := f.Attributes[RouteField].(string)
	return id
}

func newRenderableGeometry(kind models.GeometryKind, src models.Geometry) RenderableGeometry {
	g := RenderableGeometry{Kind: kind}
	if src.SpatialReference != nil {
		sr := *src.SpatialReference
		g.SpatialReference = &sr
	}
	switch kind {
	case models.GeometryKindPoint:
		g.X, g.Y = src.X, src.Y
		g.M = cloneFloat(src.M)
		g.Z = cloneFloat(src.Z)
	case models.GeometryKindPolyline:
		g.Paths = clonePaths(src.Paths)
	}
	return g
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func clonePaths(paths [][][]float64) [][][]float64 {
	if paths == nil {
		return nil
	}
	out := make([][][]float64, len(paths))
	for i, path := range paths {
		out[i] = make([][]float64, len(path))
		for j, coord := range path {
			out[i][j] = slices.Clone(coord)
		}
	}
	return out
}
