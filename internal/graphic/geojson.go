package graphic

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"elcmap/internal/models"
)

// Orb converts the geometry to an orb geometry. A polyline with a single path
// becomes a LineString, otherwise a MultiLineString. M and Z values are dropped.
func (g RenderableGeometry) Orb() orb.Geometry {
	switch g.Kind {
	case models.GeometryKindPoint:
		return orb.Point{g.X, g.Y}
	case models.GeometryKindPolyline:
		if len(g.Paths) == 1 {
			return toLineString(g.Paths[0])
		}
		mls := make(orb.MultiLineString, 0, len(g.Paths))
		for _, path := range g.Paths {
			mls = append(mls, toLineString(path))
		}
		return mls
	default:
		return nil
	}
}

func toLineString(path [][]float64) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, coord := range path {
		if len(coord) < 2 {
			continue
		}
		ls = append(ls, orb.Point{coord[0], coord[1]})
	}
	return ls
}

// GeoJSON converts the feature to a GeoJSON feature. Attributes become
// properties; symbol and popup are not part of GeoJSON and are left out.
func (f RenderableFeature) GeoJSON() *geojson.Feature {
	feature := geojson.NewFeature(f.Geometry.Orb())
	for key, value := range f.Attributes {
		feature.Properties[key] = value
	}
	return feature
}

// ToGeoJSON builds a FeatureCollection in input order.
func ToGeoJSON(features []RenderableFeature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f.GeoJSON())
	}
	return fc
}
