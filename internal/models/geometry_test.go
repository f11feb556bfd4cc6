package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeometryKind(t *testing.T) {
	tests := []struct {
		tag  string
		want GeometryKind
	}{
		{"esri.geometry.Point", GeometryKindPoint},
		{"esri.geometry.Polyline", GeometryKindPolyline},
		{"Point:#ESRI.ArcGIS.SOESupport", GeometryKindPoint},
		{"Polyline:#ESRI.ArcGIS.SOESupport", GeometryKindPolyline},
		{"POLYLINE", GeometryKindPolyline},
		{"multipoint", GeometryKindPoint},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseGeometryKind(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGeometryKindRejectsOtherTags(t *testing.T) {
	for _, tag := range []string{"esri.geometry.Polygon", "", "Envelope:#ESRI.ArcGIS.SOESupport"} {
		kind, err := ParseGeometryKind(tag)
		assert.Equal(t, GeometryKindUnknown, kind)
		assert.True(t, errors.Is(err, ErrUnknownGeometryKind), "tag %q", tag)
	}
}

func TestGeometryKindString(t *testing.T) {
	assert.Equal(t, "point", GeometryKindPoint.String())
	assert.Equal(t, "polyline", GeometryKindPolyline.String())
	assert.Equal(t, "unknown", GeometryKindUnknown.String())
}

func TestGeometryJSON(t *testing.T) {
	raw := `{
		"__type": "Polyline:#ESRI.ArcGIS.SOESupport",
		"paths": [[[1, 2, 0.5], [3, 4, 0.75]], [[5, 6]]],
		"spatialReference": {"wkid": 2927}
	}`

	var g Geometry
	require.NoError(t, json.Unmarshal([]byte(raw), &g))

	kind, err := g.Kind()
	require.NoError(t, err)
	assert.Equal(t, GeometryKindPolyline, kind)
	assert.Len(t, g.Paths, 2)
	assert.Equal(t, []float64{1, 2, 0.5}, g.Paths[0][0])
	require.NotNil(t, g.SpatialReference)
	assert.Equal(t, 2927, g.SpatialReference.WKID)
	assert.Equal(t, 3, g.PointCount())
}

func TestGeometryUnmarshalWithoutType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"paths", `{"paths": [[[1, 2], [3, 4]]]}`, PolylineTag},
		{"x and y", `{"x": 0, "y": 0}`, PointTag},
		{"rings", `{"rings": [[[1, 2], [3, 4], [5, 6], [1, 2]]], "spatialReference": {"wkid": 3857}}`, PolygonTag},
		{"multipoint", `{"points": [[1, 2], [3, 4]]}`, ""},
		{"x only", `{"x": 1}`, ""},
		{"null coordinates", `{"x": null, "y": null}`, ""},
		{"empty", `{}`, ""},
		{"explicit type wins", `{"__type": "Point:#ESRI.ArcGIS.SOESupport", "paths": []}`, "Point:#ESRI.ArcGIS.SOESupport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Geometry
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &g))
			assert.Equal(t, tt.want, g.Type)
		})
	}
}

func TestGeometryWithoutCoordinatesIsUnclassified(t *testing.T) {
	for _, raw := range []string{`{}`, `{"rings": [[[1, 2], [3, 4], [1, 2]]]}`} {
		var g Geometry
		require.NoError(t, json.Unmarshal([]byte(raw), &g))
		_, err := g.Kind()
		assert.ErrorIs(t, err, ErrUnknownGeometryKind, raw)
	}
}

func TestPointGeometryCount(t *testing.T) {
	g := Geometry{Type: "esri.geometry.Point", X: 1, Y: 2}
	assert.Equal(t, 1, g.PointCount())
}

func TestWashingtonExtentContains(t *testing.T) {
	assert.True(t, WashingtonExtent.Contains(-122.33, 47.61))  // Seattle
	assert.True(t, WashingtonExtent.Contains(-124.79, 45.54))  // corner
	assert.False(t, WashingtonExtent.Contains(-122.68, 45.52)) // Portland
	assert.False(t, WashingtonExtent.Contains(0, 0))
}
