// Package graphic turns located routes into features a map client can draw.
package graphic

import (
	"reflect"

	"elcmap/internal/models"
)

// Attribute keys that carry geometry rather than data.
var geometryAttributeKeys = map[string]struct{}{
	"__type":        {},
	"geometry":      {},
	"RouteGeometry": {},
	"EventPoint":    {},
}

// ToRenderableFeature converts one located route into a renderable feature.
// It never mutates located and the result shares no memory with it.
func ToRenderableFeature(located models.LocatedRoute) (RenderableFeature, error) {
	kind, err := located.Geometry.Kind()
	if err != nil {
		return RenderableFeature{}, &UnrecognizedGeometryKindError{Tag: located.Geometry.Type}
	}

	var symbol Symbol
	switch kind {
	case models.GeometryKindPolyline:
		symbol = DefaultLineSymbol()
	case models.GeometryKindPoint:
		symbol = DefaultMarkerSymbol()
	}

	return RenderableFeature{
		Geometry:      newRenderableGeometry(kind, located.Geometry),
		Attributes:    projectAttributes(located),
		Symbol:        symbol,
		PopupTemplate: DefaultPopupTemplate(),
	}, nil
}

// ToRenderableFeatures converts a batch in order. Items that fail are
// reported by index and left out of the returned features.
func ToRenderableFeatures(batch []models.LocatedRoute) ([]RenderableFeature, []ConversionError) {
	features := make([]RenderableFeature, 0, len(batch))
	var failures []ConversionError
	for i, located := range batch {
		feature, err := ToRenderableFeature(located)
		if err != nil {
			failures = append(failures, ConversionError{Index: i, RouteID: located.RouteID, Err: err})
			continue
		}
		features = append(features, feature)
	}
	return features, failures
}

func projectAttributes(located models.LocatedRoute) map[string]any {
	attrs := make(map[string]any, len(located.Attributes)+1)
	for key, value := range located.Attributes {
		if _, skip := geometryAttributeKeys[key]; skip {
			continue
		}
		if !isData(value) {
			continue
		}
		attrs[key] = cloneValue(value)
	}
	if _, ok := attrs[RouteField]; !ok && located.RouteID != "" {
		attrs[RouteField] = located.RouteID
	}
	return attrs
}

func isData(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	default:
		return true
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if isData(item) {
				out = append(out, cloneValue(item))
			}
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			if isData(item) {
				out[k] = cloneValue(item)
			}
		}
		return out
	default:
		return v
	}
}
