package graphic

import (
	"github.com/twpayne/go-polyline"

	"elcmap/internal/models"
)

// EncodePaths returns one Google encoded polyline per path, or a single
// one-vertex polyline for a point. Coordinates must be WGS84 (x = lon, y = lat).
func EncodePaths(g RenderableGeometry) []string {
	switch g.Kind {
	case models.GeometryKindPoint:
		return []string{string(polyline.EncodeCoords([][]float64{{g.Y, g.X}}))}
	case models.GeometryKindPolyline:
		encoded := make([]string, 0, len(g.Paths))
		for _, path := range g.Paths {
			coords := make([][]float64, 0, len(path))
			for _, c := range path {
				if len(c) < 2 {
					continue
				}
				coords = append(coords, []float64{c[1], c[0]})
			}
			if len(coords) == 0 {
				continue
			}
			encoded = append(encoded, string(polyline.EncodeCoords(coords)))
		}
		return encoded
	default:
		return nil
	}
}
