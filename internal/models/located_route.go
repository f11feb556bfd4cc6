package models

// LocatedRoute is one result of a route-locating query: where on a highway
// route the request landed, plus descriptive attributes.
type LocatedRoute struct {
	RouteID    string
	Geometry   Geometry
	Attributes map[string]any
}

// Extent is an axis-aligned bounding box in the given spatial reference.
type Extent struct {
	XMin             float64          `json:"xmin"`
	YMin             float64          `json:"ymin"`
	XMax             float64          `json:"xmax"`
	YMax             float64          `json:"ymax"`
	SpatialReference SpatialReference `json:"spatialReference"`
}

// Contains reports whether (x, y) lies inside the extent, edges included.
func (e Extent) Contains(x, y float64) bool {
	return x >= e.XMin && x <= e.XMax && y >= e.YMin && y <= e.YMax
}

// WashingtonExtent is the EPSG:1416 area of use for Washington State, in WGS84.
var WashingtonExtent = Extent{
	XMin:             -124.79,
	YMin:             45.54,
	XMax:             -116.91,
	YMax:             49.05,
	SpatialReference: SpatialReference{WKID: 4326},
}
