package graphic

import "slices"

// Color is an RGBA color with components in 0-255.
type Color [4]int

// Outline is the stroke drawn around a marker.
type Outline struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Symbol is a simple line or marker style in ArcGIS JSON form.
type Symbol struct {
	Type    string  `json:"type"`
	Style   string  `json:"style"`
	Color   Color   `json:"color"`
	Width   float64 `json:"width,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Outline Outline `json:"outline,omitzero"`
}

// PopupContent is one block of a popup. Type "fields" lists attributes.
type PopupContent struct {
	Type string `json:"type"`
}

// PopupTemplate describes the popup shown when a feature is selected.
type PopupTemplate struct {
	Title     string         `json:"title"`
	Content   []PopupContent `json:"content"`
	OutFields []string       `json:"outFields"`
}

// RouteField is the attribute holding the route identifier.
const RouteField = "Route"

// The defaults are package values handed out by copy, never by reference.
// Symbol contains only value types; template slices are cloned on access.
var (
	defaultLineSymbol = Symbol{
		Type:  "esriSLS",
		Style: "esriSLSSolid",
		Color: Color{0, 0, 0, 255},
		Width: 0.75,
	}

	defaultMarkerSymbol = Symbol{
		Type:  "esriSMS",
		Style: "esriSMSCircle",
		Color: Color{255, 255, 255, 64},
		Size:  12,
		Outline: Outline{
			Color: Color{0, 0, 0, 255},
			Width: 1,
		},
	}

	defaultPopupTemplate = PopupTemplate{
		Title:     "{" + RouteField + "}",
		Content:   []PopupContent{{Type: "fields"}},
		OutFields: []string{"*"},
	}
)

// DefaultLineSymbol is the style applied to polyline features.
func DefaultLineSymbol() Symbol { return defaultLineSymbol }

// DefaultMarkerSymbol is the style applied to point features.
func DefaultMarkerSymbol() Symbol { return defaultMarkerSymbol }

// DefaultPopupTemplate shows every attribute under a title of the route ID.
func DefaultPopupTemplate() PopupTemplate {
	t := defaultPopupTemplate
	t.Content = slices.Clone(defaultPopupTemplate.Content)
	t.OutFields = slices.Clone(defaultPopupTemplate.OutFields)
	return t
}
