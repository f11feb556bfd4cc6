package elc

import (
	"errors"
	"math"

	"elcmap/internal/models"
)

// RouteLocation is a location on a WSDOT state route, used both as an ELC
// request item and as a result. Start fields locate a point; the End fields
// extend it to a line segment.
type RouteLocation struct {
	ID                      *int             `json:"Id,omitempty"`
	Route                   string           `json:"Route,omitempty"`
	Decrease                *bool            `json:"Decrease,omitempty"`
	Arm                     *float64         `json:"Arm,omitempty"`
	Srmp                    *float64         `json:"Srmp,omitempty"`
	Back                    *bool            `json:"Back,omitempty"`
	ReferenceDate           *Date            `json:"ReferenceDate,omitempty"`
	ResponseDate            *Date            `json:"ResponseDate,omitempty"`
	RealignmentDate         *Date            `json:"RealignmentDate,omitempty"`
	EndArm                  *float64         `json:"EndArm,omitempty"`
	EndSrmp                 *float64         `json:"EndSrmp,omitempty"`
	EndBack                 *bool            `json:"EndBack,omitempty"`
	EndReferenceDate        *Date            `json:"EndReferenceDate,omitempty"`
	EndResponseDate         *Date            `json:"EndResponseDate,omitempty"`
	EndRealignmentDate      *Date            `json:"EndRealignmentDate,omitempty"`
	ArmCalcReturnCode       *int             `json:"ArmCalcReturnCode,omitempty"`
	ArmCalcEndReturnCode    *int             `json:"ArmCalcEndReturnCode,omitempty"`
	ArmCalcReturnMessage    string           `json:"ArmCalcReturnMessage,omitempty"`
	ArmCalcEndReturnMessage string           `json:"ArmCalcEndReturnMessage,omitempty"`
	LocatingError           string           `json:"LocatingError,omitempty"`
	RouteGeometry           *models.Geometry `json:"RouteGeometry,omitempty"`
	EventPoint              *models.Geometry `json:"EventPoint,omitempty"`
	Distance                *float64         `json:"Distance,omitempty"`
	Angle                   *float64         `json:"Angle,omitempty"`
}

var (
	errRouteRequired   = errors.New("route is required")
	errMeasureRequired = errors.New("either Arm or Srmp is required")
	errMeasureInvalid  = errors.New("measure must be a finite, non-negative number")
)

// IsLine reports whether the location describes a segment rather than a point.
func (l RouteLocation) IsLine() bool {
	return l.EndArm != nil || l.EndSrmp != nil
}

// Validate checks a request location. It returns per-field messages keyed by
// the JSON field name.
func (l RouteLocation) Validate() map[string][]string {
	fieldErrors := make(map[string][]string)
	if l.Route == "" {
		fieldErrors["Route"] = append(fieldErrors["Route"], errRouteRequired.Error())
	}
	if l.Arm == nil && l.Srmp == nil {
		fieldErrors["Arm"] = append(fieldErrors["Arm"], errMeasureRequired.Error())
	}
	for name, v := range map[string]*float64{"Arm": l.Arm, "Srmp": l.Srmp, "EndArm": l.EndArm, "EndSrmp": l.EndSrmp} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0) {
			fieldErrors[name] = append(fieldErrors[name], errMeasureInvalid.Error())
		}
	}
	return fieldErrors
}

// ToLocatedRoute projects an ELC result into the attributes-and-geometry form
// used for rendering. Unset fields are omitted and dates become time.Time.
func (l RouteLocation) ToLocatedRoute() models.LocatedRoute {
	attrs := make(map[string]any)
	if l.ID != nil {
		attrs["Id"] = *l.ID
	}
	if l.Route != "" {
		attrs["Route"] = l.Route
	}
	putBool(attrs, "Decrease", l.Decrease)
	putFloat(attrs, "Arm", l.Arm)
	putFloat(attrs, "Srmp", l.Srmp)
	putBool(attrs, "Back", l.Back)
	putDate(attrs, "ReferenceDate", l.ReferenceDate)
	putDate(attrs, "ResponseDate", l.ResponseDate)
	putDate(attrs, "RealignmentDate", l.RealignmentDate)
	putFloat(attrs, "EndArm", l.EndArm)
	putFloat(attrs, "EndSrmp", l.EndSrmp)
	putBool(attrs, "EndBack", l.EndBack)
	putDate(attrs, "EndReferenceDate", l.EndReferenceDate)
	putDate(attrs, "EndResponseDate", l.EndResponseDate)
	putDate(attrs, "EndRealignmentDate", l.EndRealignmentDate)
	if l.ArmCalcReturnCode != nil {
		attrs["ArmCalcReturnCode"] = *l.ArmCalcReturnCode
	}
	if l.ArmCalcEndReturnCode != nil {
		attrs["ArmCalcEndReturnCode"] = *l.ArmCalcEndReturnCode
	}
	if l.ArmCalcReturnMessage != "" {
		attrs["ArmCalcReturnMessage"] = l.ArmCalcReturnMessage
	}
	if l.ArmCalcEndReturnMessage != "" {
		attrs["ArmCalcEndReturnMessage"] = l.ArmCalcEndReturnMessage
	}
	if l.LocatingError != "" {
		attrs["LocatingError"] = l.LocatingError
	}
	putFloat(attrs, "Distance", l.Distance)
	putFloat(attrs, "Angle", l.Angle)

	located := models.LocatedRoute{
		RouteID:    l.Route,
		Attributes: attrs,
	}
	if l.RouteGeometry != nil {
		located.Geometry = *l.RouteGeometry
	}
	return located
}

func putFloat(attrs map[string]any, key string, v *float64) {
	if v != nil {
		attrs[key] = *v
	}
}

func putBool(attrs map[string]any, key string, v *bool) {
	if v != nil {
		attrs[key] = *v
	}
}

func putDate(attrs map[string]any, key string, v *Date) {
	if v != nil && !v.IsZero() {
		attrs[key] = v.Time
	}
}
