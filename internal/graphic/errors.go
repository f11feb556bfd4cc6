package graphic

import (
	"errors"
	"fmt"

	"elcmap/internal/models"
)

// ErrUnrecognizedGeometryKind matches any UnrecognizedGeometryKindError.
var ErrUnrecognizedGeometryKind = errors.New("unrecognized geometry kind")

// UnrecognizedGeometryKindError is returned when a located route's geometry
// is neither a point nor a polyline. The input is bad; retrying won't help.
type UnrecognizedGeometryKindError struct {
	Tag string
}

func (e *UnrecognizedGeometryKindError) Error() string {
	return fmt.Sprintf("unrecognized geometry kind %q", e.Tag)
}

func (e *UnrecognizedGeometryKindError) Is(target error) bool {
	return target == ErrUnrecognizedGeometryKind
}

func (e *UnrecognizedGeometryKindError) Unwrap() error {
	return models.ErrUnknownGeometryKind
}

// ConversionError records a batch item that could not be converted.
type ConversionError struct {
	Index   int
	RouteID string
	Err     error
}

func (e ConversionError) Error() string {
	return fmt.Sprintf("located route %d (%s): %v", e.Index, e.RouteID, e.Err)
}

func (e ConversionError) Unwrap() error {
	return e.Err
}
