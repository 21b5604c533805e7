package spatialmath

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// NewZeroDirectionError is returned when a heading is requested from a zero-length vector.
func NewZeroDirectionError(point r2.Point) error {
	return errors.Errorf("cannot derive a bearing at %v from a zero direction vector", point)
}

// NewInvalidRadiusError is returned for radii that are not finite and strictly positive.
func NewInvalidRadiusError(radius float64) error {
	return errors.Errorf("radius must be finite and positive, got %v", radius)
}

// NewUnknownDirectionError is returned when a turn direction cannot be parsed.
func NewUnknownDirectionError(s string) error {
	return errors.Errorf("unknown turn direction %q, expected L or R", s)
}
