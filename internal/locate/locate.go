// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package locate defines the geographic coordinate type and the single-shot
// location resolution capability of the host system.
package locate

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrUnsupported signals that the host system offers no usable geolocation
	// capability. It is detectable without performing any network request.
	ErrUnsupported = errors.New("geolocation capability is not available")

	// ErrNoFix signals that the capability is present but could not resolve a
	// coordinate (denial, timeout or platform error).
	ErrNoFix = errors.New("no location fix obtained")
)

// Locator resolves the current position of the host. Implementations perform a
// single-shot lookup; there is no streaming and no caching at this layer.
type Locator interface {
	Name() string
	Locate(ctx context.Context) (Coordinate, error)
}

// Coordinate represents a geographic coordinate. It is immutable once obtained.
type Coordinate struct {
	Lat float64
	Lon float64
}

// NewCoordinate returns a Coordinate for the given latitude and longitude. It fails
// if either value is outside the valid EPSG range.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	coord := Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		return Coordinate{}, errors.New("coordinate out of range")
	}
	return coord, nil
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Truncate cuts a float down to the given number of decimal places. Coordinates from
// the different locators are truncated to a common precision so that identical places
// compare equal.
func Truncate(x float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Trunc(x*p) / p
}

// TruncPrecision is the decimal precision locators truncate coordinates to.
const TruncPrecision = 4
