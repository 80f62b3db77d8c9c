// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package weather defines the current-weather snapshot model and the provider
// interface implemented by each weather API backend.
package weather

import (
	"context"
	"time"

	"github.com/weatherbar/weatherbar/internal/locate"
)

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	CurrentWeather(ctx context.Context, coord locate.Coordinate) (Snapshot, error)
}

// Snapshot is a provider's answer for "current weather" at one coordinate. It is
// created per request and discarded after rendering; nothing is persisted.
type Snapshot struct {
	Coordinate  locate.Coordinate
	Time        time.Time
	Temperature float64
	WindSpeed   float64
	WeatherCode int
	Units       Units
}

// Units carries the display units that belong to the snapshot values.
type Units struct {
	Temperature string
	WindSpeed   string
}

// MetricUnits and ImperialUnits are the unit sets weatherbar requests from providers.
var (
	MetricUnits   = Units{Temperature: "°C", WindSpeed: "km/h"}
	ImperialUnits = Units{Temperature: "°F", WindSpeed: "mph"}
)
