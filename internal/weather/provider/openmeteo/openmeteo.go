// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package openmeteo implements the weather.Provider interface on top of the keyless
// Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/weatherbar/weatherbar/internal/http"
	"github.com/weatherbar/weatherbar/internal/locate"
	"github.com/weatherbar/weatherbar/internal/logger"
	"github.com/weatherbar/weatherbar/internal/weather"
)

const (
	name       = "open-meteo"
	apiTimeout = time.Second * 10
)

type OpenMeteo struct {
	client omgo.Client
	units  string
	log    *logger.Logger
}

func New(log *logger.Logger, units string) (*OpenMeteo, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	client, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}
	client.UserAgent = http.UserAgent

	return &OpenMeteo{client: client, units: units, log: log}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

// CurrentWeather requests the current-weather snapshot for the given coordinate.
// The request always asks Open-Meteo to resolve the timezone of the coordinate
// automatically, so the observation time is local to the place the weather is for.
func (o *OpenMeteo) CurrentWeather(ctx context.Context, coord locate.Coordinate) (weather.Snapshot, error) {
	var snapshot weather.Snapshot

	location, err := omgo.NewLocation(coord.Lat, coord.Lon)
	if err != nil {
		return snapshot, fmt.Errorf("failed to create Open-Meteo location from coordinates: %w", err)
	}

	opts := &omgo.Options{Timezone: "auto"}
	units := weather.MetricUnits
	switch strings.ToLower(o.units) {
	case "metric":
		opts.TemperatureUnit = "celsius"
		opts.WindspeedUnit = "kmh"
		opts.PrecipitationUnit = "mm"
	case "imperial":
		opts.TemperatureUnit = "fahrenheit"
		opts.WindspeedUnit = "mph"
		opts.PrecipitationUnit = "inch"
		units = weather.ImperialUnits
	}

	ctxFetch, cancelFetch := context.WithTimeout(ctx, apiTimeout)
	defer cancelFetch()

	current, err := o.client.CurrentWeather(ctxFetch, location, opts)
	if err != nil {
		return snapshot, fmt.Errorf("failed to retrieve weather data from Open-Meteo API: %w", err)
	}

	snapshot = weather.Snapshot{
		Coordinate:  coord,
		Time:        current.Time.Time,
		Temperature: current.Temperature,
		WindSpeed:   current.WindSpeed,
		WeatherCode: int(current.WeatherCode),
		Units:       units,
	}
	return snapshot, nil
}
