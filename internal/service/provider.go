// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/weatherbar/weatherbar/internal/config"
	"github.com/weatherbar/weatherbar/internal/http"
	"github.com/weatherbar/weatherbar/internal/locate"
	"github.com/weatherbar/weatherbar/internal/locate/provider/geoclue"
	"github.com/weatherbar/weatherbar/internal/locate/provider/geoip"
	"github.com/weatherbar/weatherbar/internal/locate/provider/gpsd"
	"github.com/weatherbar/weatherbar/internal/logger"
	"github.com/weatherbar/weatherbar/internal/weather"
	"github.com/weatherbar/weatherbar/internal/weather/provider/openmeteo"
)

// SelectWeatherProvider returns the configured weather API backend.
func SelectWeatherProvider(conf *config.Config, log *logger.Logger) (weather.Provider, error) {
	switch strings.ToLower(conf.Weather.Provider) {
	case "open-meteo":
		provider, err := openmeteo.New(log, conf.Units)
		if err != nil {
			return nil, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", conf.Weather.Provider)
	}
}

// SelectLocator returns the configured geolocation capability. The "none" locator
// returns nil; the service then treats geolocation as unsupported without ever
// touching the network.
func SelectLocator(conf *config.Config, log *logger.Logger) (locate.Locator, error) {
	switch strings.ToLower(conf.Location.Locator) {
	case "geoclue":
		return geoclue.New(log), nil
	case "gpsd":
		return gpsd.New(log), nil
	case "geoip":
		return geoip.New(http.New(log)), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported locator: %s", conf.Location.Locator)
	}
}
