// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package config loads and validates the weatherbar configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kkyr/fig"

	"github.com/weatherbar/weatherbar/internal/locate"
)

const (
	configEnv = "WEATHERBAR"

	DefaultLoadingTpl = `{{iconPad "⏳"}}Loading weather data…`
	DefaultTextTpl    = `{{iconPad .Condition.Icon}}{{.Temperature}}{{.TempUnit}}`
	DefaultTooltipTpl = "Condition: {{.Condition.Label}}\nWind: {{.WindSpeed}} {{.WindUnit}}\n" +
		"Observed: {{clockFormat .Time}}\nSunrise: {{clockFormat .SunriseTime}}\n" +
		"Sunset: {{clockFormat .SunsetTime}}\nMoonphase: {{.MoonPhaseIcon}} {{.MoonPhase}}"
	DefaultErrorTpl = `{{iconPad "⚠️"}}{{.Message}}`
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Location struct {
		// Default coordinate used by the startup trigger.
		DefaultLatitude  float64 `fig:"default_latitude" default:"52.52"`
		DefaultLongitude float64 `fig:"default_longitude" default:"13.405"`
		// Allowed values: geoclue, gpsd, geoip, none
		Locator string `fig:"locator" default:"geoclue"`
	} `fig:"location"`

	Weather struct {
		// Allowed value: open-meteo
		Provider string `fig:"provider" default:"open-meteo"`
	} `fig:"weather"`

	Intervals struct {
		// Refresh re-runs the last trigger periodically. Zero disables it.
		Refresh time.Duration `fig:"refresh"`
	} `fig:"intervals"`

	Templates struct {
		Loading string `fig:"loading"`
		Text    string `fig:"text"`
		Tooltip string `fig:"tooltip"`
		Error   string `fig:"error"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	switch c.Location.Locator {
	case "geoclue", "gpsd", "geoip", "none":
	default:
		return fmt.Errorf("invalid locator: %s", c.Location.Locator)
	}
	if _, err := c.DefaultCoordinate(); err != nil {
		return fmt.Errorf("invalid default coordinate: %w", err)
	}
	if c.Intervals.Refresh < 0 {
		return fmt.Errorf("invalid refresh interval: %s", c.Intervals.Refresh)
	}
	if c.Templates.Loading == "" {
		c.Templates.Loading = DefaultLoadingTpl
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Templates.Tooltip == "" {
		c.Templates.Tooltip = DefaultTooltipTpl
	}
	if c.Templates.Error == "" {
		c.Templates.Error = DefaultErrorTpl
	}

	return nil
}

// DefaultCoordinate returns the validated default coordinate for the startup trigger.
// After a successful Validate it cannot fail anymore.
func (c *Config) DefaultCoordinate() (locate.Coordinate, error) {
	return locate.NewCoordinate(c.Location.DefaultLatitude, c.Location.DefaultLongitude)
}
