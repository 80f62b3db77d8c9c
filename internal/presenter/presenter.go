// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package presenter turns weather snapshots into display-ready view data: human
// readable condition descriptors, integer display values and day/night icon selection.
package presenter

import (
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/wneessen/go-moonphase"

	"github.com/weatherbar/weatherbar/internal/weather"
)

// ConditionDescriptor is the human readable representation of a WMO weather code.
type ConditionDescriptor struct {
	Label string
	Icon  string
}

// UnknownCondition is returned for every weather code the WMO table does not list.
// Provider-side additions to the code table must never break the display.
var UnknownCondition = ConditionDescriptor{Label: "Unknown", Icon: "❓"}

// Condition looks up the descriptor for a WMO weather code. Unknown codes fall back
// to UnknownCondition and never fail.
func Condition(code int, isDay bool) ConditionDescriptor {
	label, ok := WMOWeatherCodes[code]
	if !ok {
		return UnknownCondition
	}
	return ConditionDescriptor{Label: label, Icon: WMOWeatherIcons[code][isDay]}
}

// View is the template-facing projection of one weather snapshot. Temperature and
// wind speed are rounded to the nearest integer for display.
type View struct {
	Latitude  float64
	Longitude float64

	Temperature int
	WindSpeed   int
	Condition   ConditionDescriptor
	Time        time.Time
	TempUnit    string
	WindUnit    string

	IsDaytime   bool
	SunriseTime time.Time
	SunsetTime  time.Time

	MoonPhase     string
	MoonPhaseIcon string
}

// BuildView projects a snapshot into a View. The reference time now decides day or
// night (for icon selection) and the moon phase.
func BuildView(snapshot weather.Snapshot, now time.Time) View {
	sunriseTime, sunsetTime := sunrise.SunriseSunset(snapshot.Coordinate.Lat, snapshot.Coordinate.Lon,
		now.Year(), now.Month(), now.Day())
	isDay := now.After(sunriseTime) && now.Before(sunsetTime)

	moon := moonphase.New(now)
	phase := moon.PhaseName()

	return View{
		Latitude:      snapshot.Coordinate.Lat,
		Longitude:     snapshot.Coordinate.Lon,
		Temperature:   roundToInt(snapshot.Temperature),
		WindSpeed:     roundToInt(snapshot.WindSpeed),
		Condition:     Condition(snapshot.WeatherCode, isDay),
		Time:          snapshot.Time,
		TempUnit:      snapshot.Units.Temperature,
		WindUnit:      snapshot.Units.WindSpeed,
		IsDaytime:     isDay,
		SunriseTime:   sunriseTime,
		SunsetTime:    sunsetTime,
		MoonPhase:     phase,
		MoonPhaseIcon: MoonPhaseIcon[phase],
	}
}

func roundToInt(val float64) int {
	return int(math.Round(val))
}
