// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package geoip resolves a coarse host position from a keyless GeoIP web API.
package geoip

import (
	"context"
	"fmt"
	"time"

	"github.com/weatherbar/weatherbar/internal/http"
	"github.com/weatherbar/weatherbar/internal/locate"
)

const (
	APIEndpoint   = "https://reallyfreegeoip.org/json/"
	LookupTimeout = time.Second * 5
)

type Locator struct {
	name     string
	endpoint string
	http     *http.Client
}

type APIResult struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country_name"`
	RegionCode  string  `json:"region_code,omitempty"`
	Region      string  `json:"region_name,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	TimeZone    string  `json:"time_zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MetroCode   int     `json:"metro_code"`
}

func New(http *http.Client) *Locator {
	return &Locator{
		name:     "geoip",
		endpoint: APIEndpoint,
		http:     http,
	}
}

func (l *Locator) Name() string {
	return l.name
}

// Locate performs a single GeoIP lookup. Accuracy is whatever the IP database offers,
// which is good enough for a weather request.
func (l *Locator) Locate(ctx context.Context) (locate.Coordinate, error) {
	var coord locate.Coordinate

	ctxHTTP, cancelHTTP := context.WithTimeout(ctx, LookupTimeout)
	defer cancelHTTP()

	result := new(APIResult)
	code, err := l.http.Get(ctxHTTP, l.endpoint, result, nil, nil)
	if err != nil {
		return coord, fmt.Errorf("%w: failed to get geolocation data from API: %s", locate.ErrNoFix, err)
	}
	if code != 200 {
		return coord, fmt.Errorf("%w: GeoIP API returned non-positive response code: %d",
			locate.ErrNoFix, code)
	}

	coord, err = locate.NewCoordinate(locate.Truncate(result.Latitude, locate.TruncPrecision),
		locate.Truncate(result.Longitude, locate.TruncPrecision))
	if err != nil {
		return coord, fmt.Errorf("%w: GeoIP API returned an invalid coordinate: %s", locate.ErrNoFix, err)
	}

	return coord, nil
}
