// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"errors"
	"log/slog"
	stdhttp "net/http"
	"testing"

	"github.com/weatherbar/weatherbar/internal/http"
	"github.com/weatherbar/weatherbar/internal/locate"
	"github.com/weatherbar/weatherbar/internal/logger"
	"github.com/weatherbar/weatherbar/internal/testhelper"
)

const testResponse = `{
	"ip": "192.0.2.1",
	"country_code": "DE",
	"country_name": "Germany",
	"region_code": "BE",
	"region_name": "Land Berlin",
	"city": "Berlin",
	"zip_code": "10115",
	"time_zone": "Europe/Berlin",
	"latitude": 52.5200081,
	"longitude": 13.4049987,
	"metro_code": 0
}`

func testClient(fn func(req *stdhttp.Request) (*stdhttp.Response, error)) *http.Client {
	client := http.New(logger.New(slog.LevelError))
	client.Transport = testhelper.MockRoundTripper{Fn: fn}
	return client
}

func TestNew(t *testing.T) {
	l := New(http.New(logger.New(slog.LevelError)))
	if l == nil {
		t.Fatal("expected locator to be non-nil")
	}
	if l.Name() != "geoip" {
		t.Errorf("expected locator name to be %q, got %q", "geoip", l.Name())
	}
}

func TestLocator_Locate(t *testing.T) {
	t.Run("successful lookup returns the truncated coordinate", func(t *testing.T) {
		client := testClient(func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return testhelper.JSONResponse(200, testResponse), nil
		})

		l := New(client)
		coord, err := l.Locate(t.Context())
		if err != nil {
			t.Fatalf("failed to locate: %s", err)
		}
		if coord.Lat != 52.52 {
			t.Errorf("expected latitude to be 52.52, got %f", coord.Lat)
		}
		if coord.Lon != 13.4049 {
			t.Errorf("expected longitude to be 13.4049, got %f", coord.Lon)
		}
	})
	t.Run("non-200 response maps to no fix", func(t *testing.T) {
		client := testClient(func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return testhelper.JSONResponse(500, `{}`), nil
		})

		l := New(client)
		_, err := l.Locate(t.Context())
		if err == nil {
			t.Fatal("expected locate to fail")
		}
		if !errors.Is(err, locate.ErrNoFix) {
			t.Errorf("expected error to be %s, got %s", locate.ErrNoFix, err)
		}
	})
	t.Run("transport failure maps to no fix", func(t *testing.T) {
		client := testClient(func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		})

		l := New(client)
		_, err := l.Locate(t.Context())
		if err == nil {
			t.Fatal("expected locate to fail")
		}
		if !errors.Is(err, locate.ErrNoFix) {
			t.Errorf("expected error to be %s, got %s", locate.ErrNoFix, err)
		}
	})
	t.Run("out-of-range coordinate maps to no fix", func(t *testing.T) {
		client := testClient(func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return testhelper.JSONResponse(200, `{"latitude": 99.9, "longitude": 200.1}`), nil
		})

		l := New(client)
		_, err := l.Locate(t.Context())
		if err == nil {
			t.Fatal("expected locate to fail")
		}
		if !errors.Is(err, locate.ErrNoFix) {
			t.Errorf("expected error to be %s, got %s", locate.ErrNoFix, err)
		}
	})
}
