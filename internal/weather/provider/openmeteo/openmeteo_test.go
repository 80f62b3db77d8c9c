// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/weatherbar/weatherbar/internal/http"
	"github.com/weatherbar/weatherbar/internal/locate"
	"github.com/weatherbar/weatherbar/internal/logger"
)

func TestNew(t *testing.T) {
	t.Run("valid arguments create a provider", func(t *testing.T) {
		provider, err := New(logger.New(slog.LevelError), "metric")
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}
		if provider.Name() != "open-meteo" {
			t.Errorf("expected provider name to be %q, got %q", "open-meteo", provider.Name())
		}
		if provider.client.UserAgent != http.UserAgent {
			t.Errorf("expected user agent to be %q, got %q", http.UserAgent,
				provider.client.UserAgent)
		}
	})
	t.Run("missing logger fails", func(t *testing.T) {
		if _, err := New(nil, "metric"); err == nil {
			t.Error("expected provider creation to fail, but didn't")
		}
	})
}

func TestOpenMeteo_CurrentWeather(t *testing.T) {
	t.Run("out-of-range coordinate fails", func(t *testing.T) {
		provider, err := New(logger.New(slog.LevelError), "metric")
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}
		_, err = provider.CurrentWeather(t.Context(), locate.Coordinate{Lat: 91, Lon: 0})
		if err == nil {
			t.Error("expected weather request to fail, but didn't")
		}
	})
	t.Run("server error fails", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(
			func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
				stdhttp.Error(w, "intentionally failing", stdhttp.StatusInternalServerError)
			}))
		defer server.Close()

		provider, err := New(logger.New(slog.LevelError), "metric")
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}
		provider.client.URL = server.URL

		_, err = provider.CurrentWeather(t.Context(), locate.Coordinate{Lat: 52.52, Lon: 13.405})
		if err == nil {
			t.Error("expected weather request to fail, but didn't")
		}
	})
}
