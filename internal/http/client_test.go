// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

package http

import (
	"errors"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/weatherbar/weatherbar/internal/logger"
	"github.com/weatherbar/weatherbar/internal/testhelper"
)

type testType struct {
	String string  `json:"string"`
	Int    int     `json:"int"`
	Float  float64 `json:"float"`
	Bool   bool    `json:"bool"`
}

const testBody = `{"string":"test","int":123,"float":123.456,"bool":true}`

func TestNew(t *testing.T) {
	client := New(logger.New(slog.LevelInfo))
	if client == nil {
		t.Fatal("expected client to be non-nil")
	}
}

func TestClient_Get(t *testing.T) {
	t.Run("getting and serializing JSON should work", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return testhelper.JSONResponse(200, testBody), nil
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		query := url.Values{}
		query.Add("key", "value")
		headers := make(map[string]string)
		headers["X-Custom-Header"] = "custom-value"

		target := new(testType)
		response, err := client.Get(t.Context(), "https://example.com", target, query, headers)
		if err != nil {
			t.Fatalf("failed to get JSON response: %s", err)
		}

		if response != 200 {
			t.Errorf("expected status code 200, got %d", response)
		}
		if target.String != "test" {
			t.Errorf("expected target string to be 'test', got %s", target.String)
		}
		if target.Int != 123 {
			t.Errorf("expected target int to be 123, got %d", target.Int)
		}
		if target.Float != 123.456 {
			t.Errorf("expected target float to be 123.456, got %f", target.Float)
		}
		if !target.Bool {
			t.Error("expected target bool to be true")
		}
	})
	t.Run("unmarshalling into non-pointer should fail", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		var target testType
		_, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if err == nil {
			t.Fatal("expected get to fail")
		}
		if !errors.Is(err, ErrNonPointerTarget) {
			t.Errorf("expected error to be %s, got %s", ErrNonPointerTarget, err)
		}
	})
	t.Run("parsing an invalid url should fail", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		target := new(testType)
		_, err := client.Get(t.Context(), "http://example.com/xyz%", target, nil, nil)
		if err == nil {
			t.Fatal("expected get to fail")
		}
		if !strings.Contains(err.Error(), "failed to parse URL") {
			t.Errorf("expected error to contain 'failed to parse URL', got %s", err)
		}
	})
	t.Run("get request fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		_, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if err == nil {
			t.Fatal("expected get request to fail")
		}
	})
}

func TestClient_Requests(t *testing.T) {
	t.Run("counter tracks issued requests", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return testhelper.JSONResponse(200, testBody), nil
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		if client.Requests() != 0 {
			t.Errorf("expected fresh client to have 0 requests, got %d", client.Requests())
		}

		target := new(testType)
		for range 2 {
			if _, err := client.Get(t.Context(), "https://example.com", target, nil, nil); err != nil {
				t.Fatalf("failed to get JSON response: %s", err)
			}
		}
		if client.Requests() != 2 {
			t.Errorf("expected request counter to be 2, got %d", client.Requests())
		}
	})
	t.Run("counter stays zero when no request is issued", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		var target testType
		if _, err := client.Get(t.Context(), "https://example.com", target, nil, nil); err == nil {
			t.Fatal("expected get to fail")
		}
		if client.Requests() != 0 {
			t.Errorf("expected request counter to stay 0, got %d", client.Requests())
		}
	})
}
