// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package service implements the weather display widget: a fetch/render state
// machine driven by a startup trigger, a current-location trigger and an optional
// periodic refresh.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/weatherbar/weatherbar/internal/config"
	"github.com/weatherbar/weatherbar/internal/display"
	"github.com/weatherbar/weatherbar/internal/locate"
	"github.com/weatherbar/weatherbar/internal/logger"
	"github.com/weatherbar/weatherbar/internal/presenter"
	"github.com/weatherbar/weatherbar/internal/template"
	"github.com/weatherbar/weatherbar/internal/weather"
)

// The fixed user-facing error messages. Causes are collapsed into these; the
// underlying detail only goes to the log channel.
const (
	MsgLocationUnsupported = "Geolocation is not supported on this system."
	MsgLocationFailed      = "Unable to retrieve your location."
	MsgFetchFailed         = "Failed to load weather data."
)

type trigger int64

const (
	triggerDefault trigger = iota
	triggerCurrentLocation
)

// Service is the weather display widget. It owns the display state and the output
// region exclusively; there is no shared mutable state beyond these.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	provider  weather.Provider
	locator   locate.Locator // nil when the host offers no geolocation capability
	region    display.Region
	templates *template.Templates
	scheduler gocron.Scheduler

	// seq tags every issued request. A completed request renders only while its tag
	// still equals the latest issued one, so a stale in-flight completion can never
	// overwrite the result of a newer trigger.
	seq         atomic.Uint64
	lastTrigger atomic.Int64

	stateMu sync.Mutex
	state   State
}

func New(conf *config.Config, log *logger.Logger, provider weather.Provider, locator locate.Locator,
	region display.Region,
) (*Service, error) {
	if conf == nil || log == nil {
		return nil, fmt.Errorf("config and logger are required")
	}
	if provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	if region == nil {
		return nil, fmt.Errorf("display region is required")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	templates, err := template.New(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Service{
		config:    conf,
		logger:    log,
		provider:  provider,
		locator:   locator,
		region:    region,
		templates: templates,
		scheduler: scheduler,
		state:     StateIdle,
	}, nil
}

// Run activates the widget with the default location, starts the optional refresh
// job and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.config.Intervals.Refresh > 0 {
		if _, err := s.scheduler.NewJob(
			gocron.DurationJob(s.config.Intervals.Refresh),
			gocron.NewTask(s.refresh),
			gocron.WithContext(ctx),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithName("weather_refresh_job"),
		); err != nil {
			return fmt.Errorf("failed to create weather_refresh_job: %w", err)
		}
		s.scheduler.Start()
	}

	s.ActivateDefault(ctx)

	<-ctx.Done()
	return s.scheduler.Shutdown()
}

// State returns the currently rendered display state.
func (s *Service) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// ActivateDefault requests weather for the configured default coordinate. The
// coordinate is valid by construction (config validation), so the only failure modes
// are those of the fetch itself.
func (s *Service) ActivateDefault(ctx context.Context) {
	coord, err := s.config.DefaultCoordinate()
	if err != nil {
		s.logger.Error("default coordinate is invalid", logger.Err(err))
		return
	}

	s.lastTrigger.Store(int64(triggerDefault))
	seq := s.seq.Add(1)
	s.fetchAndRender(ctx, seq, coord)
}

// RequestCurrentLocation resolves the host position via the geolocation capability
// and requests weather for it. An absent capability renders the fixed unsupported
// message without issuing any network request.
func (s *Service) RequestCurrentLocation(ctx context.Context) {
	s.lastTrigger.Store(int64(triggerCurrentLocation))
	seq := s.seq.Add(1)

	if s.locator == nil {
		s.renderError(seq, MsgLocationUnsupported)
		return
	}

	s.renderLoading(seq)
	coord, err := s.locator.Locate(ctx)
	switch {
	case errors.Is(err, locate.ErrUnsupported):
		s.logger.Error("geolocation capability is unavailable", logger.Err(err),
			slog.String("locator", s.locator.Name()))
		s.renderError(seq, MsgLocationUnsupported)
		return
	case err != nil:
		s.logger.Error("failed to resolve current location", logger.Err(err),
			slog.String("locator", s.locator.Name()))
		s.renderError(seq, MsgLocationFailed)
		return
	}

	s.fetchAndRender(ctx, seq, coord)
}

// refresh re-runs the most recent trigger. It backs the optional periodic refresh
// job; a widget that was last switched to the current location stays there.
func (s *Service) refresh(ctx context.Context) {
	switch trigger(s.lastTrigger.Load()) {
	case triggerCurrentLocation:
		s.RequestCurrentLocation(ctx)
	default:
		s.ActivateDefault(ctx)
	}
}

// fetchAndRender performs one weather request and renders its outcome. All failures
// collapse into the fixed fetch-failed message; details are logged only.
func (s *Service) fetchAndRender(ctx context.Context, seq uint64, coord locate.Coordinate) {
	s.renderLoading(seq)

	snapshot, err := s.provider.CurrentWeather(ctx, coord)
	if err != nil {
		s.logger.Error("failed to fetch weather data", logger.Err(err),
			slog.String("provider", s.provider.Name()))
		s.renderError(seq, MsgFetchFailed)
		return
	}

	view := presenter.BuildView(snapshot, time.Now())
	text, err := s.templates.Render(s.templates.Text, view)
	if err != nil {
		s.logger.Error("failed to render text template", logger.Err(err))
		s.renderError(seq, MsgFetchFailed)
		return
	}
	tooltip, err := s.templates.Render(s.templates.Tooltip, view)
	if err != nil {
		s.logger.Error("failed to render tooltip template", logger.Err(err))
		s.renderError(seq, MsgFetchFailed)
		return
	}

	s.transition(seq, StateSuccess, display.Fragment{
		Text:    text,
		Tooltip: tooltip,
		Class:   display.ClassSuccess,
	})
}

func (s *Service) renderLoading(seq uint64) {
	text, err := s.templates.Render(s.templates.Loading, nil)
	if err != nil {
		s.logger.Error("failed to render loading template", logger.Err(err))
		text = "Loading weather data…"
	}
	s.transition(seq, StateLoading, display.Fragment{Text: text, Class: display.ClassLoading})
}

func (s *Service) renderError(seq uint64, msg string) {
	text, err := s.templates.Render(s.templates.Error, template.ErrorData{Message: msg})
	if err != nil {
		s.logger.Error("failed to render error template", logger.Err(err))
		text = msg // the region must never be left blank
	}
	s.transition(seq, StateError, display.Fragment{Text: text, Tooltip: msg, Class: display.ClassError})
}

// transition applies one state change and writes the fragment into the region.
// Superseded requests and re-entries into Loading are discarded; a detached region
// discards the render silently.
func (s *Service) transition(seq uint64, next State, fragment display.Fragment) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if seq != s.seq.Load() {
		s.logger.Debug("discarding superseded render", slog.Uint64("seq", seq),
			slog.Uint64("latest", s.seq.Load()))
		return
	}
	if next == StateLoading && s.state == StateLoading {
		return
	}
	if !s.region.Attached() {
		s.logger.Debug("display region is detached, discarding render")
		return
	}

	if err := s.region.Render(fragment); err != nil {
		s.logger.Error("failed to render display fragment", logger.Err(err),
			slog.String("state", next.String()))
		return
	}
	s.state = next
}
