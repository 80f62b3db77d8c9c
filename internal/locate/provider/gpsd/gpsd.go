// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package gpsd resolves the host position from a locally running gpsd daemon.
package gpsd

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/weatherbar/weatherbar/internal/locate"
	"github.com/weatherbar/weatherbar/internal/logger"
)

const (
	host = "localhost"
	port = "2947"

	locateTimeout = time.Second * 30
)

type Locator struct {
	name    string
	addr    string
	logger  *logger.Logger
	timeout time.Duration
}

func New(log *logger.Logger) *Locator {
	return &Locator{
		name:    "gpsd",
		addr:    net.JoinHostPort(host, port),
		logger:  log,
		timeout: locateTimeout,
	}
}

func (l *Locator) Name() string {
	return l.name
}

// Locate waits for the first TPV report with at least a 2D fix. An unreachable gpsd
// maps to locate.ErrUnsupported.
func (l *Locator) Locate(ctx context.Context) (locate.Coordinate, error) {
	var coord locate.Coordinate

	session, err := gpsd.Dial(l.addr)
	if err != nil {
		return coord, fmt.Errorf("%w: failed to connect to gpsd at %q: %s", locate.ErrUnsupported,
			l.addr, err)
	}

	// fix receives at most one coordinate; later TPV reports are dropped.
	fix := make(chan locate.Coordinate, 1)
	session.AddFilter("TPV", func(r interface{}) {
		tpv, ok := r.(*gpsd.TPVReport)
		if !ok {
			return
		}
		if tpv.Mode < gpsd.Mode2D {
			return
		}

		result, err := locate.NewCoordinate(locate.Truncate(tpv.Lat, locate.TruncPrecision),
			locate.Truncate(tpv.Lon, locate.TruncPrecision))
		if err != nil {
			l.logger.Error("gpsd returned an invalid coordinate", logger.Err(err))
			return
		}

		select {
		case fix <- result:
		default:
		}
	})

	// Watch() returns a channel that closes when the watch ends (e.g. connection
	// lost). go-gpsd has no Close(); the session is torn down with the process.
	done := session.Watch()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return coord, fmt.Errorf("%w: %s", locate.ErrNoFix, ctx.Err())
	case <-timer.C:
		return coord, fmt.Errorf("%w: timed out waiting for a GPS fix", locate.ErrNoFix)
	case <-done:
		return coord, fmt.Errorf("%w: gpsd connection ended before a fix was received", locate.ErrNoFix)
	case coord = <-fix:
		return coord, nil
	}
}
