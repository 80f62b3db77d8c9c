// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package geoclue resolves the host position via the GeoClue2 service on the
// system D-Bus. This is the desktop equivalent of a browser's geolocation
// facility: the user (or their desktop agent) can grant or deny the request.
package geoclue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/weatherbar/weatherbar/internal/locate"
	"github.com/weatherbar/weatherbar/internal/logger"
)

const (
	busName       = "org.freedesktop.GeoClue2"
	managerPath   = "/org/freedesktop/GeoClue2/Manager"
	managerIface  = "org.freedesktop.GeoClue2.Manager"
	clientIface   = "org.freedesktop.GeoClue2.Client"
	locationIface = "org.freedesktop.GeoClue2.Location"

	nameHasOwnerAddress = "org.freedesktop.DBus.NameHasOwner"

	desktopID = "weatherbar"

	// GClueAccuracyLevelExact per the GeoClue2 D-Bus specification.
	accuracyLevelExact = uint32(8)

	signalBufferSize = 8
	locateTimeout    = time.Second * 30
)

type Locator struct {
	name    string
	logger  *logger.Logger
	timeout time.Duration
}

func New(log *logger.Logger) *Locator {
	return &Locator{
		name:    "geoclue",
		logger:  log,
		timeout: locateTimeout,
	}
}

func (l *Locator) Name() string {
	return l.name
}

// Locate requests a single position fix from GeoClue2. An unreachable system bus or
// an absent GeoClue2 service maps to locate.ErrUnsupported, everything after that
// point maps to locate.ErrNoFix.
func (l *Locator) Locate(ctx context.Context) (coord locate.Coordinate, err error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return coord, fmt.Errorf("%w: failed to connect to system bus: %s", locate.ErrUnsupported, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close system bus: %w", closeErr))
		}
	}()

	var hasOwner bool
	if err = conn.BusObject().Call(nameHasOwnerAddress, 0, busName).Store(&hasOwner); err != nil {
		return coord, fmt.Errorf("%w: failed to call DBus NameHasOwner: %s", locate.ErrUnsupported, err)
	}
	if !hasOwner {
		return coord, fmt.Errorf("%w: GeoClue2 is not present on the system bus", locate.ErrUnsupported)
	}

	clientPath, err := l.registerClient(conn)
	if err != nil {
		return coord, err
	}
	client := conn.Object(busName, clientPath)

	if err = conn.AddMatchSignal(dbus.WithMatchInterface(clientIface),
		dbus.WithMatchMember("LocationUpdated"), dbus.WithMatchObjectPath(clientPath),
	); err != nil {
		return coord, fmt.Errorf("failed to subscribe to location updates: %w", err)
	}
	sigCh := make(chan *dbus.Signal, signalBufferSize)
	conn.Signal(sigCh)
	defer conn.RemoveSignal(sigCh)

	if call := client.Call(clientIface+".Start", 0); call.Err != nil {
		return coord, fmt.Errorf("%w: failed to start GeoClue2 client: %s", locate.ErrNoFix, call.Err)
	}
	defer func() {
		if call := client.Call(clientIface+".Stop", 0); call.Err != nil {
			l.logger.Error("failed to stop GeoClue2 client", logger.Err(call.Err))
		}
	}()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return coord, fmt.Errorf("%w: %s", locate.ErrNoFix, ctx.Err())
		case <-timer.C:
			return coord, fmt.Errorf("%w: timed out waiting for a position fix", locate.ErrNoFix)
		case sgn, ok := <-sigCh:
			if !ok {
				return coord, fmt.Errorf("%w: system bus connection closed", locate.ErrNoFix)
			}
			coord, ok = l.coordinateFromSignal(conn, sgn)
			if !ok {
				continue
			}
			return coord, nil
		}
	}
}

// registerClient obtains a GeoClue2 client object and configures it for this service.
func (l *Locator) registerClient(conn *dbus.Conn) (dbus.ObjectPath, error) {
	var clientPath dbus.ObjectPath
	manager := conn.Object(busName, managerPath)
	if err := manager.Call(managerIface+".GetClient", 0).Store(&clientPath); err != nil {
		return clientPath, fmt.Errorf("%w: failed to get GeoClue2 client: %s", locate.ErrUnsupported, err)
	}

	client := conn.Object(busName, clientPath)
	if err := client.SetProperty(clientIface+".DesktopId", dbus.MakeVariant(desktopID)); err != nil {
		return clientPath, fmt.Errorf("failed to set desktop id: %w", err)
	}
	if err := client.SetProperty(clientIface+".RequestedAccuracyLevel",
		dbus.MakeVariant(accuracyLevelExact)); err != nil {
		return clientPath, fmt.Errorf("failed to set requested accuracy level: %w", err)
	}

	return clientPath, nil
}

// coordinateFromSignal extracts the coordinate of the new location object referenced
// by a LocationUpdated signal.
func (l *Locator) coordinateFromSignal(conn *dbus.Conn, sgn *dbus.Signal) (locate.Coordinate, bool) {
	var coord locate.Coordinate
	if sgn.Name != clientIface+".LocationUpdated" || len(sgn.Body) != 2 {
		return coord, false
	}
	locPath, ok := sgn.Body[1].(dbus.ObjectPath)
	if !ok {
		return coord, false
	}

	location := conn.Object(busName, locPath)
	lat, err := l.floatProperty(location, locationIface+".Latitude")
	if err != nil {
		l.logger.Error("failed to read latitude from location object", logger.Err(err))
		return coord, false
	}
	lon, err := l.floatProperty(location, locationIface+".Longitude")
	if err != nil {
		l.logger.Error("failed to read longitude from location object", logger.Err(err))
		return coord, false
	}

	coord, err = locate.NewCoordinate(locate.Truncate(lat, locate.TruncPrecision),
		locate.Truncate(lon, locate.TruncPrecision))
	if err != nil {
		l.logger.Error("GeoClue2 returned an invalid coordinate", logger.Err(err))
		return coord, false
	}
	return coord, true
}

func (l *Locator) floatProperty(obj dbus.BusObject, prop string) (float64, error) {
	variant, err := obj.GetProperty(prop)
	if err != nil {
		return 0, fmt.Errorf("failed to get property %s: %w", prop, err)
	}
	value, ok := variant.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("property %s is not a float value", prop)
	}
	return value, nil
}
