// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package display defines the render surface the widget writes its visual states to.
package display

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// CSS-style classes for the three mutually exclusive visual states. Status bars use
// them to style the widget.
const (
	ClassLoading = "loading"
	ClassSuccess = "success"
	ClassError   = "error"
)

// ErrDetached is returned when a fragment is rendered into a region that is no longer
// part of a display.
var ErrDetached = errors.New("display region is detached")

// Fragment is one complete replacement of the region content.
type Fragment struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

// Region is a single addressable output region. Render replaces any prior content.
// Attached reports whether the region is still part of a display; callers are
// expected to check it before rendering and to discard results silently if not.
type Region interface {
	Render(fragment Fragment) error
	Attached() bool
}

// BarRegion renders fragments as one JSON object per line, the wire format status
// bars like waybar consume on a module's stdout.
type BarRegion struct {
	mu       sync.Mutex
	out      io.Writer
	detached atomic.Bool
}

// NewBarRegion returns a BarRegion writing to out. The region starts attached.
func NewBarRegion(out io.Writer) *BarRegion {
	return &BarRegion{out: out}
}

func (r *BarRegion) Render(fragment Fragment) error {
	if !r.Attached() {
		return ErrDetached
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return json.NewEncoder(r.out).Encode(fragment)
}

func (r *BarRegion) Attached() bool {
	return !r.detached.Load()
}

// Detach marks the region as removed from the display. Subsequent renders fail with
// ErrDetached.
func (r *BarRegion) Detach() {
	r.detached.Store(true)
}
