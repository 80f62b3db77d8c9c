// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"os"
)

// HandleTriggerSignals processes the user trigger surface: every signal on current
// requests current-location weather, every signal on fallback re-activates the
// configured default location. It returns when the context is cancelled.
func (s *Service) HandleTriggerSignals(ctx context.Context, current, fallback chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-current:
			s.RequestCurrentLocation(ctx)
		case <-fallback:
			s.ActivateDefault(ctx)
		}
	}
}
