// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging re-exports github.com/luxfi/log's Logger so the kernel
// and its drivers depend on one name for it, the way the rest of the
// luxfi stack wraps it per-component (see luxfi/log/noop.go).
package logging

import log "github.com/luxfi/log"

// Logger is github.com/luxfi/log.Logger. Kept as an alias, not a new
// interface, so a *log.logger from the real package satisfies it directly.
type Logger = log.Logger

// NewNoOpLogger returns a logger that discards everything, the default for
// a kernel.State so embedding applications don't pay logging cost unless
// they opt in.
func NewNoOpLogger() Logger { return log.NewNoOpLogger() }

// NewLogger names a component-scoped logger for production use.
func NewLogger(component string) Logger { return log.NewLogger(component) }
