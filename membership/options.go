// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package membership

import (
	"github.com/luxfi/elders/eldersmetrics"
	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/logging"
)

type driverConfig struct {
	validator kernel.ProposalValidator
	ctx       kernel.Context
	logger    logging.Logger
	metrics   *eldersmetrics.Collectors
}

// Option configures a Driver at construction time.
type Option func(*driverConfig)

// WithValidator overrides DefaultValidator, typically to layer in
// membership-specific semantic checks (for example rejecting a Remove for a
// NodeID that is not currently a member) on top of DefaultValidator's
// structural checks.
func WithValidator(v kernel.ProposalValidator) Option {
	return func(c *driverConfig) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithContext attaches the kernel.Context passed to the validator on every
// generation this driver starts.
func WithContext(ctx kernel.Context) Option {
	return func(c *driverConfig) { c.ctx = ctx }
}

// WithLogger attaches a structured logger, propagated to every generation's
// kernel.State.
func WithLogger(l logging.Logger) Option {
	return func(c *driverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a Prometheus collector bundle, propagated to every
// generation's kernel.State.
func WithMetrics(m *eldersmetrics.Collectors) Option {
	return func(c *driverConfig) { c.metrics = m }
}
