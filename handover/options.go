// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handover

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

// WithValidator overrides DefaultValidator.
func WithValidator(v kernel.ProposalValidator) Option {
	return func(c *driverConfig) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithContext attaches the kernel.Context passed to the validator.
func WithContext(ctx kernel.Context) Option {
	return func(c *driverConfig) { c.ctx = ctx }
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *driverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a Prometheus collector bundle.
func WithMetrics(m *eldersmetrics.Collectors) Option {
	return func(c *driverConfig) { c.metrics = m }
}
