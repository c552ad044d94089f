// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"github.com/luxfi/elders/eldersmetrics"
	"github.com/luxfi/elders/logging"
)

// Option configures a State at construction time.
type Option func(*State)

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics attaches a Prometheus collector bundle. The default is nil,
// under which every metrics call is a no-op.
func WithMetrics(m *eldersmetrics.Collectors) Option {
	return func(s *State) {
		s.metrics = m
	}
}

// WithGeneration scopes this State to a specific generation. The default is
// generation 0, the usual choice for a standalone, single-generation
// deployment; multi-generation callers (membership) supply the generation
// the driver has assigned this instance. The handover driver leaves it at 0.
func WithGeneration(gen uint64) Option {
	return func(s *State) {
		s.generation = gen
	}
}
