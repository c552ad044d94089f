// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handover

import (
	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/logging"
	"github.com/luxfi/elders/types"
)

// Driver wraps a single kernel.State scoped to generation 0: handover is a
// one-shot agreement, not a sequence like membership.
type Driver struct {
	state   *kernel.State
	initErr error
}

// NewDriver builds a Driver for committee, scoped to this node's voter
// index and signing capability. Construction failures (an invalid
// committee, a nil crypto) are deferred and surfaced by the first call to
// Propose or Handle, since a one-shot driver has no natural place to return
// an error before that point.
func NewDriver(committee types.Committee, voter types.NodeID, crypto kernel.Crypto, opts ...Option) *Driver {
	cfg := driverConfig{
		validator: DefaultValidator(),
		logger:    logging.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	kopts := []kernel.Option{kernel.WithLogger(cfg.logger)}
	if cfg.metrics != nil {
		kopts = append(kopts, kernel.WithMetrics(cfg.metrics))
	}
	st, err := kernel.New(committee, voter, crypto, cfg.validator, cfg.ctx, kopts...)
	return &Driver{state: st, initErr: err}
}

// Propose issues this node's own proposal for the successor description.
func (d *Driver) Propose(successor Successor) (kernel.SignedVote, error) {
	if d.initErr != nil {
		return kernel.SignedVote{}, d.initErr
	}
	return d.state.Propose(successor)
}

// Handle adopts an incoming signed vote and drives the handover forward.
func (d *Driver) Handle(sv kernel.SignedVote) (kernel.Outcome, error) {
	if d.initErr != nil {
		return kernel.Outcome{}, d.initErr
	}
	return d.state.HandleSignedVote(sv)
}

// Decision reports the handover's outcome, if reached.
func (d *Driver) Decision() (kernel.Decision, bool) {
	if d.initErr != nil {
		return kernel.Decision{}, false
	}
	return d.state.Decision()
}

// AntiEntropy returns this driver's latest ballot, for gossip catch-up.
func (d *Driver) AntiEntropy() (kernel.SignedVote, bool) {
	if d.initErr != nil {
		return kernel.SignedVote{}, false
	}
	return d.state.AntiEntropy()
}
