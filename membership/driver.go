// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package membership

import (
	"fmt"

	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/logging"
	"github.com/luxfi/elders/types"
)

// Driver runs the consensus kernel across an unbounded sequence of
// generations on behalf of one node, holding every terminated generation's
// State so History can replay the group's full membership timeline
// (spec §9's "hold a sequence of terminated states indexed by generation").
type Driver struct {
	committee types.Committee
	voter     types.NodeID
	crypto    kernel.Crypto
	cfg       driverConfig

	generations    map[uint64]*kernel.State
	nextGeneration uint64
}

// NewDriver builds a Driver for committee, scoped to this node's voter
// index and signing capability. The first call to StartGeneration begins
// generation 0.
func NewDriver(committee types.Committee, voter types.NodeID, crypto kernel.Crypto, opts ...Option) *Driver {
	cfg := driverConfig{
		validator: DefaultValidator(),
		logger:    logging.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Driver{
		committee:   committee,
		voter:       voter,
		crypto:      crypto,
		cfg:         cfg,
		generations: make(map[uint64]*kernel.State),
	}
}

// StartGeneration begins the next generation, proposing mutations as this
// node's initial ballot. It fails with ErrGenerationInProgress if the prior
// generation (if any) has not yet decided — generations run strictly in
// sequence for a single driver.
func (d *Driver) StartGeneration(mutations []Mutation) (kernel.SignedVote, error) {
	if d.nextGeneration > 0 {
		prev := d.generations[d.nextGeneration-1]
		if _, decided := prev.Decision(); !decided {
			return kernel.SignedVote{}, fmt.Errorf("%w: generation %d", ErrGenerationInProgress, d.nextGeneration-1)
		}
	}

	gen := d.nextGeneration
	st, err := kernel.New(d.committee, d.voter, d.crypto, d.cfg.validator, d.cfg.ctx, d.stateOpts(gen)...)
	if err != nil {
		return kernel.SignedVote{}, fmt.Errorf("membership: start generation %d: %w", gen, err)
	}
	sv, err := st.Propose(NewMutationSet(mutations...))
	if err != nil {
		return kernel.SignedVote{}, err
	}
	d.generations[gen] = st
	d.nextGeneration++
	d.cfg.logger.Info("started generation", "generation", gen, "mutations", len(mutations))
	return sv, nil
}

func (d *Driver) stateOpts(gen uint64) []kernel.Option {
	opts := []kernel.Option{kernel.WithGeneration(gen)}
	if d.cfg.logger != nil {
		opts = append(opts, kernel.WithLogger(d.cfg.logger))
	}
	if d.cfg.metrics != nil {
		opts = append(opts, kernel.WithMetrics(d.cfg.metrics))
	}
	return opts
}

// Handle routes sv to the generation it targets. A generation this driver
// never started is reported with ErrUnknownGeneration; the kernel itself
// handles past/future generation routing (anti-entropy, FutureGeneration)
// for any generation currently known to this driver.
func (d *Driver) Handle(gen uint64, sv kernel.SignedVote) (kernel.Outcome, error) {
	st, ok := d.generations[gen]
	if !ok {
		return kernel.Outcome{}, fmt.Errorf("%w: %d", ErrUnknownGeneration, gen)
	}
	return st.HandleSignedVote(sv)
}

// AntiEntropy returns the latest ballot this driver has emitted for gen, if
// any, for gossip catch-up.
func (d *Driver) AntiEntropy(gen uint64) (kernel.SignedVote, bool) {
	st, ok := d.generations[gen]
	if !ok {
		return kernel.SignedVote{}, false
	}
	return st.AntiEntropy()
}

// History returns every decision this driver has reached so far, in
// generation order.
func (d *Driver) History() []kernel.Decision {
	out := make([]kernel.Decision, 0, len(d.generations))
	for gen := uint64(0); gen < d.nextGeneration; gen++ {
		st, ok := d.generations[gen]
		if !ok {
			continue
		}
		if dec, ok := st.Decision(); ok {
			out = append(out, dec)
		}
	}
	return out
}
