// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package handover runs a one-shot consensus kernel instance to agree on
// the opaque description of a committee's successor (spec §1's "handover
// consensus").
package handover

import "github.com/luxfi/elders/kernel"

// Successor is the opaque value a handover instance agrees on: a
// caller-defined description of the committee that should take over once
// this one steps down. The kernel never interprets its bytes.
type Successor struct {
	CommitteeDescriptor []byte
}

// Bytes implements kernel.Proposal.
func (s Successor) Bytes() []byte { return s.CommitteeDescriptor }

// DecodeSuccessor wraps raw proposal bytes (as handed back by the kernel
// after a wire round-trip) as a Successor.
func DecodeSuccessor(b []byte) Successor {
	return Successor{CommitteeDescriptor: append([]byte(nil), b...)}
}

// DefaultValidator accepts any non-empty successor description. Callers
// that need to check the descriptor's internal structure (for example that
// it parses as a well-formed committee manifest) should supply their own
// kernel.ProposalValidator via WithValidator.
func DefaultValidator() kernel.ProposalValidator {
	return func(p kernel.Proposal, _ kernel.Context) bool {
		return len(p.Bytes()) > 0
	}
}
