// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types holds the identifiers and committee description shared by
// the consensus kernel and every package built on top of it.
package types

import (
	"errors"
	"fmt"
)

// NodeID identifies a voter within a committee. It is equal to the index of
// the voter's share in the committee's (N, T) threshold key, so it is a
// plain ordinal rather than a content-addressed identity.
type NodeID uint32

// Committee fixes the N voters and the T shares required to combine a full
// threshold signature. The cryptographic material itself (group public key,
// per-share public keys) lives behind the kernel.Crypto capability, not
// here; Committee only carries what the kernel's counting and bookkeeping
// logic needs.
type Committee struct {
	// ID fingerprints the committee (for example a hash of its group public
	// key) so that votes can be scoped to "this committee" without the
	// kernel needing to understand the key material itself.
	ID []byte
	N  int
	T  int
}

// Validate checks that the committee parameters are internally consistent.
func (c Committee) Validate() error {
	if c.N <= 0 {
		return errors.New("committee: N must be >= 1")
	}
	if c.T <= 0 || c.T > c.N {
		return fmt.Errorf("committee: T must be in [1, %d], got %d", c.N, c.T)
	}
	if len(c.ID) == 0 {
		return errors.New("committee: ID must not be empty")
	}
	return nil
}

// SuperMajorityThreshold returns the smallest integer strictly greater than
// (N+faults)/2, recomputed as faults are learned.
func (c Committee) SuperMajorityThreshold(faults int) int {
	return (c.N+faults)/2 + 1
}

// Equal reports whether two committees describe the same agreement
// instance.
func (c Committee) Equal(o Committee) bool {
	if c.N != o.N || c.T != o.T || len(c.ID) != len(o.ID) {
		return false
	}
	for i := range c.ID {
		if c.ID[i] != o.ID[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer for logging.
func (c Committee) String() string {
	return fmt.Sprintf("committee(n=%d,t=%d,id=%x)", c.N, c.T, c.ID)
}
