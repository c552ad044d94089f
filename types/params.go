// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

// CommitteeParams is a named (N, T) preset, the committee-sizing analogue
// of a consensus config.Parameters block: small, fixed knobs a caller picks
// from rather than hand-assembling.
type CommitteeParams struct {
	N int
	T int
}

// DefaultCommitteeParams targets a committee that tolerates two Byzantine
// voters out of seven (t=2, T=N-t=5).
func DefaultCommitteeParams() CommitteeParams {
	return CommitteeParams{N: 7, T: 5}
}

// SmallCommitteeParams is the smallest committee that tolerates a single
// Byzantine voter (N=4, t=1, T=3), the minimum size for which the kernel's
// BFT guarantees are meaningful.
func SmallCommitteeParams() CommitteeParams {
	return CommitteeParams{N: 4, T: 3}
}

// SoloCommitteeParams is a single-voter "committee", useful only for
// exercising the kernel's code paths in isolation (no fault tolerance: any
// misbehavior by the sole voter is unrecoverable).
func SoloCommitteeParams() CommitteeParams {
	return CommitteeParams{N: 1, T: 1}
}

// Build constructs a Committee from this preset with the given identifier.
func (p CommitteeParams) Build(id []byte) Committee {
	return Committee{ID: id, N: p.N, T: p.T}
}
