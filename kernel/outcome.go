// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

// Outcome is what a State transition produces: zero or more signed votes to
// broadcast to the rest of the committee, and a Decision once one has been
// reached. Broadcasts is usually at most one ballot (the kernel never emits
// more than one ballot per adopted input), but callers should treat it as a
// list since the final, post-decision reply and the decision itself arrive
// together.
type Outcome struct {
	Broadcasts []SignedVote
	Decision   *Decision
}

// Decided reports whether this outcome carries a decision: either the one
// just reached, or the instance's existing decision returned alongside its
// final ballot in reply to a later vote.
func (o Outcome) Decided() bool { return o.Decision != nil }
