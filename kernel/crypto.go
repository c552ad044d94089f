// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "github.com/luxfi/elders/types"

// ShareSig is an opaque signature share. The kernel never interprets its
// bytes beyond comparison and as a key into the idempotence cache; only the
// Crypto implementation understands the curve point or scheme it encodes.
type ShareSig []byte

// CombinedSig is an opaque full threshold signature produced by Combine.
type CombinedSig []byte

// Crypto is the narrow capability surface the kernel relies on for
// threshold-BLS signing and verification. It is supplied by the caller; the
// kernel treats it as a pure function set and never mutates it, so a single
// Crypto value may be shared across consensus instances as long as the
// implementation is itself safe for concurrent use.
type Crypto interface {
	// SignShare signs msg with this node's share of the committee key.
	SignShare(msg []byte) (ShareSig, error)
	// VerifyShare checks that sig is voter's valid share signature over msg.
	VerifyShare(msg []byte, voter types.NodeID, sig ShareSig) error
	// Combine recovers a full threshold signature over msg from at least T
	// verified shares, keyed by voter.
	Combine(msg []byte, shares map[types.NodeID]ShareSig) (CombinedSig, error)
	// VerifyCombined checks a full threshold signature against the
	// committee's group public key.
	VerifyCombined(msg []byte, sig CombinedSig) error
}
