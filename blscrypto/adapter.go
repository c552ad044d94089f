// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package blscrypto implements kernel.Crypto over github.com/drand/kyber's
// threshold-BLS scheme (drand's production signing scheme): signatures and
// signature shares on G1, public keys on G2, shares combined by Lagrange
// interpolation once T verified shares are known.
package blscrypto

import (
	"fmt"

	"github.com/drand/kyber/pairing"
	"github.com/drand/kyber/share"
	"github.com/drand/kyber/sign"
	"github.com/drand/kyber/sign/tbls"

	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/types"
)

// Adapter is one voter's view of the committee's threshold key: its own
// secret share, and the public commitment polynomial needed to verify
// everyone else's shares and the recovered group signature.
type Adapter struct {
	scheme  sign.ThresholdScheme
	priShare *share.PriShare
	pubPoly *share.PubPoly
	n, t    int
}

// NewAdapter builds the Crypto implementation for one committee voter.
// suite, pubPoly, and t/n must be the same across the whole committee; only
// priShare differs per voter.
func NewAdapter(suite pairing.Suite, priShare *share.PriShare, pubPoly *share.PubPoly, n, t int) *Adapter {
	return &Adapter{
		scheme:   tbls.NewThresholdSchemeOnG1(suite),
		priShare: priShare,
		pubPoly:  pubPoly,
		n:        n,
		t:        t,
	}
}

// SignShare produces this voter's threshold BLS signature share over msg.
func (a *Adapter) SignShare(msg []byte) (kernel.ShareSig, error) {
	sig, err := a.scheme.Sign(a.priShare, msg)
	if err != nil {
		return nil, fmt.Errorf("blscrypto: sign share: %w", err)
	}
	return kernel.ShareSig(sig), nil
}

// VerifyShare checks that sig is voter's valid share over msg: the index
// encoded in the share must match voter, and the partial BLS signature must
// verify against the public polynomial evaluated at that index.
func (a *Adapter) VerifyShare(msg []byte, voter types.NodeID, sig kernel.ShareSig) error {
	ss := tbls.SigShare(sig)
	idx, err := ss.Index()
	if err != nil {
		return fmt.Errorf("blscrypto: share index: %w", err)
	}
	if idx != int(voter) {
		return fmt.Errorf("blscrypto: share index %d does not match voter %d", idx, voter)
	}
	if err := a.scheme.VerifyPartial(a.pubPoly, msg, sig); err != nil {
		return fmt.Errorf("blscrypto: verify share: %w", err)
	}
	return nil
}

// Combine recovers the full threshold signature over msg from shares via
// Lagrange interpolation, re-verifying every share first since Recover only
// guarantees soundness for shares that actually check out.
func (a *Adapter) Combine(msg []byte, shares map[types.NodeID]kernel.ShareSig) (kernel.CombinedSig, error) {
	if len(shares) < a.t {
		return nil, fmt.Errorf("blscrypto: combine needs %d shares, got %d", a.t, len(shares))
	}
	sigs := make([][]byte, 0, len(shares))
	for voter, sig := range shares {
		if err := a.VerifyShare(msg, voter, sig); err != nil {
			return nil, fmt.Errorf("blscrypto: combine: %w", err)
		}
		sigs = append(sigs, []byte(sig))
	}
	sig, err := a.scheme.Recover(a.pubPoly, msg, sigs, a.t, a.n)
	if err != nil {
		return nil, fmt.Errorf("blscrypto: recover: %w", err)
	}
	return kernel.CombinedSig(sig), nil
}

// VerifyCombined checks a recovered signature against the committee's group
// public key, the commitment at index 0 of the sharing polynomial.
func (a *Adapter) VerifyCombined(msg []byte, sig kernel.CombinedSig) error {
	if err := a.scheme.VerifyRecovered(a.pubPoly.Commit(), msg, sig); err != nil {
		return fmt.Errorf("blscrypto: verify combined: %w", err)
	}
	return nil
}
