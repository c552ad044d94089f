// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blscrypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/types"
)

// FastStub is an HMAC-based stand-in for Adapter: no pairings, so kernel
// tests that exercise thousands of votes don't pay real BLS cost. It is not
// a threshold scheme — every voter and the combiner share all the secret
// material out of band — so it must never be used outside tests.
type FastStub struct {
	voter    types.NodeID
	keys     [][]byte
	groupKey []byte
	t        int
}

// NewFastStub builds the stub Crypto for one voter out of a committee's
// shared test keys, as produced by NewFastStubCommittee.
func NewFastStub(voter types.NodeID, keys [][]byte, groupKey []byte, t int) *FastStub {
	return &FastStub{voter: voter, keys: keys, groupKey: groupKey, t: t}
}

// NewFastStubCommittee generates n per-voter keys and a group key for a
// (n,t) test committee.
func NewFastStubCommittee(n, t int) (keys [][]byte, groupKey []byte, err error) {
	keys = make([][]byte, n)
	for i := range keys {
		keys[i] = make([]byte, 32)
		if _, err := rand.Read(keys[i]); err != nil {
			return nil, nil, fmt.Errorf("blscrypto: stub keygen: %w", err)
		}
	}
	groupKey = make([]byte, 32)
	if _, err := rand.Read(groupKey); err != nil {
		return nil, nil, fmt.Errorf("blscrypto: stub keygen: %w", err)
	}
	return keys, groupKey, nil
}

func mac(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}

// SignShare signs msg with this voter's stub key, prefixed with its index
// so VerifyShare can check the claimed voter matches without extra state.
func (f *FastStub) SignShare(msg []byte) (kernel.ShareSig, error) {
	if int(f.voter) >= len(f.keys) {
		return nil, fmt.Errorf("blscrypto: stub: voter %d out of range", f.voter)
	}
	tag := mac(f.keys[f.voter], msg)
	out := make([]byte, 4+len(tag))
	binary.BigEndian.PutUint32(out, uint32(f.voter))
	copy(out[4:], tag)
	return kernel.ShareSig(out), nil
}

func (f *FastStub) VerifyShare(msg []byte, voter types.NodeID, sig kernel.ShareSig) error {
	if len(sig) < 4 {
		return fmt.Errorf("blscrypto: stub: truncated share")
	}
	idx := types.NodeID(binary.BigEndian.Uint32(sig[:4]))
	if idx != voter {
		return fmt.Errorf("blscrypto: stub: share index %d does not match voter %d", idx, voter)
	}
	if int(voter) >= len(f.keys) {
		return fmt.Errorf("blscrypto: stub: voter %d out of range", voter)
	}
	want := mac(f.keys[voter], msg)
	if !hmac.Equal(sig[4:], want) {
		return fmt.Errorf("blscrypto: stub: share does not verify")
	}
	return nil
}

// Combine checks every contributed share and, once at least t are valid,
// stands in for Lagrange interpolation with a MAC under the shared group
// key — any t-subset of valid shares yields the same combined tag, which is
// the one property real callers rely on.
func (f *FastStub) Combine(msg []byte, shares map[types.NodeID]kernel.ShareSig) (kernel.CombinedSig, error) {
	if len(shares) < f.t {
		return nil, fmt.Errorf("blscrypto: stub: combine needs %d shares, got %d", f.t, len(shares))
	}
	for voter, sig := range shares {
		if err := f.VerifyShare(msg, voter, sig); err != nil {
			return nil, fmt.Errorf("blscrypto: stub combine: %w", err)
		}
	}
	return kernel.CombinedSig(mac(f.groupKey, msg)), nil
}

func (f *FastStub) VerifyCombined(msg []byte, sig kernel.CombinedSig) error {
	if !hmac.Equal([]byte(sig), mac(f.groupKey, msg)) {
		return fmt.Errorf("blscrypto: stub: combined signature does not verify")
	}
	return nil
}
