// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/luxfi/elders/types"
)

// fakeCrypto is a minimal, self-contained Crypto used only by this
// package's white-box tests, so they don't need to import blscrypto (which
// itself imports kernel, and would otherwise create an import cycle for an
// internal test file). The external, scenario-level tests in
// kernel_test.go use the real blscrypto.FastStub.
type fakeCrypto struct {
	voter    types.NodeID
	keys     [][]byte
	groupKey []byte
	t        int
}

func newFakeCommittee(n, t int) []*fakeCrypto {
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("key-%d", i))
	}
	groupKey := []byte("group-key")
	out := make([]*fakeCrypto, n)
	for i := range out {
		out[i] = &fakeCrypto{voter: types.NodeID(i), keys: keys, groupKey: groupKey, t: t}
	}
	return out
}

func fakeMAC(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}

func (f *fakeCrypto) SignShare(msg []byte) (ShareSig, error) {
	tag := fakeMAC(f.keys[f.voter], msg)
	out := make([]byte, 4+len(tag))
	binary.BigEndian.PutUint32(out, uint32(f.voter))
	copy(out[4:], tag)
	return ShareSig(out), nil
}

func (f *fakeCrypto) VerifyShare(msg []byte, voter types.NodeID, sig ShareSig) error {
	if len(sig) < 4 {
		return fmt.Errorf("fakecrypto: truncated share")
	}
	idx := types.NodeID(binary.BigEndian.Uint32(sig[:4]))
	if idx != voter {
		return fmt.Errorf("fakecrypto: index mismatch")
	}
	if int(voter) >= len(f.keys) {
		return fmt.Errorf("fakecrypto: voter out of range")
	}
	want := fakeMAC(f.keys[voter], msg)
	if !hmac.Equal(sig[4:], want) {
		return fmt.Errorf("fakecrypto: share does not verify")
	}
	return nil
}

func (f *fakeCrypto) Combine(msg []byte, shares map[types.NodeID]ShareSig) (CombinedSig, error) {
	if len(shares) < f.t {
		return nil, fmt.Errorf("fakecrypto: need %d shares, got %d", f.t, len(shares))
	}
	for voter, sig := range shares {
		if err := f.VerifyShare(msg, voter, sig); err != nil {
			return nil, err
		}
	}
	return CombinedSig(fakeMAC(f.groupKey, msg)), nil
}

func (f *fakeCrypto) VerifyCombined(msg []byte, sig CombinedSig) error {
	if !hmac.Equal([]byte(sig), fakeMAC(f.groupKey, msg)) {
		return fmt.Errorf("fakecrypto: combined signature does not verify")
	}
	return nil
}

type testProposal string

func (p testProposal) Bytes() []byte { return []byte(p) }

func acceptAllTest(Proposal, Context) bool { return true }

func rejectProposal(bad string) ProposalValidator {
	return func(p Proposal, _ Context) bool {
		return string(p.Bytes()) != bad
	}
}
