// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blscrypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/types"
)

func TestFastStub_SignAndVerifyShare(t *testing.T) {
	keys, groupKey, err := NewFastStubCommittee(4, 3)
	require.NoError(t, err)

	a := NewFastStub(0, keys, groupKey, 3)
	b := NewFastStub(1, keys, groupKey, 3)

	msg := []byte("hello")
	sig, err := a.SignShare(msg)
	require.NoError(t, err)
	require.NoError(t, b.VerifyShare(msg, 0, sig))
}

func TestFastStub_VerifyShare_RejectsTamperedVoter(t *testing.T) {
	keys, groupKey, err := NewFastStubCommittee(4, 3)
	require.NoError(t, err)

	a := NewFastStub(0, keys, groupKey, 3)
	msg := []byte("hello")
	sig, err := a.SignShare(msg)
	require.NoError(t, err)

	require.Error(t, a.VerifyShare(msg, 1, sig))
}

func TestFastStub_CombineNeedsThreshold(t *testing.T) {
	keys, groupKey, err := NewFastStubCommittee(4, 3)
	require.NoError(t, err)

	msg := []byte("decision")
	shares := map[types.NodeID]kernel.ShareSig{}
	for i := 0; i < 2; i++ {
		c := NewFastStub(types.NodeID(i), keys, groupKey, 3)
		sig, err := c.SignShare(msg)
		require.NoError(t, err)
		shares[types.NodeID(i)] = sig
	}

	combiner := NewFastStub(0, keys, groupKey, 3)
	_, err = combiner.Combine(msg, shares)
	require.Error(t, err, "two shares is short of the threshold of three")
}

func TestFastStub_CombineAndVerifyCombined(t *testing.T) {
	keys, groupKey, err := NewFastStubCommittee(4, 3)
	require.NoError(t, err)

	msg := []byte("decision")
	shares := map[types.NodeID]kernel.ShareSig{}
	for i := 0; i < 3; i++ {
		c := NewFastStub(types.NodeID(i), keys, groupKey, 3)
		sig, err := c.SignShare(msg)
		require.NoError(t, err)
		shares[types.NodeID(i)] = sig
	}

	combiner := NewFastStub(0, keys, groupKey, 3)
	combined, err := combiner.Combine(msg, shares)
	require.NoError(t, err)
	require.NoError(t, combiner.VerifyCombined(msg, combined))

	// Any other t-subset of valid shares must recover the same combined tag.
	shares2 := map[types.NodeID]kernel.ShareSig{}
	for i := 1; i < 4; i++ {
		c := NewFastStub(types.NodeID(i), keys, groupKey, 3)
		sig, err := c.SignShare(msg)
		require.NoError(t, err)
		shares2[types.NodeID(i)] = sig
	}
	combined2, err := combiner.Combine(msg, shares2)
	require.NoError(t, err)
	require.Equal(t, combined, combined2)
}
