// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blscrypto

import (
	"testing"

	"github.com/drand/kyber/pairing/bn256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/types"
)

func newTestCommittee(t *testing.T, n, threshold int) []*Adapter {
	t.Helper()
	suite := bn256.NewSuiteBN256()
	pubPoly, priShares, err := DealerKeyGen(suite, n, threshold)
	require.NoError(t, err)

	adapters := make([]*Adapter, n)
	for i, ps := range priShares {
		adapters[i] = NewAdapter(suite, ps, pubPoly, n, threshold)
	}
	return adapters
}

func TestAdapter_SignAndVerifyShare(t *testing.T) {
	adapters := newTestCommittee(t, 4, 3)
	msg := []byte("generation-0 propose x")

	sig, err := adapters[0].SignShare(msg)
	require.NoError(t, err)
	require.NoError(t, adapters[1].VerifyShare(msg, types.NodeID(0), sig))
}

func TestAdapter_VerifyShare_RejectsWrongVoter(t *testing.T) {
	adapters := newTestCommittee(t, 4, 3)
	msg := []byte("generation-0 propose x")

	sig, err := adapters[0].SignShare(msg)
	require.NoError(t, err)
	require.Error(t, adapters[1].VerifyShare(msg, types.NodeID(2), sig))
}

func TestAdapter_CombineAndVerifyCombined(t *testing.T) {
	adapters := newTestCommittee(t, 4, 3)
	msg := []byte("decision over [x]")

	shares := map[types.NodeID]kernel.ShareSig{}
	for i := 0; i < 3; i++ {
		sig, err := adapters[i].SignShare(msg)
		require.NoError(t, err)
		shares[types.NodeID(i)] = sig
	}

	combined, err := adapters[0].Combine(msg, shares)
	require.NoError(t, err)
	require.NoError(t, adapters[0].VerifyCombined(msg, combined))
}

func TestAdapter_Combine_InsufficientShares(t *testing.T) {
	adapters := newTestCommittee(t, 4, 3)
	msg := []byte("decision over [x]")

	sig, err := adapters[0].SignShare(msg)
	require.NoError(t, err)

	_, err = adapters[0].Combine(msg, map[types.NodeID]kernel.ShareSig{0: sig})
	require.Error(t, err)
}
