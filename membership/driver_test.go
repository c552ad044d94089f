// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package membership_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/elders/blscrypto"
	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/membership"
	"github.com/luxfi/elders/types"
)

func newDriverFixture(t *testing.T, n, threshold int) (types.Committee, []*membership.Driver) {
	t.Helper()
	committee := types.Committee{ID: []byte("fixture"), N: n, T: threshold}
	keys, groupKey, err := blscrypto.NewFastStubCommittee(n, threshold)
	require.NoError(t, err)

	drivers := make([]*membership.Driver, n)
	for i := 0; i < n; i++ {
		crypto := blscrypto.NewFastStub(types.NodeID(i), keys, groupKey, threshold)
		drivers[i] = membership.NewDriver(committee, types.NodeID(i), crypto)
	}
	return committee, drivers
}

// runGeneration broadcasts every driver's initial ballot for gen and
// gossips Handle outputs until no driver produces anything new.
func runGeneration(t *testing.T, drivers []*membership.Driver, gen uint64, initial map[int]kernel.SignedVote) {
	t.Helper()
	type msg struct {
		to int
		sv kernel.SignedVote
	}
	var queue []msg
	for from, sv := range initial {
		for j := range drivers {
			if j != from {
				queue = append(queue, msg{to: j, sv: sv})
			}
		}
	}
	for i := 0; i < 10_000 && len(queue) > 0; i++ {
		m := queue[0]
		queue = queue[1:]
		outcome, err := drivers[m.to].Handle(gen, m.sv)
		if err != nil {
			continue
		}
		for _, out := range outcome.Broadcasts {
			for j := range drivers {
				if j != m.to {
					queue = append(queue, msg{to: j, sv: out})
				}
			}
		}
	}
	require.Empty(t, queue, "generation did not converge within the round budget")
}

func TestDriver_SingleGenerationAgreesOnMutations(t *testing.T) {
	committee, drivers := newDriverFixture(t, 3, 2)
	_ = committee

	mutations := []membership.Mutation{
		{Op: membership.MutationAdd, Member: 3, PublicShare: []byte("pubkey-3")},
	}

	initial := map[int]kernel.SignedVote{}
	for i, d := range drivers {
		sv, err := d.StartGeneration(mutations)
		require.NoError(t, err)
		initial[i] = sv
	}
	runGeneration(t, drivers, 0, initial)

	for i, d := range drivers {
		history := d.History()
		require.Lenf(t, history, 1, "node %d did not reach a decision", i)

		decoded, err := membership.DecodeMutationSet(history[0].Proposals[0].Bytes())
		require.NoError(t, err)
		require.Equal(t, membership.NewMutationSet(mutations...), decoded)
	}
}

func TestDriver_StartGeneration_RequiresPriorDecision(t *testing.T) {
	_, drivers := newDriverFixture(t, 3, 2)
	mutations := []membership.Mutation{{Op: membership.MutationAdd, Member: 1, PublicShare: []byte("k")}}

	_, err := drivers[0].StartGeneration(mutations)
	require.NoError(t, err)

	_, err = drivers[0].StartGeneration(mutations)
	require.ErrorIs(t, err, membership.ErrGenerationInProgress)
}

func TestDriver_Handle_UnknownGeneration(t *testing.T) {
	_, drivers := newDriverFixture(t, 3, 2)
	_, err := drivers[0].Handle(5, kernel.SignedVote{})
	require.ErrorIs(t, err, membership.ErrUnknownGeneration)
}

func TestDefaultValidator_RejectsDuplicateMember(t *testing.T) {
	validator := membership.DefaultValidator()
	muts := membership.MutationSet{
		{Op: membership.MutationAdd, Member: 1, PublicShare: []byte("a")},
		{Op: membership.MutationRemove, Member: 1, PublicShare: nil},
	}
	require.False(t, validator(muts, nil))
}

func TestDefaultValidator_RejectsEmptySet(t *testing.T) {
	validator := membership.DefaultValidator()
	require.False(t, validator(membership.MutationSet(nil), nil))
}
