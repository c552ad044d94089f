// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handover_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/elders/blscrypto"
	"github.com/luxfi/elders/handover"
	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/types"
)

func newHandoverFixture(t *testing.T, n, threshold int) []*handover.Driver {
	t.Helper()
	committee := types.Committee{ID: []byte("fixture"), N: n, T: threshold}
	keys, groupKey, err := blscrypto.NewFastStubCommittee(n, threshold)
	require.NoError(t, err)

	drivers := make([]*handover.Driver, n)
	for i := 0; i < n; i++ {
		crypto := blscrypto.NewFastStub(types.NodeID(i), keys, groupKey, threshold)
		drivers[i] = handover.NewDriver(committee, types.NodeID(i), crypto)
	}
	return drivers
}

func TestDriver_AgreesOnSuccessor(t *testing.T) {
	drivers := newHandoverFixture(t, 3, 2)
	successor := handover.Successor{CommitteeDescriptor: []byte("next-committee-manifest")}

	type msg struct {
		to int
		sv kernel.SignedVote
	}
	var queue []msg
	for i, d := range drivers {
		sv, err := d.Propose(successor)
		require.NoError(t, err)
		for j := range drivers {
			if j != i {
				queue = append(queue, msg{to: j, sv: sv})
			}
		}
	}

	for i := 0; i < 10_000 && len(queue) > 0; i++ {
		m := queue[0]
		queue = queue[1:]
		outcome, err := drivers[m.to].Handle(m.sv)
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
	require.Empty(t, queue)

	for i, d := range drivers {
		dec, ok := d.Decision()
		require.Truef(t, ok, "node %d did not decide", i)
		require.Len(t, dec.Proposals, 1)
		require.Equal(t, successor.CommitteeDescriptor, dec.Proposals[0].Bytes())
	}
}

func TestDriver_RejectsEmptySuccessor(t *testing.T) {
	drivers := newHandoverFixture(t, 3, 2)
	_, err := drivers[0].Propose(handover.Successor{})
	require.Error(t, err)
}

func TestDecodeSuccessor_CopiesBytes(t *testing.T) {
	raw := []byte("manifest")
	s := handover.DecodeSuccessor(raw)
	raw[0] = 'X'
	require.Equal(t, "manifest", string(s.CommitteeDescriptor))
}
