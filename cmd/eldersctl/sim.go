// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luxfi/elders/blscrypto"
	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/types"
)

func simCmd() *cobra.Command {
	var n, t int
	var proposals string
	var maxRounds int
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run an in-process multi-node consensus simulation",
		Long: `Run every node of a committee against the elders kernel in a single
process, using the fast HMAC crypto stub, assigning --proposals round-robin
across nodes, and reporting whether and what the committee decided.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(n, t, strings.Split(proposals, ","), maxRounds)
		},
	}
	cmd.Flags().IntVar(&n, "n", types.SmallCommitteeParams().N, "committee size")
	cmd.Flags().IntVar(&t, "t", types.SmallCommitteeParams().T, "signing threshold")
	cmd.Flags().StringVar(&proposals, "proposals", "x", "comma-separated proposals, assigned round-robin to nodes")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 1000, "abort the simulation after this many message deliveries without termination")
	return cmd
}

// stringProposal is a kernel.Proposal over a UTF-8 string, the simplest
// possible domain value for local simulation.
type stringProposal string

func (p stringProposal) Bytes() []byte { return []byte(p) }

func acceptAll(kernel.Proposal, kernel.Context) bool { return true }

func runSim(n, t int, proposals []string, maxRounds int) error {
	if len(proposals) == 0 {
		return fmt.Errorf("at least one proposal is required")
	}
	committee := types.Committee{ID: []byte("eldersctl-sim"), N: n, T: t}
	if err := committee.Validate(); err != nil {
		return fmt.Errorf("invalid committee: %w", err)
	}

	keys, groupKey, err := blscrypto.NewFastStubCommittee(n, t)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}

	states := make([]*kernel.State, n)
	for i := 0; i < n; i++ {
		crypto := blscrypto.NewFastStub(types.NodeID(i), keys, groupKey, t)
		st, err := kernel.New(committee, types.NodeID(i), crypto, acceptAll, nil)
		if err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		states[i] = st
	}

	type message struct {
		to int
		sv kernel.SignedVote
	}
	var queue []message

	fmt.Printf("=== Elders Kernel Simulation ===\n")
	fmt.Printf("committee: N=%d T=%d\n", n, t)
	fmt.Printf("proposals (round-robin): %v\n\n", proposals)

	for i := 0; i < n; i++ {
		p := stringProposal(proposals[i%len(proposals)])
		sv, err := states[i].Propose(p)
		if err != nil {
			return fmt.Errorf("node %d propose: %w", i, err)
		}
		fmt.Printf("node %d proposes %q\n", i, p)
		for j := 0; j < n; j++ {
			if j != i {
				queue = append(queue, message{to: j, sv: sv})
			}
		}
	}

	delivered := 0
	for len(queue) > 0 && delivered < maxRounds {
		m := queue[0]
		queue = queue[1:]
		delivered++

		outcome, err := states[m.to].HandleSignedVote(m.sv)
		if err != nil {
			fmt.Printf("node %d rejected vote from node %d: %v\n", m.to, m.sv.Voter, err)
			continue
		}
		for _, out := range outcome.Broadcasts {
			for j := 0; j < n; j++ {
				if j != m.to {
					queue = append(queue, message{to: j, sv: out})
				}
			}
		}
	}

	if delivered >= maxRounds && len(queue) > 0 {
		fmt.Printf("\nstopped after %d deliveries with %d messages still queued\n", delivered, len(queue))
	} else {
		fmt.Printf("\nconverged after %d message deliveries\n", delivered)
	}

	decided := 0
	for i, st := range states {
		dec, ok := st.Decision()
		if !ok {
			fmt.Printf("node %d: no decision\n", i)
			continue
		}
		decided++
		props := make([]string, len(dec.Proposals))
		for k, p := range dec.Proposals {
			props[k] = string(p.Bytes())
		}
		fmt.Printf("node %d: decided %v\n", i, props)
	}

	if decided == 0 {
		return fmt.Errorf("no node reached a decision")
	}

	crypto0 := blscrypto.NewFastStub(0, keys, groupKey, t)
	dec0, _ := states[0].Decision()
	ok := kernel.VerifyDecision(dec0, committee, crypto0, acceptAll, nil)
	fmt.Printf("\nverify_decision(node 0's decision) = %v\n", ok)
	if !ok {
		return fmt.Errorf("node 0's decision failed independent verification")
	}
	return nil
}
