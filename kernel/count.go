// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "github.com/luxfi/elders/types"

// tally groups the non-faulty voters whose adopted vote agrees on the same
// proposal set.
type tally struct {
	set    ProposalSet
	voters []types.NodeID
}

func buildTallies(votes map[types.NodeID]SignedVote, faults map[types.NodeID]Fault) []tally {
	var out []tally
	for voter, sv := range votes {
		if _, faulty := faults[voter]; faulty {
			continue
		}
		agreed := AgreedProposals(sv.Vote.Ballot)
		placed := false
		for i := range out {
			if out[i].set.Equal(agreed) {
				out[i].voters = append(out[i].voters, voter)
				placed = true
				break
			}
		}
		if !placed {
			out = append(out, tally{set: agreed, voters: []types.NodeID{voter}})
		}
	}
	return out
}

// smTallies is like buildTallies but only counts voters whose adopted
// ballot is itself a SuperMajority ballot for the grouped proposal set —
// the input to the super-majority-of-super-majorities check.
func smTallies(votes map[types.NodeID]SignedVote, faults map[types.NodeID]Fault) []tally {
	var out []tally
	for voter, sv := range votes {
		if _, faulty := faults[voter]; faulty {
			continue
		}
		if sv.Vote.Ballot.Kind() != BallotSuperMajority {
			continue
		}
		agreed := AgreedProposals(sv.Vote.Ballot)
		placed := false
		for i := range out {
			if out[i].set.Equal(agreed) {
				out[i].voters = append(out[i].voters, voter)
				placed = true
				break
			}
		}
		if !placed {
			out = append(out, tally{set: agreed, voters: []types.NodeID{voter}})
		}
	}
	return out
}

// pickWinner returns the tally meeting threshold with the most voters,
// breaking ties by the smallest canonical encoding of its proposal set
// (material only in the instant a step function could transition to either
// of two candidates at once; once reached, the choice is stable because
// supersede is monotone).
func pickWinner(tallies []tally, threshold int) (ProposalSet, bool) {
	var winner *tally
	for i := range tallies {
		t := &tallies[i]
		if len(t.voters) < threshold {
			continue
		}
		switch {
		case winner == nil:
			winner = t
		case len(t.voters) > len(winner.voters):
			winner = t
		case len(t.voters) == len(winner.voters) && t.set.Less(winner.set):
			winner = t
		}
	}
	if winner == nil {
		return nil, false
	}
	return winner.set, true
}

// superMajority reports the proposal set (if any) with strictly more than
// (N+faults)/2 non-faulty voters holding it as their adopted agreed
// proposals.
func superMajority(votes map[types.NodeID]SignedVote, faults map[types.NodeID]Fault, committee types.Committee) (ProposalSet, bool) {
	threshold := committee.SuperMajorityThreshold(len(faults))
	return pickWinner(buildTallies(votes, faults), threshold)
}

// superMajorityOfSuperMajorities reports the proposal set (if any) for
// which strictly more than (N+faults)/2 non-faulty voters have adopted a
// SuperMajority ballot agreeing on it. Reaching this is the kernel's
// termination condition.
func superMajorityOfSuperMajorities(votes map[types.NodeID]SignedVote, faults map[types.NodeID]Fault, committee types.Committee) (ProposalSet, bool) {
	threshold := committee.SuperMajorityThreshold(len(faults))
	return pickWinner(smTallies(votes, faults), threshold)
}

// supermajorityBacked reports whether votes — the inner votes nested inside
// a SuperMajority ballot — actually contain, among those whose own agreed
// proposals equal the full union, a super-majority of backers. This is the
// condition a SuperMajority ballot claims to hold by existing; a ballot
// whose inner votes don't back it up is DisagreeingVotersFault evidence
// against its issuer.
func supermajorityBacked(votes []SignedVote, committee types.Committee) bool {
	agreed := agreedProposalsOfVotes(votes)
	backers := map[types.NodeID]struct{}{}
	for _, inner := range votes {
		if AgreedProposals(inner.Vote.Ballot).Equal(agreed) {
			backers[inner.Voter] = struct{}{}
		}
	}
	return len(backers) >= committee.SuperMajorityThreshold(0)
}
