// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

// AgreedProposals derives the proposal set a ballot has come to agree on:
// a Propose agrees on its single proposal, a Merge agrees on the union of
// what its inner votes agree on, and a SuperMajority agrees on whatever its
// inner votes agree on (the inner agreement it is claiming super-majority
// support for).
func AgreedProposals(b Ballot) ProposalSet {
	switch v := b.(type) {
	case ProposeBallot:
		return NewProposalSet(v.Proposal)
	case MergeBallot:
		return agreedProposalsOfVotes(v.Votes)
	case SuperMajorityBallot:
		return agreedProposalsOfVotes(v.Votes)
	default:
		return nil
	}
}

func agreedProposalsOfVotes(votes []SignedVote) ProposalSet {
	var out ProposalSet
	for _, sv := range votes {
		out = out.Union(AgreedProposals(sv.Vote.Ballot))
	}
	return out
}

func subsetOf(a, b ProposalSet) bool {
	for _, p := range a {
		if !b.Contains(p) {
			return false
		}
	}
	return true
}

func innerVotes(b Ballot) []SignedVote {
	switch v := b.(type) {
	case MergeBallot:
		return v.Votes
	case SuperMajorityBallot:
		return v.Votes
	default:
		return nil
	}
}

func votesContain(set []SignedVote, target SignedVote) bool {
	for _, sv := range set {
		if sv.Equal(target) {
			return true
		}
	}
	return false
}

// containsTransitively reports whether target appears anywhere in the
// (possibly nested) inner-vote tree rooted at b: directly, or inside one of
// b's inner votes' own ballots, recursively. This is how a higher-rank
// ballot (Merge, SuperMajority) is said to have "absorbed" a lower-rank
// vote it was built on top of.
func containsTransitively(b Ballot, target SignedVote) bool {
	inner := innerVotes(b)
	if votesContain(inner, target) {
		return true
	}
	for _, sv := range inner {
		if containsTransitively(sv.Vote.Ballot, target) {
			return true
		}
	}
	return false
}

func isSupersetOfVotes(super, sub []SignedVote) bool {
	for _, s := range sub {
		if !votesContain(super, s) {
			return false
		}
	}
	return true
}

func proofsSuperset(super, sub map[string][]ShareProof) bool {
	for p, shares := range sub {
		have := super[p]
		for _, s := range shares {
			found := false
			for _, h := range have {
				if h.Voter == s.Voter {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// supersedes reports whether a strictly supersedes b: a must contain
// everything b does plus something more, under the fixed ballot-kind
// order Propose < Merge < SuperMajority (same-content is never strict).
func supersedes(a, b SignedVote) bool {
	if a.Equal(b) {
		return false
	}
	ra, rb := a.Vote.Ballot.Kind(), b.Vote.Ballot.Kind()
	if ra < rb {
		return false
	}
	if ra > rb {
		if containsTransitively(a.Vote.Ballot, b) {
			return true
		}
		// A SuperMajority built over at least the same inner votes as a Merge
		// carries everything that Merge did, plus its share proofs.
		if bm, ok := b.Vote.Ballot.(MergeBallot); ok {
			return isSupersetOfVotes(innerVotes(a.Vote.Ballot), bm.Votes) &&
				subsetOf(AgreedProposals(bm), AgreedProposals(a.Vote.Ballot))
		}
		return false
	}
	switch ra {
	case BallotPropose:
		// Two distinct proposals at the same rank never supersede one
		// another: neither carries more information than the other.
		return false
	case BallotMerge:
		am := a.Vote.Ballot.(MergeBallot)
		bm := b.Vote.Ballot.(MergeBallot)
		return isSupersetOfVotes(am.Votes, bm.Votes) &&
			subsetOf(AgreedProposals(bm), AgreedProposals(am))
	case BallotSuperMajority:
		asm := a.Vote.Ballot.(SuperMajorityBallot)
		bsm := b.Vote.Ballot.(SuperMajorityBallot)
		if !AgreedProposals(MergeBallot{Votes: asm.Votes}).Equal(AgreedProposals(MergeBallot{Votes: bsm.Votes})) {
			return false
		}
		return isSupersetOfVotes(asm.Votes, bsm.Votes) && proofsSuperset(asm.Proofs, bsm.Proofs)
	default:
		return false
	}
}

// conflicting reports whether neither vote supersedes the other and they
// are not identical — the equivocation condition.
func conflicting(a, b SignedVote) bool {
	return !a.Equal(b) && !supersedes(a, b) && !supersedes(b, a)
}
