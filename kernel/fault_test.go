// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/elders/types"
)

func TestEquivocationFault_VerifiesGenuineConflict(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	a := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})
	b := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("y")}})

	fault := EquivocationFault{VoteA: a, VoteB: b}
	committee := types.Committee{ID: []byte("c"), N: 3, T: 2}
	require.NoError(t, fault.Verify(cs[0], committee, acceptAllTest, nil))
}

func TestEquivocationFault_RejectsNonConflict(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	a := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})
	pb := signVoteWith(t, cs[1], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})
	merge := signVoteWith(t, cs[0], Vote{Ballot: MergeBallot{Votes: []SignedVote{a, pb}}})

	// merge strictly supersedes a, so this is not equivocation.
	fault := EquivocationFault{VoteA: a, VoteB: merge}
	committee := types.Committee{ID: []byte("c"), N: 3, T: 2}
	require.Error(t, fault.Verify(cs[0], committee, acceptAllTest, nil))
}

func TestVoteForInvalidProposalFault(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	bad := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("bad")}})
	fault := VoteForInvalidProposalFault{Vote: bad}
	committee := types.Committee{ID: []byte("c"), N: 3, T: 2}

	require.NoError(t, fault.Verify(cs[0], committee, rejectProposal("bad"), nil))
	require.Error(t, fault.Verify(cs[0], committee, acceptAllTest, nil))
}

func TestDisagreeingVotersFault(t *testing.T) {
	cs := newFakeCommittee(4, 3)
	committee := types.Committee{ID: []byte("c"), N: 4, T: 3}

	pa := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})
	pb := signVoteWith(t, cs[1], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})

	share, err := cs[0].SignShare(decisionMessage(NewProposalSet(testProposal("x"))))
	require.NoError(t, err)

	// Only two inner votes back "x" while the committee needs three: this
	// SuperMajority ballot's claim does not actually hold.
	claim := signVoteWith(t, cs[0], Vote{Ballot: SuperMajorityBallot{
		Votes:  []SignedVote{pa, pb},
		Proofs: map[string][]ShareProof{"x": {{Voter: cs[0].voter, Share: share}}},
	}})
	fault := DisagreeingVotersFault{Vote: claim}
	require.NoError(t, fault.Verify(cs[0], committee, acceptAllTest, nil))
}

func TestBadMergeVotesFault_DuplicateVoter(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	a := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})
	b := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("y")}})

	// Built by hand rather than routed through validateBallot: the fault
	// documents what a malicious peer tried to get away with, independent of
	// whether it was caught live.
	badVote := SignedVote{
		Vote:  Vote{Ballot: MergeBallot{Votes: []SignedVote{a, b}}},
		Voter: cs[2].voter,
	}
	sig, err := cs[2].SignShare(EncodeVote(badVote.Vote))
	require.NoError(t, err)
	badVote.Sig = sig

	fault := BadMergeVotesFault{Vote: badVote}
	committee := types.Committee{ID: []byte("c"), N: 3, T: 2}
	require.NoError(t, fault.Verify(cs[2], committee, acceptAllTest, nil))
}

func TestInvalidSignatureShareFault(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	v := Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}}
	sv := SignedVote{Vote: v, Voter: cs[0].voter, Sig: ShareSig("not-a-real-signature")}

	fault := InvalidSignatureShareFault{Vote: sv}
	committee := types.Committee{ID: []byte("c"), N: 3, T: 2}
	require.NoError(t, fault.Verify(cs[0], committee, acceptAllTest, nil))
}
