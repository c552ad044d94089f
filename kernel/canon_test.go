// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip_ProposeVote(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	v := Vote{Generation: 7, Ballot: ProposeBallot{Proposal: testProposal("hello")}}
	sv := signVoteWith(t, cs[0], v)

	encoded := EncodeSignedVote(sv)
	decoded, err := DecodeSignedVote(encoded)
	require.NoError(t, err)

	require.Equal(t, sv.Voter, decoded.Voter)
	require.Equal(t, sv.Sig, decoded.Sig)
	require.Equal(t, sv.Vote.Generation, decoded.Vote.Generation)
	require.Equal(t, sv.Vote.Ballot.Kind(), decoded.Vote.Ballot.Kind())

	decodedPropose := decoded.Vote.Ballot.(ProposeBallot)
	require.Equal(t, []byte("hello"), decodedPropose.Proposal.Bytes())

	// Re-encoding the decoded vote must reproduce the original bytes exactly:
	// the decoded rawProposal carries the same bytes the signature was over.
	require.Equal(t, encoded, EncodeSignedVote(decoded))

	require.NoError(t, cs[0].VerifyShare(EncodeVote(decoded.Vote), decoded.Voter, decoded.Sig))
}

func TestRoundTrip_MergeVoteWithFault(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	pa := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})
	pb := signVoteWith(t, cs[1], Vote{Ballot: ProposeBallot{Proposal: testProposal("y")}})

	fault := VoteForInvalidProposalFault{Vote: pb}
	merge := Vote{
		Ballot: MergeBallot{Votes: []SignedVote{pa, pb}},
		Faults: []Fault{fault},
	}
	sv := signVoteWith(t, cs[0], merge)

	encoded := EncodeSignedVote(sv)
	decoded, err := DecodeSignedVote(encoded)
	require.NoError(t, err)
	require.Equal(t, encoded, EncodeSignedVote(decoded))

	decodedMerge := decoded.Vote.Ballot.(MergeBallot)
	require.Len(t, decodedMerge.Votes, 2)
	require.Len(t, decoded.Vote.Faults, 1)
	require.Equal(t, FaultVoteForInvalidProposal, decoded.Vote.Faults[0].Kind())
}

func TestRoundTrip_SuperMajorityVote(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	pa := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})
	pb := signVoteWith(t, cs[1], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})

	share, err := cs[0].SignShare(decisionMessage(NewProposalSet(testProposal("x"))))
	require.NoError(t, err)
	sm := Vote{Ballot: SuperMajorityBallot{
		Votes:  []SignedVote{pa, pb},
		Proofs: map[string][]ShareProof{"x": {{Voter: cs[0].voter, Share: share}}},
	}}
	sv := signVoteWith(t, cs[0], sm)

	encoded := EncodeSignedVote(sv)
	decoded, err := DecodeSignedVote(encoded)
	require.NoError(t, err)
	require.Equal(t, encoded, EncodeSignedVote(decoded))

	decodedSM := decoded.Vote.Ballot.(SuperMajorityBallot)
	require.Len(t, decodedSM.Proofs["x"], 1)
	require.Equal(t, cs[0].voter, decodedSM.Proofs["x"][0].Voter)
}

func TestDecodeVote_RejectsTruncated(t *testing.T) {
	cs := newFakeCommittee(3, 2)
	sv := signVoteWith(t, cs[0], Vote{Ballot: ProposeBallot{Proposal: testProposal("x")}})
	encoded := EncodeSignedVote(sv)
	_, err := DecodeSignedVote(encoded[:len(encoded)-1])
	require.Error(t, err)
}

func TestProposalSet_CanonicalOrderingAndDedup(t *testing.T) {
	set := NewProposalSet(testProposal("b"), testProposal("a"), testProposal("a"))
	require.Len(t, set, 2)
	require.Equal(t, testProposal("a"), set[0])
	require.Equal(t, testProposal("b"), set[1])
}
