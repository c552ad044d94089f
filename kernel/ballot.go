// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"bytes"

	"github.com/luxfi/elders/types"
)

// BallotKind identifies which of the three Ballot variants a value is,
// and also gives the strict rank used by the supersede relation:
// Propose < Merge < SuperMajority.
type BallotKind uint8

const (
	BallotPropose BallotKind = iota
	BallotMerge
	BallotSuperMajority
)

const (
	tagPropose uint8 = iota + 1
	tagMerge
	tagSuperMajority
)

func (k BallotKind) String() string {
	switch k {
	case BallotPropose:
		return "propose"
	case BallotMerge:
		return "merge"
	case BallotSuperMajority:
		return "supermajority"
	default:
		return "unknown"
	}
}

// Ballot is the closed, tagged ballot hierarchy: a single proposal, an
// aggregation of previously adopted votes, or a claim of super-majority
// carrying accumulated signature shares. It is implemented by exactly the
// three types below.
type Ballot interface {
	Kind() BallotKind
	isBallot()
}

// ProposeBallot is a single proposal by the issuing voter.
type ProposeBallot struct {
	Proposal Proposal
}

func (ProposeBallot) Kind() BallotKind { return BallotPropose }
func (ProposeBallot) isBallot()        {}

// MergeBallot aggregates votes the issuing voter has adopted from others.
// Votes must hold at least two elements, all for the enclosing vote's
// generation, and no two elements may share a Voter.
type MergeBallot struct {
	Votes []SignedVote
}

func (MergeBallot) Kind() BallotKind { return BallotMerge }
func (MergeBallot) isBallot()        {}

// ShareProof is one voter's accumulated signature share over the agreed
// proposal sequence, carried inside a SuperMajorityBallot.
type ShareProof struct {
	Voter types.NodeID
	Share ShareSig
}

// SuperMajorityBallot claims that Votes constitute a super-majority for the
// agreed proposal set, and carries the issuing voter's accumulated
// signature shares toward a combined decision signature. Proofs is keyed by
// the canonical encoding of each individual proposal in the agreed set
// (Proposal.Bytes() as a string); every ShareProof in a given entry
// is a signature share over the canonical encoding of the full agreed
// proposal sequence, not over that single proposal alone.
type SuperMajorityBallot struct {
	Votes   []SignedVote
	Proofs  map[string][]ShareProof
}

func (SuperMajorityBallot) Kind() BallotKind { return BallotSuperMajority }
func (SuperMajorityBallot) isBallot()        {}

// Vote is the content a voter signs: the generation it is scoped to, the
// ballot, and the voter's current fault evidence store (piggy-backed so
// peers learn about misbehavior from every message).
type Vote struct {
	Generation uint64
	Ballot     Ballot
	Faults     []Fault
}

// SignedVote is a Vote plus the identity and signature share of the voter
// who cast it.
type SignedVote struct {
	Vote  Vote
	Voter types.NodeID
	Sig   ShareSig
}

// Equal reports whether two signed votes are the same message, by
// canonical encoding.
func (sv SignedVote) Equal(o SignedVote) bool {
	return bytes.Equal(EncodeSignedVote(sv), EncodeSignedVote(o))
}
