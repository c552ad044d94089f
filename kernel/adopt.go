// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"bytes"

	"github.com/luxfi/elders/types"
)

// book is the adopted-votes / fault-evidence ledger described in §3's
// ConsensusState and §4.3's supersede-driven adoption rules. It is shared
// between the per-voter State machine and the stateless VerifyDecision
// replay, so both paths apply exactly the same adoption semantics.
type book struct {
	committee types.Committee
	crypto    Crypto
	validator ProposalValidator
	ctx       Context

	votes         map[types.NodeID]SignedVote
	faults        map[types.NodeID]Fault
	processedSigs map[string]struct{}
}

func newBook(committee types.Committee, crypto Crypto, validator ProposalValidator, ctx Context) *book {
	return &book{
		committee:     committee,
		crypto:        crypto,
		validator:     validator,
		ctx:           ctx,
		votes:         make(map[types.NodeID]SignedVote),
		faults:        make(map[types.NodeID]Fault),
		processedSigs: make(map[string]struct{}),
	}
}

// adopt validates sv — which recursively validates every vote nested
// inside it — and folds sv and its inner votes into the book according to
// the supersede relation. Misbehavior that the taxonomy in fault.go has a
// Fault kind for (an invalid signature share, a rejected proposal, a
// SuperMajority ballot that lies about its backing, a malformed merge) is
// recorded against the offender rather than rejecting sv outright: the
// offender's votes are then excluded from every tally and the evidence
// propagates in this node's own outgoing votes. Only a vote with no
// corresponding evidence-based explanation is dropped with an error.
func (b *book) adopt(sv SignedVote) (bool, error) {
	if _, seen := b.processedSigs[string(sv.Sig)]; seen {
		return false, nil
	}
	faults, err := validateSignedVote(sv, 0, b.committee, b.crypto, b.validator, b.ctx)
	if err != nil {
		return false, err
	}
	changed := false
	for _, f := range faults {
		if b.mergeFault(f) {
			changed = true
		}
	}
	if b.adoptValidated(sv) {
		changed = true
	}
	return changed, nil
}

// adoptValidated assumes sv has already passed validateSignedVote.
func (b *book) adoptValidated(sv SignedVote) bool {
	if _, seen := b.processedSigs[string(sv.Sig)]; seen {
		return false
	}
	b.processedSigs[string(sv.Sig)] = struct{}{}

	changed := false
	for _, f := range sv.Vote.Faults {
		if b.mergeFault(f) {
			changed = true
		}
	}
	if b.adoptOne(sv) {
		changed = true
	}
	// Adoption is recursive: a Merge or SuperMajority carries the votes its
	// issuer had adopted from others, and this is how a node learns votes
	// (and fault evidence) from peers it never heard from directly.
	for _, inner := range innerVotes(sv.Vote.Ballot) {
		if b.adoptValidated(inner) {
			changed = true
		}
	}
	return changed
}

func (b *book) mergeFault(f Fault) bool {
	offender := f.Offender()
	if _, exists := b.faults[offender]; exists {
		return false
	}
	b.faults[offender] = f
	return true
}

func (b *book) adoptOne(sv SignedVote) bool {
	prior, ok := b.votes[sv.Voter]
	if !ok {
		b.votes[sv.Voter] = sv
		return true
	}
	if prior.Equal(sv) {
		return false
	}
	if supersedes(sv, prior) {
		b.votes[sv.Voter] = sv
		return true
	}
	if supersedes(prior, sv) {
		return false
	}

	// Conflicting: neither supersedes the other. Record equivocation with
	// both votes as evidence, and keep the vote with the lexicographically
	// smaller canonical encoding as the voter's adopted vote.
	changed := false
	if _, exists := b.faults[sv.Voter]; !exists {
		b.faults[sv.Voter] = EquivocationFault{VoteA: prior, VoteB: sv}
		changed = true
	}
	if bytes.Compare(EncodeSignedVote(sv), EncodeSignedVote(prior)) < 0 {
		b.votes[sv.Voter] = sv
		changed = true
	}
	return changed
}
