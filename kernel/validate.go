// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"fmt"

	"github.com/luxfi/elders/types"
)

// validateSignedVote walks sv and every vote nested inside it, recursively,
// checking the same four things §4.2 names: signature verification, ballot
// well-formedness, an actual super-majority behind any claimed
// SuperMajority ballot, and carried fault-evidence verification. Generation
// routing is the caller's responsibility, since only the caller knows
// whether the vote matches the instance's current generation or belongs in
// anti-entropy.
//
// A check that corresponds to one of the five taxonomy Fault kinds is
// reported back as a Fault rather than a hard error, so the book can record
// it against the offending voter and keep what else is sound in the tree.
// Only checks with no taxonomy Fault — ballot nesting beyond the committee
// size, an unrecognized ballot kind, carried evidence that fails to verify,
// and a SuperMajority ballot whose share proofs are keyed on a different
// proposal set, are missing, or fail to verify (ErrInvalidSignatureShare)
// — are reported as a hard error that drops the whole vote.
func validateSignedVote(sv SignedVote, depth int, committee types.Committee, crypto Crypto, validator ProposalValidator, ctx Context) ([]Fault, error) {
	if depth > committee.N {
		return nil, ErrBallotTooDeep
	}
	var faults []Fault
	if err := crypto.VerifyShare(EncodeVote(sv.Vote), sv.Voter, sv.Sig); err != nil {
		faults = append(faults, InvalidSignatureShareFault{Vote: sv})
	}
	ballotFaults, err := validateBallot(sv, depth, committee, crypto, validator, ctx)
	if err != nil {
		return nil, err
	}
	faults = append(faults, ballotFaults...)
	for _, f := range sv.Vote.Faults {
		if err := f.Verify(crypto, committee, validator, ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFaultEvidence, err)
		}
	}
	return faults, nil
}

func validateBallot(sv SignedVote, depth int, committee types.Committee, crypto Crypto, validator ProposalValidator, ctx Context) ([]Fault, error) {
	switch v := sv.Vote.Ballot.(type) {
	case ProposeBallot:
		if !validator(v.Proposal, ctx) {
			return []Fault{VoteForInvalidProposalFault{Vote: sv}}, nil
		}
		return nil, nil
	case MergeBallot:
		return validateInnerVotes(sv, v.Votes, depth, committee, crypto, validator, ctx)
	case SuperMajorityBallot:
		faults, err := validateInnerVotes(sv, v.Votes, depth, committee, crypto, validator, ctx)
		if err != nil {
			return nil, err
		}
		agreed := agreedProposalsOfVotes(v.Votes)
		if len(v.Proofs) != len(agreed) {
			return nil, fmt.Errorf("kernel: supermajority ballot: proof key set does not match the agreed proposal set")
		}
		msg := agreed.canonicalBytes()
		for _, p := range agreed {
			proofs, ok := v.Proofs[string(p.Bytes())]
			if !ok {
				return nil, fmt.Errorf("kernel: supermajority ballot: missing proof for an agreed proposal")
			}
			for _, proof := range proofs {
				if err := crypto.VerifyShare(msg, proof.Voter, proof.Share); err != nil {
					return nil, fmt.Errorf("%w: proof voter %d: %v", ErrInvalidSignatureShare, proof.Voter, err)
				}
			}
		}
		if !supermajorityBacked(v.Votes, committee) {
			faults = append(faults, DisagreeingVotersFault{Vote: sv})
		}
		return faults, nil
	default:
		return nil, fmt.Errorf("kernel: unknown ballot kind %T", sv.Vote.Ballot)
	}
}

func validateInnerVotes(sv SignedVote, votes []SignedVote, depth int, committee types.Committee, crypto Crypto, validator ProposalValidator, ctx Context) ([]Fault, error) {
	var faults []Fault
	if mergeMalformed(votes, sv.Vote.Generation) {
		faults = append(faults, BadMergeVotesFault{Vote: sv})
	}
	for _, inner := range votes {
		innerFaults, err := validateSignedVote(inner, depth+1, committee, crypto, validator, ctx)
		if err != nil {
			return nil, err
		}
		faults = append(faults, innerFaults...)
	}
	return faults, nil
}

// mergeMalformed reports whether votes cannot be a well-formed Merge or
// SuperMajority inner vote set: fewer than two votes, the same voter
// appearing twice, or a vote scoped to a generation other than gen.
func mergeMalformed(votes []SignedVote, gen uint64) bool {
	if len(votes) < 2 {
		return true
	}
	seen := make(map[types.NodeID]bool, len(votes))
	for _, v := range votes {
		if seen[v.Voter] {
			return true
		}
		seen[v.Voter] = true
		if v.Vote.Generation != gen {
			return true
		}
	}
	return false
}
