// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"bytes"
	"fmt"

	"github.com/luxfi/elders/types"
)

// FaultKind enumerates the closed taxonomy of provable misbehavior a voter
// can be caught in. Every variant carries self-contained evidence: any
// third party can verify it offline given only the committee and the
// external proposal validator.
type FaultKind uint8

const (
	FaultInvalidSignatureShare FaultKind = iota
	FaultEquivocation
	FaultVoteForInvalidProposal
	FaultDisagreeingVoters
	FaultBadMergeVotes
)

func (k FaultKind) String() string {
	switch k {
	case FaultInvalidSignatureShare:
		return "invalid_signature_share"
	case FaultEquivocation:
		return "equivocation"
	case FaultVoteForInvalidProposal:
		return "vote_for_invalid_proposal"
	case FaultDisagreeingVoters:
		return "disagreeing_voters"
	case FaultBadMergeVotes:
		return "bad_merge_votes"
	default:
		return "unknown"
	}
}

const (
	faultTagInvalidSignatureShare uint8 = iota + 1
	faultTagEquivocation
	faultTagVoteForInvalidProposal
	faultTagDisagreeingVoters
	faultTagBadMergeVotes
)

// Fault is evidence that a voter misbehaved. Implementations are the five
// structs below; each is self-contained proof a third party can verify
// independently via Verify.
type Fault interface {
	Kind() FaultKind
	// Offender returns the NodeID the evidence incriminates.
	Offender() types.NodeID
	// Verify independently re-derives that the evidence is sound: that the
	// embedded signed vote(s) verify under the committee, and that they
	// actually exhibit the claimed misbehavior.
	Verify(crypto Crypto, committee types.Committee, validator ProposalValidator, ctx Context) error
	isFault()
}

// InvalidSignatureShareFault evidences a signed vote whose share fails to
// verify under the claimed voter.
type InvalidSignatureShareFault struct {
	Vote SignedVote
}

func (InvalidSignatureShareFault) Kind() FaultKind        { return FaultInvalidSignatureShare }
func (f InvalidSignatureShareFault) Offender() types.NodeID { return f.Vote.Voter }
func (InvalidSignatureShareFault) isFault()               {}

func (f InvalidSignatureShareFault) Verify(crypto Crypto, committee types.Committee, _ ProposalValidator, _ Context) error {
	if err := crypto.VerifyShare(EncodeVote(f.Vote.Vote), f.Vote.Voter, f.Vote.Sig); err == nil {
		return fmt.Errorf("kernel: invalid-signature-share fault does not reproduce: share verifies")
	}
	return nil
}

// EquivocationFault evidences two signed votes from the same voter, same
// generation, neither of which supersedes the other.
type EquivocationFault struct {
	VoteA SignedVote
	VoteB SignedVote
}

func (EquivocationFault) Kind() FaultKind          { return FaultEquivocation }
func (f EquivocationFault) Offender() types.NodeID { return f.VoteA.Voter }
func (EquivocationFault) isFault()                 {}

func (f EquivocationFault) Verify(crypto Crypto, committee types.Committee, _ ProposalValidator, _ Context) error {
	if f.VoteA.Voter != f.VoteB.Voter {
		return fmt.Errorf("kernel: equivocation fault: votes are from different voters")
	}
	if f.VoteA.Vote.Generation != f.VoteB.Vote.Generation {
		return fmt.Errorf("kernel: equivocation fault: votes are from different generations")
	}
	if f.VoteA.Equal(f.VoteB) {
		return fmt.Errorf("kernel: equivocation fault: votes are identical")
	}
	if err := crypto.VerifyShare(EncodeVote(f.VoteA.Vote), f.VoteA.Voter, f.VoteA.Sig); err != nil {
		return fmt.Errorf("kernel: equivocation fault: vote A does not verify: %w", err)
	}
	if err := crypto.VerifyShare(EncodeVote(f.VoteB.Vote), f.VoteB.Voter, f.VoteB.Sig); err != nil {
		return fmt.Errorf("kernel: equivocation fault: vote B does not verify: %w", err)
	}
	if supersedes(f.VoteA, f.VoteB) || supersedes(f.VoteB, f.VoteA) {
		return fmt.Errorf("kernel: equivocation fault: one vote supersedes the other, not a conflict")
	}
	return nil
}

// VoteForInvalidProposalFault evidences a vote proposing a value the
// external validator rejects at this generation's context.
type VoteForInvalidProposalFault struct {
	Vote SignedVote
}

func (VoteForInvalidProposalFault) Kind() FaultKind          { return FaultVoteForInvalidProposal }
func (f VoteForInvalidProposalFault) Offender() types.NodeID { return f.Vote.Voter }
func (VoteForInvalidProposalFault) isFault()                 {}

func (f VoteForInvalidProposalFault) Verify(crypto Crypto, _ types.Committee, validator ProposalValidator, ctx Context) error {
	propose, ok := f.Vote.Vote.Ballot.(ProposeBallot)
	if !ok {
		return fmt.Errorf("kernel: vote-for-invalid-proposal fault: ballot is not a Propose")
	}
	if err := crypto.VerifyShare(EncodeVote(f.Vote.Vote), f.Vote.Voter, f.Vote.Sig); err != nil {
		return fmt.Errorf("kernel: vote-for-invalid-proposal fault: vote does not verify: %w", err)
	}
	if validator(propose.Proposal, ctx) {
		return fmt.Errorf("kernel: vote-for-invalid-proposal fault does not reproduce: validator accepts the proposal")
	}
	return nil
}

// DisagreeingVotersFault evidences a SuperMajority ballot whose inner vote
// set does not actually constitute a super-majority under the committee's
// threshold math.
type DisagreeingVotersFault struct {
	Vote SignedVote
}

func (DisagreeingVotersFault) Kind() FaultKind          { return FaultDisagreeingVoters }
func (f DisagreeingVotersFault) Offender() types.NodeID { return f.Vote.Voter }
func (DisagreeingVotersFault) isFault()                 {}

func (f DisagreeingVotersFault) Verify(crypto Crypto, committee types.Committee, _ ProposalValidator, _ Context) error {
	sm, ok := f.Vote.Vote.Ballot.(SuperMajorityBallot)
	if !ok {
		return fmt.Errorf("kernel: disagreeing-voters fault: ballot is not a SuperMajority")
	}
	if err := crypto.VerifyShare(EncodeVote(f.Vote.Vote), f.Vote.Voter, f.Vote.Sig); err != nil {
		return fmt.Errorf("kernel: disagreeing-voters fault: vote does not verify: %w", err)
	}
	if supermajorityBacked(sm.Votes, committee) {
		return fmt.Errorf("kernel: disagreeing-voters fault does not reproduce: a super-majority does back this proposal set")
	}
	return nil
}

// BadMergeVotesFault evidences a Merge whose inner set violates
// well-formedness: a duplicate voter, or a cross-generation mix.
type BadMergeVotesFault struct {
	Vote SignedVote
}

func (BadMergeVotesFault) Kind() FaultKind          { return FaultBadMergeVotes }
func (f BadMergeVotesFault) Offender() types.NodeID { return f.Vote.Voter }
func (BadMergeVotesFault) isFault()                 {}

func (f BadMergeVotesFault) Verify(crypto Crypto, _ types.Committee, _ ProposalValidator, _ Context) error {
	var inner []SignedVote
	switch b := f.Vote.Vote.Ballot.(type) {
	case MergeBallot:
		inner = b.Votes
	case SuperMajorityBallot:
		inner = b.Votes
	default:
		return fmt.Errorf("kernel: bad-merge-votes fault: ballot is not a Merge or SuperMajority")
	}
	if err := crypto.VerifyShare(EncodeVote(f.Vote.Vote), f.Vote.Voter, f.Vote.Sig); err != nil {
		return fmt.Errorf("kernel: bad-merge-votes fault: vote does not verify: %w", err)
	}
	if !mergeMalformed(inner, f.Vote.Vote.Generation) {
		return fmt.Errorf("kernel: bad-merge-votes fault does not reproduce: merge is well-formed")
	}
	return nil
}

// EncodeFault returns the canonical encoding of a fault, used on the wire
// and to sort the faults a vote carries. An EquivocationFault encodes its
// two votes with the lexicographically smaller signed-vote encoding first,
// so both orderings of the same pair encode identically.
func EncodeFault(f Fault) []byte {
	var buf bytes.Buffer
	switch v := f.(type) {
	case InvalidSignatureShareFault:
		writeUint8(&buf, faultTagInvalidSignatureShare)
		writeBytes(&buf, EncodeSignedVote(v.Vote))
	case EquivocationFault:
		writeUint8(&buf, faultTagEquivocation)
		a, b := EncodeSignedVote(v.VoteA), EncodeSignedVote(v.VoteB)
		if bytes.Compare(b, a) < 0 {
			a, b = b, a
		}
		writeBytes(&buf, a)
		writeBytes(&buf, b)
	case VoteForInvalidProposalFault:
		writeUint8(&buf, faultTagVoteForInvalidProposal)
		writeBytes(&buf, EncodeSignedVote(v.Vote))
	case DisagreeingVotersFault:
		writeUint8(&buf, faultTagDisagreeingVoters)
		writeBytes(&buf, EncodeSignedVote(v.Vote))
	case BadMergeVotesFault:
		writeUint8(&buf, faultTagBadMergeVotes)
		writeBytes(&buf, EncodeSignedVote(v.Vote))
	default:
		panic(fmt.Sprintf("kernel: EncodeFault: unknown fault type %T", f))
	}
	return buf.Bytes()
}
