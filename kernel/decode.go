// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "fmt"

// maxDecodeDepth bounds Merge/SuperMajority nesting during decode itself,
// before any committee is known to check the real §4.2 bound against. It
// exists only to keep a pathologically nested wire message from recursing
// unboundedly; validateSignedVote's depth-vs-committee.N check is the
// meaningful defense once a committee is in scope.
const maxDecodeDepth = 1024

// DecodeVote parses the canonical encoding produced by EncodeVote. The
// ballot's Proposal fields decode as rawProposal, carrying only the bytes a
// domain package (membership, handover) knows how to interpret; the kernel
// itself never looks inside them.
func DecodeVote(b []byte) (Vote, error) {
	c := &cursor{b: b}
	v, err := decodeVote(c, 0)
	if err != nil {
		return Vote{}, err
	}
	if !c.done() {
		return Vote{}, fmt.Errorf("kernel: canon: trailing bytes after vote")
	}
	return v, nil
}

func decodeVote(c *cursor, depth int) (Vote, error) {
	gen, err := c.uint64()
	if err != nil {
		return Vote{}, fmt.Errorf("kernel: canon: vote generation: %w", err)
	}
	ballot, err := decodeBallot(c, depth)
	if err != nil {
		return Vote{}, err
	}
	n, err := c.uint32()
	if err != nil {
		return Vote{}, fmt.Errorf("kernel: canon: fault count: %w", err)
	}
	faults := make([]Fault, 0, n)
	for i := uint32(0); i < n; i++ {
		fb, err := c.bytes()
		if err != nil {
			return Vote{}, fmt.Errorf("kernel: canon: fault %d: %w", i, err)
		}
		f, err := DecodeFault(fb)
		if err != nil {
			return Vote{}, fmt.Errorf("kernel: canon: fault %d: %w", i, err)
		}
		faults = append(faults, f)
	}
	return Vote{Generation: gen, Ballot: ballot, Faults: faults}, nil
}

// DecodeSignedVote parses the canonical encoding produced by
// EncodeSignedVote.
func DecodeSignedVote(b []byte) (SignedVote, error) {
	c := &cursor{b: b}
	sv, err := decodeSignedVote(c, 0)
	if err != nil {
		return SignedVote{}, err
	}
	if !c.done() {
		return SignedVote{}, fmt.Errorf("kernel: canon: trailing bytes after signed vote")
	}
	return sv, nil
}

func decodeSignedVote(c *cursor, depth int) (SignedVote, error) {
	if depth > maxDecodeDepth {
		return SignedVote{}, ErrBallotTooDeep
	}
	voter, err := c.nodeID()
	if err != nil {
		return SignedVote{}, fmt.Errorf("kernel: canon: voter: %w", err)
	}
	sig, err := c.bytes()
	if err != nil {
		return SignedVote{}, fmt.Errorf("kernel: canon: sig: %w", err)
	}
	voteBytes, err := c.bytes()
	if err != nil {
		return SignedVote{}, fmt.Errorf("kernel: canon: vote: %w", err)
	}
	inner := &cursor{b: voteBytes}
	v, err := decodeVote(inner, depth+1)
	if err != nil {
		return SignedVote{}, err
	}
	if !inner.done() {
		return SignedVote{}, fmt.Errorf("kernel: canon: trailing bytes after inner vote")
	}
	return SignedVote{Vote: v, Voter: voter, Sig: ShareSig(sig)}, nil
}

func decodeBallot(c *cursor, depth int) (Ballot, error) {
	if depth > maxDecodeDepth {
		return nil, ErrBallotTooDeep
	}
	tag, err := c.uint8()
	if err != nil {
		return nil, fmt.Errorf("kernel: canon: ballot tag: %w", err)
	}
	switch tag {
	case tagPropose:
		pb, err := c.bytes()
		if err != nil {
			return nil, fmt.Errorf("kernel: canon: propose payload: %w", err)
		}
		return ProposeBallot{Proposal: rawProposal(append([]byte(nil), pb...))}, nil
	case tagMerge:
		votes, err := decodeSignedVoteSet(c, depth)
		if err != nil {
			return nil, err
		}
		return MergeBallot{Votes: votes}, nil
	case tagSuperMajority:
		votes, err := decodeSignedVoteSet(c, depth)
		if err != nil {
			return nil, err
		}
		nkeys, err := c.uint32()
		if err != nil {
			return nil, fmt.Errorf("kernel: canon: proof key count: %w", err)
		}
		proofs := make(map[string][]ShareProof, nkeys)
		for i := uint32(0); i < nkeys; i++ {
			key, err := c.bytes()
			if err != nil {
				return nil, fmt.Errorf("kernel: canon: proof key %d: %w", i, err)
			}
			nproofs, err := c.uint32()
			if err != nil {
				return nil, fmt.Errorf("kernel: canon: proof count for key %d: %w", i, err)
			}
			ps := make([]ShareProof, 0, nproofs)
			for j := uint32(0); j < nproofs; j++ {
				voter, err := c.nodeID()
				if err != nil {
					return nil, fmt.Errorf("kernel: canon: proof %d/%d voter: %w", i, j, err)
				}
				share, err := c.bytes()
				if err != nil {
					return nil, fmt.Errorf("kernel: canon: proof %d/%d share: %w", i, j, err)
				}
				ps = append(ps, ShareProof{Voter: voter, Share: ShareSig(append([]byte(nil), share...))})
			}
			proofs[string(key)] = ps
		}
		return SuperMajorityBallot{Votes: votes, Proofs: proofs}, nil
	default:
		return nil, fmt.Errorf("kernel: canon: unknown ballot tag %d", tag)
	}
}

func decodeSignedVoteSet(c *cursor, depth int) ([]SignedVote, error) {
	n, err := c.uint32()
	if err != nil {
		return nil, fmt.Errorf("kernel: canon: signed vote set count: %w", err)
	}
	out := make([]SignedVote, 0, n)
	for i := uint32(0); i < n; i++ {
		svb, err := c.bytes()
		if err != nil {
			return nil, fmt.Errorf("kernel: canon: signed vote %d: %w", i, err)
		}
		inner := &cursor{b: svb}
		sv, err := decodeSignedVote(inner, depth+1)
		if err != nil {
			return nil, fmt.Errorf("kernel: canon: signed vote %d: %w", i, err)
		}
		if !inner.done() {
			return nil, fmt.Errorf("kernel: canon: signed vote %d: trailing bytes", i)
		}
		out = append(out, sv)
	}
	return out, nil
}

// DecodeFault parses the canonical encoding produced by EncodeFault.
func DecodeFault(b []byte) (Fault, error) {
	c := &cursor{b: b}
	tag, err := c.uint8()
	if err != nil {
		return nil, fmt.Errorf("kernel: canon: fault tag: %w", err)
	}
	var f Fault
	switch tag {
	case faultTagInvalidSignatureShare:
		sv, err := decodeInnerSignedVote(c)
		if err != nil {
			return nil, err
		}
		f = InvalidSignatureShareFault{Vote: sv}
	case faultTagEquivocation:
		a, err := decodeInnerSignedVote(c)
		if err != nil {
			return nil, err
		}
		b2, err := decodeInnerSignedVote(c)
		if err != nil {
			return nil, err
		}
		f = EquivocationFault{VoteA: a, VoteB: b2}
	case faultTagVoteForInvalidProposal:
		sv, err := decodeInnerSignedVote(c)
		if err != nil {
			return nil, err
		}
		f = VoteForInvalidProposalFault{Vote: sv}
	case faultTagDisagreeingVoters:
		sv, err := decodeInnerSignedVote(c)
		if err != nil {
			return nil, err
		}
		f = DisagreeingVotersFault{Vote: sv}
	case faultTagBadMergeVotes:
		sv, err := decodeInnerSignedVote(c)
		if err != nil {
			return nil, err
		}
		f = BadMergeVotesFault{Vote: sv}
	default:
		return nil, fmt.Errorf("kernel: canon: unknown fault tag %d", tag)
	}
	if !c.done() {
		return nil, fmt.Errorf("kernel: canon: trailing bytes after fault")
	}
	return f, nil
}

func decodeInnerSignedVote(c *cursor) (SignedVote, error) {
	svb, err := c.bytes()
	if err != nil {
		return SignedVote{}, fmt.Errorf("kernel: canon: fault evidence vote: %w", err)
	}
	inner := &cursor{b: svb}
	sv, err := decodeSignedVote(inner, 0)
	if err != nil {
		return SignedVote{}, err
	}
	if !inner.done() {
		return SignedVote{}, fmt.Errorf("kernel: canon: fault evidence vote: trailing bytes")
	}
	return sv, nil
}
