// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"bytes"
	"sort"
)

// Proposal is an opaque domain value. Its equality and serialization are
// entirely defined by Bytes: two proposals are equal iff their canonical
// encodings are byte-equal.
type Proposal interface {
	Bytes() []byte
}

// Context is opaque data the caller's ProposalValidator uses to decide
// whether a proposal is acceptable at this generation (for example, the
// current committee membership for a membership mutation proposal).
type Context any

// ProposalValidator decides whether p is semantically acceptable. It is
// supplied by the caller; the kernel never inspects a proposal beyond its
// bytes.
type ProposalValidator func(p Proposal, ctx Context) bool

func proposalEqual(a, b Proposal) bool {
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// ProposalSet is a canonically ordered, deduplicated set of proposals: the
// "agreed proposals" of a vote, or the proposal sequence of a Decision.
type ProposalSet []Proposal

// NewProposalSet sorts and deduplicates props by canonical encoding.
func NewProposalSet(props ...Proposal) ProposalSet {
	if len(props) == 0 {
		return nil
	}
	sorted := make([]Proposal, len(props))
	copy(sorted, props)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Bytes(), sorted[j].Bytes()) < 0
	})
	out := make(ProposalSet, 0, len(sorted))
	for i, p := range sorted {
		if i > 0 && bytes.Equal(p.Bytes(), sorted[i-1].Bytes()) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Contains reports whether p (by canonical encoding) is a member of the set.
func (s ProposalSet) Contains(p Proposal) bool {
	for _, q := range s {
		if proposalEqual(p, q) {
			return true
		}
	}
	return false
}

// Equal reports whether s and o contain exactly the same proposals.
func (s ProposalSet) Equal(o ProposalSet) bool {
	return bytes.Equal(s.canonicalBytes(), o.canonicalBytes())
}

// Union returns the sorted, deduplicated union of s and o.
func (s ProposalSet) Union(o ProposalSet) ProposalSet {
	all := make([]Proposal, 0, len(s)+len(o))
	all = append(all, s...)
	all = append(all, o...)
	return NewProposalSet(all...)
}

// canonicalBytes is the deterministic length-prefixed encoding used both as
// a comparison key and as the tie-break key between candidate proposal
// sets (lexicographically smallest wins, per the kernel's super-majority
// tie-break rule).
func (s ProposalSet) canonicalBytes() []byte {
	var buf bytes.Buffer
	writeUint32(&buf, uint32(len(s)))
	for _, p := range s {
		writeBytes(&buf, p.Bytes())
	}
	return buf.Bytes()
}

// Less implements the tie-break order between two candidate proposal sets:
// lexicographically smallest canonical encoding wins.
func (s ProposalSet) Less(o ProposalSet) bool {
	return bytes.Compare(s.canonicalBytes(), o.canonicalBytes()) < 0
}

// rawProposal is a Proposal over an arbitrary byte slice, used to rebuild
// ProposalSet values from decoded bytes during deserialization.
type rawProposal []byte

func (r rawProposal) Bytes() []byte { return r }
