// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package membership drives the consensus kernel across an unbounded
// sequence of generations, each one agreeing on a set of additions and
// removals from a group (spec §1's "membership consensus").
package membership

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/luxfi/elders/kernel"
	"github.com/luxfi/elders/types"
)

// MutationOp identifies whether a Mutation adds or removes a member.
type MutationOp uint8

const (
	MutationAdd MutationOp = iota + 1
	MutationRemove
)

func (op MutationOp) String() string {
	switch op {
	case MutationAdd:
		return "add"
	case MutationRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Mutation is a single proposed change to group membership: adding a new
// member's public key share, or removing an existing member.
type Mutation struct {
	Op          MutationOp
	Member      types.NodeID
	PublicShare []byte
}

func (m Mutation) encode() []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(m.Op))
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], uint32(m.Member))
	buf.Write(idBuf[:])
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(m.PublicShare)))
	buf.Write(lenBuf[:])
	buf.Write(m.PublicShare)
	return buf.Bytes()
}

func decodeMutation(b []byte) (Mutation, error) {
	if len(b) < 1+4+4 {
		return Mutation{}, fmt.Errorf("membership: truncated mutation")
	}
	op := MutationOp(b[0])
	member := types.NodeID(binary.BigEndian.Uint32(b[1:5]))
	l := binary.BigEndian.Uint32(b[5:9])
	rest := b[9:]
	if uint32(len(rest)) != l {
		return Mutation{}, fmt.Errorf("membership: mutation public share length mismatch")
	}
	share := append([]byte(nil), rest...)
	return Mutation{Op: op, Member: member, PublicShare: share}, nil
}

// MutationSet is the per-generation proposal: a canonically ordered,
// deduplicated set of Mutations. It implements kernel.Proposal.
type MutationSet []Mutation

// NewMutationSet sorts and deduplicates muts by their canonical encoding,
// mirroring kernel.NewProposalSet's treatment of proposal sets.
func NewMutationSet(muts ...Mutation) MutationSet {
	if len(muts) == 0 {
		return nil
	}
	sorted := make([]Mutation, len(muts))
	copy(sorted, muts)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].encode(), sorted[j].encode()) < 0
	})
	out := make(MutationSet, 0, len(sorted))
	for i, m := range sorted {
		if i > 0 && bytes.Equal(m.encode(), sorted[i-1].encode()) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Bytes implements kernel.Proposal: a length-prefixed sequence of encoded
// Mutations, in the set's canonical (sorted) order.
func (s MutationSet) Bytes() []byte {
	var buf bytes.Buffer
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(s)))
	buf.Write(n[:])
	for _, m := range s {
		e := m.encode()
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(e)))
		buf.Write(l[:])
		buf.Write(e)
	}
	return buf.Bytes()
}

// DecodeMutationSet parses the encoding produced by MutationSet.Bytes. The
// kernel hands proposal bytes back to the caller as an opaque blob (see
// kernel.rawProposal); this is how membership recovers its own structure
// from them to validate or interpret a decision.
func DecodeMutationSet(b []byte) (MutationSet, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("membership: truncated mutation set")
	}
	n := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	out := make(MutationSet, 0, n)
	for i := uint32(0); i < n; i++ {
		if len(b) < 4 {
			return nil, fmt.Errorf("membership: mutation set: truncated entry %d", i)
		}
		l := binary.BigEndian.Uint32(b[:4])
		b = b[4:]
		if uint32(len(b)) < l {
			return nil, fmt.Errorf("membership: mutation set: entry %d shorter than declared", i)
		}
		m, err := decodeMutation(b[:l])
		if err != nil {
			return nil, fmt.Errorf("membership: mutation set: entry %d: %w", i, err)
		}
		b = b[l:]
		out = append(out, m)
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("membership: mutation set: trailing bytes")
	}
	return out, nil
}

// DefaultValidator accepts any non-empty mutation set naming each member at
// most once. Callers with richer semantics (for example rejecting a Remove
// for a NodeID that is not currently a member) should supply their own
// kernel.ProposalValidator via WithValidator, typically wrapping this one.
func DefaultValidator() kernel.ProposalValidator {
	return func(p kernel.Proposal, _ kernel.Context) bool {
		ms, err := DecodeMutationSet(p.Bytes())
		if err != nil || len(ms) == 0 {
			return false
		}
		seen := make(map[types.NodeID]bool, len(ms))
		for _, m := range ms {
			if m.Op != MutationAdd && m.Op != MutationRemove {
				return false
			}
			if seen[m.Member] {
				return false
			}
			seen[m.Member] = true
		}
		return true
	}
}
