// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/luxfi/elders/types"
)

// Wire format: every variable-length field is preceded by a big-endian
// uint32 length prefix, every tagged variant is preceded by a single tag
// byte, and every set (votes, faults, proof entries) is sorted by its own
// canonical encoding before being written, so that two semantically equal
// values always produce byte-identical output. This is what gets signed
// and what the idempotence cache keys off of.

func writeUint8(buf *bytes.Buffer, v uint8) { buf.WriteByte(v) }

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUint32(buf, uint32(len(b)))
	buf.Write(b)
}

func writeNodeID(buf *bytes.Buffer, id types.NodeID) { writeUint32(buf, uint32(id)) }

// cursor reads a canonical encoding, erroring on any overrun so malformed
// or truncated input is rejected cheaply instead of panicking.
type cursor struct {
	b []byte
	i int
}

func (c *cursor) uint8() (uint8, error) {
	if c.i+1 > len(c.b) {
		return 0, fmt.Errorf("kernel: canon: truncated uint8")
	}
	v := c.b[c.i]
	c.i++
	return v, nil
}

func (c *cursor) uint32() (uint32, error) {
	if c.i+4 > len(c.b) {
		return 0, fmt.Errorf("kernel: canon: truncated uint32")
	}
	v := binary.BigEndian.Uint32(c.b[c.i : c.i+4])
	c.i += 4
	return v, nil
}

func (c *cursor) uint64() (uint64, error) {
	if c.i+8 > len(c.b) {
		return 0, fmt.Errorf("kernel: canon: truncated uint64")
	}
	v := binary.BigEndian.Uint64(c.b[c.i : c.i+8])
	c.i += 8
	return v, nil
}

func (c *cursor) bytes() ([]byte, error) {
	n, err := c.uint32()
	if err != nil {
		return nil, err
	}
	if c.i+int(n) > len(c.b) {
		return nil, fmt.Errorf("kernel: canon: truncated bytes field")
	}
	v := c.b[c.i : c.i+int(n)]
	c.i += int(n)
	return v, nil
}

func (c *cursor) nodeID() (types.NodeID, error) {
	v, err := c.uint32()
	return types.NodeID(v), err
}

func (c *cursor) done() bool { return c.i >= len(c.b) }

// EncodeVote returns the canonical encoding of v, the bytes that get signed
// and that peers verify signature shares against.
func EncodeVote(v Vote) []byte {
	var buf bytes.Buffer
	writeUint64(&buf, v.Generation)
	encodeBallot(&buf, v.Ballot)
	faults := sortedFaults(v.Faults)
	writeUint32(&buf, uint32(len(faults)))
	for _, f := range faults {
		writeBytes(&buf, EncodeFault(f))
	}
	return buf.Bytes()
}

// EncodeSignedVote returns the canonical encoding of a signed vote,
// including the voter and signature share, used to compare and dedup inner
// votes inside Merge/SuperMajority ballots, to order vote sets, and for the
// equivocation tie-break in book.adopt.
func EncodeSignedVote(sv SignedVote) []byte {
	var buf bytes.Buffer
	writeNodeID(&buf, sv.Voter)
	writeBytes(&buf, sv.Sig)
	writeBytes(&buf, EncodeVote(sv.Vote))
	return buf.Bytes()
}

func encodeBallot(buf *bytes.Buffer, b Ballot) {
	switch v := b.(type) {
	case ProposeBallot:
		writeUint8(buf, tagPropose)
		writeBytes(buf, v.Proposal.Bytes())
	case MergeBallot:
		writeUint8(buf, tagMerge)
		encodeSignedVoteSet(buf, v.Votes)
	case SuperMajorityBallot:
		writeUint8(buf, tagSuperMajority)
		encodeSignedVoteSet(buf, v.Votes)
		keys := make([]string, 0, len(v.Proofs))
		for k := range v.Proofs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		writeUint32(buf, uint32(len(keys)))
		for _, k := range keys {
			writeBytes(buf, []byte(k))
			proofs := sortedProofs(v.Proofs[k])
			writeUint32(buf, uint32(len(proofs)))
			for _, p := range proofs {
				writeNodeID(buf, p.Voter)
				writeBytes(buf, p.Share)
			}
		}
	default:
		// Unreachable for the kernel's own closed Ballot implementations.
		panic(fmt.Sprintf("kernel: encodeBallot: unknown ballot type %T", b))
	}
}

func encodeSignedVoteSet(buf *bytes.Buffer, votes []SignedVote) {
	sorted := sortedSignedVotes(votes)
	writeUint32(buf, uint32(len(sorted)))
	for _, sv := range sorted {
		writeBytes(buf, EncodeSignedVote(sv))
	}
}

func sortedSignedVotes(votes []SignedVote) []SignedVote {
	out := make([]SignedVote, len(votes))
	copy(out, votes)
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(EncodeSignedVote(out[i]), EncodeSignedVote(out[j])) < 0
	})
	return out
}

func sortedProofs(proofs []ShareProof) []ShareProof {
	out := make([]ShareProof, len(proofs))
	copy(out, proofs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Voter != out[j].Voter {
			return out[i].Voter < out[j].Voter
		}
		return bytes.Compare(out[i].Share, out[j].Share) < 0
	})
	return out
}

func sortedFaults(faults []Fault) []Fault {
	out := make([]Fault, len(faults))
	copy(out, faults)
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(EncodeFault(out[i]), EncodeFault(out[j])) < 0
	})
	return out
}
