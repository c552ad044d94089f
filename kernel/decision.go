// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "github.com/luxfi/elders/types"

// Decision is the final, independently verifiable artifact of a generation:
// the agreed proposal sequence, the combined threshold signature over it,
// and the certificate of votes (a super-majority of SuperMajority ballots)
// that justified it.
type Decision struct {
	Generation uint64
	Proposals  ProposalSet
	Signature  CombinedSig
	Votes      []SignedVote
}

// decisionMessage is the canonical encoding a Decision's combined signature
// is computed over: the agreed proposal sequence. This is the same message
// every ShareProof inside the justifying SuperMajority ballots signs, so a
// recovered threshold signature over it is directly meaningful.
func decisionMessage(proposals ProposalSet) []byte {
	return proposals.canonicalBytes()
}

// VerifyDecision independently checks a Decision: the combined signature
// must verify under the committee, and replaying d.Votes through the
// kernel's own validation and adoption rules must reach a super-majority
// of super-majorities for exactly d.Proposals. This is the only way a
// third party comes to trust a decision without having participated in
// producing it.
func VerifyDecision(d Decision, committee types.Committee, crypto Crypto, validator ProposalValidator, ctx Context) bool {
	if err := committee.Validate(); err != nil {
		return false
	}
	if err := crypto.VerifyCombined(decisionMessage(d.Proposals), d.Signature); err != nil {
		return false
	}

	b := newBook(committee, crypto, validator, ctx)
	for _, sv := range d.Votes {
		if sv.Vote.Generation != d.Generation {
			return false
		}
		if _, err := b.adopt(sv); err != nil {
			return false
		}
	}

	agreed, ok := superMajorityOfSuperMajorities(b.votes, b.faults, committee)
	if !ok {
		return false
	}
	return agreed.Equal(d.Proposals)
}
