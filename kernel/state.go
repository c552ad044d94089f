// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/luxfi/elders/eldersmetrics"
	"github.com/luxfi/elders/logging"
	"github.com/luxfi/elders/types"
)

// phase tracks a State's own progress through §4.5's transition rules. It is
// monotone except that the SuperMajority phase can be re-entered if later
// fault evidence changes the winning proposal set out from under an already
// emitted SuperMajority ballot.
type phase uint8

const (
	phaseVoting phase = iota
	phaseMerged
	phaseSuperMajority
	phaseDecided
)

// State is one node's view of a single generation's agreement instance. It
// is not safe for concurrent use from multiple goroutines; every exported
// method guards against concurrent or reentrant entry. Propose, SignVote and
// HandleSignedVote return ErrNotReentrant rather than corrupting the book;
// Decision, Faults and AntiEntropy return an empty result instead.
type State struct {
	mu sync.Mutex

	committee  types.Committee
	generation uint64
	voter      types.NodeID
	crypto     Crypto
	validator  ProposalValidator
	ctx        Context

	book *book

	phase              phase
	proposed           bool
	lastEmitted        *SignedVote
	lastSuperMajority  *ProposalSet
	decision           *Decision
	rounds             int

	log               logging.Logger
	metrics           *eldersmetrics.Collectors
	metricsSeenFaults map[types.NodeID]struct{}
}

// New builds a fresh State for committee, scoped to generation 0 unless
// overridden with WithGeneration. voter is this node's index into the
// committee's threshold key; crypto is this node's signing capability.
func New(committee types.Committee, voter types.NodeID, crypto Crypto, validator ProposalValidator, ctx Context, opts ...Option) (*State, error) {
	if err := committee.Validate(); err != nil {
		return nil, err
	}
	if int(voter) >= committee.N {
		return nil, fmt.Errorf("kernel: voter %d is out of range for committee of size %d", voter, committee.N)
	}
	if crypto == nil {
		return nil, fmt.Errorf("kernel: crypto must not be nil")
	}
	if validator == nil {
		return nil, fmt.Errorf("kernel: validator must not be nil")
	}
	s := &State{
		committee: committee,
		voter:     voter,
		crypto:    crypto,
		validator: validator,
		ctx:       ctx,
		book:      newBook(committee, crypto, validator, ctx),
		phase:     phaseVoting,
		log:       logging.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *State) enter() error {
	if !s.mu.TryLock() {
		return ErrNotReentrant
	}
	return nil
}

func (s *State) exit() { s.mu.Unlock() }

// Propose issues this node's own ProposeBallot for p, the initial step of
// §4.5. It may be called at most once per generation.
func (s *State) Propose(p Proposal) (SignedVote, error) {
	if err := s.enter(); err != nil {
		return SignedVote{}, err
	}
	defer s.exit()

	if s.proposed {
		return SignedVote{}, ErrAlreadyProposed
	}
	if s.decision != nil {
		return SignedVote{}, ErrAlreadyDecided
	}
	if !s.validator(p, s.ctx) {
		return SignedVote{}, ErrProposalRejected
	}

	v := Vote{Generation: s.generation, Ballot: ProposeBallot{Proposal: p}, Faults: s.faultSlice()}
	sv, err := s.signVoteLocked(v)
	if err != nil {
		return SignedVote{}, err
	}
	if _, err := s.book.adopt(sv); err != nil {
		return SignedVote{}, fmt.Errorf("kernel: own proposal failed to adopt: %w", err)
	}
	s.proposed = true
	s.lastEmitted = &sv
	if s.metrics != nil {
		s.metrics.BallotEmitted("propose")
	}
	s.log.Info("proposed", "generation", s.generation, "voter", uint32(s.voter))
	return sv, nil
}

// SignVote signs an arbitrary vote as this node. It is exposed for drivers
// that construct ballots on this node's behalf (for example forwarding
// evidence gathered out of band); most callers only ever need Propose and
// HandleSignedVote.
func (s *State) SignVote(v Vote) (SignedVote, error) {
	if err := s.enter(); err != nil {
		return SignedVote{}, err
	}
	defer s.exit()
	return s.signVoteLocked(v)
}

func (s *State) signVoteLocked(v Vote) (SignedVote, error) {
	sig, err := s.crypto.SignShare(EncodeVote(v))
	if err != nil {
		return SignedVote{}, fmt.Errorf("kernel: sign vote: %w", err)
	}
	return SignedVote{Vote: v, Voter: s.voter, Sig: sig}, nil
}

// HandleSignedVote adopts an incoming signed vote and runs the resulting
// state forward per §4.5. A vote for a strictly future generation is
// rejected with ErrFutureGeneration so the caller can queue it; a vote for a
// strictly past generation is not an error and is answered with this
// instance's latest ballot, per §4.6's anti-entropy routing. Once decided, a
// vote not seen before is folded into the book and answered with the final
// ballot; a vote already processed gets no reply.
func (s *State) HandleSignedVote(sv SignedVote) (Outcome, error) {
	if err := s.enter(); err != nil {
		return Outcome{}, err
	}
	defer s.exit()

	if sv.Vote.Generation > s.generation {
		return Outcome{}, fmt.Errorf("%w: this instance is at generation %d, vote is for %d", ErrFutureGeneration, s.generation, sv.Vote.Generation)
	}
	if sv.Vote.Generation < s.generation {
		if av, ok := s.antiEntropyLocked(); ok {
			return Outcome{Broadcasts: []SignedVote{av}}, nil
		}
		return Outcome{}, nil
	}

	if s.decision != nil {
		if _, seen := s.book.processedSigs[string(sv.Sig)]; seen {
			return Outcome{}, nil
		}
		if _, err := s.book.adopt(sv); err != nil {
			return Outcome{}, err
		}
		final, err := s.emitFinalBroadcast()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Broadcasts: []SignedVote{final}, Decision: s.decision}, nil
	}

	faultsBefore := len(s.book.faults)
	changed, err := s.book.adopt(sv)
	if err != nil {
		s.log.Warn("rejected signed vote", "voter", uint32(sv.Voter), "error", err)
		return Outcome{}, err
	}
	if s.metrics != nil {
		if changed {
			s.metrics.VoteAdopted(strconv.FormatUint(uint64(sv.Voter), 10))
		}
		if len(s.book.faults) > faultsBefore {
			s.recordNewFaultMetrics()
		}
	}
	if !changed {
		return Outcome{}, nil
	}
	s.rounds++
	return s.progress()
}

// Decision reports the decision this instance has reached, if any.
func (s *State) Decision() (Decision, bool) {
	if err := s.enter(); err != nil {
		return Decision{}, false
	}
	defer s.exit()
	if s.decision == nil {
		return Decision{}, false
	}
	return *s.decision, true
}

// Faults returns the fault evidence this instance has recorded so far,
// keyed by the offending voter. A voter with recorded evidence is excluded
// from every tally this instance computes from here on.
func (s *State) Faults() map[types.NodeID]Fault {
	if err := s.enter(); err != nil {
		return nil
	}
	defer s.exit()
	out := make(map[types.NodeID]Fault, len(s.book.faults))
	for voter, f := range s.book.faults {
		out[voter] = f
	}
	return out
}

// AntiEntropy returns this instance's latest emitted ballot, suitable for
// answering a peer that appears to be behind, per §4.6. It reports false if
// this node has not emitted anything yet (it has neither proposed nor
// adopted enough to merge or reach super-majority).
func (s *State) AntiEntropy() (SignedVote, bool) {
	if err := s.enter(); err != nil {
		return SignedVote{}, false
	}
	defer s.exit()
	return s.antiEntropyLocked()
}

func (s *State) antiEntropyLocked() (SignedVote, bool) {
	if s.lastEmitted == nil {
		return SignedVote{}, false
	}
	return *s.lastEmitted, true
}

// recordNewFaultMetrics emits a FaultRecorded metric for every voter newly
// present in the book's fault set since the last time this was called. The
// book itself carries no metrics dependency (VerifyDecision replays it
// statelessly), so the bookkeeping lives here instead.
func (s *State) recordNewFaultMetrics() {
	if s.metricsSeenFaults == nil {
		s.metricsSeenFaults = make(map[types.NodeID]struct{}, len(s.book.faults))
	}
	for voter, f := range s.book.faults {
		if _, seen := s.metricsSeenFaults[voter]; seen {
			continue
		}
		s.metricsSeenFaults[voter] = struct{}{}
		s.metrics.FaultRecorded(f.Kind().String())
	}
}

func (s *State) faultSlice() []Fault {
	out := make([]Fault, 0, len(s.book.faults))
	for _, f := range s.book.faults {
		out = append(out, f)
	}
	return out
}

func (s *State) emitFinalBroadcast() (SignedVote, error) {
	if s.lastEmitted == nil {
		return SignedVote{}, fmt.Errorf("kernel: decided generation %d has no emitted ballot to reply with", s.generation)
	}
	return *s.lastEmitted, nil
}

// progress runs §4.5's transition rules against the current book, in order:
// reach a decision if a super-majority of super-majorities has enough
// verified shares to combine; else emit a SuperMajority ballot if the book
// has reached super-majority on some proposal set this node has not yet
// claimed; else emit a Merge if this node's own latest ballot is superseded
// by what the book now knows; else do nothing.
func (s *State) progress() (Outcome, error) {
	if agreed, ok := superMajorityOfSuperMajorities(s.book.votes, s.book.faults, s.committee); ok {
		dec, err := s.tryDecide(agreed)
		if err != nil {
			return Outcome{}, err
		}
		if dec != nil {
			s.decision = dec
			s.phase = phaseDecided
			if s.metrics != nil {
				s.metrics.Decided(s.rounds)
			}
			s.log.Info("decision reached", "generation", s.generation)
			final, ferr := s.emitFinalBroadcast()
			if ferr != nil {
				return Outcome{}, ferr
			}
			return Outcome{Broadcasts: []SignedVote{final}, Decision: dec}, nil
		}
		// Super-majority-of-super-majorities holds but fewer than T distinct
		// verified shares are known yet; wait for more SuperMajority ballots
		// to propagate before a combine is attempted again.
	}

	if sv, err := s.maybeEmitSuperMajority(); err != nil {
		return Outcome{}, err
	} else if sv != nil {
		return Outcome{Broadcasts: []SignedVote{*sv}}, nil
	}

	if s.needsMerge() {
		sv, err := s.emitMerge()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Broadcasts: []SignedVote{sv}}, nil
	}

	return Outcome{}, nil
}

// tryDecide attempts to recover a combined signature over agreed from the
// shares carried by every adopted SuperMajority ballot backing it. It
// returns (nil, nil) when the threshold isn't met yet, which is routine:
// the super-majority-of-super-majorities count only requires enough
// backers to exist, not that this node has already heard all of their
// shares.
func (s *State) tryDecide(agreed ProposalSet) (*Decision, error) {
	shares := map[types.NodeID]ShareSig{}
	for voter, sv := range s.book.votes {
		if _, faulty := s.book.faults[voter]; faulty {
			continue
		}
		sm, ok := sv.Vote.Ballot.(SuperMajorityBallot)
		if !ok {
			continue
		}
		if !AgreedProposals(sm).Equal(agreed) {
			continue
		}
		for _, proofsForP := range sm.Proofs {
			for _, proof := range proofsForP {
				if _, have := shares[proof.Voter]; !have {
					shares[proof.Voter] = proof.Share
				}
			}
			break // every key carries the same per-voter shares; one suffices.
		}
	}
	if len(shares) < s.committee.T {
		return nil, nil
	}

	combined, err := s.crypto.Combine(decisionMessage(agreed), shares)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureCombineFailed, err)
	}
	return &Decision{
		Generation: s.generation,
		Proposals:  agreed,
		Signature:  combined,
		Votes:      s.smVotesBacking(agreed),
	}, nil
}

// votesBacking returns the adopted, non-faulty votes whose own agreed
// proposal set equals agreed exactly, the backers of a candidate
// super-majority.
func (s *State) votesBacking(agreed ProposalSet) []SignedVote {
	var out []SignedVote
	for voter, sv := range s.book.votes {
		if _, faulty := s.book.faults[voter]; faulty {
			continue
		}
		if AgreedProposals(sv.Vote.Ballot).Equal(agreed) {
			out = append(out, sv)
		}
	}
	return out
}

// smVotesBacking is votesBacking restricted to SuperMajority ballots, the
// certificate a Decision carries.
func (s *State) smVotesBacking(agreed ProposalSet) []SignedVote {
	var out []SignedVote
	for voter, sv := range s.book.votes {
		if _, faulty := s.book.faults[voter]; faulty {
			continue
		}
		if sv.Vote.Ballot.Kind() != BallotSuperMajority {
			continue
		}
		if AgreedProposals(sv.Vote.Ballot).Equal(agreed) {
			out = append(out, sv)
		}
	}
	return out
}

func (s *State) maybeEmitSuperMajority() (*SignedVote, error) {
	agreed, ok := superMajority(s.book.votes, s.book.faults, s.committee)
	if !ok {
		return nil, nil
	}
	if s.lastSuperMajority != nil && s.lastSuperMajority.Equal(agreed) {
		return nil, nil
	}

	ownShare, err := s.crypto.SignShare(decisionMessage(agreed))
	if err != nil {
		return nil, fmt.Errorf("kernel: sign supermajority share: %w", err)
	}
	proofs := s.gatherProofs(agreed)
	for _, p := range agreed {
		key := string(p.Bytes())
		proofs[key] = appendProofUnique(proofs[key], ShareProof{Voter: s.voter, Share: ownShare})
	}

	ballot := SuperMajorityBallot{Votes: s.votesBacking(agreed), Proofs: proofs}
	v := Vote{Generation: s.generation, Ballot: ballot, Faults: s.faultSlice()}
	sv, err := s.signVoteLocked(v)
	if err != nil {
		return nil, err
	}
	if _, err := s.book.adopt(sv); err != nil {
		return nil, fmt.Errorf("kernel: own supermajority ballot failed to adopt: %w", err)
	}
	s.lastEmitted = &sv
	s.phase = phaseSuperMajority
	agreedCopy := agreed
	s.lastSuperMajority = &agreedCopy
	if s.metrics != nil {
		s.metrics.BallotEmitted("supermajority")
	}
	s.log.Info("emitted supermajority ballot", "generation", s.generation)
	return &sv, nil
}

// gatherProofs collects every signature share already known (from other
// adopted SuperMajority ballots agreeing on the same proposal set) before
// this node adds its own, so a combine downstream of this ballot needs as
// few further round trips as possible.
func (s *State) gatherProofs(agreed ProposalSet) map[string][]ShareProof {
	out := make(map[string][]ShareProof, len(agreed))
	for _, p := range agreed {
		out[string(p.Bytes())] = nil
	}
	for voter, sv := range s.book.votes {
		if _, faulty := s.book.faults[voter]; faulty {
			continue
		}
		sm, ok := sv.Vote.Ballot.(SuperMajorityBallot)
		if !ok {
			continue
		}
		if !AgreedProposals(sm).Equal(agreed) {
			continue
		}
		for key, proofs := range sm.Proofs {
			for _, p := range proofs {
				out[key] = appendProofUnique(out[key], p)
			}
		}
	}
	return out
}

func appendProofUnique(proofs []ShareProof, p ShareProof) []ShareProof {
	for _, existing := range proofs {
		if existing.Voter == p.Voter {
			return proofs
		}
	}
	return append(proofs, p)
}

// needsMerge reports whether merging everything currently in the book would
// strictly supersede this node's own latest emitted ballot: new information
// (another voter, or a conflicting proposal) has arrived since that ballot
// went out.
func (s *State) needsMerge() bool {
	if s.lastEmitted == nil || len(s.book.votes) < 2 {
		return false
	}
	candidate := Vote{Generation: s.generation, Ballot: s.mergeBallotFromBook(), Faults: s.faultSlice()}
	hypothetical := SignedVote{Vote: candidate, Voter: s.voter}
	return supersedes(hypothetical, *s.lastEmitted)
}

func (s *State) mergeBallotFromBook() MergeBallot {
	votes := make([]SignedVote, 0, len(s.book.votes))
	for _, sv := range s.book.votes {
		votes = append(votes, sv)
	}
	return MergeBallot{Votes: votes}
}

func (s *State) emitMerge() (SignedVote, error) {
	ballot := s.mergeBallotFromBook()
	v := Vote{Generation: s.generation, Ballot: ballot, Faults: s.faultSlice()}
	sv, err := s.signVoteLocked(v)
	if err != nil {
		return SignedVote{}, err
	}
	if _, err := s.book.adopt(sv); err != nil {
		return SignedVote{}, fmt.Errorf("kernel: own merge ballot failed to adopt: %w", err)
	}
	s.lastEmitted = &sv
	if s.phase < phaseMerged {
		s.phase = phaseMerged
	}
	if s.metrics != nil {
		s.metrics.BallotEmitted("merge")
	}
	s.log.Info("emitted merge ballot", "generation", s.generation, "votes", len(ballot.Votes))
	return sv, nil
}
