// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "errors"

// Errors returned to callers. These are the kernel's stable error set;
// callers may match against them with errors.Is. A vote for a past
// generation is not an error (it is answered with the latest ballot), and an
// empty or duplicate-voter merge is recorded as a BadMergeVotesFault rather
// than returned as an error.
var (
	ErrInvalidSignatureShare  = errors.New("kernel: invalid signature share")
	ErrFutureGeneration       = errors.New("kernel: vote is for a future generation")
	ErrInvalidFaultEvidence   = errors.New("kernel: carried fault evidence does not verify")
	ErrProposalRejected       = errors.New("kernel: proposal rejected by validator")
	ErrAlreadyDecided         = errors.New("kernel: generation already decided")
	ErrAlreadyProposed        = errors.New("kernel: this node has already proposed")
	ErrSignatureCombineFailed = errors.New("kernel: signature combine failed despite verified threshold shares")
	ErrBallotTooDeep          = errors.New("kernel: ballot nesting exceeds committee size")
	ErrNotReentrant           = errors.New("kernel: concurrent call into the same consensus state")
)
