// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package membership

import "errors"

var (
	// ErrGenerationInProgress is returned by StartGeneration when the prior
	// generation has not yet reached a decision.
	ErrGenerationInProgress = errors.New("membership: previous generation has not decided yet")
	// ErrUnknownGeneration is returned by Handle for a generation number
	// this driver never started.
	ErrUnknownGeneration = errors.New("membership: no generation started with this number")
)
