// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blscrypto

import (
	"fmt"

	"github.com/drand/kyber/pairing"
	"github.com/drand/kyber/share"
)

// DealerKeyGen runs a trusted-dealer (t,n) key split: a single party knows
// the group secret long enough to produce the public commitment polynomial
// and everyone's share, then discards it. This is the shape this package's
// adapter tests use to stand up a real committee without a distributed key
// generation round (cmd/eldersctl's simulator and the kernel's tests use
// FastStub instead); a production deployment
// behind handover would instead run kyber/share/dkg's Pedersen protocol and
// never materializes the combined secret.
func DealerKeyGen(suite pairing.Suite, n, t int) (*share.PubPoly, []*share.PriShare, error) {
	if t <= 0 || t > n {
		return nil, nil, fmt.Errorf("blscrypto: invalid threshold t=%d for n=%d", t, n)
	}
	group := suite.G2()
	secret := group.Scalar().Pick(suite.RandomStream())
	priPoly := share.NewPriPoly(group, t, secret, suite.RandomStream())
	pubPoly := priPoly.Commit(group.Point().Base())
	return pubPoly, priPoly.Shares(n), nil
}
