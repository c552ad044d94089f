// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/elders/types"
)

func checkCmd() *cobra.Command {
	var n, t int
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a committee's (N, T) parameters",
		Long: `Check that a committee's N (number of shares) and T (threshold) are
internally consistent, and print the derived super-majority thresholds at
a range of fault counts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(n, t)
		},
	}
	cmd.Flags().IntVar(&n, "n", types.DefaultCommitteeParams().N, "committee size")
	cmd.Flags().IntVar(&t, "t", types.DefaultCommitteeParams().T, "signing threshold")
	return cmd
}

func runCheck(n, t int) error {
	committee := types.Committee{ID: []byte("eldersctl-check"), N: n, T: t}
	if err := committee.Validate(); err != nil {
		return fmt.Errorf("invalid committee: %w", err)
	}
	maxFaults := (n - 1) / 3
	fmt.Printf("committee: N=%d T=%d\n", n, t)
	fmt.Printf("tolerates up to %d Byzantine voters under the (N+faults)/2 super-majority rule\n", maxFaults)
	for faults := 0; faults <= maxFaults; faults++ {
		fmt.Printf("  faults=%d -> super-majority threshold=%d\n", faults, committee.SuperMajorityThreshold(faults))
	}
	if t <= maxFaults {
		fmt.Printf("warning: T=%d does not exceed the maximum tolerated fault count %d; a decision may be unreachable under worst-case faults\n", t, maxFaults)
	}
	return nil
}
