// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command eldersctl is a local development tool for the elders consensus
// kernel: committee parameter checking and in-process multi-node
// simulation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eldersctl",
	Short: "Tools for the elders threshold-BLS BFT agreement kernel",
	Long: `eldersctl provides local tools for working with the elders consensus
kernel: committee parameter checking and in-process multi-node simulation
using the fast HMAC crypto stub (no real threshold-BLS pairing cost).`,
}

func main() {
	rootCmd.AddCommand(checkCmd(), simCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
