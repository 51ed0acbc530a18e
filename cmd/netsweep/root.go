// Package main provides the entry point for the netsweep CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for netsweep.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netsweep",
		Short: "Automated network reconnaissance for authorized assessments",
		Long: `netsweep chains nmap and masscan into a fixed reconnaissance pipeline:
host discovery, deep per-host enumeration, full-range TCP/UDP port
scanning, and per-port service fingerprinting. Results are written into
one directory per live host.

netsweep must run as root and is intended for networks you are
authorized to test.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
