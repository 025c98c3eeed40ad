package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SmartPass.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smartpass",
		Short: "Password strength evaluation and cracking simulator",
		Long: `SmartPass classifies password strength with a k-nearest-neighbour model
and measures how a hashed password resists brute-force and dictionary attacks.

It runs as an HTTP service (smartpass serve) or directly from the command
line. Settings come from .smartpass, SMARTPASS_* environment variables and
flags, in increasing order of precedence.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .smartpass in current or home directory)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewAttackCmd())
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewWordlistsCmd())
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
