package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitError    = 1
	exitFindings = 2
)

// NewRootCmd creates the root command for a11yscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "a11yscan",
		Short: "Accessibility auditor for web pages",
		Long: `a11yscan audits web pages and local HTML files for common accessibility
problems and measures text contrast against the WCAG 2.1 thresholds.

Each target is fetched once and inspected as delivered; scripts are not run
and links are not followed.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write diagnostic logs to stderr as JSON lines")

	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewContrastCmd())
	cmd.AddCommand(NewChecksCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error returned by a command to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, ErrFindingsAtThreshold) {
		return exitFindings
	}
	return exitError
}
