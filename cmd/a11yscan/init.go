package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/a11yscan/internal/config"
)

//go:embed templates/a11yscan.yaml
var configTemplate []byte

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an a11yscan configuration file",
		Long: `Init writes a commented configuration file with the default settings and
examples for per-site cookies, headers, levels and disabled checks.

Examples:
  # Create .a11yscan.yaml in the current directory
  a11yscan init

  # Create the user-wide configuration file
  a11yscan init ~/.config/a11yscan/config.yaml

  # Force overwrite existing file
  a11yscan init -f`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInitCmd,
	}

	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, args []string) error {
	outputPath := config.DefaultConfigFile
	if len(args) == 1 {
		outputPath = args[0]
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// The file may hold session cookies, so only the owner can read it.
	if err := os.WriteFile(outputPath, configTemplate, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure per-site settings such as:")
	fmt.Fprintln(out, "  - Session cookies and headers for pages behind a login")
	fmt.Fprintln(out, "  - The WCAG level used for contrast")
	fmt.Fprintln(out, "  - Checks to skip")

	return nil
}
