package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/a11yscan/internal/contrast"
)

// NewContrastCmd creates the contrast command.
func NewContrastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contrast <background> <foreground>",
		Short: "Compute the contrast ratio of two colors",
		Long: `Contrast computes the WCAG 2.1 contrast ratio between a background and a
foreground color and reports whether it passes the AA and AAA thresholds
for normal and large text.

Colors may be given as hex (#777, #777777), rgb()/rgba() or
CSS color names.

Examples:
  a11yscan contrast white '#777'
  a11yscan contrast 'rgb(0, 0, 0)' 'rgb(118, 118, 118)'
  a11yscan contrast --json navy gold`,
		Args: cobra.ExactArgs(2),
		RunE: runContrastCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output the result as JSON")

	return cmd
}

// contrastResult is the JSON output of the contrast command.
type contrastResult struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	contrast.Verdict
}

// runContrastCmd executes the contrast command.
func runContrastCmd(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	m, err := contrast.Measure(contrast.CSS(args[0]), contrast.CSS(args[1]))
	if err != nil {
		return err
	}

	result := contrastResult{
		Background: m.Background.Hex(),
		Foreground: m.Foreground.Hex(),
		Verdict:    m.Verdict(),
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeVerdict(cmd.OutOrStdout(), result)
}

// writeVerdict prints the result as a small table.
func writeVerdict(w io.Writer, r contrastResult) error {
	_, err := fmt.Fprintf(w, `Background:     %s
Foreground:     %s
Contrast ratio: %.2f:1

              AA     AAA
Normal text   %-6s %s
Large text    %-6s %s
`,
		r.Background, r.Foreground, r.Ratio,
		passFail(r.AANormal), passFail(r.AAANormal),
		passFail(r.AALarge), passFail(r.AAALarge),
	)
	return err
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
