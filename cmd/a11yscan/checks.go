package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/a11yscan/internal/audit"
	"github.com/nao1215/a11yscan/internal/model"
)

// NewChecksCmd creates the checks command.
func NewChecksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the available accessibility checks",
		Long: `Checks lists every built-in check with its category, the highest severity
it reports and the WCAG document it is based on. The names are the values
accepted by --disable and by disabledChecks in the configuration file.`,
		Args: cobra.NoArgs,
		RunE: runChecksCmd,
	}

	cmd.Flags().BoolP("markdown", "m", false, "Output the list as a Markdown table")

	return cmd
}

// checkInfo describes one check for listing.
type checkInfo struct {
	Name        string
	Category    string
	Severity    model.Severity
	Reference   string
	Description string
}

// listChecks collects the metadata of the built-in checks in run order.
func listChecks() []checkInfo {
	checks := audit.DefaultChecks(audit.ContrastOptions{})
	infos := make([]checkInfo, 0, len(checks))
	for _, c := range checks {
		info := checkInfo{
			Name:        c.Name(),
			Category:    c.Category(),
			Description: c.Description(),
		}
		if fr, ok := c.(audit.FindingReporter); ok {
			for i, typ := range fr.FindingTypes() {
				fi := model.GetFindingInfo(typ)
				if i == 0 || fi.Severity > info.Severity {
					info.Severity = fi.Severity
				}
				if info.Reference == "" {
					info.Reference = fi.Reference
				}
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// runChecksCmd executes the checks command.
func runChecksCmd(cmd *cobra.Command, _ []string) error {
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	if asMarkdown {
		return writeChecksMarkdown(cmd.OutOrStdout(), listChecks())
	}
	return writeChecksText(cmd.OutOrStdout(), listChecks())
}

func writeChecksText(w io.Writer, checks []checkInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tSEVERITY\tDESCRIPTION")
	for _, c := range checks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Category, c.Severity, c.Description)
	}
	return tw.Flush()
}

func writeChecksMarkdown(w io.Writer, checks []checkInfo) error {
	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, []string{
			"`" + c.Name + "`",
			c.Category,
			c.Severity.String(),
			c.Description,
			markdown.Link("WCAG", c.Reference),
		})
	}

	return markdown.NewMarkdown(w).
		H1("a11yscan checks").
		Table(markdown.TableSet{
			Header: []string{"Name", "Category", "Severity", "Description", "Reference"},
			Rows:   rows,
		}).
		Build()
}
