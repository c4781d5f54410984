package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/parser"
	"github.com/spf13/cobra"
)

func newValidateCmd(g *globals) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate <report.xml>...",
		Short: "Check that coverage reports follow the Cobertura layout",
		Long: `Parse each report and print "ok" or the first problem found,
prefixed with the line and column it was detected at.

Exits non-zero when any report is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := parser.New()

			var failed int
			for _, path := range args {
				doc, err := parseWith(p, path)
				if err != nil {
					failed++
					fmt.Fprintln(out, describe(path, err))
					continue
				}
				if !quiet {
					stats := doc.LineStats()
					fmt.Fprintf(out, "%s: ok (%d packages, %d/%d lines covered)\n",
						path, len(doc.Packages), stats.Covered, stats.Valid)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d reports invalid", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print invalid reports")

	return cmd
}

// parseWith reads one report with a reused parser.
func parseWith(p *parser.Parser, path string) (*coverage.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coverage report: %w", err)
	}
	defer f.Close()
	return p.ParseEvents(parser.NewDecoder(f))
}

// describe renders err as "path:line:column: message" when the position is
// known, the form editors and CI logs link to.
func describe(path string, err error) string {
	var pe *parser.PositionError
	if errors.As(err, &pe) {
		return fmt.Sprintf("%s:%v", path, pe)
	}
	return fmt.Sprintf("%s: %v", path, err)
}
