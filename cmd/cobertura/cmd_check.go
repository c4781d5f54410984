package main

import (
	"fmt"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/parser"
	"github.com/spf13/cobra"
)

func newCheckCmd(g *globals) *cobra.Command {
	var tolerance float64
	var failUnder float64

	cmd := &cobra.Command{
		Use:   "check <report.xml>",
		Short: "Compare the declared line rate with the one recomputed from the lines",
		Long: `Recompute line coverage from every class line of the report and
compare it with the line-rate attribute of <coverage>.

With --fail-under, also fail when the recomputed coverage (in percent)
is below the given minimum.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tolerance") {
				tolerance = g.cfg.Check.Tolerance
			}
			if !cmd.Flags().Changed("fail-under") {
				failUnder = g.cfg.Check.FailUnder
			}

			doc, err := parser.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			stats := doc.LineStats()
			if err := doc.CheckLineRate(tolerance); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "line-rate %.4f matches %d/%d lines (%.4f)\n",
				doc.LineRate, stats.Covered, stats.Valid, stats.Rate())

			if failUnder > 0 {
				if err := coverage.CheckThreshold(stats.Rate(), failUnder/100); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&tolerance, "tolerance", 0.001, "accepted difference between declared and computed line rate")
	cmd.Flags().Float64Var(&failUnder, "fail-under", 0, "minimum line coverage in percent")

	return cmd
}
