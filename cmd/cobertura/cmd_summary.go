package main

import (
	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/format"
	"github.com/spf13/cobra"
)

func newSummaryCmd(g *globals) *cobra.Command {
	var flags coverage.Filter

	cmd := &cobra.Command{
		Use:   "summary <report.xml>",
		Short: "Print line and branch coverage per package and class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := g.filter(cmd, flags)
			if err != nil {
				return err
			}
			doc, err := loadReport(args[0], f)
			if err != nil {
				return err
			}
			return format.NewSummaryEncoder(cmd.OutOrStdout()).Encode(doc)
		},
	}

	filterFlags(cmd, &flags)

	return cmd
}
