package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/format"
	"github.com/spf13/cobra"
)

func newDumpCmd(g *globals) *cobra.Command {
	var dumpFormat string
	var flags coverage.Filter

	cmd := &cobra.Command{
		Use:   "dump <report.xml>",
		Short: "Dump the parsed coverage model",
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

			enc, err := format.NewEncoder(dumpFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encode %s: %w", dumpFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "json", "output format ("+strings.Join(format.Names, ", ")+")")
	filterFlags(cmd, &flags)

	return cmd
}
