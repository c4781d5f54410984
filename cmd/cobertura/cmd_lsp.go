package main

import (
	"github.com/dhamidi/cobertura/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(g *globals) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server that shows coverage in the editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("report") {
				reportPath = g.cfg.LSP.Report
			}
			server := lsp.NewServer(version, reportPath, g.cfg.LSP.Sources)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "coverage.xml", "coverage report, relative to the workspace root")

	return cmd
}
