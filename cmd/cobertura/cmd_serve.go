package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/ui"
	"github.com/spf13/cobra"
)

func newServeCmd(g *globals) *cobra.Command {
	var addr string
	var flags coverage.Filter

	cmd := &cobra.Command{
		Use:   "serve <report.xml>",
		Short: "Serve the HTML coverage report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = g.cfg.Report.Addr
			}
			f, err := g.filter(cmd, flags)
			if err != nil {
				return err
			}

			doc, err := loadReport(args[0], f)
			if err != nil {
				return err
			}

			renderer, err := ui.NewRenderer(g.cfg.Report.Title, g.cfg.Report.TemplateDir)
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			server := ui.NewServer(doc, renderer)

			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	filterFlags(cmd, &flags)

	return cmd
}
