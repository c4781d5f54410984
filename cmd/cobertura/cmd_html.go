package main

import (
	"fmt"
	"path/filepath"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/report"
	"github.com/spf13/cobra"
)

func newHTMLCmd(g *globals) *cobra.Command {
	var outputDir string
	var title string
	var flags coverage.Filter

	cmd := &cobra.Command{
		Use:   "html <report.xml>",
		Short: "Write a static HTML coverage report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				outputDir = g.cfg.Report.OutputDir
			}
			if !cmd.Flags().Changed("title") {
				title = g.cfg.Report.Title
			}
			f, err := g.filter(cmd, flags)
			if err != nil {
				return err
			}

			doc, err := loadReport(args[0], f)
			if err != nil {
				return err
			}

			renderer, err := report.New(report.Options{
				Title:       title,
				TemplateDir: g.cfg.Report.TemplateDir,
			})
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			if err := renderer.WriteSite(cmd.Context(), outputDir, doc); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d class pages to %s\n",
				len(report.Pages(doc)), filepath.Join(outputDir, "index.html"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "coverage-report", "output directory")
	cmd.Flags().StringVar(&title, "title", "Coverage Report", "report title")
	filterFlags(cmd, &flags)

	return cmd
}
