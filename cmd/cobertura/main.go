package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/cobertura/config"
	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/parser"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

// globals holds the persistent flags and the configuration loaded from them.
type globals struct {
	configPath string
	verbose    int
	logFile    string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "cobertura",
		Short:         "Validate, summarize and render Cobertura coverage reports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			g.cfg = cfg

			verbosity := cfg.Verbosity
			if cmd.Flags().Changed("verbose") {
				verbosity = g.verbose
			}
			var logFile *string
			if g.logFile != "" {
				logFile = &g.logFile
			}
			commonlog.Configure(verbosity, logFile)
			if cfg.File != "" {
				commonlog.GetLogger("cobertura").Debugf("using config %s", cfg.File)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "configuration file (default: .cobertura.{yml,yaml,json,toml})")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newValidateCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newSummaryCmd(g))
	rootCmd.AddCommand(newDumpCmd(g))
	rootCmd.AddCommand(newHTMLCmd(g))
	rootCmd.AddCommand(newServeCmd(g))
	rootCmd.AddCommand(newLSPCmd(g))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// filterFlags registers --include and --exclude. Patterns given on the
// command line replace those from the configuration.
func filterFlags(cmd *cobra.Command, f *coverage.Filter) {
	cmd.Flags().StringSliceVar(&f.Include, "include", nil, "only classes whose file name matches one of these globs")
	cmd.Flags().StringSliceVar(&f.Exclude, "exclude", nil, "drop classes whose file name matches one of these globs")
}

func (g *globals) filter(cmd *cobra.Command, f coverage.Filter) (coverage.Filter, error) {
	if !cmd.Flags().Changed("include") {
		f.Include = g.cfg.Filter.Include
	}
	if !cmd.Flags().Changed("exclude") {
		f.Exclude = g.cfg.Filter.Exclude
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// loadReport parses the report at path and applies f.
func loadReport(path string, f coverage.Filter) (*coverage.Document, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.Apply(doc), nil
}
