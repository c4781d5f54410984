// Package config loads command defaults from an optional project file and
// COBERTURA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jinzhu/configor"
)

// DefaultFiles are looked up in order when no file is given explicitly.
var DefaultFiles = []string{".cobertura.yml", ".cobertura.yaml", ".cobertura.json", ".cobertura.toml"}

type Config struct {
	Verbosity int `default:"0" env:"COBERTURA_VERBOSITY" yaml:"verbosity" json:"verbosity" toml:"verbosity"`

	Check struct {
		// Tolerance is the accepted difference between the declared and the
		// recomputed line rate.
		Tolerance float64 `default:"0.001" env:"COBERTURA_CHECK_TOLERANCE" yaml:"tolerance" json:"tolerance" toml:"tolerance"`
		// FailUnder is a minimum line coverage in percent; 0 disables it.
		FailUnder float64 `default:"0" env:"COBERTURA_CHECK_FAIL_UNDER" yaml:"fail-under" json:"fail-under" toml:"fail-under"`
	} `yaml:"check" json:"check" toml:"check"`

	Report struct {
		OutputDir   string `default:"coverage-report" env:"COBERTURA_REPORT_OUTPUT_DIR" yaml:"output-dir" json:"output-dir" toml:"output-dir"`
		Title       string `default:"Coverage Report" env:"COBERTURA_REPORT_TITLE" yaml:"title" json:"title" toml:"title"`
		TemplateDir string `env:"COBERTURA_REPORT_TEMPLATE_DIR" yaml:"template-dir" json:"template-dir" toml:"template-dir"`
		Addr        string `default:":8080" env:"COBERTURA_REPORT_ADDR" yaml:"addr" json:"addr" toml:"addr"`
	} `yaml:"report" json:"report" toml:"report"`

	Filter struct {
		Include []string `env:"COBERTURA_FILTER_INCLUDE" yaml:"include" json:"include" toml:"include"`
		Exclude []string `env:"COBERTURA_FILTER_EXCLUDE" yaml:"exclude" json:"exclude" toml:"exclude"`
	} `yaml:"filter" json:"filter" toml:"filter"`

	LSP struct {
		Report  string   `default:"coverage.xml" env:"COBERTURA_LSP_REPORT" yaml:"report" json:"report" toml:"report"`
		Sources []string `env:"COBERTURA_LSP_SOURCES" yaml:"sources" json:"sources" toml:"sources"`
	} `yaml:"lsp" json:"lsp" toml:"lsp"`

	// File is the configuration file that was loaded, if any.
	File string `yaml:"-" json:"-" toml:"-"`
}

// Find returns the first of DefaultFiles present in dir, or "".
func Find(dir string) string {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads path, or the first default file in the working directory when
// path is empty. Having no file at all is fine: defaults and environment
// variables still apply. An explicit path must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Find(".")
	} else if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}

	var files []string
	if path != "" {
		files = append(files, path)
	}

	cfg := &Config{File: path}
	loader := configor.New(&configor.Config{ENVPrefix: "COBERTURA", Silent: true})
	if err := loader.Load(cfg, files...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.File = path
	return cfg, nil
}
