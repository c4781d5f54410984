package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "../../parser/testdata/sample.xml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", sample)
	require.NoError(t, err)
	assert.Equal(t, sample+": ok (2 packages, 4/6 lines covered)\n", out)

	out, err = run(t, "validate", "-q", sample, "testdata/bad.xml", "testdata/missing.xml")
	require.EqualError(t, err, "2 of 3 reports invalid")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "testdata/bad.xml:4:"), lines[0])
	assert.Contains(t, lines[0], "<bogus/>")
	assert.True(t, strings.HasPrefix(lines[1], "testdata/missing.xml: open coverage report:"), lines[1])
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", sample)
	require.NoError(t, err)
	assert.Equal(t, "line-rate 0.6667 matches 4/6 lines (0.6667)\n", out)

	_, err = run(t, "check", "testdata/drift.xml")
	var mismatch *coverage.RateMismatchError
	require.True(t, errors.As(err, &mismatch), "error = %v", err)
	assert.Equal(t, 0.9, mismatch.Declared)

	_, err = run(t, "check", "--tolerance", "0.5", "testdata/drift.xml")
	require.NoError(t, err)

	_, err = run(t, "check", "--fail-under", "70", sample)
	var threshold *coverage.ThresholdError
	require.True(t, errors.As(err, &threshold), "error = %v", err)
}

func TestCheckUsesConfigTolerance(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "cobertura.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("check:\n  tolerance: 0.5\n"), 0o644))

	_, err := run(t, "--config", cfg, "check", "testdata/drift.xml")
	require.NoError(t, err)
}

func TestDump(t *testing.T) {
	out, err := run(t, "dump", "-f", "json", "--exclude", "**/util/**", sample)
	require.NoError(t, err)

	var doc coverage.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Packages, 2)
	assert.Len(t, doc.Packages[0].Classes, 1)
	assert.Empty(t, doc.Packages[1].Classes)

	_, err = run(t, "dump", "-f", "xml", sample)
	assert.Error(t, err)

	_, err = run(t, "dump", "--include", "src/[a-", sample)
	assert.ErrorContains(t, err, "invalid include pattern")
}

func TestSummary(t *testing.T) {
	out, err := run(t, "summary", sample)
	require.NoError(t, err)
	assert.Contains(t, out, "com.example.app.Greeter")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "66.7% (4/6)")
}

func TestHTML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	out, err := run(t, "html", "-o", dir, "--title", "Sample", sample)
	require.NoError(t, err)
	assert.Equal(t, "Wrote 2 class pages to "+filepath.Join(dir, "index.html")+"\n", out)

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<title>Sample</title>")

	_, err = os.Stat(filepath.Join(dir, "com.example.app.Greeter.html"))
	assert.NoError(t, err)
}
