package lsp

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func loadIndex(t *testing.T, extra ...string) *Index {
	t.Helper()
	doc, err := parser.ParseFile("testdata/coverage.xml")
	require.NoError(t, err)
	return NewIndex(doc, extra)
}

func TestIndexMergesClassesOfOneFile(t *testing.T) {
	ix := loadIndex(t)
	require.Equal(t, 1, ix.Len())

	fc, ok := ix.Lookup("/work/src/pkg/A.java")
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 2, 3, 4}, fc.Numbers())
	assert.Equal(t, uint64(5), fc.Lines[2].Hits, "highest hits wins")
}

func TestIndexLookup(t *testing.T) {
	ix := loadIndex(t, "/checkout/module/src/main/java")

	tests := []struct {
		path string
		ok   bool
	}{
		{"/work/src/pkg/A.java", true},
		{"/checkout/module/src/main/java/pkg/A.java", true},
		{"/elsewhere/pkg/A.java", true},
		{"/work/src/pkg/B.java", false},
		{"/work/src/xpkg/A.java", false},
		{"pkg/A.java", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, ok := ix.Lookup(filepath.FromSlash(tt.path))
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestIndexPrefersLongestSuffix(t *testing.T) {
	doc := &coverage.Document{Packages: []coverage.Package{{Classes: []coverage.Class{
		{FileName: "A.java", Lines: []coverage.Line{{Number: 1, Hits: 1}}},
		{FileName: "b/A.java", Lines: []coverage.Line{{Number: 1, Hits: 2}}},
	}}}}
	ix := NewIndex(doc, nil)

	fc, ok := ix.Lookup("/repo/b/A.java")
	require.True(t, ok)
	assert.Equal(t, "b/A.java", fc.FileName)

	fc, ok = ix.Lookup("/repo/c/A.java")
	require.True(t, ok)
	assert.Equal(t, "A.java", fc.FileName)
}

func TestDiagnostics(t *testing.T) {
	fc, ok := loadIndex(t).Lookup("/work/src/pkg/A.java")
	require.True(t, ok)

	text := "class A {\n  int x;\n  if (ü) {}\n}\n"
	got := Diagnostics(fc, text)
	require.Len(t, got, 2)

	assert.Equal(t, "partially covered: 50% (1/2)", got[0].Message)
	assert.Equal(t, protocol.DiagnosticSeverityInformation, *got[0].Severity)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2},
		End:   protocol.Position{Line: 2, Character: 11},
	}, got[0].Range)

	assert.Equal(t, "not covered", got[1].Message)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *got[1].Severity)
	assert.Equal(t, protocol.UInteger(3), got[1].Range.Start.Line)
	assert.Equal(t, "cobertura", *got[1].Source)

	withoutText := Diagnostics(fc, "")
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 3},
		End:   protocol.Position{Line: 4},
	}, withoutText[1].Range)
}

func TestDiagnosticsSkipsUnaddressableLines(t *testing.T) {
	fc := &FileCoverage{
		FileName: "A.java",
		Lines: map[uint64]coverage.Line{
			0:              {Number: 0},
			1:              {Number: 1},
			1<<32 + 1:      {Number: 1<<32 + 1},
			math.MaxUint32: {Number: math.MaxUint32},
		},
	}

	got := Diagnostics(fc, "")
	require.Len(t, got, 2)
	assert.Equal(t, protocol.UInteger(0), got[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(math.MaxUint32-1), got[1].Range.Start.Line)
}

func TestHoverText(t *testing.T) {
	cov := "50% (1/2)"
	tests := []struct {
		line coverage.Line
		want string
	}{
		{coverage.Line{Hits: 0}, "**not covered**"},
		{coverage.Line{Hits: 1}, "covered 1 time"},
		{
			coverage.Line{Hits: 3, ConditionCoverage: &cov, Conditions: []coverage.Condition{{Type: "jump", Coverage: "50%"}}},
			"covered 3 times\n\nconditions: 50% (1/2)\n- jump #0: 50%",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HoverText(tt.line))
	}
}

func TestServerPublishesOnOpen(t *testing.T) {
	ls := NewServer("test", "testdata/coverage.xml", []string{"/checkout"})
	require.NoError(t, ls.Load("testdata/coverage.xml"))

	var published []protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			assert.Equal(t, "textDocument/publishDiagnostics", method)
			published = append(published, params.(protocol.PublishDiagnosticsParams))
		},
	}

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///checkout/pkg/A.java", Text: "a\nb\nc\nd\n"},
	}))
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///checkout/pkg/Other.java"},
	}))

	require.Len(t, published, 2)
	assert.Len(t, published[0].Diagnostics, 2)
	assert.NotNil(t, published[1].Diagnostics, "an empty list clears stale diagnostics")
	assert.Empty(t, published[1].Diagnostics)

	hover, err := ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///checkout/pkg/A.java"},
			Position:     protocol.Position{Line: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Equal(t, "covered 5 times", hover.Contents.(protocol.MarkupContent).Value)

	hover, err = ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///checkout/pkg/A.java"},
			Position:     protocol.Position{Line: 40},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestServerLoadError(t *testing.T) {
	ls := NewServer("test", "testdata/missing.xml", nil)
	assert.Error(t, ls.Load("testdata/missing.xml"))
}
