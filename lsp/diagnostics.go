package lsp

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/dhamidi/cobertura/coverage"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagnosticSource = "cobertura"

// Diagnostics reports uncovered lines as warnings and partially covered
// branch lines as information. text is the document content and is only
// used to size the ranges; it may be empty.
func Diagnostics(fc *FileCoverage, text string) []protocol.Diagnostic {
	widths := lineWidths(text)
	diagnostics := []protocol.Diagnostic{}

	for _, n := range fc.Numbers() {
		// LSP lines are 0-based uint32.
		if n == 0 || n > math.MaxUint32 {
			continue
		}
		l := fc.Lines[n]

		var (
			severity protocol.DiagnosticSeverity
			message  string
		)
		switch {
		case !l.Covered():
			severity, message = protocol.DiagnosticSeverityWarning, "not covered"
		case !l.FullyCovered():
			severity, message = protocol.DiagnosticSeverityInformation, "partially covered: "+conditionCoverage(l)
		default:
			continue
		}

		source := diagnosticSource
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(n, widths),
			Severity: &severity,
			Source:   &source,
			Message:  message,
		})
	}
	return diagnostics
}

// HoverText describes the coverage of a line in markdown.
func HoverText(l coverage.Line) string {
	var sb strings.Builder
	switch l.Hits {
	case 0:
		sb.WriteString("**not covered**")
	case 1:
		sb.WriteString("covered 1 time")
	default:
		fmt.Fprintf(&sb, "covered %d times", l.Hits)
	}
	if l.ConditionCoverage != nil {
		fmt.Fprintf(&sb, "\n\nconditions: %s", *l.ConditionCoverage)
	}
	for _, c := range l.Conditions {
		fmt.Fprintf(&sb, "\n- %s #%d: %s", c.Type, c.Number, c.Coverage)
	}
	return sb.String()
}

func conditionCoverage(l coverage.Line) string {
	if l.ConditionCoverage == nil {
		return "unknown"
	}
	return *l.ConditionCoverage
}

// lineRange spans a 1-based report line. Lines beyond the known text span
// to the start of the next line.
func lineRange(n uint64, widths []protocol.UInteger) protocol.Range {
	line := protocol.UInteger(n - 1)
	if int(line) < len(widths) {
		return protocol.Range{
			Start: protocol.Position{Line: line},
			End:   protocol.Position{Line: line, Character: widths[line]},
		}
	}
	return protocol.Range{
		Start: protocol.Position{Line: line},
		End:   protocol.Position{Line: line + 1},
	}
}

// lineWidths measures each line in UTF-16 code units, the unit LSP positions
// count in.
func lineWidths(text string) []protocol.UInteger {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	widths := make([]protocol.UInteger, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		var w int
		for _, r := range line {
			w += utf16.RuneLen(r)
		}
		widths[i] = protocol.UInteger(w)
	}
	return widths
}
