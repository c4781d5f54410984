package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/rivo/uniseg"
)

// SummaryEncoder prints line and branch coverage recomputed from the report
// as an aligned table: one row per package, its classes indented below it
// and a closing total.
type SummaryEncoder struct {
	w   io.Writer
	doc *coverage.Document
}

func NewSummaryEncoder(w io.Writer) *SummaryEncoder {
	return &SummaryEncoder{w: w}
}

func (e *SummaryEncoder) Encode(doc *coverage.Document) error {
	e.doc = doc
	return write(e.w, e)
}

func (e *SummaryEncoder) MarshalText() ([]byte, error) {
	rows := [][]string{{"NAME", "LINES", "BRANCHES"}}
	for i := range e.doc.Packages {
		pkg := &e.doc.Packages[i]
		rows = append(rows, []string{pkg.Name, statsStr(pkg.LineStats()), statsStr(pkg.BranchStats())})
		for j := range pkg.Classes {
			class := &pkg.Classes[j]
			rows = append(rows, []string{"  " + class.Name, statsStr(class.LineStats()), statsStr(class.BranchStats())})
		}
	}
	rows = append(rows, []string{"TOTAL", statsStr(e.doc.LineStats()), statsStr(e.doc.BranchStats())})

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], uniseg.StringWidth(cell))
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-uniseg.StringWidth(cell)))
			}
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

func statsStr(s coverage.Stats) string {
	if s.Valid == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%% (%d/%d)", s.Rate()*100, s.Covered, s.Valid)
}
