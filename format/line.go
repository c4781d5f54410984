package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cobertura/coverage"
)

// LineEncoder writes one tab-separated record per entity, suited to grep,
// cut and awk:
//
//	coverage	<line-rate>	<branch-rate>	<version>
//	source	<path>
//	package	<name>	<line-rate>	<branch-rate>
//	class	<package>	<name>	<filename>	<line-rate>	<branch-rate>
//	method	<class>	<name>	<signature>	<line-rate>	<branch-rate>
//	line	<filename>	<number>	<hits>	<condition-coverage or ->
type LineEncoder struct {
	w   io.Writer
	doc *coverage.Document
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *coverage.Document) error {
	e.doc = doc
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	d := e.doc

	fmt.Fprintf(&sb, "coverage\t%s\t%s\t%s\n", rate(d.LineRate), rate(d.BranchRate), d.Version)

	for _, s := range d.Sources {
		fmt.Fprintf(&sb, "source\t%s\n", s.Path)
	}

	for _, pkg := range d.Packages {
		fmt.Fprintf(&sb, "package\t%s\t%s\t%s\n", pkg.Name, rate(pkg.LineRate), rate(pkg.BranchRate))

		for _, class := range pkg.Classes {
			fmt.Fprintf(&sb, "class\t%s\t%s\t%s\t%s\t%s\n",
				pkg.Name,
				class.Name,
				class.FileName,
				rate(class.LineRate),
				rate(class.BranchRate),
			)
			for _, m := range class.Methods {
				fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
					class.Name,
					m.Name,
					m.Signature,
					rate(m.LineRate),
					rate(m.BranchRate),
				)
			}
			for _, l := range class.Lines {
				fmt.Fprintf(&sb, "line\t%s\t%d\t%d\t%s\n",
					class.FileName,
					l.Number,
					l.Hits,
					conditionStr(l),
				)
			}
		}
	}

	return []byte(sb.String()), nil
}

func rate(r float64) string {
	return fmt.Sprintf("%.4f", r)
}

func conditionStr(l coverage.Line) string {
	if l.ConditionCoverage == nil {
		return "-"
	}
	return *l.ConditionCoverage
}
