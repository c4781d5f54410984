package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/cobertura/coverage"
)

// state is the position in the Cobertura schema the machine is in.
type state int

const (
	stateCoverage state = iota
	stateSources
	stateSource
	statePackages
	statePackage
	stateClasses
	stateClass
	stateMethods
	stateMethod
	stateMethodLines
	stateMethodLine
	stateMethodLineConditions
	stateClassLines
	stateClassLine
	stateClassLineConditions
	stateEnd
)

var stateNames = [...]string{
	stateCoverage:             "coverage",
	stateSources:              "sources",
	stateSource:               "source",
	statePackages:             "packages",
	statePackage:              "package",
	stateClasses:              "classes",
	stateClass:                "class",
	stateMethods:              "methods",
	stateMethod:               "method",
	stateMethodLines:          "method lines",
	stateMethodLine:           "method line",
	stateMethodLineConditions: "method line conditions",
	stateClassLines:           "class lines",
	stateClassLine:            "class line",
	stateClassLineConditions:  "class line conditions",
	stateEnd:                  "end",
}

func (s state) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

// machine accumulates one document. The schema is strictly nested and not
// recursive, so a single in-flight slot per entity kind is enough: opening
// an element fills its slot, closing it appends the slot to the parent.
type machine struct {
	state  state
	doc    coverage.Document
	source strings.Builder
	pkg    coverage.Package
	class  coverage.Class
	method coverage.Method
	line   coverage.Line
}

// begin validates the root element and returns a machine positioned inside
// <coverage>.
func begin(ev Event) (*machine, error) {
	if ev.Kind != StartEvent || ev.Name != "coverage" {
		return nil, &ExpectedStartError{Got: ev.Desc(), Expected: []string{"coverage"}}
	}
	v, err := coverageAttrs.extract(ev.Attrs)
	if err != nil {
		return nil, err
	}
	return &machine{
		state: stateCoverage,
		doc: coverage.Document{
			LineRate:        v.f64("line-rate"),
			BranchRate:      v.f64("branch-rate"),
			LinesCovered:    v.u64("lines-covered"),
			LinesValid:      v.u64("lines-valid"),
			BranchesCovered: v.u64("branches-covered"),
			BranchesValid:   v.u64("branches-valid"),
			Complexity:      v.f64("complexity"),
			Version:         v.str("version"),
			Timestamp:       v.u64("timestamp"),
		},
	}, nil
}

func (m *machine) done() bool {
	return m.state == stateEnd
}

func (m *machine) consume(ev Event) error {
	var (
		next state
		err  error
	)
	switch m.state {
	case stateCoverage:
		next, err = m.inCoverage(ev)
	case stateSources:
		next, err = m.inSources(ev)
	case stateSource:
		next, err = m.inSource(ev)
	case statePackages:
		next, err = m.inPackages(ev)
	case statePackage:
		next, err = m.inPackage(ev)
	case stateClasses:
		next, err = m.inClasses(ev)
	case stateClass:
		next, err = m.inClass(ev)
	case stateMethods:
		next, err = m.inMethods(ev)
	case stateMethod:
		next, err = m.inMethod(ev)
	case stateMethodLines:
		next, err = m.inLines(ev, &m.method.Lines, stateMethodLine, stateMethod)
	case stateMethodLine:
		next, err = m.inLine(ev, &m.method.Lines, stateMethodLineConditions, stateMethodLines)
	case stateMethodLineConditions:
		next, err = m.inConditions(ev, stateMethodLine)
	case stateClassLines:
		next, err = m.inLines(ev, &m.class.Lines, stateClassLine, stateClass)
	case stateClassLine:
		next, err = m.inLine(ev, &m.class.Lines, stateClassLineConditions, stateClassLines)
	case stateClassLineConditions:
		next, err = m.inConditions(ev, stateClassLine)
	case stateEnd:
		return &UnexpectedValueError{Value: ev.Desc().String()}
	}
	if err != nil {
		return err
	}
	m.state = next
	return nil
}

// edge is a transition taken on an element name.
type edge struct {
	name string
	to   state
}

func names(edges []edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.name
	}
	return out
}

// onStart follows the edge named by a start or self-closing tag.
func onStart(ev Event, edges ...edge) (state, error) {
	for _, e := range edges {
		if e.name == ev.Name {
			return e.to, nil
		}
	}
	return 0, &ExpectedStartError{Got: ev.Desc(), Expected: names(edges)}
}

func onEnd(ev Event, edges ...edge) (state, error) {
	for _, e := range edges {
		if e.name == ev.Name {
			return e.to, nil
		}
	}
	return 0, &ExpectedEndError{Got: ev.Desc(), Expected: names(edges)}
}

func startOrEnd(ev Event, starts []string, ends ...string) error {
	return &ExpectedStartOrEndError{Got: ev.Desc(), ExpectedStarts: starts, ExpectedEnds: ends}
}

func (m *machine) inCoverage(ev Event) (state, error) {
	switch ev.Kind {
	case StartEvent:
		return onStart(ev, edge{"sources", stateSources}, edge{"packages", statePackages})
	case EmptyEvent:
		return onStart(ev, edge{"sources", stateCoverage}, edge{"packages", stateCoverage})
	case EndEvent:
		return onEnd(ev, edge{"coverage", stateEnd})
	}
	return 0, startOrEnd(ev, []string{"sources", "packages"}, "coverage")
}

func (m *machine) inSources(ev Event) (state, error) {
	switch ev.Kind {
	case StartEvent:
		m.source.Reset()
		return onStart(ev, edge{"source", stateSource})
	case EndEvent:
		return onEnd(ev, edge{"sources", stateCoverage})
	}
	return 0, startOrEnd(ev, []string{"source"}, "sources")
}

func (m *machine) inSource(ev Event) (state, error) {
	switch ev.Kind {
	case TextEvent:
		if !utf8.Valid(ev.Text) {
			return 0, &UnexpectedValueError{Value: string(ev.Text)}
		}
		m.source.Write(ev.Text)
		return stateSource, nil
	case EndEvent:
		next, err := onEnd(ev, edge{"source", stateSources})
		if err != nil {
			return 0, err
		}
		m.doc.Sources = append(m.doc.Sources, coverage.Source{Path: strings.TrimSpace(m.source.String())})
		m.source.Reset()
		return next, nil
	}
	return 0, startOrEnd(ev, []string{"#text"}, "source")
}

func (m *machine) inPackages(ev Event) (state, error) {
	switch ev.Kind {
	case StartEvent, EmptyEvent:
		if ev.Name != "package" {
			return 0, &ExpectedStartError{Got: ev.Desc(), Expected: []string{"package"}}
		}
		v, err := packageAttrs.extract(ev.Attrs)
		if err != nil {
			return 0, err
		}
		m.pkg = coverage.Package{
			Name:       v.str("name"),
			LineRate:   v.f64("line-rate"),
			BranchRate: v.f64("branch-rate"),
			Complexity: v.f64("complexity"),
		}
		if ev.Kind == EmptyEvent {
			m.closePackage()
			return statePackages, nil
		}
		return statePackage, nil
	case EndEvent:
		return onEnd(ev, edge{"packages", stateCoverage})
	}
	return 0, startOrEnd(ev, []string{"package"}, "packages")
}

func (m *machine) closePackage() {
	m.doc.Packages = append(m.doc.Packages, m.pkg)
	m.pkg = coverage.Package{}
}

func (m *machine) inPackage(ev Event) (state, error) {
	switch ev.Kind {
	case StartEvent:
		return onStart(ev, edge{"classes", stateClasses})
	case EmptyEvent:
		return onStart(ev, edge{"classes", statePackage})
	case EndEvent:
		next, err := onEnd(ev, edge{"package", statePackages})
		if err != nil {
			return 0, err
		}
		m.closePackage()
		return next, nil
	}
	return 0, startOrEnd(ev, []string{"classes"}, "package")
}

func (m *machine) inClasses(ev Event) (state, error) {
	switch ev.Kind {
	case StartEvent, EmptyEvent:
		if ev.Name != "class" {
			return 0, &ExpectedStartError{Got: ev.Desc(), Expected: []string{"class"}}
		}
		v, err := classAttrs.extract(ev.Attrs)
		if err != nil {
			return 0, err
		}
		m.class = coverage.Class{
			Name:       v.str("name"),
			FileName:   v.str("filename"),
			LineRate:   v.f64("line-rate"),
			BranchRate: v.f64("branch-rate"),
			Complexity: v.f64("complexity"),
		}
		if ev.Kind == EmptyEvent {
			m.closeClass()
			return stateClasses, nil
		}
		return stateClass, nil
	case EndEvent:
		return onEnd(ev, edge{"classes", statePackage})
	}
	return 0, startOrEnd(ev, []string{"class"}, "classes")
}

func (m *machine) closeClass() {
	m.pkg.Classes = append(m.pkg.Classes, m.class)
	m.class = coverage.Class{}
}

func (m *machine) inClass(ev Event) (state, error) {
	switch ev.Kind {
	case StartEvent:
		return onStart(ev, edge{"methods", stateMethods}, edge{"lines", stateClassLines})
	case EmptyEvent:
		return onStart(ev, edge{"methods", stateClass}, edge{"lines", stateClass})
	case EndEvent:
		next, err := onEnd(ev, edge{"class", stateClasses})
		if err != nil {
			return 0, err
		}
		m.closeClass()
		return next, nil
	}
	return 0, startOrEnd(ev, []string{"methods", "lines"}, "class")
}

func (m *machine) inMethods(ev Event) (state, error) {
	switch ev.Kind {
	case StartEvent, EmptyEvent:
		if ev.Name != "method" {
			return 0, &ExpectedStartError{Got: ev.Desc(), Expected: []string{"method"}}
		}
		v, err := methodAttrs.extract(ev.Attrs)
		if err != nil {
			return 0, err
		}
		m.method = coverage.Method{
			Name:       v.str("name"),
			Signature:  v.str("signature"),
			LineRate:   v.f64("line-rate"),
			BranchRate: v.f64("branch-rate"),
		}
		if ev.Kind == EmptyEvent {
			m.closeMethod()
			return stateMethods, nil
		}
		return stateMethod, nil
	case EndEvent:
		return onEnd(ev, edge{"methods", stateClass})
	}
	return 0, startOrEnd(ev, []string{"method"}, "methods")
}

func (m *machine) closeMethod() {
	m.class.Methods = append(m.class.Methods, m.method)
	m.method = coverage.Method{}
}

func (m *machine) inMethod(ev Event) (state, error) {
	switch ev.Kind {
	case StartEvent:
		return onStart(ev, edge{"lines", stateMethodLines})
	case EmptyEvent:
		return onStart(ev, edge{"lines", stateMethod})
	case EndEvent:
		next, err := onEnd(ev, edge{"method", stateMethods})
		if err != nil {
			return 0, err
		}
		m.closeMethod()
		return next, nil
	}
	return 0, startOrEnd(ev, []string{"lines"}, "method")
}

// inLines handles both <lines> containers. A self-closing <line/> is
// appended at once; an open <line> is appended when it closes, after its
// conditions.
func (m *machine) inLines(ev Event, lines *[]coverage.Line, lineState, scope state) (state, error) {
	switch ev.Kind {
	case StartEvent, EmptyEvent:
		if ev.Name != "line" {
			return 0, &ExpectedStartError{Got: ev.Desc(), Expected: []string{"line"}}
		}
		v, err := lineAttrs.extract(ev.Attrs)
		if err != nil {
			return 0, err
		}
		m.line = coverage.Line{
			Number:            v.u64("number"),
			Hits:              v.u64("hits"),
			Branch:            v.flag("branch"),
			ConditionCoverage: v.optStr("condition-coverage"),
		}
		if ev.Kind == EmptyEvent {
			*lines = append(*lines, m.line)
			m.line = coverage.Line{}
			return m.state, nil
		}
		return lineState, nil
	case EndEvent:
		return onEnd(ev, edge{"lines", scope})
	}
	return 0, startOrEnd(ev, []string{"line"}, "lines")
}

func (m *machine) inLine(ev Event, lines *[]coverage.Line, conditionsState, linesState state) (state, error) {
	switch ev.Kind {
	case StartEvent:
		return onStart(ev, edge{"conditions", conditionsState})
	case EmptyEvent:
		return onStart(ev, edge{"conditions", m.state})
	case EndEvent:
		next, err := onEnd(ev, edge{"line", linesState})
		if err != nil {
			return 0, err
		}
		*lines = append(*lines, m.line)
		m.line = coverage.Line{}
		return next, nil
	}
	return 0, startOrEnd(ev, []string{"conditions"}, "line")
}

func (m *machine) inConditions(ev Event, lineState state) (state, error) {
	switch ev.Kind {
	case EmptyEvent:
		if ev.Name != "condition" {
			return 0, &ExpectedStartError{Got: ev.Desc(), Expected: []string{"condition"}}
		}
		v, err := conditionAttrs.extract(ev.Attrs)
		if err != nil {
			return 0, err
		}
		m.line.Conditions = append(m.line.Conditions, coverage.Condition{
			Number:   v.u64("number"),
			Type:     v.str("type"),
			Coverage: v.str("coverage"),
		})
		return m.state, nil
	case EndEvent:
		return onEnd(ev, edge{"conditions", lineState})
	}
	return 0, startOrEnd(ev, []string{"condition"}, "conditions")
}
