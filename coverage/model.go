// Package coverage holds the typed model of a Cobertura coverage report
// together with the aggregate arithmetic that consumers run over it.
package coverage

// Document is the root <coverage> element. Every numeric field is the value
// declared in the report; nothing here is recomputed while parsing.
type Document struct {
	LineRate        float64 `json:"line-rate" yaml:"line-rate"`
	BranchRate      float64 `json:"branch-rate" yaml:"branch-rate"`
	LinesCovered    uint64  `json:"lines-covered" yaml:"lines-covered"`
	LinesValid      uint64  `json:"lines-valid" yaml:"lines-valid"`
	BranchesCovered uint64  `json:"branches-covered" yaml:"branches-covered"`
	BranchesValid   uint64  `json:"branches-valid" yaml:"branches-valid"`
	Complexity      float64 `json:"complexity" yaml:"complexity"`
	Version         string  `json:"version" yaml:"version"`
	Timestamp       uint64  `json:"timestamp" yaml:"timestamp"`

	Sources  []Source  `json:"sources,omitempty" yaml:"sources,omitempty"`
	Packages []Package `json:"packages,omitempty" yaml:"packages,omitempty"`
}

// Source is a root directory the report's file names are relative to.
type Source struct {
	Path string `json:"path" yaml:"path"`
}

type Package struct {
	Name       string  `json:"name" yaml:"name"`
	LineRate   float64 `json:"line-rate" yaml:"line-rate"`
	BranchRate float64 `json:"branch-rate" yaml:"branch-rate"`
	Complexity float64 `json:"complexity" yaml:"complexity"`

	Classes []Class `json:"classes,omitempty" yaml:"classes,omitempty"`
}

type Class struct {
	Name       string  `json:"name" yaml:"name"`
	FileName   string  `json:"filename" yaml:"filename"`
	LineRate   float64 `json:"line-rate" yaml:"line-rate"`
	BranchRate float64 `json:"branch-rate" yaml:"branch-rate"`
	Complexity float64 `json:"complexity" yaml:"complexity"`

	Methods []Method `json:"methods,omitempty" yaml:"methods,omitempty"`
	Lines   []Line   `json:"lines,omitempty" yaml:"lines,omitempty"`
}

type Method struct {
	Name       string  `json:"name" yaml:"name"`
	Signature  string  `json:"signature" yaml:"signature"`
	LineRate   float64 `json:"line-rate" yaml:"line-rate"`
	BranchRate float64 `json:"branch-rate" yaml:"branch-rate"`

	Lines []Line `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// Line is a single source line. ConditionCoverage is nil when the report
// carries no condition-coverage attribute; when present it is usually of the
// form "50% (1/2)".
type Line struct {
	Number            uint64  `json:"number" yaml:"number"`
	Hits              uint64  `json:"hits" yaml:"hits"`
	Branch            bool    `json:"branch" yaml:"branch"`
	ConditionCoverage *string `json:"condition-coverage,omitempty" yaml:"condition-coverage,omitempty"`

	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Condition is one branch outcome recorded for a line, e.g. {Type: "jump",
// Coverage: "50%"}.
type Condition struct {
	Number   uint64 `json:"number" yaml:"number"`
	Type     string `json:"type" yaml:"type"`
	Coverage string `json:"coverage" yaml:"coverage"`
}

// Covered reports whether the line was executed at least once.
func (l *Line) Covered() bool {
	return l.Hits > 0
}
