package coverage

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// Stats is a covered/valid pair recomputed from the lines of a report.
type Stats struct {
	Covered uint64
	Valid   uint64
}

// Rate returns Covered/Valid, or 0 when there is nothing to cover.
func (s Stats) Rate() float64 {
	if s.Valid == 0 {
		return 0
	}
	return float64(s.Covered) / float64(s.Valid)
}

func (s Stats) add(o Stats) Stats {
	return Stats{Covered: s.Covered + o.Covered, Valid: s.Valid + o.Valid}
}

// Lines yields every class-level line of the document in report order.
// Method lines duplicate class lines in Cobertura output and are skipped.
func (d *Document) Lines() iter.Seq[*Line] {
	return func(yield func(*Line) bool) {
		for pi := range d.Packages {
			for ci := range d.Packages[pi].Classes {
				lines := d.Packages[pi].Classes[ci].Lines
				for li := range lines {
					if !yield(&lines[li]) {
						return
					}
				}
			}
		}
	}
}

// Classes yields every class of the document together with its package.
func (d *Document) Classes() iter.Seq2[*Package, *Class] {
	return func(yield func(*Package, *Class) bool) {
		for pi := range d.Packages {
			pkg := &d.Packages[pi]
			for ci := range pkg.Classes {
				if !yield(pkg, &pkg.Classes[ci]) {
					return
				}
			}
		}
	}
}

func (d *Document) LineStats() Stats {
	var s Stats
	for l := range d.Lines() {
		s.Valid++
		if l.Covered() {
			s.Covered++
		}
	}
	return s
}

func (d *Document) BranchStats() Stats {
	var s Stats
	for l := range d.Lines() {
		s = s.add(l.BranchStats())
	}
	return s
}

func (p *Package) LineStats() Stats {
	var s Stats
	for i := range p.Classes {
		s = s.add(p.Classes[i].LineStats())
	}
	return s
}

func (p *Package) BranchStats() Stats {
	var s Stats
	for i := range p.Classes {
		s = s.add(p.Classes[i].BranchStats())
	}
	return s
}

func (c *Class) LineStats() Stats {
	return linesStats(c.Lines)
}

func (c *Class) BranchStats() Stats {
	var s Stats
	for i := range c.Lines {
		s = s.add(c.Lines[i].BranchStats())
	}
	return s
}

func linesStats(lines []Line) Stats {
	s := Stats{Valid: uint64(len(lines))}
	for i := range lines {
		if lines[i].Covered() {
			s.Covered++
		}
	}
	return s
}

// BranchStats extracts the "(covered/valid)" counts from the line's
// condition-coverage attribute. Lines without a parseable attribute count as
// zero branches.
func (l *Line) BranchStats() Stats {
	if !l.Branch || l.ConditionCoverage == nil {
		return Stats{}
	}
	s, ok := ParseConditionCoverage(*l.ConditionCoverage)
	if !ok {
		return Stats{}
	}
	return s
}

// FullyCovered reports whether every branch outcome of the line was taken.
// Non-branch lines are fully covered when they were hit.
func (l *Line) FullyCovered() bool {
	if !l.Covered() {
		return false
	}
	s := l.BranchStats()
	return s.Covered == s.Valid
}

// ParseConditionCoverage reads values such as "50% (1/2)".
func ParseConditionCoverage(v string) (Stats, bool) {
	open := strings.IndexByte(v, '(')
	closing := strings.LastIndexByte(v, ')')
	if open < 0 || closing < open {
		return Stats{}, false
	}
	covered, valid, ok := strings.Cut(v[open+1:closing], "/")
	if !ok {
		return Stats{}, false
	}
	c, err := strconv.ParseUint(strings.TrimSpace(covered), 10, 64)
	if err != nil {
		return Stats{}, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(valid), 10, 64)
	if err != nil || c > n {
		return Stats{}, false
	}
	return Stats{Covered: c, Valid: n}, true
}

// RateMismatchError reports a declared rate that disagrees with the rate
// recomputed from the report's lines.
type RateMismatchError struct {
	Declared  float64
	Computed  float64
	Tolerance float64
	Stats     Stats
}

func (e *RateMismatchError) Error() string {
	return fmt.Sprintf("declared line-rate %.4f does not match computed %.4f (%d/%d lines, tolerance %g)",
		e.Declared, e.Computed, e.Stats.Covered, e.Stats.Valid, e.Tolerance)
}

// CheckLineRate recomputes the line coverage of d and compares it with the
// declared line-rate. Rates in reports are rounded, so equality is never
// exact; tol is the accepted absolute difference.
func (d *Document) CheckLineRate(tol float64) error {
	stats := d.LineStats()
	computed := stats.Rate()
	if math.Abs(computed-d.LineRate) <= tol {
		return nil
	}
	return &RateMismatchError{
		Declared:  d.LineRate,
		Computed:  computed,
		Tolerance: tol,
		Stats:     stats,
	}
}

// ThresholdError reports coverage below a required minimum.
type ThresholdError struct {
	Rate float64
	Min  float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("line coverage %.2f%% is below the required %.2f%%", e.Rate*100, e.Min*100)
}

// CheckThreshold fails when rate is below min. Both are ratios in [0, 1].
func CheckThreshold(rate, min float64) error {
	if rate < min {
		return &ThresholdError{Rate: rate, Min: min}
	}
	return nil
}
