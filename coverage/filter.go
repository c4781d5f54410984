package coverage

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter selects classes by their file name using doublestar globs such as
// "src/main/**/*.java". An empty Include keeps every class.
type Filter struct {
	Include []string
	Exclude []string
}

func (f Filter) Empty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

// Validate reports the first malformed pattern.
func (f Filter) Validate() error {
	for _, p := range f.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid include pattern %q", p)
		}
	}
	for _, p := range f.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// Match reports whether a class file name passes the filter.
func (f Filter) Match(fileName string) bool {
	if len(f.Include) > 0 && !matchAny(f.Include, fileName) {
		return false
	}
	return !matchAny(f.Exclude, fileName)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Apply returns a copy of doc keeping only the matching classes. Packages
// are kept even when all of their classes are dropped, so package order and
// declared package rates stay visible. The input is not modified.
func (f Filter) Apply(doc *Document) *Document {
	out := *doc
	if f.Empty() {
		return &out
	}
	out.Packages = make([]Package, len(doc.Packages))
	for i, pkg := range doc.Packages {
		kept := make([]Class, 0, len(pkg.Classes))
		for _, c := range pkg.Classes {
			if f.Match(c.FileName) {
				kept = append(kept, c)
			}
		}
		pkg.Classes = kept
		out.Packages[i] = pkg
	}
	return &out
}
