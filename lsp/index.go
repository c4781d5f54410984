package lsp

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/cobertura/coverage"
)

// FileCoverage is the coverage recorded for one source file, merged across
// every class that names it.
type FileCoverage struct {
	FileName string
	Lines    map[uint64]coverage.Line
}

// Numbers returns the line numbers with coverage data in ascending order.
func (f *FileCoverage) Numbers() []uint64 {
	numbers := make([]uint64, 0, len(f.Lines))
	for n := range f.Lines {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}

// Index maps editor paths to report file names.
type Index struct {
	roots []string
	files map[string]*FileCoverage
}

// NewIndex indexes the class lines of doc. File names are resolved against
// the report's <sources> followed by extraRoots.
func NewIndex(doc *coverage.Document, extraRoots []string) *Index {
	ix := &Index{files: make(map[string]*FileCoverage)}
	for _, s := range doc.Sources {
		ix.roots = append(ix.roots, filepath.Clean(s.Path))
	}
	for _, r := range extraRoots {
		ix.roots = append(ix.roots, filepath.Clean(r))
	}

	for _, class := range doc.Classes() {
		key := filepath.ToSlash(filepath.Clean(class.FileName))
		fc, ok := ix.files[key]
		if !ok {
			fc = &FileCoverage{FileName: class.FileName, Lines: make(map[uint64]coverage.Line)}
			ix.files[key] = fc
		}
		for _, l := range class.Lines {
			if prev, ok := fc.Lines[l.Number]; ok && prev.Hits >= l.Hits {
				continue
			}
			fc.Lines[l.Number] = l
		}
	}
	return ix
}

func (ix *Index) Len() int {
	return len(ix.files)
}

// Lookup finds the coverage of the file at path. Paths under a source root
// are matched exactly; otherwise the longest report file name that is a
// path suffix of path wins.
func (ix *Index) Lookup(path string) (*FileCoverage, bool) {
	path = filepath.Clean(path)

	for _, root := range ix.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if fc, ok := ix.files[filepath.ToSlash(rel)]; ok {
			return fc, true
		}
	}

	slashed := filepath.ToSlash(path)
	var best *FileCoverage
	bestLen := 0
	for key, fc := range ix.files {
		if (slashed == key || strings.HasSuffix(slashed, "/"+key)) && len(key) > bestLen {
			best, bestLen = fc, len(key)
		}
	}
	return best, best != nil
}
