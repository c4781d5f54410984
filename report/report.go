// Package report renders coverage documents as HTML: an index of packages
// and classes plus one page per class. The same renderer backs the static
// site written by WriteSite and the live server in package ui.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/goccy/go-json"
	"github.com/tliron/commonlog"
)

//go:embed static all:templates
var embeddedFS embed.FS

func logger() commonlog.Logger {
	return commonlog.GetLogger("cobertura.report")
}

type Options struct {
	Title string

	// ClassURL turns a page name into the link used on the index. The
	// static site links to "<name>.html".
	ClassURL func(page string) string
	// IndexURL and ScriptURL are linked from class pages.
	IndexURL  string
	ScriptURL string

	// TemplateDir, when set, is searched for templates before the embedded
	// copies so they can be edited without rebuilding.
	TemplateDir string
}

func (o *Options) setDefaults() {
	if o.Title == "" {
		o.Title = "Coverage Report"
	}
	if o.ClassURL == nil {
		o.ClassURL = func(page string) string { return page + ".html" }
	}
	if o.IndexURL == "" {
		o.IndexURL = "index.html"
	}
	if o.ScriptURL == "" {
		o.ScriptURL = "class.js"
	}
}

type Renderer struct {
	opts      Options
	templates *template.Template
}

func New(opts Options) (*Renderer, error) {
	opts.setDefaults()

	templateFS := mustSub(embeddedFS, "templates")
	if opts.TemplateDir != "" {
		templateFS = overlayFS(opts.TemplateDir, templateFS)
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{opts: opts, templates: tmpl}, nil
}

func (r *Renderer) Options() Options {
	return r.opts
}

// Script returns the class page script served next to the pages.
func Script() []byte {
	data, err := fs.ReadFile(embeddedFS, "static/class.js")
	if err != nil {
		panic(err)
	}
	return data
}

var funcMap = template.FuncMap{
	"stats": func(s coverage.Stats) string {
		if s.Valid == 0 {
			return "-"
		}
		return fmt.Sprintf("%.1f%% (%d/%d)", s.Rate()*100, s.Covered, s.Valid)
	},
	"percent": func(rate float64) string {
		return fmt.Sprintf("%.1f%%", rate*100)
	},
	"bar": func(s coverage.Stats) template.HTML {
		return template.HTML(fmt.Sprintf(`<span class="bar"><span style="width: %.1f%%"></span></span>`, s.Rate()*100))
	},
	"lineClass": func(l coverage.Line) string {
		switch {
		case !l.Covered():
			return "miss"
		case !l.FullyCovered():
			return "partial"
		default:
			return "hit"
		}
	},
	"condition": func(l coverage.Line) string {
		if l.ConditionCoverage == nil {
			return ""
		}
		return *l.ConditionCoverage
	},
}

type indexData struct {
	Title    string
	LineRate float64
	Sources  []coverage.Source
	Lines    coverage.Stats
	Branches coverage.Stats
	Packages []packageRow
}

type packageRow struct {
	Name     string
	Lines    coverage.Stats
	Branches coverage.Stats
	Classes  []classRow
}

type classRow struct {
	Name     string
	FileName string
	URL      string
	Lines    coverage.Stats
	Branches coverage.Stats
}

func (r *Renderer) RenderIndex(w io.Writer, doc *coverage.Document) error {
	data := indexData{
		Title:    r.opts.Title,
		LineRate: doc.LineRate,
		Sources:  doc.Sources,
		Lines:    doc.LineStats(),
		Branches: doc.BranchStats(),
	}

	rows := make(map[*coverage.Package]int)
	for _, page := range Pages(doc) {
		i, ok := rows[page.Package]
		if !ok {
			i = len(data.Packages)
			rows[page.Package] = i
			data.Packages = append(data.Packages, packageRow{
				Name:     page.Package.Name,
				Lines:    page.Package.LineStats(),
				Branches: page.Package.BranchStats(),
			})
		}
		data.Packages[i].Classes = append(data.Packages[i].Classes, classRow{
			Name:     page.Class.Name,
			FileName: page.Class.FileName,
			URL:      r.opts.ClassURL(page.Name),
			Lines:    page.Class.LineStats(),
			Branches: page.Class.BranchStats(),
		})
	}

	if err := r.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return nil
}

type classPage struct {
	Title     string
	Package   string
	Class     *coverage.Class
	Lines     coverage.Stats
	Branches  coverage.Stats
	Data      template.JS
	IndexURL  string
	ScriptURL string
}

// MethodSummary is the per-method payload embedded in class pages as
// classData. Coverage values are percentages.
type MethodSummary struct {
	Name           string  `json:"name"`
	Signature      string  `json:"signature"`
	LineCoverage   float64 `json:"line_coverage"`
	BranchCoverage float64 `json:"branch_coverage"`
}

type ClassData struct {
	Methods []MethodSummary `json:"methods"`
}

func NewClassData(class *coverage.Class) ClassData {
	data := ClassData{Methods: make([]MethodSummary, len(class.Methods))}
	for i, m := range class.Methods {
		data.Methods[i] = MethodSummary{
			Name:           m.Name,
			Signature:      m.Signature,
			LineCoverage:   m.LineRate * 100,
			BranchCoverage: m.BranchRate * 100,
		}
	}
	return data
}

func (r *Renderer) RenderClass(w io.Writer, pkg *coverage.Package, class *coverage.Class) error {
	payload, err := json.Marshal(NewClassData(class))
	if err != nil {
		return fmt.Errorf("encode class data: %w", err)
	}

	data := classPage{
		Title:     r.opts.Title,
		Package:   pkg.Name,
		Class:     class,
		Lines:     class.LineStats(),
		Branches:  class.BranchStats(),
		Data:      template.JS(payload),
		IndexURL:  r.opts.IndexURL,
		ScriptURL: r.opts.ScriptURL,
	}
	if err := r.templates.ExecuteTemplate(w, "class.html", data); err != nil {
		return fmt.Errorf("render class %s: %w", class.Name, err)
	}
	return nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

// Glob lets template.ParseFS see files that exist in either layer.
func (o *overlayFSType) Glob(pattern string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, fsys := range []fs.FS{o.secondary, o.primary} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}
	return names, nil
}
