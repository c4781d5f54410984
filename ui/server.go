// Package ui serves a parsed coverage report over HTTP.
package ui

import (
	"net/http"
	"strings"
	"sync"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/dhamidi/cobertura/format"
	"github.com/dhamidi/cobertura/report"
	"github.com/tliron/commonlog"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("cobertura.ui")
}

type Server struct {
	renderer *report.Renderer
	mux      *http.ServeMux

	mu    sync.RWMutex
	doc   *coverage.Document
	pages map[string]report.Page
}

// NewServer serves doc. The renderer's links should point at this server's
// routes; NewRenderer builds one that does.
func NewServer(doc *coverage.Document, renderer *report.Renderer) *Server {
	s := &Server{
		renderer: renderer,
		mux:      http.NewServeMux(),
	}
	s.SetDocument(doc)

	s.mux.HandleFunc("GET /static/class.js", s.handleScript)
	s.mux.HandleFunc("GET /coverage.json", s.handleJSON)
	s.mux.HandleFunc("GET /c/{page...}", s.handleClass)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s
}

// NewRenderer returns a report renderer whose links match the server routes.
func NewRenderer(title, templateDir string) (*report.Renderer, error) {
	return report.New(report.Options{
		Title:       title,
		ClassURL:    func(page string) string { return "/c/" + page },
		IndexURL:    "/",
		ScriptURL:   "/static/class.js",
		TemplateDir: templateDir,
	})
}

// SetDocument replaces the served document, e.g. after the report file was
// rewritten.
func (s *Server) SetDocument(doc *coverage.Document) {
	pages := make(map[string]report.Page)
	for _, p := range report.Pages(doc) {
		pages[p.Name] = p
	}

	s.mu.Lock()
	s.doc = doc
	s.pages = pages
	s.mu.Unlock()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger().Debugf("%s %s", r.Method, r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) snapshot() (*coverage.Document, map[string]report.Page) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.pages
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	doc, _ := s.snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderIndex(w, doc); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleClass(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(r.PathValue("page"), ".html")
	_, pages := s.snapshot()

	page, ok := pages[name]
	if !ok {
		http.Error(w, "class not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderClass(w, page.Package, page.Class); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write(report.Script())
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	doc, _ := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := format.NewJSONEncoder(w).Encode(doc); err != nil {
		logger().Errorf("encode coverage.json: %v", err)
	}
}
