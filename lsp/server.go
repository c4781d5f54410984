// Package lsp is a language server that overlays a Cobertura report on the
// files open in an editor: uncovered and partially covered lines are
// published as diagnostics and hovering a line shows its hit count.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/cobertura/parser"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "cobertura"

func logger() commonlog.Logger {
	return commonlog.GetLogger("cobertura.lsp")
}

type Server struct {
	version    string
	reportPath string
	sources    []string
	handler    protocol.Handler
	server     *server.Server

	mu     sync.Mutex
	index  *Index
	open   map[string]string // URI to text
	report string            // resolved report path
}

// NewServer serves the report at reportPath. A relative path is resolved
// against the workspace root sent by the client. sources adds roots to the
// <sources> listed in the report.
func NewServer(version, reportPath string, sources []string) *Server {
	ls := &Server{
		version:    version,
		reportPath: reportPath,
		sources:    sources,
		index:      &Index{files: map[string]*FileCoverage{}},
		open:       make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

// Load parses the report and replaces the index.
func (ls *Server) Load(path string) error {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	index := NewIndex(doc, ls.sources)

	ls.mu.Lock()
	ls.index = index
	ls.report = filepath.Clean(path)
	ls.mu.Unlock()

	logger().Infof("loaded %s: %d files", path, index.Len())
	return nil
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	path := ls.reportPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}
	if err := ls.Load(path); err != nil {
		return nil, fmt.Errorf("load coverage report: %w", err)
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	ls.mu.Lock()
	ls.open[uri] = params.TextDocument.Text
	ls.mu.Unlock()

	ls.publish(ctx, uri)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.mu.Lock()
		ls.open[params.TextDocument.URI] = whole.Text
		ls.mu.Unlock()
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.open, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

// textDocumentDidSave republishes the saved document. Saving the report
// itself reloads it and refreshes every open document.
func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}

	ls.mu.Lock()
	if params.Text != nil {
		ls.open[uri] = *params.Text
	}
	report := ls.report
	ls.mu.Unlock()

	if path != report {
		ls.publish(ctx, uri)
		return nil
	}

	if err := ls.Load(report); err != nil {
		logger().Errorf("reload %s: %v", report, err)
		return nil
	}
	for _, uri := range ls.openURIs() {
		ls.publish(ctx, uri)
	}
	return nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	fc, ok := ls.lookup(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	l, ok := fc.Lines[uint64(params.Position.Line)+1]
	if !ok {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: HoverText(l),
		},
	}, nil
}

func (ls *Server) lookup(uri string) (*FileCoverage, bool) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, false
	}
	ls.mu.Lock()
	index := ls.index
	ls.mu.Unlock()
	return index.Lookup(path)
}

func (ls *Server) openURIs() []string {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	uris := make([]string, 0, len(ls.open))
	for uri := range ls.open {
		uris = append(uris, uri)
	}
	return uris
}

// publish sends the diagnostics of one document. Documents without coverage
// get an empty list so stale diagnostics are cleared.
func (ls *Server) publish(ctx *glsp.Context, uri string) {
	diagnostics := []protocol.Diagnostic{}
	if fc, ok := ls.lookup(uri); ok {
		ls.mu.Lock()
		text := ls.open[uri]
		ls.mu.Unlock()
		diagnostics = Diagnostics(fc, text)
	}

	logger().Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)
	ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
