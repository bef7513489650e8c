// Package lsp is a language server for gw files. It publishes the parser's
// diagnostics, lists families and persons as document symbols and shows
// what the builder made of a line on hover.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhamidi/geneweb/gw"
	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "gwparse"

var lspLog = commonlog.GetLogger("geneweb.lsp")

type Server struct {
	opts    gw.Options
	version string
	poll    time.Duration

	handler protocol.Handler
	server  *server.Server

	ws      *Workspace
	watcher *Watcher

	mu     sync.Mutex
	open   map[string]bool
	notify glsp.NotifyFunc
}

// NewServer returns a server that parses with opts. A positive poll
// interval also watches the workspace root for changes made outside the
// editor.
func NewServer(version string, opts gw.Options, poll time.Duration) *Server {
	s := &Server{
		opts:    opts,
		version: version,
		poll:    poll,
		open:    make(map[string]bool),
	}

	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentDidSave:        s.textDocumentDidSave,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentHover:          s.textDocumentHover,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	s.ws = NewWorkspace(rootDir, s.opts)

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.mu.Lock()
	s.notify = ctx.Notify
	s.mu.Unlock()

	lspLog.Infof("serving %s", s.ws.RootDir())
	if err := s.ws.ScanAll(); err != nil {
		lspLog.Warningf("scan %s: %v", s.ws.RootDir(), err)
	}
	for _, path := range s.ws.Paths() {
		s.publish(s.ws.GetFile(path))
	}
	if s.poll <= 0 {
		return nil
	}
	s.watcher = NewWatcher(s.ws, s.poll)
	s.watcher.onChange = s.publish
	s.watcher.onRemove = func(path string) {
		s.send(protocol.PublishDiagnosticsParams{URI: pathToURI(path), Diagnostics: []protocol.Diagnostic{}})
	}
	s.watcher.isOpen = s.isOpen
	s.watcher.Start()
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) isOpen(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[path]
}

func (s *Server) setOpen(path string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.open[path] = true
	} else {
		delete(s.open, path)
	}
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.setOpen(path, true)
	s.publish(s.ws.UpdateFile(path, []byte(params.TextDocument.Text)))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.publish(s.ws.UpdateFile(path, []byte(whole.Text)))
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.setOpen(path, false)
	if doc, err := s.ws.ScanFile(path); err == nil {
		s.publish(doc)
	} else {
		s.ws.RemoveFile(path)
		s.send(protocol.PublishDiagnosticsParams{URI: params.TextDocument.URI, Diagnostics: []protocol.Diagnostic{}})
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		s.publish(s.ws.UpdateFile(path, []byte(*params.Text)))
	} else if doc, err := s.ws.ScanFile(path); err == nil {
		s.publish(doc)
	}
	return nil
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := s.ws.GetFile(path)
	if doc == nil {
		return nil, nil
	}
	return Symbols(doc), nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	text := HoverText(s.ws, path, int(params.Position.Line)+1)
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}, nil
}

func (s *Server) publish(doc *Document) {
	s.send(protocol.PublishDiagnosticsParams{
		URI:         pathToURI(doc.Path),
		Diagnostics: Diagnostics(doc),
	})
}

func (s *Server) send(params protocol.PublishDiagnosticsParams) {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// Diagnostics converts the collector of doc. Positions are 0-based in the
// protocol and 1-based in diag.
func Diagnostics(doc *Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc.Collector != nil {
		for _, e := range doc.Collector.Errors() {
			diagnostics = append(diagnostics, diagnostic(doc.Content, e))
		}
	}
	if len(diagnostics) == 0 && doc.Err != nil {
		severity := protocol.DiagnosticSeverityError
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Severity: &severity,
			Source:   &source,
			Message:  doc.Err.Error(),
		})
	}
	return diagnostics
}

func diagnostic(content []byte, e *diag.Error) protocol.Diagnostic {
	line, col := e.Line, e.Column
	if line == 0 && e.Kind == diag.KindEncoding {
		line, col = lineColumn(content, e.Offset)
	}
	start := protocol.Position{Line: clamp(line - 1), Character: clamp(col - 1)}
	end := start
	if e.Found != "" && col > 0 {
		end.Character += protocol.UInteger(len(e.Found))
	} else {
		end = protocol.Position{Line: start.Line + 1}
	}

	msg := *e
	msg.File, msg.Line = "", 0
	severity := severityOf(e.Severity)
	source := lsName
	code := protocol.IntegerOrString{Value: e.Kind.String()}
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Code:     &code,
		Source:   &source,
		Message:  msg.Error(),
	}
}

func severityOf(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityError
	}
}

// lineColumn turns a byte offset into a 1-based line and column.
func lineColumn(content []byte, offset int) (int, int) {
	if offset > len(content) {
		offset = len(content)
	}
	line, col := 1, 1
	for _, ch := range content[:offset] {
		if ch == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func clamp(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n)
}

// Symbols lists the families of doc, each with its spouses and children as
// child symbols.
func Symbols(doc *Document) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	g := doc.Genealogy
	if g == nil {
		return symbols
	}
	for _, id := range g.FamilyIDs() {
		f := g.Family(id)
		r := lineRange(f.Line)
		detail := string(f.Status)
		sym := protocol.DocumentSymbol{
			Name:           familyName(g, f),
			Detail:         &detail,
			Kind:           protocol.SymbolKindNamespace,
			Range:          r,
			SelectionRange: r,
		}
		members := []string{f.HusbandID, f.WifeID}
		members = append(members, f.ChildIDs()...)
		for _, pid := range members {
			p := g.Person(pid)
			if p == nil {
				continue
			}
			pr := lineRange(p.Line)
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           p.FullName(),
				Detail:         &p.ID,
				Kind:           protocol.SymbolKindClass,
				Range:          pr,
				SelectionRange: pr,
			})
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

func familyName(g *gw.Genealogy, f *gw.Family) string {
	name := func(id string) string {
		if p := g.Person(id); p != nil {
			return p.FullName()
		}
		return "?"
	}
	return fmt.Sprintf("%s %s + %s", f.ID, name(f.HusbandID), name(f.WifeID))
}

func lineRange(line int) protocol.Range {
	start := protocol.Position{Line: clamp(line - 1)}
	return protocol.Range{Start: start, End: protocol.Position{Line: start.Line + 1}}
}

// HoverText describes the family and persons that line of path
// introduces, as Markdown.
func HoverText(ws *Workspace, path string, line int) string {
	var sb strings.Builder
	if f := ws.FamilyAt(path, line); f != nil {
		fmt.Fprintf(&sb, "**%s** %s", f.ID, f.Status)
		if f.Marriage.Date != nil {
			fmt.Fprintf(&sb, ", married %s", f.Marriage.Date.Display())
		}
		if n := len(f.Children); n > 0 {
			fmt.Fprintf(&sb, ", %d children", n)
		}
		if !f.Valid {
			sb.WriteString(" (invalid)")
		}
		sb.WriteString("\n\n")
	}
	for _, p := range ws.PersonsAt(path, line) {
		fmt.Fprintf(&sb, "- **%s** `%s` %s", p.FullName(), p.ID, p.Sex)
		if p.Birth.Date != nil {
			fmt.Fprintf(&sb, ", born %s", p.Birth.Date.Display())
		}
		if p.Death.Date != nil {
			fmt.Fprintf(&sb, ", died %s", p.Death.Date.Display())
		}
		if !p.Valid {
			sb.WriteString(" (invalid)")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
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

func pathToURI(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
