package lsp

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/geneweb/gw"
	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/dhamidi/geneweb/gw/parser"
)

// Workspace holds the parsed state of every gw document under a root
// directory and of the documents an editor has opened.
type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	opts    gw.Options
	docs    map[string]*Document
}

// Document is one parsed source. Genealogy is nil when the parse stopped
// on a critical error; Collector always holds the diagnostics.
type Document struct {
	Path      string
	Content   []byte
	Genealogy *gw.Genealogy
	Collector *diag.Collector
	Err       error
}

// NewWorkspace parses documents with opts. Strict mode is turned off: an
// editor wants every diagnostic, not the first.
func NewWorkspace(rootDir string, opts gw.Options) *Workspace {
	opts.Strict = false
	if opts.PatternCache == nil {
		opts.PatternCache = parser.NewPatternCache()
	}
	return &Workspace{
		rootDir: rootDir,
		opts:    opts,
		docs:    make(map[string]*Document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// IsSource reports whether path has a gw extension.
func IsSource(path string) bool {
	return gw.CheckExtension(path) == nil
}

// ScanAll parses every gw file under the root directory, skipping hidden
// directories.
func (w *Workspace) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			w.ScanFile(path)
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile reparses path from content and replaces its document.
func (w *Workspace) UpdateFile(path string, content []byte) *Document {
	opts := w.opts
	opts.Filename = path
	g, c, err := gw.Parse(bytes.NewReader(content), opts)

	doc := &Document{
		Path:      path,
		Content:   content,
		Genealogy: g,
		Collector: c,
		Err:       err,
	}
	if err != nil {
		lspLog.Warningf("%s: %v", path, err)
	} else {
		lspLog.Debugf("%s: %s", path, g.ValidationSummary())
	}

	w.mu.Lock()
	w.docs[path] = doc
	w.mu.Unlock()
	return doc
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[path]
}

// Paths returns the paths of all documents, sorted.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.docs))
	for p := range w.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// PersonsAt returns the persons first referenced on line (1-based) of
// path, in source order.
func (w *Workspace) PersonsAt(path string, line int) []*gw.Person {
	doc := w.GetFile(path)
	if doc == nil || doc.Genealogy == nil {
		return nil
	}
	var persons []*gw.Person
	for _, id := range doc.Genealogy.PersonIDs() {
		if p := doc.Genealogy.Person(id); p.Line == line {
			persons = append(persons, p)
		}
	}
	return persons
}

// FamilyAt returns the family whose block starts on line, or nil.
func (w *Workspace) FamilyAt(path string, line int) *gw.Family {
	doc := w.GetFile(path)
	if doc == nil || doc.Genealogy == nil {
		return nil
	}
	for _, id := range doc.Genealogy.FamilyIDs() {
		if f := doc.Genealogy.Family(id); f.Line == line {
			return f
		}
	}
	return nil
}
