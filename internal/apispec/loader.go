package apispec

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
)

// Loader reads the API specification file once and keeps the parsed
// document resident for the lifetime of the process. Document is the
// zero-argument accessor the discovery responder consumes.
type Loader struct {
	path   string
	logger *zerolog.Logger
	doc    atomic.Pointer[Document]
	raw    atomic.Pointer[[]byte]
}

// NewLoader creates a loader for the specification file at path.
func NewLoader(path string, logger *zerolog.Logger) *Loader {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Loader{path: path, logger: logger}
}

// Load reads and parses the specification file. On failure the previously
// loaded document (if any) stays resident.
func (l *Loader) Load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("reading specification %s: %w", l.path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return fmt.Errorf("parsing specification %s: %w", l.path, err)
	}

	l.raw.Store(&data)
	l.doc.Store(doc)

	l.logger.Info().
		Str("path", l.path).
		Int("paths", doc.Paths().Len()).
		Msg("API specification loaded")
	return nil
}

// Document returns the current in-memory specification, or nil when no
// specification has been loaded. Callers must tolerate nil.
func (l *Loader) Document() *Document {
	return l.doc.Load()
}

// Raw returns the specification file bytes as read from disk, or nil.
func (l *Loader) Raw() []byte {
	if data := l.raw.Load(); data != nil {
		return *data
	}
	return nil
}

// JSON renders the loaded specification as indented JSON in document key
// order, regardless of whether the source file was YAML or JSON.
func (l *Loader) JSON() ([]byte, error) {
	doc := l.Document()
	if doc == nil {
		return nil, fmt.Errorf("specification not loaded")
	}
	return json.MarshalIndent(doc, "", "  ")
}

// YAML renders the loaded specification as YAML in document key order.
func (l *Loader) YAML() ([]byte, error) {
	doc := l.Document()
	if doc == nil {
		return nil, fmt.Errorf("specification not loaded")
	}
	return yaml.Marshal(doc.Root())
}
