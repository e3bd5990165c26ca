// Package apispec models the subset of an OpenAPI document that the
// geoaddress service reads at request time.
//
// The document is treated as trusted, possibly partial input: every accessor
// degrades to a zero value when a field is missing or has an unexpected
// shape. Nothing here validates the specification; presence is the only
// thing defended against.
package apispec

import (
	"github.com/goccy/go-yaml"

	"github.com/openoda/geoaddress/internal/ordered"
)

// Document is a parsed API specification. A nil *Document is valid and
// behaves like an empty specification.
type Document struct {
	root *ordered.Map
}

// Server is one entry of the specification's servers sequence.
type Server struct {
	URL string
}

// Operation is one HTTP-method-bound action in the specification's paths.
type Operation struct {
	raw *ordered.Map
}

// Parse decodes a specification from YAML or JSON bytes, preserving the
// document's own key order.
func Parse(data []byte) (*Document, error) {
	root := ordered.New()
	if err := yaml.Unmarshal(data, root); err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Root returns the underlying ordered document, or nil.
func (d *Document) Root() *ordered.Map {
	if d == nil {
		return nil
	}
	return d.root
}

// Info returns the specification's info mapping in document order.
// Never nil; an absent or malformed info degrades to an empty mapping.
func (d *Document) Info() *ordered.Map {
	if m := d.Root().GetMap("info"); m != nil {
		return m
	}
	return ordered.New()
}

// Paths returns the specification's paths mapping in document order.
// Never nil.
func (d *Document) Paths() *ordered.Map {
	if m := d.Root().GetMap("paths"); m != nil {
		return m
	}
	return ordered.New()
}

// Servers returns the specification's servers sequence. Entries without a
// string url are kept with an empty URL so ordering stays intact.
func (d *Document) Servers() []Server {
	v, ok := d.Root().Get("servers")
	if !ok {
		return nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil
	}

	servers := make([]Server, 0, len(seq))
	for _, entry := range seq {
		m, _ := entry.(*ordered.Map)
		servers = append(servers, Server{URL: m.GetString("url")})
	}
	return servers
}

// BasePath returns the legacy Swagger 2.0 basePath field, or "".
func (d *Document) BasePath() string {
	return d.Root().GetString("basePath")
}

// OperationAt returns the operation for a path and method key, or a zero
// Operation when the entry is missing or not a mapping.
func (d *Document) OperationAt(path, method string) Operation {
	return Operation{raw: d.Paths().GetMap(path).GetMap(method)}
}

// MarshalJSON serializes the document in its original key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil || d.root == nil {
		return []byte("{}"), nil
	}
	return d.root.MarshalJSON()
}

// OperationID returns the operation's operationId, or "".
func (o Operation) OperationID() string {
	return o.raw.GetString("operationId")
}

// Summary returns the operation's summary, or "".
func (o Operation) Summary() string {
	return o.raw.GetString("summary")
}

// Description returns the operation's description, or "".
func (o Operation) Description() string {
	return o.raw.GetString("description")
}

// Tags returns the operation's tag sequence verbatim, or nil.
func (o Operation) Tags() []any {
	v, ok := o.raw.Get("tags")
	if !ok {
		return nil
	}
	seq, _ := v.([]any)
	return seq
}

// Defined reports whether the operation exists as a mapping in the document.
func (o Operation) Defined() bool {
	return o.raw != nil
}
