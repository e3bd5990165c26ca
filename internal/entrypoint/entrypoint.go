// Package entrypoint builds the discovery document served at the service
// root. The document enumerates every operation the loaded API
// specification exposes as a flat set of named hypermedia links, following
// the TMF630 REST guidelines for component entry points.
package entrypoint

import (
	"strings"

	"github.com/openoda/geoaddress/internal/apispec"
	"github.com/openoda/geoaddress/internal/ordered"
)

const (
	// DefaultBasePath anchors the links when the specification names
	// neither servers nor a basePath.
	DefaultBasePath = "/tmf-api/geographicAddressManagement/v4"

	// DefaultComponentName and DefaultReleaseName identify the process
	// when the deployment sets neither.
	DefaultComponentName = "geographicaddress"
	DefaultReleaseName   = "tmf673"

	swaggerUISuffix = "/docs/"
	openapiSuffix   = "/openapi.json"

	statusRunning   = "running"
	fallbackVersion = "unknown"
)

// Identity is the static process identity surfaced in the self link.
type Identity struct {
	ComponentName string
	ReleaseName   string
}

// DefaultIdentity returns the compiled-in identity defaults.
func DefaultIdentity() Identity {
	return Identity{
		ComponentName: DefaultComponentName,
		ReleaseName:   DefaultReleaseName,
	}
}

// Builder constructs discovery documents. It holds only static identity,
// so a single Builder is safe for concurrent requests.
type Builder struct {
	identity Identity
}

// NewBuilder creates a Builder, filling empty identity fields with the
// compiled-in defaults.
func NewBuilder(identity Identity) *Builder {
	if identity.ComponentName == "" {
		identity.ComponentName = DefaultComponentName
	}
	if identity.ReleaseName == "" {
		identity.ReleaseName = DefaultReleaseName
	}
	return &Builder{identity: identity}
}

// Build assembles the discovery document for the given specification.
// doc may be nil or partial; every field access degrades to a default.
// The specification is never mutated.
func (b *Builder) Build(doc *apispec.Document) *ordered.Map {
	base := resolveBasePath(doc)

	links := ordered.New()
	links.Set("self", b.selfLink(doc, base))

	paths := doc.Paths()
	for _, path := range paths.Keys() {
		item := paths.GetMap(path)
		if item == nil {
			continue
		}
		for _, method := range item.Keys() {
			op := doc.OperationAt(path, method)
			id := op.OperationID()
			if id == "" {
				// Operations without an operationId cannot be named in a
				// flat link mapping and are skipped.
				continue
			}
			// A duplicate operationId overwrites the earlier link in
			// place; the last definition in document order wins.
			links.Set(id, operationLink(op, base, path, method))
		}
	}

	out := ordered.New()
	out.Set("_links", links)
	return out
}

// selfLink builds the self entry: the explicit field set first, then any
// additional info keys merged in document order. Explicit fields are never
// shadowed by specification content.
func (b *Builder) selfLink(doc *apispec.Document, base string) *ordered.Map {
	info := doc.Info()

	self := ordered.New()
	self.Set("href", base)
	self.Set("id", b.identity.ComponentName)
	self.Set("name", b.identity.ReleaseName)
	self.Set("status", statusRunning)
	self.Set("version", stringOr(info.GetString("version"), fallbackVersion))
	self.Set("title", stringOr(info.GetString("title"), b.identity.ComponentName))
	self.Set("description", info.GetString("description"))
	self.Set("swagger-ui", toolingHref(base, swaggerUISuffix))
	self.Set("openapi", toolingHref(base, openapiSuffix))

	self.Fill(info)
	return self
}

// operationLink builds one operation entry.
func operationLink(op apispec.Operation, base, path, method string) *ordered.Map {
	entry := ordered.New()
	entry.Set("href", joinPath(base, path))
	entry.Set("method", strings.ToUpper(method))
	entry.Set("description", stringOr(op.Description(), op.Summary()))
	entry.Set("operationId", op.OperationID())
	if tags := op.Tags(); len(tags) > 0 {
		entry.Set("tags", tags)
	}
	return entry
}

// resolveBasePath picks the link base, first present wins:
// servers[0].url, then the legacy basePath, then the hard default.
func resolveBasePath(doc *apispec.Document) string {
	if servers := doc.Servers(); len(servers) > 0 && servers[0].URL != "" {
		return servers[0].URL
	}
	if base := doc.BasePath(); base != "" {
		return base
	}
	return DefaultBasePath
}

// joinPath concatenates base and an operation path, stripping a trailing
// separator on base so the join point is never doubled.
func joinPath(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// toolingHref concatenates base and a tooling suffix and collapses every
// doubled path separator. A scheme separator in an absolute base URL is
// left alone.
func toolingHref(base, suffix string) string {
	return collapseSeparators(base + suffix)
}

func collapseSeparators(s string) string {
	scheme := ""
	if i := strings.Index(s, "://"); i >= 0 {
		scheme, s = s[:i+3], s[i+3:]
	}
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	return scheme + s
}

func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
