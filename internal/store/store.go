// Package store provides the in-memory document store backing the TMF
// resource endpoints. Documents are schemaless JSON objects grouped by
// resource type; the store hands out deep copies so callers can never
// mutate shared state.
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/openoda/geoaddress/pkg/errors"
)

// Document is one stored resource.
type Document = map[string]any

// Change event types, following the TMF event naming convention.
const (
	EventCreate = "ResourceCreateEvent"
	EventChange = "ResourceAttributeValueChangeEvent"
	EventDelete = "ResourceDeleteEvent"
)

// Event describes a store mutation.
type Event struct {
	Type         string
	ResourceType string
	Resource     Document
}

// Notifier receives store change events. Notifiers run synchronously on
// the mutating goroutine and must not block.
type Notifier func(Event)

// ListOptions controls List pagination and filtering.
type ListOptions struct {
	Offset  int
	Limit   int
	Filters map[string]string
}

type collection struct {
	docs  map[string]Document
	order []string
}

// Store is a concurrent in-memory document store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	notifiers   []Notifier
}

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// OnChange registers a change notifier. Register before serving traffic;
// registration is not synchronized with mutations.
func (s *Store) OnChange(fn Notifier) {
	s.notifiers = append(s.notifiers, fn)
}

// Create stores a new document. A non-empty string "id" field is honored,
// otherwise an id is generated. The stored copy is returned.
func (s *Store) Create(resourceType string, doc Document) (Document, error) {
	if doc == nil {
		return nil, pkgerrors.NewValidationError("", "document body is required")
	}

	id, _ := doc["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	stored := clone(doc)
	stored["id"] = id

	s.mu.Lock()
	col := s.collection(resourceType)
	if _, exists := col.docs[id]; exists {
		s.mu.Unlock()
		return nil, pkgerrors.NewConflictError(resourceType, id)
	}
	col.docs[id] = stored
	col.order = append(col.order, id)
	s.mu.Unlock()

	s.notify(Event{Type: EventCreate, ResourceType: resourceType, Resource: clone(stored)})
	return clone(stored), nil
}

// Get returns a copy of the document with the given id.
func (s *Store) Get(resourceType, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[resourceType]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(resourceType, id)
	}
	doc, ok := col.docs[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(resourceType, id)
	}
	return clone(doc), nil
}

// List returns matching documents in creation order plus the total match
// count before pagination.
func (s *Store) List(resourceType string, opts ListOptions) ([]Document, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[resourceType]
	if !ok {
		return []Document{}, 0
	}

	matched := make([]Document, 0, len(col.order))
	for _, id := range col.order {
		doc := col.docs[id]
		if matches(doc, opts.Filters) {
			matched = append(matched, doc)
		}
	}

	total := len(matched)
	start := opts.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < total {
		end = start + opts.Limit
	}

	page := make([]Document, 0, end-start)
	for _, doc := range matched[start:end] {
		page = append(page, clone(doc))
	}
	return page, total
}

// Patch shallow-merges patch into the stored document. The "id" field is
// immutable and ignored in the patch body. The updated copy is returned.
func (s *Store) Patch(resourceType, id string, patch Document) (Document, error) {
	if patch == nil {
		return nil, pkgerrors.NewValidationError("", "patch body is required")
	}

	s.mu.Lock()
	col, ok := s.collections[resourceType]
	if !ok {
		s.mu.Unlock()
		return nil, pkgerrors.NewNotFoundError(resourceType, id)
	}
	doc, ok := col.docs[id]
	if !ok {
		s.mu.Unlock()
		return nil, pkgerrors.NewNotFoundError(resourceType, id)
	}

	for key, value := range patch {
		if key == "id" {
			continue
		}
		if value == nil {
			delete(doc, key)
			continue
		}
		doc[key] = clone1(value)
	}
	updated := clone(doc)
	s.mu.Unlock()

	s.notify(Event{Type: EventChange, ResourceType: resourceType, Resource: clone(updated)})
	return updated, nil
}

// Delete removes the document with the given id.
func (s *Store) Delete(resourceType, id string) error {
	s.mu.Lock()
	col, ok := s.collections[resourceType]
	if !ok {
		s.mu.Unlock()
		return pkgerrors.NewNotFoundError(resourceType, id)
	}
	doc, ok := col.docs[id]
	if !ok {
		s.mu.Unlock()
		return pkgerrors.NewNotFoundError(resourceType, id)
	}

	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventDelete, ResourceType: resourceType, Resource: clone(doc)})
	return nil
}

// Count returns the number of documents of a resource type.
func (s *Store) Count(resourceType string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if col, ok := s.collections[resourceType]; ok {
		return len(col.docs)
	}
	return 0
}

// collection returns the named collection, creating it if needed.
// Callers must hold the write lock.
func (s *Store) collection(resourceType string) *collection {
	col, ok := s.collections[resourceType]
	if !ok {
		col = &collection{docs: make(map[string]Document)}
		s.collections[resourceType] = col
	}
	return col
}

func (s *Store) notify(event Event) {
	for _, fn := range s.notifiers {
		fn(event)
	}
}

// matches checks top-level field equality. Values compare by their string
// rendering so query parameters match numbers and booleans too.
func matches(doc Document, filters map[string]string) bool {
	for key, want := range filters {
		value, ok := doc[key]
		if !ok {
			return false
		}
		if fmt.Sprint(value) != want {
			return false
		}
	}
	return true
}

func clone(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for key, value := range doc {
		out[key] = clone1(value)
	}
	return out
}

func clone1(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return clone(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = clone1(item)
		}
		return out
	default:
		return v
	}
}
