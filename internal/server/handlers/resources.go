package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/openoda/geoaddress/internal/server/response"
	"github.com/openoda/geoaddress/internal/store"
	"github.com/openoda/geoaddress/pkg/errors"
)

// reservedQueryParams never participate in attribute filtering.
var reservedQueryParams = map[string]bool{
	"fields": true,
	"offset": true,
	"limit":  true,
}

// HandleCollection returns a handler for the collection endpoint of one
// resource type: GET lists documents, POST creates one.
// @Summary List or create resources
// @Description List resources with attribute filtering and pagination, or create a new one
// @Tags resources
// @Accept json
// @Produce json
// @Param fields query string false "Comma-separated attribute selection"
// @Param offset query integer false "Pagination offset"
// @Param limit query integer false "Maximum number of results"
// @Success 200 {array} object
// @Success 201 {object} object
// @Failure 400 {object} response.Error
// @Router /{resource} [get].
func (h *Handlers) HandleCollection(resourceType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listResources(w, r, resourceType)
		case http.MethodPost:
			h.createResource(w, r, resourceType)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	}
}

// HandleResource returns a handler for the item endpoint of one resource
// type: GET retrieves, PATCH merges, DELETE removes. The document ID is
// the path remainder after the collection prefix.
func (h *Handlers) HandleResource(resourceType string) http.HandlerFunc {
	itemPrefix := h.prefix + "/" + resourceType + "/"
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, itemPrefix)
		if id == "" || strings.Contains(id, "/") {
			response.NotFound(w, "Resource not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.getResource(w, r, resourceType, id)
		case http.MethodPatch:
			h.patchResource(w, r, resourceType, id)
		case http.MethodDelete:
			h.deleteResource(w, resourceType, id)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	}
}

func (h *Handlers) listResources(w http.ResponseWriter, r *http.Request, resourceType string) {
	cacheKey := resourceType + ":" + r.URL.RawQuery
	if cached, found := h.cache.Get(cacheKey); found {
		entry := cached.(listEntry)
		w.Header().Set("X-Total-Count", strconv.Itoa(entry.total))
		response.OK(w, entry.items)
		return
	}

	opts, fields, err := parseListQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	docs, total := h.store.List(resourceType, opts)
	items := make([]store.Document, 0, len(docs))
	for _, doc := range docs {
		items = append(items, selectFields(doc, fields))
	}

	h.cache.Set(cacheKey, listEntry{items: items, total: total})
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	response.OK(w, items)
}

func (h *Handlers) createResource(w http.ResponseWriter, r *http.Request, resourceType string) {
	var doc store.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if doc == nil {
		response.BadRequest(w, "Request body must be a JSON object")
		return
	}

	// Assign the identity up front so the stored document carries its
	// canonical href from the start.
	id, _ := doc["id"].(string)
	if id == "" {
		id = uuid.NewString()
		doc["id"] = id
	}
	href := h.prefix + "/" + resourceType + "/" + id
	doc["href"] = href

	created, err := h.store.Create(resourceType, doc)
	if err != nil {
		response.FromError(w, err)
		return
	}

	h.cache.Clear()
	w.Header().Set("Location", href)
	response.Created(w, created)
}

func (h *Handlers) getResource(w http.ResponseWriter, r *http.Request, resourceType, id string) {
	doc, err := h.store.Get(resourceType, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	fields := parseFields(r.URL.Query().Get("fields"))
	response.OK(w, selectFields(doc, fields))
}

func (h *Handlers) patchResource(w http.ResponseWriter, r *http.Request, resourceType, id string) {
	var patch store.Document
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	updated, err := h.store.Patch(resourceType, id, patch)
	if err != nil {
		response.FromError(w, err)
		return
	}

	h.cache.Clear()
	response.OK(w, updated)
}

func (h *Handlers) deleteResource(w http.ResponseWriter, resourceType, id string) {
	if err := h.store.Delete(resourceType, id); err != nil {
		response.FromError(w, err)
		return
	}

	h.cache.Clear()
	response.NoContent(w)
}

// listEntry is what list caching stores: the rendered page plus the total
// count for the X-Total-Count header.
type listEntry struct {
	items []store.Document
	total int
}

// parseListQuery extracts pagination, field selection, and attribute
// filters from a list request. Every non-reserved query parameter is an
// exact-match attribute filter.
func parseListQuery(r *http.Request) (store.ListOptions, []string, error) {
	opts := store.ListOptions{Limit: -1}
	query := r.URL.Query()

	if raw := query.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, nil, errors.NewValidationError("offset", "must be a non-negative integer")
		}
		opts.Offset = n
	}
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, nil, errors.NewValidationError("limit", "must be a non-negative integer")
		}
		opts.Limit = n
	}

	for key, values := range query {
		if reservedQueryParams[key] || len(values) == 0 {
			continue
		}
		if opts.Filters == nil {
			opts.Filters = make(map[string]string)
		}
		opts.Filters[key] = values[0]
	}

	return opts, parseFields(query.Get("fields")), nil
}

// parseFields splits a fields selection parameter. Empty input selects
// everything.
func parseFields(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// selectFields projects a document down to the requested attributes. The
// id and href attributes are always kept per TMF conventions.
func selectFields(doc store.Document, fields []string) store.Document {
	if len(fields) == 0 {
		return doc
	}

	out := make(store.Document, len(fields)+2)
	for _, key := range []string{"id", "href"} {
		if v, ok := doc[key]; ok {
			out[key] = v
		}
	}
	for _, key := range fields {
		if v, ok := doc[key]; ok {
			out[key] = v
		}
	}
	return out
}
