package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/openoda/geoaddress/internal/server/response"
	"github.com/openoda/geoaddress/pkg/logging"
)

// entrypointFailureMessage is the wire message returned whenever the
// discovery document cannot be produced, regardless of the cause.
const entrypointFailureMessage = "Unable to generate entrypoint response"

// HandleEntrypoint handles GET / and returns the discovery document
// describing the service and every documented API operation.
// @Summary Service entrypoint
// @Description Discovery document with links to all API operations
// @Tags meta
// @Produce json
// @Success 200 {object} object "Discovery document"
// @Failure 500 {object} response.Error
// @Router / [get].
func (h *Handlers) HandleEntrypoint(w http.ResponseWriter, r *http.Request) {
	// Registered on the catch-all pattern, so anything but the root
	// itself is an unknown path.
	if r.URL.Path != "/" {
		response.NotFound(w, "Resource not found")
		return
	}
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w, r.Method)
		return
	}

	body, err := h.entrypointBody()
	if err != nil {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("Failed to generate entrypoint response")
		response.Fail(w, http.StatusInternalServerError, "Internal Server Error", entrypointFailureMessage)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// entrypointBody builds and serializes the discovery document. Any panic
// while walking the specification is converted to an error here so the
// handler can degrade to a 500 instead of tearing down the connection.
func (h *Handlers) entrypointBody() (body []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error().
				Str("stack", string(debug.Stack())).
				Msgf("Panic while generating entrypoint: %v", rec)
			err = fmt.Errorf("entrypoint generation panic: %v", rec)
		}
	}()

	doc := h.buildEntrypoint(h.specs.Document())
	return json.MarshalIndent(doc, "", "  ")
}
