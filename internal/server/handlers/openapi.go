package handlers

import (
	"net/http"

	"github.com/openoda/geoaddress/internal/server/response"
)

// HandleOpenAPIJSON serves the loaded API specification in JSON format.
// @Summary Get OpenAPI specification (JSON)
// @Description Returns the OpenAPI specification for this API in JSON format
// @Tags meta
// @Produce json
// @Success 200 {object} object "OpenAPI specification"
// @Router /openapi.json [get].
func (h *Handlers) HandleOpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	data, err := h.specs.JSON()
	if err != nil {
		response.InternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
	_, _ = w.Write(data)
}

// HandleOpenAPIYAML serves the loaded API specification in YAML format.
// @Summary Get OpenAPI specification (YAML)
// @Description Returns the OpenAPI specification for this API in YAML format
// @Tags meta
// @Produce application/x-yaml
// @Success 200 {string} string "OpenAPI specification"
// @Router /openapi.yaml [get].
func (h *Handlers) HandleOpenAPIYAML(w http.ResponseWriter, _ *http.Request) {
	data, err := h.specs.YAML()
	if err != nil {
		response.InternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
	_, _ = w.Write(data)
}
