package handlers

import (
	"html/template"
	"net/http"
)

// swaggerPage renders the Swagger UI shell pointed at the served
// specification. The discovery document advertises this page on its
// self link.
var swaggerPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Geographic Address Management API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: {{.SpecURL}},
      dom_id: "#swagger-ui"
    });
  </script>
</body>
</html>`))

// HandleDocs serves the interactive API documentation page.
// @Summary API documentation
// @Description Swagger UI for the served API specification
// @Tags meta
// @Produce html
// @Success 200 {string} string "Documentation page"
// @Router /docs/ [get].
func (h *Handlers) HandleDocs(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = swaggerPage.Execute(w, map[string]string{
			"SpecURL": prefix + "/openapi.json",
		})
	}
}
