// Package swaggerkit serves the OpenAPI document and the swagger UI
package swaggerkit

import (
	"net/http"

	phttp "churnserve/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocsPrefix is where the UI lives
const DocsPrefix = "/api/docs"

// Mount the swagger UI and JSON spec when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(DocsPrefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, DocsPrefix+"/", http.StatusPermanentRedirect)
	})
	r.Get(DocsPrefix+"/doc.json", serveDocJSON())
	r.Handle(DocsPrefix+"/*", httpSwagger.Handler(
		httpSwagger.URL(DocsPrefix+"/doc.json"),
	))
}
