//go:build !swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const swaggerHint = "API docs are not built in; rebuild modelcfg with -tags=swagger and run swag init"

// MountSwagger answers /swagger/* with a JSON 404 naming the build tag, so
// default builds link neither the generated docs package nor http-swagger.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, swaggerHint)
	})
}
