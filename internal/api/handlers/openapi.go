package handlers

import (
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/bigkaa/goartstore/source-registry/internal/api/generated"
)

// loadOpenAPI разбирает встроенную схему один раз за процесс.
var loadOpenAPI = sync.OnceValues(generated.GetSwagger)

// OpenAPISpec возвращает встроенную OpenAPI-схему API.
func OpenAPISpec() (*openapi3.T, error) {
	return loadOpenAPI()
}

// GetOpenAPI — OpenAPI-схема API в JSON (ops порт).
func GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	spec, err := OpenAPISpec()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}
