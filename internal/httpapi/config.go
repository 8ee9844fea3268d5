package httpapi

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// DefaultMaxBodyBytes bounds JSON request bodies unless SetMaxBodyBytes says otherwise.
const DefaultMaxBodyBytes int64 = 1 << 20

var maxBodyBytes = DefaultMaxBodyBytes

// SetMaxBodyBytes sets the JSON body limit; n <= 0 restores the default.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		n = DefaultMaxBodyBytes
	}
	maxBodyBytes = n
}

// CORS lists what browsers may send cross-origin. The request id header is
// always exposed so UIs can correlate errors with server logs.
type CORS struct {
	Origins []string
	Methods []string
	Headers []string
	// MaxAge is the preflight cache lifetime in seconds; 0 means 300.
	MaxAge int
}

var corsOpts *CORS

// SetCORS enables the CORS middleware for routers built afterwards; nil
// disables it.
func SetCORS(c *CORS) {
	if c == nil {
		corsOpts = nil
		return
	}
	cp := CORS{
		Origins: slices.Clone(c.Origins),
		Methods: slices.Clone(c.Methods),
		Headers: slices.Clone(c.Headers),
		MaxAge:  c.MaxAge,
	}
	if cp.MaxAge <= 0 {
		cp.MaxAge = 300
	}
	corsOpts = &cp
}

// corsMiddleware returns nil when CORS is disabled.
func corsMiddleware() func(http.Handler) http.Handler {
	if corsOpts == nil {
		return nil
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: corsOpts.Origins,
		AllowedMethods: corsOpts.Methods,
		AllowedHeaders: corsOpts.Headers,
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         corsOpts.MaxAge,
	})
}
