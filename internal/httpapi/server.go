package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelcfg/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Model(family string) (types.Model, error)
	Sanitize(family string, kw map[string]any) (types.PromptResponse, error)
	Postprocess(family string, req types.PostprocessRequest) (types.PostprocessResponse, error)
	Quantise(modelID, mode string, overrides map[string]any) (types.QuantiseResponse, error)
	Backends() types.BackendsResponse
	Status() types.StatusResponse
	Ready() bool
}

// NewMux builds the HTTP router for svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if mw := corsMiddleware(); mw != nil {
		r.Use(mw)
	}

	r.Group(func(r chi.Router) {
		r.Use(inflightMiddleware)

		// @Summary  List model families
		// @Tags     models
		// @Produce  json
		// @Success  200 {object} types.ModelsResponse
		// @Router   /models [get]
		r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, types.ModelsResponse{Models: svc.ListModels()})
		})

		// @Summary  Get a model family
		// @Tags     models
		// @Produce  json
		// @Param    family path string true "model family"
		// @Success  200 {object} types.Model
		// @Failure  404 {object} types.ErrorResponse
		// @Router   /models/{family} [get]
		r.Get("/models/{family}", func(w http.ResponseWriter, r *http.Request) {
			m, err := svc.Model(chi.URLParam(r, "family"))
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, m)
		})

		// @Summary  Format a prompt
		// @Tags     models
		// @Accept   json
		// @Produce  json
		// @Param    family path string true "model family"
		// @Param    body body object true "keyword request: prompt, max_new_tokens, temperature, top_k, top_p, use_default_prompt_template, extras"
		// @Success  200 {object} types.PromptResponse
		// @Failure  400 {object} types.ErrorResponse
		// @Failure  404 {object} types.ErrorResponse
		// @Failure  415 {object} types.ErrorResponse
		// @Router   /models/{family}/prompt [post]
		r.Post("/models/{family}/prompt", func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			family := chi.URLParam(r, "family")
			var kw map[string]any
			if !decodeJSON(w, r, &kw, false) {
				return
			}
			if kw == nil {
				writeJSONError(w, http.StatusBadRequest, "request body must be a JSON object")
				return
			}
			logDebug(r, "prompt", map[string]any{"family": family, "keys": len(kw)})
			resp, err := svc.Sanitize(family, kw)
			if err != nil {
				status := statusFor(err)
				writeJSONError(w, status, err.Error())
				logEnd(r, "prompt", status, start, err)
				return
			}
			observePrompt(family, resp.Templated)
			writeJSON(w, resp)
			logEnd(r, "prompt", http.StatusOK, start, nil)
		})

		// @Summary  Extract generated text from a runtime result
		// @Tags     models
		// @Accept   json
		// @Produce  json
		// @Param    family path string true "model family"
		// @Param    body body types.PostprocessRequest true "runtime result"
		// @Success  200 {object} types.PostprocessResponse
		// @Failure  422 {object} types.ErrorResponse
		// @Router   /models/{family}/postprocess [post]
		r.Post("/models/{family}/postprocess", func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			var req types.PostprocessRequest
			if !decodeJSON(w, r, &req, true) {
				return
			}
			resp, err := svc.Postprocess(chi.URLParam(r, "family"), req)
			if err != nil {
				status := statusFor(err)
				writeJSONError(w, status, err.Error())
				logEnd(r, "postprocess", status, start, err)
				return
			}
			writeJSON(w, resp)
			logEnd(r, "postprocess", http.StatusOK, start, nil)
		})

		// @Summary  Select a quantisation config
		// @Tags     quantise
		// @Accept   json
		// @Produce  json
		// @Param    body body types.QuantiseRequest true "mode and overrides"
		// @Success  200 {object} types.QuantiseResponse
		// @Failure  400 {object} types.ErrorResponse
		// @Failure  503 {object} types.ErrorResponse
		// @Router   /quantise [post]
		r.Post("/quantise", func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			var req types.QuantiseRequest
			if !decodeJSON(w, r, &req, true) {
				return
			}
			if strings.TrimSpace(req.Mode) == "" {
				writeJSONError(w, http.StatusBadRequest, "quantize is required")
				return
			}
			logDebug(r, "quantise", map[string]any{"mode": req.Mode, "model_id": req.ModelID, "overrides": req.Overrides})
			resp, err := svc.Quantise(req.ModelID, req.Mode, req.Overrides)
			observeQuantise(req.Mode, err)
			if err != nil {
				status := statusFor(err)
				writeJSONError(w, status, err.Error())
				logEnd(r, "quantise", status, start, err)
				return
			}
			writeJSON(w, resp)
			logEnd(r, "quantise", http.StatusOK, start, nil)
		})

		// @Summary  Optional backend availability
		// @Tags     status
		// @Produce  json
		// @Success  200 {object} types.BackendsResponse
		// @Router   /backends [get]
		r.Get("/backends", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, svc.Backends())
		})

		// @Summary  Service status
		// @Tags     status
		// @Produce  json
		// @Success  200 {object} types.StatusResponse
		// @Router   /status [get]
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, svc.Status())
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSON enforces a JSON content type and the body limit, then decodes
// into v. It writes the error response itself and reports whether to go on.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, strict bool) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusBadRequest, "request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
