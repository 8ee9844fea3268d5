package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"modelcfg/internal/errs"
	"modelcfg/pkg/types"
)

type mockService struct {
	models      []types.Model
	status      types.StatusResponse
	backends    types.BackendsResponse
	ready       bool
	err         error
	gotFamily   string
	gotKW       map[string]any
	gotQuantise types.QuantiseRequest
}

func (m *mockService) ListModels() []types.Model { return append([]types.Model(nil), m.models...) }

func (m *mockService) Status() types.StatusResponse     { return m.status }
func (m *mockService) Backends() types.BackendsResponse { return m.backends }
func (m *mockService) Ready() bool                      { return m.ready }

func (m *mockService) Model(family string) (types.Model, error) {
	m.gotFamily = family
	if m.err != nil {
		return types.Model{}, m.err
	}
	return types.Model{Name: family, Template: "{instruction}"}, nil
}

func (m *mockService) Sanitize(family string, kw map[string]any) (types.PromptResponse, error) {
	m.gotFamily, m.gotKW = family, kw
	if m.err != nil {
		return types.PromptResponse{}, m.err
	}
	return types.PromptResponse{Prompt: "P:" + kw["prompt"].(string), Templated: true, GenerationParams: map[string]any{"top_k": nil}, LoadParams: map[string]any{}}, nil
}

func (m *mockService) Postprocess(family string, req types.PostprocessRequest) (types.PostprocessResponse, error) {
	m.gotFamily = family
	if m.err != nil {
		return types.PostprocessResponse{}, m.err
	}
	return types.PostprocessResponse{Text: *req.Result[0].GeneratedText}, nil
}

func (m *mockService) Quantise(modelID, mode string, overrides map[string]any) (types.QuantiseResponse, error) {
	m.gotQuantise = types.QuantiseRequest{Mode: mode, ModelID: modelID, Overrides: overrides}
	if m.err != nil {
		return types.QuantiseResponse{}, m.err
	}
	return types.QuantiseResponse{Mode: mode, ModelID: modelID, Config: map[string]any{"quant_method": "bitsandbytes"}}, nil
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var e types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("error body not JSON: %v (%q)", err, w.Body.String())
	}
	if e.Code != w.Code {
		t.Fatalf("payload code %d != status %d", e.Code, w.Code)
	}
	return e
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{Name: "a"}, {Name: "b"}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Models) != 2 {
		t.Fatalf("models len=%d", len(body.Models))
	}
}

func TestModelHandler(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/dolly-v2", nil))
	if w.Code != http.StatusOK || svc.gotFamily != "dolly-v2" {
		t.Fatalf("status=%d family=%q", w.Code, svc.gotFamily)
	}
}

func TestModelHandler_NotFound(t *testing.T) {
	svc := &mockService{err: errs.NotFound("model family", "gpt-x")}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/gpt-x", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if e := decodeError(t, w); !strings.Contains(e.Error, "gpt-x") {
		t.Fatalf("error=%q", e.Error)
	}
}

func TestPromptHandler(t *testing.T) {
	svc := &mockService{}
	w := postJSON(t, NewMux(svc), "/models/dolly-v2/prompt", `{"prompt":"hi","max_new_tokens":16,"context":"x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp types.PromptResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Prompt != "P:hi" || !resp.Templated {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if _, ok := resp.GenerationParams["top_k"]; !ok {
		t.Fatalf("unset params must be present as null: %s", w.Body.String())
	}
	if svc.gotFamily != "dolly-v2" || svc.gotKW["context"] != "x" {
		t.Fatalf("service got family=%q kw=%v", svc.gotFamily, svc.gotKW)
	}
}

func TestPromptHandler_RejectsNonObject(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/models/dolly-v2/prompt", `null`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	w = postJSON(t, NewMux(&mockService{}), "/models/dolly-v2/prompt", `["a"]`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPostprocessHandler(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/models/dolly-v2/postprocess", `{"prompt":"p","result":[{"generated_text":"done"}]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"text":"done"`) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w = postJSON(t, NewMux(&mockService{}), "/models/dolly-v2/postprocess", `{"prompt":"p","results":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", w.Code)
	}
}

func TestQuantiseHandler(t *testing.T) {
	svc := &mockService{}
	w := postJSON(t, NewMux(svc), "/quantise", `{"quantize":"int8","overrides":{"llm_int8_threshhold":5.0}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.gotQuantise.Mode != "int8" || svc.gotQuantise.Overrides["llm_int8_threshhold"] != 5.0 {
		t.Fatalf("service got %+v", svc.gotQuantise)
	}
}

func TestQuantiseHandler_ModeRequired(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/quantise", `{"model_id":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.Validation("quantize", "bad mode"), http.StatusBadRequest},
		{"not found", errs.NotFound("model family", "x"), http.StatusNotFound},
		{"contract", errs.ContractViolation("empty"), http.StatusUnprocessableEntity},
		{"missing dependency", errs.MissingDependency("quantize='awq'", "", "auto-awq"), http.StatusServiceUnavailable},
		{"http error", mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{"generic", io.EOF, http.StatusInternalServerError},
		{"wrapped", errors.Join(errors.New("ctx"), errs.Validation("x", "y")), http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := postJSON(t, NewMux(&mockService{err: c.err}), "/quantise", `{"quantize":"awq"}`)
			if w.Code != c.want {
				t.Fatalf("status=%d want %d", w.Code, c.want)
			}
			decodeError(t, w)
		})
	}
}

func TestUnsupportedMediaType(t *testing.T) {
	for _, path := range []string{"/quantise", "/models/dolly-v2/prompt", "/models/dolly-v2/postprocess"} {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		NewMux(&mockService{}).ServeHTTP(w, req)
		if w.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("%s: status=%d", path, w.Code)
		}
	}
}

func TestContentTypeCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/quantise", bytes.NewBufferString(`{"quantize":"int4"}`))
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	rec := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with mixed-case content-type, got %d", rec.Code)
	}
}

func TestBadJSON(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/quantise", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(64)
	body := `{"prompt":"` + strings.Repeat("a", 128) + `"}`
	w := postJSON(t, NewMux(&mockService{}), "/models/dolly-v2/prompt", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too-large body, got %d", w.Code)
	}
	if e := decodeError(t, w); !strings.Contains(e.Error, "too large") {
		t.Fatalf("error=%q", e.Error)
	}
}

func TestStatusAndBackends(t *testing.T) {
	svc := &mockService{
		status:   types.StatusResponse{Families: 3, DefaultFamily: "dolly-v2"},
		backends: types.BackendsResponse{Backends: []types.BackendStatus{{Name: "bitsandbytes", Available: true}}},
	}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	var st types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil || st.Families != 3 {
		t.Fatalf("status body=%s err=%v", w.Body.String(), err)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/backends", nil))
	var b types.BackendsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil || len(b.Backends) != 1 || !b.Backends[0].Available {
		t.Fatalf("backends body=%s err=%v", w.Body.String(), err)
	}
}

func TestHealthzAndReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}
	w = httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz not ready status=%d", w.Code)
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	SetCORS(&CORS{Origins: []string{"*"}, Methods: []string{"GET", "POST", "OPTIONS"}, Headers: []string{"Content-Type"}})
	defer SetCORS(nil)

	h := NewMux(&mockService{ready: true})
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options=nosniff, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS header Access-Control-Allow-Origin to be set, got empty")
	}
}

func TestCORSDisabledByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header %q", got)
	}
}

func TestQuantiseLogsWithZerolog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()

	w := postJSON(t, NewMux(&mockService{}), "/quantise?log=debug", `{"quantize":"int8"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	out := buf.String()
	if !strings.Contains(out, `"message":"quantise end"`) || !strings.Contains(out, `"mode":"int8"`) {
		t.Fatalf("unexpected log output: %q", out)
	}
}
