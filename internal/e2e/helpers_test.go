package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"modelcfg/internal/backend"
	"modelcfg/internal/httpapi"
	"modelcfg/internal/registry"
	"modelcfg/internal/service"
)

// createTempModelsDir writes descriptor files into a temporary directory and
// returns its path.
func createTempModelsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write descriptor %s: %v", p, err)
		}
	}
	return dir
}

// newServerForDir serves the built-in families plus those in modelsDir with
// the given backend availability.
func newServerForDir(t *testing.T, modelsDir string, avail backend.Availability) (*httptest.Server, *service.Service) {
	t.Helper()
	reg, err := registry.WithDir(modelsDir)
	if err != nil {
		t.Fatalf("load families: %v", err)
	}
	svc, err := service.New(service.Options{Registry: reg, Probe: backend.ReportFor(avail)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
