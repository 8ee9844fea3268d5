package registry

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const pythiaYAML = `name: pythia
architecture: GPTNeoXForCausalLM
default_id: eleutherai/pythia-70m
model_ids:
  - eleutherai/pythia-70m
  - eleutherai/pythia-160m
timeout: 3600
template: "{instruction}"
generation_config:
  temperature: 0.7
  max_new_tokens: 128
`

const stablelmTOML = `name = "stablelm"
architecture = "GPTNeoXForCausalLM"
default_id = "stabilityai/stablelm-tuned-alpha-3b"
model_ids = ["stabilityai/stablelm-tuned-alpha-3b"]
timeout = 3600

[generation_config]
temperature = 0.9
top_k = 0
`

const falconJSON = `{
  "name": "falcon",
  "architecture": "FalconForCausalLM",
  "default_id": "tiiuae/falcon-7b",
  "model_ids": ["tiiuae/falcon-7b", "tiiuae/falcon-40b"],
  "timeout": 7200
}`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDir_DecodesAllFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pythia.yaml", pythiaYAML)
	writeFile(t, dir, "stablelm.TOML", stablelmTOML) // case-insensitive
	writeFile(t, dir, "falcon.json", falconJSON)
	writeFile(t, dir, "README.md", "not a descriptor")
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	descs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(descs) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(descs))
	}
	// os.ReadDir order: falcon.json, pythia.yaml, stablelm.TOML
	if descs[0].Name != "falcon" || descs[1].Name != "pythia" || descs[2].Name != "stablelm" {
		t.Fatalf("unexpected order: %s %s %s", descs[0].Name, descs[1].Name, descs[2].Name)
	}
	if descs[1].Generation.MaxNewTokens != 128 || descs[1].TimeoutSeconds != 3600 {
		t.Fatalf("pythia not decoded: %+v", descs[1])
	}
	if descs[2].Generation.Temperature != 0.9 {
		t.Fatalf("stablelm temperature = %v", descs[2].Generation.Temperature)
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "name: x\ntimeuot: 5\n")
	if _, err := LoadFile(filepath.Join(dir, "bad.yaml")); err == nil {
		t.Fatalf("expected unknown key error")
	}
	writeFile(t, dir, "bad.json", `{"name":"x","tmeplate":"{instruction}"}`)
	if _, err := LoadFile(filepath.Join(dir, "bad.json")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.ini", "name=x")
	if _, err := LoadFile(filepath.Join(dir, "x.ini")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadDir_Missing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestLoadDir_ExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	sub := filepath.Join(home, "families")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, sub, "falcon.json", falconJSON)
	descs, err := LoadDir("~/families")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(descs) != 1 || descs[0].Name != "falcon" {
		t.Fatalf("unexpected: %+v", descs)
	}
}
