package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"modelcfg/internal/backend"
	"modelcfg/internal/errs"
	"modelcfg/internal/modelconfig"
	"modelcfg/internal/quantise"
	"modelcfg/pkg/types"
)

func newTestService(t *testing.T, avail backend.Availability, force map[string]bool) *Service {
	t.Helper()
	s, err := New(Options{
		Probe:         backend.ReportFor(avail),
		Force:         force,
		DefaultFamily: "dolly-v2",
		Logger:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s
}

func TestNew_UnknownDefaultFamily(t *testing.T) {
	_, err := New(Options{DefaultFamily: "gpt-j", Logger: zerolog.Nop()})
	if !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "'dolly-v2'") {
		t.Fatalf("expected accepted families in error: %v", err)
	}
}

func TestListModelsAndModel(t *testing.T) {
	s := newTestService(t, backend.Availability{}, nil)
	models := s.ListModels()
	if len(models) != 1 || models[0].Name != "dolly-v2" || models[0].Template != "" {
		t.Fatalf("unexpected models: %+v", models)
	}
	m, err := s.Model("dolly-v2")
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	if m.Template != modelconfig.DollyV2Template || m.Generation.EOSTokenID != 50277 {
		t.Fatalf("unexpected model: %+v", m)
	}
	if _, err := s.Model("nope"); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	s := newTestService(t, backend.Availability{}, nil)
	resp, err := s.Sanitize("dolly-v2", map[string]any{"prompt": "What is 2+2?", "max_new_tokens": 32})
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	want := modelconfig.IntroBlurb + "\n" + modelconfig.InstructionKey + "\nWhat is 2+2?\n" + modelconfig.ResponseKey + "\n"
	if resp.Prompt != want {
		t.Fatalf("prompt = %q, want %q", resp.Prompt, want)
	}
	if resp.GenerationParams["max_new_tokens"] != 32 || resp.GenerationParams["temperature"] != nil {
		t.Fatalf("unexpected params: %+v", resp.GenerationParams)
	}
	if len(resp.LoadParams) != 0 {
		t.Fatalf("unexpected load params: %+v", resp.LoadParams)
	}
	if got := s.Status().PromptsTotal; got != 1 {
		t.Fatalf("prompts total = %d", got)
	}
}

func TestSanitize_DefaultFamilyAndErrors(t *testing.T) {
	s := newTestService(t, backend.Availability{}, nil)
	if _, err := s.Sanitize("", map[string]any{"prompt": "hi", "use_default_prompt_template": false}); err != nil {
		t.Fatalf("sanitize default family: %v", err)
	}
	if _, err := s.Sanitize("dolly-v2", map[string]any{"prompt": "hi", "instruction": "x"}); !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	st := s.Status()
	if st.ErrorsTotal != 1 || !strings.HasPrefix(st.LastError, "prompt: ") {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestPostprocess(t *testing.T) {
	s := newTestService(t, backend.Availability{}, nil)
	text := "four"
	resp, err := s.Postprocess("dolly-v2", types.PostprocessRequest{Prompt: "p", Result: []types.Generation{{GeneratedText: &text}}})
	if err != nil || resp.Text != "four" {
		t.Fatalf("postprocess = %+v, %v", resp, err)
	}
	_, err = s.Postprocess("dolly-v2", types.PostprocessRequest{Prompt: "p"})
	if !errs.IsContractViolation(err) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestQuantise_DefaultsModelID(t *testing.T) {
	s := newTestService(t, backend.All(), nil)
	resp, err := s.Quantise("", "gptq", nil)
	if err != nil {
		t.Fatalf("quantise: %v", err)
	}
	if resp.ModelID != "databricks/dolly-v2-3b" {
		t.Fatalf("model id = %q", resp.ModelID)
	}
	cfg, ok := resp.Config.(quantise.GPTQConfig)
	if !ok || cfg.Tokenizer != "databricks/dolly-v2-3b" {
		t.Fatalf("unexpected config %#v", resp.Config)
	}
}

func TestQuantise_ForceOverridesProbe(t *testing.T) {
	s := newTestService(t, backend.Availability{}, map[string]bool{"bitsandbytes": true, "bogus": true})
	if _, err := s.Quantise("", "int8", map[string]any{"llm_int8_threshhold": 5.0}); err != nil {
		t.Fatalf("quantise: %v", err)
	}
	if _, err := s.Quantise("", "awq", nil); !errs.IsMissingDependency(err) {
		t.Fatalf("expected missing dependency, got %v", err)
	}
	b := s.Backends()
	var sawForced bool
	for _, st := range b.Backends {
		if st.Name == backend.BitsAndBytes {
			sawForced = st.Forced && st.Available
		}
	}
	if !sawForced {
		t.Fatalf("bitsandbytes not reported as forced: %+v", b)
	}
	if got := s.Status().Modes; len(got) != 2 || got[0] != "int8" || got[1] != "int4" {
		t.Fatalf("modes = %v", got)
	}
}

func TestStatus_NoModes(t *testing.T) {
	s := newTestService(t, backend.Availability{}, nil)
	st := s.Status()
	if st.Modes == nil || len(st.Modes) != 0 {
		t.Fatalf("modes = %#v", st.Modes)
	}
	if !s.Ready() || st.Families != 1 || st.DefaultFamily != "dolly-v2" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestConcurrentUse(t *testing.T) {
	s := newTestService(t, backend.All(), nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := s.Sanitize("dolly-v2", map[string]any{"prompt": "x"}); err != nil {
					t.Error(err)
					return
				}
				if _, err := s.Quantise("", "int4", nil); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
	st := s.Status()
	if st.PromptsTotal != 400 || st.QuantiseTotal != 400 {
		t.Fatalf("unexpected counters: %+v", st)
	}
}
