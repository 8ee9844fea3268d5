package service

import (
	"time"

	"modelcfg/internal/backend"
	"modelcfg/internal/modelconfig"
	"modelcfg/internal/quantise"
	"modelcfg/pkg/types"
)

// ListModels returns every registered family, sorted by name. Templates are
// omitted; fetch a single model for those.
func (s *Service) ListModels() []types.Model {
	descs := s.reg.List()
	out := make([]types.Model, 0, len(descs))
	for _, d := range descs {
		m := toModel(d)
		m.Template = ""
		out = append(out, m)
	}
	return out
}

// Model returns a single family including its prompt template.
func (s *Service) Model(name string) (types.Model, error) {
	d, err := s.family(name)
	if err != nil {
		return types.Model{}, s.fail("model", err)
	}
	return toModel(d), nil
}

// Sanitize formats a prompt for family name from a flat keyword request.
func (s *Service) Sanitize(name string, kw map[string]any) (types.PromptResponse, error) {
	d, err := s.family(name)
	if err != nil {
		return types.PromptResponse{}, s.fail("prompt", err)
	}
	req, err := modelconfig.DecodeGenerationRequest(kw)
	if err != nil {
		return types.PromptResponse{}, s.fail("prompt", err)
	}
	text, params, load, err := d.Sanitize(req)
	if err != nil {
		return types.PromptResponse{}, s.fail("prompt", err)
	}
	s.prompts.Add(1)
	return types.PromptResponse{
		Prompt:           text,
		Templated:        req.UseDefaultTemplate == nil || *req.UseDefaultTemplate,
		GenerationParams: params.Map(),
		LoadParams:       load,
	}, nil
}

// Postprocess extracts the generated text from a runtime result.
func (s *Service) Postprocess(name string, req types.PostprocessRequest) (types.PostprocessResponse, error) {
	d, err := s.family(name)
	if err != nil {
		return types.PostprocessResponse{}, s.fail("postprocess", err)
	}
	gens := make([]modelconfig.Generation, len(req.Result))
	for i, g := range req.Result {
		gens[i] = modelconfig.Generation{GeneratedText: g.GeneratedText}
	}
	text, err := d.Postprocess(req.Prompt, gens)
	if err != nil {
		return types.PostprocessResponse{}, s.fail("postprocess", err)
	}
	s.postprocess.Add(1)
	return types.PostprocessResponse{Text: text}, nil
}

// Quantise selects the quantisation config for mode. An empty modelID falls
// back to the default family's default id.
func (s *Service) Quantise(modelID, mode string, overrides map[string]any) (types.QuantiseResponse, error) {
	if modelID == "" {
		d, err := s.family("")
		if err != nil {
			return types.QuantiseResponse{}, s.fail("quantise", err)
		}
		modelID = d.DefaultID
	}
	res, err := quantise.Select(mode, modelID, overrides, s.avail)
	if err != nil {
		return types.QuantiseResponse{}, s.fail("quantise", err)
	}
	s.quantise.Add(1)
	ev := s.log.Debug().Str("mode", mode).Str("model_id", modelID)
	if fam, ok := s.reg.FamilyForModelID(modelID); ok {
		ev = ev.Str("family", fam)
	}
	if len(res.Extra) > 0 {
		ev = ev.Int("extra", len(res.Extra))
	}
	ev.Msg("quantisation config selected")
	return types.QuantiseResponse{Mode: mode, ModelID: modelID, Config: res.Config, Extra: res.Extra}, nil
}

// Backends reports the effective backend availability.
func (s *Service) Backends() types.BackendsResponse {
	rep := backend.ReportFor(s.avail)
	out := types.BackendsResponse{Python: s.probe.Python, Error: s.probe.Error}
	for _, b := range rep.Backends {
		out.Backends = append(out.Backends, types.BackendStatus{
			Name:      b.Name,
			Module:    b.Module,
			Available: b.Available,
			Forced:    s.forced[b.Name],
		})
	}
	return out
}

// Modes returns the quantisation modes the effective backends can serve.
func (s *Service) Modes() []string {
	var out []string
	for _, m := range quantise.Modes() {
		if quantise.CheckBackends(m, s.avail) == nil {
			out = append(out, m.String())
		}
	}
	return out
}

// Status builds the response for /status.
func (s *Service) Status() types.StatusResponse {
	now := time.Now()
	resp := types.StatusResponse{
		Families:         s.reg.Len(),
		DefaultFamily:    s.defaultFamily,
		Modes:            s.Modes(),
		PromptsTotal:     s.prompts.Load(),
		PostprocessTotal: s.postprocess.Load(),
		QuantiseTotal:    s.quantise.Load(),
		ErrorsTotal:      s.failures.Load(),
		UptimeSeconds:    int64(now.Sub(s.started).Seconds()),
		ServerTimeUnix:   now.Unix(),
	}
	if p := s.lastErr.Load(); p != nil {
		resp.LastError = *p
	}
	if resp.Modes == nil {
		resp.Modes = []string{}
	}
	return resp
}

func (s *Service) family(name string) (modelconfig.Descriptor, error) {
	if name == "" {
		name = s.defaultFamily
	}
	return s.reg.Lookup(name)
}

func toModel(d modelconfig.Descriptor) types.Model {
	return types.Model{
		Name:           d.Name,
		Architecture:   d.Architecture,
		DefaultID:      d.DefaultID,
		ModelIDs:       d.ModelIDs,
		URL:            d.URL,
		TimeoutSeconds: d.TimeoutSeconds,
		ReturnFullText: d.ReturnFullText,
		Template:       d.Template,
		Generation: types.GenerationConfig{
			Temperature:  d.Generation.Temperature,
			TopP:         d.Generation.TopP,
			TopK:         d.Generation.TopK,
			MaxNewTokens: d.Generation.MaxNewTokens,
			EOSTokenID:   d.Generation.EOSTokenID,
		},
	}
}
