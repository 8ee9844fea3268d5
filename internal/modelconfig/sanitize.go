package modelconfig

import (
	"encoding/json"
	"fmt"
	"maps"

	"modelcfg/internal/errs"
	"modelcfg/internal/kwargs"
	"modelcfg/internal/prompt"
)

// GenerationRequest is one inference call's raw input. Nil overrides are left
// unset so the runtime can apply its global defaults.
type GenerationRequest struct {
	Instruction  string   `mapstructure:"prompt"`
	MaxNewTokens *int     `mapstructure:"max_new_tokens"`
	Temperature  *float64 `mapstructure:"temperature"`
	TopK         *int     `mapstructure:"top_k"`
	TopP         *float64 `mapstructure:"top_p"`
	// UseDefaultTemplate defaults to true when nil.
	UseDefaultTemplate *bool `mapstructure:"use_default_prompt_template"`
	// Extra holds keyword overrides the family does not name.
	Extra map[string]any `mapstructure:",remain"`
}

// DecodeGenerationRequest builds a GenerationRequest from a flat keyword map,
// e.g. a decoded JSON body. Keys match exactly; anything else, including a
// differently cased known key, is kept in Extra.
func DecodeGenerationRequest(kw map[string]any) (GenerationRequest, error) {
	var req GenerationRequest
	dec, err := kwargs.NewDecoder(&req, nil)
	if err != nil {
		return req, err
	}
	if err := dec.Decode(kw); err != nil {
		return req, errs.Validation("generation request", "%v", err)
	}
	return req, nil
}

// GenerationParams is the generation-time keyword map handed to the runtime.
type GenerationParams struct {
	MaxNewTokens *int
	TopK         *int
	TopP         *float64
	Temperature  *float64
	Extra        map[string]any
}

// Map flattens the params into the runtime's keyword form. Unset named values
// are present with a nil value.
func (p GenerationParams) Map() map[string]any {
	m := map[string]any{
		"max_new_tokens": deref(p.MaxNewTokens),
		"top_k":          deref(p.TopK),
		"top_p":          deref(p.TopP),
		"temperature":    deref(p.Temperature),
	}
	maps.Copy(m, p.Extra)
	return m
}

// MarshalJSON encodes the flattened keyword form.
func (p GenerationParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// LoadParams is the model-loading-time keyword map. No family defined here
// needs any, but the runtime contract includes it.
type LoadParams map[string]any

// Sanitize turns a raw request into the formatted prompt, generation params and
// load params. It has no side effects.
func (d Descriptor) Sanitize(req GenerationRequest) (string, GenerationParams, LoadParams, error) {
	useTemplate := req.UseDefaultTemplate == nil || *req.UseDefaultTemplate
	text, err := prompt.Process(req.Instruction, d.Template, useTemplate, req.Extra)
	if err != nil {
		return "", GenerationParams{}, nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	params := GenerationParams{
		MaxNewTokens: req.MaxNewTokens,
		TopK:         req.TopK,
		TopP:         req.TopP,
		Temperature:  req.Temperature,
		Extra:        maps.Clone(req.Extra),
	}
	return text, params, LoadParams{}, nil
}

// Generation is one element of a runtime generation result.
type Generation struct {
	GeneratedText *string `json:"generated_text"`
}

// Postprocess extracts the generated text of the first result element.
func (d Descriptor) Postprocess(_ string, result []Generation) (string, error) {
	if len(result) == 0 {
		return "", errs.ContractViolation("generation result is empty")
	}
	if result[0].GeneratedText == nil {
		return "", errs.ContractViolation("generation result[0] has no generated_text field")
	}
	return *result[0].GeneratedText, nil
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
