// Package modelconfig holds per-family model configuration descriptors: static
// metadata, generation defaults and the prompt template, plus the functions that
// turn a raw instruction into the prompt and parameter maps a runtime expects.
//
// Descriptors are plain values. They are built once at process start (built-in
// families, or files loaded by the registry) and never mutated afterwards, so
// every method here is safe for concurrent use.
package modelconfig

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"modelcfg/internal/errs"
)

// GenerationConfig carries the generation defaults of a model family.
type GenerationConfig struct {
	Temperature  float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopP         float64 `json:"top_p" yaml:"top_p" toml:"top_p"`
	TopK         int     `json:"top_k" yaml:"top_k" toml:"top_k"`
	MaxNewTokens int     `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	EOSTokenID   int     `json:"eos_token_id" yaml:"eos_token_id" toml:"eos_token_id"`
}

// Descriptor is the static configuration of one model family.
type Descriptor struct {
	// Name is the registry key, e.g. "dolly-v2".
	Name         string   `json:"name" yaml:"name" toml:"name"`
	Architecture string   `json:"architecture" yaml:"architecture" toml:"architecture"`
	DefaultID    string   `json:"default_id" yaml:"default_id" toml:"default_id"`
	ModelIDs     []string `json:"model_ids" yaml:"model_ids" toml:"model_ids"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`

	// TimeoutSeconds bounds a single request in the runtime.
	TimeoutSeconds int64 `json:"timeout" yaml:"timeout" toml:"timeout"`

	// ReturnFullText asks the runtime to return the prompt along with the completion.
	ReturnFullText bool `json:"return_full_text" yaml:"return_full_text" toml:"return_full_text"`

	Template   string           `json:"template" yaml:"template" toml:"template"`
	Generation GenerationConfig `json:"generation_config" yaml:"generation_config" toml:"generation_config"`
}

// Timeout returns TimeoutSeconds as a duration.
func (d Descriptor) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Clone returns a deep copy so callers cannot alias the registry's slices.
func (d Descriptor) Clone() Descriptor {
	d.ModelIDs = slices.Clone(d.ModelIDs)
	return d
}

// Supports reports whether id is one of the family's model ids.
func (d Descriptor) Supports(id string) bool {
	return slices.Contains(d.ModelIDs, id)
}

// Validate checks the invariants every registered descriptor must hold.
func (d Descriptor) Validate() error {
	var problems []string
	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name is empty")
	}
	if strings.TrimSpace(d.Architecture) == "" {
		problems = append(problems, "architecture is empty")
	}
	if d.DefaultID == "" {
		problems = append(problems, "default_id is empty")
	} else if !d.Supports(d.DefaultID) {
		problems = append(problems, fmt.Sprintf("default_id %q is not listed in model_ids", d.DefaultID))
	}
	if d.TimeoutSeconds <= 0 {
		problems = append(problems, "timeout must be positive")
	}
	if len(problems) > 0 {
		return errs.Validation("descriptor "+d.Name, "%s", strings.Join(problems, "; "))
	}
	return nil
}
