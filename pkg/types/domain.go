package types

// GenerationConfig mirrors a family's generation defaults.
type GenerationConfig struct {
	// example: 0.9
	Temperature float64 `json:"temperature" example:"0.9"`
	// example: 0.92
	TopP float64 `json:"top_p" example:"0.92"`
	// example: 5
	TopK int `json:"top_k" example:"5"`
	// example: 256
	MaxNewTokens int `json:"max_new_tokens" example:"256"`
	// example: 50277
	EOSTokenID int `json:"eos_token_id" example:"50277"`
}

// Model describes a registered model family.
type Model struct {
	// Registry key of the family.
	// example: dolly-v2
	Name string `json:"name" example:"dolly-v2"`
	// Model architecture class name.
	// example: GPTNeoXForCausalLM
	Architecture string `json:"architecture" example:"GPTNeoXForCausalLM"`
	// Model id used when a request does not name one.
	// example: databricks/dolly-v2-3b
	DefaultID string `json:"default_id" example:"databricks/dolly-v2-3b"`
	// Every model id of the family.
	ModelIDs []string `json:"model_ids"`
	// Project homepage.
	// example: https://github.com/databrickslabs/dolly
	URL string `json:"url,omitempty" example:"https://github.com/databrickslabs/dolly"`
	// Per-request timeout in seconds.
	// example: 3600000
	TimeoutSeconds int64 `json:"timeout" example:"3600000"`
	// Whether the runtime returns the prompt along with the completion.
	ReturnFullText bool `json:"return_full_text"`
	// Prompt template with {instruction} placeholder. Only set on single-model responses.
	Template string `json:"template,omitempty"`
	// Generation defaults.
	Generation GenerationConfig `json:"generation_config"`
}
