package types

// ModelsResponse wraps the list of model families returned by GET /models.
type ModelsResponse struct {
	// Registered model families, sorted by name.
	Models []Model `json:"models"`
}

// PromptResponse is returned by POST /models/{family}/prompt.
//
// The request body is a flat keyword object: "prompt" (required),
// "max_new_tokens", "temperature", "top_k", "top_p",
// "use_default_prompt_template" and any extra template variables or runtime
// keywords.
type PromptResponse struct {
	// Formatted prompt handed to the model.
	Prompt string `json:"prompt"`
	// Whether the family's default template was applied.
	Templated bool `json:"templated"`
	// Generation-time keywords; unset values are null.
	GenerationParams map[string]any `json:"generation_params"`
	// Load-time keywords.
	LoadParams map[string]any `json:"load_params"`
}

// Generation is one element of a runtime generation result.
type Generation struct {
	// example: Paris is the capital of France.
	GeneratedText *string `json:"generated_text" example:"Paris is the capital of France."`
}

// PostprocessRequest is the body of POST /models/{family}/postprocess.
type PostprocessRequest struct {
	// Prompt that produced the result.
	Prompt string `json:"prompt"`
	// Raw runtime result; the first element is used.
	Result []Generation `json:"result"`
}

// PostprocessResponse carries the extracted text.
type PostprocessResponse struct {
	// example: Paris is the capital of France.
	Text string `json:"text" example:"Paris is the capital of France."`
}

// QuantiseRequest is the body of POST /quantise.
type QuantiseRequest struct {
	// Quantisation mode: int8, int4, gptq or awq.
	// example: int8
	Mode string `json:"quantize" example:"int8"`
	// Model id; used as the GPTQ calibration tokenizer. Defaults to the default family's default id.
	// example: databricks/dolly-v2-3b
	ModelID string `json:"model_id,omitempty" example:"databricks/dolly-v2-3b"`
	// Keyword overrides in the loader's naming, e.g. {"llm_int8_threshhold": 5.0}.
	Overrides map[string]any `json:"overrides,omitempty"`
}

// QuantiseResponse carries the selected configuration.
type QuantiseResponse struct {
	// example: int8
	Mode string `json:"quantize" example:"int8"`
	// example: databricks/dolly-v2-3b
	ModelID string `json:"model_id" example:"databricks/dolly-v2-3b"`
	// Loader configuration; shape depends on the mode.
	Config any `json:"config"`
	// Overrides the mode did not consume.
	Extra map[string]any `json:"extra,omitempty"`
}

// BackendStatus is one optional backend in GET /backends.
type BackendStatus struct {
	// example: bitsandbytes
	Name string `json:"name" example:"bitsandbytes"`
	// Python module probed for availability.
	// example: bitsandbytes
	Module string `json:"module,omitempty" example:"bitsandbytes"`
	// example: true
	Available bool `json:"available" example:"true"`
	// True when the value comes from configuration instead of the probe.
	Forced bool `json:"forced,omitempty"`
}

// BackendsResponse is returned by GET /backends.
type BackendsResponse struct {
	// Interpreter used for probing.
	// example: /usr/bin/python3
	Python string `json:"python,omitempty" example:"/usr/bin/python3"`
	// Per-backend availability.
	Backends []BackendStatus `json:"backends"`
	// Probe problem, if any.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Number of registered families.
	// example: 1
	Families int `json:"families" example:"1"`
	// Family used when a request names none.
	// example: dolly-v2
	DefaultFamily string `json:"default_family" example:"dolly-v2"`
	// Quantisation modes the current backends can serve.
	Modes []string `json:"quantise_modes"`
	// Prompts formatted since start.
	// example: 12
	PromptsTotal uint64 `json:"prompts_total" example:"12"`
	// Postprocess calls since start.
	// example: 12
	PostprocessTotal uint64 `json:"postprocess_total" example:"12"`
	// Quantisation configs produced since start.
	// example: 3
	QuantiseTotal uint64 `json:"quantise_total" example:"3"`
	// Failed operations since start.
	// example: 1
	ErrorsTotal uint64 `json:"errors_total" example:"1"`
	// Last error observed (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
