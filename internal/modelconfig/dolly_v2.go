package modelconfig

import "modelcfg/internal/prompt"

// Markers the dolly-v2 tokenizer carries as single special tokens.
const (
	InstructionKey = "### Instruction:"
	ResponseKey    = "### Response:"
	EndKey         = "### End"
)

// IntroBlurb opens every dolly-v2 prompt.
const IntroBlurb = "Below is an instruction that describes a task. Write a response that appropriately completes the request."

// DollyV2Template ends with the response key; the model completes from there.
var DollyV2Template = prompt.Lines(IntroBlurb, InstructionKey, "{instruction}", ResponseKey)

// DollyV2 is Databricks' instruction-following GPT-NeoX model family.
func DollyV2() Descriptor {
	return Descriptor{
		Name:         "dolly-v2",
		Architecture: "GPTNeoXForCausalLM",
		DefaultID:    "databricks/dolly-v2-3b",
		ModelIDs: []string{
			"databricks/dolly-v2-3b",
			"databricks/dolly-v2-7b",
			"databricks/dolly-v2-12b",
		},
		URL:            "https://github.com/databrickslabs/dolly",
		TimeoutSeconds: 3600000,
		ReturnFullText: false,
		Template:       DollyV2Template,
		Generation: GenerationConfig{
			Temperature:  0.9,
			TopP:         0.92,
			TopK:         5,
			MaxNewTokens: 256,
			EOSTokenID:   50277, // ResolveSpecialTokenID(tokenizer, EndKey)
		},
	}
}

// Builtin returns every family compiled into the binary.
func Builtin() []Descriptor {
	return []Descriptor{DollyV2()}
}
