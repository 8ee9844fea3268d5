package tokenizer

import (
	"fmt"
	"slices"

	hftok "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// HF is a Hugging Face tokenizer loaded from a tokenizer.json file.
type HF struct {
	tk *hftok.Tokenizer
}

// LoadHF reads a tokenizer.json file with its added tokens, pre-tokenizer and
// model.
func LoadHF(path string) (*HF, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", path, err)
	}
	return &HF{tk: tk}, nil
}

// Encode tokenizes text without adding the post-processor's special tokens.
func (h *HF) Encode(text string) ([]int, error) {
	en, err := h.tk.EncodeSingle(text, false)
	if err != nil {
		return nil, err
	}
	return slices.Clone(en.Ids), nil
}

// Close is a no-op; the tokenizer lives in Go memory.
func (h *HF) Close() error { return nil }
