//go:build llama

package tokenizer

import (
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// LlamaBuilt reports whether this binary was compiled with llama support.
const LlamaBuilt = true

// Llama tokenizes with the vocabulary embedded in a GGUF model.
type Llama struct {
	model *llama.LLama
}

// OpenLlama loads the model at modelPath for tokenization only.
func OpenLlama(modelPath string, ctxSize int) (*Llama, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(modelPath, llama.SetContext(ctxSize))
	if err != nil {
		return nil, err
	}
	return &Llama{model: m}, nil
}

// Encode implements modelconfig.Tokenizer.
func (l *Llama) Encode(text string) ([]int, error) {
	if l.model == nil {
		return nil, errors.New("llama model not initialized")
	}
	_, toks, err := l.model.TokenizeString(text)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(toks))
	for i, t := range toks {
		ids[i] = int(t)
	}
	return ids, nil
}

// Close frees the native model.
func (l *Llama) Close() error {
	if l.model != nil {
		l.model.Free()
		l.model = nil
	}
	return nil
}
