//go:build !llama

package tokenizer

// This file provides a no-CGO stub for the llama tokenizer. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds CGO-free.

import "modelcfg/internal/errs"

// LlamaBuilt reports whether this binary was compiled with llama support.
const LlamaBuilt = false

var errLlamaMissing = errs.MissingDependency("GGUF tokenization", "Rebuild with '-tags=llama'", "llama.cpp")

// Llama is a stub that refuses to tokenize without the 'llama' build tag.
type Llama struct{}

// OpenLlama fails fast: llama runtime not available in this build.
func OpenLlama(modelPath string, ctxSize int) (*Llama, error) {
	return nil, errLlamaMissing
}

// Encode implements modelconfig.Tokenizer.
func (l *Llama) Encode(text string) ([]int, error) { return nil, errLlamaMissing }

// Close is a no-op in the stub.
func (l *Llama) Close() error { return nil }
