// Package tokenizer opens the tokenizers used to resolve special marker ids:
// a tokenizer.json through github.com/sugarme/tokenizer, or a GGUF model
// through go-llama.cpp when built with the llama tag.
package tokenizer

import "modelcfg/internal/common/fsutil"

// Tokenizer encodes text to token ids and releases its resources on Close.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Close() error
}

// ggufContext is the context size used when a GGUF model is opened only to
// tokenize short markers.
const ggufContext = 512

// Open picks an implementation by file extension: *.gguf files go through
// llama.cpp, anything else is read as a tokenizer.json.
func Open(path string) (Tokenizer, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if fsutil.Ext(p) == ".gguf" {
		l, err := OpenLlama(p, ggufContext)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	h, err := LoadHF(p)
	if err != nil {
		return nil, err
	}
	return h, nil
}
