package modelconfig

import (
	"fmt"

	"modelcfg/internal/errs"
)

// Tokenizer encodes text into vocabulary ids.
type Tokenizer interface {
	Encode(text string) ([]int, error)
}

// ResolveSpecialTokenID returns the single id tok assigns to marker. Markers
// such as "### End" are added to the vocabulary as special tokens during
// fine-tuning; if one splits into several ids the tokenizer does not match
// the model and the call fails.
func ResolveSpecialTokenID(tok Tokenizer, marker string) (int, error) {
	ids, err := tok.Encode(marker)
	if err != nil {
		return 0, fmt.Errorf("encode %q: %w", marker, err)
	}
	switch len(ids) {
	case 1:
		return ids[0], nil
	case 0:
		return 0, errs.Validation("special token", "expected a single token for %q but found none", marker)
	default:
		return 0, errs.Validation("special token", "expected only a single token for %q but found %v", marker, ids)
	}
}
