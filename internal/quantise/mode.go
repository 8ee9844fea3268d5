// Package quantise maps a requested quantisation mode plus keyword overrides
// onto the configuration the model loader expects.
//
// The four configuration shapes are modelled as a sealed sum type: Infer
// returns exactly one of Int8Config, Int4Config, GPTQConfig or AWQConfig,
// selected by the mode alone. Field JSON names are the loader's keyword names.
package quantise

import (
	"fmt"

	"modelcfg/internal/errs"
)

// Mode selects a quantisation scheme.
type Mode string

const (
	ModeInt8 Mode = "int8"
	ModeInt4 Mode = "int4"
	ModeGPTQ Mode = "gptq"
	ModeAWQ  Mode = "awq"
)

// Modes returns the accepted modes in their canonical order.
func Modes() []Mode {
	return []Mode{ModeInt8, ModeInt4, ModeGPTQ, ModeAWQ}
}

func (m Mode) String() string { return string(m) }

// Valid reports whether m is one of Modes().
func (m Mode) Valid() bool {
	switch m {
	case ModeInt8, ModeInt4, ModeGPTQ, ModeAWQ:
		return true
	}
	return false
}

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", unknownModeError(s)
	}
	return m, nil
}

func unknownModeError(got string) error {
	accepted := make([]string, 0, 4)
	for _, m := range Modes() {
		accepted = append(accepted, string(m))
	}
	return errs.ValidationError{
		Field:    "quantize",
		Msg:      fmt.Sprintf("must be one of the accepted modes, got %q instead", got),
		Accepted: accepted,
	}
}
