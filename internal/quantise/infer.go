package quantise

import (
	"slices"

	"modelcfg/internal/backend"
	"modelcfg/internal/errs"
)

// Result is the selected configuration plus the overrides it did not consume.
type Result struct {
	Config Config
	Extra  map[string]any
}

const (
	hintFineTune = `Make sure to install OpenLLM with 'pip install "openllm[fine-tune]"'`
	hintGPTQ     = `Make sure to do 'pip install "openllm[gptq]"'`
	hintAWQ      = `Make sure to do 'pip install "openllm[awq]"'`
)

// Infer builds the configuration for req.Mode. Only the backend the mode
// needs is checked against avail. Infer has no side effects, so identical
// inputs give equal results.
func Infer(req Request, avail backend.Availability) (Result, error) {
	if err := CheckBackends(req.Mode, avail); err != nil {
		return Result{}, err
	}
	var (
		cfg Config
		err error
	)
	switch req.Mode {
	case ModeInt8:
		cfg = buildInt8(req.Int8)
	case ModeInt4:
		cfg, err = buildInt4(req.Int4)
	case ModeGPTQ:
		cfg, err = buildGPTQ(req.GPTQ, req.ModelID, avail.CUDA)
	case ModeAWQ:
		cfg = buildAWQ(req.AWQ)
	default:
		return Result{}, unknownModeError(string(req.Mode))
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Config: cfg, Extra: cloneMap(req.Extra)}, nil
}

// Select parses mode, decodes the keyword overrides and infers the config.
func Select(mode, modelID string, kw map[string]any, avail backend.Availability) (Result, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Result{}, err
	}
	req, err := DecodeOverrides(m, modelID, kw)
	if err != nil {
		return Result{}, err
	}
	return Infer(req, avail)
}

// CheckBackends reports the MissingDependencyError Infer would return for m,
// or nil when the backends m needs are available.
func CheckBackends(m Mode, avail backend.Availability) error {
	switch m {
	case ModeInt8, ModeInt4:
		if !avail.BitsAndBytes {
			return errs.MissingDependency("quantize='"+string(m)+"'", hintFineTune, "bitsandbytes")
		}
	case ModeGPTQ:
		if !avail.AutoGPTQ || !avail.Optimum {
			return errs.MissingDependency("quantize='gptq'", hintGPTQ, "auto-gptq", "optimum>=0.12")
		}
	case ModeAWQ:
		if !avail.AutoAWQ {
			return errs.MissingDependency("quantize='awq'", hintAWQ, "auto-awq")
		}
	}
	return nil
}

func buildInt8(o Int8Options) Int8Config {
	return Int8Config{
		QuantMethod:                 MethodBitsAndBytes,
		LoadIn8Bit:                  true,
		LLMInt8Threshold:            orDefault(o.Threshold, 6.0),
		LLMInt8EnableFP32CPUOffload: orDefault(o.EnableFP32CPUOffload, false),
		LLMInt8SkipModules:          slices.Clone(o.SkipModules),
		LLMInt8HasFP16Weight:        orDefault(o.HasFP16Weight, false),
	}
}

func buildInt4(o Int4Options) (Int4Config, error) {
	dtype := BFloat16
	if o.ComputeDType != nil {
		d, err := ParseDType(*o.ComputeDType)
		if err != nil {
			return Int4Config{}, err
		}
		dtype = d
	}
	c := Int4Config{
		QuantMethod:           MethodBitsAndBytes,
		LoadIn4Bit:            true,
		BNB4BitComputeDType:   dtype,
		BNB4BitQuantType:      orDefault(o.QuantType, "nf4"),
		BNB4BitUseDoubleQuant: orDefault(o.UseDoubleQuant, true),
	}
	return c, c.validate()
}

func buildGPTQ(o GPTQOptions, modelID string, gpu bool) (GPTQConfig, error) {
	c := GPTQConfig{
		QuantMethod:                   MethodGPTQ,
		Bits:                          orDefault(o.Bits, 4),
		Tokenizer:                     orDefault(o.Tokenizer, modelID),
		Dataset:                       orDefault(o.Dataset, "c4"),
		GroupSize:                     orDefault(o.GroupSize, 128),
		DampPercent:                   orDefault(o.DampPercent, 0.1),
		DescAct:                       orDefault(o.DescAct, false),
		Sym:                           orDefault(o.Sym, true),
		TrueSequential:                orDefault(o.TrueSequential, true),
		UseCUDAFP16:                   orDefault(o.UseCUDAFP16, gpu),
		ModelSeqLen:                   clonePtr(o.ModelSeqLen),
		BlockNameToQuantize:           clonePtr(o.BlockNameToQuantize),
		ModuleNamePrecedingFirstBlock: clonePtr(o.ModuleNamePrecedingFirstBlock),
		BatchSize:                     orDefault(o.BatchSize, 1),
		PadTokenID:                    clonePtr(o.PadTokenID),
		DisableExllama:                orDefault(o.DisableExllama, false),
	}
	if c.Tokenizer == "" {
		return GPTQConfig{}, errs.Validation("tokenizer", "gptq needs a calibration tokenizer; pass a model id or set tokenizer")
	}
	return c, c.validate()
}

func buildAWQ(o AWQOptions) AWQConfig {
	return AWQConfig{
		QuantMethod: MethodAWQ,
		Bits:        orDefault(o.Bits, 4),
		GroupSize:   orDefault(o.GroupSize, 128),
		ZeroPoint:   orDefault(o.ZeroPoint, true),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
