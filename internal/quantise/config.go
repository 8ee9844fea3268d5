package quantise

import (
	"slices"
	"strings"

	"modelcfg/internal/errs"
)

// Config is one of Int8Config, Int4Config, GPTQConfig or AWQConfig.
type Config interface {
	Mode() Mode
	isConfig()
}

// Loader quant_method tags.
const (
	MethodBitsAndBytes = "bitsandbytes"
	MethodGPTQ         = "gptq"
	MethodAWQ          = "awq"
)

// DType names a floating point type understood by the loader.
type DType string

const (
	Float16  DType = "float16"
	BFloat16 DType = "bfloat16"
	Float32  DType = "float32"
)

// ParseDType accepts bare names and "torch."-qualified ones.
func ParseDType(s string) (DType, error) {
	d := DType(strings.TrimPrefix(strings.TrimSpace(s), "torch."))
	switch d {
	case Float16, BFloat16, Float32:
		return d, nil
	}
	return "", errs.ValidationError{
		Field:    "bnb_4bit_compute_dtype",
		Msg:      "unsupported dtype " + s,
		Accepted: []string{string(Float16), string(BFloat16), string(Float32)},
	}
}

// Int8Config is the 8-bit bitsandbytes configuration.
type Int8Config struct {
	QuantMethod                 string   `json:"quant_method"`
	LoadIn8Bit                  bool     `json:"load_in_8bit"`
	LLMInt8Threshold            float64  `json:"llm_int8_threshhold"`
	LLMInt8EnableFP32CPUOffload bool     `json:"llm_int8_enable_fp32_cpu_offload"`
	LLMInt8SkipModules          []string `json:"llm_int8_skip_modules"`
	LLMInt8HasFP16Weight        bool     `json:"llm_int8_has_fp16_weight"`
}

func (Int8Config) Mode() Mode { return ModeInt8 }
func (Int8Config) isConfig()  {}

// Int4Config is the 4-bit bitsandbytes configuration.
type Int4Config struct {
	QuantMethod           string `json:"quant_method"`
	LoadIn4Bit            bool   `json:"load_in_4bit"`
	BNB4BitComputeDType   DType  `json:"bnb_4bit_compute_dtype"`
	BNB4BitQuantType      string `json:"bnb_4bit_quant_type"`
	BNB4BitUseDoubleQuant bool   `json:"bnb_4bit_use_double_quant"`
}

func (Int4Config) Mode() Mode { return ModeInt4 }
func (Int4Config) isConfig()  {}

// GPTQConfig is the GPTQ post-training quantisation configuration.
type GPTQConfig struct {
	QuantMethod                   string  `json:"quant_method"`
	Bits                          int     `json:"bits"`
	Tokenizer                     string  `json:"tokenizer"`
	Dataset                       string  `json:"dataset"`
	GroupSize                     int     `json:"group_size"`
	DampPercent                   float64 `json:"damp_percent"`
	DescAct                       bool    `json:"desc_act"`
	Sym                           bool    `json:"sym"`
	TrueSequential                bool    `json:"true_sequential"`
	UseCUDAFP16                   bool    `json:"use_cuda_fp16"`
	ModelSeqLen                   *int    `json:"model_seqlen"`
	BlockNameToQuantize           *string `json:"block_name_to_quantize"`
	ModuleNamePrecedingFirstBlock *string `json:"module_name_preceding_first_block"`
	BatchSize                     int     `json:"batch_size"`
	PadTokenID                    *int    `json:"pad_token_id"`
	DisableExllama                bool    `json:"disable_exllama"`
}

func (GPTQConfig) Mode() Mode { return ModeGPTQ }
func (GPTQConfig) isConfig()  {}

// AWQConfig is the AWQ post-training quantisation configuration.
type AWQConfig struct {
	QuantMethod string `json:"quant_method"`
	Bits        int    `json:"bits"`
	GroupSize   int    `json:"group_size"`
	ZeroPoint   bool   `json:"zero_point"`
}

func (AWQConfig) Mode() Mode { return ModeAWQ }
func (AWQConfig) isConfig()  {}

var (
	bnb4QuantTypes = []string{"nf4", "fp4"}
	gptqBits       = []int{2, 3, 4, 8}
)

func (c Int4Config) validate() error {
	if !slices.Contains(bnb4QuantTypes, c.BNB4BitQuantType) {
		return errs.ValidationError{Field: "bnb_4bit_quant_type", Msg: "unsupported quant type " + c.BNB4BitQuantType, Accepted: bnb4QuantTypes}
	}
	return nil
}

func (c GPTQConfig) validate() error {
	if !slices.Contains(gptqBits, c.Bits) {
		return errs.Validation("bits", "gptq supports 2, 3, 4 or 8 bits, got %d", c.Bits)
	}
	if c.GroupSize != -1 && c.GroupSize <= 0 {
		return errs.Validation("group_size", "must be -1 or greater than 0, got %d", c.GroupSize)
	}
	if c.DampPercent <= 0 || c.DampPercent >= 1 {
		return errs.Validation("damp_percent", "must be between 0 and 1, got %g", c.DampPercent)
	}
	if c.BatchSize <= 0 {
		return errs.Validation("batch_size", "must be positive, got %d", c.BatchSize)
	}
	return nil
}
