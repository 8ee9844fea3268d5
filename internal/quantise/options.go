package quantise

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"modelcfg/internal/errs"
	"modelcfg/internal/kwargs"
)

// Int8Options overrides Int8Config defaults. Nil means "use the default".
type Int8Options struct {
	Threshold            *float64 `mapstructure:"llm_int8_threshhold"`
	EnableFP32CPUOffload *bool    `mapstructure:"llm_int8_enable_fp32_cpu_offload"`
	SkipModules          []string `mapstructure:"llm_int8_skip_modules"`
	HasFP16Weight        *bool    `mapstructure:"llm_int8_has_fp16_weight"`
}

// Int4Options overrides Int4Config defaults.
type Int4Options struct {
	ComputeDType   *string `mapstructure:"bnb_4bit_compute_dtype"`
	QuantType      *string `mapstructure:"bnb_4bit_quant_type"`
	UseDoubleQuant *bool   `mapstructure:"bnb_4bit_use_double_quant"`
}

// GPTQOptions overrides GPTQConfig defaults.
type GPTQOptions struct {
	Bits                          *int     `mapstructure:"bits"`
	Tokenizer                     *string  `mapstructure:"tokenizer"`
	Dataset                       *string  `mapstructure:"dataset"`
	GroupSize                     *int     `mapstructure:"group_size"`
	DampPercent                   *float64 `mapstructure:"damp_percent"`
	DescAct                       *bool    `mapstructure:"desc_act"`
	Sym                           *bool    `mapstructure:"sym"`
	TrueSequential                *bool    `mapstructure:"true_sequential"`
	UseCUDAFP16                   *bool    `mapstructure:"use_cuda_fp16"`
	ModelSeqLen                   *int     `mapstructure:"model_seqlen"`
	BlockNameToQuantize           *string  `mapstructure:"block_name_to_quantize"`
	ModuleNamePrecedingFirstBlock *string  `mapstructure:"module_name_preceding_first_block"`
	BatchSize                     *int     `mapstructure:"batch_size"`
	PadTokenID                    *int     `mapstructure:"pad_token_id"`
	DisableExllama                *bool    `mapstructure:"disable_exllama"`
}

// AWQOptions overrides AWQConfig defaults.
type AWQOptions struct {
	Bits      *int  `mapstructure:"bits"`
	GroupSize *int  `mapstructure:"group_size"`
	ZeroPoint *bool `mapstructure:"zero_point"`
}

// Request is a quantisation request. Only the options matching Mode are read.
type Request struct {
	Mode Mode
	// ModelID is the default GPTQ calibration tokenizer.
	ModelID string

	Int8 Int8Options
	Int4 Int4Options
	GPTQ GPTQOptions
	AWQ  AWQOptions

	// Extra carries overrides the selected mode does not consume; they are
	// handed back untouched so the caller can apply them elsewhere.
	Extra map[string]any
}

// DecodeOverrides builds a Request from the loader's flat keyword form.
// Values are weakly typed, so "5.0" is accepted for a float and "true" for a
// bool, but 2.5 is not an int. Keys match exactly; keys the mode does not
// consume end up in Request.Extra.
func DecodeOverrides(mode Mode, modelID string, kw map[string]any) (Request, error) {
	req := Request{Mode: mode, ModelID: modelID}
	var target any
	switch mode {
	case ModeInt8:
		target = &req.Int8
	case ModeInt4:
		target = &req.Int4
	case ModeGPTQ:
		target = &req.GPTQ
	case ModeAWQ:
		target = &req.AWQ
	default:
		return Request{}, unknownModeError(string(mode))
	}

	var md mapstructure.Metadata
	dec, err := kwargs.NewDecoder(target, &md, mapstructure.StringToSliceHookFunc(","))
	if err != nil {
		return Request{}, err
	}
	if err := dec.Decode(kw); err != nil {
		return Request{}, errs.Validation(string(mode)+" overrides", "%v", err)
	}
	if len(md.Unused) > 0 {
		req.Extra = make(map[string]any, len(md.Unused))
		for _, k := range md.Unused {
			req.Extra[k] = kw[k]
		}
	}
	return req, nil
}

// Keys returns the override keys mode consumes, sorted.
func Keys(mode Mode) []string {
	var opts any
	switch mode {
	case ModeInt8:
		opts = Int8Options{}
	case ModeInt4:
		opts = Int4Options{}
	case ModeGPTQ:
		opts = GPTQOptions{}
	case ModeAWQ:
		opts = AWQOptions{}
	default:
		return nil
	}
	t := reflect.TypeOf(opts)
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("mapstructure"), ",")
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func orDefault[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
