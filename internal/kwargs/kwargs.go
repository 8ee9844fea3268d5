// Package kwargs decodes flat keyword maps (JSON bodies, CLI key=value pairs,
// descriptor overrides) into typed option structs.
package kwargs

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// NewDecoder returns a weakly typed decoder into result. Keys match field tags
// exactly, so "Temperature" is not taken for "temperature". A float with a
// fractional part is rejected for integer fields instead of being truncated.
// Extra hooks run before those checks.
func NewDecoder(result any, md *mapstructure.Metadata, hooks ...mapstructure.DecodeHookFunc) (*mapstructure.Decoder, error) {
	hooks = append(hooks, rejectFractional)
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		Metadata:         md,
		WeaklyTypedInput: true,
		MatchName:        func(key, field string) bool { return key == field },
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(hooks...),
	})
}

func rejectFractional(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("expected an integer, got %v", f)
	}
	return data, nil
}
