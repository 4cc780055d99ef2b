package common

import (
	"math"
	"math/big"
	"reflect"
)

func IsIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func IsUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func IsFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// ToUint64 returns the two's complement bit pattern of any integer, float
// (truncated toward zero) or *big.Int (low 64 bits) value.
func ToUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case int:
		return uint64(x), true
	case int64:
		return uint64(x), true
	case *big.Int:
		if x == nil {
			return 0, false
		}
		return new(big.Int).And(x, mask64).Uint64(), true
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case IsUintKind(k):
		return rv.Uint(), true
	case IsIntKind(k):
		return uint64(rv.Int()), true
	case IsFloatKind(k):
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		if f < 0 {
			return uint64(int64(f)), true
		}
		return uint64(f), true
	}
	return 0, false
}

// ToInt64 is ToUint64 reinterpreted as signed.
func ToInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	if IsIntKind(rv.Kind()) {
		return rv.Int(), true
	}
	u, ok := ToUint64(v)
	return int64(u), ok
}

func ToFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case *big.Int:
		if x == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case IsFloatKind(k):
		return rv.Float(), true
	case IsIntKind(k):
		return float64(rv.Int()), true
	case IsUintKind(k):
		return float64(rv.Uint()), true
	}
	return 0, false
}

// ToBig widens any integer value to *big.Int. Signed kinds keep their sign.
func ToBig(v any) (*big.Int, bool) {
	if x, ok := v.(*big.Int); ok {
		if x == nil {
			return nil, false
		}
		return x, true
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case IsIntKind(k):
		return big.NewInt(rv.Int()), true
	case IsUintKind(k):
		return new(big.Int).SetUint64(rv.Uint()), true
	case IsFloatKind(k):
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		i, _ := big.NewFloat(f).Int(nil)
		return i, true
	}
	return nil, false
}

// ToBool accepts bool and any numeric value (non-zero is true).
func ToBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	u, ok := ToUint64(v)
	return u != 0, ok
}
