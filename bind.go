package cstruct

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/rawbytedev/cstruct/internal/common"
)

// Go struct fields map to struct field names through the `cstruct` tag. An
// untagged exported field uses its name with the leading capitals lowered
// (Count -> count, ID -> id, HTTPPort -> httpPort). A tag of "-" skips it.
const tagName = "cstruct"

type bindField struct {
	idx  int
	name string
}

type bindPlan struct {
	fields []bindField
}

var plans = struct {
	mu sync.RWMutex
	m  map[reflect.Type]*bindPlan
}{m: make(map[reflect.Type]*bindPlan)}

func planFor(t reflect.Type) *bindPlan {
	plans.mu.RLock()
	if plan, ok := plans.m[t]; ok {
		plans.mu.RUnlock()
		return plan
	}
	plans.mu.RUnlock()

	plans.mu.Lock()
	defer plans.mu.Unlock()

	// Double-check
	if plan, ok := plans.m[t]; ok {
		return plan
	}

	plan := &bindPlan{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		name := sf.Tag.Get(tagName)
		if name == "-" {
			continue
		}
		if name == "" {
			name = lowerCamel(sf.Name)
		}
		plan.fields = append(plan.fields, bindField{idx: i, name: name})
	}
	plans.m[t] = plan
	return plan
}

func lowerCamel(s string) string {
	r := []rune(s)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n > 1 && n < len(r) && unicode.IsLower(r[n]):
		// keep the capital that starts the next word
		n--
	}
	return strings.ToLower(string(r[:n])) + string(r[n:])
}

// structValues flattens a Go struct (or pointer to one) into field values
// keyed by struct field name.
func structValues(value any) (map[string]any, error) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, ErrNotStruct
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}
	plan := planFor(v.Type())
	out := make(map[string]any, len(plan.fields))
	for _, f := range plan.fields {
		fv := v.Field(f.idx)
		if fv.Kind() == reflect.Pointer && fv.Type() != bigIntPtr {
			if fv.IsNil() {
				out[f.name] = nil
				continue
			}
			fv = fv.Elem()
		}
		out[f.name] = fv.Interface()
	}
	return out, nil
}

var (
	bigIntPtr = reflect.TypeOf((*big.Int)(nil))
	bigIntVal = bigIntPtr.Elem()
)

// Bind copies the record into the struct pointed to by out. Record fields
// without a matching Go field are ignored, and Go fields without a record
// value keep their contents.
func (r *Record) Bind(out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	return r.bindTo(v.Elem())
}

func (r *Record) bindTo(dst reflect.Value) error {
	for _, f := range planFor(dst.Type()).fields {
		val, ok := r.Lookup(f.name)
		if !ok {
			continue
		}
		if err := assign(dst.Field(f.idx), val); err != nil {
			return wrapField(OpRead, f.name, err)
		}
	}
	return nil
}

func assign(dst reflect.Value, val any) error {
	if val == nil {
		dst.SetZero()
		return nil
	}
	src := reflect.ValueOf(val)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	switch dst.Type() {
	case bigIntVal, bigIntPtr:
		n, ok := common.ToBig(val)
		if !ok {
			return mismatch(dst, val)
		}
		if dst.Type() == bigIntPtr {
			dst.Set(reflect.ValueOf(n))
		} else {
			dst.Set(reflect.ValueOf(n).Elem())
		}
		return nil
	}

	switch kind := dst.Kind(); {
	case kind == reflect.Pointer:
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), val); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	case kind == reflect.Struct:
		rec, ok := val.(*Record)
		if !ok {
			return mismatch(dst, val)
		}
		return rec.bindTo(dst)
	case kind == reflect.Slice || kind == reflect.Array:
		items, ok := val.([]any)
		if !ok {
			return mismatch(dst, val)
		}
		n := len(items)
		if kind == reflect.Slice {
			dst.Set(reflect.MakeSlice(dst.Type(), n, n))
		} else if n > dst.Len() {
			n = dst.Len()
		}
		for i := 0; i < n; i++ {
			if err := assign(dst.Index(i), items[i]); err != nil {
				return wrapField(OpRead, index(i), err)
			}
		}
		return nil
	case common.IsIntKind(kind):
		n, ok := common.ToInt64(val)
		if !ok || dst.OverflowInt(n) {
			return mismatch(dst, val)
		}
		dst.SetInt(n)
		return nil
	case common.IsUintKind(kind):
		n, ok := common.ToUint64(val)
		if !ok || dst.OverflowUint(n) {
			return mismatch(dst, val)
		}
		dst.SetUint(n)
		return nil
	case common.IsFloatKind(kind):
		f, ok := common.ToFloat64(val)
		if !ok {
			return mismatch(dst, val)
		}
		dst.SetFloat(f)
		return nil
	case kind == reflect.Bool:
		b, ok := common.ToBool(val)
		if !ok {
			return mismatch(dst, val)
		}
		dst.SetBool(b)
		return nil
	case kind == reflect.String:
		s, ok := val.(string)
		if !ok {
			return mismatch(dst, val)
		}
		dst.SetString(s)
		return nil
	}
	return mismatch(dst, val)
}

func mismatch(dst reflect.Value, val any) error {
	return fmt.Errorf("%w: cannot bind %T to %s", ErrTypeMismatch, val, dst.Type())
}
