package cstruct

import (
	"fmt"
	"sort"

	"github.com/rawbytedev/cstruct/internal/common"
)

// Enum maps the numeric value of an underlying builder to variant names.
type Enum struct {
	real     Builder
	variants map[string]int64
	names    []string
}

// EnumLike decodes the value of real to the name mapped to it. When several
// names share a value the lexicographically first one is returned. The enum
// is writable when real is.
func EnumLike(real Builder, variants map[string]int64) Builder {
	e := &Enum{real: real, variants: make(map[string]int64, len(variants))}
	for name, v := range variants {
		e.variants[name] = v
		e.names = append(e.names, name)
	}
	sort.Strings(e.names)
	return restrict(e, CanWrite(real), false)
}

func (e *Enum) Size() int      { return e.real.Size() }
func (e *Enum) Alignment() int { return AlignmentOf(e.real) }

// Variants returns the variant names in lexicographic order.
func (e *Enum) Variants() []string { return append([]string(nil), e.names...) }

func (e *Enum) Read(opts Options, ctx Context) (any, error) {
	raw, err := e.real.Read(opts, ctx)
	if err != nil {
		return nil, err
	}
	n, ok := common.ToInt64(raw)
	if !ok {
		return nil, fmt.Errorf("%w: enum over %T", ErrTypeMismatch, raw)
	}
	for _, name := range e.names {
		if e.variants[name] == n {
			return name, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownEnumValue, raw)
}

func (e *Enum) Write(value any, opts Options, ctx Context) error {
	name, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: enum variant must be a string, got %T", ErrTypeMismatch, value)
	}
	n, ok := e.variants[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEnumVariant, name)
	}
	w, ok := e.real.(Writer)
	if !ok {
		return ErrReadOnly
	}
	return w.Write(n, opts, ctx)
}
