package cstruct

import (
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/rawbytedev/cstruct/internal/common"
)

// Array is a fixed-count run of elements laid out back to back.
type Array struct {
	elem Builder
	n    int
}

// SizedArray lays out n elements of b. The array is writable when b is, and
// live-viewable when b is writable or live-viewable; a read-only element
// makes a read-only array.
func SizedArray(b Builder, n int) Builder {
	if n < 0 {
		n = 0
	}
	a := &Array{elem: b, n: n}
	return restrict(a, CanWrite(b), CanWrite(b) || CanProxy(b))
}

func (a *Array) Len() int       { return a.n }
func (a *Array) Elem() Builder  { return a.elem }
func (a *Array) Size() int      { return a.n * a.elem.Size() }
func (a *Array) Alignment() int { return AlignmentOf(a.elem) }

func (a *Array) at(opts Options, i int) Options {
	return opts.Shift(i * a.elem.Size())
}

// Read decodes all elements into a new slice.
func (a *Array) Read(opts Options, _ Context) (any, error) {
	out := make([]any, a.n)
	for i := range out {
		v, err := a.elem.Read(a.at(opts, i), NoContext)
		if err != nil {
			return nil, wrapField(OpRead, index(i), err)
		}
		out[i] = v
	}
	return out, nil
}

// Write stores the elements of a slice or array value. Only the first n
// elements are written; when fewer are given the remaining slots keep their
// current bytes.
func (a *Array) Write(value any, opts Options, _ Context) error {
	w, ok := a.elem.(Writer)
	if !ok {
		return ErrReadOnly
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		if av, ok := value.(*ArrayView); ok {
			items, err := av.Snapshot()
			if err != nil {
				return err
			}
			return a.Write(items, opts, nil)
		}
		return fmt.Errorf("%w: array cannot store %T", ErrTypeMismatch, value)
	}
	count := rv.Len()
	if count > a.n {
		Logger().Debug("truncating array write", zap.Int("given", count), zap.Int("len", a.n))
		count = a.n
	}
	for i := 0; i < count; i++ {
		if err := w.Write(rv.Index(i).Interface(), a.at(opts, i), NoContext); err != nil {
			return wrapField(OpWrite, index(i), err)
		}
	}
	return nil
}

// Proxy returns an *ArrayView over the buffer.
func (a *Array) Proxy(opts Options, _ Context) (any, error) {
	return &ArrayView{array: a, opts: opts}, nil
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// ArrayView is a live, index-addressed array. Indices outside [0, Len) never
// grow the array: Get yields nil and Set fails with ErrIndexOutOfRange.
type ArrayView struct {
	array *Array
	opts  Options
}

func (v *ArrayView) Len() int { return v.array.n }

func (v *ArrayView) Get(i int) (any, error) {
	if i < 0 || i >= v.array.n {
		return nil, nil
	}
	opts := v.array.at(v.opts, i)
	if p, ok := v.array.elem.(Proxier); ok {
		return p.Proxy(opts, NoContext)
	}
	return v.array.elem.Read(opts, NoContext)
}

func (v *ArrayView) Set(i int, value any) error {
	if i < 0 || i >= v.array.n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, v.array.n)
	}
	w, ok := v.array.elem.(Writer)
	if !ok {
		return ErrReadOnly
	}
	return w.Write(value, v.array.at(v.opts, i), NoContext)
}

// Snapshot decodes every element as it currently is in the buffer.
func (v *ArrayView) Snapshot() ([]any, error) {
	out, err := v.array.Read(v.opts, NoContext)
	if err != nil {
		return nil, err
	}
	return out.([]any), nil
}

// Struct returns the live view of element i when the elements are structs.
func (v *ArrayView) Struct(i int) (*View, error) {
	val, err := v.Get(i)
	if err != nil {
		return nil, err
	}
	sv, ok := val.(*View)
	if !ok {
		return nil, fmt.Errorf("%w: element %d is %T, not a struct", ErrTypeMismatch, i, val)
	}
	return sv, nil
}

type pointerArray struct {
	elem  Builder
	field string
}

// PointerArrayFromLengthField reads a 32-bit pointer and decodes as many
// elements as the sibling field named lengthField holds, starting at the
// pointed-to offset. It is read-only: the length belongs to the sibling.
func PointerArrayFromLengthField(b Builder, lengthField string) Builder {
	return &pointerArray{elem: b, field: lengthField}
}

func (p *pointerArray) Size() int { return 4 }

func (p *pointerArray) Read(opts Options, ctx Context) (any, error) {
	raw, ok := orEmpty(ctx).Lookup(p.field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingContext, p.field)
	}
	n, ok := common.ToInt64(raw)
	if !ok || n < 0 {
		return nil, fmt.Errorf("%w: %s holds %v", ErrMissingContext, p.field, raw)
	}
	ptr := int(common.Uint32(opts.Buf, opts.Offset, opts.order()))
	size := p.elem.Size()
	if ptr > len(opts.Buf) || (size > 0 && n > int64((len(opts.Buf)-ptr)/size)) {
		panic(fmt.Sprintf("cstruct: %d elements of %d bytes at %d exceed buffer of %d bytes",
			n, size, ptr, len(opts.Buf)))
	}
	out := make([]any, n)
	for i := range out {
		v, err := p.elem.Read(opts.At(ptr+i*size), NoContext)
		if err != nil {
			return nil, wrapField(OpRead, index(i), err)
		}
		out[i] = v
	}
	return out, nil
}
