package cstruct

import (
	"fmt"
)

// View is a live, buffer-backed struct. Every Get decodes from the buffer at
// call time and every Set encodes straight into it; nothing is cached. Views
// of nested structs and arrays share the same buffer.
type View struct {
	layout *Struct
	opts   Options
}

func (v *View) Layout() *Struct  { return v.layout }
func (v *View) Options() Options { return v.opts }
func (v *View) Names() []string  { return v.layout.Names() }

func (v *View) optsFor(i int) Options {
	return v.opts.Shift(v.layout.fields[i].offset)
}

func (v *View) contextFor(i int) *viewContext {
	return &viewContext{view: v, limit: i, err: new(error)}
}

func (v *View) field(name string) (int, error) {
	if err := v.layout.err; err != nil {
		return -1, err
	}
	i := v.layout.find(name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return i, nil
}

// Get returns the live value of a field: a nested *View or *ArrayView for
// builders that support it, the decoded value otherwise.
func (v *View) Get(name string) (any, error) {
	i, err := v.field(name)
	if err != nil {
		return nil, err
	}
	f := v.layout.fields[i]
	ctx := v.contextFor(i)
	op := OpRead
	var val any
	if p, ok := f.builder.(Proxier); ok {
		op = OpProxy
		val, err = p.Proxy(v.optsFor(i), ctx)
	} else {
		val, err = f.builder.Read(v.optsFor(i), ctx)
	}
	if serr := ctx.failure(); serr != nil {
		return nil, serr
	}
	return val, wrapField(op, name, err)
}

// Set encodes value into the field. Read-only fields return ErrReadOnly.
func (v *View) Set(name string, value any) error {
	i, err := v.field(name)
	if err != nil {
		return err
	}
	w, ok := v.layout.fields[i].builder.(Writer)
	if !ok {
		return wrapField(OpWrite, name, ErrReadOnly)
	}
	return v.write(i, w, value)
}

func (v *View) write(i int, w Writer, value any) error {
	ctx := v.contextFor(i)
	err := w.Write(value, v.optsFor(i), ctx)
	if serr := ctx.failure(); serr != nil {
		return serr
	}
	return wrapField(OpWrite, v.layout.fields[i].name, err)
}

// Struct returns the nested live view of a struct field.
func (v *View) Struct(name string) (*View, error) {
	val, err := v.Get(name)
	if err != nil {
		return nil, err
	}
	sv, ok := val.(*View)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a struct", ErrTypeMismatch, name, val)
	}
	return sv, nil
}

// Array returns the live view of an array field.
func (v *View) Array(name string) (*ArrayView, error) {
	val, err := v.Get(name)
	if err != nil {
		return nil, err
	}
	av, ok := val.(*ArrayView)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not an array", ErrTypeMismatch, name, val)
	}
	return av, nil
}

// Snapshot decodes the whole struct as it currently is in the buffer.
func (v *View) Snapshot() (*Record, error) {
	return v.layout.Decode(v.opts)
}

// viewContext resolves siblings declared before limit by reading them from
// the buffer on demand. The first sibling that fails to decode is kept in
// err, shared with the contexts of nested lookups, so the access reports it
// instead of the absence it causes.
type viewContext struct {
	view  *View
	limit int
	err   *error
}

func (c *viewContext) Lookup(name string) (any, bool) {
	for j := 0; j < c.limit; j++ {
		f := c.view.layout.fields[j]
		if f.name != name {
			continue
		}
		val, err := f.builder.Read(c.view.optsFor(j), &viewContext{view: c.view, limit: j, err: c.err})
		if err != nil {
			if *c.err == nil {
				*c.err = wrapField(OpRead, f.name, err)
			}
			return nil, false
		}
		return val, true
	}
	return nil, false
}

func (c *viewContext) failure() error { return *c.err }
