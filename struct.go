package cstruct

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rawbytedev/cstruct/internal/common"
)

type field struct {
	name    string
	builder Builder
	offset  int
}

// FieldInfo describes one laid-out field. Padding fields have an empty Name.
type FieldInfo struct {
	Name      string
	Offset    int
	Size      int
	Alignment int
	Writable  bool
	Live      bool
	Builder   Builder
}

// Struct is the layout of a C-like struct. It never holds buffer data and
// every chaining method returns a new Struct, so a layout can be shared
// across buffers and goroutines once built.
//
// Construction errors (empty or duplicate names, unknown override targets)
// are deferred: chaining continues and the first error is reported by Err
// and by every Read, Write and Proxy.
type Struct struct {
	fields []field
	end    int
	err    error
}

// New returns an empty layout with alignment 1 and size 0.
func New() *Struct {
	return &Struct{}
}

func (s *Struct) clone() *Struct {
	return &Struct{
		fields: append([]field(nil), s.fields...),
		end:    s.end,
		err:    s.err,
	}
}

func (s *Struct) fail(err error) *Struct {
	n := s.clone()
	if n.err == nil {
		n.err = err
		Logger().Debug("invalid struct definition", zap.Error(err))
	}
	return n
}

func (s *Struct) push(name string, b Builder) {
	offset := common.AlignTo(s.end, AlignmentOf(b))
	s.fields = append(s.fields, field{name: name, builder: b, offset: offset})
	s.end = offset + b.Size()
}

// Field appends a named field at the next offset aligned for b.
func (s *Struct) Field(name string, b Builder) *Struct {
	switch {
	case name == "":
		return s.fail(fmt.Errorf("%w: empty field name", ErrInvalidField))
	case b == nil:
		return s.fail(fmt.Errorf("%w: %s has no builder", ErrInvalidField, name))
	case s.find(name) >= 0:
		return s.fail(fmt.Errorf("%w: %s", ErrDuplicateField, name))
	}
	n := s.clone()
	n.push(name, b)
	return n
}

// Padding appends n unnamed bytes with alignment 1.
func (s *Struct) Padding(n int) *Struct {
	c := s.clone()
	c.push("", Padding(n))
	return c
}

// Override swaps the builder of an existing field. The field and everything
// after it are laid out again from the end of the preceding field; offsets of
// earlier fields are kept as they are.
func (s *Struct) Override(name string, b Builder) *Struct {
	i := s.find(name)
	switch {
	case name == "" || i < 0:
		return s.fail(fmt.Errorf("%w: %s", ErrUnknownField, name))
	case b == nil:
		return s.fail(fmt.Errorf("%w: %s has no builder", ErrInvalidField, name))
	}
	n := &Struct{fields: append([]field(nil), s.fields[:i]...), err: s.err}
	if i > 0 {
		prev := s.fields[i-1]
		n.end = prev.offset + prev.builder.Size()
	}
	for j := i; j < len(s.fields); j++ {
		f := s.fields[j]
		if j == i {
			f.builder = b
		}
		n.push(f.name, f.builder)
	}
	return n
}

func (s *Struct) find(name string) int {
	if name == "" {
		return -1
	}
	for i := range s.fields {
		if s.fields[i].name == name {
			return i
		}
	}
	return -1
}

// Err reports the first construction error, if any.
func (s *Struct) Err() error { return s.err }

// Alignment is the largest field alignment, or 1 for an empty struct.
func (s *Struct) Alignment() int {
	align := 1
	for _, f := range s.fields {
		if a := AlignmentOf(f.builder); a > align {
			align = a
		}
	}
	return align
}

// Size is the end of the last field rounded up to the struct alignment.
func (s *Struct) Size() int {
	return common.AlignTo(s.end, s.Alignment())
}

// NumField counts every field, padding included.
func (s *Struct) NumField() int { return len(s.fields) }

// Fields describes every field in declaration order, padding included.
func (s *Struct) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	for i, f := range s.fields {
		out[i] = FieldInfo{
			Name:      f.name,
			Offset:    f.offset,
			Size:      f.builder.Size(),
			Alignment: AlignmentOf(f.builder),
			Writable:  CanWrite(f.builder),
			Live:      CanProxy(f.builder),
			Builder:   f.builder,
		}
	}
	return out
}

// Offset returns the offset of a named field relative to the struct start.
func (s *Struct) Offset(name string) (int, bool) {
	i := s.find(name)
	if i < 0 {
		return 0, false
	}
	return s.fields[i].offset, true
}

// Names returns the named fields in declaration order.
func (s *Struct) Names() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if f.name != "" {
			names = append(names, f.name)
		}
	}
	return names
}

// Read decodes every named field in declaration order. Each field sees the
// fields decoded before it as its context.
func (s *Struct) Read(opts Options, _ Context) (any, error) {
	return s.Decode(opts)
}

// Decode reads a snapshot of the struct at opts.
func (s *Struct) Decode(opts Options) (*Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec := newRecord(len(s.fields))
	for _, f := range s.fields {
		if f.name == "" {
			continue
		}
		v, err := f.builder.Read(opts.Shift(f.offset), rec)
		if err != nil {
			return nil, wrapField(OpRead, f.name, err)
		}
		rec.append(f.name, v)
	}
	return rec, nil
}

// Proxy returns a live *View over the buffer.
func (s *Struct) Proxy(opts Options, _ Context) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &View{layout: s, opts: opts}, nil
}

// View returns a live view over the buffer. Construction errors surface on
// the first access.
func (s *Struct) View(opts Options) *View {
	return &View{layout: s, opts: opts}
}

// Write stores value field by field through a live view. value may be a
// *Record, a map[string]any, a *View, or a Go struct. Fields whose builder
// cannot write are skipped. Writes are not transactional: when a field
// fails, the fields before it have already been stored.
func (s *Struct) Write(value any, opts Options, _ Context) error {
	return s.Encode(value, opts)
}

// Encode is Write without a context.
func (s *Struct) Encode(value any, opts Options) error {
	if s.err != nil {
		return s.err
	}
	lookup, err := valuesOf(value)
	if err != nil {
		return err
	}
	v := &View{layout: s, opts: opts}
	for i, f := range s.fields {
		if f.name == "" {
			continue
		}
		w, ok := f.builder.(Writer)
		if !ok {
			Logger().Debug("skipping read-only field", zap.String("field", f.name))
			continue
		}
		val, present, err := lookup(f.name)
		if err != nil {
			return wrapField(OpWrite, f.name, err)
		}
		if !present {
			return wrapField(OpWrite, f.name, ErrMissingField)
		}
		if err := v.write(i, w, val); err != nil {
			return err
		}
	}
	return nil
}

type lookupFunc func(name string) (any, bool, error)

func fromContext(ctx Context) lookupFunc {
	return func(name string) (any, bool, error) {
		v, ok := ctx.Lookup(name)
		return v, ok, nil
	}
}

func fromMap(m map[string]any) lookupFunc {
	return func(name string) (any, bool, error) {
		v, ok := m[name]
		return v, ok, nil
	}
}

func valuesOf(value any) (lookupFunc, error) {
	switch x := value.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil struct value", ErrTypeMismatch)
	case *Record:
		return fromContext(x), nil
	case map[string]any:
		return fromMap(x), nil
	case *View:
		return func(name string) (any, bool, error) {
			if x.layout.find(name) < 0 {
				return nil, false, nil
			}
			v, err := x.Get(name)
			if err != nil {
				return nil, false, err
			}
			return v, true, nil
		}, nil
	case Context:
		return fromContext(x), nil
	}
	m, err := structValues(value)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot write %T: %w", ErrTypeMismatch, value, err)
	}
	return fromMap(m), nil
}
