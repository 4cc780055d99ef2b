package schema

import (
	"fmt"
	"slices"

	"github.com/rawbytedev/cstruct"
)

// Registry holds the layouts built from a schema, by name.
type Registry struct {
	endian  cstruct.Endian
	structs map[string]*cstruct.Struct
	names   []string
}

func (r *Registry) Endian() cstruct.Endian { return r.endian }

// Names returns the struct names in definition order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

func (r *Registry) Struct(name string) (*cstruct.Struct, error) {
	s, ok := r.structs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStruct, name)
	}
	return s, nil
}

// Options returns buffer options using the schema byte order.
func (r *Registry) Options(buf []byte, offset int) cstruct.Options {
	return cstruct.Options{Buf: buf, Offset: offset, Endian: r.endian}
}

// Build resolves every struct definition into a layout.
func (s *Schema) Build() (*Registry, error) {
	endian, err := cstruct.ParseEndian(s.Endian)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	r := &Registry{
		endian:  endian,
		structs: make(map[string]*cstruct.Struct, len(s.Structs)),
	}
	for _, def := range s.Structs {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: struct without a name", ErrInvalidDefinition)
		}
		if _, dup := r.structs[def.Name]; dup {
			return nil, fmt.Errorf("%w: struct %s defined twice", ErrInvalidDefinition, def.Name)
		}
		st, err := r.build(def)
		if err != nil {
			return nil, err
		}
		r.structs[def.Name] = st
		r.names = append(r.names, def.Name)
	}
	return r, nil
}

func (r *Registry) build(def StructDef) (*cstruct.Struct, error) {
	st := cstruct.New()
	for i, f := range def.Fields {
		path := fmt.Sprintf("%s.%s", def.Name, f.Name)
		if f.Name == "" {
			path = fmt.Sprintf("%s[%d]", def.Name, i)
		}
		if f.Padding > 0 && f.kinds() == 1 {
			if f.Name != "" {
				return nil, fmt.Errorf("%w: %s: padding cannot be named", ErrInvalidDefinition, path)
			}
			st = st.Padding(f.Padding)
			continue
		}
		if f.Name == "" {
			return nil, fmt.Errorf("%w: %s: field without a name", ErrInvalidDefinition, path)
		}
		b, err := r.builder(f, path)
		if err != nil {
			return nil, err
		}
		st = st.Field(f.Name, b)
	}
	if err := st.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, def.Name, err)
	}
	return st, nil
}

func (f *Field) kinds() int {
	n := 0
	for _, set := range []bool{
		f.Type != "", f.Struct != "", f.String != nil, f.Array != nil,
		f.Enum != nil, f.Ptr != nil, f.CString, f.PointerArray != nil,
		f.Padding > 0, f.Skip > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

func (r *Registry) builder(f Field, path string) (cstruct.Builder, error) {
	if n := f.kinds(); n != 1 {
		return nil, fmt.Errorf("%w: %s: want exactly one kind, got %d", ErrInvalidDefinition, path, n)
	}
	switch {
	case f.Type != "":
		p, ok := cstruct.Primitives()[f.Type]
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q", ErrUnknownType, path, f.Type)
		}
		return p, nil
	case f.Struct != "":
		st, ok := r.structs[f.Struct]
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q", ErrUnknownStruct, path, f.Struct)
		}
		return st, nil
	case f.String != nil:
		if f.String.Len <= 0 {
			return nil, fmt.Errorf("%w: %s: string length must be positive", ErrInvalidDefinition, path)
		}
		var opts []cstruct.StringOption
		if f.String.NullTerminated != nil && !*f.String.NullTerminated {
			opts = append(opts, cstruct.WithoutNullTermination())
		}
		return cstruct.SizedCharArrayAsString(f.String.Len, opts...), nil
	case f.Array != nil:
		if f.Array.Len < 0 {
			return nil, fmt.Errorf("%w: %s: negative array length", ErrInvalidDefinition, path)
		}
		elem, err := r.builder(f.Array.Field, path+"[]")
		if err != nil {
			return nil, err
		}
		return cstruct.SizedArray(elem, f.Array.Len), nil
	case f.Enum != nil:
		p, ok := cstruct.Primitives()[f.Enum.Type]
		if !ok {
			return nil, fmt.Errorf("%w: %s: enum over %q", ErrUnknownType, path, f.Enum.Type)
		}
		return cstruct.EnumLike(p, f.Enum.Variants), nil
	case f.Ptr != nil:
		elem, err := r.builder(*f.Ptr, path+"*")
		if err != nil {
			return nil, err
		}
		return cstruct.Ptr(elem), nil
	case f.CString:
		return cstruct.CharPointerAsString(), nil
	case f.PointerArray != nil:
		if f.PointerArray.LengthField == "" {
			return nil, fmt.Errorf("%w: %s: pointer array needs length_field", ErrInvalidDefinition, path)
		}
		elem, err := r.builder(f.PointerArray.Field, path+"[]")
		if err != nil {
			return nil, err
		}
		return cstruct.PointerArrayFromLengthField(elem, f.PointerArray.LengthField), nil
	case f.Padding > 0:
		return cstruct.Padding(f.Padding), nil
	default:
		return cstruct.Skip(f.Skip), nil
	}
}
