package cstruct

import (
	"fmt"
	"unicode/utf8"

	"github.com/rawbytedev/cstruct/internal/common"
)

// Primitive is a fixed-width scalar codec. Its alignment equals its size.
type Primitive struct {
	name  string
	size  int
	read  func(b []byte, off int, opts Options) any
	write func(v any, b []byte, off int, opts Options) bool
}

func (p *Primitive) Name() string   { return p.name }
func (p *Primitive) String() string { return p.name }
func (p *Primitive) Size() int      { return p.size }

func (p *Primitive) Read(opts Options, _ Context) (any, error) {
	return p.read(opts.Buf, opts.Offset, opts), nil
}

func (p *Primitive) Write(value any, opts Options, _ Context) error {
	if !p.write(value, opts.Buf, opts.Offset, opts) {
		return fmt.Errorf("%w: %s cannot store %T", ErrTypeMismatch, p.name, value)
	}
	return nil
}

func integer(name string, size int, read func([]byte, int, Options) any, put func([]byte, int, Options, uint64)) *Primitive {
	return &Primitive{
		name: name,
		size: size,
		read: read,
		write: func(v any, b []byte, off int, opts Options) bool {
			u, ok := common.ToUint64(v)
			if ok {
				put(b, off, opts, u)
			}
			return ok
		},
	}
}

var (
	U8 = integer("u8", 1,
		func(b []byte, off int, _ Options) any { return common.Uint8(b, off) },
		func(b []byte, off int, _ Options, u uint64) { common.PutUint8(b, off, uint8(u)) })
	I8 = integer("i8", 1,
		func(b []byte, off int, _ Options) any { return int8(common.Uint8(b, off)) },
		func(b []byte, off int, _ Options, u uint64) { common.PutUint8(b, off, uint8(u)) })
	U16 = integer("u16", 2,
		func(b []byte, off int, o Options) any { return common.Uint16(b, off, o.order()) },
		func(b []byte, off int, o Options, u uint64) { common.PutUint16(b, off, o.order(), uint16(u)) })
	I16 = integer("i16", 2,
		func(b []byte, off int, o Options) any { return int16(common.Uint16(b, off, o.order())) },
		func(b []byte, off int, o Options, u uint64) { common.PutUint16(b, off, o.order(), uint16(u)) })
	U32 = integer("u32", 4,
		func(b []byte, off int, o Options) any { return common.Uint32(b, off, o.order()) },
		func(b []byte, off int, o Options, u uint64) { common.PutUint32(b, off, o.order(), uint32(u)) })
	I32 = integer("i32", 4,
		func(b []byte, off int, o Options) any { return int32(common.Uint32(b, off, o.order())) },
		func(b []byte, off int, o Options, u uint64) { common.PutUint32(b, off, o.order(), uint32(u)) })
	U64 = integer("u64", 8,
		func(b []byte, off int, o Options) any { return common.Uint64(b, off, o.order()) },
		func(b []byte, off int, o Options, u uint64) { common.PutUint64(b, off, o.order(), u) })
	I64 = integer("i64", 8,
		func(b []byte, off int, o Options) any { return int64(common.Uint64(b, off, o.order())) },
		func(b []byte, off int, o Options, u uint64) { common.PutUint64(b, off, o.order(), u) })

	U128 = &Primitive{
		name:  "u128",
		size:  16,
		read:  func(b []byte, off int, o Options) any { return common.Uint128(b, off, o.order()) },
		write: writeBig,
	}
	I128 = &Primitive{
		name:  "i128",
		size:  16,
		read:  func(b []byte, off int, o Options) any { return common.Int128(b, off, o.order()) },
		write: writeBig,
	}

	F32 = &Primitive{
		name: "f32",
		size: 4,
		read: func(b []byte, off int, o Options) any { return common.Float32(b, off, o.order()) },
		write: func(v any, b []byte, off int, o Options) bool {
			f, ok := common.ToFloat64(v)
			if ok {
				common.PutFloat32(b, off, o.order(), float32(f))
			}
			return ok
		},
	}
	F64 = &Primitive{
		name: "f64",
		size: 8,
		read: func(b []byte, off int, o Options) any { return common.Float64(b, off, o.order()) },
		write: func(v any, b []byte, off int, o Options) bool {
			f, ok := common.ToFloat64(v)
			if ok {
				common.PutFloat64(b, off, o.order(), f)
			}
			return ok
		},
	}

	Bool = &Primitive{
		name: "bool",
		size: 1,
		read: func(b []byte, off int, _ Options) any { return common.Uint8(b, off) != 0 },
		write: func(v any, b []byte, off int, _ Options) bool {
			t, ok := common.ToBool(v)
			if !ok {
				return false
			}
			var u uint8
			if t {
				u = 1
			}
			common.PutUint8(b, off, u)
			return true
		},
	}

	// Char maps one byte to a one-rune string. Only code points 0-255 round-trip.
	Char = &Primitive{
		name: "char",
		size: 1,
		read: func(b []byte, off int, _ Options) any { return string(rune(common.Uint8(b, off))) },
		write: func(v any, b []byte, off int, _ Options) bool {
			var c uint64
			switch x := v.(type) {
			case string:
				r, _ := utf8.DecodeRuneInString(x)
				if r == utf8.RuneError && x == "" {
					r = 0
				}
				c = uint64(r)
			default:
				u, ok := common.ToUint64(v)
				if !ok {
					return false
				}
				c = u
			}
			common.PutUint8(b, off, uint8(c))
			return true
		},
	}
)

func writeBig(v any, b []byte, off int, o Options) bool {
	n, ok := common.ToBig(v)
	if ok {
		common.PutUint128(b, off, o.order(), n)
	}
	return ok
}

// Primitives lists every scalar builder by name.
func Primitives() map[string]*Primitive {
	return map[string]*Primitive{
		U8.name: U8, I8.name: I8, U16.name: U16, I16.name: I16,
		U32.name: U32, I32.name: I32, U64.name: U64, I64.name: I64,
		U128.name: U128, I128.name: I128, F32.name: F32, F64.name: F64,
		Bool.name: Bool, Char.name: Char,
	}
}
