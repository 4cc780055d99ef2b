package cstruct

import (
	"math"
	"math/big"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveSizes(t *testing.T) {
	want := map[string]int{
		"u8": 1, "i8": 1, "u16": 2, "i16": 2, "u32": 4, "i32": 4,
		"u64": 8, "i64": 8, "u128": 16, "i128": 16, "f32": 4, "f64": 8,
		"bool": 1, "char": 1,
	}
	got := map[string]int{}
	for name, p := range Primitives() {
		got[name] = p.Size()
		assert.Equal(t, p.Size(), AlignmentOf(p), name)
		assert.Equal(t, name, p.String())
	}
	require.Equal(t, want, got)
}

func TestPrimitiveEndianness(t *testing.T) {
	buf := []byte{0x01, 0x00}
	v, err := U16.Read(Options{Buf: buf}, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(1), v)
	v, err = U16.Read(Options{Buf: buf, Endian: Big}, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(256), v)
}

func TestIntegerWrap(t *testing.T) {
	buf := make([]byte, 8)
	opts := Options{Buf: buf}

	require.NoError(t, U8.Write(-1, opts, nil))
	require.Equal(t, byte(0xff), buf[0])
	require.NoError(t, U8.Write(0x1ff, opts, nil))
	require.Equal(t, byte(0xff), buf[0])
	require.NoError(t, I16.Write(uint16(0xfffe), opts, nil))
	v, _ := I16.Read(opts, nil)
	require.Equal(t, int16(-2), v)
	require.NoError(t, I32.Write(3.9, opts, nil))
	v, _ = I32.Read(opts, nil)
	require.Equal(t, int32(3), v)
	require.NoError(t, U64.Write(big.NewInt(42), opts, nil))
	v, _ = U64.Read(opts, nil)
	require.Equal(t, uint64(42), v)

	require.ErrorIs(t, U8.Write("1", opts, nil), ErrTypeMismatch)
	require.ErrorIs(t, U8.Write(math.NaN(), opts, nil), ErrTypeMismatch)
	require.ErrorIs(t, F32.Write("1.5", opts, nil), ErrTypeMismatch)
}

func TestUint128(t *testing.T) {
	maxU := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	for _, endian := range []Endian{Little, Big} {
		buf := make([]byte, 16)
		opts := Options{Buf: buf, Endian: endian}

		require.NoError(t, U128.Write(maxU, opts, nil))
		v, err := U128.Read(opts, nil)
		require.NoError(t, err)
		require.Zero(t, maxU.Cmp(v.(*big.Int)), endian)

		v, err = I128.Read(opts, nil)
		require.NoError(t, err)
		require.Zero(t, big.NewInt(-1).Cmp(v.(*big.Int)), endian)

		require.NoError(t, I128.Write(-5, opts, nil))
		v, _ = I128.Read(opts, nil)
		require.Zero(t, big.NewInt(-5).Cmp(v.(*big.Int)), endian)
	}

	buf := make([]byte, 16)
	require.NoError(t, U128.Write(uint64(1), Options{Buf: buf}, nil))
	require.Equal(t, byte(1), buf[0])
	require.NoError(t, U128.Write(uint64(1), Options{Buf: buf, Endian: Big}, nil))
	require.Equal(t, byte(1), buf[15])
	require.Equal(t, byte(0), buf[0])
}

func TestInt128Sign(t *testing.T) {
	buf := make([]byte, 16)
	buf[15] = 0x80
	v, _ := I128.Read(Options{Buf: buf}, nil)
	minI := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	require.Zero(t, minI.Cmp(v.(*big.Int)))

	buf[15] = 0x7f
	v, _ = I128.Read(Options{Buf: buf}, nil)
	require.Equal(t, 1, v.(*big.Int).Sign())
}

func TestBoolAndChar(t *testing.T) {
	buf := []byte{0x02, 'A'}
	v, _ := Bool.Read(Options{Buf: buf}, nil)
	require.Equal(t, true, v)
	require.NoError(t, Bool.Write(false, Options{Buf: buf}, nil))
	require.Equal(t, byte(0), buf[0])
	require.NoError(t, Bool.Write(7, Options{Buf: buf}, nil))
	require.Equal(t, byte(1), buf[0])

	v, _ = Char.Read(Options{Buf: buf, Offset: 1}, nil)
	require.Equal(t, "A", v)
	require.NoError(t, Char.Write("zebra", Options{Buf: buf, Offset: 1}, nil))
	require.Equal(t, byte('z'), buf[1])
	require.NoError(t, Char.Write("é", Options{Buf: buf, Offset: 1}, nil))
	v, _ = Char.Read(Options{Buf: buf, Offset: 1}, nil)
	require.Equal(t, "é", v)
	require.NoError(t, Char.Write(0x41, Options{Buf: buf, Offset: 1}, nil))
	require.Equal(t, byte('A'), buf[1])
	require.NoError(t, Char.Write("", Options{Buf: buf, Offset: 1}, nil))
	require.Equal(t, byte(0), buf[1])
}

func TestQuickIntegerRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	for _, endian := range []Endian{Little, Big} {
		opts := Options{Buf: buf, Endian: endian}
		check := func(a int8, b uint16, c int32, d uint64, e int64) bool {
			for _, tc := range []struct {
				p *Primitive
				v any
			}{{I8, a}, {U16, b}, {I32, c}, {U64, d}, {I64, e}} {
				require.NoError(t, tc.p.Write(tc.v, opts, nil))
				got, err := tc.p.Read(opts, nil)
				require.NoError(t, err)
				if got != tc.v {
					return false
				}
			}
			return true
		}
		require.NoError(t, quick.Check(check, &quick.Config{}))
	}
}

func TestQuickFloatRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	check := func(f32 float32, f64 float64) bool {
		opts := Options{Buf: buf}
		require.NoError(t, F32.Write(f32, opts, nil))
		got32, _ := F32.Read(opts, nil)
		require.NoError(t, F64.Write(f64, opts, nil))
		got64, _ := F64.Read(opts, nil)
		return got32 == f32 && got64 == f64
	}
	require.NoError(t, quick.Check(check, &quick.Config{}))
}

func TestQuickInt128RoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	check := func(hi int64, lo uint64) bool {
		want := new(big.Int).Lsh(big.NewInt(hi), 64)
		want.Or(want, new(big.Int).SetUint64(lo))
		opts := Options{Buf: buf, Endian: Big}
		require.NoError(t, I128.Write(want, opts, nil))
		got, _ := I128.Read(opts, nil)
		return want.Cmp(got.(*big.Int)) == 0
	}
	require.NoError(t, quick.Check(check, &quick.Config{}))
}
