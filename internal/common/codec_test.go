package common

import (
	"encoding/binary"
	"math/big"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignTo(t *testing.T) {
	cases := []struct{ n, align, want int }{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 8, 8},
		{7, 1, 7},
		{7, 0, 7},
		{3, 2, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AlignTo(c.n, c.align), "AlignTo(%d, %d)", c.n, c.align)
	}
}

func TestUint128ByteOrder(t *testing.T) {
	v, ok := new(big.Int).SetString("0102030405060708090a0b0c0d0e0f10", 16)
	require.True(t, ok)

	be := make([]byte, 16)
	PutUint128(be, 0, binary.BigEndian, v)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, be)
	require.Zero(t, v.Cmp(Uint128(be, 0, binary.BigEndian)))

	le := make([]byte, 16)
	PutUint128(le, 0, binary.LittleEndian, v)
	require.Equal(t, []byte{16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, le)
	require.Zero(t, v.Cmp(Uint128(le, 0, binary.LittleEndian)))
}

func TestInt128Sign(t *testing.T) {
	buf := make([]byte, 16)
	PutUint128(buf, 0, binary.LittleEndian, big.NewInt(-1))
	for _, b := range buf {
		require.Equal(t, byte(0xff), b)
	}
	require.Zero(t, big.NewInt(-1).Cmp(Int128(buf, 0, binary.LittleEndian)))

	all := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	require.Zero(t, all.Cmp(Uint128(buf, 0, binary.LittleEndian)))
}

func TestQuickUint64Halves(t *testing.T) {
	check := func(hi, lo uint64) bool {
		v := new(big.Int).SetUint64(hi)
		v.Lsh(v, 64).Or(v, new(big.Int).SetUint64(lo))
		buf := make([]byte, 20)
		PutUint128(buf, 3, binary.BigEndian, v)
		return Uint64(buf, 3, binary.BigEndian) == hi &&
			Uint64(buf, 11, binary.BigEndian) == lo &&
			Uint128(buf, 3, binary.BigEndian).Cmp(v) == 0
	}
	require.NoError(t, quick.Check(check, &quick.Config{}))
}

func TestOutOfRangePanics(t *testing.T) {
	buf := make([]byte, 3)
	assert.Panics(t, func() { Uint32(buf, 0, binary.LittleEndian) })
	assert.Panics(t, func() { PutUint16(buf, 2, binary.LittleEndian, 1) })
	assert.NotPanics(t, func() { PutUint16(buf, 1, binary.LittleEndian, 1) })
}

func TestToUint64(t *testing.T) {
	type myInt int16
	cases := []struct {
		in   any
		want uint64
		ok   bool
	}{
		{uint8(7), 7, true},
		{int(-1), 0xffffffffffffffff, true},
		{myInt(-2), 0xfffffffffffffffe, true},
		{3.9, 3, true},
		{-1.5, 0xffffffffffffffff, true},
		{new(big.Int).Lsh(big.NewInt(1), 70), 0, true},
		{"1", 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := ToUint64(c.in)
		assert.Equal(t, c.ok, ok, "%#v", c.in)
		assert.Equal(t, c.want, got, "%#v", c.in)
	}
}

func TestToInt64AndFloat(t *testing.T) {
	v, ok := ToInt64(uint16(0xffff))
	require.True(t, ok)
	require.Equal(t, int64(0xffff), v)

	v, ok = ToInt64(int8(-5))
	require.True(t, ok)
	require.Equal(t, int64(-5), v)

	f, ok := ToFloat64(uint32(9))
	require.True(t, ok)
	require.Equal(t, 9.0, f)

	_, ok = ToFloat64(true)
	require.False(t, ok)
}

func TestToBigAndBool(t *testing.T) {
	b, ok := ToBig(int32(-4))
	require.True(t, ok)
	require.Zero(t, b.Cmp(big.NewInt(-4)))

	_, ok = ToBig((*big.Int)(nil))
	require.False(t, ok)

	bv, ok := ToBool(uint8(2))
	require.True(t, ok)
	require.True(t, bv)

	bv, ok = ToBool(false)
	require.True(t, ok)
	require.False(t, bv)

	_, ok = ToBool("yes")
	require.False(t, ok)
}
