package common

import (
	"encoding/binary"
	"math"
	"math/big"
)

var (
	mask64  = new(big.Int).SetUint64(math.MaxUint64)
	mask128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	sign128 = new(big.Int).Lsh(big.NewInt(1), 127)
	mod128  = new(big.Int).Lsh(big.NewInt(1), 128)
)

// All helpers index b directly; an offset outside b panics like any slice access.

func Uint8(b []byte, off int) uint8 { return b[off] }

func PutUint8(b []byte, off int, v uint8) { b[off] = v }

func Uint16(b []byte, off int, order binary.ByteOrder) uint16 {
	return order.Uint16(b[off : off+2])
}

func PutUint16(b []byte, off int, order binary.ByteOrder, v uint16) {
	order.PutUint16(b[off:off+2], v)
}

func Uint32(b []byte, off int, order binary.ByteOrder) uint32 {
	return order.Uint32(b[off : off+4])
}

func PutUint32(b []byte, off int, order binary.ByteOrder, v uint32) {
	order.PutUint32(b[off:off+4], v)
}

func Uint64(b []byte, off int, order binary.ByteOrder) uint64 {
	return order.Uint64(b[off : off+8])
}

func PutUint64(b []byte, off int, order binary.ByteOrder, v uint64) {
	order.PutUint64(b[off:off+8], v)
}

func Float32(b []byte, off int, order binary.ByteOrder) float32 {
	return math.Float32frombits(Uint32(b, off, order))
}

func PutFloat32(b []byte, off int, order binary.ByteOrder, v float32) {
	PutUint32(b, off, order, math.Float32bits(v))
}

func Float64(b []byte, off int, order binary.ByteOrder) float64 {
	return math.Float64frombits(Uint64(b, off, order))
}

func PutFloat64(b []byte, off int, order binary.ByteOrder, v float64) {
	PutUint64(b, off, order, math.Float64bits(v))
}

// Uint128 joins the two 64-bit halves at off. The half stored first is the
// low half in little-endian order and the high half in big-endian order.
func Uint128(b []byte, off int, order binary.ByteOrder) *big.Int {
	first := Uint64(b, off, order)
	second := Uint64(b, off+8, order)
	lo, hi := first, second
	if order == binary.BigEndian {
		lo, hi = second, first
	}
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(lo))
}

// Int128 reads a two's complement 128-bit integer.
func Int128(b []byte, off int, order binary.ByteOrder) *big.Int {
	v := Uint128(b, off, order)
	if v.Cmp(sign128) >= 0 {
		v.Sub(v, mod128)
	}
	return v
}

// PutUint128 stores v modulo 2^128; negative values end up in two's
// complement form, so it serves both the signed and unsigned codecs.
func PutUint128(b []byte, off int, order binary.ByteOrder, v *big.Int) {
	u := new(big.Int).And(v, mask128)
	lo := new(big.Int).And(u, mask64).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	if order == binary.BigEndian {
		lo, hi = hi, lo
	}
	PutUint64(b, off, order, lo)
	PutUint64(b, off+8, order, hi)
}

// AlignTo rounds n up to the next multiple of align. Any align below 2 is a no-op.
func AlignTo(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
