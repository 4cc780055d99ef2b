package cstruct

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Endian selects the byte order used by every multi-byte codec.
type Endian uint8

const (
	Little Endian = iota
	Big
)

func (e Endian) ByteOrder() binary.ByteOrder {
	if e == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e Endian) String() string {
	if e == Big {
		return "big"
	}
	return "little"
}

// ParseEndian accepts "little", "big" and "" (little).
func ParseEndian(s string) (Endian, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "little", "le":
		return Little, nil
	case "big", "be":
		return Big, nil
	}
	return Little, fmt.Errorf("unknown endian %q", s)
}

// Options is a view of a caller-owned buffer at a base offset. The buffer is
// never copied or resized; accesses past its end panic.
type Options struct {
	Buf    []byte
	Offset int
	Endian Endian
}

// At rebases the view to an absolute offset.
func (o Options) At(offset int) Options {
	o.Offset = offset
	return o
}

// Shift moves the view by delta bytes.
func (o Options) Shift(delta int) Options {
	o.Offset += delta
	return o
}

func (o Options) order() binary.ByteOrder {
	return o.Endian.ByteOrder()
}
