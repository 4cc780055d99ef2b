// Package wasmmem maps struct layouts onto WebAssembly linear memory.
//
// The options returned here alias guest memory: live views read and write
// the module's heap directly. Growing the memory can move it, so options
// must be fetched again after any call that may grow it.
package wasmmem

import (
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/rawbytedev/cstruct"
)

var (
	ErrMemoryUnavailable = errors.New("linear memory unavailable")
	ErrOutOfBounds       = errors.New("struct exceeds linear memory")
)

// Options returns cstruct options over the whole memory, based at offset.
func Options(mem api.Memory, offset uint32, endian cstruct.Endian) (cstruct.Options, error) {
	if mem == nil {
		return cstruct.Options{}, ErrMemoryUnavailable
	}
	size := mem.Size()
	buf, ok := mem.Read(0, size)
	if !ok {
		return cstruct.Options{}, ErrMemoryUnavailable
	}
	if offset > size {
		return cstruct.Options{}, fmt.Errorf("%w: offset %d, memory size %d", ErrOutOfBounds, offset, size)
	}
	return cstruct.Options{Buf: buf, Offset: int(offset), Endian: endian}, nil
}

// View returns a live view of layout at offset after checking that the whole
// struct lies inside memory.
func View(mem api.Memory, layout *cstruct.Struct, offset uint32, endian cstruct.Endian) (*cstruct.View, error) {
	if err := layout.Err(); err != nil {
		return nil, err
	}
	opts, err := Options(mem, offset, endian)
	if err != nil {
		return nil, err
	}
	if end := uint64(offset) + uint64(layout.Size()); end > uint64(len(opts.Buf)) {
		return nil, fmt.Errorf("%w: [%d, %d) past %d", ErrOutOfBounds, offset, end, len(opts.Buf))
	}
	cstruct.Logger().Debug("wasm view",
		zap.Uint32("offset", offset),
		zap.Int("size", layout.Size()),
		zap.Int("memory", len(opts.Buf)))
	return layout.View(opts), nil
}

// Decode snapshots layout at offset.
func Decode(mem api.Memory, layout *cstruct.Struct, offset uint32, endian cstruct.Endian) (*cstruct.Record, error) {
	v, err := View(mem, layout, offset, endian)
	if err != nil {
		return nil, err
	}
	return v.Snapshot()
}
