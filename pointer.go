package cstruct

import (
	"github.com/rawbytedev/cstruct/internal/common"
)

// Pointer dereferences a 32-bit offset into the same buffer. It never
// allocates: writes go through pointers already stored in the buffer.
type Pointer struct {
	elem Builder
}

// Ptr wraps b behind a pointer. The result is writable when b is writable
// and live-viewable when b is live-viewable.
func Ptr(b Builder) Builder {
	return restrict(&Pointer{elem: b}, CanWrite(b), CanProxy(b))
}

func (p *Pointer) Elem() Builder  { return p.elem }
func (p *Pointer) Size() int      { return 4 }
func (p *Pointer) Alignment() int { return 4 }

func (p *Pointer) target(opts Options) int {
	return int(common.Uint32(opts.Buf, opts.Offset, opts.order()))
}

// Read yields nil for a zero pointer.
func (p *Pointer) Read(opts Options, _ Context) (any, error) {
	ptr := p.target(opts)
	if ptr == 0 {
		return nil, nil
	}
	return p.elem.Read(opts.At(ptr), NoContext)
}

func (p *Pointer) Write(value any, opts Options, _ Context) error {
	if value == nil {
		return ErrNullPointerWrite
	}
	ptr := p.target(opts)
	if ptr == 0 {
		return ErrWriteThroughNull
	}
	w, ok := p.elem.(Writer)
	if !ok {
		return ErrReadOnly
	}
	return w.Write(value, opts.At(ptr), NoContext)
}

func (p *Pointer) Proxy(opts Options, _ Context) (any, error) {
	ptr := p.target(opts)
	if ptr == 0 {
		return nil, nil
	}
	return p.elem.(Proxier).Proxy(opts.At(ptr), NoContext)
}
