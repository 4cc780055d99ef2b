package cstruct

// Builder describes how one field is laid out and decoded. Every primitive,
// combinator and Struct implements it.
type Builder interface {
	Size() int
	Read(opts Options, ctx Context) (any, error)
}

// Aligner is implemented by builders whose alignment differs from their size.
type Aligner interface {
	Alignment() int
}

// Writer is implemented by builders that can encode a value in place.
type Writer interface {
	Write(value any, opts Options, ctx Context) error
}

// Proxier is implemented by builders that can hand out a live view backed
// by the buffer instead of a decoded copy.
type Proxier interface {
	Proxy(opts Options, ctx Context) (any, error)
}

// Context exposes the siblings decoded before the current field.
type Context interface {
	Lookup(name string) (any, bool)
}

type emptyContext struct{}

func (emptyContext) Lookup(string) (any, bool) { return nil, false }

// NoContext is passed to builders that are read outside of a struct.
var NoContext Context = emptyContext{}

func orEmpty(ctx Context) Context {
	if ctx == nil {
		return NoContext
	}
	return ctx
}

// AlignmentOf returns the declared alignment of b, falling back to its size.
// The result is never below 1.
func AlignmentOf(b Builder) int {
	align := 0
	if a, ok := b.(Aligner); ok {
		align = a.Alignment()
	}
	if align <= 0 {
		align = b.Size()
	}
	if align < 1 {
		return 1
	}
	return align
}

// CanWrite reports whether b can encode values.
func CanWrite(b Builder) bool {
	_, ok := b.(Writer)
	return ok
}

// CanProxy reports whether b hands out live views.
func CanProxy(b Builder) bool {
	_, ok := b.(Proxier)
	return ok
}

// readOnly hides every capability of b except reading.
type readOnly struct {
	b Builder
}

func (r readOnly) Size() int      { return r.b.Size() }
func (r readOnly) Alignment() int { return AlignmentOf(r.b) }
func (r readOnly) Read(opts Options, ctx Context) (any, error) {
	return r.b.Read(opts, ctx)
}

// writable hides the proxy capability of b.
type writable struct {
	readOnly
	w Writer
}

func (w writable) Write(value any, opts Options, ctx Context) error {
	return w.w.Write(value, opts, ctx)
}

// proxyOnly hides the write capability of b.
type proxyOnly struct {
	readOnly
	p Proxier
}

func (p proxyOnly) Proxy(opts Options, ctx Context) (any, error) {
	return p.p.Proxy(opts, ctx)
}

// restrict narrows b to the capabilities granted: a combinator that is only
// writable or live-viewable when its inner builder is. A capability b does
// not implement is never granted.
func restrict(b Builder, canWrite, canProxy bool) Builder {
	w, isWriter := b.(Writer)
	p, isProxier := b.(Proxier)
	canWrite = canWrite && isWriter
	canProxy = canProxy && isProxier
	switch {
	case canWrite && canProxy:
		return b
	case canWrite:
		return writable{readOnly{b}, w}
	case canProxy:
		return proxyOnly{readOnly{b}, p}
	default:
		return readOnly{b}
	}
}

// Def assembles a builder from plain functions. ReadFunc is required;
// leaving WriteFunc or ProxyFunc nil drops that capability.
type Def struct {
	SizeBytes int
	Align     int
	ReadFunc  func(opts Options, ctx Context) (any, error)
	WriteFunc func(value any, opts Options, ctx Context) error
	ProxyFunc func(opts Options, ctx Context) (any, error)
}

type defined struct {
	def Def
}

func (d *defined) Size() int      { return d.def.SizeBytes }
func (d *defined) Alignment() int { return d.def.Align }
func (d *defined) Read(opts Options, ctx Context) (any, error) {
	return d.def.ReadFunc(opts, orEmpty(ctx))
}
func (d *defined) Write(value any, opts Options, ctx Context) error {
	return d.def.WriteFunc(value, opts, orEmpty(ctx))
}
func (d *defined) Proxy(opts Options, ctx Context) (any, error) {
	return d.def.ProxyFunc(opts, orEmpty(ctx))
}

// Define turns a Def into a Builder exposing exactly the capabilities set.
func Define(def Def) Builder {
	if def.ReadFunc == nil {
		panic("cstruct: Define requires ReadFunc")
	}
	d := &defined{def: def}
	return restrict(d, def.WriteFunc != nil, def.ProxyFunc != nil)
}
