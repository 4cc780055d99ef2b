package cstruct

import (
	"bytes"
	"fmt"

	"github.com/rawbytedev/cstruct/internal/common"
)

type stringConfig struct {
	nullTermination bool
	decode          func([]byte) string
	encode          func(string) []byte
}

// StringOption configures the string builders.
type StringOption func(*stringConfig)

// WithoutNullTermination decodes the whole window, keeping zero bytes as
// literal characters.
func WithoutNullTermination() StringOption {
	return func(c *stringConfig) { c.nullTermination = false }
}

// WithDecoder replaces the default byte-to-text conversion.
func WithDecoder(fn func([]byte) string) StringOption {
	return func(c *stringConfig) { c.decode = fn }
}

// WithEncoder replaces the default text-to-byte conversion.
func WithEncoder(fn func(string) []byte) StringOption {
	return func(c *stringConfig) { c.encode = fn }
}

func newStringConfig(opts []StringOption) stringConfig {
	c := stringConfig{
		nullTermination: true,
		decode:          func(b []byte) string { return string(b) },
		encode:          func(s string) []byte { return []byte(s) },
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

type sizedString struct {
	n   int
	cfg stringConfig
}

// SizedCharArrayAsString maps a char[n] window to a string. Writes are
// left-aligned and zero-filled; input longer than n bytes is truncated.
func SizedCharArrayAsString(n int, opts ...StringOption) Builder {
	return &sizedString{n: n, cfg: newStringConfig(opts)}
}

func (s *sizedString) Size() int      { return s.n }
func (s *sizedString) Alignment() int { return 1 }

func (s *sizedString) Read(opts Options, _ Context) (any, error) {
	window := opts.Buf[opts.Offset : opts.Offset+s.n]
	if s.cfg.nullTermination {
		if i := bytes.IndexByte(window, 0); i >= 0 {
			window = window[:i]
		}
	}
	return s.cfg.decode(window), nil
}

func (s *sizedString) Write(value any, opts Options, _ Context) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: string cannot store %T", ErrTypeMismatch, value)
	}
	encoded := s.cfg.encode(str)
	window := opts.Buf[opts.Offset : opts.Offset+s.n]
	n := copy(window, encoded)
	clear(window[n:])
	return nil
}

type charPointer struct {
	cfg stringConfig
}

// CharPointerAsString follows a 32-bit pointer and decodes bytes up to the
// first zero byte, or the end of the buffer. It is read-only.
func CharPointerAsString(opts ...StringOption) Builder {
	return &charPointer{cfg: newStringConfig(opts)}
}

func (c *charPointer) Size() int { return 4 }

func (c *charPointer) Read(opts Options, _ Context) (any, error) {
	ptr := int(common.Uint32(opts.Buf, opts.Offset, opts.order()))
	rest := opts.Buf[ptr:]
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		rest = rest[:i]
	}
	return c.cfg.decode(rest), nil
}
