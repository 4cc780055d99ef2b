package cstruct

import (
	"fmt"
)

type skip struct {
	n int
}

// Skip reserves n bytes that decode to nil. Its alignment is its size, so a
// Skip(4) field lands on a 4-byte boundary like the member it stands in for.
func Skip(n int) Builder {
	return readOnly{&skip{n: max(n, 0)}}
}

func (s *skip) Size() int { return s.n }

func (s *skip) Read(Options, Context) (any, error) { return nil, nil }

type padding struct {
	skip
}

// Padding reserves n bytes with alignment 1.
func Padding(n int) Builder {
	return readOnly{&padding{skip{n: max(n, 0)}}}
}

func (p *padding) Alignment() int { return 1 }

type converted[T, U any] struct {
	b  Builder
	fn func(T) U
}

// Convert decodes with b and maps the value through fn. The result is
// read-only.
func Convert[T, U any](b Builder, fn func(T) U) Builder {
	return readOnly{&converted[T, U]{b: b, fn: fn}}
}

func (c *converted[T, U]) Size() int      { return c.b.Size() }
func (c *converted[T, U]) Alignment() int { return AlignmentOf(c.b) }

func (c *converted[T, U]) Read(opts Options, ctx Context) (any, error) {
	raw, err := c.b.Read(opts, ctx)
	if err != nil {
		return nil, err
	}
	v, ok := raw.(T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: convert expects %T, got %T", ErrTypeMismatch, zero, raw)
	}
	return c.fn(v), nil
}
