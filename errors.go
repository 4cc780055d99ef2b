package cstruct

import (
	"errors"
	"strings"
)

var (
	ErrTypeMismatch       = errors.New("value type does not match builder")
	ErrUnknownEnumValue   = errors.New("unknown enum value")
	ErrUnknownEnumVariant = errors.New("unknown enum variant")
	ErrNullPointerWrite   = errors.New("cannot write null pointer")
	ErrWriteThroughNull   = errors.New("cannot write to null pointer")
	ErrReadOnly           = errors.New("field is read-only")
	ErrUnknownField       = errors.New("unknown field")
	ErrMissingField       = errors.New("missing field value")
	ErrDuplicateField     = errors.New("duplicate field")
	ErrInvalidField       = errors.New("invalid field")
	ErrMissingContext     = errors.New("missing context value")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrNotStruct          = errors.New("expected struct")
	ErrNotStructPtr       = errors.New("expected pointer to struct")
)

// Op names the access that failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
	OpProxy Op = "proxy"
)

// FieldError attaches the field path to an error raised by a builder.
type FieldError struct {
	Path []string
	Op   Op
	Err  error
}

func (e *FieldError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Op))
	for i, p := range e.Path {
		switch {
		case i == 0:
			b.WriteByte(' ')
		case !strings.HasPrefix(p, "["):
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// wrapField prefixes name to the path of an existing FieldError so nested
// failures read outer.inner.leaf.
func wrapField(op Op, name string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) && fe.Op == op {
		path := make([]string, 0, len(fe.Path)+1)
		path = append(path, name)
		path = append(path, fe.Path...)
		return &FieldError{Path: path, Op: op, Err: fe.Err}
	}
	return &FieldError{Path: []string{name}, Op: op, Err: err}
}
