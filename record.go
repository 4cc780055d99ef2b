package cstruct

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Record is a decoded struct: field names in declaration order with their
// values. Nested structs decode to nested records, arrays to []any.
type Record struct {
	names  []string
	values []any
	index  map[string]int
}

func newRecord(capacity int) *Record {
	return &Record{
		names:  make([]string, 0, capacity),
		values: make([]any, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

// append is only used while a record is being decoded; names are unique.
func (r *Record) append(name string, value any) {
	r.index[name] = len(r.names)
	r.names = append(r.names, name)
	r.values = append(r.values, value)
}

func (r *Record) Len() int { return len(r.names) }

// Names returns the field names in declaration order.
func (r *Record) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Record) Get(name string) any {
	v, _ := r.Lookup(name)
	return v
}

// Lookup implements Context.
func (r *Record) Lookup(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Map converts the record, and every nested record, into plain maps.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.names))
	for i, name := range r.names {
		m[name] = plain(r.values[i])
	}
	return m
}

func plain(v any) any {
	switch x := v.(type) {
	case *Record:
		return x.Map()
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = plain(x[i])
		}
		return out
	}
	return v
}

func (r *Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", name, r.values[i])
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON keeps declaration order, which a map would lose.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
