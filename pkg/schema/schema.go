// Package schema loads struct layouts from YAML or JSON definitions.
//
//	endian: little
//	structs:
//	  - name: vec3
//	    fields:
//	      - {name: x, type: f32}
//	  - name: entity
//	    fields:
//	      - {name: id, type: u32}
//	      - {name: pos, struct: vec3}
//	      - {name: name, string: {len: 16}}
//	      - {padding: 3}
package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/cstruct"
)

var (
	ErrUnknownType       = errors.New("unknown type")
	ErrUnknownStruct     = errors.New("unknown struct")
	ErrInvalidDefinition = errors.New("invalid definition")
	ErrUnknownFormat     = errors.New("unknown schema format")
)

type Format int

const (
	YAML Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "yaml"
}

// Schema is a parsed definition file. Structs are resolved in order, so a
// struct can only reference the ones listed before it.
type Schema struct {
	Endian  string      `yaml:"endian,omitempty" json:"endian,omitempty"`
	Structs []StructDef `yaml:"structs" json:"structs"`
}

type StructDef struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field describes one member. Exactly one kind is set: Type, Struct,
// String, Array, Enum, Ptr, CString, PointerArray, Padding or Skip.
type Field struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	Type         string           `yaml:"type,omitempty" json:"type,omitempty"`
	Struct       string           `yaml:"struct,omitempty" json:"struct,omitempty"`
	String       *StringDef       `yaml:"string,omitempty" json:"string,omitempty"`
	Array        *ArrayDef        `yaml:"array,omitempty" json:"array,omitempty"`
	Enum         *EnumDef         `yaml:"enum,omitempty" json:"enum,omitempty"`
	Ptr          *Field           `yaml:"ptr,omitempty" json:"ptr,omitempty"`
	CString      bool             `yaml:"cstring,omitempty" json:"cstring,omitempty"`
	PointerArray *PointerArrayDef `yaml:"pointer_array,omitempty" json:"pointer_array,omitempty"`
	Padding      int              `yaml:"padding,omitempty" json:"padding,omitempty"`
	Skip         int              `yaml:"skip,omitempty" json:"skip,omitempty"`
}

type StringDef struct {
	Len int `yaml:"len" json:"len"`
	// NullTerminated defaults to true.
	NullTerminated *bool `yaml:"null_terminated,omitempty" json:"null_terminated,omitempty"`
}

// ArrayDef is an element kind plus a count.
type ArrayDef struct {
	Field `yaml:",inline"`
	Len   int `yaml:"len" json:"len"`
}

type EnumDef struct {
	Type     string           `yaml:"type" json:"type"`
	Variants map[string]int64 `yaml:"variants" json:"variants"`
}

// PointerArrayDef is an element kind plus the sibling holding the count.
type PointerArrayDef struct {
	Field       `yaml:",inline"`
	LengthField string `yaml:"length_field" json:"length_field"`
}

func Parse(data []byte, format Format) (*Schema, error) {
	var s Schema
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &s)
	case JSON:
		err = json.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", format, err)
	}
	return &s, nil
}

func ParseYAML(data []byte) (*Schema, error) { return Parse(data, YAML) }
func ParseJSON(data []byte) (*Schema, error) { return Parse(data, JSON) }

// Load reads a schema file, picking the format from its extension.
func Load(path string) (*Schema, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cstruct.Logger().Debug("schema loaded", zap.String("path", path), zap.Int("structs", len(s.Structs)))
	return s, nil
}

func formatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Marshal renders the schema back to the given format.
func (s *Schema) Marshal(format Format) ([]byte, error) {
	switch format {
	case YAML:
		return yaml.Marshal(s)
	case JSON:
		return json.MarshalIndent(s, "", "  ")
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
}
