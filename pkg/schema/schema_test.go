package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/cstruct"
)

const entityYAML = `
endian: little
structs:
  - name: vec3
    fields:
      - {name: x, type: f32}
      - {name: y, type: f32}
      - {name: z, type: f32}
  - name: entity
    fields:
      - {name: id, type: u32}
      - {name: pos, struct: vec3}
      - {name: name, string: {len: 8}}
      - {name: tags, array: {type: u8, len: 4}}
      - {name: kind, enum: {type: u8, variants: {player: 0, npc: 1}}}
      - {padding: 3}
      - {name: count, type: u16}
      - {name: reserved, skip: 2}
      - {name: items, pointer_array: {type: u16, length_field: count}}
      - {name: label, cstring: true}
      - {name: parent, ptr: {type: u32}}
`

func buildEntity(t *testing.T) *cstruct.Struct {
	t.Helper()
	s, err := ParseYAML([]byte(entityYAML))
	require.NoError(t, err)
	reg, err := s.Build()
	require.NoError(t, err)
	require.Equal(t, []string{"vec3", "entity"}, reg.Names())
	st, err := reg.Struct("entity")
	require.NoError(t, err)
	return st
}

func TestBuildLayout(t *testing.T) {
	st := buildEntity(t)
	offsets := map[string]int{}
	for _, f := range st.Fields() {
		if f.Name != "" {
			offsets[f.Name] = f.Offset
		}
	}
	assert.Equal(t, map[string]int{
		"id": 0, "pos": 4, "name": 16, "tags": 24, "kind": 28,
		"count": 32, "reserved": 34, "items": 36, "label": 40, "parent": 44,
	}, offsets)
	assert.Equal(t, 48, st.Size())
	assert.Equal(t, 4, st.Alignment())
}

func TestBuildDecodes(t *testing.T) {
	st := buildEntity(t)
	buf := make([]byte, 96)
	v := st.View(cstruct.Options{Buf: buf})
	require.NoError(t, v.Set("id", 9))
	require.NoError(t, v.Set("name", "bob"))
	require.NoError(t, v.Set("kind", "npc"))
	require.NoError(t, v.Set("count", 2))
	buf[36] = 64
	buf[64], buf[66] = 5, 6
	buf[40] = 80
	copy(buf[80:], "hi\x00")

	rec, err := st.Decode(cstruct.Options{Buf: buf})
	require.NoError(t, err)
	assert.Equal(t, uint32(9), rec.Get("id"))
	assert.Equal(t, "bob", rec.Get("name"))
	assert.Equal(t, "npc", rec.Get("kind"))
	assert.Equal(t, []any{uint16(5), uint16(6)}, rec.Get("items"))
	assert.Equal(t, "hi", rec.Get("label"))
	assert.Nil(t, rec.Get("parent"))
	assert.Nil(t, rec.Get("reserved"))
}

func TestJSONMatchesYAML(t *testing.T) {
	y, err := ParseYAML([]byte(entityYAML))
	require.NoError(t, err)
	data, err := y.Marshal(JSON)
	require.NoError(t, err)
	j, err := ParseJSON(data)
	require.NoError(t, err)
	require.Equal(t, y, j)

	reg, err := j.Build()
	require.NoError(t, err)
	st, err := reg.Struct("entity")
	require.NoError(t, err)
	require.Equal(t, 48, st.Size())
}

func TestBigEndianSchema(t *testing.T) {
	s, err := ParseYAML([]byte("endian: big\nstructs:\n  - name: a\n    fields:\n      - {name: v, type: u16}\n"))
	require.NoError(t, err)
	reg, err := s.Build()
	require.NoError(t, err)
	require.Equal(t, cstruct.Big, reg.Endian())
	st, err := reg.Struct("a")
	require.NoError(t, err)
	rec, err := st.Decode(reg.Options([]byte{0x01, 0x02}, 0))
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), rec.Get("v"))
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"unknown type", "structs: [{name: a, fields: [{name: v, type: u7}]}]", ErrUnknownType},
		{"forward reference", "structs: [{name: a, fields: [{name: b, struct: b}]}, {name: b, fields: [{name: v, type: u8}]}]", ErrUnknownStruct},
		{"self reference", "structs: [{name: a, fields: [{name: next, ptr: {struct: a}}]}]", ErrUnknownStruct},
		{"two kinds", "structs: [{name: a, fields: [{name: v, type: u8, cstring: true}]}]", ErrInvalidDefinition},
		{"no kind", "structs: [{name: a, fields: [{name: v}]}]", ErrInvalidDefinition},
		{"duplicate struct", "structs: [{name: a, fields: []}, {name: a, fields: []}]", ErrInvalidDefinition},
		{"duplicate field", "structs: [{name: a, fields: [{name: v, type: u8}, {name: v, type: u8}]}]", ErrInvalidDefinition},
		{"unnamed field", "structs: [{name: a, fields: [{type: u8}]}]", ErrInvalidDefinition},
		{"bad endian", "endian: middle\nstructs: []", ErrInvalidDefinition},
		{"pointer array without length", "structs: [{name: a, fields: [{name: v, pointer_array: {type: u8}}]}]", ErrInvalidDefinition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := ParseYAML([]byte(tc.src))
			require.NoError(t, err)
			_, err = s.Build()
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegistryUnknownStruct(t *testing.T) {
	reg, err := (&Schema{}).Build()
	require.NoError(t, err)
	_, err = reg.Struct("missing")
	require.ErrorIs(t, err, ErrUnknownStruct)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entity.yml")
	require.NoError(t, os.WriteFile(path, []byte(entityYAML), 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s.Structs, 2)

	_, err = Load(filepath.Join(dir, "entity.toml"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}
