package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/cstruct"
)

func setCmd(s *settings, out io.Writer) *cli.Command {
	var (
		schemaPath string
		structName string
		input      string
		offset     int64
		fieldName  string
		value      string
	)
	return &cli.Command{
		Name:  "set",
		Usage: "Write one field of a struct in a binary file in place",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "schema", Aliases: []string{"s"}, Usage: "schema file (.yaml or .json)", Destination: &schemaPath, Required: true},
			&cli.StringFlag{Name: "struct", Usage: "struct name", Destination: &structName, Required: true},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "binary file, rewritten in place", Destination: &input, Required: true},
			&cli.Int64Flag{Name: "offset", Usage: "byte offset of the struct", Destination: &offset},
			&cli.StringFlag{Name: "field", Aliases: []string{"f"}, Usage: "top-level field name", Destination: &fieldName, Required: true},
			&cli.StringFlag{Name: "value", Usage: "new value as a YAML scalar, list or map", Destination: &value, Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := s.resolve(cmd); err != nil {
				return err
			}
			st, order, err := s.loadStruct(schemaPath, structName)
			if err != nil {
				return err
			}
			buf, err := readInput(input, int(offset), st.Size())
			if err != nil {
				return err
			}
			v := st.View(cstruct.Options{Buf: buf, Offset: int(offset), Endian: order})
			if err := setField(v, fieldName, value); err != nil {
				return err
			}
			info, err := os.Stat(input)
			if err != nil {
				return err
			}
			if err := os.WriteFile(input, buf, info.Mode().Perm()); err != nil {
				return err
			}
			s.log.Info("field written", zap.String("field", fieldName), zap.String("file", input))
			got, err := v.Get(fieldName)
			if err != nil {
				return err
			}
			shown, err := show(got)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s = %v\n", fieldName, shown)
			return err
		},
	}
}

// setField parses raw as YAML so numbers, lists and maps keep their shape.
// When the parsed value does not fit the field, raw is retried as a plain
// string (a numeric-looking name, for example).
func setField(v *cstruct.View, name, raw string) error {
	var parsed any
	if err := yaml.Unmarshal([]byte(raw), &parsed); err != nil {
		parsed = raw
	}
	err := v.Set(name, parsed)
	if errors.Is(err, cstruct.ErrTypeMismatch) {
		if _, isString := parsed.(string); !isString {
			return v.Set(name, raw)
		}
	}
	return err
}

// show snapshots live values so they print as data.
func show(v any) (any, error) {
	switch x := v.(type) {
	case *cstruct.View:
		return x.Snapshot()
	case *cstruct.ArrayView:
		return x.Snapshot()
	}
	return v, nil
}
