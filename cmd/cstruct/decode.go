package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rawbytedev/cstruct"
)

func decodeCmd(s *settings, out io.Writer) *cli.Command {
	var (
		schemaPath string
		structName string
		input      string
		offset     int64
	)
	return &cli.Command{
		Name:  "decode",
		Usage: "Decode a struct from a binary file and print it as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "schema", Aliases: []string{"s"}, Usage: "schema file (.yaml or .json)", Destination: &schemaPath, Required: true},
			&cli.StringFlag{Name: "struct", Usage: "struct name", Destination: &structName, Required: true},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "binary file", Destination: &input, Required: true},
			&cli.Int64Flag{Name: "offset", Usage: "byte offset of the struct", Destination: &offset},
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
			s.log.Debug("decoding",
				zap.String("struct", structName),
				zap.Int64("offset", offset),
				zap.Stringer("endian", order))
			rec, err := st.Decode(cstruct.Options{Buf: buf, Offset: int(offset), Endian: order})
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}
}
