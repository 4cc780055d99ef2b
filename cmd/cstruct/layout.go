package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/rawbytedev/cstruct"
)

func layoutCmd(s *settings, out io.Writer) *cli.Command {
	var schemaPath, structName string
	return &cli.Command{
		Name:  "layout",
		Usage: "Print field offsets, sizes and alignments",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "schema", Aliases: []string{"s"}, Usage: "schema file (.yaml or .json)", Destination: &schemaPath, Required: true},
			&cli.StringFlag{Name: "struct", Usage: "only this struct", Destination: &structName},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := s.resolve(cmd); err != nil {
				return err
			}
			reg, err := loadRegistry(schemaPath)
			if err != nil {
				return err
			}
			names := reg.Names()
			if structName != "" {
				names = []string{structName}
			}
			for i, name := range names {
				st, err := reg.Struct(name)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				printLayout(out, name, st)
			}
			return nil
		},
	}
}

func printLayout(out io.Writer, name string, st *cstruct.Struct) {
	fmt.Fprintf(out, "%s (size %d, align %d)\n", name, st.Size(), st.Alignment())
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OFFSET\tSIZE\tALIGN\tACCESS\tFIELD")
	for _, f := range st.Fields() {
		field := f.Name
		if field == "" {
			field = "(padding)"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", f.Offset, f.Size, f.Alignment, access(f), field)
	}
	w.Flush()
}

func access(f cstruct.FieldInfo) string {
	switch {
	case f.Live:
		return "live"
	case f.Writable:
		return "rw"
	default:
		return "ro"
	}
}
