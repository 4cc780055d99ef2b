package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rawbytedev/cstruct"
	"github.com/rawbytedev/cstruct/pkg/schema"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	s := &settings{}
	return &cli.Command{
		Name:  "cstruct",
		Usage: "Inspect and patch C struct layouts in binary files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config.yaml", Destination: &s.configFile},
			&cli.StringFlag{Name: "endian", Usage: "byte order: little or big", Destination: &s.endian},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Destination: &s.logLevel},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			layoutCmd(s, out),
			decodeCmd(s, out),
			setCmd(s, out),
			versionCmd(out),
		},
	}
}

// loadStruct builds the schema and returns the named layout together with
// the byte order to use: the --endian flag or config value when given,
// the schema's own otherwise.
func (s *settings) loadStruct(path, name string) (*cstruct.Struct, cstruct.Endian, error) {
	reg, err := loadRegistry(path)
	if err != nil {
		return nil, 0, err
	}
	st, err := reg.Struct(name)
	if err != nil {
		return nil, 0, err
	}
	order := reg.Endian()
	if s.endian != "" {
		order = s.order
	}
	return st, order, nil
}

func loadRegistry(path string) (*schema.Registry, error) {
	sc, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return sc.Build()
}

func readInput(path string, offset int, size int) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset+size > len(buf) {
		return nil, fmt.Errorf("%s: struct of %d bytes at offset %d exceeds file size %d", path, size, offset, len(buf))
	}
	return buf, nil
}
