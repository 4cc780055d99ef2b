package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/cstruct"
)

// Config is the optional cstruct configuration file
// ($XDG_CONFIG_HOME/cstruct/config.yaml). Flags given on the command line
// take precedence over it.
type Config struct {
	Endian   string `yaml:"endian"`
	LogLevel string `yaml:"log_level"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cstruct", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// settings are the resolved global options shared by every command.
type settings struct {
	configFile string
	endian     string
	logLevel   string

	order cstruct.Endian
	log   *zap.Logger
}

// apply fills in values from cfg for the flags that were not set
// explicitly.
func (s *settings) apply(c *cli.Command, cfg Config) {
	if cfg.Endian != "" && !c.IsSet("endian") {
		s.endian = cfg.Endian
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		s.logLevel = cfg.LogLevel
	}
}

// resolve loads the config file, applies it and builds the logger.
func (s *settings) resolve(c *cli.Command) error {
	path := s.configFile
	if path == "" {
		path = configPath()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	s.apply(c, cfg)

	order, err := cstruct.ParseEndian(s.endian)
	if err != nil {
		return err
	}
	s.order = order

	log, err := newLogger(s.logLevel)
	if err != nil {
		return err
	}
	s.log = log
	cstruct.SetLogger(log)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "warn"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
