package main

import (
	"errors"
	"fmt"
	i_fs "io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/podhmo/daro"
	"github.com/podhmo/daro/fs"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when -config is not given and the file exists.
const DefaultConfigFile = "daro.yaml"

// Config is the content of daro.yaml.
type Config struct {
	// Version is the minimum interpreter version, e.g. "v0.1".
	Version  string            `yaml:"version"`
	Root     string            `yaml:"root"`
	LogLevel string            `yaml:"log_level"`
	Preload  []string          `yaml:"preload"`
	Globals  map[string]string `yaml:"globals"`

	dir string
}

// LoadConfig reads a config file. A missing file is an error only when
// required is set; otherwise an empty config is returned.
func LoadConfig(fsys fs.FS, path string, required bool) (*Config, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, i_fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &c, nil
}

// Validate checks the version requirement and the log level.
func (c *Config) Validate() error {
	if c.Version != "" {
		want := c.Version
		if !strings.HasPrefix(want, "v") {
			want = "v" + want
		}
		if !semver.IsValid(want) {
			return fmt.Errorf("version %q is not a semantic version", c.Version)
		}
		if semver.Compare(daro.Version, want) < 0 {
			return fmt.Errorf("requires daro %s, but this is %s", want, daro.Version)
		}
	}
	if c.LogLevel != "" {
		if _, err := parseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// RootDir is the module resolution base, relative to the config file.
func (c *Config) RootDir() string {
	if c.Root == "" {
		return c.dir
	}
	if filepath.IsAbs(c.Root) || c.dir == "" {
		return c.Root
	}
	return filepath.Join(c.dir, c.Root)
}

// PreloadFiles returns the preload paths, relative to the config file.
func (c *Config) PreloadFiles() []string {
	files := make([]string, len(c.Preload))
	for i, p := range c.Preload {
		if filepath.IsAbs(p) || c.dir == "" {
			files[i] = p
		} else {
			files[i] = filepath.Join(c.dir, p)
		}
	}
	return files
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
