// Package config loads the optional .testadapter.yaml file and turns it
// into tool options. Values from the file sit between the built-in
// defaults and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kballard/go-shellquote"

	"github.com/specvital/pyadapter/pkg/tool"
)

// FileName is looked up in the root directory when no path is given.
const FileName = ".testadapter.yaml"

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrInvalidArgs   = errors.New("config: invalid tool arguments")
)

// Config mirrors the command-line flags. Zero values mean "not set".
type Config struct {
	Root     string   `yaml:"root"`
	Python   string   `yaml:"python"`
	Patterns []string `yaml:"patterns"`
	Exclude  []string `yaml:"exclude"`
	Workers  int      `yaml:"workers"`
	Timeout  string   `yaml:"timeout"`
	Args     string   `yaml:"args"`
	Debug    Debug    `yaml:"debug"`

	// dir is the directory of the file the config was read from.
	dir string
}

// Debug holds the debugpy listen address.
type Debug struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Find loads explicit when set. Otherwise it loads FileName from root if
// present, and returns an empty Config if not.
func Find(root, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}

	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}
	return Load(path)
}

func (c *Config) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Debug.Port < 0 || c.Debug.Port > 65535 {
		return fmt.Errorf("%w: debug port out of range: %d", ErrInvalidConfig, c.Debug.Port)
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout: %w", ErrInvalidConfig, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
		}
	}
	if _, err := SplitArgs(c.Args); err != nil {
		return err
	}
	return nil
}

// Options converts the set fields into tool options. A relative root is
// resolved against the directory of the config file.
func (c *Config) Options() []tool.Option {
	var opts []tool.Option

	if c.Root != "" {
		root := c.Root
		if !filepath.IsAbs(root) && c.dir != "" {
			root = filepath.Join(c.dir, root)
		}
		opts = append(opts, tool.WithRoot(root))
	}
	if c.Python != "" {
		opts = append(opts, tool.WithPython(c.Python))
	}
	if len(c.Patterns) > 0 {
		opts = append(opts, tool.WithPatterns(c.Patterns))
	}
	if len(c.Exclude) > 0 {
		opts = append(opts, tool.WithExclude(c.Exclude))
	}
	if c.Workers > 0 {
		opts = append(opts, tool.WithWorkers(c.Workers))
	}
	// Validated on load.
	if d, err := time.ParseDuration(c.Timeout); err == nil {
		opts = append(opts, tool.WithTimeout(d))
	}
	if args, err := SplitArgs(c.Args); err == nil && len(args) > 0 {
		opts = append(opts, tool.WithArgs(args))
	}
	if c.Debug.Host != "" || c.Debug.Port > 0 {
		host, port := c.Debug.Host, c.Debug.Port
		if host == "" {
			host = tool.DefaultDebugHost
		}
		if port == 0 {
			port = tool.DefaultDebugPort
		}
		opts = append(opts, tool.WithDebugAddress(host, port))
	}
	return opts
}

// SplitArgs splits a shell-style argument string, honouring quotes.
func SplitArgs(s string) ([]string, error) {
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidArgs, s, err)
	}
	return args, nil
}
