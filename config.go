package stylesextractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file. Keys match the CLI flag names.
//
//	inputs:
//	  - https://example.com
//	  - pages/**/*.html
//	out-dir: settings
//	report: true
//	viewport-width: 1440
//	timeout: 45s
type Config struct {
	Inputs        []string      `yaml:"inputs"`
	Output        string        `yaml:"output"`
	OutDir        string        `yaml:"out-dir"`
	Report        bool          `yaml:"report"`
	Browser       bool          `yaml:"browser"`
	ChromePath    string        `yaml:"chrome-path"`
	ViewportWidth int           `yaml:"viewport-width"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user-agent"`
	Concurrency   int           `yaml:"concurrency"`
	SaveSnapshot  bool          `yaml:"save-snapshot"`
}

// LoadConfig reads a YAML configuration file. Unknown keys are an error so
// that typos do not go unnoticed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.ViewportWidth < 0 {
		return nil, fmt.Errorf("parse config %s: viewport-width must not be negative", path)
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("parse config %s: concurrency must not be negative", path)
	}
	return &cfg, nil
}

// Options converts the file into extraction options. Inputs are not part of
// the result; pass them to ExpandInputs.
func (c *Config) Options() Options {
	return Options{
		Output:        c.Output,
		OutDir:        c.OutDir,
		Report:        c.Report,
		Browser:       c.Browser,
		ChromePath:    c.ChromePath,
		ViewportWidth: c.ViewportWidth,
		Timeout:       c.Timeout,
		UserAgent:     c.UserAgent,
		Concurrency:   c.Concurrency,
		SaveSnapshot:  c.SaveSnapshot,
	}
}
