package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zhengshuai-xiao/ufhash/internal/compression"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

const (
	DefaultFactor  = 1023
	DefaultWorkers = 4
)

// Config holds the defaults the CLI falls back to when a flag is not set.
type Config struct {
	Factor      int    `yaml:"factor"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	Store       string `yaml:"store"`
	Compression string `yaml:"compression"`
	Workers     int    `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Factor:      DefaultFactor,
		LogLevel:    "info",
		Compression: "none",
		Workers:     DefaultWorkers,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	conf := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger.Debugf("loaded config %s: factor=%d store=%s compression=%s workers=%d",
		path, conf.Factor, RemovePassword(conf.Store), conf.Compression, conf.Workers)
	return conf, nil
}

func (c *Config) Validate() error {
	if err := ufh.CheckFactor(c.Factor); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := compression.GetCompressorViaString(c.Compression); err != nil {
		return fmt.Errorf("%w: %q", err, c.Compression)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
