// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogName   = "pcepctl.log"
	DefaultLogLevel  = "info"
	DefaultPcepPort  = 4189
	DefaultMaxFlows  = 1024
	DefaultTedMetric = "igp"
)

type Log struct {
	Path  string `yaml:"path"`
	Name  string `yaml:"name"`
	Level string `yaml:"level"`
}

// FilePath returns the log file location, empty when file logging is disabled.
func (l Log) FilePath() string {
	if l.Path == "" {
		return ""
	}
	return filepath.Join(l.Path, l.Name)
}

type Decode struct {
	IgnoreSpaces    bool `yaml:"ignoreSpaces"`
	VerifyRoundTrip bool `yaml:"verifyRoundTrip"`
}

type Capture struct {
	Port     uint16 `yaml:"port"`
	MaxFlows int    `yaml:"maxFlows"`
}

type Ted struct {
	Metric string `yaml:"metric"`
}

type Global struct {
	Log     Log     `yaml:"log"`
	Decode  Decode  `yaml:"decode"`
	Capture Capture `yaml:"capture"`
	Ted     Ted     `yaml:"ted"`
}

type Config struct {
	Global Global `yaml:"global"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	g := &c.Global
	if g.Log.Name == "" {
		g.Log.Name = DefaultLogName
	}
	if g.Log.Level == "" {
		g.Log.Level = DefaultLogLevel
	}
	if g.Capture.Port == 0 {
		g.Capture.Port = DefaultPcepPort
	}
	if g.Capture.MaxFlows == 0 {
		g.Capture.MaxFlows = DefaultMaxFlows
	}
	if g.Ted.Metric == "" {
		g.Ted.Metric = DefaultTedMetric
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() (err error) {
	g := c.Global
	switch g.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("log.level: unknown level %q", g.Log.Level))
	}
	if g.Capture.MaxFlows < 0 {
		err = multierr.Append(err, fmt.Errorf("capture.maxFlows: must not be negative, got %d", g.Capture.MaxFlows))
	}
	switch g.Ted.Metric {
	case "igp", "te", "hopcount":
	default:
		err = multierr.Append(err, fmt.Errorf("ted.metric: unknown metric %q", g.Ted.Metric))
	}
	return err
}

// Parse reads YAML from r, fills in defaults and validates the result.
func Parse(r io.Reader) (Config, error) {
	c := new(Config)
	if err := yaml.NewDecoder(r).Decode(c); err != nil && err != io.EOF {
		return *c, fmt.Errorf("failed to parse config: %w", err)
	}
	c.applyDefaults()
	return *c, c.Validate()
}

func ReadConfigFile(configFile string) (Config, error) {
	f, err := os.Open(configFile)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Parse(f)
}
