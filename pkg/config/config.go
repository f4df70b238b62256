// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// ErrorPolicy decides what a run does after a per-file failure.
type ErrorPolicy string

const (
	// OnErrorAbort stops at the first failure and goes straight to the summary.
	OnErrorAbort ErrorPolicy = "abort"
	// OnErrorContinue records the failure and moves on to the next file.
	OnErrorContinue ErrorPolicy = "continue"
)

// DefaultLogFile is the run log written next to the working directory.
const DefaultLogFile = "program.log"

// 📚 Config represents the complete configuration
type Config struct {
	// Source is the flat directory of new deliverables.
	Source string `json:"source" yaml:"source" hcl:"source,optional"`
	// Legacy is the old snapshot the target was seeded from. It is only
	// reported, never read.
	Legacy string `json:"legacy,omitempty" yaml:"legacy,omitempty" hcl:"legacy,optional"`
	// Target is the root that holds the bucket directories.
	Target string `json:"target" yaml:"target" hcl:"target,optional"`

	LogFile   string      `json:"log_file,omitempty" yaml:"log_file,omitempty" hcl:"log_file,optional"`
	LogAppend bool        `json:"log_append,omitempty" yaml:"log_append,omitempty" hcl:"log_append,optional"`
	OnError   ErrorPolicy `json:"on_error,omitempty" yaml:"on_error,omitempty" hcl:"on_error,optional"`
	// Ignore holds doublestar patterns matched against source file names.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
}

// 🏭 Default returns a config with every optional field filled in
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}
	if cfg.OnError == "" {
		cfg.OnError = OnErrorAbort
	}
}

// 🎯 Load loads the configuration from a file. The result has defaults
// applied but is not validated, so callers can layer flags on top first.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	cfg.applyDefaults()

	if cfg.Source == "" {
		return errors.Errorf("source is required")
	}
	if cfg.Target == "" {
		return errors.Errorf("target is required")
	}

	switch cfg.OnError {
	case OnErrorAbort, OnErrorContinue:
	default:
		return errors.Errorf("on_error must be %q or %q, got %q", OnErrorAbort, OnErrorContinue, cfg.OnError)
	}

	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	// Clean up paths
	cfg.Source = filepath.Clean(cfg.Source)
	cfg.Target = filepath.Clean(cfg.Target)
	if cfg.Legacy != "" {
		cfg.Legacy = filepath.Clean(cfg.Legacy)
	}

	if cfg.Source == cfg.Target {
		return errors.Errorf("source and target must differ")
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (%s)", cfg.Source, cfg.Target, cfg.OnError)
}
