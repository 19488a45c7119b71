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
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultPath is the config file looked up in the project root when none is given.
const DefaultPath = ".jetmigrate.hcl"

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

// 📚 Config holds the settings a project can pin in its config file. Nil
// slices mean "use the built in default".
type Config struct {
	Threads        int      `json:"threads,omitempty" yaml:"threads,omitempty" hcl:"threads,optional"`                            // Worker count, 0 for one per CPU
	Quiet          bool     `json:"quiet,omitempty" yaml:"quiet,omitempty" hcl:"quiet,optional"`                                  // Silence progress output
	Strict         bool     `json:"strict,omitempty" yaml:"strict,omitempty" hcl:"strict,optional"`                               // Fail the run on any per-file error
	Extensions     []string `json:"extensions,omitempty" yaml:"extensions,omitempty" hcl:"extensions,optional"`                   // File suffixes to migrate
	Ignore         []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`                               // Doublestar globs of paths to skip
	BuildLogicDirs []string `json:"build_logic_dirs,omitempty" yaml:"build_logic_dirs,omitempty" hcl:"build_logic_dirs,optional"` // Top level dirs scanned for dependency coordinates

	location string
}

// 🏭 Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{}
}

// Location returns the file the config was read from, empty for defaults.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
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

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	cfg.location = path

	return cfg, nil
}

// 🎯 LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(ctx context.Context, path string) (*Config, error) {
	cfg, err := Load(ctx, path)
	if errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return Default(), nil
	}
	return cfg, err
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Threads < 0 {
		return errors.Errorf("threads must not be negative, got %d", cfg.Threads)
	}

	if cfg.Extensions != nil && len(cfg.Extensions) == 0 {
		return errors.Errorf("extensions must not be empty when set")
	}
	for _, ext := range cfg.Extensions {
		if strings.TrimSpace(ext) == "" {
			return errors.Errorf("extensions must not contain empty entries")
		}
	}

	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	for _, dir := range cfg.BuildLogicDirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) || dir == "." || dir == ".." {
			return errors.Errorf("build_logic_dirs entries must be single top level directory names, got %q", dir)
		}
	}

	return nil
}

// ResolvePath returns path, or DefaultPath inside root when path is empty.
func ResolvePath(root, path string) string {
	if path != "" {
		return path
	}
	return filepath.Join(root, DefaultPath)
}
