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

package opts

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/jetmigrate/pkg/config"
	"github.com/walteh/jetmigrate/pkg/log"
	"github.com/walteh/jetmigrate/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Flags
	ConfigFile string
	Root       string
	Debug      bool
	Quiet      bool
	Threads    int
	DryRun     bool
	Diff       bool
	Strict     bool

	// Resolved by Load
	Config *config.Config
	Logger *log.Logger
}

// 🎯 Load resolves the project root, reads the config file and lets flags
// that were set explicitly win over it. changed reports whether a flag was
// given on the command line.
//
// Without --config the default file in the root is optional; an explicit
// --config must exist.
func (o *RootOpts) Load(ctx context.Context, changed func(name string) bool) error {
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return errors.Errorf("resolving root %q: %w", o.Root, err)
	}
	o.Root = root

	path := config.ResolvePath(root, o.ConfigFile)

	var cfg *config.Config
	if o.ConfigFile == "" {
		cfg, err = config.LoadOptional(ctx, path)
	} else {
		cfg, err = config.Load(ctx, path)
	}
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg

	source := cfg.Location()
	if source == "" {
		source = "defaults"
	}
	zerolog.Ctx(ctx).Debug().Str("root", root).Str("config", source).Msg("configuration resolved")

	if !changed("threads") {
		o.Threads = cfg.Threads
	}
	if !changed("quiet") {
		o.Quiet = cfg.Quiet
	}
	if !changed("strict") {
		o.Strict = cfg.Strict
	}
	if o.Threads < 0 {
		return errors.Errorf("threads must not be negative, got %d", o.Threads)
	}

	// a diff is only ever computed for changes that were not written
	if o.Diff {
		o.DryRun = true
	}

	return nil
}

// MigrateOptions builds the options for a migration run.
func (o *RootOpts) MigrateOptions() operation.Options {
	opts := operation.Options{
		Root:     o.Root,
		Threads:  o.Threads,
		DryRun:   o.DryRun,
		ShowDiff: o.Diff,
	}
	if o.Config != nil {
		opts.Extensions = o.Config.Extensions
		opts.Ignore = o.Config.Ignore
		opts.BuildLogicDirs = o.Config.BuildLogicDirs
	}
	return opts
}
