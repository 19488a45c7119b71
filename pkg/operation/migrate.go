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

package operation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/jetmigrate/pkg/finder"
	"github.com/walteh/jetmigrate/pkg/log"
	"github.com/walteh/jetmigrate/pkg/mapping"
	"github.com/walteh/jetmigrate/pkg/match"
	"github.com/walteh/jetmigrate/pkg/pool"
	"github.com/walteh/jetmigrate/pkg/process"
	"github.com/walteh/jetmigrate/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures a migration run
type Options struct {
	Root           string        // Project root, relative paths resolve against it
	Threads        int           // Requested workers, capped at the CPU count
	DryRun         bool          // Report what would change without writing
	ShowDiff       bool          // Print a diff for every changed file
	Extensions     []string      // File suffixes to migrate, nil for the defaults
	Ignore         []string      // Doublestar globs of paths to skip
	BuildLogicDirs []string      // Top level dirs checked for dependency coordinates
	Lister         finder.Lister // Source of candidate files, git when nil
}

// 🚚 Migrator wires the pipeline: lister, dispatcher, worker pool, reporter
type Migrator struct {
	opts   Options
	tables *mapping.Tables
	filter *finder.Filter
	logger *log.Logger
}

// 🏭 New validates the options and loads the mapping tables. Any error here
// means nothing can be migrated.
func New(ctx context.Context, logger *log.Logger, opts Options) (*Migrator, error) {
	tables, err := mapping.Load(ctx)
	if err != nil {
		return nil, errors.Errorf("loading mapping tables: %w", err)
	}

	filter, err := finder.NewFilter(opts.Extensions, opts.Ignore)
	if err != nil {
		return nil, errors.Errorf("building file filter: %w", err)
	}

	if opts.Lister == nil {
		opts.Lister = &finder.GitLister{Root: opts.Root}
	}

	return &Migrator{
		opts:   opts,
		tables: tables,
		filter: filter,
		logger: logger,
	}, nil
}

// 🏃 Run migrates every candidate file and returns the aggregate.
//
// The reporter drains results on its own goroutine while the dispatcher feeds
// the workers from this one; the result queue closes once the last worker has
// exited, which ends the reporter.
func (m *Migrator) Run(ctx context.Context) (*report.Summary, error) {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	threads := pool.Size(m.opts.Threads)
	m.logger.Header(fmt.Sprintf("Starting with %d threads...", threads))

	proc := process.New(match.New(m.tables), process.Options{
		Root:           m.opts.Root,
		BuildLogicDirs: m.opts.BuildLogicDirs,
		DryRun:         m.opts.DryRun,
	})

	p := pool.Start(ctx, proc, threads, 0)
	rep := report.New(m.logger, report.Options{DryRun: m.opts.DryRun, ShowDiff: m.opts.ShowDiff})

	summaries := make(chan *report.Summary, 1)
	go func() {
		summaries <- rep.Consume(ctx, p.Results())
	}()

	info, dispatchErr := finder.Dispatch(ctx, m.opts.Lister, m.filter, p.Inputs())
	if dispatchErr == nil && !m.logger.Quiet() {
		m.logger.Infof("Found %d files (%s)...", info.Total, finder.Describe(m.filter.Extensions()))
	}

	summary := <-summaries
	if dispatchErr != nil {
		return summary, dispatchErr
	}

	rep.Finish(summary, start)

	logger.Debug().
		Int("threads", threads).
		Int("files", info.Total).
		Int("changed", summary.FilesChanged).
		Int("replacements", summary.Replacements).
		Int("failed", len(summary.Failed)).
		Dur("elapsed", summary.Elapsed).
		Msg("migration complete")

	return summary, nil
}
