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

// Package report consumes the worker results and renders them for the user.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/jetmigrate/pkg/log"
	"github.com/walteh/jetmigrate/pkg/pool"
)

// 📊 Summary aggregates a run
type Summary struct {
	FilesSeen    int           // Results received, successful or not
	FilesChanged int           // Files with at least one replacement
	Replacements int           // Lines rewritten across all files
	StarImports  int           // Wildcard lines reported
	Artifacts    int           // Artifact hints reported
	Failed       []pool.Result // Results carrying an error, in arrival order
	Elapsed      time.Duration // Set by Finish
}

// 🔧 Options configures a Reporter
type Options struct {
	DryRun   bool // Changes were previewed, not written
	ShowDiff bool // Print the diff of each changed file
}

// 🖨️ Reporter turns the result stream into console output and a Summary
type Reporter struct {
	logger *log.Logger
	opts   Options
}

// 🏭 New creates a reporter
func New(logger *log.Logger, opts Options) *Reporter {
	return &Reporter{logger: logger, opts: opts}
}

// 📥 Consume reads results until the channel is closed. Results arrive in
// completion order and are rendered as they come in.
func (r *Reporter) Consume(ctx context.Context, results <-chan pool.Result) *Summary {
	s := &Summary{}
	for res := range results {
		r.add(ctx, s, res)
	}
	return s
}

func (r *Reporter) add(ctx context.Context, s *Summary, res pool.Result) {
	s.FilesSeen++

	if res.Err != nil {
		s.Failed = append(s.Failed, res)
		r.logger.Error(res.Err.Error())
		return
	}

	m := res.Match
	if m == nil {
		return
	}

	if m.Replacements > 0 {
		s.FilesChanged++
		s.Replacements += m.Replacements
		r.logger.LogFileChange(log.FileChange{Path: m.Path, Replacements: m.Replacements, DryRun: r.opts.DryRun})
		if r.opts.ShowDiff {
			r.logger.LogDiff(m.Path, m.Diff)
		}
	}

	s.StarImports += len(m.WildcardLines)
	r.logger.LogStarImports(m.Path, m.WildcardLines)

	if len(m.Artifacts) > 0 {
		hints := make([]log.ArtifactHint, len(m.Artifacts))
		for i, a := range m.Artifacts {
			hints[i] = log.ArtifactHint{From: a.Pattern.String(), To: a.Replacement}
		}
		s.Artifacts += len(hints)
		r.logger.LogArtifacts(m.Path, hints)
	}

	zerolog.Ctx(ctx).Debug().
		Int("worker", res.Worker).
		Str("path", m.Path).
		Int("replacements", m.Replacements).
		Msg("result received")
}

// 🏁 Finish records the elapsed time and prints the final line.
func (r *Reporter) Finish(s *Summary, start time.Time) {
	s.Elapsed = time.Since(start)

	verb := "Replaced"
	if r.opts.DryRun {
		verb = "Would replace"
	}
	r.logger.LogNewline()
	r.logger.Successf("%s %d occurrence(s) in %d file(s) in %s!", verb, s.Replacements, s.FilesChanged, FormatElapsed(s.Elapsed))

	if len(s.Failed) > 0 {
		r.logger.Warningf("%d file(s) could not be processed", len(s.Failed))
	}
}

// FormatElapsed renders whole seconds and hundredths: 2.05s.
func FormatElapsed(d time.Duration) string {
	secs := d / time.Second
	centis := (d % time.Second) / (10 * time.Millisecond)
	return fmt.Sprintf("%d.%02ds", int64(secs), int64(centis))
}
