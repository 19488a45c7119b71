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

// Package finder lists candidate files and hands them out to workers.
package finder

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtensions are the file types that can reference support library classes.
var DefaultExtensions = []string{".gradle", ".java", ".kt", ".kts", ".pro", ".xml"}

// 📋 Lister produces the candidate paths, relative to the project root
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// 🌳 GitLister lists files tracked by git. Untracked and ignored files, build
// output and nested repositories are never returned.
type GitLister struct {
	Root string // Work tree to list, empty for the current directory
}

var _ Lister = (*GitLister)(nil)

// List runs `git ls-files` in the work tree.
func (g *GitLister) List(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = g.Root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Errorf("running git ls-files (is %q a git work tree?): %w: %s", g.displayRoot(), err, strings.TrimSpace(stderr.String()))
	}

	var files []string
	for _, f := range strings.Split(stdout.String(), "\x00") {
		if f != "" {
			files = append(files, filepath.FromSlash(f))
		}
	}
	return files, nil
}

func (g *GitLister) displayRoot() string {
	if g.Root == "" {
		return "."
	}
	return g.Root
}

// 🔍 Filter decides which listed files are dispatched
type Filter struct {
	extensions []string
	ignore     []string
}

// 🏭 NewFilter creates a filter. Nil extensions fall back to DefaultExtensions;
// ignore patterns are doublestar globs matched against slash separated paths.
func NewFilter(extensions, ignore []string) (*Filter, error) {
	if extensions == nil {
		extensions = DefaultExtensions
	}

	f := &Filter{}
	for _, ext := range extensions {
		if ext == "" {
			return nil, errors.Errorf("empty extension")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions = append(f.extensions, ext)
	}

	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern %q", pattern)
		}
		f.ignore = append(f.ignore, pattern)
	}

	return f, nil
}

// Keep reports whether a listed file should be processed.
func (f *Filter) Keep(file string) bool {
	slashed := filepath.ToSlash(file)

	// suffix match so build.gradle.kts and friends work without special casing
	ok := false
	for _, ext := range f.extensions {
		if strings.HasSuffix(slashed, ext) {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}

	for _, pattern := range f.ignore {
		if doublestar.MatchUnvalidated(pattern, slashed) {
			return false
		}
	}
	return true
}

// Extensions returns the allowed extensions.
func (f *Filter) Extensions() []string {
	return f.extensions
}

// 📊 Info summarizes a dispatch
type Info struct {
	Total     int   // Files sent to workers
	PerWorker []int // Files sent to each worker, by worker index
}

// 🚚 Dispatch lists files, filters them and sends them round robin to the
// worker inputs. Every input is closed before Dispatch returns, including on
// error, so workers always drain and exit.
func Dispatch(ctx context.Context, lister Lister, filter *Filter, inputs []chan<- string) (*Info, error) {
	defer func() {
		for _, in := range inputs {
			close(in)
		}
	}()

	if len(inputs) == 0 {
		return nil, errors.Errorf("no workers to dispatch to")
	}

	files, err := lister.List(ctx)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}

	info := &Info{PerWorker: make([]int, len(inputs))}
	next := 0
	for _, file := range files {
		if !filter.Keep(file) {
			continue
		}

		select {
		case inputs[next] <- file:
		case <-ctx.Done():
			return info, errors.Errorf("dispatching %s: %w", file, ctx.Err())
		}

		info.PerWorker[next]++
		info.Total++
		next = (next + 1) % len(inputs)
	}

	zerolog.Ctx(ctx).Debug().
		Int("listed", len(files)).
		Int("dispatched", info.Total).
		Ints("per_worker", info.PerWorker).
		Msg("dispatched files")

	return info, nil
}

// Describe renders extensions the way they are announced to the user, sorted
// and with kotlin scripts spelled as gradle scripts.
func Describe(extensions []string) string {
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if ext == ".kts" {
			ext = ".gradle.kts"
		}
		out = append(out, ext)
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}
