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

package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/jetmigrate/pkg/mapping"
	"github.com/walteh/jetmigrate/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// 📄 Result describes what happened to one file
type Result struct {
	Path          string             // Path as it was dispatched
	Replacements  int                // Number of lines rewritten
	Artifacts     []*mapping.Mapping // Distinct artifact mappings, first seen order
	WildcardLines []string           // Wildcard lines verbatim, first seen order
	Written       bool               // Whether the file on disk was replaced
	Diff          string             // Line diff of the change, dry runs only
}

// 🔧 Options configures a Processor
type Options struct {
	Root           string   // Directory relative paths are resolved against
	BuildLogicDirs []string // Directories whose files are checked for artifacts
	DryRun         bool     // Compute results without touching files
}

// ⚙️ Processor migrates files one at a time. It is safe for concurrent use as
// long as no two calls share a path.
type Processor struct {
	matcher *match.Matcher
	opts    Options
}

// 🏭 New creates a processor
func New(matcher *match.Matcher, opts Options) *Processor {
	if opts.BuildLogicDirs == nil {
		opts.BuildLogicDirs = match.DefaultBuildLogicDirs
	}
	return &Processor{matcher: matcher, opts: opts}
}

// 🔄 Process scans the file at path and, when at least one line changed,
// atomically replaces it with the rewritten content. Files without changes are
// never opened for writing.
func (p *Processor) Process(ctx context.Context, path string) (*Result, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(p.opts.Root, path)
	}

	rel := path
	if filepath.IsAbs(rel) && p.opts.Root != "" {
		if r, err := filepath.Rel(p.opts.Root, rel); err == nil {
			rel = r
		}
	}

	res, output, before, err := p.scan(abs, rel)
	if err != nil {
		return nil, err
	}
	res.Path = path

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("path", path).
		Int("replacements", res.Replacements).
		Int("artifacts", len(res.Artifacts)).
		Int("wildcards", len(res.WildcardLines)).
		Msg("scanned file")

	if res.Replacements == 0 {
		return res, nil
	}

	if p.opts.DryRun {
		res.Diff = lineDiff(before, output.String())
		return res, nil
	}

	if err := replaceFile(abs, output.Bytes()); err != nil {
		return nil, errors.Errorf("replacing %s: %w", path, err)
	}
	res.Written = true

	return res, nil
}

// 🔍 scan maps the file and runs every line through the matcher. The mapping
// is released before scan returns.
func (p *Processor) scan(abs, rel string) (*Result, *bytes.Buffer, string, error) {
	f, err := os.Open(abs)
	if err != nil {
		return nil, nil, "", errors.Errorf("opening %s: %w", rel, err)
	}
	defer f.Close()

	data, unmap, err := mapFile(f)
	if err != nil {
		return nil, nil, "", errors.Errorf("mapping %s: %w", rel, err)
	}
	defer unmap()

	if !utf8.Valid(data) {
		return nil, nil, "", errors.Errorf("decoding %s: not valid UTF-8", rel)
	}

	checkArtifacts := match.ArtifactCandidate(rel, p.opts.BuildLogicDirs)

	res := &Result{}
	output := bytes.NewBuffer(make([]byte, 0, len(data)))
	seen := make(map[*mapping.Mapping]struct{})

	for rest := data; len(rest) > 0; {
		var line, term []byte
		line, term, rest = nextLine(rest)

		text := string(line)
		lm := p.matcher.MatchLine(text)
		switch {
		case lm.Matched:
			res.Replacements++
		case lm.Wildcard:
			res.WildcardLines = append(res.WildcardLines, text)
		case checkArtifacts:
			// a dependency declaration sharing a line with a class reference is not expected
			if a := p.matcher.MatchArtifact(text); a != nil {
				if _, ok := seen[a]; !ok {
					seen[a] = struct{}{}
					res.Artifacts = append(res.Artifacts, a)
				}
			}
		}

		output.WriteString(lm.Text)
		output.Write(term)
	}

	var before string
	if p.opts.DryRun && res.Replacements > 0 {
		before = string(data)
	}

	return res, output, before, nil
}

// nextLine splits data at the first newline. The terminator ("\n", "\r\n" or
// nothing at end of file) is returned separately so it can be written back as is.
func nextLine(data []byte) (line, term, rest []byte) {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return data, nil, nil
	}
	if i > 0 && data[i-1] == '\r' {
		return data[:i-1], data[i-1 : i+1], data[i+1:]
	}
	return data[:i], data[i : i+1], data[i+1:]
}
