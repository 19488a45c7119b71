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

package mapping

import (
	"context"
	"embed"
	"encoding/csv"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind names a category of mappings
type Kind string

const (
	KindSupport     Kind = "support"
	KindArch        Kind = "arch"
	KindDatabinding Kind = "databinding"
	KindArtifact    Kind = "artifact"
)

// 🔄 Mapping pairs a deprecated reference pattern with its replacement
type Mapping struct {
	Pattern     *regexp.Regexp // Regex matching the deprecated class or artifact
	Replacement string         // Literal replacement text
}

// 📏 Len returns the length of the pattern source text
func (m *Mapping) Len() int {
	return len(m.Pattern.String())
}

// 📦 Category is a set of mappings sharing a namespace prefix.
//
// Mappings are sorted longest pattern first so a short class name never
// shadows a longer one it is a prefix of (Toolbar vs ToolbarWidgetWrapper).
// A Category is read only once Load returns.
type Category struct {
	Kind      Kind
	Mappings  []*Mapping
	MinLength int // length of the shortest pattern

	boundaries []*regexp.Regexp
}

// 🚪 Admits runs the cheap gates: trimmed line length, then the boundary regexes.
// Only lines that pass are worth scanning against every mapping.
func (c *Category) Admits(line string) bool {
	if len(strings.TrimSpace(line)) < c.MinLength {
		return false
	}
	for _, b := range c.boundaries {
		if b.MatchString(line) {
			return true
		}
	}
	return false
}

// 🔍 Find returns the first mapping whose pattern matches the line, along with
// the byte offsets of the match.
func (c *Category) Find(line string) (*Mapping, []int) {
	for _, m := range c.Mappings {
		if loc := m.Pattern.FindStringIndex(line); loc != nil {
			return m, loc
		}
	}
	return nil, nil
}

// Boundaries returns the source text of the boundary regexes.
func (c *Category) Boundaries() []string {
	out := make([]string, len(c.boundaries))
	for i, b := range c.boundaries {
		out[i] = b.String()
	}
	return out
}

// 📚 Tables holds every category. It is built once and shared read only by all workers.
type Tables struct {
	classes   []*Category
	artifacts *Category
}

// Classes returns the class categories in the order lines are checked against them.
func (t *Tables) Classes() []*Category {
	return t.classes
}

// Artifacts returns the build artifact category.
func (t *Tables) Artifacts() *Category {
	return t.artifacts
}

// Category looks up a category by kind.
func (t *Tables) Category(kind Kind) (*Category, bool) {
	if kind == KindArtifact {
		return t.artifacts, t.artifacts != nil
	}
	for _, c := range t.classes {
		if c.Kind == kind {
			return c, true
		}
	}
	return nil, false
}

// Known boundaries in front of a namespace:
//   - " ": start of a new word
//   - "<" and "/": xml start and end tags
//   - quotes: strings and dependencies
//   - ":" and "@": annotations, including kotlin use-site targets
//   - ";": lint baselines encoding "<" and ">"
//   - "(": fully qualified parameter
//   - "[": kdoc link
const boundaryChars = `[ </"@:\[';(]`

// 🗺️ source describes one embedded table
type source struct {
	kind       Kind
	file       string
	header     [2]string
	boundaries []string
}

var (
	classHeader    = [2]string{"Support Library class", "Android X class"}
	artifactHeader = [2]string{"Old build artifact", "AndroidX build artifact"}

	// checked in this order; support is by far the most common
	classSources = []source{
		{KindSupport, "data/android_support_mappings.csv", classHeader, []string{boundaryChars + `android\.support`}},
		{KindArch, "data/android_arch_mappings.csv", classHeader, []string{boundaryChars + `android\.arch`}},
		{KindDatabinding, "data/android_databinding_mappings.csv", classHeader, []string{boundaryChars + `android\.databinding`}},
	}

	artifactSource = source{
		KindArtifact, "data/android_artifact_mappings.csv", artifactHeader, []string{
			`["']com\.android\.support[a-z\.]*:`,
			`["']android\.arch[a-z\.]*:`,
		},
	}
)

//go:embed data/*.csv
var tableFS embed.FS

// 🏭 Load builds all tables from the embedded mapping data.
//
// Any error here means the embedded data is broken and nothing can be migrated.
func Load(ctx context.Context) (*Tables, error) {
	logger := zerolog.Ctx(ctx)

	tables := &Tables{}
	for _, src := range classSources {
		cat, err := loadSource(src)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("category", string(cat.Kind)).Int("mappings", len(cat.Mappings)).Int("min_length", cat.MinLength).Msg("loaded mappings")
		tables.classes = append(tables.classes, cat)
	}

	cat, err := loadSource(artifactSource)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("category", string(cat.Kind)).Int("mappings", len(cat.Mappings)).Int("min_length", cat.MinLength).Msg("loaded mappings")
	tables.artifacts = cat

	return tables, nil
}

func loadSource(src source) (*Category, error) {
	f, err := tableFS.Open(src.file)
	if err != nil {
		return nil, errors.Errorf("opening %s mappings: %w", src.kind, err)
	}
	defer f.Close()

	cat, err := ParseCategory(src.kind, f, src.header, src.boundaries)
	if err != nil {
		return nil, errors.Errorf("loading %s mappings: %w", src.kind, err)
	}
	return cat, nil
}

// 📝 ParseCategory reads a two column CSV table with the given header and
// compiles it into a sorted Category.
func ParseCategory(kind Kind, r io.Reader, header [2]string, boundaries []string) (*Category, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = 2

	head, err := rdr.Read()
	if err != nil {
		return nil, errors.Errorf("reading header: %w", err)
	}
	if strings.TrimSpace(head[0]) != header[0] || strings.TrimSpace(head[1]) != header[1] {
		return nil, errors.Errorf("unexpected header %q, want %q", head, header)
	}

	cat := &Category{Kind: kind}
	seen := make(map[string]struct{})
	for {
		record, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading record: %w", err)
		}

		pattern := strings.TrimSpace(record[0])
		replacement := strings.TrimSpace(record[1])
		if pattern == "" || replacement == "" {
			line, _ := rdr.FieldPos(0)
			return nil, errors.Errorf("line %d: empty pattern or replacement", line)
		}
		if _, dup := seen[pattern]; dup {
			return nil, errors.Errorf("duplicate pattern %q", pattern)
		}
		seen[pattern] = struct{}{}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Errorf("compiling pattern %q: %w", pattern, err)
		}
		cat.Mappings = append(cat.Mappings, &Mapping{Pattern: re, Replacement: replacement})
	}

	if len(cat.Mappings) == 0 {
		return nil, errors.Errorf("no mappings found")
	}

	// longest first; stable so equal lengths keep file order
	sort.SliceStable(cat.Mappings, func(i, j int) bool {
		return cat.Mappings[i].Len() > cat.Mappings[j].Len()
	})
	cat.MinLength = cat.Mappings[len(cat.Mappings)-1].Len()

	for _, b := range boundaries {
		re, err := regexp.Compile(b)
		if err != nil {
			return nil, errors.Errorf("compiling boundary %q: %w", b, err)
		}
		cat.boundaries = append(cat.boundaries, re)
	}

	return cat, nil
}
