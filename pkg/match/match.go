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

package match

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/walteh/jetmigrate/pkg/mapping"
)

// wildcardPattern matches star imports and proguard globs, neither of which
// maps to a single class.
var wildcardPattern = regexp.MustCompile(`\.\*[;]?`)

// DefaultBuildLogicDirs are top level directories whose files may declare dependencies.
var DefaultBuildLogicDirs = []string{"buildSrc"}

// 🎯 Line is the outcome of matching a single line
type Line struct {
	Text     string           // the line to write, rewritten or original
	Matched  bool             // a mapping was applied
	Wildcard bool             // the line is a wildcard import or glob that can't be rewritten
	Mapping  *mapping.Mapping // the applied mapping, if any
}

// 🔎 Matcher applies the mapping tables to single lines. It holds no mutable
// state and is safe to share between goroutines.
type Matcher struct {
	tables *mapping.Tables
}

// 🏭 New creates a matcher over the given tables
func New(tables *mapping.Tables) *Matcher {
	return &Matcher{tables: tables}
}

// Tables returns the tables the matcher was built with.
func (m *Matcher) Tables() *mapping.Tables {
	return m.tables
}

// 🔄 MatchLine rewrites the first deprecated class reference in line.
//
// Categories are tried in priority order and the first one whose gates admit
// the line decides the result, even when none of its mappings match. Wildcard
// lines are reported and left alone. At most one replacement is made per line.
func (m *Matcher) MatchLine(line string) Line {
	for _, cat := range m.tables.Classes() {
		if !cat.Admits(line) {
			continue
		}

		if IsWildcard(line) {
			return Line{Text: line, Wildcard: true}
		}

		mp, loc := cat.Find(line)
		if mp == nil {
			return Line{Text: line}
		}
		return Line{
			Text:    line[:loc[0]] + mp.Replacement + line[loc[1]:],
			Matched: true,
			Mapping: mp,
		}
	}

	return Line{Text: line}
}

// 📦 MatchArtifact returns the artifact mapping for a dependency declaration
// on line, or nil. Artifacts are only ever reported.
func (m *Matcher) MatchArtifact(line string) *mapping.Mapping {
	cat := m.tables.Artifacts()
	if !cat.Admits(line) {
		return nil
	}
	mp, _ := cat.Find(line)
	return mp
}

// IsWildcard reports whether line contains a star import or glob.
func IsWildcard(line string) bool {
	return wildcardPattern.MatchString(line)
}

// 🏗️ ArtifactCandidate reports whether a file at rel (relative to the project
// root) could plausibly declare build dependencies: a top level file, a module
// build file one directory down, or anything under a build logic directory.
// Markup and proguard rules never qualify.
func ArtifactCandidate(rel string, buildLogicDirs []string) bool {
	rel = path.Clean(filepath.ToSlash(rel))

	ext := path.Ext(rel)
	if ext == "" || ext == ".xml" || ext == ".pro" {
		return false
	}

	parts := strings.Split(strings.TrimPrefix(rel, "/"), "/")
	for _, dir := range buildLogicDirs {
		if parts[0] == dir {
			return true
		}
	}

	return len(parts) <= 2
}
