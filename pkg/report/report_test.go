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

package report

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/jetmigrate/pkg/log"
	"github.com/walteh/jetmigrate/pkg/mapping"
	"github.com/walteh/jetmigrate/pkg/pool"
	"github.com/walteh/jetmigrate/pkg/process"
	"gitlab.com/tozd/go/errors"
)

func plain(t *testing.T) {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})
}

func feed(results ...pool.Result) <-chan pool.Result {
	ch := make(chan pool.Result, len(results))
	for _, r := range results {
		ch <- r
	}
	close(ch)
	return ch
}

func TestReporter_Consume(t *testing.T) {
	plain(t)

	car := &mapping.Mapping{Pattern: regexp.MustCompile(`com.android.support:car`), Replacement: "androidx.car:car:1.0.0-alpha5"}

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := New(log.New(context.Background(), out, errOut, false), Options{})

	s := r.Consume(context.Background(), feed(
		pool.Result{Worker: 0, Path: "Foo.java", Match: &process.Result{Path: "Foo.java", Replacements: 2, Written: true}},
		pool.Result{Worker: 1, Path: "Bar.kt", Match: &process.Result{Path: "Bar.kt"}},
		pool.Result{Worker: 2, Path: "proguard-rules.pro", Match: &process.Result{
			Path:          "proguard-rules.pro",
			WildcardLines: []string{"-dontwarn android.support.design.**"},
		}},
		pool.Result{Worker: 3, Path: "build.gradle", Match: &process.Result{Path: "build.gradle", Artifacts: []*mapping.Mapping{car}}},
		pool.Result{Worker: 0, Path: "Baz.java", Match: &process.Result{Path: "Baz.java", Replacements: 1, Written: true}},
		pool.Result{Worker: 1, Path: "Bad.java", Err: errors.New("decoding Bad.java: not valid UTF-8")},
	))

	assert.Equal(t, 6, s.FilesSeen)
	assert.Equal(t, 2, s.FilesChanged)
	assert.Equal(t, 3, s.Replacements)
	assert.Equal(t, 1, s.StarImports)
	assert.Equal(t, 1, s.Artifacts)
	require.Len(t, s.Failed, 1)
	assert.Equal(t, "Bad.java", s.Failed[0].Path)

	assert.Contains(t, out.String(), "Foo.java")
	assert.Contains(t, out.String(), "migrated, 2 replacement(s)")
	assert.NotContains(t, out.String(), "Bar.kt", "unchanged files are not listed")

	stderr := errOut.String()
	assert.Contains(t, stderr, "Found 1 star import(s) that must be updated in proguard-rules.pro:\n  * -dontwarn android.support.design.**\n")
	assert.Contains(t, stderr, "Found 1 artifact(s) that must be updated in build.gradle:")
	assert.Contains(t, stderr, "=> androidx.car:car:1.0.0-alpha5")
	assert.Contains(t, stderr, "❌ decoding Bad.java: not valid UTF-8")
}

func TestReporter_DryRunDiff(t *testing.T) {
	plain(t)

	out := &bytes.Buffer{}
	r := New(log.New(context.Background(), out, &bytes.Buffer{}, false), Options{DryRun: true, ShowDiff: true})

	s := r.Consume(context.Background(), feed(pool.Result{Path: "Foo.java", Match: &process.Result{
		Path:         "Foo.java",
		Replacements: 1,
		Diff:         "-import android.support.v4.app.Fragment;\n+import androidx.fragment.app.Fragment;\n",
	}}))
	r.Finish(s, time.Now())

	got := out.String()
	assert.Contains(t, got, "would migrate, 1 replacement(s)")
	assert.Contains(t, got, "--- Foo.java\n-import android.support.v4.app.Fragment;\n+import androidx.fragment.app.Fragment;\n")
	assert.Contains(t, got, "Would replace 1 occurrence(s) in 1 file(s) in ")
}

func TestReporter_Finish(t *testing.T) {
	plain(t)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := New(log.New(context.Background(), out, errOut, false), Options{})

	s := &Summary{FilesChanged: 2, Replacements: 5, Failed: []pool.Result{{Path: "x"}}}
	r.Finish(s, time.Now().Add(-1500*time.Millisecond))

	assert.GreaterOrEqual(t, s.Elapsed, 1500*time.Millisecond)
	assert.Regexp(t, `^\n.*Replaced 5 occurrence\(s\) in 2 file\(s\) in \d+\.\d{2}s!`, out.String(), "stats follow a blank line")
	assert.Contains(t, errOut.String(), "1 file(s) could not be processed")
}

func TestReporter_QuietKeepsListings(t *testing.T) {
	plain(t)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := New(log.New(context.Background(), out, errOut, true), Options{})

	s := r.Consume(context.Background(), feed(pool.Result{Path: "Foo.java", Match: &process.Result{
		Path:          "Foo.java",
		Replacements:  1,
		WildcardLines: []string{"import android.support.annotation.*;"},
	}}))
	r.Finish(s, time.Now())

	assert.Empty(t, strings.TrimSpace(out.String()))
	assert.Contains(t, errOut.String(), "star import(s)")
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.00s"},
		{50 * time.Millisecond, "0.05s"},
		{2*time.Second + 345*time.Millisecond, "2.34s"},
		{61 * time.Second, "61.00s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatElapsed(tt.d))
		})
	}
}
