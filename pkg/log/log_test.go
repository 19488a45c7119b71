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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func lines(buf *bytes.Buffer) []string {
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return nil
	}
	got := strings.Split(out, "\n")
	for i := range got {
		got[i] = strings.TrimSpace(got[i])
	}
	return got
}

func TestLogger(t *testing.T) {
	plain(t)

	tests := []struct {
		name       string
		quiet      bool
		op         func(logger *Logger)
		wantOut    []string
		wantErrOut []string
	}{
		{
			name: "file_change",
			op: func(logger *Logger) {
				logger.LogFileChange(FileChange{Path: "app/Foo.java", Replacements: 2})
			},
			wantOut: []string{"⟳ " + fmt.Sprintf("%-50s", "app/Foo.java") + " migrated, 2 replacement(s)"},
		},
		{
			name: "dry_run_file_change",
			op: func(logger *Logger) {
				logger.LogFileChange(FileChange{Path: "Foo.kt", Replacements: 1, DryRun: true})
			},
			wantOut: []string{"~ " + fmt.Sprintf("%-50s", "Foo.kt") + " would migrate, 1 replacement(s)"},
		},
		{
			name: "star_imports_go_to_errors",
			op: func(logger *Logger) {
				logger.LogStarImports("app/Foo.java", []string{"import android.support.annotation.*;"})
			},
			wantErrOut: []string{
				"Found 1 star import(s) that must be updated in app/Foo.java:",
				"* import android.support.annotation.*;",
			},
		},
		{
			name: "artifacts_go_to_errors",
			op: func(logger *Logger) {
				logger.LogArtifacts("build.gradle", []ArtifactHint{
					{From: "com.android.support:car", To: "androidx.car:car:1.0.0-alpha5"},
				})
			},
			wantErrOut: []string{
				"Found 1 artifact(s) that must be updated in build.gradle:",
				"* com.android.support:car" + strings.Repeat(" ", 60-len("com.android.support:car")) + "=> androidx.car:car:1.0.0-alpha5",
			},
		},
		{
			name: "empty_listings_print_nothing",
			op: func(logger *Logger) {
				logger.LogStarImports("a", nil)
				logger.LogArtifacts("a", nil)
				logger.LogDiff("a", "")
			},
		},
		{
			name: "messages",
			op: func(logger *Logger) {
				logger.Info("info message")
				logger.Error("error message")
			},
			wantOut:    []string{"info message"},
			wantErrOut: []string{"❌ error message"},
		},
		{
			name: "formatted_messages",
			op: func(logger *Logger) {
				logger.Infof("info %s", "test")
			},
			wantOut: []string{"info test"},
		},
		{
			name: "header",
			op: func(logger *Logger) {
				logger.Header("Starting with 4 threads...")
			},
			wantOut: []string{"jetmigrate • Starting with 4 threads..."},
		},
		{
			name: "newline",
			op: func(logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantOut: []string{"first", "", "second"},
		},
		{
			name: "diff",
			op: func(logger *Logger) {
				logger.LogDiff("Foo.java", "-import android.support.v4.app.Fragment;\n+import androidx.fragment.app.Fragment;\n")
			},
			wantOut: []string{
				"--- Foo.java",
				"-import android.support.v4.app.Fragment;",
				"+import androidx.fragment.app.Fragment;",
			},
		},
		{
			name:  "quiet_silences_progress_only",
			quiet: true,
			op: func(logger *Logger) {
				logger.Header("Starting with 4 threads...")
				logger.Info("Found 3 files")
				logger.LogNewline()
				logger.LogFileChange(FileChange{Path: "Foo.java", Replacements: 1})
				logger.Success("done")
				logger.LogStarImports("Foo.java", []string{"import android.support.annotation.*"})
				logger.Error("failed")
			},
			wantErrOut: []string{
				"Found 1 star import(s) that must be updated in Foo.java:",
				"* import android.support.annotation.*",
				"❌ failed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
			logger := New(context.Background(), out, errOut, tt.quiet)

			tt.op(logger)

			assert.Equal(t, tt.wantOut, lines(out), "console output")
			assert.Equal(t, tt.wantErrOut, lines(errOut), "error output")
		})
	}
}

func TestLogger_PtermPrinters(t *testing.T) {
	plain(t)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	logger := New(context.Background(), out, errOut, false)

	logger.Successf("Replaced %d occurrence(s)", 3)
	logger.Warningf("%d file(s) failed", 1)

	assert.Contains(t, out.String(), "Replaced 3 occurrence(s)")
	assert.Contains(t, out.String(), "✅")
	assert.Contains(t, errOut.String(), "1 file(s) failed")
	assert.NotContains(t, out.String(), "failed")
}

func TestLoggerContext(t *testing.T) {
	logger := New(context.Background(), io.Discard, io.Discard, false)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")
	require.False(t, got.Quiet())

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}
