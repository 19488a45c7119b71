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
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent file entries
	nameWidth     = 50 // Base width for file paths
	artifactWidth = 60 // Width of the old coordinate in artifact hints
)

// 🎯 FileChange describes a migrated file for display
type FileChange struct {
	Path         string // File path as dispatched
	Replacements int    // Number of lines rewritten
	DryRun       bool   // Whether the change was only previewed
}

// 📦 ArtifactHint is a dependency coordinate the user has to update by hand
type ArtifactHint struct {
	From string // Deprecated coordinate pattern
	To   string // Suggested androidx coordinate
}

// 🎯 Logger renders user facing output. Progress goes to the console and is
// silenced in quiet mode; anything needing manual follow up goes to the error
// console and is always shown.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	errs    io.Writer
	quiet   bool
	mu      sync.Mutex
}

// 🏭 New creates a new logger. Every message is mirrored at debug level to the
// zerolog logger carried by ctx.
func New(ctx context.Context, console, errs io.Writer, quiet bool) *Logger {
	return &Logger{
		zlog:    *zerolog.Ctx(ctx),
		console: console,
		errs:    errs,
		quiet:   quiet,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// Quiet reports whether progress output is silenced.
func (l *Logger) Quiet() bool {
	return l.quiet
}

// 📝 formatFileChange formats a migrated file for display
func (l *Logger) formatFileChange(fc FileChange) string {
	symbol, symbolColor := '⟳', color.FgBlue
	status := "migrated"
	if fc.DryRun {
		symbol, symbolColor = '~', color.FgYellow
		status = "would migrate"
	}

	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, fc.Path),
		color.New(color.Faint).Sprintf("%s, %d replacement(s)", status, fc.Replacements))
}

// 📝 LogFileChange prints one migrated file
func (l *Logger) LogFileChange(fc FileChange) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.zlog.Debug().
		Str("file", fc.Path).
		Int("replacements", fc.Replacements).
		Bool("dry_run", fc.DryRun).
		Msg("file changed")

	if l.quiet {
		return
	}
	fmt.Fprintln(l.console, l.formatFileChange(fc))
}

// ⭐ LogStarImports lists wildcard imports and globs that can't be rewritten
func (l *Logger) LogStarImports(path string, lines []string) {
	if len(lines) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.zlog.Debug().Str("file", path).Strs("lines", lines).Msg("star imports found")

	fmt.Fprintf(l.errs, "%s\n", color.New(color.FgYellow).Sprintf("Found %d star import(s) that must be updated in %s:", len(lines), path))
	for _, line := range lines {
		fmt.Fprintf(l.errs, "  * %s\n", line)
	}
}

// 📦 LogArtifacts lists dependency coordinates that need a manual update
func (l *Logger) LogArtifacts(path string, hints []ArtifactHint) {
	if len(hints) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.zlog.Debug().Str("file", path).Int("artifacts", len(hints)).Msg("artifacts found")

	fmt.Fprintf(l.errs, "%s\n", color.New(color.FgYellow).Sprintf("Found %d artifact(s) that must be updated in %s:", len(hints), path))
	for _, h := range hints {
		fmt.Fprintf(l.errs, "  * %-*s=> %s\n", artifactWidth, h.From, color.New(color.FgGreen).Sprint(h.To))
	}
}

// 🔀 LogDiff prints a line diff with removed lines in red and added lines in green
func (l *Logger) LogDiff(path, diff string) {
	if diff == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s\n", color.New(color.Bold).Sprintf("--- %s", path))
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(l.console, color.New(color.FgRed).Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(l.console, color.New(color.FgGreen).Sprint(line))
		default:
			fmt.Fprint(l.console, line)
		}
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.quiet {
		return
	}
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Debug().Msg(msg)
	if l.quiet {
		return
	}
	name := color.New(color.Bold, color.FgCyan).Sprint("jetmigrate")
	fmt.Fprintf(l.console, "%s %s\n", name, color.New(color.Faint).Sprint("• "+msg))
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Debug().Msg(msg)
	if l.quiet {
		return
	}
	pterm.Success.WithPrefix(pterm.Prefix{Text: "✅", Style: pterm.Success.Prefix.Style}).WithWriter(l.console).Println(msg)
}

// 📝 Warning logs a warning message. Warnings are never silenced.
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Debug().Msg(msg)
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️", Style: pterm.Warning.Prefix.Style}).WithWriter(l.errs).Println(msg)
}

// 📝 Error logs an error message. Errors are never silenced.
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Debug().Msg(msg)
	fmt.Fprintf(l.errs, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Debug().Msg(msg)
	if l.quiet {
		return
	}
	fmt.Fprintf(l.console, "%s\n", msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
