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

package main

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/jetmigrate/cmd/jetmigrate/commands"
	"github.com/walteh/jetmigrate/cmd/jetmigrate/opts"
	"github.com/walteh/jetmigrate/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd builds the command tree. Console output goes to stdout and
// stderr; structured logs always go to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "jetmigrate",
		Short: "Migrate an Android project from the support libraries to AndroidX",
		Long: `jetmigrate rewrites references to the deprecated android.support,
android.arch and android.databinding namespaces in every file tracked by git.

Run it from the root of a git work tree. Without a subcommand it runs migrate.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd, stderr, rootOpts.Debug)

			info := commands.GetVersionInfo()
			zerolog.Ctx(ctx).Debug().
				Str("version", info.Version).
				Str("revision", info.Revision).
				Str("platform", info.Platform).
				Msg("starting jetmigrate")

			if err := rootOpts.Load(ctx, cmd.Flags().Changed); err != nil {
				return errors.Errorf("initializing: %w", err)
			}
			rootOpts.Logger = log.New(ctx, stdout, stderr, rootOpts.Quiet)
			cmd.SetContext(log.NewContext(ctx, rootOpts.Logger))

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunMigrate(cmd, rootOpts)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewMigrateCmd(rootOpts),
		commands.NewMappingsCmd(),
		commands.NewVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: .jetmigrate.hcl in the root, if present)")
	flags.StringVar(&o.Root, "root", ".", "root of the git work tree to migrate")
	flags.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	flags.BoolVarP(&o.Quiet, "quiet", "q", false, "only print what needs manual attention")
	flags.IntVarP(&o.Threads, "threads", "t", 0, "number of worker threads, capped at the CPU count (default: CPU count)")
	flags.BoolVar(&o.DryRun, "dry-run", false, "report what would change without writing any file")
	flags.BoolVar(&o.Diff, "diff", false, "print a diff of every change (implies --dry-run)")
	flags.BoolVar(&o.Strict, "strict", false, "exit non-zero if any file could not be processed")
}

// setupLogging configures zerolog based on flags and returns the command
// context carrying the logger.
func setupLogging(cmd *cobra.Command, stderr io.Writer, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: !isTerminal(stderr)}).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger.WithContext(cmd.Context())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
