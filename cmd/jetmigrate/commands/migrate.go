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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/jetmigrate/cmd/jetmigrate/opts"
	"github.com/walteh/jetmigrate/pkg/log"
	"github.com/walteh/jetmigrate/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ErrFilesFailed is returned in strict mode when any file could not be processed.
var ErrFilesFailed = errors.New("files failed")

// NewMigrateCmd creates the migrate command
func NewMigrateCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite support library references to AndroidX",
		Long: `Migrate rewrites references to the android.support, android.arch and
android.databinding namespaces to their AndroidX replacements in every tracked
.gradle, .gradle.kts, .java, .kt, .pro and .xml file.

Star imports and build dependency coordinates can't be rewritten safely; they
are listed on stderr so they can be updated by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunMigrate(cmd, opts)
		},
	}

	return cmd
}

// RunMigrate runs a migration with the resolved root options. It backs both
// the migrate command and the bare root command.
func RunMigrate(cmd *cobra.Command, opts *opts.RootOpts) error {
	ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "migrate").Logger().WithContext(cmd.Context())

	m, err := operation.New(ctx, log.FromContext(cmd.Context()), opts.MigrateOptions())
	if err != nil {
		return errors.Errorf("preparing migration: %w", err)
	}

	summary, err := m.Run(ctx)
	if err != nil {
		return errors.Errorf("migrating: %w", err)
	}

	if opts.Strict && len(summary.Failed) > 0 {
		return errors.Errorf("%d file(s) could not be processed: %w", len(summary.Failed), ErrFilesFailed)
	}

	return nil
}
