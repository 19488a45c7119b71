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
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/jetmigrate/pkg/mapping"
	"gitlab.com/tozd/go/errors"
)

// NewMappingsCmd creates the mappings command
func NewMappingsCmd() *cobra.Command {
	var (
		list bool
		kind string
	)

	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Show the built in mapping tables",
		Long: `Mappings loads and validates the embedded mapping tables and prints, for each
category, the number of mappings, the minimum line length and the boundary
patterns a line must match before the category is scanned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := mapping.Load(cmd.Context())
			if err != nil {
				return errors.Errorf("loading mapping tables: %w", err)
			}

			cats := append([]*mapping.Category{}, tables.Classes()...)
			cats = append(cats, tables.Artifacts())

			if kind != "" {
				cat, ok := tables.Category(mapping.Kind(kind))
				if !ok {
					return errors.Errorf("unknown category %q", kind)
				}
				cats = []*mapping.Category{cat}
			}

			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			for _, cat := range cats {
				fmt.Fprintf(out, "%s %4d mappings  min length %3d  boundary %s\n",
					bold.Sprintf("%-12s", cat.Kind), len(cat.Mappings), cat.MinLength, strings.Join(cat.Boundaries(), " | "))
				if !list {
					continue
				}
				for _, m := range cat.Mappings {
					fmt.Fprintf(out, "  * %-60s=> %s\n", m.Pattern.String(), m.Replacement)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "print every mapping, longest pattern first")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only show one category (support, arch, databinding, artifact)")

	return cmd
}
