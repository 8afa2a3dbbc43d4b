/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ringchart/internal/catalog"
	"ringchart/internal/layout"
	"ringchart/internal/summary"
	"ringchart/internal/version"
)

func newSummaryCmd() *cobra.Command {
	var expand bool
	cmd := &cobra.Command{
		Use:   "summary <symbol>...",
		Short: "Print the range summary of a set of symbols",
		Example: `  ringchart summary 1 2 3 4 5 7 8 10 12 7# 9#
  ringchart summary --expand "1-5, 7 + 7#"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if expand {
				toks, err := summary.Expand(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(toks, " "))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.Summarize(args))
			return nil
		},
	}
	cmd.Flags().BoolVar(&expand, "expand", false, "expand a summary back into its symbols")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		title string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously rendered charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := catalog.Open(cmd.Context(), cfg.Catalog.Path)
			if err != nil {
				return err
			}
			defer c.Close()
			rs, err := c.List(cmd.Context(), catalog.Query{Title: title, Limit: limit})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tTITLE\tPAGES\tFORMAT\tOUTPUT\tSUMMARY")
			for _, r := range rs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Title, r.Pages, r.Format, r.Output,
					strings.Join(r.Summaries, " | "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "only charts whose title contains these words")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List built-in and configured geometry profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE (in)\tSIZING\tDEFAULT")
			for _, name := range cfg.ProfileNames() {
				p, err := cfg.ResolveProfile(name)
				if err != nil {
					fmt.Fprintf(tw, "%s\t%v\t\t\n", name, err)
					continue
				}
				w, h, _ := p.PageSizePoints()
				def := ""
				if strings.EqualFold(name, cfg.Layout.Profile) {
					def = "*"
				}
				fmt.Fprintf(tw, "%s\t%.4g x %.4g\t%s\t%s\n", name, w/layout.Inch, h/layout.Inch, p.Sizing, def)
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
