/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"ringchart/internal/catalog"
	"ringchart/internal/chart"
	"ringchart/internal/config"
	"ringchart/internal/crash"
	"ringchart/internal/export"
	applog "ringchart/internal/log"
	"ringchart/internal/notation"
)

type renderFlags struct {
	profile   string
	format    string
	output    string
	scope     string
	dpi       int
	noHistory bool
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a notation file (or stdin) to PDF, PNG or SVG",
		Long: `Render reads notation from the named file, or from stdin when the file is
omitted or "-". PDF output goes next to the input as <name>.pdf, or to stdout
for stdin. PNG and SVG write one <name>-page-N file per page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return runRender(cmd, input, f)
		},
	}
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "geometry profile (see 'ringchart profiles')")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: pdf|png|svg")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (pdf) or directory (png, svg)")
	cmd.Flags().StringVar(&f.scope, "scope", "", "used-symbol summary scope: page|document")
	cmd.Flags().IntVar(&f.dpi, "dpi", 0, "raster resolution for png/svg")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "do not record this render in the history")
	return cmd
}

func runRender(cmd *cobra.Command, input string, f renderFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// flags win over file and env
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = f.format
	}
	if cmd.Flags().Changed("scope") {
		cfg.Layout.SymbolScope = f.scope
	}
	if cmd.Flags().Changed("dpi") {
		cfg.Output.DPI = f.dpi
	}
	if f.noHistory {
		cfg.Catalog.Enabled = false
	}
	profileName := cfg.Layout.Profile
	if cmd.Flags().Changed("profile") {
		profileName = f.profile
	}
	prof, err := cfg.ResolveProfile(profileName)
	if err != nil {
		return err
	}
	scope, err := cfg.Scope()
	if err != nil {
		return err
	}
	format, err := cfg.Format()
	if err != nil {
		return err
	}

	l := applog.WithOperation(applog.WithComponent("cli"), "render").With(slog.String("input", input))

	var src io.Reader = cmd.InOrStdin()
	if !export.IsStdin(input) {
		fh, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer fh.Close()
		src = fh
	}

	sink, err := export.Target{
		Format: format,
		Input:  input,
		Output: f.output,
		DPI:    float64(cfg.Output.DPI),
		Title:  export.BaseName(input),
		Stdout: cmd.OutOrStdout(),
	}.Open()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var eng *chart.Engine
	defer crash.Recover(&crash.Context{Input: input, State: func() string {
		if eng == nil {
			return "starting"
		}
		return eng.State().String() + " at " + eng.Cursor().String()
	}})

	eng = chart.New(src, sink, chart.Options{
		Profile: prof,
		Scope:   scope,
		Logger:  applog.WithComponent("chart"),
		OnHeader: func(h notation.Header) {
			sink.SetTitle(h.Title)
		},
	})
	res, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(input), err)
	}
	paths := sink.Paths()
	l.Info("rendered",
		slog.String("title", res.Header.Title),
		slog.Int("pages", res.Pages),
		slog.Int("beats", res.Beats),
		slog.String("output", strings.Join(paths, ",")))

	if cfg.Catalog.Enabled {
		recordHistory(ctx, l, cfg, catalog.Render{
			Source:    input,
			Output:    strings.Join(paths, ","),
			Title:     res.Header.Title,
			Format:    string(format),
			Profile:   profileName,
			Pages:     res.Pages,
			Rows:      res.Rows,
			Beats:     res.Beats,
			Summaries: res.Summaries,
		})
	}
	for _, p := range paths {
		if p != "-" {
			fmt.Fprintln(cmd.ErrOrStderr(), p)
		}
	}
	return nil
}

// recordHistory stores r; a failure only warns since the chart is already written.
func recordHistory(ctx context.Context, l *slog.Logger, cfg config.AppConfig, r catalog.Render) {
	c, err := catalog.Open(ctx, cfg.Catalog.Path)
	if err != nil {
		l.Warn("history unavailable", slog.Any("err", err))
		return
	}
	defer c.Close()
	if _, err := c.Record(ctx, r); err != nil {
		l.Warn("history not recorded", slog.Any("err", err))
	}
}

func displayName(input string) string {
	if export.IsStdin(input) {
		return "<stdin>"
	}
	return input
}
