/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ringchart/internal/catalog"
	"ringchart/internal/chart"
	"ringchart/internal/export"
	"ringchart/internal/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope", "config.yaml")
	cfg, got, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != p {
		t.Fatalf("path = %q", got)
	}
	if cfg.Layout.Profile != "poster" || cfg.Layout.SymbolScope != "page" || !cfg.Catalog.Enabled {
		t.Fatalf("defaults = %#v", cfg)
	}
	if want := filepath.Join(filepath.Dir(p), catalog.FileName); cfg.Catalog.Path != want {
		t.Fatalf("catalog path = %q, want %q", cfg.Catalog.Path, want)
	}
}

func TestLoadDefaultPathFollowsXDG(t *testing.T) {
	if os.PathSeparator != '/' {
		t.Skip("XDG only")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	_, p, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(p, dir) || filepath.Base(p) != "config.yaml" {
		t.Fatalf("config path = %q", p)
	}
}

func TestLoadFile(t *testing.T) {
	p := writeConfig(t, `
config_version: 1
logging:
  level: debug
layout:
  profile: mine
  symbol_scope: document
  profiles:
    Mine:
      base: a4
      orientation: landscape
      title_size: 20
output:
  format: svg
  dpi: 96
catalog:
  enabled: false
`)
	cfg, _, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("logging = %#v", cfg.Logging)
	}
	if sc, err := cfg.Scope(); err != nil || sc != chart.ScopeDocument {
		t.Fatalf("scope = %q %v", sc, err)
	}
	if f, err := cfg.Format(); err != nil || f != export.FormatSVG {
		t.Fatalf("format = %q %v", f, err)
	}
	if cfg.Output.DPI != 96 || cfg.Catalog.Enabled {
		t.Fatalf("output/catalog = %#v %#v", cfg.Output, cfg.Catalog)
	}
	prof, err := cfg.ResolveProfile("")
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	a4, _ := layout.Builtin("a4")
	if prof.PageSize != "a4" || prof.Orientation != layout.Landscape || prof.TitleSize != 20 || prof.SummarySize != a4.SummarySize || prof.Sizing != layout.WidthFit {
		t.Fatalf("profile = %#v", prof)
	}
}

func TestLoadKeepsDefaultsForOmittedSections(t *testing.T) {
	cfg, _, err := Load(writeConfig(t, "logging:\n  format: json\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Catalog.Enabled || cfg.Output.Format != "pdf" || cfg.Output.DPI != export.DefaultDPI {
		t.Fatalf("defaults lost: %#v", cfg)
	}
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":   "colour: red\n",
		"bad scope":     "layout:\n  symbol_scope: row\n",
		"bad format":    "output:\n  format: cbz\n",
		"bad dpi":       "output:\n  dpi: 5\n",
		"bad sizing":    "layout:\n  profiles:\n    x:\n      sizing: fill\n",
		"negative":      "layout:\n  profiles:\n    x:\n      h_margin_in: -1\n",
		"wrong type":    "catalog:\n  enabled: maybe\n",
		"broken syntax": "layout: [\n",
	} {
		_, _, err := Load(writeConfig(t, body))
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
}

func TestEmptyFileIsValid(t *testing.T) {
	if _, _, err := Load(writeConfig(t, "")); err != nil {
		t.Fatalf("empty config: %v", err)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/rch.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/rch.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvProfile, "a3")
	t.Setenv(EnvSymbolScope, "DOCUMENT")
	t.Setenv(EnvOutputFormat, "png")
	t.Setenv(EnvOutputDPI, "300")
	t.Setenv(EnvCatalogEnabled, "off")
	t.Setenv(EnvCatalogPath, "/tmp/h.sqlite")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/rch.log")
	cfg, _, err := Load(writeConfig(t, "layout:\n  profile: a1\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.Profile != "a3" || cfg.Layout.SymbolScope != "document" {
		t.Fatalf("layout = %#v", cfg.Layout)
	}
	if cfg.Output.Format != "png" || cfg.Output.DPI != 300 {
		t.Fatalf("output = %#v", cfg.Output)
	}
	if cfg.Catalog.Enabled || cfg.Catalog.Path != "/tmp/h.sqlite" {
		t.Fatalf("catalog = %#v", cfg.Catalog)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/rch.log" {
		t.Fatalf("logging overrides not applied: %#v", cfg.Logging)
	}
	if env, ok := EnvOverrideFor("output.dpi"); !ok || env != EnvOutputDPI {
		t.Fatalf("EnvOverrideFor(output.dpi) = %q,%v", env, ok)
	}
}

func TestEnvOverrideForUnset(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	if _, ok := EnvOverrideFor("logging.file"); ok {
		t.Fatalf("unset env should not override")
	}
	if _, ok := EnvOverrideFor("nope"); ok {
		t.Fatalf("unknown key should not override")
	}
}

func TestResolveProfile(t *testing.T) {
	cfg := Defaults()
	cfg.Layout.Profiles = map[string]ProfileConfig{
		"banner": {Profile: layout.Profile{WidthIn: 40, HeightIn: 10, Sizing: layout.WidthFit}},
		"poster": {Profile: layout.Profile{TitleSize: 40}},
		"loop":   {Base: "loop2"},
		"loop2":  {Base: "loop"},
		"broken": {Profile: layout.Profile{PageSize: "tabloid"}},
	}
	p, err := cfg.ResolveProfile("Banner")
	if err != nil {
		t.Fatal(err)
	}
	if w, h, _ := p.PageSizePoints(); w != 40*layout.Inch || h != 10*layout.Inch {
		t.Fatalf("banner size = %vx%v", w, h)
	}
	if p.HMarginIn != layout.Poster().HMarginIn {
		t.Fatalf("banner should inherit poster margins")
	}
	p, err = cfg.ResolveProfile("poster")
	if err != nil || p.TitleSize != 40 || p.SummarySize != 15 {
		t.Fatalf("override of builtin = %#v %v", p, err)
	}
	if _, err := cfg.ResolveProfile("loop"); !errors.Is(err, layout.ErrBadProfile) {
		t.Fatalf("loop err = %v", err)
	}
	if _, err := cfg.ResolveProfile("broken"); !errors.Is(err, layout.ErrBadProfile) {
		t.Fatalf("broken err = %v", err)
	}
	if _, err := cfg.ResolveProfile("nope"); !errors.Is(err, layout.ErrBadProfile) {
		t.Fatalf("unknown err = %v", err)
	}
	names := cfg.ProfileNames()
	if len(names) != len(layout.BuiltinNames())+4 {
		t.Fatalf("names = %v", names)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dir", "config.yaml")
	cfg := Defaults()
	cfg.Layout.Profiles = map[string]ProfileConfig{"wide": {Base: "a4", Profile: layout.Profile{Orientation: layout.Landscape}}}
	if err := Save(p, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _, err := Load(p)
	if err != nil {
		t.Fatalf("saved config must validate: %v", err)
	}
	if got.Layout.Profiles["wide"].Base != "a4" {
		t.Fatalf("profiles = %#v", got.Layout.Profiles)
	}
}

func TestExplicitZeroOverridesBase(t *testing.T) {
	p := writeConfig(t, `
layout:
  profile: flat
  profiles:
    flat:
      base: a4
      grid_gray: 0
      separator_in: 0
      title_size: 18
`)
	cfg, _, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	prof, err := cfg.ResolveProfile("flat")
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	a4, _ := layout.Builtin("a4")
	if prof.GridGray != 0 || prof.SeparatorIn != 0 {
		t.Fatalf("explicit zeros lost: gray=%v separator=%v", prof.GridGray, prof.SeparatorIn)
	}
	if prof.TitleSize != 18 || prof.HMarginIn != a4.HMarginIn || prof.PlainLine != a4.PlainLine {
		t.Fatalf("profile = %#v", prof)
	}

	// the zeros survive a save and reload
	out := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(out, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, _, err := Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	prof, err = again.ResolveProfile("flat")
	if err != nil {
		t.Fatalf("ResolveProfile after reload: %v", err)
	}
	if prof.GridGray != 0 || prof.SeparatorIn != 0 {
		t.Fatalf("zeros lost on save: gray=%v separator=%v", prof.GridGray, prof.SeparatorIn)
	}
}
