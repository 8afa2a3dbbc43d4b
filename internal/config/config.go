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
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"ringchart/internal/catalog"
	"ringchart/internal/chart"
	"ringchart/internal/export"
	"ringchart/internal/layout"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// ProfileConfig is a user profile. Fields left out are taken from Base,
// or from the poster profile when Base is empty. A numeric field written
// as 0 in the file overrides the base.
type ProfileConfig struct {
	Base           string `yaml:"base,omitempty"`
	layout.Profile `yaml:",inline"`

	explicit map[string]bool // keys present in the file
}

func (pc *ProfileConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain ProfileConfig
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*pc = ProfileConfig(p)
	if n.Kind == yaml.MappingNode {
		pc.explicit = make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			pc.explicit[n.Content[i].Value] = true
		}
	}
	return nil
}

// MarshalYAML writes explicit zeros back so that Save keeps them.
func (pc ProfileConfig) MarshalYAML() (any, error) {
	type plain ProfileConfig
	var n yaml.Node
	if err := n.Encode(plain(pc)); err != nil {
		return nil, err
	}
	m := &n
	if m.Kind == yaml.DocumentNode && len(m.Content) == 1 {
		m = m.Content[0]
	}
	have := map[string]bool{}
	for i := 0; i+1 < len(m.Content); i += 2 {
		have[m.Content[i].Value] = true
	}
	for _, f := range lengthFields(&pc.Profile) {
		if pc.explicit[f.key] && !have[f.key] && *f.v == 0 {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "0"})
		}
	}
	return m, nil
}

type profileField struct {
	key string
	v   *float64
}

// lengthFields lists the numeric profile fields by their YAML key.
func lengthFields(p *layout.Profile) []profileField {
	return []profileField{
		{"h_margin_in", &p.HMarginIn}, {"v_margin_in", &p.VMarginIn},
		{"header_in", &p.HeaderIn}, {"separator_in", &p.SeparatorIn},
		{"plain_line", &p.PlainLine}, {"bar_line", &p.BarLine},
		{"grid_gray", &p.GridGray}, {"title_size", &p.TitleSize},
		{"summary_size", &p.SummarySize},
	}
}

type LayoutConfig struct {
	Profile     string                   `yaml:"profile"`
	SymbolScope string                   `yaml:"symbol_scope"`
	Profiles    map[string]ProfileConfig `yaml:"profiles,omitempty"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	DPI    int    `yaml:"dpi"`
}

type CatalogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty: history.sqlite next to the config file
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Logging       LoggingConfig `yaml:"logging"`
	Layout        LayoutConfig  `yaml:"layout"`
	Output        OutputConfig  `yaml:"output"`
	Catalog       CatalogConfig `yaml:"catalog"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Layout:        LayoutConfig{Profile: "poster", SymbolScope: string(chart.ScopePage)},
		Output:        OutputConfig{Format: string(export.FormatPDF), DPI: export.DefaultDPI},
		Catalog:       CatalogConfig{Enabled: true},
	}
}

// Env var names used as overrides.
const (
	EnvProfile        = "RCH_PROFILE"
	EnvSymbolScope    = "RCH_SYMBOL_SCOPE"
	EnvOutputFormat   = "RCH_OUTPUT_FORMAT"
	EnvOutputDPI      = "RCH_OUTPUT_DPI"
	EnvCatalogEnabled = "RCH_CATALOG_ENABLED"
	EnvCatalogPath    = "RCH_CATALOG_PATH"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "RCH_LOG_LEVEL"
	EnvLogFormat = "RCH_LOG_FORMAT"
	EnvLogSource = "RCH_LOG_SOURCE"
	EnvLogFile   = "RCH_LOG_FILE"
)

// Dir returns the per-user config directory.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Ringchart")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Ringchart")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "ringchart")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "ringchart")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path (the per-user file when path is empty),
// validates it against the schema, applies defaults and merges environment
// overrides. A missing file is not an error. The resolved path is returned.
func Load(path string) (AppConfig, string, error) {
	cfg := Defaults()
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, "", err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, path, fmt.Errorf("read config: %w", err)
	default:
		fileCfg, err := Parse(data)
		if err != nil {
			return cfg, path, fmt.Errorf("%s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = filepath.Join(filepath.Dir(path), catalog.FileName)
	}
	return cfg, path, nil
}

// Save writes the config YAML to path, creating its directory.
func Save(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

//go:embed schema.json
var schemaJSON []byte

// ErrInvalid reports a config document that does not match the schema.
var ErrInvalid = errors.New("invalid config")

// Parse validates a YAML document and decodes it over Defaults.
func Parse(data []byte) (AppConfig, error) {
	out := Defaults()
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc == nil {
		return out, nil
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		sort.Strings(msgs)
		return out, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return out, nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	// layout
	if v := strings.TrimSpace(src.Layout.Profile); v != "" {
		dst.Layout.Profile = v
	}
	if v := strings.TrimSpace(src.Layout.SymbolScope); v != "" {
		dst.Layout.SymbolScope = strings.ToLower(v)
	}
	if len(src.Layout.Profiles) > 0 {
		if dst.Layout.Profiles == nil {
			dst.Layout.Profiles = make(map[string]ProfileConfig, len(src.Layout.Profiles))
		}
		for name, p := range src.Layout.Profiles {
			dst.Layout.Profiles[strings.ToLower(name)] = p
		}
	}
	// output
	if v := strings.TrimSpace(src.Output.Format); v != "" {
		dst.Output.Format = strings.ToLower(v)
	}
	if src.Output.DPI != 0 {
		dst.Output.DPI = src.Output.DPI
	}
	// catalog: booleans are copied so an explicit false in the file wins
	dst.Catalog.Enabled = src.Catalog.Enabled
	if v := strings.TrimSpace(src.Catalog.Path); v != "" {
		dst.Catalog.Path = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvProfile)); v != "" {
		cfg.Layout.Profile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSymbolScope)); v != "" {
		cfg.Layout.SymbolScope = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputFormat)); v != "" {
		cfg.Output.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDPI)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Output.DPI = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalogEnabled)); v != "" {
		cfg.Catalog.Enabled = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalogPath)); v != "" {
		cfg.Catalog.Path = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"layout.profile":      EnvProfile,
	"layout.symbol_scope": EnvSymbolScope,
	"output.format":       EnvOutputFormat,
	"output.dpi":          EnvOutputDPI,
	"catalog.enabled":     EnvCatalogEnabled,
	"catalog.path":        EnvCatalogPath,
	"logging.level":       EnvLogLevel,
	"logging.format":      EnvLogFormat,
	"logging.source":      EnvLogSource,
	"logging.file":        EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	if env, ok := envKeys[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// Scope returns the configured symbol scope.
func (c AppConfig) Scope() (chart.Scope, error) { return chart.ParseScope(c.Layout.SymbolScope) }

// Format returns the configured output format.
func (c AppConfig) Format() (export.Format, error) { return export.ParseFormat(c.Output.Format) }

// ResolveProfile finds a profile by name among the configured profiles and
// the built-ins, configured first. An empty name selects layout.profile.
func (c AppConfig) ResolveProfile(name string) (layout.Profile, error) {
	if strings.TrimSpace(name) == "" {
		name = c.Layout.Profile
	}
	return c.resolve(strings.ToLower(strings.TrimSpace(name)), 0)
}

func (c AppConfig) resolve(name string, depth int) (layout.Profile, error) {
	if depth > 8 {
		return layout.Profile{}, fmt.Errorf("%w: profile %q: base chain too deep", layout.ErrBadProfile, name)
	}
	pc, ok := c.Layout.Profiles[name]
	if !ok {
		if p, ok := layout.Builtin(name); ok {
			return p, nil
		}
		if name == "" {
			return layout.Poster(), nil
		}
		return layout.Profile{}, fmt.Errorf("%w: unknown profile %q", layout.ErrBadProfile, name)
	}
	base := layout.Poster()
	if b := strings.ToLower(strings.TrimSpace(pc.Base)); b != "" && b != name {
		p, err := c.resolve(b, depth+1)
		if err != nil {
			return layout.Profile{}, err
		}
		base = p
	} else if p, ok := layout.Builtin(name); ok {
		base = p
	}
	p := overlay(base, pc)
	if err := p.Validate(); err != nil {
		return layout.Profile{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return p, nil
}

// overlay copies the fields set in pc over p: non-zero values, and zeros
// written explicitly in the file. Custom dimensions replace the preset page size.
func overlay(p layout.Profile, pc ProfileConfig) layout.Profile {
	o := pc.Profile
	if o.PageSize != "" {
		p.PageSize, p.WidthIn, p.HeightIn = o.PageSize, 0, 0
	}
	if o.WidthIn > 0 && o.HeightIn > 0 {
		// custom dimensions are taken as given unless an orientation is set
		p.WidthIn, p.HeightIn, p.Orientation = o.WidthIn, o.HeightIn, ""
	}
	if o.Orientation != "" {
		p.Orientation = o.Orientation
	}
	if o.Sizing != "" {
		p.Sizing = o.Sizing
	}
	dst, src := lengthFields(&p), lengthFields(&o)
	for i, f := range src {
		if *f.v != 0 || pc.explicit[f.key] {
			*dst[i].v = *f.v
		}
	}
	return p
}

// ProfileNames lists configured and built-in profile names, sorted and unique.
func (c AppConfig) ProfileNames() []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range layout.BuiltinNames() {
		seen[n] = true
		out = append(out, n)
	}
	for n := range c.Layout.Profiles {
		if !seen[n] {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
