/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command ringchart draws change-ringing notation as printable charts.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ringchart/internal/config"
	applog "ringchart/internal/log"
	"ringchart/internal/version"
)

// global flags
var (
	configPath string
	logLevel   string
	logFormat  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ringchart",
		Short:         "Draw change-ringing notation as printable charts",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the per-user config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console|json")

	root.AddCommand(
		newRenderCmd(),
		newSummaryCmd(),
		newHistoryCmd(),
		newProfilesCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the config and initializes logging from it.
func loadConfig() (config.AppConfig, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	applog.WithComponent("config").Debug("config loaded", slog.String("path", path))
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		applog.L().Error("ringchart failed", slog.Any("err", err))
		os.Exit(1)
	}
}
