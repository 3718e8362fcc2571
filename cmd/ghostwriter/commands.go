/*
 * Copyright 2026 The Ghostwriter Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "ghostwriter",
	Short:         "Local-first text editor that never loses a word",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Run executes CLI.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}

	return 0
}

func init() {
	viper.SetEnvPrefix("ghostwriter")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVarP(&flagConfPath, "config", "c", "", "Config path")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error, panic, fatal")
	rootCmd.PersistentFlags().String("database", "", "Database type: memory or sqlite")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory of the database file")
	rootCmd.PersistentFlags().String("export-dir", "", "Directory of exported files")
	rootCmd.PersistentFlags().StringP("output", "o", "", "One of 'yaml' or 'json'.")

	for _, name := range []string{"log-level", "database", "data-dir", "export-dir", "output"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
