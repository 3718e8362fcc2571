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
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yorkie-team/ghostwriter/editor"
	"github.com/yorkie-team/ghostwriter/editor/logging"
)

var (
	flagConfPath string

	conf *editor.Config
)

// preload builds the config from the config file, the environment and the
// flags, in increasing priority.
func preload(cmd *cobra.Command, args []string) error {
	if err := logging.SetLogLevel(viper.GetString("log-level")); err != nil {
		return err
	}

	if flagConfPath != "" {
		parsed, err := editor.NewConfigFromFile(flagConfPath)
		if err != nil {
			return err
		}
		conf = parsed
	} else {
		conf = editor.NewConfig()
	}

	if dbType := viper.GetString("database"); dbType != "" {
		conf.Database.Type = dbType
	}
	if dataDir := viper.GetString("data-dir"); dataDir != "" {
		conf.Database.DataDir = dataDir
		if viper.GetString("export-dir") == "" {
			conf.Backend.ExportDir = filepath.Join(dataDir, "exports")
		}
	}
	if exportDir := viper.GetString("export-dir"); exportDir != "" {
		conf.Backend.ExportDir = exportDir
	}

	return validateOutput(viper.GetString("output"))
}

func validateOutput(output string) error {
	if output != "" && output != "yaml" && output != "json" {
		return fmt.Errorf(`unknown output format %q: must be "yaml" or "json"`, output)
	}
	return nil
}

// withEditor starts an editor for one command and shuts it down after f.
func withEditor(ctx context.Context, f func(e *editor.Editor) error, opts ...editor.Option) error {
	e, err := editor.New(conf, opts...)
	if err != nil {
		return err
	}
	if _, err := e.Start(ctx); err != nil {
		_ = e.Shutdown(ctx, false)
		return err
	}

	runErr := f(e)
	if err := e.Shutdown(ctx, false); err != nil && runErr == nil {
		return err
	}
	return runErr
}
