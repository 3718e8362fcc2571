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
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yorkie-team/ghostwriter/editor"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write editor settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Short:   "Print the display preferences and every stored setting",
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), func(e *editor.Editor) error {
				ctx := context.Background()
				infos, err := e.Settings().All(ctx)
				if err != nil {
					return err
				}
				prefs, err := e.Settings().Preferences(ctx)
				if err != nil {
					return err
				}

				all := map[string]interface{}{"preferences": prefs}
				stored := make(map[string]string)
				for _, info := range infos {
					stored[info.Key] = string(info.Value)
				}
				all["stored"] = stored

				output := viper.GetString("output")
				if output == "" {
					output = "yaml"
				}
				return printValue(cmd.OutOrStdout(), output, all, "")
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "get [key]",
		Short:   "Print the JSON value of a setting",
		Args:    cobra.ExactArgs(1),
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), func(e *editor.Editor) error {
				raw, err := e.Settings().Raw(context.Background(), args[0])
				if err != nil {
					return err
				}
				cmd.Println(string(raw))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "set [key] [json]",
		Short:   "Set a setting to a JSON value, for example 'settings set fontSize 20'",
		Args:    cobra.ExactArgs(2),
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), func(e *editor.Editor) error {
				return e.Settings().SetRaw(context.Background(), args[0], json.RawMessage(args[1]))
			})
		},
	})

	return cmd
}
