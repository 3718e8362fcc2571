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
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/ghostwriter/editor"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Short:   "Manage backups of the document",
		Aliases: []string{"snapshots", "backup"},
	}
	cmd.AddCommand(newSnapshotListCmd())
	cmd.AddCommand(newSnapshotShowCmd())
	cmd.AddCommand(newSnapshotRestoreCmd())
	cmd.AddCommand(newSnapshotPruneCmd())
	return cmd
}

func newSnapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Short:   "List all backups, newest first",
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), func(e *editor.Editor) error {
				views, err := e.RenderSnapshots(context.Background())
				if err != nil {
					return err
				}
				return printSnapshots(cmd.OutOrStdout(), viper.GetString("output"), views)
			})
		},
	}
}

func newSnapshotShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show [key]",
		Short:   "Print the text of a backup",
		Args:    cobra.ExactArgs(1),
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			createdAt, err := parseKey(args[0])
			if err != nil {
				return err
			}

			return withEditor(context.Background(), func(e *editor.Editor) error {
				info, err := e.Snapshot(context.Background(), createdAt)
				if err != nil {
					return err
				}
				return printValue(cmd.OutOrStdout(), viper.GetString("output"), info, info.Text)
			})
		},
	}
}

func newSnapshotRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "restore [key]",
		Short:   "Make a backup the current document",
		Args:    cobra.ExactArgs(1),
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			createdAt, err := parseKey(args[0])
			if err != nil {
				return err
			}

			return withEditor(context.Background(), func(e *editor.Editor) error {
				if err := e.ApplyRestore(context.Background(), createdAt); err != nil {
					return err
				}
				cmd.Printf("Restored backup %d\n", createdAt)
				return nil
			})
		},
	}
}

func newSnapshotPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "prune",
		Short:   "Delete the backups beyond the retention caps",
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), func(e *editor.Editor) error {
				result, err := e.Prune(context.Background())
				if result != nil {
					cmd.Printf("Deleted %d backups\n", len(result.Deleted))
					if len(result.Failed) > 0 {
						cmd.Printf("Could not delete %d backups\n", len(result.Failed))
					}
				}
				return err
			})
		},
	}
}

func parseKey(arg string) (int64, error) {
	createdAt, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || createdAt <= 0 {
		return 0, errors.New("key must be a positive integer, see 'snapshot ls'")
	}
	return createdAt, nil
}

func printSnapshots(out io.Writer, output string, views []*editor.SnapshotView) error {
	switch output {
	case "":
		if len(views) == 0 {
			fmt.Fprintln(out, "No backups yet.")
			return nil
		}

		tw := table.NewWriter()
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateFooter = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateRows = false
		tw.AppendHeader(table.Row{"KEY", "CREATED AT", "TYPE", "WORDS", "CHARS", "PREVIEW"})
		for _, view := range views {
			tw.AppendRow(table.Row{
				view.CreatedAt,
				view.Time.Format("2006-01-02 15:04:05"),
				view.Label,
				view.WordCount,
				view.CharCount,
				truncate(view.Preview, 40),
			})
		}
		fmt.Fprintf(out, "%s\n", tw.Render())
		return nil
	default:
		return printValue(out, output, views, "")
	}
}

// printValue prints v as JSON or YAML, or text when no output format is
// set.
func printValue(out io.Writer, output string, v interface{}, text string) error {
	switch output {
	case "":
		fmt.Fprintln(out, text)
	case "json":
		marshalled, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(marshalled))
	case "yaml":
		marshalled, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		fmt.Fprintln(out, string(marshalled))
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
