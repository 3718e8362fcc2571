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

	"github.com/spf13/cobra"

	"github.com/yorkie-team/ghostwriter/editor"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "import [file]",
		Short:   "Replace the document with a text file and link it",
		Args:    cobra.ExactArgs(1),
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), func(e *editor.Editor) error {
				if err := e.Import(context.Background(), args[0]); err != nil {
					return err
				}
				cmd.Printf("Loaded %s\n", e.LinkedPath())
				return nil
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "export [file]",
		Short:   "Write the document to the linked file, or to the given one",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), func(e *editor.Editor) error {
				ctx := context.Background()
				if len(args) == 1 {
					if err := e.Link(ctx, args[0]); err != nil {
						return err
					}
				}

				result, err := e.Export(ctx)
				if err != nil {
					return err
				}
				if result.Fallback {
					fmt.Fprintf(cmd.ErrOrStderr(), "could not write the linked file: %v\n", result.Cause)
				}
				cmd.Printf("Saved %s\n", result.Path)
				return nil
			})
		},
	}
}
