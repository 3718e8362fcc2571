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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/ghostwriter/editor"
	"github.com/yorkie-team/ghostwriter/editor/profiling"
	"github.com/yorkie-team/ghostwriter/editor/reconcile"
	"github.com/yorkie-team/ghostwriter/editor/saves"
	"github.com/yorkie-team/ghostwriter/pkg/document"
)

var (
	gracefulTimeout = editor.DefaultShutdownTimeout

	profilingPort int
	enablePprof   bool
	watchLink     bool
)

const editHelp = `Type to write. Every line is appended to the document.
  :w               save and export to the linked file
  :ls              list backups
  :restore <key>   restore a backup
  :import <path>   load a file and link it
  :link <path>     link a file without loading it
  :q               save and quit`

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit",
		Short:   "Start an interactive editing session",
		PreRunE: preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if profilingPort > 0 {
				conf.Profiling = &profiling.Config{Port: profilingPort, EnablePprof: enablePprof}
			}

			lines := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			buf := document.NewBuffer("")
			prompter := &linePrompter{lines: lines, out: out}

			e, err := editor.New(
				conf,
				editor.WithSurface(buf),
				editor.WithNotifier(saves.NotifierFunc(func(c saves.Confirmation) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%s, %d words]\n", c.Message, c.WordCount)
				})),
				editor.WithRestorePrompter(prompter),
			)
			if err != nil {
				return err
			}
			prompter.editor = e

			ctx := context.Background()
			if _, err := e.Start(ctx); err != nil {
				_ = e.Shutdown(ctx, false)
				return err
			}
			if watchLink {
				e.WatchLink(func(path string) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%s changed on disk]\n", path)
				})
			}

			fmt.Fprintln(out, editHelp)
			if text := e.Text(); text != "" {
				fmt.Fprint(out, text)
				if !strings.HasSuffix(text, "\n") {
					fmt.Fprintln(out)
				}
			}

			session := &session{editor: e, buf: buf, out: out}
			quit := make(chan error, 1)
			go func() {
				quit <- session.run(ctx, lines)
			}()

			return handleSignal(e, quit)
		},
	}

	cmd.Flags().IntVar(&profilingPort, "profiling-port", 0, "Port of the profiling server, off when 0")
	cmd.Flags().BoolVar(&enablePprof, "enable-pprof", false, "Serve pprof on the profiling server")
	cmd.Flags().BoolVar(&watchLink, "watch", false, "Report changes of the linked file made by other programs")
	return cmd
}

// session reads lines and turns them into inputs and commands.
type session struct {
	editor *editor.Editor
	buf    *document.Buffer
	out    io.Writer
}

func (s *session) run(ctx context.Context, lines *bufio.Scanner) error {
	for lines.Scan() {
		line := lines.Text()
		if !strings.HasPrefix(line, ":") {
			s.buf.Append(line + "\n")
			s.editor.OnInput()
			continue
		}

		quit, err := s.command(ctx, strings.Fields(line))
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return lines.Err()
}

func (s *session) command(ctx context.Context, fields []string) (bool, error) {
	switch fields[0] {
	case ":q":
		return true, nil
	case ":w":
		result, err := s.editor.Export(ctx)
		if err != nil {
			return false, err
		}
		if result.Fallback {
			fmt.Fprintf(s.out, "Saved file %s - %s\n", result.Path, time.Now().Format("15:04"))
		} else {
			fmt.Fprintf(s.out, "Saved to file %s - %s\n", result.Path, time.Now().Format("15:04"))
		}
		return false, nil
	case ":ls":
		views, err := s.editor.RenderSnapshots(ctx)
		if err != nil {
			return false, err
		}
		return false, printSnapshots(s.out, "", views)
	case ":restore":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: :restore <key>")
		}
		createdAt, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid key %s: %w", fields[1], err)
		}
		return false, s.editor.ApplyRestore(ctx, createdAt)
	case ":import":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: :import <path>")
		}
		return false, s.editor.Import(ctx, fields[1])
	case ":link":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: :link <path>")
		}
		return false, s.editor.Link(ctx, fields[1])
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

// linePrompter offers a restore on the terminal.
type linePrompter struct {
	lines  *bufio.Scanner
	out    io.Writer
	editor *editor.Editor
}

func (p *linePrompter) OfferRestore(ctx context.Context, decision *reconcile.Decision) error {
	latest := decision.Latest
	fmt.Fprintf(
		p.out,
		"A backup from %s is newer than the saved document.\n%s\nRestore it? [y/N] ",
		latest.Time().Format("2006-01-02 15:04:05"),
		document.Preview(latest.Text),
	)
	if !p.lines.Scan() {
		return p.lines.Err()
	}
	if strings.ToLower(strings.TrimSpace(p.lines.Text())) != "y" {
		return nil
	}

	return p.editor.ApplyRestore(ctx, latest.CreatedAt)
}

func handleSignal(e *editor.Editor, quit <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	graceful := true
	var runErr error
	select {
	case s := <-sigCh:
		graceful = s == syscall.SIGINT || s == syscall.SIGTERM
	case runErr = <-quit:
	case <-e.ShutdownCh():
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	if err := e.Shutdown(ctx, graceful); err != nil {
		return err
	}
	return runErr
}
