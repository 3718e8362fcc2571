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

// Package filelink links the document to a text file chosen by the user.
// Saving writes the linked file; when there is no link or the file refuses
// writes, the text is exported to a new timestamped file instead.
package filelink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yorkie-team/ghostwriter/editor/logging"
	"github.com/yorkie-team/ghostwriter/editor/settings"
	pkgerrors "github.com/yorkie-team/ghostwriter/pkg/errors"
)

// ErrNotLinked is returned when an operation needs a linked file.
var ErrNotLinked = pkgerrors.FailedPrecond("no linked file").WithCode("ErrNotLinked")

// Result tells where a save went.
type Result struct {
	// Path is the file that was written.
	Path string
	// Fallback is true when the text was exported to a new file instead of
	// the linked one.
	Fallback bool
	// Cause is why the linked file was not written, nil when it was.
	Cause error
}

// Linker holds the link to the user's file.
type Linker struct {
	settings  *settings.Store
	exportDir string
	now       func() time.Time

	mu     sync.Mutex
	path   string
	synced string
}

// New creates a linker that exports fallbacks to exportDir.
func New(store *settings.Store, exportDir string, now func() time.Time) *Linker {
	if now == nil {
		now = time.Now
	}
	return &Linker{
		settings:  store,
		exportDir: exportDir,
		now:       now,
	}
}

// Restore reads the link stored by a previous session. A link that cannot
// be read is dropped.
func (l *Linker) Restore(ctx context.Context) {
	path, err := l.settings.FileHandle(ctx)
	if err != nil {
		logging.From(ctx).Debugf("LINK: restore file handle: %v", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
}

// Path returns the linked file, or an empty string.
func (l *Linker) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Link links path and remembers it for the next session.
func (l *Linker) Link(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("link %s: %w", path, err)
	}

	l.mu.Lock()
	l.path = abs
	l.mu.Unlock()

	if err := l.settings.SetFileHandle(ctx, abs); err != nil {
		logging.From(ctx).Debugf("LINK: store file handle: %v", err)
	}
	return nil
}

// Load reads path, links it and returns its text.
func (l *Linker) Load(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, classify(err))
	}

	if err := l.Link(ctx, path); err != nil {
		return "", err
	}

	text := string(data)
	l.mu.Lock()
	l.synced = text
	l.mu.Unlock()
	return text, nil
}

// Save writes text to the linked file. Without a link, or when the linked
// file refuses the write, the text is exported to a new file in the export
// directory.
func (l *Linker) Save(ctx context.Context, text string) (*Result, error) {
	result := &Result{}
	if path := l.Path(); path != "" {
		err := l.write(path, text)
		if err == nil {
			result.Path = path
			return result, nil
		}
		if !errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}

		logging.From(ctx).Warnf("LINK: %s refused the write, exporting instead", path)
		result.Cause = classify(err)
	} else {
		result.Cause = ErrNotLinked
	}

	path := filepath.Join(l.exportDir, BuildSaveName(l.now()))
	if err := os.MkdirAll(l.exportDir, 0o700); err != nil {
		return nil, fmt.Errorf("export dir %s: %w", l.exportDir, classify(err))
	}
	if err := l.write(path, text); err != nil {
		return nil, fmt.Errorf("export %s: %w", path, classify(err))
	}

	result.Path = path
	result.Fallback = true
	return result, nil
}

// Watch calls onChange whenever the linked file is changed by someone else.
// It blocks until ctx is done.
func (l *Linker) Watch(ctx context.Context, onChange func(path string)) error {
	path := l.Path()
	if path == "" {
		return ErrNotLinked
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// editors replace files by rename, so the directory is watched
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if l.changedExternally(path) {
				onChange(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.From(ctx).Warnf("LINK: watch %s: %v", path, err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (l *Linker) changedExternally(path string) bool {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if string(data) == l.synced {
		return false
	}
	l.synced = string(data)
	return true
}

// write replaces path with text through a temporary file, so watchers
// never see a half written file. A file that refuses writes is left as is.
func (l *Linker) write(path, text string) error {
	mode := fs.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
		f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		_ = f.Close()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ghostwriter-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}

	l.mu.Lock()
	if path == l.path {
		l.synced = text
	}
	l.mu.Unlock()

	return os.Rename(tmp.Name(), path)
}

// BuildSaveName returns the name of an exported file, for example
// ghostwriter-2026-10-19T09-30-00-000Z.txt.
func BuildSaveName(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return "ghostwriter-" + stamp + ".txt"
}

func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return errors.Join(pkgerrors.PermissionDenied("permission denied"), err)
	case errors.Is(err, fs.ErrNotExist):
		return errors.Join(pkgerrors.NotFound("file not found"), err)
	default:
		return err
	}
}
