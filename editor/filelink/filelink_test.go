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

package filelink_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/ghostwriter/editor/backend/database/memory"
	"github.com/yorkie-team/ghostwriter/editor/filelink"
	"github.com/yorkie-team/ghostwriter/editor/settings"
	"github.com/yorkie-team/ghostwriter/pkg/errors"
	"github.com/yorkie-team/ghostwriter/testhelper"
)

var fixed = time.Date(2026, 10, 19, 9, 30, 15, 250_000_000, time.UTC)

func newLinker(t *testing.T) (*filelink.Linker, *settings.Store, string) {
	db, err := memory.New()
	require.NoError(t, err)
	store := settings.New(db)
	exportDir := filepath.Join(t.TempDir(), "exports")
	return filelink.New(store, exportDir, func() time.Time { return fixed }), store, exportDir
}

func TestBuildSaveName(t *testing.T) {
	assert.Equal(t, "ghostwriter-2026-10-19T09-30-15-250Z.txt", filelink.BuildSaveName(fixed))
}

func TestLinker(t *testing.T) {
	ctx := context.Background()

	t.Run("load links the file test", func(t *testing.T) {
		linker, store, _ := newLinker(t)
		path := filepath.Join(t.TempDir(), "chapter.txt")
		require.NoError(t, os.WriteFile(path, []byte("Chapter one"), 0o600))

		text, err := linker.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "Chapter one", text)
		assert.Equal(t, path, linker.Path())

		stored, err := store.FileHandle(ctx)
		require.NoError(t, err)
		assert.Equal(t, path, stored)

		restored := filelink.New(store, t.TempDir(), nil)
		restored.Restore(ctx)
		assert.Equal(t, path, restored.Path())
	})

	t.Run("load missing file test", func(t *testing.T) {
		linker, _, _ := newLinker(t)
		_, err := linker.Load(ctx, filepath.Join(t.TempDir(), "missing.txt"))
		assert.True(t, errors.IsStatus(err, errors.ErrCodeNotFound))
		assert.Empty(t, linker.Path())
	})

	t.Run("save writes the linked file test", func(t *testing.T) {
		linker, _, _ := newLinker(t)
		path := filepath.Join(t.TempDir(), "chapter.txt")
		require.NoError(t, linker.Link(ctx, path))

		result, err := linker.Save(ctx, "new words")
		require.NoError(t, err)
		assert.False(t, result.Fallback)
		assert.Equal(t, path, result.Path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new words", string(data))
	})

	t.Run("save without link exports test", func(t *testing.T) {
		linker, _, exportDir := newLinker(t)

		result, err := linker.Save(ctx, "exported")
		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.ErrorIs(t, result.Cause, filelink.ErrNotLinked)
		assert.Equal(t, filepath.Join(exportDir, filelink.BuildSaveName(fixed)), result.Path)

		data, err := os.ReadFile(result.Path)
		require.NoError(t, err)
		assert.Equal(t, "exported", string(data))
	})

	t.Run("permission denied falls back to export test", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root ignores file permissions")
		}

		linker, _, _ := newLinker(t)
		path := filepath.Join(t.TempDir(), "locked.txt")
		require.NoError(t, os.WriteFile(path, []byte("original"), 0o400))
		require.NoError(t, linker.Link(ctx, path))

		result, err := linker.Save(ctx, "new words")
		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.True(t, errors.IsStatus(result.Cause, errors.ErrCodePermissionDenied))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "original", string(data))
	})

	t.Run("link survives a failing settings store test", func(t *testing.T) {
		inner, err := memory.New()
		require.NoError(t, err)
		db := testhelper.NewFaultyDB(inner)
		db.Fail("UpdateSettingInfo", errors.Unavailable("store unavailable"))
		linker := filelink.New(settings.New(db), t.TempDir(), nil)

		path := filepath.Join(t.TempDir(), "chapter.txt")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0o600))
		text, err := linker.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "text", text)
		assert.Equal(t, path, linker.Path())
	})

	t.Run("watch reports external changes only test", func(t *testing.T) {
		linker, _, _ := newLinker(t)
		path := filepath.Join(t.TempDir(), "chapter.txt")
		require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))
		_, err := linker.Load(ctx, path)
		require.NoError(t, err)

		changed := make(chan string, 10)
		watchCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- linker.Watch(watchCtx, func(p string) { changed <- p })
		}()
		// let the watcher register the directory
		time.Sleep(100 * time.Millisecond)

		_, err = linker.Save(ctx, "v2")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("edited elsewhere"), 0o600))

		select {
		case p := <-changed:
			assert.Equal(t, path, p)
		case <-time.After(testhelper.WaitFor):
			t.Fatal("no change reported")
		}

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("watch without link test", func(t *testing.T) {
		linker, _, _ := newLinker(t)
		assert.ErrorIs(t, linker.Watch(ctx, func(string) {}), filelink.ErrNotLinked)
	})
}
