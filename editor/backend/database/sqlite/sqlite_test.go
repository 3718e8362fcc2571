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

package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/backend/database/sqlite"
	"github.com/yorkie-team/ghostwriter/editor/backend/database/testcases"
)

func TestDB(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)

	t.Run("RunDocInfo test", func(t *testing.T) {
		testcases.RunDocInfoTest(t, db)
	})

	t.Run("RunSnapshotInfo test", func(t *testing.T) {
		testcases.RunSnapshotInfoTest(t, db)
	})

	t.Run("RunSettingInfo test", func(t *testing.T) {
		testcases.RunSettingInfoTest(t, db)
	})

	t.Run("RunClosed test", func(t *testing.T) {
		testcases.RunClosedTest(t, db)
	})
}

func TestOpen(t *testing.T) {
	t.Run("creates file test", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		db, err := sqlite.Open(dir)
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, db.Close())
		}()

		_, err = os.Stat(filepath.Join(dir, sqlite.FileName))
		assert.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, sqlite.FileName), db.Path())
	})

	t.Run("reopen keeps data test", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()

		db, err := sqlite.Open(dir)
		require.NoError(t, err)
		require.NoError(t, db.UpdateDocInfo(ctx, database.NewDocInfo("durable", 42)))
		require.NoError(t, db.CreateSnapshotInfo(ctx, database.NewSnapshotInfo(43, "durable", database.SnapshotDaily)))
		require.NoError(t, db.Close())

		// the schema is created idempotently on every open
		db, err = sqlite.Open(dir)
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, db.Close())
		}()

		info, err := db.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		assert.Equal(t, "durable", info.Text)
		assert.Equal(t, int64(42), info.UpdatedAt)

		snapshot, err := db.FindSnapshotInfo(ctx, 43)
		require.NoError(t, err)
		assert.Equal(t, database.SnapshotDaily, snapshot.Type)
	})

	t.Run("invalid data dir test", func(t *testing.T) {
		_, err := sqlite.Open("/dev/null/ghostwriter")
		assert.Error(t, err)
	})
}
