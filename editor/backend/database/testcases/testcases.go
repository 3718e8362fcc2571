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

// Package testcases contains testcases shared by every database
// implementation.
package testcases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
)

// RunDocInfoTest runs the document testcases for the given db.
func RunDocInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("find missing document test", func(t *testing.T) {
		_, err := db.FindDocInfo(ctx, "missing")
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
	})

	t.Run("upsert keeps a single document test", func(t *testing.T) {
		require.NoError(t, db.UpdateDocInfo(ctx, database.NewDocInfo("first draft", 100)))
		require.NoError(t, db.UpdateDocInfo(ctx, database.NewDocInfo("second draft here", 200)))

		info, err := db.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		assert.Equal(t, "second draft here", info.Text)
		assert.Equal(t, int64(200), info.UpdatedAt)
		assert.Equal(t, 3, info.WordCount)
		assert.Equal(t, 17, info.CharCount)
	})

	t.Run("returned document is a copy test", func(t *testing.T) {
		info, err := db.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		info.Text = "mutated"

		again, err := db.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.Text)
	})

	t.Run("invalid document test", func(t *testing.T) {
		assert.ErrorIs(t, db.UpdateDocInfo(ctx, &database.DocInfo{}), database.ErrInvalidKey)
	})
}

// RunSnapshotInfoTest runs the snapshot testcases for the given db.
func RunSnapshotInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("empty snapshots test", func(t *testing.T) {
		infos, err := db.FindSnapshotInfos(ctx)
		require.NoError(t, err)
		assert.Len(t, infos, 0)

		_, err = db.FindSnapshotInfo(ctx, 1)
		assert.ErrorIs(t, err, database.ErrSnapshotNotFound)
	})

	t.Run("snapshots are ordered by creation time test", func(t *testing.T) {
		for _, createdAt := range []int64{300, 100, 200} {
			require.NoError(t, db.CreateSnapshotInfo(
				ctx,
				database.NewSnapshotInfo(createdAt, "text", database.SnapshotRolling),
			))
		}
		require.NoError(t, db.CreateSnapshotInfo(ctx, database.NewSnapshotInfo(150, "day", database.SnapshotDaily)))

		infos, err := db.FindSnapshotInfos(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 4)
		assert.Equal(t, int64(100), infos[0].CreatedAt)
		assert.Equal(t, int64(150), infos[1].CreatedAt)
		assert.Equal(t, database.SnapshotDaily, infos[1].Type)
		assert.Equal(t, int64(200), infos[2].CreatedAt)
		assert.Equal(t, int64(300), infos[3].CreatedAt)

		info, err := db.FindSnapshotInfo(ctx, 150)
		require.NoError(t, err)
		assert.Equal(t, "day", info.Text)
		assert.Equal(t, 1, info.WordCount)
		assert.Equal(t, 3, info.CharCount)
	})

	t.Run("delete snapshot test", func(t *testing.T) {
		require.NoError(t, db.DeleteSnapshotInfo(ctx, 200))
		require.NoError(t, db.DeleteSnapshotInfo(ctx, 999))

		_, err := db.FindSnapshotInfo(ctx, 200)
		assert.ErrorIs(t, err, database.ErrSnapshotNotFound)

		infos, err := db.FindSnapshotInfos(ctx)
		require.NoError(t, err)
		assert.Len(t, infos, 3)
	})

	t.Run("invalid snapshot test", func(t *testing.T) {
		err := db.CreateSnapshotInfo(ctx, database.NewSnapshotInfo(400, "x", database.SnapshotType("hourly")))
		assert.ErrorIs(t, err, database.ErrInvalidSnapshotType)

		err = db.CreateSnapshotInfo(ctx, database.NewSnapshotInfo(0, "x", database.SnapshotRolling))
		assert.ErrorIs(t, err, database.ErrInvalidKey)
	})
}

// RunSettingInfoTest runs the setting testcases for the given db.
func RunSettingInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("find missing setting test", func(t *testing.T) {
		_, err := db.FindSettingInfo(ctx, "fontSize")
		assert.ErrorIs(t, err, database.ErrSettingNotFound)
	})

	t.Run("upsert setting test", func(t *testing.T) {
		info, err := database.NewSettingInfo("fontSize", 18)
		require.NoError(t, err)
		require.NoError(t, db.UpdateSettingInfo(ctx, info))

		info, err = database.NewSettingInfo("fontSize", 21)
		require.NoError(t, err)
		require.NoError(t, db.UpdateSettingInfo(ctx, info))

		info, err = database.NewSettingInfo("fontFamily", "fraunces")
		require.NoError(t, err)
		require.NoError(t, db.UpdateSettingInfo(ctx, info))

		found, err := db.FindSettingInfo(ctx, "fontSize")
		require.NoError(t, err)
		var size int
		require.NoError(t, found.Decode(&size))
		assert.Equal(t, 21, size)

		infos, err := db.FindSettingInfos(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "fontFamily", infos[0].Key)
		assert.Equal(t, "fontSize", infos[1].Key)
	})

	t.Run("delete setting test", func(t *testing.T) {
		require.NoError(t, db.DeleteSettingInfo(ctx, "fontFamily"))
		_, err := db.FindSettingInfo(ctx, "fontFamily")
		assert.ErrorIs(t, err, database.ErrSettingNotFound)
	})
}

// RunClosedTest checks that a closed db rejects every call. It closes db.
func RunClosedTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := db.FindDocInfo(ctx, database.DocumentID)
	assert.ErrorIs(t, err, database.ErrClosed)
	assert.ErrorIs(t, db.UpdateDocInfo(ctx, database.NewDocInfo("x", 1)), database.ErrClosed)
	assert.ErrorIs(
		t,
		db.CreateSnapshotInfo(ctx, database.NewSnapshotInfo(1, "x", database.SnapshotRolling)),
		database.ErrClosed,
	)
	_, err = db.FindSnapshotInfos(ctx)
	assert.ErrorIs(t, err, database.ErrClosed)
	assert.ErrorIs(t, db.DeleteSnapshotInfo(ctx, 1), database.ErrClosed)
	_, err = db.FindSettingInfos(ctx)
	assert.ErrorIs(t, err, database.ErrClosed)
}
