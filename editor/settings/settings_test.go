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

package settings_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/backend/database/memory"
	"github.com/yorkie-team/ghostwriter/editor/settings"
	"github.com/yorkie-team/ghostwriter/pkg/errors"
	"github.com/yorkie-team/ghostwriter/testhelper"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("preferences default test", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)
		store := settings.New(db)

		prefs, err := store.Preferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, &settings.Preferences{
			FontSize:   18,
			LineWidth:  680,
			FontFamily: "fraunces",
		}, prefs)

		require.NoError(t, store.Set(ctx, settings.KeyLineWidth, 760))
		prefs, err = store.Preferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, 760, prefs.LineWidth)
		assert.Equal(t, 18, prefs.FontSize)
	})

	t.Run("get and set test", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)
		store := settings.New(db)

		var family string
		found, err := store.Get(ctx, settings.KeyFontFamily, &family)
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, store.Set(ctx, settings.KeyFontFamily, "plex"))
		found, err = store.Get(ctx, settings.KeyFontFamily, &family)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "plex", family)

		require.NoError(t, store.SetRaw(ctx, "theme", json.RawMessage(`{"dark":true}`)))
		raw, err := store.Raw(ctx, "theme")
		require.NoError(t, err)
		assert.JSONEq(t, `{"dark":true}`, string(raw))

		require.NoError(t, store.Delete(ctx, "theme"))
		_, err = store.Raw(ctx, "theme")
		assert.ErrorIs(t, err, database.ErrSettingNotFound)
	})

	t.Run("invalid values test", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)
		store := settings.New(db)

		assert.ErrorIs(t, store.Set(ctx, "Font Size", 1), settings.ErrInvalidSettingKey)
		assert.ErrorIs(t, store.SetRaw(ctx, "theme", json.RawMessage(`{`)), database.ErrInvalidSettingValue)
		assert.ErrorIs(t, store.SetLastDailySnapshotDay(ctx, "yesterday"), database.ErrInvalidSettingValue)
	})

	t.Run("daily marker and file handle test", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)
		store := settings.New(db)

		day, err := store.LastDailySnapshotDay(ctx)
		require.NoError(t, err)
		assert.Empty(t, day)

		require.NoError(t, store.SetLastDailySnapshotDay(ctx, "2026-10-19"))
		day, err = store.LastDailySnapshotDay(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-19", day)

		require.NoError(t, store.SetFileHandle(ctx, "/tmp/novel.txt"))
		path, err := store.FileHandle(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/novel.txt", path)
	})

	t.Run("store failure propagates test", func(t *testing.T) {
		inner, err := memory.New()
		require.NoError(t, err)
		db := testhelper.NewFaultyDB(inner)
		store := settings.New(db)

		db.Fail("FindSettingInfo", errors.Unavailable("store unavailable"))
		_, err = store.Preferences(ctx)
		assert.True(t, errors.IsStatus(err, errors.ErrCodeUnavailable))
	})
}
