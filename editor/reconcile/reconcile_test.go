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

package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/backend/database/memory"
	"github.com/yorkie-team/ghostwriter/editor/reconcile"
	"github.com/yorkie-team/ghostwriter/pkg/errors"
	"github.com/yorkie-team/ghostwriter/testhelper"
)

func TestDecide(t *testing.T) {
	snapshots := []*database.SnapshotInfo{
		database.NewSnapshotInfo(150, "older", database.SnapshotDaily),
		database.NewSnapshotInfo(200, "newest", database.SnapshotRolling),
		database.NewSnapshotInfo(50, "oldest", database.SnapshotRolling),
	}

	tests := []struct {
		name   string
		doc    *database.DocInfo
		infos  []*database.SnapshotInfo
		offer  bool
		reason reconcile.Reason
	}{
		{"newer snapshot", database.NewDocInfo("doc", 100), snapshots, true, reconcile.ReasonNewerSnapshot},
		{"newer document", database.NewDocInfo("doc", 300), snapshots, false, reconcile.ReasonNone},
		{"same time", database.NewDocInfo("doc", 200), snapshots, false, reconcile.ReasonNone},
		{"no document", nil, snapshots, true, reconcile.ReasonNoDocument},
		{"no updated at", database.NewDocInfo("doc", 0), snapshots, true, reconcile.ReasonNoUpdatedAt},
		{"no snapshots", nil, nil, false, reconcile.ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name+" test", func(t *testing.T) {
			decision := reconcile.Decide(tt.doc, tt.infos)
			assert.Equal(t, tt.offer, decision.Offer)
			assert.Equal(t, tt.reason, decision.Reason)
			if len(tt.infos) == 0 {
				assert.Nil(t, decision.Latest)
				return
			}
			assert.Equal(t, int64(200), decision.Latest.CreatedAt)
			assert.Equal(t, []int64{200, 150, 50}, []int64{
				decision.Snapshots[0].CreatedAt,
				decision.Snapshots[1].CreatedAt,
				decision.Snapshots[2].CreatedAt,
			})
		})
	}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("reads the store test", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)
		require.NoError(t, db.UpdateDocInfo(ctx, database.NewDocInfo("doc", 100)))
		require.NoError(t, db.CreateSnapshotInfo(ctx, database.NewSnapshotInfo(200, "backup", database.SnapshotRolling)))

		decision, err := reconcile.Check(ctx, db)
		require.NoError(t, err)
		assert.True(t, decision.Offer)
		assert.Equal(t, "backup", decision.Latest.Text)

		require.NoError(t, db.UpdateDocInfo(ctx, database.NewDocInfo("doc", 300)))
		decision, err = reconcile.Check(ctx, db)
		require.NoError(t, err)
		assert.False(t, decision.Offer)
	})

	t.Run("store failure test", func(t *testing.T) {
		inner, err := memory.New()
		require.NoError(t, err)
		db := testhelper.NewFaultyDB(inner)
		db.Fail("FindDocInfo", errors.Unavailable("store unavailable"))

		_, err = reconcile.Check(ctx, db)
		assert.True(t, errors.IsStatus(err, errors.ErrCodeUnavailable))
	})
}
