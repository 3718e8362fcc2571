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

package saves_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/ghostwriter/editor/backend"
	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/backend/database/memory"
	"github.com/yorkie-team/ghostwriter/editor/saves"
	"github.com/yorkie-team/ghostwriter/pkg/document"
	"github.com/yorkie-team/ghostwriter/pkg/errors"
	"github.com/yorkie-team/ghostwriter/testhelper"
)

type recorder struct {
	mu            sync.Mutex
	confirmations []saves.Confirmation
}

func (r *recorder) Notify(c saves.Confirmation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmations = append(r.confirmations, c)
}

func (r *recorder) list() []saves.Confirmation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]saves.Confirmation(nil), r.confirmations...)
}

func (r *recorder) count() int {
	return len(r.list())
}

func wait(t *testing.T, task interface{ Wait(context.Context) error }) {
	ctx, cancel := context.WithTimeout(context.Background(), testhelper.WaitFor)
	defer cancel()
	require.NoError(t, task.Wait(ctx))
}

func TestScheduler(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)

	t.Run("debounce collapse test", func(t *testing.T) {
		buf := document.NewBuffer("")
		be := testhelper.NewBackend(t, buf)
		rec := &recorder{}
		s, err := saves.New(be, rec)
		require.NoError(t, err)
		defer s.Stop()

		for i := 0; i < 10; i++ {
			buf.Append("word ")
			s.Touch()
			time.Sleep(testhelper.SaveDebounce / 8)
		}

		assert.Eventually(t, func() bool {
			return rec.count() == 1
		}, testhelper.WaitFor, testhelper.Tick)
		time.Sleep(3 * testhelper.SaveDebounce)
		assert.Equal(t, 1, rec.count())
		assert.Equal(t, saves.ReasonAutosave, rec.list()[0].Reason)
		assert.Equal(t, 10, rec.list()[0].WordCount)
	})

	t.Run("save writes the document test", func(t *testing.T) {
		buf := document.NewBuffer("Call me Ishmael.")
		clock := testhelper.NewManualClock(now)
		be := testhelper.NewBackend(t, buf, backend.WithClock(clock))
		s, err := saves.New(be, nil)
		require.NoError(t, err)

		task := s.Queue(saves.ReasonSilent)
		wait(t, task)
		require.NoError(t, task.Err())

		info, err := be.DB.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		assert.Equal(t, "Call me Ishmael.", info.Text)
		assert.Equal(t, now.UnixMilli(), info.UpdatedAt)
		assert.Equal(t, 3, info.WordCount)
		assert.Equal(t, 16, info.CharCount)

		buf.SetText("Call me.")
		clock.Advance(time.Minute)
		wait(t, s.Queue(saves.ReasonAutosave))

		info, err = be.DB.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		assert.Equal(t, "Call me.", info.Text)
		assert.Equal(t, now.Add(time.Minute).UnixMilli(), info.UpdatedAt)
	})

	t.Run("save is not older than the floor test", func(t *testing.T) {
		clock := testhelper.NewManualClock(now)
		be := testhelper.NewBackend(t, document.NewBuffer("ahead"), backend.WithClock(clock))
		s, err := saves.New(be, nil)
		require.NoError(t, err)

		ahead := now.UnixMilli() + 2
		s.SetFloor(func() int64 { return ahead })
		wait(t, s.Queue(saves.ReasonSilent))

		info, err := be.DB.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		assert.Equal(t, ahead, info.UpdatedAt)

		clock.Advance(time.Second)
		wait(t, s.Queue(saves.ReasonSilent))

		info, err = be.DB.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Second).UnixMilli(), info.UpdatedAt)
	})

	t.Run("confirmation per reason test", func(t *testing.T) {
		buf := document.NewBuffer("text")
		be := testhelper.NewBackend(t, buf, backend.WithClock(testhelper.NewManualClock(now)))
		rec := &recorder{}
		s, err := saves.New(be, rec)
		require.NoError(t, err)

		var last interface{ Wait(context.Context) error }
		for _, reason := range []saves.Reason{
			saves.ReasonAutosave,
			saves.ReasonSilent,
			saves.ReasonLoad,
			saves.ReasonRestore,
			saves.ReasonVisibility,
		} {
			last = s.Queue(reason)
		}
		wait(t, last)

		confirmations := rec.list()
		require.Len(t, confirmations, 4)
		assert.Equal(t, "Saved - 09:30", confirmations[0].Message)
		assert.Equal(t, "Loaded - 09:30", confirmations[1].Message)
		assert.Equal(t, "Restored - 09:30", confirmations[2].Message)
		assert.Equal(t, saves.ReasonVisibility, confirmations[3].Reason)
		assert.Equal(t, "Saved - 09:30", confirmations[3].Message)
	})

	t.Run("flush drops the pending autosave test", func(t *testing.T) {
		buf := document.NewBuffer("draft")
		be := testhelper.NewBackend(t, buf)
		rec := &recorder{}
		s, err := saves.New(be, rec)
		require.NoError(t, err)
		defer s.Stop()

		s.Touch()
		wait(t, s.Flush(saves.ReasonVisibility))
		time.Sleep(3 * testhelper.SaveDebounce)

		require.Equal(t, 1, rec.count())
		assert.Equal(t, saves.ReasonVisibility, rec.list()[0].Reason)
	})

	t.Run("failed save does not stop the queue test", func(t *testing.T) {
		inner, err := memory.New()
		require.NoError(t, err)
		db := testhelper.NewFaultyDB(inner)
		buf := document.NewBuffer("kept in memory")
		be := testhelper.NewBackendWithDB(t, db, buf)
		s, err := saves.New(be, nil)
		require.NoError(t, err)

		db.Fail("UpdateDocInfo", errors.ResourceExhausted("quota exceeded"))
		failed := s.Queue(saves.ReasonAutosave)
		wait(t, failed)
		assert.True(t, errors.IsStatus(failed.Err(), errors.ErrCodeResourceExhausted))
		assert.Equal(t, "kept in memory", buf.Text())

		db.Heal()
		ok := s.Queue(saves.ReasonAutosave)
		wait(t, ok)
		assert.NoError(t, ok.Err())

		info, err := db.FindDocInfo(ctx, database.DocumentID)
		require.NoError(t, err)
		assert.Equal(t, "kept in memory", info.Text)
	})

	t.Run("invalid reason test", func(t *testing.T) {
		be := testhelper.NewBackend(t, document.NewBuffer(""))
		s, err := saves.New(be, nil)
		require.NoError(t, err)

		task := s.Queue(saves.Reason("manual"))
		wait(t, task)
		assert.ErrorIs(t, task.Err(), saves.ErrInvalidReason)
	})

	t.Run("stop cancels the pending autosave test", func(t *testing.T) {
		be := testhelper.NewBackend(t, document.NewBuffer("draft"))
		rec := &recorder{}
		s, err := saves.New(be, rec)
		require.NoError(t, err)

		s.Touch()
		s.Stop()
		s.Touch()
		time.Sleep(3 * testhelper.SaveDebounce)
		assert.Equal(t, 0, rec.count())
	})
}
