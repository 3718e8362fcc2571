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

package queue_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/ghostwriter/editor/backend/background"
	"github.com/yorkie-team/ghostwriter/editor/backend/queue"
	"github.com/yorkie-team/ghostwriter/pkg/errors"
)

func TestQueue(t *testing.T) {
	t.Run("fifo serialization test", func(t *testing.T) {
		bg := background.New(nil)
		defer bg.Close()
		q := queue.New("save", bg, nil)

		var mu sync.Mutex
		var events []string
		var inFlight int32

		record := func(e string) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}

		release := make(chan struct{})
		s1 := q.Push("s1", func(ctx context.Context) error {
			assert.Equal(t, int32(1), atomic.AddInt32(&inFlight, 1))
			record("s1:start")
			<-release
			record("s1:end")
			atomic.AddInt32(&inFlight, -1)
			return nil
		})

		// s2 is triggered while s1 is still running.
		s2 := q.Push("s2", func(ctx context.Context) error {
			assert.Equal(t, int32(1), atomic.AddInt32(&inFlight, 1))
			record("s2:start")
			atomic.AddInt32(&inFlight, -1)
			return nil
		})

		time.Sleep(20 * time.Millisecond)
		select {
		case <-s2.Done():
			t.Fatal("s2 must not run before s1 finishes")
		default:
		}
		close(release)

		ctx := context.Background()
		assert.NoError(t, s1.Wait(ctx))
		assert.NoError(t, s2.Wait(ctx))
		assert.Equal(t, []string{"s1:start", "s1:end", "s2:start"}, events)
	})

	t.Run("failure does not abort chain test", func(t *testing.T) {
		bg := background.New(nil)
		defer bg.Close()
		q := queue.New("snapshot", bg, nil)

		failing := q.Push("failing", func(ctx context.Context) error {
			return errors.Unavailable("store unavailable")
		})
		panicking := q.Push("panicking", func(ctx context.Context) error {
			panic("boom")
		})
		ran := false
		next := q.Push("next", func(ctx context.Context) error {
			ran = true
			return nil
		})

		ctx := context.Background()
		require.NoError(t, next.Wait(ctx))
		assert.True(t, ran)
		assert.True(t, errors.IsStatus(failing.Err(), errors.ErrCodeUnavailable))
		assert.True(t, errors.IsStatus(panicking.Err(), errors.ErrCodeInternal))
		assert.NoError(t, next.Err())
	})

	t.Run("burst keeps submission order test", func(t *testing.T) {
		bg := background.New(nil)
		defer bg.Close()
		q := queue.New("save", bg, nil)

		var order []int
		var tasks []*queue.Task
		for i := 0; i < 50; i++ {
			i := i
			tasks = append(tasks, q.Push(fmt.Sprintf("t%d", i), func(ctx context.Context) error {
				order = append(order, i)
				return nil
			}))
		}
		assert.NoError(t, tasks[len(tasks)-1].Wait(context.Background()))

		assert.Len(t, order, 50)
		for i, v := range order {
			assert.Equal(t, i, v)
		}
	})

	t.Run("close drains pending tasks test", func(t *testing.T) {
		bg := background.New(nil)
		q := queue.New("save", bg, nil)

		var count int32
		for i := 0; i < 5; i++ {
			q.Push("t", func(ctx context.Context) error {
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&count, 1)
				return nil
			})
		}
		assert.NoError(t, q.Close(context.Background()))
		assert.Equal(t, int32(5), atomic.LoadInt32(&count))

		late := q.Push("late", func(ctx context.Context) error { return nil })
		<-late.Done()
		assert.ErrorIs(t, late.Err(), queue.ErrQueueClosed)

		bg.Close()
	})

	t.Run("wait honors context test", func(t *testing.T) {
		bg := background.New(nil)
		defer bg.Close()
		q := queue.New("save", bg, nil)

		release := make(chan struct{})
		task := q.Push("blocked", func(ctx context.Context) error {
			<-release
			return nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, task.Wait(ctx), context.DeadlineExceeded)
		close(release)
		assert.NoError(t, task.Wait(context.Background()))
	})

	t.Run("failed task is finished test", func(t *testing.T) {
		cause := errors.FailedPrecond("not ready")
		task := queue.Failed("save", cause)

		assert.Equal(t, "save", task.Name())
		assert.NoError(t, task.Wait(context.Background()))
		assert.ErrorIs(t, task.Err(), cause)
	})
}
