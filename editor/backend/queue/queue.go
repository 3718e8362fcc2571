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

// Package queue provides the serialized operation queue. A queue runs the
// operations pushed to it one at a time, strictly in submission order, on a
// single worker goroutine. A failing operation never stops the queue: its
// error is logged and the next operation runs.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/yorkie-team/ghostwriter/editor/backend/background"
	"github.com/yorkie-team/ghostwriter/editor/logging"
	"github.com/yorkie-team/ghostwriter/editor/profiling/prometheus"
	"github.com/yorkie-team/ghostwriter/pkg/errors"
)

var (
	// ErrQueueClosed is returned by tasks pushed after the queue was closed.
	ErrQueueClosed = errors.FailedPrecond("queue closed").WithCode("ErrQueueClosed")
)

// Op is an operation run by the queue. The context it receives is never
// cancelled by the queue: once started an operation runs to completion.
type Op func(ctx context.Context) error

// Task is a handle to an operation pushed to a queue.
type Task struct {
	name string
	op   Op
	done chan struct{}
	err  error
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// Done returns a channel that is closed once the operation has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the operation has finished or ctx is done. The outcome of
// the operation itself is not returned; use Err for that.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error of the finished operation. It must only be called
// after Done is closed.
func (t *Task) Err() error {
	return t.err
}

// Failed returns a finished task that carries err without running anything.
func Failed(name string, err error) *Task {
	task := &Task{name: name, done: make(chan struct{}), err: err}
	close(task.done)
	return task
}

// Queue is a FIFO of operations with at most one operation in flight.
type Queue struct {
	name    string
	metrics *prometheus.Metrics

	mu      sync.Mutex
	pending []*Task
	closed  bool

	notify  chan struct{}
	stopped chan struct{}
}

// New creates a new queue and attaches its worker to the given background.
func New(name string, bg *background.Background, metrics *prometheus.Metrics) *Queue {
	q := &Queue{
		name:    name,
		metrics: metrics,
		notify:  make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}

	if !bg.AttachGoroutine(q.run, name+"-queue") {
		q.closed = true
		close(q.stopped)
	}

	return q
}

// Push appends the operation to the queue and returns its task. Pushing to a
// closed queue returns a finished task carrying ErrQueueClosed.
func (q *Queue) Push(name string, op Op) *Task {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return Failed(name, ErrQueueClosed)
	}
	task := &Task{name: name, op: op, done: make(chan struct{})}
	q.pending = append(q.pending, task)
	pending := len(q.pending)
	q.mu.Unlock()

	q.metrics.SetQueuePending(q.name, pending)

	select {
	case q.notify <- struct{}{}:
	default:
	}

	return task
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops accepting operations and waits until the operations already
// pushed have run, or ctx is done.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}

	select {
	case <-q.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the worker loop. It drains the queue before exiting, even if the
// background is closing.
func (q *Queue) run(ctx context.Context) {
	defer close(q.stopped)
	opCtx := context.WithoutCancel(ctx)

	for {
		task, closed := q.next()
		if task != nil {
			q.execute(opCtx, task)
			continue
		}
		if closed {
			return
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			q.mu.Lock()
			q.closed = true
			q.mu.Unlock()
		}
	}
}

func (q *Queue) next() (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil, q.closed
	}

	task := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	q.metrics.SetQueuePending(q.name, len(q.pending))
	return task, false
}

func (q *Queue) execute(ctx context.Context, task *Task) {
	start := time.Now()
	defer close(task.done)
	defer func() {
		if r := recover(); r != nil {
			task.err = errors.Internal("queued operation panicked")
			logging.From(ctx).Errorf("QUEUE(%s): %s panicked: %v", q.name, task.name, r)
			q.metrics.AddQueueTask(q.name, true)
		}
	}()

	task.err = task.op(ctx)
	q.metrics.AddQueueTask(q.name, task.err != nil)
	if task.err != nil {
		logging.From(ctx).Warnf("QUEUE(%s): %s failed: %v", q.name, task.name, task.err)
		return
	}

	logging.From(ctx).Debugf("QUEUE(%s): %s done, %s", q.name, task.name, time.Since(start))
}
