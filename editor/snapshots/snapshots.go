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

// Package snapshots provides the snapshot scheduler. It decides when a
// backup of the document is worth taking: periodically while the user is
// typing, once the user goes idle, and once per calendar day.
package snapshots

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yorkie-team/ghostwriter/editor/backend"
	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/backend/queue"
	"github.com/yorkie-team/ghostwriter/editor/logging"
	"github.com/yorkie-team/ghostwriter/editor/retention"
	"github.com/yorkie-team/ghostwriter/editor/settings"
	"github.com/yorkie-team/ghostwriter/internal/validation"
)

// Scheduler schedules snapshots of the document.
type Scheduler struct {
	be       *backend.Backend
	pruner   *retention.Pruner
	settings *settings.Store

	interval time.Duration
	idle     time.Duration
	keys     KeyGen

	mu sync.Mutex
	// needsSnapshot is set by every input and cleared once a snapshot
	// holding that input has been written.
	needsSnapshot bool
	// inputSeq counts inputs so that a snapshot only clears needsSnapshot
	// when no input arrived while it was being written.
	inputSeq     uint64
	lastInputAt  time.Time
	lastDailyDay string
	loopStop     chan struct{}
	idleTimer    *time.Timer
	// idleGen identifies the latest idle timer. A timer that fired before
	// being replaced sees a newer generation and does nothing.
	idleGen uint64
	stopped      bool
}

// New creates a snapshot scheduler on the given backend.
func New(be *backend.Backend, pruner *retention.Pruner, store *settings.Store) (*Scheduler, error) {
	interval, err := be.Config.ParseSnapshotInterval()
	if err != nil {
		return nil, err
	}
	idle, err := be.Config.ParseSnapshotIdle()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		be:       be,
		pruner:   pruner,
		settings: store,
		interval: interval,
		idle:     idle,
	}, nil
}

// Load seeds the key generator from the newest stored snapshot and reads
// the day of the last daily snapshot.
func (s *Scheduler) Load(ctx context.Context) error {
	infos, err := s.be.DB.FindSnapshotInfos(ctx)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}
	if len(infos) > 0 {
		s.keys.Seed(infos[len(infos)-1].CreatedAt)
	}

	day, err := s.settings.LastDailySnapshotDay(ctx)
	if err != nil {
		return fmt.Errorf("load last daily snapshot day: %w", err)
	}

	s.mu.Lock()
	s.lastDailyDay = day
	s.mu.Unlock()
	return nil
}

// MarkInput records an input: a snapshot becomes owed, the periodic loop
// starts if it is not running and the idle timer restarts.
func (s *Scheduler) MarkInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.needsSnapshot = true
	s.inputSeq++
	s.lastInputAt = time.Now()

	s.startLoopLocked()

	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleGen++
	gen := s.idleGen
	s.idleTimer = time.AfterFunc(s.idle, func() {
		s.onIdle(gen)
	})
}

// MarkOwed makes a snapshot owed without counting as typing.
func (s *Scheduler) MarkOwed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.needsSnapshot = true
	s.inputSeq++
}

// ClearOwed drops the owed snapshot.
func (s *Scheduler) ClearOwed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.needsSnapshot = false
}

// Owed reports whether a snapshot is owed.
func (s *Scheduler) Owed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsSnapshot
}

// Running reports whether the periodic loop is running.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loopStop != nil
}

// LastDailyDay returns the day of the last daily snapshot.
func (s *Scheduler) LastDailyDay() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDailyDay
}

// LastKey returns the key of the newest snapshot this scheduler knows of.
func (s *Scheduler) LastKey() int64 {
	return s.keys.Last()
}

// Queue appends a snapshot of the given type to the snapshot queue.
func (s *Scheduler) Queue(snapshotType database.SnapshotType) *queue.Task {
	return s.be.SnapshotQueue.Push("snapshot:"+string(snapshotType), func(ctx context.Context) error {
		return s.snapshot(ctx, snapshotType)
	})
}

// FlushIfOwed queues a rolling snapshot if one is owed. It returns nil
// otherwise.
func (s *Scheduler) FlushIfOwed() *queue.Task {
	if !s.Owed() {
		return nil
	}
	return s.Queue(database.SnapshotRolling)
}

// Stop stops the timers. Snapshots already queued still run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
	s.stopLoopLocked()
}

func (s *Scheduler) startLoopLocked() {
	if s.loopStop != nil {
		return
	}

	stop := make(chan struct{})
	if !s.be.Background.AttachGoroutine(func(ctx context.Context) {
		s.loop(ctx, stop)
	}, "snapshot-loop") {
		return
	}
	s.loopStop = stop
}

func (s *Scheduler) stopLoopLocked() {
	if s.loopStop == nil {
		return
	}
	close(s.loopStop)
	s.loopStop = nil
}

func (s *Scheduler) loop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.Owed() {
				s.Queue(database.SnapshotRolling)
			}
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) onIdle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || gen != s.idleGen || time.Since(s.lastInputAt) < s.idle {
		return
	}

	if s.needsSnapshot {
		s.Queue(database.SnapshotRolling)
	}
	s.stopLoopLocked()
}

func (s *Scheduler) snapshot(ctx context.Context, snapshotType database.SnapshotType) error {
	if err := snapshotType.Validate(); err != nil {
		return err
	}

	text := s.be.Surface.Text()
	s.mu.Lock()
	owed := s.needsSnapshot
	seq := s.inputSeq
	s.mu.Unlock()

	if text == "" && !owed {
		return nil
	}

	info := database.NewSnapshotInfo(s.keys.Next(s.be.Now()), text, snapshotType)
	if err := s.be.DB.CreateSnapshotInfo(ctx, info); err != nil {
		return fmt.Errorf("create %s snapshot: %w", snapshotType, err)
	}
	s.be.Metrics.AddSnapshotCreated(string(snapshotType))
	logging.From(ctx).Debugf("SNAP: %s snapshot %d, %d words", snapshotType, info.CreatedAt, info.WordCount)

	s.mu.Lock()
	if s.inputSeq == seq {
		s.needsSnapshot = false
	}
	s.mu.Unlock()

	var errs []error
	if err := s.ensureDaily(ctx, text); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.pruner.Prune(ctx, s.be.DB); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ensureDaily writes a daily snapshot of text if none was taken today.
func (s *Scheduler) ensureDaily(ctx context.Context, text string) error {
	now := s.be.Now()
	today := now.Local().Format(validation.DayLayout)

	s.mu.Lock()
	previous := s.lastDailyDay
	if previous == today {
		s.mu.Unlock()
		return nil
	}
	s.lastDailyDay = today
	s.mu.Unlock()

	if err := s.settings.SetLastDailySnapshotDay(ctx, today); err != nil {
		logging.From(ctx).Warnf("SNAP: store last daily snapshot day: %v", err)
	}

	info := database.NewSnapshotInfo(s.keys.Next(now), text, database.SnapshotDaily)
	if err := s.be.DB.CreateSnapshotInfo(ctx, info); err != nil {
		s.mu.Lock()
		if s.lastDailyDay == today {
			s.lastDailyDay = previous
		}
		s.mu.Unlock()
		return fmt.Errorf("create daily snapshot: %w", err)
	}

	s.be.Metrics.AddSnapshotCreated(string(database.SnapshotDaily))
	logging.From(ctx).Infof("SNAP: daily snapshot %d for %s", info.CreatedAt, today)
	return nil
}
