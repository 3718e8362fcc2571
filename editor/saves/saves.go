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

// Package saves provides the save scheduler. It collapses bursts of input
// into one debounced write of the document and runs every save through the
// save queue.
package saves

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yorkie-team/ghostwriter/editor/backend"
	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/backend/queue"
	"github.com/yorkie-team/ghostwriter/editor/logging"
	"github.com/yorkie-team/ghostwriter/pkg/errors"
)

// Reason is why a save was requested.
type Reason string

// Below are the reasons of a save.
const (
	// ReasonAutosave is a save after the debounce window.
	ReasonAutosave Reason = "autosave"
	// ReasonSilent is a save before an export. It is not confirmed.
	ReasonSilent Reason = "silent"
	// ReasonLoad is a save after text was imported.
	ReasonLoad Reason = "load"
	// ReasonRestore is a save after a snapshot was applied.
	ReasonRestore Reason = "restore"
	// ReasonVisibility is a save when the editor is hidden or closed.
	ReasonVisibility Reason = "visibility"
)

// ErrInvalidReason is returned for an unknown save reason.
var ErrInvalidReason = errors.InvalidArgument("invalid save reason").WithCode("ErrInvalidReason")

// Validate validates the reason.
func (r Reason) Validate() error {
	switch r {
	case ReasonAutosave, ReasonSilent, ReasonLoad, ReasonRestore, ReasonVisibility:
		return nil
	default:
		return fmt.Errorf("%q: %w", string(r), ErrInvalidReason)
	}
}

// Confirmation is the user facing signal of a finished save.
type Confirmation struct {
	Reason    Reason
	Message   string
	SavedAt   time.Time
	WordCount int
	CharCount int
}

// Notifier receives the confirmation of every save except silent ones.
type Notifier interface {
	Notify(c Confirmation)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(c Confirmation)

// Notify calls f(c).
func (f NotifierFunc) Notify(c Confirmation) {
	f(c)
}

// Scheduler schedules saves of the document.
type Scheduler struct {
	be       *backend.Backend
	notifier Notifier
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	floor   func() int64
}

// New creates a save scheduler on the given backend. notifier may be nil.
func New(be *backend.Backend, notifier Notifier) (*Scheduler, error) {
	debounce, err := be.Config.ParseSaveDebounce()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		be:       be,
		notifier: notifier,
		debounce: debounce,
	}, nil
}

// SetFloor sets a function returning the lowest updatedAt a save may
// record. Snapshot keys can run ahead of the clock, and a save must not look
// older than a snapshot written before it.
func (s *Scheduler) SetFloor(floor func() int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floor = floor
}

// Touch restarts the debounce window. When the window passes without
// another Touch an autosave is queued.
func (s *Scheduler) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.Queue(ReasonAutosave)
	})
}

// Flush drops the pending debounce and queues a save right away.
func (s *Scheduler) Flush(reason Reason) *queue.Task {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.Queue(reason)
}

// Queue appends a save of the current text to the save queue.
func (s *Scheduler) Queue(reason Reason) *queue.Task {
	return s.be.SaveQueue.Push("save:"+string(reason), func(ctx context.Context) error {
		return s.save(ctx, reason)
	})
}

// Stop stops the debounce timer. Saves already queued still run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) save(ctx context.Context, reason Reason) error {
	if err := reason.Validate(); err != nil {
		return err
	}

	start := time.Now()
	now := s.be.Now()
	updatedAt := now.UnixMilli()
	s.mu.Lock()
	floor := s.floor
	s.mu.Unlock()
	if floor != nil {
		if f := floor(); f > updatedAt {
			updatedAt = f
		}
	}

	info := database.NewDocInfo(s.be.Surface.Text(), updatedAt)
	if err := s.be.DB.UpdateDocInfo(ctx, info); err != nil {
		return fmt.Errorf("save document (%s): %w", reason, err)
	}

	s.be.Metrics.AddSave(string(reason))
	s.be.Metrics.ObserveSaveDuration(time.Since(start).Seconds())
	logging.From(ctx).Debugf(
		"SAVE: %s, %d words, %d chars",
		reason,
		info.WordCount,
		info.CharCount,
	)

	message := confirmationMessage(reason)
	if message == "" || s.notifier == nil {
		return nil
	}
	s.notifier.Notify(Confirmation{
		Reason:    reason,
		Message:   fmt.Sprintf("%s - %s", message, now.Format("15:04")),
		SavedAt:   now,
		WordCount: info.WordCount,
		CharCount: info.CharCount,
	})
	return nil
}

func confirmationMessage(reason Reason) string {
	switch reason {
	case ReasonSilent:
		return ""
	case ReasonRestore:
		return "Restored"
	case ReasonLoad:
		return "Loaded"
	default:
		return "Saved"
	}
}
