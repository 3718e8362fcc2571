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

// Package editor provides the persistence engine of Ghostwriter. An Editor
// keeps a single document saved, backed up and pruned while the user types,
// and checks on start whether a backup is newer than the saved document.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yorkie-team/ghostwriter/editor/backend"
	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/backend/queue"
	"github.com/yorkie-team/ghostwriter/editor/filelink"
	"github.com/yorkie-team/ghostwriter/editor/logging"
	"github.com/yorkie-team/ghostwriter/editor/profiling"
	"github.com/yorkie-team/ghostwriter/editor/profiling/prometheus"
	"github.com/yorkie-team/ghostwriter/editor/reconcile"
	"github.com/yorkie-team/ghostwriter/editor/retention"
	"github.com/yorkie-team/ghostwriter/editor/saves"
	"github.com/yorkie-team/ghostwriter/editor/settings"
	"github.com/yorkie-team/ghostwriter/editor/snapshots"
	"github.com/yorkie-team/ghostwriter/pkg/document"
)

var (
	// ErrNotStarted is returned when the editor is used before Start or
	// after Shutdown.
	ErrNotStarted = errors.New("editor is not started")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("editor is already started")
)

// SnapshotView is a snapshot as shown in a restore list.
type SnapshotView struct {
	CreatedAt int64     `json:"createdAt" yaml:"createdAt"`
	Time      time.Time `json:"time" yaml:"time"`
	Label     string    `json:"label" yaml:"label"`
	WordCount int       `json:"wordCount" yaml:"wordCount"`
	CharCount int       `json:"charCount" yaml:"charCount"`
	Preview   string    `json:"preview" yaml:"preview"`
}

// Option configures an Editor.
type Option func(*Editor)

// WithSurface sets the text-input surface. By default the editor keeps the
// text in a Buffer.
func WithSurface(surface document.Surface) Option {
	return func(e *Editor) {
		e.surface = surface
	}
}

// WithNotifier sets the receiver of save confirmations.
func WithNotifier(notifier saves.Notifier) Option {
	return func(e *Editor) {
		e.notifier = notifier
	}
}

// WithRestorePrompter sets who is asked when a restore is offered on start.
func WithRestorePrompter(prompter reconcile.RestorePrompter) Option {
	return func(e *Editor) {
		e.prompter = prompter
	}
}

// WithBackendOptions passes options to the backend, such as a clock.
func WithBackendOptions(opts ...backend.Option) Option {
	return func(e *Editor) {
		e.backendOpts = append(e.backendOpts, opts...)
	}
}

// Editor is the persistence engine of one document.
type Editor struct {
	conf        *Config
	surface     document.Surface
	notifier    saves.Notifier
	prompter    reconcile.RestorePrompter
	backendOpts []backend.Option

	metrics         *prometheus.Metrics
	backend         *backend.Backend
	settings        *settings.Store
	pruner          *retention.Pruner
	saves           *saves.Scheduler
	snapshots       *snapshots.Scheduler
	link            *filelink.Linker
	profilingServer *profiling.Server

	lock       sync.Mutex
	started    bool
	shutdown   bool
	shutdownCh chan struct{}

	// ready is true between Start and Shutdown.
	ready atomic.Bool
}

// New creates a new editor. It opens nothing until Start.
func New(conf *Config, opts ...Option) (*Editor, error) {
	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	e := &Editor{
		conf:       conf,
		metrics:    metrics,
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.surface == nil {
		e.surface = document.NewBuffer("")
	}

	return e, nil
}

// Start opens the store, loads the settings and the document into the
// surface and reconciles the document with the newest snapshot. When a
// restore is offered the prompter, if any, is asked.
func (e *Editor) Start(ctx context.Context) (*reconcile.Decision, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.started {
		return nil, ErrAlreadyStarted
	}

	be, err := backend.New(e.conf.Backend, e.conf.Database, e.metrics, e.surface, e.backendOpts...)
	if err != nil {
		return nil, err
	}
	ctx = logging.With(ctx, logging.New(be.SessionID))

	e.backend = be
	e.settings = settings.New(be.DB)
	e.pruner = retention.New(e.conf.Backend.RollingSnapshotCap, e.conf.Backend.DailySnapshotCap, e.metrics)
	e.link = filelink.New(e.settings, e.conf.Backend.ExportDir, be.Now)
	if e.saves, err = saves.New(be, e.notifier); err != nil {
		return nil, e.abort(err)
	}
	if e.snapshots, err = snapshots.New(be, e.pruner, e.settings); err != nil {
		return nil, e.abort(err)
	}
	e.saves.SetFloor(e.snapshots.LastKey)

	if prefs, err := e.settings.Preferences(ctx); err != nil {
		logging.From(ctx).Warnf("load preferences: %v", err)
	} else {
		logging.From(ctx).Debugf(
			"preferences: font size %d, line width %d, font %s",
			prefs.FontSize,
			prefs.LineWidth,
			prefs.FontFamily,
		)
	}

	if err := e.loadDocument(ctx); err != nil {
		return nil, e.abort(err)
	}
	if err := e.snapshots.Load(ctx); err != nil {
		return nil, e.abort(err)
	}
	e.link.Restore(ctx)

	if e.conf.Profiling != nil {
		e.profilingServer = profiling.NewServer(e.conf.Profiling, e.metrics)
		if err := e.profilingServer.Start(); err != nil {
			return nil, e.abort(err)
		}
	}

	e.started = true
	e.ready.Store(true)

	decision, err := reconcile.Check(ctx, be.DB)
	if err != nil {
		return nil, err
	}
	if decision.Offer {
		logging.From(ctx).Infof(
			"backup %d is newer than the saved document (%s)",
			decision.Latest.CreatedAt,
			decision.Reason,
		)
		if e.prompter != nil {
			if err := e.prompter.OfferRestore(ctx, decision); err != nil {
				return decision, err
			}
		}
	}

	return decision, nil
}

func (e *Editor) abort(err error) error {
	if shutdownErr := e.backend.Shutdown(context.Background()); shutdownErr != nil {
		return errors.Join(err, shutdownErr)
	}
	return err
}

func (e *Editor) loadDocument(ctx context.Context) error {
	info, err := e.backend.DB.FindDocInfo(ctx, database.DocumentID)
	if errors.Is(err, database.ErrDocumentNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	e.surface.SetText(info.Text)
	return nil
}

// Shutdown stops the editor. A graceful shutdown first saves the document
// and takes a snapshot if one is owed. Queued saves and snapshots always
// run before the store is closed.
func (e *Editor) Shutdown(ctx context.Context, graceful bool) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if !e.started || e.shutdown {
		return nil
	}
	e.ready.Store(false)
	e.saves.Stop()
	e.snapshots.Stop()

	if graceful {
		// The final save follows the owed snapshot so the next start does
		// not see that snapshot as newer than the document.
		if task := e.snapshots.FlushIfOwed(); task != nil {
			if err := task.Wait(ctx); err != nil {
				logging.From(ctx).Warnf("wait for the last snapshot: %v", err)
			}
		}
		e.saves.Flush(saves.ReasonVisibility)
	}

	err := e.backend.Shutdown(ctx)
	if e.profilingServer != nil {
		e.profilingServer.Shutdown(graceful)
	}

	e.shutdown = true
	close(e.shutdownCh)
	return err
}

// checkReady returns ErrNotStarted outside of Start and Shutdown.
func (e *Editor) checkReady() error {
	if !e.ready.Load() {
		return ErrNotStarted
	}
	return nil
}

// ShutdownCh returns a channel that is closed when the editor is shut down.
func (e *Editor) ShutdownCh() <-chan struct{} {
	return e.shutdownCh
}

// Metrics returns the metrics of this editor.
func (e *Editor) Metrics() *prometheus.Metrics {
	return e.metrics
}

// Surface returns the text-input surface.
func (e *Editor) Surface() document.Surface {
	return e.surface
}

// Text returns the current text.
func (e *Editor) Text() string {
	return e.surface.Text()
}

// OnInput must be called after every change of the surface text.
func (e *Editor) OnInput() {
	if e.checkReady() != nil {
		return
	}
	e.saves.Touch()
	e.snapshots.MarkInput()
}

// QueueSave queues a save of the current text.
func (e *Editor) QueueSave(reason saves.Reason) *queue.Task {
	if err := e.checkReady(); err != nil {
		return queue.Failed(string(reason), err)
	}
	return e.saves.Queue(reason)
}

// QueueSnapshot queues a snapshot of the current text.
func (e *Editor) QueueSnapshot(snapshotType database.SnapshotType) *queue.Task {
	if err := e.checkReady(); err != nil {
		return queue.Failed(string(snapshotType), err)
	}
	return e.snapshots.Queue(snapshotType)
}

// HandleVisibilityLoss saves right away and takes a snapshot if one is owed.
// Call it when the editor is hidden or about to close.
func (e *Editor) HandleVisibilityLoss() {
	e.lock.Lock()
	defer e.lock.Unlock()
	if !e.started || e.shutdown {
		return
	}
	e.handleVisibilityLoss()
}

func (e *Editor) handleVisibilityLoss() {
	e.saves.Flush(saves.ReasonVisibility)
	e.snapshots.FlushIfOwed()
}

// ApplyLoadedText replaces the text with imported text, saves it and then
// snapshots it.
func (e *Editor) ApplyLoadedText(ctx context.Context, text string) error {
	if err := e.checkReady(); err != nil {
		return err
	}
	e.surface.SetText(text)
	e.snapshots.MarkOwed()
	return e.saveThenSnapshot(ctx, saves.ReasonLoad)
}

// ApplyRestore replaces the text with the snapshot created at createdAt,
// saves it and then snapshots it.
func (e *Editor) ApplyRestore(ctx context.Context, createdAt int64) error {
	if err := e.checkReady(); err != nil {
		return err
	}
	info, err := e.backend.DB.FindSnapshotInfo(ctx, createdAt)
	if err != nil {
		return fmt.Errorf("restore %d: %w", createdAt, err)
	}

	e.surface.SetText(info.Text)
	e.snapshots.ClearOwed()
	return e.saveThenSnapshot(ctx, saves.ReasonRestore)
}

func (e *Editor) saveThenSnapshot(ctx context.Context, reason saves.Reason) error {
	save := e.saves.Queue(reason)
	if err := save.Wait(ctx); err != nil {
		return err
	}

	snapshot := e.snapshots.Queue(database.SnapshotRolling)
	if err := snapshot.Wait(ctx); err != nil {
		return err
	}

	return errors.Join(save.Err(), snapshot.Err())
}

// Snapshot returns the snapshot created at createdAt.
func (e *Editor) Snapshot(ctx context.Context, createdAt int64) (*database.SnapshotInfo, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	return e.backend.DB.FindSnapshotInfo(ctx, createdAt)
}

// RenderSnapshots lists all snapshots, newest first.
func (e *Editor) RenderSnapshots(ctx context.Context) ([]*SnapshotView, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	infos, err := e.backend.DB.FindSnapshotInfos(ctx)
	if err != nil {
		return nil, fmt.Errorf("render snapshots: %w", err)
	}

	var views []*SnapshotView
	for _, info := range reconcile.NewestFirst(infos) {
		views = append(views, &SnapshotView{
			CreatedAt: info.CreatedAt,
			Time:      info.Time(),
			Label:     info.Type.Label(),
			WordCount: info.WordCount,
			CharCount: info.CharCount,
			Preview:   document.Preview(info.Text),
		})
	}
	return views, nil
}

// Prune runs a pruning pass on the snapshot queue.
func (e *Editor) Prune(ctx context.Context) (*retention.Result, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	var result *retention.Result
	task := e.backend.SnapshotQueue.Push("prune", func(ctx context.Context) error {
		var err error
		result, err = e.pruner.Prune(ctx, e.backend.DB)
		return err
	})
	if err := task.Wait(ctx); err != nil {
		return nil, err
	}
	return result, task.Err()
}

// Setting decodes the value of key into v and reports whether it was set.
func (e *Editor) Setting(ctx context.Context, key string, v interface{}) (bool, error) {
	if err := e.checkReady(); err != nil {
		return false, err
	}
	return e.settings.Get(ctx, key, v)
}

// SetSetting stores v as the value of key.
func (e *Editor) SetSetting(ctx context.Context, key string, v interface{}) error {
	if err := e.checkReady(); err != nil {
		return err
	}
	return e.settings.Set(ctx, key, v)
}

// Settings returns the settings store. It is nil before Start.
func (e *Editor) Settings() *settings.Store {
	return e.settings
}

// Import loads the file at path, links it and applies its text.
func (e *Editor) Import(ctx context.Context, path string) error {
	if err := e.checkReady(); err != nil {
		return err
	}
	text, err := e.link.Load(ctx, path)
	if err != nil {
		return err
	}
	return e.ApplyLoadedText(ctx, text)
}

// Export saves silently and then writes the text to the linked file, or to
// a new file in the export directory.
func (e *Editor) Export(ctx context.Context) (*filelink.Result, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	save := e.saves.Queue(saves.ReasonSilent)
	if err := save.Wait(ctx); err != nil {
		return nil, err
	}
	return e.link.Save(ctx, e.surface.Text())
}

// Link links the document to the file at path without reading it.
func (e *Editor) Link(ctx context.Context, path string) error {
	if err := e.checkReady(); err != nil {
		return err
	}
	return e.link.Link(ctx, path)
}

// LinkedPath returns the path of the linked file, or an empty string.
func (e *Editor) LinkedPath() string {
	if e.link == nil {
		return ""
	}
	return e.link.Path()
}

// WatchLink calls onChange when the linked file changes on disk until the
// editor shuts down. It reports false if there is no linked file.
func (e *Editor) WatchLink(onChange func(path string)) bool {
	if e.checkReady() != nil || e.link.Path() == "" {
		return false
	}

	return e.backend.Background.AttachGoroutine(func(ctx context.Context) {
		if err := e.link.Watch(ctx, onChange); err != nil {
			logging.From(ctx).Warnf("watch linked file: %v", err)
		}
	}, "link-watch")
}
