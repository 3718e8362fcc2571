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

// Package testhelper provides helpers shared by the tests of the editor
// packages: a manual clock, a database with injectable faults and a backend
// wired for fast timers.
package testhelper

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
	"github.com/yorkie-team/ghostwriter/editor/profiling/prometheus"
	"github.com/yorkie-team/ghostwriter/pkg/document"
)

// Below are the timings of backends created by NewBackend.
const (
	SaveDebounce     = 40 * time.Millisecond
	SnapshotInterval = 150 * time.Millisecond
	SnapshotIdle     = 60 * time.Millisecond

	// WaitFor is how long assertions wait for timers to fire.
	WaitFor = 2 * time.Second
	// Tick is the polling interval of eventual assertions.
	Tick = 5 * time.Millisecond
)

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock stopped at the given time.
func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

// Now returns the current time of the clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to the given time.
func (c *ManualClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewConfig returns a backend config with fast timers.
func NewConfig() *backend.Config {
	return &backend.Config{
		SaveDebounce:       SaveDebounce.String(),
		SnapshotInterval:   SnapshotInterval.String(),
		SnapshotIdle:       SnapshotIdle.String(),
		RollingSnapshotCap: 200,
		DailySnapshotCap:   30,
	}
}

// NewBackend creates a backend over a fresh memory database and shuts it
// down when the test ends.
func NewBackend(t *testing.T, surface document.Surface, opts ...backend.Option) *backend.Backend {
	db, err := memory.New()
	require.NoError(t, err)
	return NewBackendWithDB(t, db, surface, opts...)
}

// NewBackendWithDB creates a backend over the given database and shuts it
// down when the test ends.
func NewBackendWithDB(
	t *testing.T,
	db database.Database,
	surface document.Surface,
	opts ...backend.Option,
) *backend.Backend {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)

	opts = append([]backend.Option{backend.WithDatabase(db)}, opts...)
	be, err := backend.New(NewConfig(), nil, metrics, surface, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, be.Shutdown(context.Background()))
	})
	return be
}

// FaultyDB wraps a database and fails the calls it is told to fail.
type FaultyDB struct {
	database.Database

	mu       sync.Mutex
	faults   map[string]error
	failKeys map[int64]error
}

// NewFaultyDB wraps the given database.
func NewFaultyDB(db database.Database) *FaultyDB {
	return &FaultyDB{
		Database: db,
		faults:   make(map[string]error),
		failKeys: make(map[int64]error),
	}
}

// Fail makes every call of the named method return err until Heal.
func (d *FaultyDB) Fail(method string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faults[method] = err
}

// FailSnapshot makes DeleteSnapshotInfo fail for the given key only.
func (d *FaultyDB) FailSnapshot(createdAt int64, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failKeys[createdAt] = err
}

// Heal removes every injected fault.
func (d *FaultyDB) Heal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faults = make(map[string]error)
	d.failKeys = make(map[int64]error)
}

func (d *FaultyDB) fault(method string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.faults[method]
}

// FindDocInfo fails if told so, otherwise delegates.
func (d *FaultyDB) FindDocInfo(ctx context.Context, id string) (*database.DocInfo, error) {
	if err := d.fault("FindDocInfo"); err != nil {
		return nil, err
	}
	return d.Database.FindDocInfo(ctx, id)
}

// UpdateDocInfo fails if told so, otherwise delegates.
func (d *FaultyDB) UpdateDocInfo(ctx context.Context, info *database.DocInfo) error {
	if err := d.fault("UpdateDocInfo"); err != nil {
		return err
	}
	return d.Database.UpdateDocInfo(ctx, info)
}

// FindSnapshotInfos fails if told so, otherwise delegates.
func (d *FaultyDB) FindSnapshotInfos(ctx context.Context) ([]*database.SnapshotInfo, error) {
	if err := d.fault("FindSnapshotInfos"); err != nil {
		return nil, err
	}
	return d.Database.FindSnapshotInfos(ctx)
}

// CreateSnapshotInfo fails if told so, otherwise delegates.
func (d *FaultyDB) CreateSnapshotInfo(ctx context.Context, info *database.SnapshotInfo) error {
	if err := d.fault("CreateSnapshotInfo"); err != nil {
		return err
	}
	return d.Database.CreateSnapshotInfo(ctx, info)
}

// DeleteSnapshotInfo fails if told so, otherwise delegates.
func (d *FaultyDB) DeleteSnapshotInfo(ctx context.Context, createdAt int64) error {
	if err := d.fault("DeleteSnapshotInfo"); err != nil {
		return err
	}
	d.mu.Lock()
	err := d.failKeys[createdAt]
	d.mu.Unlock()
	if err != nil {
		return err
	}
	return d.Database.DeleteSnapshotInfo(ctx, createdAt)
}

// FindSettingInfo fails if told so, otherwise delegates.
func (d *FaultyDB) FindSettingInfo(ctx context.Context, key string) (*database.SettingInfo, error) {
	if err := d.fault("FindSettingInfo"); err != nil {
		return nil, err
	}
	return d.Database.FindSettingInfo(ctx, key)
}

// UpdateSettingInfo fails if told so, otherwise delegates.
func (d *FaultyDB) UpdateSettingInfo(ctx context.Context, info *database.SettingInfo) error {
	if err := d.fault("UpdateSettingInfo"); err != nil {
		return err
	}
	return d.Database.UpdateSettingInfo(ctx, info)
}
