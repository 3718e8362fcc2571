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

// Package backend provides the backend of the editor. It owns the database,
// the save and snapshot queues and the background goroutines, and is shared
// by the schedulers that run on top of it.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/yorkie-team/ghostwriter/editor/backend/background"
	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	memdb "github.com/yorkie-team/ghostwriter/editor/backend/database/memory"
	"github.com/yorkie-team/ghostwriter/editor/backend/database/sqlite"
	"github.com/yorkie-team/ghostwriter/editor/backend/queue"
	"github.com/yorkie-team/ghostwriter/editor/logging"
	"github.com/yorkie-team/ghostwriter/editor/profiling/prometheus"
	"github.com/yorkie-team/ghostwriter/pkg/document"
)

const (
	// SaveQueueName is the name of the queue that serializes document saves.
	SaveQueueName = "save"

	// SnapshotQueueName is the name of the queue that serializes snapshot
	// work.
	SnapshotQueueName = "snapshot"
)

// Clock tells the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Option configures a Backend.
type Option func(*Backend)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(b *Backend) {
		b.Clock = clock
	}
}

// WithDatabase uses the given database instead of opening one from the
// database config.
func WithDatabase(db database.Database) Option {
	return func(b *Backend) {
		b.DB = db
	}
}

// Backend manages the editor's database, queues and background goroutines.
type Backend struct {
	Config *Config

	// SessionID identifies this editing session in logs.
	SessionID string

	// DB is the database instance.
	DB database.Database
	// Surface is the text input the schedulers read from.
	Surface document.Surface
	// Clock tells the current time.
	Clock Clock

	// Background is used to manage background tasks.
	Background *background.Background
	// SaveQueue serializes document saves.
	SaveQueue *queue.Queue
	// SnapshotQueue serializes snapshot creation, daily bookkeeping and
	// pruning.
	SnapshotQueue *queue.Queue

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
}

// New creates a new instance of Backend.
func New(
	conf *Config,
	dbConf *database.Config,
	metrics *prometheus.Metrics,
	surface document.Surface,
	opts ...Option,
) (*Backend, error) {
	b := &Backend{
		Config:    conf,
		SessionID: xid.New().String(),
		Surface:   surface,
		Clock:     SystemClock,
		Metrics:   metrics,
	}
	for _, opt := range opts {
		opt(b)
	}

	dbType := "external"
	if b.DB == nil {
		dbType = dbConf.Type
		db, err := openDatabase(dbConf)
		if err != nil {
			return nil, err
		}
		b.DB = db
	}

	b.Background = background.New(metrics)
	b.SaveQueue = queue.New(SaveQueueName, b.Background, metrics)
	b.SnapshotQueue = queue.New(SnapshotQueueName, b.Background, metrics)

	logging.DefaultLogger().Infof(
		"backend created: session %s, database %s",
		b.SessionID,
		dbType,
	)

	return b, nil
}

func openDatabase(conf *database.Config) (database.Database, error) {
	switch conf.Type {
	case database.TypeSQLite:
		db, err := sqlite.Open(conf.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	case database.TypeMemory:
		db, err := memdb.New()
		if err != nil {
			return nil, fmt.Errorf("open memory db: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database type %q", conf.Type)
	}
}

// Now returns the current time of the backend clock.
func (b *Backend) Now() time.Time {
	return b.Clock.Now()
}

// Shutdown drains both queues, stops the background goroutines and closes
// the database. Operations already queued still run.
func (b *Backend) Shutdown(ctx context.Context) error {
	var errs []error
	if err := b.SaveQueue.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close save queue: %w", err))
	}
	if err := b.SnapshotQueue.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close snapshot queue: %w", err))
	}

	b.Background.Close()

	if err := b.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	logging.DefaultLogger().Infof("backend stopped: session %s", b.SessionID)
	return errors.Join(errs...)
}
