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

// Package memory implements the database interface using in-memory database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/hashicorp/go-memdb"

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
)

// DB is an in-memory database for testing or temporarily.
type DB struct {
	db     *memdb.MemDB
	closed atomic.Bool
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database. Every call after Close returns
// database.ErrClosed.
func (d *DB) Close() error {
	d.closed.Store(true)
	return nil
}

func (d *DB) txn(write bool) (*memdb.Txn, error) {
	if d.closed.Load() {
		return nil, database.ErrClosed
	}
	return d.db.Txn(write), nil
}

// FindDocInfo returns the document of the given id.
func (d *DB) FindDocInfo(_ context.Context, id string) (*database.DocInfo, error) {
	txn, err := d.txn(false)
	if err != nil {
		return nil, err
	}
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find document of %s: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", id, database.ErrDocumentNotFound)
	}

	return raw.(*database.DocInfo).DeepCopy(), nil
}

// UpdateDocInfo creates or overwrites the document.
func (d *DB) UpdateDocInfo(_ context.Context, info *database.DocInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	txn, err := d.txn(true)
	if err != nil {
		return err
	}
	defer txn.Abort()

	if err := txn.Insert(tblDocuments, info.DeepCopy()); err != nil {
		return fmt.Errorf("update document of %s: %w", info.ID, err)
	}
	txn.Commit()

	return nil
}

// FindSnapshotInfo returns the snapshot created at the given time.
func (d *DB) FindSnapshotInfo(_ context.Context, createdAt int64) (*database.SnapshotInfo, error) {
	txn, err := d.txn(false)
	if err != nil {
		return nil, err
	}
	defer txn.Abort()

	raw, err := txn.First(tblSnapshots, "id", createdAt)
	if err != nil {
		return nil, fmt.Errorf("find snapshot of %d: %w", createdAt, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%d: %w", createdAt, database.ErrSnapshotNotFound)
	}

	return raw.(*database.SnapshotInfo).DeepCopy(), nil
}

// FindSnapshotInfos returns all snapshots, oldest first.
func (d *DB) FindSnapshotInfos(_ context.Context) ([]*database.SnapshotInfo, error) {
	txn, err := d.txn(false)
	if err != nil {
		return nil, err
	}
	defer txn.Abort()

	iter, err := txn.Get(tblSnapshots, "id")
	if err != nil {
		return nil, fmt.Errorf("find snapshots: %w", err)
	}

	var infos []*database.SnapshotInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		infos = append(infos, raw.(*database.SnapshotInfo).DeepCopy())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt < infos[j].CreatedAt
	})

	return infos, nil
}

// CreateSnapshotInfo stores the given snapshot under its creation time.
func (d *DB) CreateSnapshotInfo(_ context.Context, info *database.SnapshotInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	txn, err := d.txn(true)
	if err != nil {
		return err
	}
	defer txn.Abort()

	if err := txn.Insert(tblSnapshots, info.DeepCopy()); err != nil {
		return fmt.Errorf("create snapshot of %d: %w", info.CreatedAt, err)
	}
	txn.Commit()

	return nil
}

// DeleteSnapshotInfo deletes the snapshot created at the given time.
func (d *DB) DeleteSnapshotInfo(_ context.Context, createdAt int64) error {
	txn, err := d.txn(true)
	if err != nil {
		return err
	}
	defer txn.Abort()

	if _, err := txn.DeleteAll(tblSnapshots, "id", createdAt); err != nil {
		return fmt.Errorf("delete snapshot of %d: %w", createdAt, err)
	}
	txn.Commit()

	return nil
}

// FindSettingInfo returns the setting of the given key.
func (d *DB) FindSettingInfo(_ context.Context, key string) (*database.SettingInfo, error) {
	txn, err := d.txn(false)
	if err != nil {
		return nil, err
	}
	defer txn.Abort()

	raw, err := txn.First(tblSettings, "id", key)
	if err != nil {
		return nil, fmt.Errorf("find setting of %s: %w", key, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", key, database.ErrSettingNotFound)
	}

	return raw.(*database.SettingInfo).DeepCopy(), nil
}

// FindSettingInfos returns all settings ordered by key.
func (d *DB) FindSettingInfos(_ context.Context) ([]*database.SettingInfo, error) {
	txn, err := d.txn(false)
	if err != nil {
		return nil, err
	}
	defer txn.Abort()

	iter, err := txn.Get(tblSettings, "id")
	if err != nil {
		return nil, fmt.Errorf("find settings: %w", err)
	}

	var infos []*database.SettingInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		infos = append(infos, raw.(*database.SettingInfo).DeepCopy())
	}

	return infos, nil
}

// UpdateSettingInfo creates or overwrites the given setting.
func (d *DB) UpdateSettingInfo(_ context.Context, info *database.SettingInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	txn, err := d.txn(true)
	if err != nil {
		return err
	}
	defer txn.Abort()

	if err := txn.Insert(tblSettings, info.DeepCopy()); err != nil {
		return fmt.Errorf("update setting of %s: %w", info.Key, err)
	}
	txn.Commit()

	return nil
}

// DeleteSettingInfo deletes the setting of the given key.
func (d *DB) DeleteSettingInfo(_ context.Context, key string) error {
	txn, err := d.txn(true)
	if err != nil {
		return err
	}
	defer txn.Abort()

	if _, err := txn.DeleteAll(tblSettings, "id", key); err != nil {
		return fmt.Errorf("delete setting of %s: %w", key, err)
	}
	txn.Commit()

	return nil
}
