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

// Package sqlite implements the database interface on top of an on-device
// SQLite file. Every call runs in its own transaction and the database is
// opened with synchronous=FULL, so a call that returns without error has been
// flushed to disk.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	pkgerrors "github.com/yorkie-team/ghostwriter/pkg/errors"
)

// FileName is the name of the database file inside the data directory.
const FileName = "ghostwriter.db"

// ErrQuotaExceeded is returned when the disk or database is full.
var ErrQuotaExceeded = pkgerrors.ResourceExhausted("storage quota exceeded").WithCode("ErrQuotaExceeded")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id         TEXT PRIMARY KEY,
		text       TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		word_count INTEGER NOT NULL,
		char_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		created_at INTEGER PRIMARY KEY,
		text       TEXT NOT NULL,
		word_count INTEGER NOT NULL,
		char_count INTEGER NOT NULL,
		type       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`,
}

// DB is a SQLite backed database.
type DB struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// Open opens or creates the database file in the given directory and creates
// the schema if it does not exist yet.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// SQLite doesn't support multiple writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=FULL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &DB{db: db, path: path}, nil
}

// Path returns the path of the database file.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database.
func (d *DB) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	return d.db.Close()
}

// withTx runs f in a transaction and commits it if f succeeds.
func (d *DB) withTx(ctx context.Context, f func(tx *sql.Tx) error) error {
	if d.closed.Load() {
		return database.ErrClosed
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin: %w", err))
	}

	if err := f(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// classify maps storage level failures to status errors.
func classify(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "database or disk is full"), strings.Contains(msg, "sqlite_full"):
		return fmt.Errorf("%v: %w", err, ErrQuotaExceeded)
	case errors.Is(err, sql.ErrConnDone), strings.Contains(msg, "database is closed"):
		return fmt.Errorf("%v: %w", err, database.ErrClosed)
	}
	return err
}

// FindDocInfo returns the document of the given id.
func (d *DB) FindDocInfo(ctx context.Context, id string) (*database.DocInfo, error) {
	info := &database.DocInfo{}
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT id, text, updated_at, word_count, char_count FROM documents WHERE id = ?`,
			id,
		)
		if err := row.Scan(&info.ID, &info.Text, &info.UpdatedAt, &info.WordCount, &info.CharCount); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%s: %w", id, database.ErrDocumentNotFound)
			}
			return classify(fmt.Errorf("find document of %s: %w", id, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return info, nil
}

// UpdateDocInfo creates or overwrites the document.
func (d *DB) UpdateDocInfo(ctx context.Context, info *database.DocInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, text, updated_at, word_count, char_count)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				text = excluded.text,
				updated_at = excluded.updated_at,
				word_count = excluded.word_count,
				char_count = excluded.char_count`,
			info.ID, info.Text, info.UpdatedAt, info.WordCount, info.CharCount,
		); err != nil {
			return classify(fmt.Errorf("update document of %s: %w", info.ID, err))
		}
		return nil
	})
}

// FindSnapshotInfo returns the snapshot created at the given time.
func (d *DB) FindSnapshotInfo(ctx context.Context, createdAt int64) (*database.SnapshotInfo, error) {
	info := &database.SnapshotInfo{}
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT created_at, text, word_count, char_count, type FROM snapshots WHERE created_at = ?`,
			createdAt,
		)
		if err := row.Scan(&info.CreatedAt, &info.Text, &info.WordCount, &info.CharCount, &info.Type); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%d: %w", createdAt, database.ErrSnapshotNotFound)
			}
			return classify(fmt.Errorf("find snapshot of %d: %w", createdAt, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return info, nil
}

// FindSnapshotInfos returns all snapshots, oldest first.
func (d *DB) FindSnapshotInfos(ctx context.Context) ([]*database.SnapshotInfo, error) {
	var infos []*database.SnapshotInfo
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT created_at, text, word_count, char_count, type FROM snapshots ORDER BY created_at ASC`,
		)
		if err != nil {
			return classify(fmt.Errorf("find snapshots: %w", err))
		}
		defer func() {
			_ = rows.Close()
		}()

		for rows.Next() {
			info := &database.SnapshotInfo{}
			if err := rows.Scan(&info.CreatedAt, &info.Text, &info.WordCount, &info.CharCount, &info.Type); err != nil {
				return classify(fmt.Errorf("scan snapshot: %w", err))
			}
			infos = append(infos, info)
		}
		return classify(rows.Err())
	})
	if err != nil {
		return nil, err
	}

	return infos, nil
}

// CreateSnapshotInfo stores the given snapshot under its creation time.
func (d *DB) CreateSnapshotInfo(ctx context.Context, info *database.SnapshotInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO snapshots (created_at, text, word_count, char_count, type)
			VALUES (?, ?, ?, ?, ?)`,
			info.CreatedAt, info.Text, info.WordCount, info.CharCount, string(info.Type),
		); err != nil {
			return classify(fmt.Errorf("create snapshot of %d: %w", info.CreatedAt, err))
		}
		return nil
	})
}

// DeleteSnapshotInfo deletes the snapshot created at the given time.
func (d *DB) DeleteSnapshotInfo(ctx context.Context, createdAt int64) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE created_at = ?`, createdAt); err != nil {
			return classify(fmt.Errorf("delete snapshot of %d: %w", createdAt, err))
		}
		return nil
	})
}

// FindSettingInfo returns the setting of the given key.
func (d *DB) FindSettingInfo(ctx context.Context, key string) (*database.SettingInfo, error) {
	info := &database.SettingInfo{}
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var value []byte
		row := tx.QueryRowContext(ctx, `SELECT key, value FROM settings WHERE key = ?`, key)
		if err := row.Scan(&info.Key, &value); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%s: %w", key, database.ErrSettingNotFound)
			}
			return classify(fmt.Errorf("find setting of %s: %w", key, err))
		}
		info.Value = json.RawMessage(value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return info, nil
}

// FindSettingInfos returns all settings ordered by key.
func (d *DB) FindSettingInfos(ctx context.Context) ([]*database.SettingInfo, error) {
	var infos []*database.SettingInfo
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key ASC`)
		if err != nil {
			return classify(fmt.Errorf("find settings: %w", err))
		}
		defer func() {
			_ = rows.Close()
		}()

		for rows.Next() {
			var value []byte
			info := &database.SettingInfo{}
			if err := rows.Scan(&info.Key, &value); err != nil {
				return classify(fmt.Errorf("scan setting: %w", err))
			}
			info.Value = json.RawMessage(value)
			infos = append(infos, info)
		}
		return classify(rows.Err())
	})
	if err != nil {
		return nil, err
	}

	return infos, nil
}

// UpdateSettingInfo creates or overwrites the given setting.
func (d *DB) UpdateSettingInfo(ctx context.Context, info *database.SettingInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			info.Key, []byte(info.Value),
		); err != nil {
			return classify(fmt.Errorf("update setting of %s: %w", info.Key, err))
		}
		return nil
	})
}

// DeleteSettingInfo deletes the setting of the given key.
func (d *DB) DeleteSettingInfo(ctx context.Context, key string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
			return classify(fmt.Errorf("delete setting of %s: %w", key, err))
		}
		return nil
	})
}
