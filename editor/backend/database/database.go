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

// Package database provides the store interface of the Ghostwriter backend.
// The store keeps three collections: the singleton document, the backup
// snapshots and the settings bag.
package database

import (
	"context"

	"github.com/yorkie-team/ghostwriter/pkg/errors"
)

var (
	// ErrDocumentNotFound is returned when the document has never been saved.
	ErrDocumentNotFound = errors.NotFound("document not found").WithCode("ErrDocumentNotFound")

	// ErrSnapshotNotFound is returned when the snapshot could not be found.
	ErrSnapshotNotFound = errors.NotFound("snapshot not found").WithCode("ErrSnapshotNotFound")

	// ErrSettingNotFound is returned when the setting could not be found.
	ErrSettingNotFound = errors.NotFound("setting not found").WithCode("ErrSettingNotFound")

	// ErrInvalidSnapshotType is returned when a snapshot has an unknown type.
	ErrInvalidSnapshotType = errors.InvalidArgument("invalid snapshot type").WithCode("ErrInvalidSnapshotType")

	// ErrInvalidKey is returned when a record has an empty or zero key.
	ErrInvalidKey = errors.InvalidArgument("invalid key").WithCode("ErrInvalidKey")

	// ErrInvalidSettingValue is returned when a setting value is not valid JSON.
	ErrInvalidSettingValue = errors.InvalidArgument("invalid setting value").WithCode("ErrInvalidSettingValue")

	// ErrClosed is returned when the database has been closed.
	ErrClosed = errors.Unavailable("database closed").WithCode("ErrClosed")
)

// Database represents the store which reads or saves the editor data. Every
// call is atomic and durable once it returns without error.
type Database interface {
	// Close all resources of this database.
	Close() error

	// FindDocInfo returns the document of the given id.
	FindDocInfo(ctx context.Context, id string) (*DocInfo, error)

	// UpdateDocInfo creates or overwrites the document.
	UpdateDocInfo(ctx context.Context, info *DocInfo) error

	// FindSnapshotInfo returns the snapshot created at the given time.
	FindSnapshotInfo(ctx context.Context, createdAt int64) (*SnapshotInfo, error)

	// FindSnapshotInfos returns all snapshots ordered by creation time,
	// oldest first.
	FindSnapshotInfos(ctx context.Context) ([]*SnapshotInfo, error)

	// CreateSnapshotInfo stores the given snapshot under its creation time.
	CreateSnapshotInfo(ctx context.Context, info *SnapshotInfo) error

	// DeleteSnapshotInfo deletes the snapshot created at the given time.
	// Deleting a missing snapshot is not an error.
	DeleteSnapshotInfo(ctx context.Context, createdAt int64) error

	// FindSettingInfo returns the setting of the given key.
	FindSettingInfo(ctx context.Context, key string) (*SettingInfo, error)

	// FindSettingInfos returns all settings ordered by key.
	FindSettingInfos(ctx context.Context) ([]*SettingInfo, error)

	// UpdateSettingInfo creates or overwrites the given setting.
	UpdateSettingInfo(ctx context.Context, info *SettingInfo) error

	// DeleteSettingInfo deletes the setting of the given key.
	DeleteSettingInfo(ctx context.Context, key string) error
}
