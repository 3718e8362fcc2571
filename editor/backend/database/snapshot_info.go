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

package database

import (
	"fmt"
	"time"

	"github.com/yorkie-team/ghostwriter/pkg/document"
)

// SnapshotType is the retention category of a snapshot.
type SnapshotType string

const (
	// SnapshotRolling is taken during and after editing bursts.
	SnapshotRolling SnapshotType = "rolling"

	// SnapshotDaily is taken at most once per calendar day.
	SnapshotDaily SnapshotType = "daily"
)

// Validate checks the snapshot type.
func (t SnapshotType) Validate() error {
	switch t {
	case SnapshotRolling, SnapshotDaily:
		return nil
	default:
		return fmt.Errorf("%q: %w", string(t), ErrInvalidSnapshotType)
	}
}

// Label returns the label shown in snapshot listings.
func (t SnapshotType) Label() string {
	if t == SnapshotDaily {
		return "daily"
	}
	return "auto"
}

// SnapshotInfo is a structure representing a backup snapshot of the document.
// Snapshots are immutable once written.
type SnapshotInfo struct {
	// CreatedAt is the creation time in unix milliseconds. It is the unique
	// key of the snapshot.
	CreatedAt int64 `json:"createdAt"`

	// Text is the text of the document at CreatedAt.
	Text string `json:"text"`

	// WordCount is the number of words of Text.
	WordCount int `json:"wordCount"`

	// CharCount is the number of characters of Text.
	CharCount int `json:"charCount"`

	// Type is the retention category of the snapshot.
	Type SnapshotType `json:"type"`
}

// NewSnapshotInfo creates a snapshot record of the given text.
func NewSnapshotInfo(createdAt int64, text string, snapshotType SnapshotType) *SnapshotInfo {
	stats := document.ComputeStats(text)
	return &SnapshotInfo{
		CreatedAt: createdAt,
		Text:      text,
		WordCount: stats.WordCount,
		CharCount: stats.CharCount,
		Type:      snapshotType,
	}
}

// Validate checks the record before it is written.
func (i *SnapshotInfo) Validate() error {
	if i == nil || i.CreatedAt <= 0 {
		return fmt.Errorf("snapshot created at: %w", ErrInvalidKey)
	}
	return i.Type.Validate()
}

// Time returns CreatedAt as a time.Time.
func (i *SnapshotInfo) Time() time.Time {
	return time.UnixMilli(i.CreatedAt)
}

// DeepCopy returns a deep copy of the SnapshotInfo.
func (i *SnapshotInfo) DeepCopy() *SnapshotInfo {
	if i == nil {
		return nil
	}

	return &SnapshotInfo{
		CreatedAt: i.CreatedAt,
		Text:      i.Text,
		WordCount: i.WordCount,
		CharCount: i.CharCount,
		Type:      i.Type,
	}
}
