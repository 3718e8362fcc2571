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

// Package reconcile decides on startup whether a snapshot newer than the
// saved document exists, which happens when a session wrote backups but
// never flushed the document.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
)

// Reason tells why a restore is offered.
type Reason string

// Below are the reasons of a Decision.
const (
	// ReasonNone means there is nothing to offer.
	ReasonNone Reason = ""
	// ReasonNoDocument means snapshots exist but the document was never
	// saved.
	ReasonNoDocument Reason = "no-document"
	// ReasonNoUpdatedAt means the saved document has no valid save time.
	ReasonNoUpdatedAt Reason = "no-updated-at"
	// ReasonNewerSnapshot means the newest snapshot is newer than the
	// saved document.
	ReasonNewerSnapshot Reason = "newer-snapshot"
)

// Decision is the outcome of a reconciliation.
type Decision struct {
	// Offer is true when the user should be offered a restore.
	Offer bool
	// Reason tells why the restore is offered.
	Reason Reason
	// Latest is the newest snapshot, nil when there are none.
	Latest *database.SnapshotInfo
	// Snapshots are all snapshots, newest first.
	Snapshots []*database.SnapshotInfo
}

// RestorePrompter presents a restore choice to the user.
type RestorePrompter interface {
	OfferRestore(ctx context.Context, decision *Decision) error
}

// Check compares the saved document with the newest snapshot.
func Check(ctx context.Context, db database.Database) (*Decision, error) {
	doc, err := db.FindDocInfo(ctx, database.DocumentID)
	if err != nil && !errors.Is(err, database.ErrDocumentNotFound) {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	infos, err := db.FindSnapshotInfos(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	return Decide(doc, infos), nil
}

// Decide decides on the given document, nil if never saved, and snapshots.
func Decide(doc *database.DocInfo, infos []*database.SnapshotInfo) *Decision {
	decision := &Decision{Snapshots: NewestFirst(infos)}
	if len(decision.Snapshots) == 0 {
		return decision
	}
	decision.Latest = decision.Snapshots[0]

	switch {
	case doc == nil:
		decision.Reason = ReasonNoDocument
	case doc.UpdatedAt <= 0:
		decision.Reason = ReasonNoUpdatedAt
	case decision.Latest.CreatedAt > doc.UpdatedAt:
		decision.Reason = ReasonNewerSnapshot
	default:
		return decision
	}

	decision.Offer = true
	return decision
}

// NewestFirst returns a copy of infos sorted by creation time, newest first.
func NewestFirst(infos []*database.SnapshotInfo) []*database.SnapshotInfo {
	sorted := make([]*database.SnapshotInfo, len(infos))
	copy(sorted, infos)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	return sorted
}
