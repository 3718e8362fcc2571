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

// Package retention provides the snapshot pruner. Rolling and daily
// snapshots are capped independently and the oldest ones beyond each cap
// are deleted.
package retention

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/logging"
	"github.com/yorkie-team/ghostwriter/editor/profiling/prometheus"
)

// Below are the default caps of each snapshot type.
const (
	DefaultRollingCap = 200
	DefaultDailyCap   = 30
)

// Result is the outcome of one pruning pass.
type Result struct {
	// Deleted are the keys of the deleted snapshots.
	Deleted []int64
	// Failed are the keys of the snapshots that could not be deleted.
	Failed []int64
}

// Pruner deletes snapshots that exceed their type's cap.
type Pruner struct {
	RollingCap int
	DailyCap   int

	metrics *prometheus.Metrics
}

// New creates a pruner with the given caps. metrics may be nil.
func New(rollingCap, dailyCap int, metrics *prometheus.Metrics) *Pruner {
	return &Pruner{
		RollingCap: rollingCap,
		DailyCap:   dailyCap,
		metrics:    metrics,
	}
}

// Cap returns the cap of the given type, or -1 for unknown types.
func (p *Pruner) Cap(snapshotType database.SnapshotType) int {
	switch snapshotType {
	case database.SnapshotRolling:
		return p.RollingCap
	case database.SnapshotDaily:
		return p.DailyCap
	default:
		return -1
	}
}

// Prune deletes the oldest snapshots of each type beyond its cap. A failed
// delete does not stop the pass; the failures are returned joined.
func (p *Pruner) Prune(ctx context.Context, db database.Database) (*Result, error) {
	infos, err := db.FindSnapshotInfos(ctx)
	if err != nil {
		return nil, fmt.Errorf("prune snapshots: %w", err)
	}

	byType := make(map[database.SnapshotType][]*database.SnapshotInfo)
	for _, info := range infos {
		byType[info.Type] = append(byType[info.Type], info)
	}

	result := &Result{}
	var errs []error
	for _, snapshotType := range []database.SnapshotType{database.SnapshotRolling, database.SnapshotDaily} {
		deleted := 0
		for _, info := range Excess(byType[snapshotType], p.Cap(snapshotType)) {
			if err := db.DeleteSnapshotInfo(ctx, info.CreatedAt); err != nil {
				logging.From(ctx).Warnf("PRUNE: delete %s snapshot %d: %v", snapshotType, info.CreatedAt, err)
				result.Failed = append(result.Failed, info.CreatedAt)
				errs = append(errs, fmt.Errorf("delete snapshot %d: %w", info.CreatedAt, err))
				continue
			}
			result.Deleted = append(result.Deleted, info.CreatedAt)
			deleted++
		}

		if deleted > 0 {
			p.metrics.AddSnapshotsPruned(string(snapshotType), deleted)
			logging.From(ctx).Infof("PRUNE: %d %s snapshots deleted", deleted, snapshotType)
		}
	}

	return result, errors.Join(errs...)
}

// Excess returns the oldest infos beyond limit, oldest first. A negative
// limit keeps everything.
func Excess(infos []*database.SnapshotInfo, limit int) []*database.SnapshotInfo {
	if limit < 0 || len(infos) <= limit {
		return nil
	}

	sorted := make([]*database.SnapshotInfo, len(infos))
	copy(sorted, infos)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt < sorted[j].CreatedAt
	})

	return sorted[:len(sorted)-limit]
}
