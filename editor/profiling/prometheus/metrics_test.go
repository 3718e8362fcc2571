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

package prometheus_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/ghostwriter/editor/profiling/prometheus"
)

func TestMetrics(t *testing.T) {
	t.Run("nil metrics test", func(t *testing.T) {
		var m *prometheus.Metrics
		assert.NotPanics(t, func() {
			m.AddQueueTask("save", true)
			m.AddSave("autosave")
			m.AddSnapshotCreated("rolling")
			m.AddSnapshotsPruned("daily", 3)
		})
	})

	t.Run("collect test", func(t *testing.T) {
		m, err := prometheus.NewMetrics()
		assert.NoError(t, err)

		m.AddQueueTask("save", false)
		m.AddQueueTask("save", true)
		m.AddSnapshotsPruned("rolling", 10)

		count, err := testutil.GatherAndCount(
			m.Registry(),
			"ghostwriter_queue_tasks_total",
			"ghostwriter_queue_failed_total",
			"ghostwriter_snapshots_pruned_total",
		)
		assert.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}
