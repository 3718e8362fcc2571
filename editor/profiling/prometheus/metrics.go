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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace     = "ghostwriter"
	queueLabel    = "queue"
	reasonLabel   = "reason"
	typeLabel     = "type"
	taskTypeLabel = "task_type"
)

// Metrics manages the metric information of the persistence engine. All
// methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	queueTasksTotal   *prometheus.CounterVec
	queueFailedTotal  *prometheus.CounterVec
	queuePendingTasks *prometheus.GaugeVec

	savesTotal          *prometheus.CounterVec
	saveDurationSeconds prometheus.Histogram

	snapshotsCreatedTotal *prometheus.CounterVec
	snapshotsPrunedTotal  *prometheus.CounterVec

	backgroundGoroutinesTotal *prometheus.GaugeVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	return &Metrics{
		registry: reg,
		queueTasksTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "tasks_total",
			Help:      "The total number of tasks run by a serialized queue.",
		}, []string{queueLabel}),
		queueFailedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "failed_total",
			Help:      "The total number of queued tasks that returned an error.",
		}, []string{queueLabel}),
		queuePendingTasks: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "pending_tasks",
			Help:      "The number of tasks waiting in a serialized queue.",
		}, []string{queueLabel}),
		savesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "saves_total",
			Help:      "The total number of document saves by reason.",
		}, []string{reasonLabel}),
		saveDurationSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "save_duration_seconds",
			Help:      "The time spent writing the document record.",
		}),
		snapshotsCreatedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshots",
			Name:      "created_total",
			Help:      "The total number of snapshots written by type.",
		}, []string{typeLabel}),
		snapshotsPrunedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshots",
			Name:      "pruned_total",
			Help:      "The total number of snapshots deleted by the retention pruner.",
		}, []string{typeLabel}),
		backgroundGoroutinesTotal: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "goroutines_total",
			Help:      "The total number of goroutines attached by the background service.",
		}, []string{taskTypeLabel}),
	}, nil
}

// AddQueueTask records a finished queue task and whether it failed.
func (m *Metrics) AddQueueTask(queue string, failed bool) {
	if m == nil {
		return
	}
	m.queueTasksTotal.With(prometheus.Labels{queueLabel: queue}).Inc()
	if failed {
		m.queueFailedTotal.With(prometheus.Labels{queueLabel: queue}).Inc()
	}
}

// SetQueuePending sets the number of pending tasks of the given queue.
func (m *Metrics) SetQueuePending(queue string, pending int) {
	if m == nil {
		return
	}
	m.queuePendingTasks.With(prometheus.Labels{queueLabel: queue}).Set(float64(pending))
}

// AddSave records a document save.
func (m *Metrics) AddSave(reason string) {
	if m == nil {
		return
	}
	m.savesTotal.With(prometheus.Labels{reasonLabel: reason}).Inc()
}

// ObserveSaveDuration records the duration of a document write.
func (m *Metrics) ObserveSaveDuration(seconds float64) {
	if m == nil {
		return
	}
	m.saveDurationSeconds.Observe(seconds)
}

// AddSnapshotCreated records a written snapshot.
func (m *Metrics) AddSnapshotCreated(snapshotType string) {
	if m == nil {
		return
	}
	m.snapshotsCreatedTotal.With(prometheus.Labels{typeLabel: snapshotType}).Inc()
}

// AddSnapshotsPruned records snapshots deleted by the pruner.
func (m *Metrics) AddSnapshotsPruned(snapshotType string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.snapshotsPrunedTotal.With(prometheus.Labels{typeLabel: snapshotType}).Add(float64(count))
}

// AddBackgroundGoroutines adds the number of goroutines attached by
// background.
func (m *Metrics) AddBackgroundGoroutines(taskType string) {
	if m == nil {
		return
	}
	m.backgroundGoroutinesTotal.With(prometheus.Labels{taskTypeLabel: taskType}).Inc()
}

// RemoveBackgroundGoroutines removes the number of goroutines attached by
// background.
func (m *Metrics) RemoveBackgroundGoroutines(taskType string) {
	if m == nil {
		return
	}
	m.backgroundGoroutinesTotal.With(prometheus.Labels{taskTypeLabel: taskType}).Dec()
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
