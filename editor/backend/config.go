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

package backend

import (
	"fmt"
	"time"

	"github.com/yorkie-team/ghostwriter/internal/validation"
)

// Config is the configuration for creating a Backend instance.
type Config struct {
	// SaveDebounce is the quiet period after the last input before an
	// autosave runs. Default is "1200ms".
	SaveDebounce string `yaml:"SaveDebounce" validate:"required,duration"`

	// SnapshotInterval is the period of the snapshot loop while the user is
	// editing. Default is "30s".
	SnapshotInterval string `yaml:"SnapshotInterval" validate:"required,duration"`

	// SnapshotIdle is the quiet period after which a pending snapshot is
	// taken and the snapshot loop stops. Default is "6s".
	SnapshotIdle string `yaml:"SnapshotIdle" validate:"required,duration"`

	// RollingSnapshotCap is the number of rolling snapshots to keep.
	RollingSnapshotCap int `yaml:"RollingSnapshotCap" validate:"gt=0"`

	// DailySnapshotCap is the number of daily snapshots to keep.
	DailySnapshotCap int `yaml:"DailySnapshotCap" validate:"gt=0"`

	// ExportDir is the directory of fallback exports when the linked file
	// cannot be written.
	ExportDir string `yaml:"ExportDir"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("backend config: %w", err)
	}
	return nil
}

// ParseSaveDebounce returns the save debounce.
func (c *Config) ParseSaveDebounce() (time.Duration, error) {
	return parseDuration("save debounce", c.SaveDebounce)
}

// ParseSnapshotInterval returns the snapshot loop period.
func (c *Config) ParseSnapshotInterval() (time.Duration, error) {
	return parseDuration("snapshot interval", c.SnapshotInterval)
}

// ParseSnapshotIdle returns the snapshot idle period.
func (c *Config) ParseSnapshotIdle() (time.Duration, error) {
	return parseDuration("snapshot idle", c.SnapshotIdle)
}

func parseDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %s: %w", name, value, err)
	}
	return d, nil
}
