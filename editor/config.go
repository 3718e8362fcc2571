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

package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/ghostwriter/editor/backend"
	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/editor/profiling"
	"github.com/yorkie-team/ghostwriter/editor/retention"
)

// Below are the values of the default values of Ghostwriter config.
const (
	DefaultSaveDebounce       = 1200 * time.Millisecond
	DefaultSnapshotInterval   = 30 * time.Second
	DefaultSnapshotIdle       = 6 * time.Second
	DefaultRollingSnapshotCap = retention.DefaultRollingCap
	DefaultDailySnapshotCap   = retention.DefaultDailyCap

	DefaultDatabaseType  = database.TypeSQLite
	DefaultProfilingPort = 8081

	DefaultShutdownTimeout = 10 * time.Second
)

// DefaultDataDir returns the directory that holds the database and the
// exported files, ~/.ghostwriter.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ghostwriter"
	}
	return filepath.Join(home, ".ghostwriter")
}

// Config is the configuration for creating an Editor instance.
type Config struct {
	Backend  *backend.Config  `yaml:"Backend"`
	Database *database.Config `yaml:"Database"`

	// Profiling is optional. The profiling server only runs when it is set.
	Profiling *profiling.Config `yaml:"Profiling"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		Backend: &backend.Config{
			SaveDebounce:       DefaultSaveDebounce.String(),
			SnapshotInterval:   DefaultSnapshotInterval.String(),
			SnapshotIdle:       DefaultSnapshotIdle.String(),
			RollingSnapshotCap: DefaultRollingSnapshotCap,
			DailySnapshotCap:   DefaultDailySnapshotCap,
			ExportDir:          filepath.Join(dataDir, "exports"),
		},
		Database: &database.Config{
			Type:    DefaultDatabaseType,
			DataDir: dataDir,
		},
	}
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.Backend.Validate(); err != nil {
		return err
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the user has not
// set a value.
func (c *Config) ensureDefaultValue() {
	defaults := NewConfig()

	if c.Backend == nil {
		c.Backend = defaults.Backend
	}
	if c.Backend.SaveDebounce == "" {
		c.Backend.SaveDebounce = defaults.Backend.SaveDebounce
	}
	if c.Backend.SnapshotInterval == "" {
		c.Backend.SnapshotInterval = defaults.Backend.SnapshotInterval
	}
	if c.Backend.SnapshotIdle == "" {
		c.Backend.SnapshotIdle = defaults.Backend.SnapshotIdle
	}
	if c.Backend.RollingSnapshotCap == 0 {
		c.Backend.RollingSnapshotCap = defaults.Backend.RollingSnapshotCap
	}
	if c.Backend.DailySnapshotCap == 0 {
		c.Backend.DailySnapshotCap = defaults.Backend.DailySnapshotCap
	}

	if c.Database == nil {
		c.Database = defaults.Database
	}
	if c.Database.Type == "" {
		c.Database.Type = defaults.Database.Type
	}
	if c.Database.DataDir == "" {
		c.Database.DataDir = defaults.Database.DataDir
	}

	if c.Backend.ExportDir == "" {
		c.Backend.ExportDir = filepath.Join(c.Database.DataDir, "exports")
	}

	if c.Profiling != nil && c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}
}
