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
)

const (
	// TypeMemory keeps everything in memory. It is used for tests and
	// throwaway sessions.
	TypeMemory = "memory"

	// TypeSQLite persists to a SQLite file in DataDir.
	TypeSQLite = "sqlite"
)

// Config is the configuration for opening a Database.
type Config struct {
	// Type is the backend type, "memory" or "sqlite".
	Type string `yaml:"Type" validate:"required,oneof=memory sqlite"`

	// DataDir is the directory that holds the SQLite file.
	DataDir string `yaml:"DataDir"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	switch c.Type {
	case TypeMemory:
		return nil
	case TypeSQLite:
		if c.DataDir == "" {
			return fmt.Errorf(`"--data-dir" is required for database type %q`, c.Type)
		}
		return nil
	default:
		return fmt.Errorf(`invalid argument %q for "--database" flag`, c.Type)
	}
}
