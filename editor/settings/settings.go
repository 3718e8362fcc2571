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

// Package settings provides typed access to the settings collection.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yorkie-team/ghostwriter/editor/backend/database"
	"github.com/yorkie-team/ghostwriter/internal/validation"
	pkgerrors "github.com/yorkie-team/ghostwriter/pkg/errors"
)

// Below are the keys of the settings the editor knows about.
const (
	KeyFontSize             = "fontSize"
	KeyLineWidth            = "lineWidth"
	KeyFontFamily           = "fontFamily"
	KeyLastDailySnapshotDay = "lastDailySnapshotDay"
	KeyFileHandle           = "fileHandle"
)

// Below are the values used when a preference has never been set.
const (
	DefaultFontSize   = 18
	DefaultLineWidth  = 680
	DefaultFontFamily = "fraunces"
)

// ErrInvalidSettingKey is returned when a key is not a valid setting name.
var ErrInvalidSettingKey = pkgerrors.InvalidArgument("invalid setting key").WithCode("ErrInvalidSettingKey")

// Preferences are the display preferences of the editor.
type Preferences struct {
	FontSize   int    `json:"fontSize" yaml:"fontSize"`
	LineWidth  int    `json:"lineWidth" yaml:"lineWidth"`
	FontFamily string `json:"fontFamily" yaml:"fontFamily"`
}

// Store reads and writes settings.
type Store struct {
	db database.Database
}

// New creates a Store over the given database.
func New(db database.Database) *Store {
	return &Store{db: db}
}

// Get decodes the value of key into v. It reports false, leaving v
// untouched, when the key has never been set.
func (s *Store) Get(ctx context.Context, key string, v interface{}) (bool, error) {
	info, err := s.db.FindSettingInfo(ctx, key)
	if errors.Is(err, database.ErrSettingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get setting %s: %w", key, err)
	}

	if err := info.Decode(v); err != nil {
		return false, err
	}
	return true, nil
}

// Raw returns the JSON value of key.
func (s *Store) Raw(ctx context.Context, key string) (json.RawMessage, error) {
	info, err := s.db.FindSettingInfo(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get setting %s: %w", key, err)
	}
	return info.Value, nil
}

// Set stores v as the value of key.
func (s *Store) Set(ctx context.Context, key string, v interface{}) error {
	if err := validation.ValidateValue(key, "required,setting_key"); err != nil {
		return fmt.Errorf("%s: %w", key, ErrInvalidSettingKey)
	}

	info, err := database.NewSettingInfo(key, v)
	if err != nil {
		return err
	}
	if err := s.db.UpdateSettingInfo(ctx, info); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// SetRaw stores the given JSON text as the value of key.
func (s *Store) SetRaw(ctx context.Context, key string, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return fmt.Errorf("set setting %s: %w", key, database.ErrInvalidSettingValue)
	}
	return s.Set(ctx, key, raw)
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.DeleteSettingInfo(ctx, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// All returns every stored setting ordered by key.
func (s *Store) All(ctx context.Context) ([]*database.SettingInfo, error) {
	infos, err := s.db.FindSettingInfos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return infos, nil
}

// Preferences returns the display preferences, falling back to the default
// of every preference that has never been set.
func (s *Store) Preferences(ctx context.Context) (*Preferences, error) {
	prefs := &Preferences{
		FontSize:   DefaultFontSize,
		LineWidth:  DefaultLineWidth,
		FontFamily: DefaultFontFamily,
	}

	if _, err := s.Get(ctx, KeyFontSize, &prefs.FontSize); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, KeyLineWidth, &prefs.LineWidth); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, KeyFontFamily, &prefs.FontFamily); err != nil {
		return nil, err
	}

	return prefs, nil
}

// LastDailySnapshotDay returns the day of the last daily snapshot, or an
// empty string if none was ever taken.
func (s *Store) LastDailySnapshotDay(ctx context.Context) (string, error) {
	var day string
	if _, err := s.Get(ctx, KeyLastDailySnapshotDay, &day); err != nil {
		return "", err
	}
	return day, nil
}

// SetLastDailySnapshotDay stores the day of the last daily snapshot.
func (s *Store) SetLastDailySnapshotDay(ctx context.Context, day string) error {
	if err := validation.ValidateValue(day, "required,day"); err != nil {
		return fmt.Errorf("last daily snapshot day %q: %w", day, database.ErrInvalidSettingValue)
	}
	return s.Set(ctx, KeyLastDailySnapshotDay, day)
}

// FileHandle returns the path of the linked file, or an empty string.
func (s *Store) FileHandle(ctx context.Context) (string, error) {
	var path string
	if _, err := s.Get(ctx, KeyFileHandle, &path); err != nil {
		return "", err
	}
	return path, nil
}

// SetFileHandle stores the path of the linked file.
func (s *Store) SetFileHandle(ctx context.Context, path string) error {
	return s.Set(ctx, KeyFileHandle, path)
}
