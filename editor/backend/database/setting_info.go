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
	"encoding/json"
	"fmt"
)

// SettingInfo is a structure representing a single setting. The value is kept
// as JSON so that any serializable value can be stored.
type SettingInfo struct {
	// Key is the unique name of the setting.
	Key string `json:"key"`

	// Value is the JSON encoded value of the setting.
	Value json.RawMessage `json:"value"`
}

// NewSettingInfo encodes the given value into a setting record.
func NewSettingInfo(key string, value interface{}) (*SettingInfo, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal setting %s: %w", key, err)
	}

	return &SettingInfo{Key: key, Value: raw}, nil
}

// Decode decodes the value of the setting into v.
func (i *SettingInfo) Decode(v interface{}) error {
	if err := json.Unmarshal(i.Value, v); err != nil {
		return fmt.Errorf("unmarshal setting %s: %w", i.Key, err)
	}
	return nil
}

// Validate checks the record before it is written.
func (i *SettingInfo) Validate() error {
	if i == nil || i.Key == "" {
		return fmt.Errorf("setting key: %w", ErrInvalidKey)
	}
	if !json.Valid(i.Value) {
		return fmt.Errorf("setting %s: %w", i.Key, ErrInvalidSettingValue)
	}
	return nil
}

// DeepCopy returns a deep copy of the SettingInfo.
func (i *SettingInfo) DeepCopy() *SettingInfo {
	if i == nil {
		return nil
	}

	value := make(json.RawMessage, len(i.Value))
	copy(value, i.Value)
	return &SettingInfo{
		Key:   i.Key,
		Value: value,
	}
}
