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

	"github.com/yorkie-team/ghostwriter/pkg/document"
)

// DocumentID is the fixed id of the one and only document.
const DocumentID = "current"

// DocInfo is a structure representing the persisted document.
type DocInfo struct {
	// ID is the fixed id of the document. It is always DocumentID.
	ID string `json:"id"`

	// Text is the full text of the document.
	Text string `json:"text"`

	// UpdatedAt is the time of the last save in unix milliseconds.
	UpdatedAt int64 `json:"updatedAt"`

	// WordCount is the number of words of Text.
	WordCount int `json:"wordCount"`

	// CharCount is the number of characters of Text.
	CharCount int `json:"charCount"`
}

// NewDocInfo creates the document record for the given text saved at
// updatedAt.
func NewDocInfo(text string, updatedAt int64) *DocInfo {
	stats := document.ComputeStats(text)
	return &DocInfo{
		ID:        DocumentID,
		Text:      text,
		UpdatedAt: updatedAt,
		WordCount: stats.WordCount,
		CharCount: stats.CharCount,
	}
}

// Validate checks the record before it is written.
func (i *DocInfo) Validate() error {
	if i == nil || i.ID == "" {
		return fmt.Errorf("document id: %w", ErrInvalidKey)
	}
	return nil
}

// DeepCopy returns a deep copy of the DocInfo.
func (i *DocInfo) DeepCopy() *DocInfo {
	if i == nil {
		return nil
	}

	return &DocInfo{
		ID:        i.ID,
		Text:      i.Text,
		UpdatedAt: i.UpdatedAt,
		WordCount: i.WordCount,
		CharCount: i.CharCount,
	}
}
