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

// Package document provides the editable text buffer and the text statistics
// that are persisted alongside every document and snapshot.
package document

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// PreviewLimit is the maximum number of runes shown in a snapshot preview.
const PreviewLimit = 240

// Surface is the text-input surface the engine reads from and writes to. The
// engine never renders; it only pulls the current text when persisting and
// replaces it when loading or restoring.
type Surface interface {
	Text() string
	SetText(text string)
}

// Buffer is a Surface kept in memory. It is safe for concurrent use.
type Buffer struct {
	mu   sync.RWMutex
	text string
}

// NewBuffer creates a new Buffer holding the given text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// Text returns the current text.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// SetText replaces the current text.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

// Append appends the given text and returns the result.
func (b *Buffer) Append(text string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text += text
	return b.text
}

// Stats holds the counts stored with documents and snapshots.
type Stats struct {
	WordCount int
	CharCount int
}

// ComputeStats counts whitespace separated words and characters (runes) of
// the given text. Blank text has zero words.
func ComputeStats(text string) Stats {
	return Stats{
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}
}

// Preview returns a single-line preview of the text: runs of whitespace are
// collapsed, the result is trimmed and cut to PreviewLimit runes.
func Preview(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return "(empty)"
	}

	if utf8.RuneCountInString(cleaned) <= PreviewLimit {
		return cleaned
	}
	return string([]rune(cleaned)[:PreviewLimit])
}
