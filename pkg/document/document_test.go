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

package document_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/ghostwriter/pkg/document"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words int
		chars int
	}{
		{"empty", "", 0, 0},
		{"blank", "  \n\t ", 0, 5},
		{"single word", "ghost", 1, 5},
		{"leading and trailing space", "  hello   world \n", 2, 17},
		{"multi byte runes", "héllo wörld", 2, 11},
		{"newlines", "one\ntwo\nthree", 3, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := document.ComputeStats(tt.text)
			assert.Equal(t, tt.words, stats.WordCount)
			assert.Equal(t, tt.chars, stats.CharCount)
		})
	}
}

func TestPreview(t *testing.T) {
	t.Run("empty preview test", func(t *testing.T) {
		assert.Equal(t, "(empty)", document.Preview(" \n\t"))
	})

	t.Run("whitespace collapse test", func(t *testing.T) {
		assert.Equal(t, "a b c", document.Preview("  a\n\n b\t\tc  "))
	})

	t.Run("limit test", func(t *testing.T) {
		long := strings.Repeat("é", document.PreviewLimit+10)
		preview := document.Preview(long)
		assert.Equal(t, document.PreviewLimit, len([]rune(preview)))
	})
}

func TestBuffer(t *testing.T) {
	buf := document.NewBuffer("a")
	assert.Equal(t, "a", buf.Text())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf.Append("b")
		}()
	}
	wg.Wait()
	assert.Equal(t, "a"+strings.Repeat("b", 10), buf.Text())

	buf.SetText("reset")
	assert.Equal(t, "reset", buf.Text())
}
