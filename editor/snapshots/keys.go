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

package snapshots

import (
	"sync"
	"time"
)

// KeyGen hands out snapshot keys. Keys are unix milliseconds and strictly
// increasing, so two snapshots taken within the same millisecond never
// share a key.
type KeyGen struct {
	mu   sync.Mutex
	last int64
}

// Seed makes every following key greater than last.
func (g *KeyGen) Seed(last int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if last > g.last {
		g.last = last
	}
}

// Last returns the last key handed out, or 0.
func (g *KeyGen) Last() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Next returns the key for a snapshot taken at now.
func (g *KeyGen) Next(now time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := now.UnixMilli()
	if key <= g.last {
		key = g.last + 1
	}
	g.last = key
	return key
}
