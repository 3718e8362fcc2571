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

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/ghostwriter/editor/backend/database/memory"
	"github.com/yorkie-team/ghostwriter/editor/backend/database/testcases"
)

func TestDB(t *testing.T) {
	db, err := memory.New()
	assert.NoError(t, err)

	t.Run("RunDocInfo test", func(t *testing.T) {
		testcases.RunDocInfoTest(t, db)
	})

	t.Run("RunSnapshotInfo test", func(t *testing.T) {
		testcases.RunSnapshotInfoTest(t, db)
	})

	t.Run("RunSettingInfo test", func(t *testing.T) {
		testcases.RunSettingInfoTest(t, db)
	})

	t.Run("RunClosed test", func(t *testing.T) {
		testcases.RunClosedTest(t, db)
	})
}
