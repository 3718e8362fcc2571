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

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	t.Run("ValidateValue test", func(t *testing.T) {
		assert.NoError(t, ValidateValue("1200ms", "required,duration"))
		assert.NoError(t, ValidateValue("30s", "required,duration"))

		err := ValidateValue("one hour", "required,duration")
		assert.Equal(t, "duration", err.(Violation).Tag)

		err = ValidateValue("-5s", "required,duration")
		assert.Equal(t, "duration", err.(Violation).Tag)

		assert.NoError(t, ValidateValue("fontSize", "required,setting_key"))
		err = ValidateValue("Font Size", "required,setting_key")
		assert.Equal(t, "setting_key", err.(Violation).Tag)

		assert.NoError(t, ValidateValue("2026-10-19", "day"))
		err = ValidateValue("19/10/2026", "day")
		assert.Equal(t, "day", err.(Violation).Tag)
	})

	t.Run("ValidateStruct test", func(t *testing.T) {
		type Retention struct {
			RollingCap int    `validate:"gt=0"`
			Interval   string `validate:"required,duration"`
		}

		err := ValidateStruct(Retention{RollingCap: 0, Interval: "soon"})
		structError := &StructError{}
		assert.True(t, errors.As(err, &structError))
		assert.Len(t, structError.Violations, 2)
		assert.Equal(t, "RollingCap", structError.Violations[0].Field)
		assert.Contains(t, err.Error(), "Interval must be a positive time duration")

		assert.NoError(t, ValidateStruct(Retention{RollingCap: 200, Interval: "30s"}))
	})

	t.Run("custom rule test", func(t *testing.T) {
		_ = RegisterValidation("custom", func(v FieldLevel) bool {
			return v.Field().String() == "custom"
		})
		_ = RegisterTranslation("custom", "{0} must be custom")

		assert.Error(t, ValidateValue("custom-invalid-value", "required,custom"))
		assert.NoError(t, ValidateValue("custom", "required,custom"))
	})
}
