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

package errors

import "fmt"

// StatusCode classifies failures of the persistence engine. The values follow
// the gRPC code numbering so that they stay stable when printed or logged.
type StatusCode int

const (
	// ErrCodeInvalidArgument indicates that the caller passed a malformed
	// record, key or option.
	ErrCodeInvalidArgument StatusCode = 3

	// ErrCodeNotFound indicates that the requested record does not exist.
	ErrCodeNotFound StatusCode = 5

	// ErrCodePermissionDenied indicates that the operating system refused
	// access, e.g. to a linked export file.
	ErrCodePermissionDenied StatusCode = 7

	// ErrCodeResourceExhausted indicates that the store ran out of space.
	ErrCodeResourceExhausted StatusCode = 8

	// ErrCodeFailedPrecondition indicates that the engine is not in a state
	// required for the operation, e.g. it has already been shut down.
	ErrCodeFailedPrecondition StatusCode = 9

	// ErrCodeCanceled indicates that the user cancelled the operation.
	ErrCodeCanceled StatusCode = 1

	// ErrCodeInternal indicates a broken invariant of the engine.
	ErrCodeInternal StatusCode = 13

	// ErrCodeUnavailable indicates that the store cannot be reached or is
	// closed.
	ErrCodeUnavailable StatusCode = 14
)

// String returns the string representation of the status code.
func (c StatusCode) String() string {
	switch c {
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodePermissionDenied:
		return "permission_denied"
	case ErrCodeResourceExhausted:
		return "resource_exhausted"
	case ErrCodeFailedPrecondition:
		return "failed_precondition"
	case ErrCodeInternal:
		return "internal"
	case ErrCodeUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// IsStoreFailure returns true if the code describes a failure of the
// underlying store rather than a problem with the request.
func (c StatusCode) IsStoreFailure() bool {
	switch c {
	case ErrCodeResourceExhausted, ErrCodeInternal, ErrCodeUnavailable:
		return true
	default:
		return false
	}
}
