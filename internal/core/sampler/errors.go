// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sampler

import "fmt"

// LoadError means the source could not be opened or probed at all: missing
// file, unsupported container, or no usable duration.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("sampler: failed to load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SeekError means one timestamped capture did not complete. The source itself
// loaded, so callers may treat this as transient.
type SeekError struct {
	Timestamp float64
	Err       error
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("sampler: seek at %.2fs failed: %v", e.Timestamp, e.Err)
}

func (e *SeekError) Unwrap() error { return e.Err }

// EncodeError means a capture completed but did not yield a readable JPEG.
// It is surfaced distinctly because it points at the source encoding rather
// than at the tool invocation.
type EncodeError struct {
	Timestamp float64
	Reason    string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("sampler: frame at %.2fs not encodable: %s", e.Timestamp, e.Reason)
}
