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

// Package commands provides the concrete pipeline commands for the editorial
// workflows. Each command does one step: build a prompt, invoke the model
// gateway, or decode a raw response into a validated struct. Commands
// communicate through the chain context; the keys below name the values that
// more than one command needs to see.
package commands

// Well-known context keys shared across commands in one chain execution.
const (
	// CtxVerdictRequest holds the *model.VerdictRequest for the whole verdict
	// chain; the verdict prompt builder reads it alongside the vision output.
	CtxVerdictRequest = "VERDICT_REQUEST"

	// CtxVisionObservation holds the decoded *model.VisionObservation so the
	// workflow can pair it with the final verdict.
	CtxVisionObservation = "VISION_OBSERVATION"
)
