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

// Strict validation for everything that crosses the system boundary: the two
// request shapes coming in, and the three model-response shapes coming back.
//
// Model responses are validated in two steps. Step one is a structural parse
// of the raw text (failure -> ValidationError with KindParse). Step two is an
// explicit set of checks over a "wire" struct whose fields are pointers, so a
// missing required field is distinguishable from a zero value (failure ->
// KindSchema, naming the field). There is no partial acceptance and no
// coercion: a response missing one required pointer field is rejected
// wholesale, never patched.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ValidationErrorKind distinguishes a failure to parse the model output from
// a parsed value that does not match the target schema.
type ValidationErrorKind string

const (
	KindParse  ValidationErrorKind = "parse"
	KindSchema ValidationErrorKind = "schema"
)

// ValidationError reports why a model response was rejected. It is absorbed
// by the workflows' fallback policy and never crosses the HTTP boundary.
type ValidationError struct {
	Kind   ValidationErrorKind
	Field  string // The offending field for schema failures, empty for parse failures.
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Kind == KindParse {
		return fmt.Sprintf("validation (parse): %s", e.Reason)
	}
	return fmt.Sprintf("validation (schema): field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func parseError(reason string, err error) *ValidationError {
	return &ValidationError{Kind: KindParse, Reason: reason, Err: err}
}

func schemaError(field, reason string) *ValidationError {
	return &ValidationError{Kind: KindSchema, Field: field, Reason: reason}
}

// ErrNoVisualContext rejects a pointers request carrying neither frames nor a
// video description. It gets its own distinct client-facing message.
var ErrNoVisualContext = errors.New("Provide frames or a videoDescription for context.")

func inSet(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// --- request validation -----------------------------------------------------

// Validate checks the verdict request preconditions: a known platform, an
// optionally known goal, and 1 to 12 frame strings of plausible length.
func (r *VerdictRequest) Validate() error {
	if !inSet(r.Platform, Platforms) {
		return schemaError("platform", "must be one of reels, tiktok")
	}
	if r.Goal != "" && !inSet(r.Goal, Goals) {
		return schemaError("goal", "must be one of viral, cinematic, funny")
	}
	if r.DurationSec < 0 {
		return schemaError("durationSec", "must be positive")
	}
	if len(r.Frames) < 1 || len(r.Frames) > 12 {
		return schemaError("frames", "must contain 1 to 12 frames")
	}
	for i, f := range r.Frames {
		if len(f) < 10 {
			return schemaError(fmt.Sprintf("frames[%d]", i), "encoded frame is too short")
		}
	}
	return nil
}

// Validate checks the pointers request preconditions, including the rule that
// exactly one visual-context source must be present.
func (r *PointersRequest) Validate() error {
	if !inSet(r.Platform, Platforms) {
		return schemaError("platform", "must be one of reels, tiktok")
	}
	if !inSet(r.Vibe, Vibes) {
		return schemaError("vibe", "must be one of HYPE, CINEMATIC, COMEDY, DARK")
	}
	if len(r.Brief) < 4 {
		return schemaError("brief", "must be at least 4 characters")
	}
	if r.DurationSec <= 0 {
		return schemaError("durationSec", "must be positive")
	}
	if len(r.Frames) > 12 {
		return schemaError("frames", "must contain at most 12 frames")
	}
	for i, f := range r.Frames {
		if f == nil || len(f.JpgBase64) < 10 {
			return schemaError(fmt.Sprintf("frames[%d].jpgBase64", i), "encoded frame is too short")
		}
	}
	if len(r.Frames) == 0 && r.VideoDescription == "" {
		return ErrNoVisualContext
	}
	return nil
}

// --- model response decoding ------------------------------------------------

// Wire shapes use pointer fields so that "field missing" and "field zero" can
// be told apart after json.Unmarshal.

type momentWire struct {
	T    *float64 `json:"t"`
	Desc *string  `json:"desc"`
}

type visionWire struct {
	WhatHappens    *string       `json:"whatHappens"`
	SceneType      *string       `json:"sceneType"`
	NotableMoments *[]momentWire `json:"notableMoments"`
	Vibe           *string       `json:"vibe"`
}

// DecodeVisionObservation parses and validates a raw vision-pass response.
func DecodeVisionObservation(raw string) (*VisionObservation, error) {
	var wire visionWire
	if err := unmarshalStrict(raw, &wire); err != nil {
		return nil, err
	}
	if wire.WhatHappens == nil {
		return nil, schemaError("whatHappens", "required")
	}
	if wire.SceneType == nil {
		return nil, schemaError("sceneType", "required")
	}
	if wire.NotableMoments == nil {
		return nil, schemaError("notableMoments", "required")
	}
	if len(*wire.NotableMoments) > 5 {
		return nil, schemaError("notableMoments", "must contain at most 5 moments")
	}
	if wire.Vibe == nil || !inSet(*wire.Vibe, Vibes) {
		return nil, schemaError("vibe", "must be one of HYPE, CINEMATIC, DARK, COMEDY")
	}

	out := &VisionObservation{
		WhatHappens:    *wire.WhatHappens,
		SceneType:      *wire.SceneType,
		NotableMoments: make([]*NotableMoment, 0, len(*wire.NotableMoments)),
		Vibe:           *wire.Vibe,
	}
	for i, m := range *wire.NotableMoments {
		if m.T == nil {
			return nil, schemaError(fmt.Sprintf("notableMoments[%d].t", i), "required")
		}
		if m.Desc == nil {
			return nil, schemaError(fmt.Sprintf("notableMoments[%d].desc", i), "required")
		}
		out.NotableMoments = append(out.NotableMoments, &NotableMoment{T: *m.T, Desc: *m.Desc})
	}
	return out, nil
}

type bestHookWire struct {
	TimestampSec *float64 `json:"timestampSec"`
	Reasoning    *string  `json:"reasoning"`
}

type verdictWire struct {
	Title        *string       `json:"title"`
	EditorsCall  *string       `json:"editorsCall"`
	BestHook     *bestHookWire `json:"bestHook"`
	Vibe         *string       `json:"vibe"`
	EditStrategy []string      `json:"editStrategy"`
	Caption      *string       `json:"caption"`
	Hashtags     []string      `json:"hashtags"`
	Avoid        *string       `json:"avoid"`
	Confidence   *float64      `json:"confidence"`
}

// DecodeVerdict parses and validates a raw verdict-pass response.
func DecodeVerdict(raw string) (*Verdict, error) {
	var wire verdictWire
	if err := unmarshalStrict(raw, &wire); err != nil {
		return nil, err
	}
	if wire.Title == nil {
		return nil, schemaError("title", "required")
	}
	if wire.EditorsCall == nil {
		return nil, schemaError("editorsCall", "required")
	}
	if wire.BestHook == nil || wire.BestHook.TimestampSec == nil || wire.BestHook.Reasoning == nil {
		return nil, schemaError("bestHook", "required with timestampSec and reasoning")
	}
	if wire.Vibe == nil || !inSet(*wire.Vibe, Vibes) {
		return nil, schemaError("vibe", "must be one of HYPE, CINEMATIC, DARK, COMEDY")
	}
	if len(wire.EditStrategy) < 3 || len(wire.EditStrategy) > 5 {
		return nil, schemaError("editStrategy", "must contain 3 to 5 steps")
	}
	if wire.Caption == nil {
		return nil, schemaError("caption", "required")
	}
	if len(wire.Hashtags) < 3 {
		return nil, schemaError("hashtags", "must contain at least 3 entries")
	}
	if wire.Avoid == nil {
		return nil, schemaError("avoid", "required")
	}
	if wire.Confidence == nil || *wire.Confidence < 0 || *wire.Confidence > 100 {
		return nil, schemaError("confidence", "must be a number in [0,100]")
	}

	return &Verdict{
		Title:       *wire.Title,
		EditorsCall: *wire.EditorsCall,
		BestHook: BestHook{
			TimestampSec: *wire.BestHook.TimestampSec,
			Reasoning:    *wire.BestHook.Reasoning,
		},
		Vibe:         *wire.Vibe,
		EditStrategy: wire.EditStrategy,
		Caption:      *wire.Caption,
		Hashtags:     wire.Hashtags,
		Avoid:        *wire.Avoid,
		Confidence:   *wire.Confidence,
	}, nil
}

type pointerWire struct {
	T           *float64 `json:"t"`
	Title       *string  `json:"title"`
	Instruction *string  `json:"instruction"`
	Category    *string  `json:"category"`
	Intensity   *float64 `json:"intensity"`
}

type pointersWire struct {
	Summary  *string       `json:"summary"`
	Pointers []pointerWire `json:"pointers"`
}

// DecodePointersResponse parses and validates a raw pointers-pass response.
func DecodePointersResponse(raw string) (*PointersResponse, error) {
	var wire pointersWire
	if err := unmarshalStrict(raw, &wire); err != nil {
		return nil, err
	}
	if wire.Summary == nil {
		return nil, schemaError("summary", "required")
	}
	if len(wire.Pointers) < 6 || len(wire.Pointers) > 10 {
		return nil, schemaError("pointers", "must contain 6 to 10 pointers")
	}

	out := &PointersResponse{
		Summary:  *wire.Summary,
		Pointers: make([]*Pointer, 0, len(wire.Pointers)),
	}
	for i, p := range wire.Pointers {
		if p.T == nil {
			return nil, schemaError(fmt.Sprintf("pointers[%d].t", i), "required")
		}
		if p.Title == nil {
			return nil, schemaError(fmt.Sprintf("pointers[%d].title", i), "required")
		}
		if p.Instruction == nil {
			return nil, schemaError(fmt.Sprintf("pointers[%d].instruction", i), "required")
		}
		if p.Category == nil || !inSet(*p.Category, PointerCategories) {
			return nil, schemaError(fmt.Sprintf("pointers[%d].category", i), "must be one of caption, transition, sfx, speed, zoom, color")
		}
		if p.Intensity == nil || (*p.Intensity != 1 && *p.Intensity != 2 && *p.Intensity != 3) {
			return nil, schemaError(fmt.Sprintf("pointers[%d].intensity", i), "must be 1, 2 or 3")
		}
		out.Pointers = append(out.Pointers, &Pointer{
			T:           *p.T,
			Title:       *p.Title,
			Instruction: *p.Instruction,
			Category:    *p.Category,
			Intensity:   int(*p.Intensity),
		})
	}
	return out, nil
}

// unmarshalStrict classifies failures: text that is not well-formed JSON is a
// parse failure; well-formed JSON of the wrong shape is a schema failure.
func unmarshalStrict(raw string, target interface{}) error {
	data := []byte(raw)
	if !json.Valid(data) {
		return parseError("response is not valid JSON", nil)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return &ValidationError{Kind: KindSchema, Field: "", Reason: "response shape mismatch", Err: err}
	}
	return nil
}
