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

// Package model defines the core data structures for the editorial pipelines.
// Every type here is transient: constructed once per request, handed through
// the workflow, returned to the caller and discarded. Nothing is persisted
// and nothing is shared between concurrent requests.
package model

// Vibe is the fixed creative-tone enumeration steering prompt tone and
// output style.
var Vibes = []string{"HYPE", "CINEMATIC", "DARK", "COMEDY"}

// Platforms are the supported publishing targets.
var Platforms = []string{"reels", "tiktok"}

// Goals are the optional creative goals for a verdict request.
var Goals = []string{"viral", "cinematic", "funny"}

// PointerCategories are the allowed edit-instruction categories.
var PointerCategories = []string{"caption", "transition", "sfx", "speed", "zoom", "color"}

// SampledFrame is a single frame extracted from a video: a timestamp in
// seconds and the JPEG bytes encoded as base64. Immutable once created.
type SampledFrame struct {
	T         float64 `json:"t"`
	JpgBase64 string  `json:"jpgBase64"`
}

// SampleSet is the ordered result of sampling one video. Frames are strictly
// increasing in T, all inside the trimmed window [0.05*D, 0.95*D].
type SampleSet struct {
	DurationSec float64         `json:"durationSec"`
	Frames      []*SampledFrame `json:"frames"`
}

// VerdictRequest is the input to the verdict flow. Frames are base64 JPEG
// strings (1..12, each at least 10 characters).
type VerdictRequest struct {
	Platform    string   `json:"platform"`
	Goal        string   `json:"goal,omitempty"`
	Filename    string   `json:"filename,omitempty"`
	DurationSec float64  `json:"durationSec,omitempty"`
	Frames      []string `json:"frames"`
}

// PointersRequest is the input to the pointers flow. Exactly one of Frames
// (non-empty) or VideoDescription must be present; the service rejects the
// request before the pipeline runs otherwise.
type PointersRequest struct {
	Platform         string          `json:"platform"`
	Vibe             string          `json:"vibe"`
	Brief            string          `json:"brief"`
	DurationSec      float64         `json:"durationSec"`
	Frames           []*SampledFrame `json:"frames,omitempty"`
	VideoDescription string          `json:"videoDescription,omitempty"`
}

// NotableMoment is one observed moment within the clip.
type NotableMoment struct {
	T    float64 `json:"t"`
	Desc string  `json:"desc"`
}

// VisionObservation is the output of the vision pass: a literal description
// of what the frames show. It is consumed only by the verdict pass.
type VisionObservation struct {
	WhatHappens    string           `json:"whatHappens"`
	SceneType      string           `json:"sceneType"`
	NotableMoments []*NotableMoment `json:"notableMoments"`
	Vibe           string           `json:"vibe"`
}

// BestHook names the single strongest opening moment of the clip.
type BestHook struct {
	TimestampSec float64 `json:"timestampSec"`
	Reasoning    string  `json:"reasoning"`
}

// Verdict is the terminal output of the verdict flow: the one authoritative
// creative recommendation for a clip.
type Verdict struct {
	Title        string   `json:"title"`
	EditorsCall  string   `json:"editorsCall"`
	BestHook     BestHook `json:"bestHook"`
	Vibe         string   `json:"vibe"`
	EditStrategy []string `json:"editStrategy"`
	Caption      string   `json:"caption"`
	Hashtags     []string `json:"hashtags"`
	Avoid        string   `json:"avoid"`
	Confidence   float64  `json:"confidence"`
}

// VerdictResult pairs the verdict with the vision observation it was grounded
// in. Fallback is the only observable marker that the pair is placeholder
// data rather than real model output.
type VerdictResult struct {
	Verdict  *Verdict           `json:"verdict"`
	Vision   *VisionObservation `json:"vision"`
	Fallback bool               `json:"fallback,omitempty"`
}

// Pointer is a single timestamped, categorized editing instruction.
type Pointer struct {
	T           float64 `json:"t"`
	Title       string  `json:"title"`
	Instruction string  `json:"instruction"`
	Category    string  `json:"category"`
	Intensity   int     `json:"intensity"`
}

// PointersResponse is the terminal output of the pointers flow: a summary and
// 6 to 10 pointers spread across the timeline.
type PointersResponse struct {
	Summary  string     `json:"summary"`
	Pointers []*Pointer `json:"pointers"`
}
