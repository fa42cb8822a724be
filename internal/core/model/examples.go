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

// Package model defines the data structures for the editorial pipelines. This
// file provides the fixed fallback objects. They serve two roles: they are
// the deterministic substitute whenever the model is unavailable or returns
// unusable output, and because each one is exactly schema-shaped they double
// as few-shot material when a prompt needs a concrete example.
//
// Each factory returns a fresh instance so a caller can never mutate the data
// another request sees.
package model

// GetMockVisionObservation returns the fixed vision-pass fallback.
func GetMockVisionObservation() *VisionObservation {
	return &VisionObservation{
		WhatHappens: "Dark alley with smoke, a figure turns toward flashing siren lights. Camera pushes in fast.",
		SceneType:   "person",
		NotableMoments: []*NotableMoment{
			{T: 3, Desc: "Lights flash red/blue across the subject."},
			{T: 7, Desc: "Silhouette faces camera with smoke behind."},
		},
		Vibe: "CINEMATIC",
	}
}

// GetMockVerdict returns the fixed verdict-pass fallback.
func GetMockVerdict() *Verdict {
	return &Verdict{
		Title:       "Verdict #001",
		EditorsCall: "Hit hard at second 3, freeze on the scream, drop title in acid green.",
		BestHook: BestHook{
			TimestampSec: 7,
			Reasoning:    "Sirens + smoke silhouette is the grabber. Land before the beat drops.",
		},
		Vibe: "CINEMATIC",
		EditStrategy: []string{
			"Open cold with ambient sound, then slam the beat at 0:03.",
			"Use rapid push-in on the protagonist with chromatic split.",
			"Flash the caption on freeze-frame; cut to black on impact.",
			"Add sub-bass riser and ash particles overlay.",
		},
		Caption:    "This city chews up editors. The AI spits verdicts. #EditorsVerdict",
		Hashtags:   []string{"#EditorsVerdict", "#Cinematic", "#AIEdit"},
		Avoid:      "Do not crossfade into silence—cut hard to black at 0:15.",
		Confidence: 92,
	}
}

// GetMockVerdictResult returns the combined fallback pair for the verdict
// flow with the fallback flag set.
func GetMockVerdictResult() *VerdictResult {
	return &VerdictResult{
		Verdict:  GetMockVerdict(),
		Vision:   GetMockVisionObservation(),
		Fallback: true,
	}
}

// GetMockPointersResponse returns the fixed pointers-flow fallback. Unlike
// the verdict flow there is no fallback flag on this shape; callers cannot
// distinguish it from a real response.
func GetMockPointersResponse() *PointersResponse {
	return &PointersResponse{
		Summary: "Lean into crowd energy, punchy cuts, and meme captions to hype the clip.",
		Pointers: []*Pointer{
			{
				T:           2,
				Title:       "Open on impact",
				Instruction: "Start with the loudest reaction shot; add a meme caption top bar.",
				Category:    "caption",
				Intensity:   2,
			},
			{
				T:           6,
				Title:       "Bass drop zoom",
				Instruction: "Micro-zoom on the main subject as the beat lands.",
				Category:    "zoom",
				Intensity:   3,
			},
			{
				T:           9,
				Title:       "Speed pop",
				Instruction: "Ramp speed x1.6 for 0.7s, then snap back to normal.",
				Category:    "speed",
				Intensity:   2,
			},
			{
				T:           13,
				Title:       "SFX hit",
				Instruction: "Layer a whoosh into a metallic hit on the transition.",
				Category:    "sfx",
				Intensity:   2,
			},
			{
				T:           16,
				Title:       "Caption punch",
				Instruction: "Add a two-word meme caption synced to the reaction.",
				Category:    "caption",
				Intensity:   1,
			},
			{
				T:           20,
				Title:       "Outro call",
				Instruction: "Fade to a CTA card with a quick stinger sfx.",
				Category:    "transition",
				Intensity:   1,
			},
		},
	}
}
