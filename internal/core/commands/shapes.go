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

package commands

// Textual JSON shapes injected into every prompt as {{.SHAPE_JSON}}. The model
// has no server-side schema enforcement, so the shape text in the prompt is
// the first line of defense; the response validator is the second.
const (
	visionShapeJSON = `{
  "whatHappens": "string, 1-2 literal sentences",
  "sceneType": "string, e.g. person, product, landscape, action, meme",
  "notableMoments": [{"t": <seconds as number>, "desc": "string"}],
  "vibe": "HYPE" | "CINEMATIC" | "DARK" | "COMEDY"
}`

	verdictShapeJSON = `{
  "title": "string",
  "editorsCall": "string, 1-3 imperative sentences",
  "bestHook": {"timestampSec": <number>, "reasoning": "string"},
  "vibe": "HYPE" | "CINEMATIC" | "DARK" | "COMEDY",
  "editStrategy": ["string", ...] (3-5 steps),
  "caption": "string",
  "hashtags": ["#string", ...] (at least 3),
  "avoid": "string, exactly one warning",
  "confidence": <number 0-100>
}`

	pointersShapeJSON = `{
  "summary": "string, one sentence",
  "pointers": [{
    "t": <seconds as number>,
    "title": "string",
    "instruction": "string",
    "category": "caption" | "transition" | "sfx" | "speed" | "zoom" | "color",
    "intensity": 1 | 2 | 3
  }] (6-10 items)
}`
)
