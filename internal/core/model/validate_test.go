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

package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func validationKind(t *testing.T, err error) ValidationErrorKind {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected a ValidationError, got %v", err)
	return vErr.Kind
}

func TestDecodeVisionObservationRoundTrip(t *testing.T) {
	raw := mustJSON(t, GetMockVisionObservation())

	vision, err := DecodeVisionObservation(raw)
	require.NoError(t, err)
	assert.Equal(t, "CINEMATIC", vision.Vibe)
	assert.Len(t, vision.NotableMoments, 2)
	assert.Equal(t, 3.0, vision.NotableMoments[0].T)
}

func TestDecodeVisionObservationFailures(t *testing.T) {
	_, err := DecodeVisionObservation("the model felt chatty today")
	assert.Equal(t, KindParse, validationKind(t, err))

	// Well-formed JSON with a missing required field is a schema failure.
	_, err = DecodeVisionObservation(`{"whatHappens":"x","sceneType":"person","vibe":"HYPE"}`)
	assert.Equal(t, KindSchema, validationKind(t, err))

	_, err = DecodeVisionObservation(`{"whatHappens":"x","sceneType":"person","notableMoments":[],"vibe":"MELLOW"}`)
	assert.Equal(t, KindSchema, validationKind(t, err))
}

func TestDecodeVerdictRoundTrip(t *testing.T) {
	raw := mustJSON(t, GetMockVerdict())

	verdict, err := DecodeVerdict(raw)
	require.NoError(t, err)
	assert.Equal(t, 92.0, verdict.Confidence)
	assert.Equal(t, 7.0, verdict.BestHook.TimestampSec)
	assert.Len(t, verdict.EditStrategy, 4)
}

func TestDecodeVerdictFailures(t *testing.T) {
	base := GetMockVerdict()

	short := *base
	short.EditStrategy = []string{"one", "two"}
	_, err := DecodeVerdict(mustJSON(t, &short))
	assert.Equal(t, KindSchema, validationKind(t, err))

	overconfident := *base
	overconfident.Confidence = 120
	_, err = DecodeVerdict(mustJSON(t, &overconfident))
	assert.Equal(t, KindSchema, validationKind(t, err))

	tagless := *base
	tagless.Hashtags = []string{"#one", "#two"}
	_, err = DecodeVerdict(mustJSON(t, &tagless))
	assert.Equal(t, KindSchema, validationKind(t, err))

	_, err = DecodeVerdict("```json not even close ```")
	assert.Equal(t, KindParse, validationKind(t, err))
}

func TestDecodePointersResponseRoundTrip(t *testing.T) {
	raw := mustJSON(t, GetMockPointersResponse())

	pointers, err := DecodePointersResponse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pointers.Summary, "Lean into crowd energy"))
	assert.Len(t, pointers.Pointers, 6)
	assert.Equal(t, "caption", pointers.Pointers[0].Category)
}

func TestDecodePointersResponseFailures(t *testing.T) {
	base := GetMockPointersResponse()

	sparse := *base
	sparse.Pointers = base.Pointers[:3]
	_, err := DecodePointersResponse(mustJSON(t, &sparse))
	assert.Equal(t, KindSchema, validationKind(t, err))

	badCategory := mustJSON(t, base)
	badCategory = strings.Replace(badCategory, `"category":"caption"`, `"category":"jumpcut"`, 1)
	_, err = DecodePointersResponse(badCategory)
	assert.Equal(t, KindSchema, validationKind(t, err))

	badIntensity := mustJSON(t, base)
	badIntensity = strings.Replace(badIntensity, `"intensity":3`, `"intensity":9`, 1)
	_, err = DecodePointersResponse(badIntensity)
	assert.Equal(t, KindSchema, validationKind(t, err))
}

func TestVerdictRequestValidate(t *testing.T) {
	frame := strings.Repeat("a", 16)

	valid := &VerdictRequest{Platform: "reels", Goal: "viral", Frames: []string{frame}}
	assert.NoError(t, valid.Validate())

	noGoal := &VerdictRequest{Platform: "tiktok", Frames: []string{frame}}
	assert.NoError(t, noGoal.Validate())

	assert.Error(t, (&VerdictRequest{Platform: "youtube", Frames: []string{frame}}).Validate())
	assert.Error(t, (&VerdictRequest{Platform: "reels", Goal: "boring", Frames: []string{frame}}).Validate())
	assert.Error(t, (&VerdictRequest{Platform: "reels", Frames: []string{}}).Validate())
	assert.Error(t, (&VerdictRequest{Platform: "reels", Frames: []string{"short"}}).Validate())

	tooMany := make([]string, 13)
	for i := range tooMany {
		tooMany[i] = frame
	}
	assert.Error(t, (&VerdictRequest{Platform: "reels", Frames: tooMany}).Validate())
}

func TestPointersRequestValidate(t *testing.T) {
	valid := &PointersRequest{
		Platform:         "reels",
		Vibe:             "HYPE",
		Brief:            "Quick pass",
		DurationSec:      30,
		VideoDescription: "crowd energy",
	}
	assert.NoError(t, valid.Validate())

	noContext := *valid
	noContext.VideoDescription = ""
	err := noContext.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoVisualContext))
	assert.Equal(t, "Provide frames or a videoDescription for context.", err.Error())

	withFrames := noContext
	withFrames.Frames = []*SampledFrame{{T: 1, JpgBase64: strings.Repeat("b", 16)}}
	assert.NoError(t, withFrames.Validate())

	badVibe := *valid
	badVibe.Vibe = "MELLOW"
	assert.Error(t, badVibe.Validate())

	shortBrief := *valid
	shortBrief.Brief = "ok"
	assert.Error(t, shortBrief.Validate())

	noDuration := *valid
	noDuration.DurationSec = 0
	assert.Error(t, noDuration.Validate())
}

func TestMockObjectsSatisfySchemas(t *testing.T) {
	// The fallbacks double as few-shot examples; they must always validate.
	_, err := DecodeVisionObservation(mustJSON(t, GetMockVisionObservation()))
	assert.NoError(t, err)
	_, err = DecodeVerdict(mustJSON(t, GetMockVerdict()))
	assert.NoError(t, err)
	_, err = DecodePointersResponse(mustJSON(t, GetMockPointersResponse()))
	assert.NoError(t, err)

	result := GetMockVerdictResult()
	assert.True(t, result.Fallback)
	assert.Equal(t, 92.0, result.Verdict.Confidence)
}
