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

package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
	test "github.com/editorsverdict/editors-verdict/internal/testutil"
)

func verdictClients(vision, verdict cloud.ModelGateway) *cloud.ServiceClients {
	return &cloud.ServiceClients{Gateways: map[string]cloud.ModelGateway{
		cloud.AgentModelVision:  vision,
		cloud.AgentModelVerdict: verdict,
	}}
}

func pointersClients(pointers cloud.ModelGateway) *cloud.ServiceClients {
	return &cloud.ServiceClients{Gateways: map[string]cloud.ModelGateway{
		cloud.AgentModelPointers: pointers,
	}}
}

func validVerdictRequest(frameCount int) *model.VerdictRequest {
	frames := make([]string, frameCount)
	for i := range frames {
		frames[i] = test.GetTestFrame()
	}
	return &model.VerdictRequest{Platform: "reels", Goal: "viral", DurationSec: 30, Frames: frames}
}

func TestVerdictWorkflowSuccess(t *testing.T) {
	vision := &test.ScriptedGateway{Responses: []string{test.GetTestVisionResponseText()}}
	verdict := &test.ScriptedGateway{Responses: []string{test.GetTestVerdictResponseText()}}
	w := NewVerdictWorkflow(test.GetConfig(), verdictClients(vision, verdict))

	result := w.Run(context.Background(), validVerdictRequest(4))

	require.NotNil(t, result)
	assert.False(t, result.Fallback)
	assert.Equal(t, "Verdict #001", result.Verdict.Title)
	assert.Equal(t, "CINEMATIC", result.Vision.Vibe)
	assert.Equal(t, 1, vision.Calls)
	assert.Equal(t, 1, verdict.Calls)
}

func TestVerdictWorkflowCapsFrames(t *testing.T) {
	vision := &test.ScriptedGateway{Responses: []string{test.GetTestVisionResponseText()}}
	verdict := &test.ScriptedGateway{Responses: []string{test.GetTestVerdictResponseText()}}
	w := NewVerdictWorkflow(test.GetConfig(), verdictClients(vision, verdict))

	request := validVerdictRequest(12)
	w.Run(context.Background(), request)

	// 12 frames in the request, at most 10 forwarded: prompt text plus ten
	// inline images. The caller's request is left untouched.
	require.Len(t, vision.Received, 1)
	assert.Len(t, vision.Received[0][0].Parts, 11)
	assert.Len(t, request.Frames, 12)
}

func TestVerdictWorkflowFallsBackOnGarbageVision(t *testing.T) {
	vision := &test.ScriptedGateway{Responses: []string{"here is my creative take, no JSON though"}}
	verdict := &test.ScriptedGateway{Responses: []string{test.GetTestVerdictResponseText()}}
	w := NewVerdictWorkflow(test.GetConfig(), verdictClients(vision, verdict))

	result := w.Run(context.Background(), validVerdictRequest(2))

	require.NotNil(t, result)
	assert.True(t, result.Fallback)
	assert.Equal(t, 92.0, result.Verdict.Confidence)
	// The vision failure halts the chain before the second pass spends money.
	assert.Equal(t, 0, verdict.Calls)
}

func TestVerdictWorkflowFallsBackOnGatewayError(t *testing.T) {
	vision := &test.ScriptedGateway{Errs: []error{&cloud.GatewayError{Reason: "deadline exceeded"}}}
	verdict := &test.ScriptedGateway{}
	w := NewVerdictWorkflow(test.GetConfig(), verdictClients(vision, verdict))

	result := w.Run(context.Background(), validVerdictRequest(2))

	require.NotNil(t, result)
	assert.True(t, result.Fallback)
	assert.Equal(t, 0, verdict.Calls)
}

func TestPointersWorkflowSuccess(t *testing.T) {
	pointers := &test.ScriptedGateway{Responses: []string{test.GetTestPointersResponseText()}}
	w := NewPointersWorkflow(test.GetConfig(), pointersClients(pointers))

	response := w.Run(context.Background(), &model.PointersRequest{
		Platform:         "tiktok",
		Vibe:             "HYPE",
		Brief:            "Quick pass",
		DurationSec:      30,
		VideoDescription: "crowd energy",
	})

	require.NotNil(t, response)
	assert.Len(t, response.Pointers, 6)
	assert.Equal(t, 1, pointers.Calls)
}

func TestPointersWorkflowFallsBack(t *testing.T) {
	pointers := &test.ScriptedGateway{Errs: []error{&cloud.GatewayError{Reason: "connection refused"}}}
	w := NewPointersWorkflow(test.GetConfig(), pointersClients(pointers))

	response := w.Run(context.Background(), &model.PointersRequest{
		Platform:         "reels",
		Vibe:             "DARK",
		Brief:            "Moody teaser",
		DurationSec:      18,
		VideoDescription: "rain on glass",
	})

	require.NotNil(t, response)
	assert.True(t, strings.HasPrefix(response.Summary, "Lean into crowd energy"))
}
