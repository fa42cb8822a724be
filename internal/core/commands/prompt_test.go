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

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/cor"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
	test "github.com/editorsverdict/editors-verdict/internal/testutil"
)

func newPromptContext(input interface{}) cor.Context {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, input)
	return ctx
}

func promptOutput(t *testing.T, ctx cor.Context) []*genai.Content {
	t.Helper()
	require.False(t, ctx.HasErrors(), "prompt builder recorded errors: %v", ctx.GetErrors())
	contents, ok := ctx.Get(cor.CtxOut).([]*genai.Content)
	require.True(t, ok, "expected contents in the output slot")
	require.Len(t, contents, 1)
	return contents
}

func TestVisionPromptBuilder(t *testing.T) {
	config := cloud.NewConfig()
	builder := NewVisionPromptBuilder("build-vision-prompt", config)

	request := &model.VerdictRequest{
		Platform:    "reels",
		Goal:        "viral",
		DurationSec: 24,
		Frames:      []string{test.GetTestFrame(), test.GetTestFrame()},
	}
	ctx := newPromptContext(request)
	builder.Execute(ctx)

	parts := promptOutput(t, ctx)[0].Parts
	require.Len(t, parts, 3)
	assert.Contains(t, parts[0].Text, "platform=reels")
	assert.Contains(t, parts[0].Text, "goal=viral")
	assert.Contains(t, parts[0].Text, "whatHappens")
	for _, part := range parts[1:] {
		require.NotNil(t, part.InlineData)
		assert.Equal(t, "image/jpeg", part.InlineData.MIMEType)
		assert.NotEmpty(t, part.InlineData.Data)
	}
}

func TestVisionPromptBuilderRejectsBadFrame(t *testing.T) {
	builder := NewVisionPromptBuilder("build-vision-prompt", cloud.NewConfig())

	ctx := newPromptContext(&model.VerdictRequest{
		Platform: "reels",
		Frames:   []string{"!!!definitely-not-base64!!!"},
	})
	builder.Execute(ctx)

	assert.True(t, ctx.HasErrors())
}

func TestFrameToPartStripsDataURL(t *testing.T) {
	part, err := frameToPart("data:image/jpeg;base64," + test.GetTestFrame())
	require.NoError(t, err)
	require.NotNil(t, part.InlineData)
	assert.Equal(t, byte(0xFF), part.InlineData.Data[0])
	assert.Equal(t, byte(0xD8), part.InlineData.Data[1])
}

func TestVerdictPromptBuilder(t *testing.T) {
	builder := NewVerdictPromptBuilder("build-verdict-prompt", cloud.NewConfig())

	vision := model.GetMockVisionObservation()
	ctx := newPromptContext(vision)
	ctx.Add(CtxVerdictRequest, &model.VerdictRequest{Platform: "tiktok", DurationSec: 15})
	builder.Execute(ctx)

	parts := promptOutput(t, ctx)[0].Parts
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0].Text, "platform=tiktok")
	assert.Contains(t, parts[0].Text, vision.WhatHappens)
	assert.Contains(t, parts[0].Text, "editorsCall")
}

func TestPointersPromptBuilderWithDescription(t *testing.T) {
	config := cloud.NewConfig()
	builder := NewPointersPromptBuilder("build-pointers-prompt", config)

	ctx := newPromptContext(&model.PointersRequest{
		Platform:         "reels",
		Vibe:             "HYPE",
		Brief:            "Make it pop",
		DurationSec:      30,
		VideoDescription: "crowd jumping at a drop",
	})
	builder.Execute(ctx)

	parts := promptOutput(t, ctx)[0].Parts
	require.Len(t, parts, 1)
	text := parts[0].Text
	assert.Contains(t, text, "crowd jumping at a drop")
	assert.Contains(t, text, config.Vibes["HYPE"].Definition)
	assert.False(t, strings.Contains(text, "{{"))
}

func TestPointersPromptBuilderWithFrames(t *testing.T) {
	builder := NewPointersPromptBuilder("build-pointers-prompt", cloud.NewConfig())

	ctx := newPromptContext(&model.PointersRequest{
		Platform:    "tiktok",
		Vibe:        "DARK",
		Brief:       "Moody teaser",
		DurationSec: 12,
		Frames: []*model.SampledFrame{
			{T: 2, JpgBase64: test.GetTestFrame()},
			{T: 6, JpgBase64: test.GetTestFrame()},
		},
	})
	builder.Execute(ctx)

	parts := promptOutput(t, ctx)[0].Parts
	require.Len(t, parts, 3)
	assert.NotContains(t, parts[0].Text, "Video description")
	assert.NotNil(t, parts[1].InlineData)
}
