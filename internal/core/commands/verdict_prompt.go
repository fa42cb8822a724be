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

// This file defines the bridge between the two passes of the verdict chain.
// The verdict prompt is text-only: the frames were already consumed by the
// vision pass, and this pass reasons over the observation it produced. The
// command reads the decoded observation from the chain's piped input and the
// original request from its well-known context key.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/cor"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
)

// VerdictPromptBuilder assembles the creative-verdict prompt from the vision
// observation and the original request.
type VerdictPromptBuilder struct {
	cor.BaseCommand
	config   *cloud.Config
	template *template.Template
}

// NewVerdictPromptBuilder parses the configured verdict prompt template and
// returns the command.
func NewVerdictPromptBuilder(name string, config *cloud.Config) *VerdictPromptBuilder {
	return &VerdictPromptBuilder{
		BaseCommand: *cor.NewBaseCommand(name),
		config:      config,
		template:    template.Must(template.New(name).Parse(config.PromptTemplates.VerdictPrompt)),
	}
}

// GenerateParams flattens the observation into template substitutions.
// Notable moments are re-encoded as JSON so the model sees the same structure
// it produced.
func (t *VerdictPromptBuilder) GenerateParams(
	request *model.VerdictRequest,
	vision *model.VisionObservation) map[string]interface{} {

	context := fmt.Sprintf("platform=%s", request.Platform)
	if request.Goal != "" {
		context += fmt.Sprintf(", goal=%s", request.Goal)
	}
	if request.DurationSec > 0 {
		context += fmt.Sprintf(", duration=%.1fs", request.DurationSec)
	}

	moments, _ := json.Marshal(vision.NotableMoments)
	return map[string]interface{}{
		"CONTEXT":         context,
		"WHAT_HAPPENS":    vision.WhatHappens,
		"SCENE_TYPE":      vision.SceneType,
		"NOTABLE_MOMENTS": string(moments),
		"VISION_VIBE":     vision.Vibe,
		"SHAPE_JSON":      verdictShapeJSON,
	}
}

// Execute renders the text-only verdict prompt.
func (t *VerdictPromptBuilder) Execute(context cor.Context) {
	vision := context.Get(t.GetInputParam()).(*model.VisionObservation)
	request := context.Get(CtxVerdictRequest).(*model.VerdictRequest)

	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, t.GenerateParams(request, vision)); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute verdict prompt template: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: strings.TrimSpace(buffer.String())}},
	}})
}
