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

// This file defines the single prompt-building command of the pointers chain.
// The pointers flow is one pass: the request's brief, vibe and visual context
// (frames when present, otherwise the textual video description) all go into
// one prompt.
package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/cor"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
)

// PointersPromptBuilder assembles the timeline-pointers prompt from a
// pointers request.
type PointersPromptBuilder struct {
	cor.BaseCommand
	config   *cloud.Config
	template *template.Template
}

// NewPointersPromptBuilder parses the configured pointers prompt template and
// returns the command.
func NewPointersPromptBuilder(name string, config *cloud.Config) *PointersPromptBuilder {
	return &PointersPromptBuilder{
		BaseCommand: *cor.NewBaseCommand(name),
		config:      config,
		template:    template.Must(template.New(name).Parse(config.PromptTemplates.PointersPrompt)),
	}
}

// GenerateParams builds the template substitutions. The vibe definition comes
// from configuration so operators can tune tone without a rebuild.
func (t *PointersPromptBuilder) GenerateParams(request *model.PointersRequest) map[string]interface{} {
	definition := request.Vibe
	if vibe, ok := t.config.Vibes[request.Vibe]; ok {
		definition = vibe.Definition
	}
	return map[string]interface{}{
		"PLATFORM":          request.Platform,
		"VIBE":              request.Vibe,
		"VIBE_DEFINITION":   definition,
		"BRIEF":             request.Brief,
		"DURATION":          fmt.Sprintf("%.1f", request.DurationSec),
		"HAS_FRAMES":        len(request.Frames) > 0,
		"VIDEO_DESCRIPTION": request.VideoDescription,
		"SHAPE_JSON":        pointersShapeJSON,
	}
}

// Execute renders the prompt and attaches any frames as inline images.
func (t *PointersPromptBuilder) Execute(context cor.Context) {
	request := context.Get(t.GetInputParam()).(*model.PointersRequest)

	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, t.GenerateParams(request)); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute pointers prompt template: %w", err))
		return
	}

	parts := make([]*genai.Part, 0, len(request.Frames)+1)
	parts = append(parts, &genai.Part{Text: strings.TrimSpace(buffer.String())})
	for i, frame := range request.Frames {
		part, err := frameToPart(frame.JpgBase64)
		if err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), fmt.Errorf("frame %d: %w", i, err))
			return
		}
		parts = append(parts, part)
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), []*genai.Content{{Role: "user", Parts: parts}})
}
