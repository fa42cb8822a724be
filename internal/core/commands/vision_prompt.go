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

// This file defines the first command of the verdict chain: building the
// multimodal prompt for the vision pass. The command reads the verdict
// request, renders the vision prompt template, decodes each frame into an
// inline JPEG part and emits the assembled contents for the model invoker.
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

// VisionPromptBuilder assembles the frame-observation prompt from a verdict
// request.
type VisionPromptBuilder struct {
	cor.BaseCommand
	config   *cloud.Config
	template *template.Template
}

// NewVisionPromptBuilder parses the configured vision prompt template and
// returns the command. A template that does not parse is a programming or
// configuration error, so this panics rather than returning an error.
func NewVisionPromptBuilder(name string, config *cloud.Config) *VisionPromptBuilder {
	return &VisionPromptBuilder{
		BaseCommand: *cor.NewBaseCommand(name),
		config:      config,
		template:    template.Must(template.New(name).Parse(config.PromptTemplates.VisionPrompt)),
	}
}

// GenerateParams builds the template substitutions: the response shape and a
// one-line request context.
func (t *VisionPromptBuilder) GenerateParams(request *model.VerdictRequest) map[string]interface{} {
	context := fmt.Sprintf("platform=%s", request.Platform)
	if request.Goal != "" {
		context += fmt.Sprintf(", goal=%s", request.Goal)
	}
	if request.Filename != "" {
		context += fmt.Sprintf(", filename=%s", request.Filename)
	}
	if request.DurationSec > 0 {
		context += fmt.Sprintf(", duration=%.1fs", request.DurationSec)
	}
	return map[string]interface{}{
		"SHAPE_JSON": visionShapeJSON,
		"CONTEXT":    context,
	}
}

// Execute renders the prompt and attaches every frame as an inline image.
func (t *VisionPromptBuilder) Execute(context cor.Context) {
	request := context.Get(t.GetInputParam()).(*model.VerdictRequest)

	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, t.GenerateParams(request)); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute vision prompt template: %w", err))
		return
	}

	parts := make([]*genai.Part, 0, len(request.Frames)+1)
	parts = append(parts, &genai.Part{Text: strings.TrimSpace(buffer.String())})
	for i, frame := range request.Frames {
		part, err := frameToPart(frame)
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
