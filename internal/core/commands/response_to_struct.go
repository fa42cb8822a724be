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

// This file defines the decoding commands, one per response shape. Each takes
// the raw model text produced by a ModelInvoker and runs it through the strict
// validator; a rejected response halts the chain so the workflow's fallback
// policy takes over. There is no partial acceptance here: the decoded struct
// either satisfies every schema rule or the command fails.
package commands

import (
	"fmt"

	"github.com/editorsverdict/editors-verdict/internal/core/cor"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
)

// VisionResponseToStruct decodes the vision pass output. The decoded
// observation is stored both as the piped output and under
// CtxVisionObservation so the workflow can return it alongside the verdict.
type VisionResponseToStruct struct {
	cor.BaseCommand
}

func NewVisionResponseToStruct(name string) *VisionResponseToStruct {
	return &VisionResponseToStruct{BaseCommand: *cor.NewBaseCommand(name)}
}

func (s *VisionResponseToStruct) Execute(context cor.Context) {
	raw := context.Get(s.GetInputParam()).(string)

	vision, err := model.DecodeVisionObservation(raw)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("vision response rejected: %w", err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxVisionObservation, vision)
	context.Add(s.GetOutputParam(), vision)
}

// VerdictResponseToStruct decodes the verdict pass output.
type VerdictResponseToStruct struct {
	cor.BaseCommand
}

func NewVerdictResponseToStruct(name string) *VerdictResponseToStruct {
	return &VerdictResponseToStruct{BaseCommand: *cor.NewBaseCommand(name)}
}

func (s *VerdictResponseToStruct) Execute(context cor.Context) {
	raw := context.Get(s.GetInputParam()).(string)

	verdict, err := model.DecodeVerdict(raw)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("verdict response rejected: %w", err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), verdict)
}

// PointersResponseToStruct decodes the pointers pass output.
type PointersResponseToStruct struct {
	cor.BaseCommand
}

func NewPointersResponseToStruct(name string) *PointersResponseToStruct {
	return &PointersResponseToStruct{BaseCommand: *cor.NewBaseCommand(name)}
}

func (s *PointersResponseToStruct) Execute(context cor.Context) {
	raw := context.Get(s.GetInputParam()).(string)

	pointers, err := model.DecodePointersResponse(raw)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("pointers response rejected: %w", err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), pointers)
}
