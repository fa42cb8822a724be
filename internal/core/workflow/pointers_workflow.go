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

// This file implements the single-pass pointers flow: one prompt, one model
// call, one decode. Like the verdict flow it absorbs every pipeline failure
// into the fixed fallback, but the pointers shape carries no fallback marker;
// that asymmetry is intentional and callers cannot tell the fallback apart.
package workflow

import (
	"context"
	"log/slog"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/commands"
	"github.com/editorsverdict/editors-verdict/internal/core/cor"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
)

// PointersWorkflow orchestrates the timeline-pointers pass.
type PointersWorkflow struct {
	cor.BaseCommand
	config *cloud.Config
	chain  cor.Chain
}

// NewPointersWorkflow wires the three-step chain against the pointers
// gateway. Callers must not construct one in mock mode (no gateways).
func NewPointersWorkflow(config *cloud.Config, serviceClients *cloud.ServiceClients) *PointersWorkflow {
	out := &PointersWorkflow{
		BaseCommand: *cor.NewBaseCommand("pointers-pipeline"),
		config:      config,
	}

	chain := cor.NewBaseChain(out.GetName())
	chain.AddCommand(commands.NewPointersPromptBuilder("build-pointers-prompt", config))
	chain.AddCommand(commands.NewModelInvoker("invoke-pointers-model", serviceClients.Gateways[cloud.AgentModelPointers]))
	chain.AddCommand(commands.NewPointersResponseToStruct("decode-pointers-response"))
	out.chain = chain
	return out
}

// Execute runs the underlying chain.
func (w *PointersWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run executes the flow for one request and always returns a usable response.
// The request must already be validated.
func (w *PointersWorkflow) Run(ctx context.Context, request *model.PointersRequest) *model.PointersResponse {
	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, request)

	w.chain.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for name, err := range chainCtx.GetErrors() {
			slog.WarnContext(ctx, "pointers pipeline failed, returning fallback",
				"command", name, "error", err)
		}
		return model.GetMockPointersResponse()
	}

	pointers, ok := chainCtx.Get(cor.CtxIn).(*model.PointersResponse)
	if !ok {
		slog.WarnContext(ctx, "pointers pipeline produced no response, returning fallback")
		return model.GetMockPointersResponse()
	}
	return pointers
}
