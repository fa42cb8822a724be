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

// Package workflow assembles the pipeline commands into the two editorial
// flows. This file implements the two-pass verdict flow: a vision pass that
// describes the frames literally, then a verdict pass that reasons over that
// description. The two passes are a strict sequential dependency, which also
// bounds cost: one vision call and one verdict call per request, never more.
//
// The flow cannot fail from the caller's point of view. Any pipeline error --
// gateway failure, timeout, rejected response -- is logged and absorbed into
// the fixed fallback result, which is the only result carrying Fallback=true.
package workflow

import (
	"context"
	"log/slog"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/commands"
	"github.com/editorsverdict/editors-verdict/internal/core/cor"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
)

// maxVerdictFrames caps how many frames are forwarded to the vision pass.
// Requests may carry up to 12; the tail frames add cost without improving
// the observation.
const maxVerdictFrames = 10

// VerdictWorkflow orchestrates the vision and verdict passes.
type VerdictWorkflow struct {
	cor.BaseCommand
	config *cloud.Config
	chain  cor.Chain
}

// NewVerdictWorkflow wires the six-step chain against the vision and verdict
// gateways. Callers must not construct one in mock mode (no gateways).
func NewVerdictWorkflow(config *cloud.Config, serviceClients *cloud.ServiceClients) *VerdictWorkflow {
	out := &VerdictWorkflow{
		BaseCommand: *cor.NewBaseCommand("verdict-pipeline"),
		config:      config,
	}

	chain := cor.NewBaseChain(out.GetName())
	chain.AddCommand(commands.NewVisionPromptBuilder("build-vision-prompt", config))
	chain.AddCommand(commands.NewModelInvoker("invoke-vision-model", serviceClients.Gateways[cloud.AgentModelVision]))
	chain.AddCommand(commands.NewVisionResponseToStruct("decode-vision-response"))
	chain.AddCommand(commands.NewVerdictPromptBuilder("build-verdict-prompt", config))
	chain.AddCommand(commands.NewModelInvoker("invoke-verdict-model", serviceClients.Gateways[cloud.AgentModelVerdict]))
	chain.AddCommand(commands.NewVerdictResponseToStruct("decode-verdict-response"))
	out.chain = chain
	return out
}

// Execute runs the underlying chain; it exists so the workflow can itself be
// used as a command.
func (w *VerdictWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run executes the flow for one request and always returns a usable result.
// The request must already be validated.
func (w *VerdictWorkflow) Run(ctx context.Context, request *model.VerdictRequest) *model.VerdictResult {
	if len(request.Frames) > maxVerdictFrames {
		trimmed := *request
		trimmed.Frames = request.Frames[:maxVerdictFrames]
		request = &trimmed
	}

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.CtxVerdictRequest, request)
	chainCtx.Add(cor.CtxIn, request)

	w.chain.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for name, err := range chainCtx.GetErrors() {
			slog.WarnContext(ctx, "verdict pipeline failed, returning fallback",
				"command", name, "error", err)
		}
		return model.GetMockVerdictResult()
	}

	verdict, ok := chainCtx.Get(cor.CtxIn).(*model.Verdict)
	if !ok {
		slog.WarnContext(ctx, "verdict pipeline produced no verdict, returning fallback")
		return model.GetMockVerdictResult()
	}
	vision, ok := chainCtx.Get(commands.CtxVisionObservation).(*model.VisionObservation)
	if !ok {
		slog.WarnContext(ctx, "verdict pipeline produced no observation, returning fallback")
		return model.GetMockVerdictResult()
	}

	return &model.VerdictResult{Verdict: verdict, Vision: vision}
}
