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

// Package services sits between the HTTP handlers and the pipelines. The
// editorial service owns the mock-mode decision: when no model credential is
// configured the workflows are never built and every flow returns its fixed
// fallback immediately. Handlers stay oblivious to which mode is active.
package services

import (
	"context"
	"log/slog"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
	"github.com/editorsverdict/editors-verdict/internal/core/sampler"
	"github.com/editorsverdict/editors-verdict/internal/core/workflow"
)

// EditorialService exposes the three operations of the application: frame
// sampling, the verdict flow and the pointers flow.
type EditorialService struct {
	config           *cloud.Config
	sampler          *sampler.FrameSampler
	verdictWorkflow  *workflow.VerdictWorkflow  // nil in mock mode
	pointersWorkflow *workflow.PointersWorkflow // nil in mock mode
}

// NewEditorialService builds the service. Workflows are constructed only when
// the client container holds real gateways.
func NewEditorialService(config *cloud.Config, serviceClients *cloud.ServiceClients) *EditorialService {
	out := &EditorialService{
		config:  config,
		sampler: sampler.NewFrameSampler(config.Sampler),
	}
	if serviceClients.MockMode() {
		slog.Warn("no model credential configured, editorial flows run in mock mode")
		return out
	}
	out.verdictWorkflow = workflow.NewVerdictWorkflow(config, serviceClients)
	out.pointersWorkflow = workflow.NewPointersWorkflow(config, serviceClients)
	return out
}

// MockMode reports whether the flows return fixed fallbacks unconditionally.
func (s *EditorialService) MockMode() bool {
	return s.verdictWorkflow == nil
}

// Verdict runs the two-pass verdict flow. It never fails: in mock mode or on
// any pipeline error the fixed fallback result is returned.
func (s *EditorialService) Verdict(ctx context.Context, request *model.VerdictRequest) *model.VerdictResult {
	if s.verdictWorkflow == nil {
		return model.GetMockVerdictResult()
	}
	return s.verdictWorkflow.Run(ctx, request)
}

// Pointers runs the single-pass pointers flow. It never fails either, and the
// fallback response is indistinguishable from a real one.
func (s *EditorialService) Pointers(ctx context.Context, request *model.PointersRequest) *model.PointersResponse {
	if s.pointersWorkflow == nil {
		return model.GetMockPointersResponse()
	}
	return s.pointersWorkflow.Run(ctx, request)
}

// Sample extracts frames from a local video file. Unlike the model flows this
// can fail; the sampler's typed errors let the handler map each failure mode
// to a distinct status.
func (s *EditorialService) Sample(ctx context.Context, path string, frameCount int) (*model.SampleSet, error) {
	return s.sampler.Sample(ctx, path, frameCount)
}
