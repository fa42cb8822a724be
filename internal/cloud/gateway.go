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

// The model gateway is the single boundary through which the pipelines talk
// to the generative model. Network failures, timeouts, empty candidates and
// malformed envelopes are all collapsed into GatewayError: downstream code
// only needs to know "the external call did not yield text", because every
// such failure funnels into the same mock-fallback policy.
package cloud

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

// meterNamespace scopes the gateway token counters.
const meterNamespace = "github.com/editorsverdict/editors-verdict"

// GatewayError marks a failed model invocation. It is absorbed inside the
// workflows and never crosses the HTTP boundary as an error status.
type GatewayError struct {
	Reason string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model gateway: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("model gateway: %s", e.Reason)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ModelGateway is the external-model boundary consumed by the pipeline
// commands. Tests substitute scripted implementations.
type ModelGateway interface {
	// Invoke sends the prompt contents to the model once and returns the raw
	// text output with code fences stripped. Any failure, including an empty
	// response, is a *GatewayError.
	Invoke(ctx context.Context, contents []*genai.Content) (string, error)
}

// GenAiGateway is the production ModelGateway backed by one rate-limited
// model pass.
type GenAiGateway struct {
	model              *QuotaAwareGenerativeAIModel
	timeout            time.Duration
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
}

// NewGenAiGateway constructs a gateway for the named pass. The timeout bounds
// each invocation; a deadline hit is reported as a GatewayError like any
// other failure.
func NewGenAiGateway(name string, model *QuotaAwareGenerativeAIModel, timeout time.Duration) *GenAiGateway {
	meter := otel.Meter(meterNamespace)
	out := &GenAiGateway{model: model, timeout: timeout}
	out.inputTokenCounter, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.input", name))
	out.outputTokenCounter, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.output", name))
	return out
}

// Invoke makes a single attempt against the model and concatenates the text
// parts of every candidate.
func (g *GenAiGateway) Invoke(ctx context.Context, contents []*genai.Content) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.model.GenerateContent(ctx, contents)
	if err != nil {
		return "", &GatewayError{Reason: "generation request failed", Err: err}
	}

	if resp.UsageMetadata != nil {
		g.inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		g.outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	value := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += part.Text
			}
		}
	}
	value = CleanModelOutput(value)
	if value == "" {
		return "", &GatewayError{Reason: "empty response content"}
	}
	return value, nil
}
