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

// Rate-limited wrapper around the generative model client. The wrapper keeps
// the service inside the API quota; it does NOT retry. Each pipeline stage
// gets exactly one attempt, and a failure is absorbed by the workflow's
// fallback policy rather than resubmitted.
package cloud

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareGenerativeAIModel decorates one configured model pass with a rate
// limiter. All calls for a pass (vision, verdict, pointers) flow through one
// instance, so concurrent requests share the pass's quota budget.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Generation settings for this pass.
	ModelName               string                       // The model to invoke, e.g. "gemini-2.0-flash".
	ModelHandle             *genai.Models                // Handle into the genai client.
	RateLimit               *rate.Limiter                // Token bucket guarding the request rate.
}

// NewQuotaAwareModel wraps a model configuration with a limiter allowing
// requestsPerSecond calls per second (with an equal burst).
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond < 1 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               name,
		ModelHandle:             handle,
		RateLimit:               rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// GenerateContent blocks until the limiter admits the call, then makes a
// single attempt against the model. Cancellation while waiting on the limiter
// surfaces as the context's error.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, contents, q.GenerativeContentConfig)
}
