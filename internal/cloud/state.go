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

// Service client container and factory. The one external dependency is the
// generative model API; its credential is a single environment variable, and
// its absence is a supported first-class mode (mock mode), not an error.
package cloud

import (
	"context"
	"os"
	"time"

	"google.golang.org/genai"
)

// EnvGeminiAPIKey is the environment variable holding the model API key.
// When unset the service runs in mock mode: no client is constructed and
// both editorial flows return their fixed fallback responses.
const EnvGeminiAPIKey = "GEMINI_API_KEY"

// HasModelCredential reports whether a model API key is configured.
func HasModelCredential() bool {
	return os.Getenv(EnvGeminiAPIKey) != ""
}

// ServiceClients holds the initialized external-service handles shared across
// the application.
type ServiceClients struct {
	GenAIClient *genai.Client           // Underlying generative model client; nil in mock mode.
	Gateways    map[string]ModelGateway // One gateway per configured pass; empty in mock mode.
}

// MockMode reports whether the clients were built without a model credential.
func (c *ServiceClients) MockMode() bool {
	return len(c.Gateways) == 0
}

// NewServiceClients builds the model client and one gateway per configured
// agent model. Without a credential it returns an empty, mock-mode container.
func NewServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	out := &ServiceClients{Gateways: make(map[string]ModelGateway)}

	apiKey := os.Getenv(EnvGeminiAPIKey)
	if apiKey == "" {
		return out, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	out.GenAIClient = client

	for key, m := range config.AgentModels {
		generationConfig := &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(m.Temperature),
			TopP:             genai.Ptr(m.TopP),
			MaxOutputTokens:  m.MaxTokens,
			ResponseMIMEType: "application/json",
			SafetySettings:   DefaultSafetySettings,
		}
		if m.SystemInstructions != "" {
			generationConfig.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.SystemInstructions}},
			}
		}
		model := NewQuotaAwareModel(generationConfig, m.Model, client.Models, m.RateLimit)
		out.Gateways[key] = NewGenAiGateway(key, model, time.Duration(m.TimeoutInSeconds)*time.Second)
	}
	return out, nil
}
