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

// Package cloud defines the application configuration, loaded from TOML files,
// and the clients for the external generative model. Configuration covers the
// HTTP server, the per-pass model settings (vision, verdict, pointers), the
// prompt templates, the frame sampler, and the creative vibe definitions that
// steer prompt tone.
//
// Every field has a compiled-in default so the service (and its tests) can run
// without any TOML file present; files only override.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings disables the model-side content blocking for all harm
// categories. Uploaded clips are user-trusted input and an unexpected block
// would otherwise surface as an opaque empty response.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Logical names of the three model passes in the AgentModels map.
const (
	AgentModelVision   = "vision"
	AgentModelVerdict  = "verdict"
	AgentModelPointers = "pointers"
)

// PromptTemplates holds the text/template sources for the three prompt kinds.
type PromptTemplates struct {
	VisionPrompt   string `toml:"vision"`   // Template for the frame-observation pass.
	VerdictPrompt  string `toml:"verdict"`  // Template for the creative-verdict pass.
	PointersPrompt string `toml:"pointers"` // Template for timeline pointer generation.
}

// GenAiAgentModel is the configuration for one generative model pass.
type GenAiAgentModel struct {
	Model              string  `toml:"model"`               // Model name, e.g. "gemini-2.0-flash".
	SystemInstructions string  `toml:"system_instructions"` // System prompt establishing tone and constraints.
	Temperature        float32 `toml:"temperature"`         // Sampling temperature for this pass.
	TopP               float32 `toml:"top_p"`               // Nucleus sampling parameter.
	MaxTokens          int32   `toml:"max_tokens"`          // Output token cap.
	RateLimit          int     `toml:"rate_limit"`          // Allowed requests per second.
	TimeoutInSeconds   int     `toml:"timeout_in_seconds"`  // Per-invocation deadline; a timeout is a gateway failure.
}

// Sampler configures the ffmpeg-based frame sampler.
type Sampler struct {
	FFmpegPath      string `toml:"ffmpeg_path"`       // Path to the ffmpeg executable.
	FFprobePath     string `toml:"ffprobe_path"`      // Path to the ffprobe executable.
	TargetWidth     int    `toml:"target_width"`      // Output frame width in pixels.
	JpegQuality     int    `toml:"jpeg_quality"`      // ffmpeg -q:v value (2 best .. 31 worst).
	MaxFrames       int    `toml:"max_frames"`        // Hard cap on frames per sample set.
	MaxPayloadBytes int    `toml:"max_payload_bytes"` // Aggregate encoded-size budget before truncation.
	TruncateTo      int    `toml:"truncate_to"`       // Frame count kept when the budget is exceeded.
}

// Vibe names one of the fixed creative tones and its definition. Definitions
// are injected into prompts so the model knows what each tone means.
type Vibe struct {
	Name       string `toml:"name"`
	Definition string `toml:"definition"`
}

// Config is the root configuration for the service.
type Config struct {
	Application struct {
		Name string `toml:"name"` // Service name, used for telemetry.
		Port int    `toml:"port"` // HTTP listen port.
	} `toml:"application"`
	PromptTemplates PromptTemplates            `toml:"prompt_templates"`
	AgentModels     map[string]GenAiAgentModel `toml:"agent_models"`
	Sampler         Sampler                    `toml:"sampler"`
	Vibes           map[string]Vibe            `toml:"vibes"`
}

// Default prompt templates. The textual JSON-shape description is mandatory in
// every prompt: the model has no guaranteed schema enforcement, so the shape
// text is the first line of defense before the response validator.
const (
	DefaultVisionPrompt = `Analyze these frames.
Respond with strict JSON:
{{.SHAPE_JSON}}
Rules:
- Mention at least 2 concrete visual details (subject + action).
- If unsure, say 'unclear' instead of inventing.
- Notable moments: 0-5 items, use seconds if you can infer.
Context: {{.CONTEXT}}`

	DefaultVerdictPrompt = `Context: {{.CONTEXT}}
Observed visuals:
whatHappens: {{.WHAT_HAPPENS}}
sceneType: {{.SCENE_TYPE}}
notableMoments: {{.NOTABLE_MOMENTS}}
visionVibe: {{.VISION_VIBE}}
Generate the verdict JSON using these visuals.
{{.SHAPE_JSON}}
JSON only:`

	DefaultPointersPrompt = `Platform: {{.PLATFORM}}
Vibe: {{.VIBE}} ({{.VIBE_DEFINITION}})
Brief: {{.BRIEF}}
Duration: {{.DURATION}}s
{{if .HAS_FRAMES}}Create 6-10 pointers referencing visible content.
{{else}}Video description: {{.VIDEO_DESCRIPTION}}
Create 6-10 pointers across the timeline.
{{end}}Respond with strict JSON:
{{.SHAPE_JSON}}`
)

// Default system instructions per pass.
const (
	DefaultVisionSystemInstructions = "You are a sharp video observer. " +
		"Give literal details. Do not guess. Return only JSON."

	DefaultVerdictSystemInstructions = "You are a senior video editor. Be decisive. One option only. " +
		"Keep it short, cinematic, and confident. Always include a warning. " +
		"Use the observed visuals; do not invent. Mention at least 2 concrete visual details. " +
		"If uncertain, say 'unclear'. Respond ONLY with JSON matching the provided schema."

	DefaultPointersSystemInstructions = "You are a decisive video editor creating timeline pointers. " +
		"No hedging. 6-10 pointers, well distributed across duration. " +
		"Respect platform and vibe. Mention visible details if frames provided."
)

// fillUnset restores the compiled-in default for every agent-model or vibe
// field a decoded TOML table left at its zero value. The TOML decoder builds
// map entries from scratch, so a table that overrides one field would
// otherwise drop the rest of that entry (a pass would lose its system
// instructions or even its model name). The trade-off: a file cannot
// explicitly set one of these fields to zero or empty.
func (c *Config) fillUnset() {
	defaults := NewConfig()
	if c.AgentModels == nil {
		c.AgentModels = make(map[string]GenAiAgentModel)
	}
	for key, def := range defaults.AgentModels {
		m, ok := c.AgentModels[key]
		if !ok {
			c.AgentModels[key] = def
			continue
		}
		if m.Model == "" {
			m.Model = def.Model
		}
		if m.SystemInstructions == "" {
			m.SystemInstructions = def.SystemInstructions
		}
		if m.Temperature == 0 {
			m.Temperature = def.Temperature
		}
		if m.TopP == 0 {
			m.TopP = def.TopP
		}
		if m.MaxTokens == 0 {
			m.MaxTokens = def.MaxTokens
		}
		if m.RateLimit == 0 {
			m.RateLimit = def.RateLimit
		}
		if m.TimeoutInSeconds == 0 {
			m.TimeoutInSeconds = def.TimeoutInSeconds
		}
		c.AgentModels[key] = m
	}
	if c.Vibes == nil {
		c.Vibes = make(map[string]Vibe)
	}
	for key, def := range defaults.Vibes {
		v, ok := c.Vibes[key]
		if !ok {
			c.Vibes[key] = def
			continue
		}
		if v.Name == "" {
			v.Name = def.Name
		}
		if v.Definition == "" {
			v.Definition = def.Definition
		}
		c.Vibes[key] = v
	}
}

// NewConfig creates a Config populated with working defaults for every
// section. TOML files loaded on top of it override selectively.
func NewConfig() *Config {
	c := &Config{
		AgentModels: map[string]GenAiAgentModel{
			AgentModelVision: {
				Model:              "gemini-2.0-flash",
				SystemInstructions: DefaultVisionSystemInstructions,
				Temperature:        0.4,
				TopP:               0.95,
				MaxTokens:          2048,
				RateLimit:          2,
				TimeoutInSeconds:   60,
			},
			AgentModelVerdict: {
				Model:              "gemini-2.0-flash",
				SystemInstructions: DefaultVerdictSystemInstructions,
				Temperature:        0.65,
				TopP:               0.95,
				MaxTokens:          2048,
				RateLimit:          2,
				TimeoutInSeconds:   60,
			},
			AgentModelPointers: {
				Model:              "gemini-2.0-flash",
				SystemInstructions: DefaultPointersSystemInstructions,
				Temperature:        0.6,
				TopP:               0.95,
				MaxTokens:          4096,
				RateLimit:          2,
				TimeoutInSeconds:   60,
			},
		},
		Vibes: map[string]Vibe{
			"HYPE":      {Name: "Hype", Definition: "High energy, crowd moments, beat-synced cuts, meme captions."},
			"CINEMATIC": {Name: "Cinematic", Definition: "Slow push-ins, color contrast, dramatic pauses, hard cuts to black."},
			"COMEDY":    {Name: "Comedy", Definition: "Reaction timing, abrupt zooms, punchline captions."},
			"DARK":      {Name: "Dark", Definition: "Low light, tension risers, minimal captions, heavy atmosphere."},
		},
	}
	c.Application.Name = "editors-verdict"
	c.Application.Port = 8080
	c.PromptTemplates = PromptTemplates{
		VisionPrompt:   DefaultVisionPrompt,
		VerdictPrompt:  DefaultVerdictPrompt,
		PointersPrompt: DefaultPointersPrompt,
	}
	c.Sampler = Sampler{
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		TargetWidth:     512,
		JpegQuality:     7,
		MaxFrames:       12,
		MaxPayloadBytes: 1_800_000,
		TruncateTo:      8,
	}
	return c
}
