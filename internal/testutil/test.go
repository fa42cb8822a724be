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

// Package test provides utility functions and mock data to support the
// application's test suite: a cached test configuration, canned model
// responses, and a scripted gateway standing in for the model API.
package test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"os"
	"testing"

	"google.golang.org/genai"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/model"
)

// StateManager caches the test configuration so TOML files are read once per
// test run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test if err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("Error reading config file: %v", err)
	}
}

// SetupOS points the config loader at the test configuration files
// (configs/.env.toml overridden by configs/.env.test.toml).
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// GetTestFrame returns a short base64 string shaped like an encoded JPEG:
// valid base64, JPEG magic bytes, longer than the 10-character request floor.
func GetTestFrame() string {
	return base64.StdEncoding.EncodeToString([]byte{
		0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01,
	})
}

// GetTestVisionResponseText returns a schema-valid raw vision response, as the
// model would produce it.
func GetTestVisionResponseText() string {
	out, _ := json.Marshal(model.GetMockVisionObservation())
	return string(out)
}

// GetTestVerdictResponseText returns a schema-valid raw verdict response.
func GetTestVerdictResponseText() string {
	out, _ := json.Marshal(model.GetMockVerdict())
	return string(out)
}

// GetTestPointersResponseText returns a schema-valid raw pointers response.
func GetTestPointersResponseText() string {
	out, _ := json.Marshal(model.GetMockPointersResponse())
	return string(out)
}

// ScriptedGateway is a cloud.ModelGateway returning canned outcomes in call
// order. Each entry is either a response or an error; calls past the script
// fail with a GatewayError.
type ScriptedGateway struct {
	Responses []string
	Errs      []error
	Calls     int
	Received  [][]*genai.Content
}

func (g *ScriptedGateway) Invoke(_ context.Context, contents []*genai.Content) (string, error) {
	i := g.Calls
	g.Calls++
	g.Received = append(g.Received, contents)
	if i < len(g.Errs) && g.Errs[i] != nil {
		return "", g.Errs[i]
	}
	if i < len(g.Responses) {
		return g.Responses[i], nil
	}
	return "", &cloud.GatewayError{Reason: "no scripted response"}
}
