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

package main

import (
	"context"
	"log"
	"os"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/services"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config           *cloud.Config
	cloud            *cloud.ServiceClients
	editorialService *services.EditorialService
}

var state = &StateManager{}

// SetupOS points the config loader at the default location and runtime unless
// the environment already says otherwise.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration once: compiled-in defaults
// first, TOML overrides on top.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState builds the model clients and the editorial service. A missing
// model credential is not fatal; the service comes up in mock mode.
func InitState(ctx context.Context) {
	config := GetConfig()

	serviceClients, err := cloud.NewServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = serviceClients
	state.editorialService = services.NewEditorialService(config, serviceClients)
}
