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

// Hierarchical configuration loading and small helpers shared by the cloud
// package. LoadConfig reads a base TOML file and then overwrites its values
// with an environment-specific file (.env.local.toml, .env.test.toml, ...);
// the environment is selected by an environment variable.
package cloud

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileBaseName  = ".env"             // Base name for configuration files (".env.toml").
	ConfigFileExtension = ".toml"            // File extension for configuration files.
	ConfigSeparator     = "."                // Separator in config file names (".env.local.toml").
	EnvConfigFilePrefix = "EV_CONFIG_PREFIX" // Environment variable naming the config directory.
	EnvConfigRuntime    = "EV_RUNTIME"       // Environment variable naming the runtime ("local", "test", "prod").
)

// fileExists reports whether a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates baseConfig from the base TOML file and then from the
// environment-specific override file, if either exists. Missing files are not
// an error: the compiled-in defaults from NewConfig remain in effect.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "local"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}

	// Map entries are rebuilt from zero by the decoder; restore whatever the
	// files did not set.
	switch c := baseConfig.(type) {
	case *Config:
		c.fillUnset()
	case **Config:
		(*c).fillUnset()
	}
}

// CleanModelOutput strips the markdown code fences some model responses wrap
// around JSON payloads. The validator receives the bare JSON text.
func CleanModelOutput(in string) string {
	out := strings.TrimSpace(in)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
