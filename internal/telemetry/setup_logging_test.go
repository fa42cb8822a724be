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

package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogWriterTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writer := newLogWriter(path)

	_, err := writer.Write([]byte("one line\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one line\n", string(data))
}

func TestNewLogWriterFallsBackToStdout(t *testing.T) {
	// The parent directory does not exist, so the file cannot be created.
	writer := newLogWriter(filepath.Join(t.TempDir(), "missing", "app.log"))

	assert.Equal(t, io.Writer(os.Stdout), writer)
	_, err := writer.Write([]byte("still usable\n"))
	assert.NoError(t, err)
}
