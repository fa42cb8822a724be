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

package commands

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
	"github.com/editorsverdict/editors-verdict/internal/core/cor"
)

// ModelInvoker sends assembled prompt contents through a model gateway and
// emits the raw text response. It is the only command that leaves the
// process; everything before it builds contents, everything after it decodes
// text. One invocation means one attempt: the gateway does not retry, a
// failure halts the chain and the workflow falls back.
type ModelInvoker struct {
	cor.BaseCommand
	gateway cloud.ModelGateway
}

// NewModelInvoker wraps the given gateway as a chain command.
func NewModelInvoker(name string, gateway cloud.ModelGateway) *ModelInvoker {
	return &ModelInvoker{
		BaseCommand: *cor.NewBaseCommand(name),
		gateway:     gateway,
	}
}

// Execute performs the single model invocation.
func (t *ModelInvoker) Execute(context cor.Context) {
	contents := context.Get(t.GetInputParam()).([]*genai.Content)

	out, err := t.gateway.Invoke(context.GetContext(), contents)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("model invocation failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), out)
}
