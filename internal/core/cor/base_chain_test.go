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

package cor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/assert"
)

// appendCommand appends its suffix to the piped string, or fails.
type appendCommand struct {
	BaseCommand
	suffix string
	fail   bool
	ran    bool
}

func newAppendCommand(name, suffix string, fail bool) *appendCommand {
	return &appendCommand{BaseCommand: *NewBaseCommand(name), suffix: suffix, fail: fail}
}

func (c *appendCommand) Execute(ctx Context) {
	c.ran = true
	if c.fail {
		ctx.AddError(c.GetName(), errors.New("induced failure"))
		return
	}
	in := ctx.Get(c.GetInputParam()).(string)
	ctx.Add(c.GetOutputParam(), in+c.suffix)
}

func newTestContext(seed string) Context {
	ctx := NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(CtxIn, seed)
	return ctx
}

func TestChainPipesOutputs(t *testing.T) {
	chain := NewBaseChain("piping")
	chain.AddCommand(newAppendCommand("first", "-a", false))
	chain.AddCommand(newAppendCommand("second", "-b", false))

	ctx := newTestContext("seed")
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	// After the final pipe the last output sits in the input slot.
	assert.Equal(t, "seed-a-b", ctx.Get(CtxIn).(string))
	assert.Nil(t, ctx.Get(CtxOut))
}

func TestChainHaltsOnError(t *testing.T) {
	tail := newAppendCommand("tail", "-c", false)
	chain := NewBaseChain("halting")
	chain.AddCommand(newAppendCommand("head", "-a", false))
	chain.AddCommand(newAppendCommand("failing", "-b", true))
	chain.AddCommand(tail)

	ctx := newTestContext("seed")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.False(t, tail.ran)
	_, ok := ctx.GetErrors()["failing"]
	assert.True(t, ok)
}

func TestChainContinueOnFailure(t *testing.T) {
	// The tail reads a named key: a failed predecessor leaves nothing in the
	// piped input slot, which would make the tail non-executable.
	tail := newAppendCommand("tail", "-c", false)
	tail.InputParamName = "SEED_KEY"
	chain := NewBaseChain("tolerant")
	chain.ContinueOnFailure(true)
	chain.AddCommand(newAppendCommand("failing", "-b", true))
	chain.AddCommand(tail)

	ctx := newTestContext("seed")
	ctx.Add("SEED_KEY", "seed")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.True(t, tail.ran)
}

func TestContextCloseRemovesTempFiles(t *testing.T) {
	name := filepath.Join(t.TempDir(), "scratch.jpg")
	assert.NoError(t, os.WriteFile(name, []byte{0xFF, 0xD8}, 0o600))

	ctx := NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.AddTempFile(name)
	ctx.Close()

	_, err := os.Stat(name)
	assert.True(t, os.IsNotExist(err))
}
