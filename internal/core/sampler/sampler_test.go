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

package sampler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/zeebo/assert"

	"github.com/editorsverdict/editors-verdict/internal/cloud"
)

// fakeRunner scripts the two external tools. ffprobe calls return probeOut;
// ffmpeg calls write frameData to the output path (the last argument), which
// is exactly the contract the sampler relies on.
type fakeRunner struct {
	probeOut  string
	probeErr  error
	frameData []byte
	seekErr   error
	captures  int
	frameArgs [][]string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	if name == "ffprobe" {
		return []byte(r.probeOut), r.probeErr
	}
	r.captures++
	r.frameArgs = append(r.frameArgs, args)
	if r.seekErr != nil {
		return nil, r.seekErr
	}
	out := args[len(args)-1]
	return nil, os.WriteFile(out, r.frameData, 0o644)
}

func probeJSON(duration float64) string {
	return fmt.Sprintf(`{"streams":[{"width":1080,"height":1920}],"format":{"duration":"%f"}}`, duration)
}

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01}

func testConfig() cloud.Sampler {
	return cloud.Sampler{
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		TargetWidth:     512,
		JpegQuality:     7,
		MaxFrames:       12,
		MaxPayloadBytes: 1_800_000,
		TruncateTo:      8,
	}
}

func TestTimestampsWindow(t *testing.T) {
	ts := Timestamps(100, 12, 12)
	assert.Equal(t, 12, len(ts))
	assert.Equal(t, 5.0, ts[0])
	assert.Equal(t, 95.0, ts[len(ts)-1])
	for i := 1; i < len(ts); i++ {
		assert.True(t, ts[i] > ts[i-1])
	}
}

func TestTimestampsClamping(t *testing.T) {
	assert.Equal(t, 1, len(Timestamps(30, 0, 12)))
	assert.Equal(t, 12, len(Timestamps(30, 40, 12)))

	single := Timestamps(30, 1, 12)
	assert.Equal(t, 1, len(single))
	assert.Equal(t, 1.5, single[0])
}

func TestSampleOrdering(t *testing.T) {
	runner := &fakeRunner{probeOut: probeJSON(20), frameData: jpegBytes}
	s := NewFrameSamplerWithRunner(testConfig(), runner)

	set, err := s.Sample(context.Background(), "clip.mp4", 4)
	assert.NoError(t, err)
	assert.Equal(t, 20.0, set.DurationSec)
	assert.Equal(t, 4, len(set.Frames))
	assert.Equal(t, 4, runner.captures)

	for i, frame := range set.Frames {
		if i > 0 {
			assert.True(t, frame.T > set.Frames[i-1].T)
		}
		assert.True(t, frame.T >= 0.05*20 && frame.T <= 0.95*20)
		decoded, err := base64.StdEncoding.DecodeString(frame.JpgBase64)
		assert.NoError(t, err)
		assert.DeepEqual(t, jpegBytes, decoded)
	}
}

func TestSampleTruncation(t *testing.T) {
	config := testConfig()
	config.MaxPayloadBytes = 10 // every real capture exceeds this
	config.TruncateTo = 2

	runner := &fakeRunner{probeOut: probeJSON(60), frameData: jpegBytes}
	s := NewFrameSamplerWithRunner(config, runner)

	set, err := s.Sample(context.Background(), "clip.mp4", 6)
	assert.NoError(t, err)
	// All six are captured, then the set is cut, earliest timestamps kept.
	assert.Equal(t, 6, runner.captures)
	assert.Equal(t, 2, len(set.Frames))
	assert.True(t, set.Frames[0].T < set.Frames[1].T)
}

func filterArg(t *testing.T, args []string) string {
	t.Helper()
	for i, arg := range args {
		if arg == "-filter:v" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatal("capture has no -filter:v argument")
	return ""
}

func TestSampleScaleFilterSelection(t *testing.T) {
	// Known dimensions: height follows the input aspect.
	runner := &fakeRunner{probeOut: probeJSON(20), frameData: jpegBytes}
	s := NewFrameSamplerWithRunner(testConfig(), runner)
	_, err := s.Sample(context.Background(), "clip.mp4", 2)
	assert.NoError(t, err)
	assert.Equal(t, "scale=w=512:h=trunc(ow/a/2)*2", filterArg(t, runner.frameArgs[0]))

	// No stream dimensions: fall back to a fixed 9:16 portrait frame.
	runner = &fakeRunner{probeOut: `{"streams":[],"format":{"duration":"20.0"}}`, frameData: jpegBytes}
	s = NewFrameSamplerWithRunner(testConfig(), runner)
	_, err = s.Sample(context.Background(), "headerless.mp4", 2)
	assert.NoError(t, err)
	assert.Equal(t, "scale=w=512:h=910", filterArg(t, runner.frameArgs[0]))
}

func TestSampleLoadError(t *testing.T) {
	runner := &fakeRunner{probeErr: errors.New("no such file")}
	s := NewFrameSamplerWithRunner(testConfig(), runner)

	_, err := s.Sample(context.Background(), "missing.mp4", 4)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))

	// A probe that succeeds but reports no duration is also a load failure.
	runner = &fakeRunner{probeOut: `{"streams":[],"format":{}}`}
	s = NewFrameSamplerWithRunner(testConfig(), runner)
	_, err = s.Sample(context.Background(), "audio-only.mp4", 4)
	assert.True(t, errors.As(err, &loadErr))
}

func TestSampleSeekError(t *testing.T) {
	runner := &fakeRunner{probeOut: probeJSON(20), seekErr: errors.New("decoder crashed")}
	s := NewFrameSamplerWithRunner(testConfig(), runner)

	_, err := s.Sample(context.Background(), "clip.mp4", 4)
	var seekErr *SeekError
	assert.True(t, errors.As(err, &seekErr))
	assert.Equal(t, 1, runner.captures)
}

func TestSampleEncodeError(t *testing.T) {
	runner := &fakeRunner{probeOut: probeJSON(20), frameData: []byte("not an image at all")}
	s := NewFrameSamplerWithRunner(testConfig(), runner)

	_, err := s.Sample(context.Background(), "clip.mp4", 4)
	var encodeErr *EncodeError
	assert.True(t, errors.As(err, &encodeErr))
}
