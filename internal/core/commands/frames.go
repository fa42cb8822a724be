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
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// frameToPart turns one base64-encoded JPEG frame into an inline image part.
// Clients may send either bare base64 or a full data URL; the prefix up to
// "base64," is stripped before decoding.
func frameToPart(encoded string) (*genai.Part, error) {
	if idx := strings.Index(encoded, "base64,"); idx >= 0 {
		encoded = encoded[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: data}}, nil
}
