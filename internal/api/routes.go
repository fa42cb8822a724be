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

// Package api defines the HTTP surface: the pointers and verdict flows plus
// the server-side frame sampler. The two model-backed endpoints never return
// a server error for model problems: once a request passes validation the
// response is always 200 with a schema-valid body, real or fallback. Only the
// sampler endpoint exposes failure statuses, because its errors describe the
// uploaded file, not the model.
package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/editorsverdict/editors-verdict/internal/core/model"
	"github.com/editorsverdict/editors-verdict/internal/core/sampler"
	"github.com/editorsverdict/editors-verdict/internal/core/services"
)

// errInvalidInput is the uniform body for every request-schema failure. The
// missing-visual-context case is the one deliberate exception with its own
// message.
var errInvalidInput = gin.H{"error": "Invalid input"}

// defaultSampleCount is used when the samples endpoint gets no count field.
const defaultSampleCount = 8

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	service *services.EditorialService
}

// NewHandlers wires the handlers to the editorial service.
func NewHandlers(service *services.EditorialService) *Handlers {
	return &Handlers{service: service}
}

// Register mounts all endpoints on the given group.
func (h *Handlers) Register(r *gin.RouterGroup) {
	r.POST("/pointers", h.Pointers)
	r.POST("/verdict", h.Verdict)
	r.POST("/samples", h.Samples)
}

// Pointers handles POST /pointers.
func (h *Handlers) Pointers(c *gin.Context) {
	var request model.PointersRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errInvalidInput)
		return
	}
	if err := request.Validate(); err != nil {
		if errors.Is(err, model.ErrNoVisualContext) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, errInvalidInput)
		return
	}

	c.JSON(http.StatusOK, h.service.Pointers(c.Request.Context(), &request))
}

// Verdict handles POST /verdict.
func (h *Handlers) Verdict(c *gin.Context) {
	var request model.VerdictRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errInvalidInput)
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errInvalidInput)
		return
	}

	c.JSON(http.StatusOK, h.service.Verdict(c.Request.Context(), &request))
}

// Samples handles POST /samples: a multipart video upload with an optional
// "count" form field. The upload is sniffed before sampling; anything that is
// not a video container is rejected up front.
func (h *Handlers) Samples(c *gin.Context) {
	upload, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A video file is required"})
		return
	}

	count := defaultSampleCount
	if raw := c.PostForm("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, errInvalidInput)
			return
		}
		count = parsed
	}

	tempFile, err := os.CreateTemp("", "uploaded-video-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to store upload"})
		return
	}
	tempName := tempFile.Name()
	_ = tempFile.Close()
	defer func() { _ = os.Remove(tempName) }()

	if err := c.SaveUploadedFile(upload, tempName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to store upload"})
		return
	}
	if !isVideoFile(tempName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload is not a recognized video format"})
		return
	}

	sampleSet, err := h.service.Sample(c.Request.Context(), tempName, count)
	if err != nil {
		var loadErr *sampler.LoadError
		var seekErr *sampler.SeekError
		var encodeErr *sampler.EncodeError
		switch {
		case errors.As(err, &loadErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to load video for sampling."})
		case errors.As(err, &seekErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Seek failed while sampling frames."})
		case errors.As(err, &encodeErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to encode frames from this video. Try re-exporting the clip."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sampling failed"})
		}
		return
	}

	c.JSON(http.StatusOK, sampleSet)
}

// isVideoFile sniffs the magic bytes of the stored upload.
func isVideoFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = file.Close() }()

	head := make([]byte, 261)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return false
	}
	return filetype.IsVideo(head[:n])
}
