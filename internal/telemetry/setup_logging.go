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

// Package telemetry configures application observability: structured logging,
// tracing, and metrics. This file sets up JSON logging with automatic trace
// correlation, so every log line emitted inside a span carries the span's
// identifiers.
package telemetry

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// spanContextLogHandler wraps another slog.Handler and injects the active
// span's identifiers into every record logged with a span-bearing context.
type spanContextLogHandler struct {
	slog.Handler
}

func handlerWithSpanContext(handler slog.Handler) *spanContextLogHandler {
	return &spanContextLogHandler{Handler: handler}
}

// Handle adds trace_id, span_id and trace_sampled attributes when the context
// carries a valid span, then delegates to the wrapped handler.
func (t *spanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.Any("trace_id", s.TraceID()),
			slog.Any("span_id", s.SpanID()),
			slog.Bool("trace_sampled", s.TraceFlags().IsSampled()),
		)
	}
	return t.Handler.Handle(ctx, record)
}

// newLogWriter tees log output to stdout and the given file. When the file
// cannot be created (read-only filesystem, missing directory) logging stays
// on stdout alone instead of failing every write through a nil file.
func newLogWriter(path string) io.Writer {
	file, err := os.Create(path)
	if err != nil {
		log.Printf("cannot create log file '%s', logging to stdout only: %v\n", path, err)
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, file)
}

// SetupLogging installs the instrumented JSON logger as the process-wide
// default for both slog and the standard log package. Output goes to stdout
// and to app.log.
func SetupLogging() {
	writer := newLogWriter("app.log")

	log.SetOutput(writer)
	log.SetPrefix("[INFO] ")
	log.SetFlags(log.Ldate | log.Ltime)

	jsonHandler := slog.NewJSONHandler(writer, nil)
	slog.SetDefault(slog.New(handlerWithSpanContext(jsonHandler)))
	slog.SetLogLoggerLevel(slog.LevelInfo)
}
