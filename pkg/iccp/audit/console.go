//
//  Copyright © EduShield Inc. All rights reserved.
//

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/edushield/iccp/pkg/iccp/model"
)

// ConsoleSink writes entries as compact JSON lines to an [io.Writer].
// It is intended for development and for production environments where
// stdout is captured by a log aggregator.
type ConsoleSink struct {
	writer io.Writer
}

// NewConsoleSink creates a sink writing to stdout.
func NewConsoleSink() *ConsoleSink {
	return NewWriterSink(os.Stdout)
}

// NewWriterSink creates a sink writing to w.  The writer is not closed by
// [ConsoleSink.Close]; the caller retains ownership.
func NewWriterSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{writer: w}
}

// Name identifies the sink.
func (s *ConsoleSink) Name() string { return "console" }

// Write emits the entry as a single JSON line.
func (s *ConsoleSink) Write(_ context.Context, entry *model.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return &SinkError{Sink: s.Name(), Err: err}
	}

	if _, err := fmt.Fprintln(s.writer, string(data)); err != nil {
		return &SinkError{Sink: s.Name(), Err: err}
	}
	return nil
}

// Close is a no-op for ConsoleSink.
func (s *ConsoleSink) Close() error { return nil }
