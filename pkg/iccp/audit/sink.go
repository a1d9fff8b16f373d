//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package audit implements the asynchronous audit pipeline.
//
// Every policy decision produces one [model.AuditEntry].  Producers hand
// entries to [Pipeline.Record], which sanitizes and enqueues them without
// blocking on sink I/O; a single dispatcher drains the bounded queue in FIFO
// order and fans each entry out to the configured sinks.  A sink failure is
// logged and counted, never raised to the producer: an audit fault must not
// block an otherwise-authorized response.
//
// # Built-in Sinks
//
//   - [FileSink]: durable append-only JSONL log
//   - [MemorySink]: in-memory ring buffer backing operator queries
//   - [ConsoleSink]: JSON lines to any io.Writer (stdout by default)
//
// New destinations implement the [Sink] interface; the dispatcher needs no
// changes.
package audit

import (
	"context"
	"fmt"

	"github.com/edushield/iccp/pkg/iccp/model"
)

// Sink is one audit destination.
//
// Write is only ever invoked by the pipeline's single dispatcher goroutine,
// so implementations need no internal locking for the write path itself,
// though sinks that also serve queries (e.g. [MemorySink]) must synchronize
// those separately.  Write should honor ctx cancellation where practical;
// the dispatcher additionally enforces a per-flush timeout.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string

	// Write records one sanitized entry.  The sink must not retain or
	// mutate the entry after returning.
	Write(ctx context.Context, entry *model.AuditEntry) error

	// Close flushes and releases any resources held by the sink.
	Close() error
}

// SinkError wraps a failure writing to a specific sink.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("audit sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
