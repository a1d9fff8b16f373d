//
//  Copyright © EduShield Inc. All rights reserved.
//

package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edushield/iccp/internal/logging"
	"github.com/edushield/iccp/pkg/iccp/model"
)

var logger = logging.GetLogger("iccp.audit")

const agent = "audit"

// DefaultFlushTimeout bounds a single sink write when no timeout is
// configured.
const DefaultFlushTimeout = 2 * time.Second

// Pipeline decouples audit producers from sink I/O with a bounded queue.
//
// Producers call [Pipeline.Record], which sanitizes the entry and enqueues
// it without ever blocking on sink writes.  On queue overflow the newest
// entry is dropped and counted (drop-newest): losing one audit line is
// preferable to stalling a request handler, and the drop counter makes the
// loss observable.
//
// A single dispatcher goroutine drains the queue in FIFO order, preserving
// per-producer recording order, and fans each entry out to every sink.
type Pipeline struct {
	sanitizer    *Sanitizer
	sinks        []Sink
	ch           chan *model.AuditEntry
	flushTimeout time.Duration

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	dropped atomic.Uint64
}

// PipelineOptions configures a [Pipeline].
type PipelineOptions struct {
	// QueueCapacity bounds the queue; entries recorded while the queue is
	// full are dropped and counted.  Defaults to 1024.
	QueueCapacity int

	// FlushTimeout bounds each individual sink write.  A timed-out write is
	// logged and skipped, never retried.  Defaults to [DefaultFlushTimeout].
	FlushTimeout time.Duration

	// MaskFields extends the sanitizer's sensitive key set, typically with
	// the union of all descriptor and institution mask fields.
	MaskFields []string
}

// NewPipeline creates a pipeline over the given sinks and starts its
// dispatcher.  The caller must invoke [Pipeline.Close] on shutdown to drain
// the queue.
func NewPipeline(opts PipelineOptions, sinks ...Sink) *Pipeline {
	capacity := opts.QueueCapacity
	if capacity <= 0 {
		capacity = 1024
	}
	flushTimeout := opts.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = DefaultFlushTimeout
	}

	p := &Pipeline{
		sanitizer:    NewSanitizer(opts.MaskFields),
		sinks:        sinks,
		ch:           make(chan *model.AuditEntry, capacity),
		flushTimeout: flushTimeout,
		done:         make(chan struct{}),
	}

	go p.dispatch()

	return p
}

// Record sanitizes the entry and enqueues it for recording, returning
// immediately.  The return value reports whether the entry was accepted;
// false means the queue was full (or the pipeline closed) and the entry was
// dropped and counted.
func (p *Pipeline) Record(entry *model.AuditEntry) bool {
	clean := p.sanitizer.Sanitize(entry)
	if clean.SanitizationError {
		logger.Warnf(agent, "record", "sanitizer degraded entry %s; recording without details", clean.TraceID)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.dropped.Add(1)
		entriesDropped.Inc()
		return false
	}

	select {
	case p.ch <- clean:
		entriesRecorded.Inc()
		return true
	default:
		p.dropped.Add(1)
		entriesDropped.Inc()
		logger.Warnf(agent, "record", "queue full; dropped entry %s (total dropped %d)", clean.TraceID, p.dropped.Load())
		return false
	}
}

// Dropped returns the number of entries discarded due to queue overflow or
// recording after close.
func (p *Pipeline) Dropped() uint64 {
	return p.dropped.Load()
}

// Close stops accepting entries, drains the queue through all sinks, and
// closes the sinks.  Safe to call once; subsequent Records are dropped.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.ch)
	p.mu.Unlock()

	<-p.done

	for _, sink := range p.sinks {
		if err := sink.Close(); err != nil {
			logger.Errorf(agent, "close", "closing sink %s: %+v", sink.Name(), err)
		}
	}
}

// dispatch is the single consumer: it drains the queue in FIFO order and
// fans each entry out to every sink.  One sink failing must not block or
// fail the others.
func (p *Pipeline) dispatch() {
	defer close(p.done)

	for entry := range p.ch {
		for _, sink := range p.sinks {
			if err := p.flush(sink, entry); err != nil {
				sinkErrors.WithLabelValues(sink.Name()).Inc()
				logger.Errorf(agent, "dispatch", "write to sink %s failed for entry %s: %+v", sink.Name(), entry.TraceID, err)
			}
		}
	}
}

// flush writes one entry to one sink under the per-flush timeout.  A write
// that exceeds the timeout is abandoned: its goroutine finishes (or leaks
// with the stuck I/O) but the dispatcher moves on.
func (p *Pipeline) flush(sink Sink, entry *model.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.flushTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- sink.Write(ctx, entry)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
