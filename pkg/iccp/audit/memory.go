//
//  Copyright © EduShield Inc. All rights reserved.
//

package audit

import (
	"context"
	"sync"

	"github.com/edushield/iccp/pkg/iccp/model"
)

// MemorySink retains the most recent entries in a fixed-size ring buffer.
// It backs the operator query endpoints (fetch by trace id, list recent).
type MemorySink struct {
	mu       sync.RWMutex
	entries  []*model.AuditEntry
	next     int
	capacity int
	total    int
}

// NewMemorySink creates a ring buffer holding up to capacity entries.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemorySink{
		entries:  make([]*model.AuditEntry, capacity),
		capacity: capacity,
	}
}

// Name identifies the sink.
func (s *MemorySink) Name() string { return "memory" }

// Write records the entry, evicting the oldest once the buffer is full.
func (s *MemorySink) Write(_ context.Context, entry *model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.next] = entry
	s.next = (s.next + 1) % s.capacity
	s.total++
	return nil
}

// Close is a no-op for MemorySink.
func (s *MemorySink) Close() error { return nil }

// ByTrace returns the entry recorded for traceID, or nil if it has been
// evicted or never existed.
func (s *MemorySink) ByTrace(traceID string) *model.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries {
		if entry != nil && entry.TraceID == traceID {
			return entry
		}
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *MemorySink) Recent(limit int) []*model.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	held := s.total
	if held > s.capacity {
		held = s.capacity
	}
	if limit <= 0 || limit > held {
		limit = held
	}

	result := make([]*model.AuditEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + s.capacity) % s.capacity
		result = append(result, s.entries[idx])
	}
	return result
}
