//
//  Copyright © EduShield Inc. All rights reserved.
//

package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/edushield/iccp/pkg/iccp/model"
	"github.com/pkg/errors"
)

// FileSink appends entries to a durable log, one JSON object per line.
// The format is suitable for log aggregation and offline audit review.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileSink opens (creating if necessary) the append-only log at path.
// Parent directories are created as needed.
func NewFileSink(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, errors.Wrap(err, "creating audit log directory")
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304 -- operator-supplied log path
	if err != nil {
		return nil, errors.Wrap(err, "opening audit log")
	}

	return &FileSink{file: file}, nil
}

// Name identifies the sink.
func (s *FileSink) Name() string { return "file" }

// Write appends one entry as a JSON line.  The mutex guarantees lines are
// never interleaved even if a second writer is ever introduced.
func (s *FileSink) Write(_ context.Context, entry *model.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return &SinkError{Sink: s.Name(), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return &SinkError{Sink: s.Name(), Err: err}
	}
	return nil
}

// Close syncs and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.file.Sync(); err != nil {
		return &SinkError{Sink: s.Name(), Err: err}
	}
	return s.file.Close()
}
