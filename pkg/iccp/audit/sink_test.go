//
//  Copyright © EduShield Inc. All rights reserved.
//

package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/edushield/iccp/pkg/iccp/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySinkEvictsOldest(t *testing.T) {
	s := NewMemorySink(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Write(context.Background(), entry(fmt.Sprintf("tr-%d", i))))
	}

	assert.Nil(t, s.ByTrace("tr-0"))
	assert.Nil(t, s.ByTrace("tr-1"))
	assert.NotNil(t, s.ByTrace("tr-2"))
	assert.NotNil(t, s.ByTrace("tr-4"))
}

func TestMemorySinkRecentNewestFirst(t *testing.T) {
	s := NewMemorySink(4)

	for i := 0; i < 6; i++ {
		require.NoError(t, s.Write(context.Background(), entry(fmt.Sprintf("tr-%d", i))))
	}

	recent := s.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "tr-5", recent[0].TraceID)
	assert.Equal(t, "tr-4", recent[1].TraceID)
	assert.Equal(t, "tr-3", recent[2].TraceID)

	// zero limit means everything retained
	assert.Len(t, s.Recent(0), 4)

	// limit past the retained count is clamped
	assert.Len(t, s.Recent(100), 4)
}

func TestMemorySinkRecentBeforeWrap(t *testing.T) {
	s := NewMemorySink(8)

	require.NoError(t, s.Write(context.Background(), entry("tr-a")))
	require.NoError(t, s.Write(context.Background(), entry("tr-b")))

	recent := s.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "tr-b", recent[0].TraceID)
	assert.Equal(t, "tr-a", recent[1].TraceID)
}

func TestFileSinkAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")

	s, err := NewFileSink(path)
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), entry("tr-1")))
	require.NoError(t, s.Write(context.Background(), entry("tr-2")))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path) // #nosec G304 -- temp dir
	require.NoError(t, err)

	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var decoded model.AuditEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &decoded))
		ids = append(ids, decoded.TraceID)
	}
	assert.Equal(t, []string{"tr-1", "tr-2"}, ids)
}

func TestFileSinkReopensExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	first, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(context.Background(), entry("tr-1")))
	require.NoError(t, first.Close())

	second, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, second.Write(context.Background(), entry("tr-2")))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path) // #nosec G304 -- temp dir
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}

func TestWriterSinkEmitsOneLine(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	require.NoError(t, s.Write(context.Background(), entry("tr-1")))
	require.NoError(t, s.Close())

	var decoded model.AuditEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &decoded))
	assert.Equal(t, "tr-1", decoded.TraceID)
}

func TestSinkErrorUnwraps(t *testing.T) {
	inner := os.ErrPermission
	err := &SinkError{Sink: "file", Err: inner}

	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "file")
}
