//
//  Copyright © EduShield Inc. All rights reserved.
//

package common

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyFprint(t *testing.T) {
	var buf bytes.Buffer
	PrettyFprint(&buf, map[string]interface{}{
		"trace_id": "tr-1",
		"outcome":  "Allow",
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "tr-1", decoded["trace_id"])

	// indented for human eyes
	assert.Contains(t, buf.String(), "\n\t")
}

func TestPrettyFprintUnmarshalable(t *testing.T) {
	var buf bytes.Buffer
	PrettyFprint(&buf, make(chan int))

	assert.Contains(t, buf.String(), "unsupported type")
}
