//
//  Copyright © EduShield Inc. All rights reserved.
//

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	ResetConfig()

	assert.Equal(t, "data/audit_log.jsonl", VConfig.GetString(AuditFile))
	assert.Equal(t, 1024, VConfig.GetInt(AuditQueueCapacity))
	assert.Equal(t, 2*time.Second, VConfig.GetDuration(AuditFlushTimeout))
	assert.Equal(t, 256, VConfig.GetInt(AuditMemoryCapacity))
	assert.True(t, VConfig.GetBool(AuditConsoleEnabled))
	assert.Empty(t, VConfig.GetString(CatalogPath))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ICCP_AUDIT_QUEUE_CAPACITY", "17")
	ResetConfig()

	assert.Equal(t, 17, VConfig.GetInt(AuditQueueCapacity))
}

func TestLoadIsIdempotent(t *testing.T) {
	ResetConfig()

	require.NoError(t, Load())
	require.NoError(t, Load())
}
