//
//  Copyright © EduShield Inc. All rights reserved.
//

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestGetLoggerReturnsSameInstance(t *testing.T) {
	resetForTesting()

	a := GetLogger("iccp.test")
	b := GetLogger("iccp.test")
	assert.Same(t, a, b)
}

func TestUpdateLogLevels(t *testing.T) {
	resetForTesting()

	logger := GetLogger("iccp.policy")
	assert.False(t, logger.IsDebugEnabled())

	err := UpdateLogLevels("iccp.policy:debug; .:warn")
	assert.NoError(t, err)
	assert.True(t, logger.IsDebugEnabled())

	// default applies to modules without explicit levels
	other := GetLogger("iccp.audit")
	assert.True(t, other.IsLevelEnabled(zapcore.WarnLevel))
	assert.False(t, other.IsLevelEnabled(zapcore.InfoLevel))
}

func TestUpdateLogLevelsIgnoresMalformedEntries(t *testing.T) {
	resetForTesting()

	err := UpdateLogLevels("nonsense;;a:b:c;.:debug")
	assert.NoError(t, err)
	assert.True(t, GetLogger("anything").IsDebugEnabled())
}
