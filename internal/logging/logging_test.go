package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level, format string
		want          zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel},
		{"warn", "json", zapcore.WarnLevel},
		{"nonsense", "json", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		logger, err := New(tc.level, tc.format)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(tc.want), tc.level)
		if tc.want > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(tc.want-1), tc.level)
		}
	}
}
