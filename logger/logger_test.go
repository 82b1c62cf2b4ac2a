package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: 0},
		{name: "Console output mode", jsonOutput: false, verbosity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Logger.Sync()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("XLAT_LOG_LEVEL", "ERROR")
	lvl := levelFromEnv()
	require.NotNil(t, lvl)
	assert.Equal(t, zapcore.ErrorLevel, *lvl)

	t.Setenv("XLAT_LOG_LEVEL", "nonsense")
	assert.Nil(t, levelFromEnv())
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputErrors))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputProgress))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputNodeEvents))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputNodeEvents))
	assert.False(t, ShouldOutput(VerbosityTrace, OutputCategory(999)))
	assert.Equal(t, "requests", CategoryName(OutputRequests))
}

func TestComponentLogger(t *testing.T) {
	require.NoError(t, Initialize(true, 0))
	l := ComponentLogger("engine")
	require.NotNil(t, l)
	child := ChildLogger(l, FieldRunID, "abc")
	require.NotNil(t, child)
}
