package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		log, err := New(Config{Level: "warn", Environment: env, Service: "marketplace-api"})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel), env)
		assert.True(t, log.Core().Enabled(zapcore.ErrorLevel), env)
	}
}

func TestNew_ProductionIsNotSampled(t *testing.T) {
	log, err := New(Config{Level: "info", Environment: "production"})
	require.NoError(t, err)

	// a sampled core drops repeats after the first 100 per second
	for i := 0; i < 200; i++ {
		require.NotNil(t, log.Check(zapcore.WarnLevel, "contact event dropped"), "entry %d", i)
	}
}
