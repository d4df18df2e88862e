package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// Boot-path failures are reported before any level is configured, so an
// empty or unknown level must fall back to info: a logger at NoLevel would
// discard Fatal events and let main continue with a zero config.
func TestNewLoggerDefaultsToInfo(t *testing.T) {
	logger := newLogger("")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	assert.NotNil(t, logger.Fatal(), "fatal events must not be discarded at the default level")

	assert.Equal(t, zerolog.InfoLevel, newLogger("banana").GetLevel())
}

func TestNewLoggerHonorsConfiguredLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger("debug").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger("warn").GetLevel())
}
