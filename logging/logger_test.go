package logging_test

import (
	"bytes"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"

	"github.com/krisalay/lfu-ttl-cache/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.TraceLevel, logging.ParseLevel("trace"))
	assert.Equal(t, log.DebugLevel, logging.ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, logging.ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, logging.ParseLevel("error"))
	assert.Equal(t, log.InfoLevel, logging.ParseLevel("nonsense"))
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(log.WarnLevel, &buf)

	logger.Debug().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
