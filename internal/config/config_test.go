package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvFileOverridesDefaults(t *testing.T) {
	cfg := &DriverConfig{Base: defaultBase, ChannelID: defaultChannelID}
	content := "# comment\nTRACKSYNC_BASE=dynastream\nTRACKSYNC_CHANNEL_ID=5\n\nTRACKSYNC_LOG_LEVEL=debug\n"

	parseEnvFile(content, cfg)

	assert.Equal(t, "dynastream", cfg.Base)
	assert.Equal(t, byte(5), cfg.ChannelID)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseEnvFileIgnoresMalformedLines(t *testing.T) {
	cfg := &DriverConfig{Base: defaultBase}
	parseEnvFile("not-a-kv-pair\nTRACKSYNC_CHANNEL_ID=not-a-number\n", cfg)

	assert.Equal(t, defaultBase, cfg.Base)
	assert.Equal(t, byte(0), cfg.ChannelID, "an unparseable channel id must be left at its zero value, not panic")
}

func TestErrUnknownBaseMessage(t *testing.T) {
	err := ErrUnknownBase("garmin")
	assert.Contains(t, err.Error(), "garmin")
}
