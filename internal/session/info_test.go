package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfoFields(t *testing.T) {
	data := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, // serial
		0x07,       // firmware version
		0x01, 0x02, // BSL major/minor
		0x03, 0x04, // app major/minor
		0x00, // not in BSL mode
		0x01, // on charger
	}
	info, err := parseInfo(data)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, info.Serial)
	assert.Equal(t, byte(0x07), info.FirmwareVer)
	assert.Equal(t, byte(0x01), info.BSLMajor)
	assert.Equal(t, byte(0x02), info.BSLMinor)
	assert.Equal(t, byte(0x03), info.AppMajor)
	assert.Equal(t, byte(0x04), info.AppMinor)
	assert.False(t, info.InBSLMode)
	assert.True(t, info.OnCharger)
}

func TestParseInfoRejectsShortPayload(t *testing.T) {
	_, err := parseInfo([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestTrackerInfoStringContainsSerial(t *testing.T) {
	info := TrackerInfo{Serial: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00}}
	assert.Contains(t, info.String(), "deadbeef00")
}
