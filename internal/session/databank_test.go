package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBankBurstExtractsSizedPayload(t *testing.T) {
	d := []byte{
		0x00, trackerBurstMarker, 0x03, 0x00, // channel, marker, size=3 (little-endian)
		0x00, 0x00, 0x00, 0x00, // padding up to offset 8
		0xAA, 0xBB, 0xCC, 0xFF, // payload (only first 3 bytes belong to it)
	}
	got, err := parseBankBurst(d)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, got)
}

func TestParseBankBurstZeroSizeMeansBankExhausted(t *testing.T) {
	d := []byte{0x00, trackerBurstMarker, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	got, err := parseBankBurst(d)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseBankBurstRejectsMissingMarker(t *testing.T) {
	d := []byte{0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0xAA, 0xBB, 0xCC}
	_, err := parseBankBurst(d)
	assert.Error(t, err)
}

func TestParseBankBurstTruncatesOversizeClaim(t *testing.T) {
	// size field claims more bytes than were actually delivered; the parser
	// must clamp to what is present rather than index out of range.
	d := []byte{0x00, trackerBurstMarker, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0xAA, 0xBB}
	got, err := parseBankBurst(d)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, got)
}
