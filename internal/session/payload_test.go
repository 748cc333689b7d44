package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayloadBurstPrefix(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	out := buildPayloadBurst(0x39, 0x01, payload)

	require.GreaterOrEqual(t, len(out), 9)
	assert.Equal(t, []byte{0x00, 0x39, 0x80, byte(len(payload))}, out[:4])
	assert.Equal(t, xorAll(payload), out[8])
}

func TestBuildPayloadBurstChunksCarryChannelAndCyclingHeader(t *testing.T) {
	payload := make([]byte, 20) // three 8-byte chunks: 8 + 8 + 4
	for i := range payload {
		payload[i] = byte(i)
	}
	out := buildPayloadBurst(0x39, 0x02, payload)
	chunks := out[9:]
	require.Len(t, chunks, 27) // 3 chunks * 9 bytes

	firstHdr := chunks[0]
	secondHdr := chunks[9]
	thirdHdr := chunks[18]

	assert.Equal(t, byte(0x20|0x02), firstHdr)
	assert.Equal(t, byte(0x40|0x02), secondHdr)
	assert.Equal(t, byte(0x60|0x80|0x02), thirdHdr, "final chunk must carry the terminator bit")
}

func TestBuildPayloadBurstSingleChunkIsTerminal(t *testing.T) {
	out := buildPayloadBurst(0x39, 0x00, []byte{0xAA})
	chunk := out[9:]
	require.Len(t, chunk, 9)
	assert.Equal(t, byte(0x20|0x80), chunk[0])
	assert.Equal(t, byte(0xAA), chunk[1])
}
