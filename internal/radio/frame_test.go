package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEncodeFrameMatchesSpecVectorE1 pins the wire format to the literal
// spec vector rather than to whatever the encoder itself produces: length
// is the payload byte count *excluding* the command byte.
func TestEncodeFrameMatchesSpecVectorE1(t *testing.T) {
	got := EncodeFrame(CmdResetSystem, []byte{0x00})
	want := []byte{0xA4, 0x01, 0x4A, 0x00, 0xEF}
	assert.Equal(t, want, got)
}

func TestEncodeFrameMultiByteLengthExcludesCommand(t *testing.T) {
	payload := []byte{0x00, 0, 0, 0, 0, 0, 0, 0, 0}
	got := EncodeFrame(CmdSetNetworkKey, payload)
	assert.Equal(t, byte(len(payload)), got[1], "length counts only the payload, not the command byte")
	assert.Len(t, got, len(payload)+4)
	assert.Equal(t, xorAll(got[:len(got)-1]), got[len(got)-1])
}

func TestEncodeFlattensMixedArgs(t *testing.T) {
	got := Encode(CmdSetNetworkKey, byte(0), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	want := EncodeFrame(CmdSetNetworkKey, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8})
	assert.Equal(t, want, got)
}

func TestFlattenAcceptsInt(t *testing.T) {
	got := flatten(byte(0x10), 0x20, []byte{0x30})
	assert.Equal(t, []byte{0x10, 0x20, 0x30}, got)
}

func TestXorAllEmpty(t *testing.T) {
	assert.Equal(t, byte(0), xorAll(nil))
}
