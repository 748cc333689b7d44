package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventNameKnownCode(t *testing.T) {
	assert.Equal(t, "EVENT_TRANSFER_TX_FAILED", EventName(EventTransferTxFailed))
}

func TestEventNameUnknownCodeFallsBackToHex(t *testing.T) {
	assert.Equal(t, "0xff", EventName(0xFF))
}
