package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracksync/internal/logging"
)

func newTestController(reads ...[]byte) (*Controller, *fakeTransport) {
	transport := newFakeTransport(reads...)
	return NewController(transport, 0, logging.Discard()), transport
}

func TestControllerResetReachesStateReset(t *testing.T) {
	startup := EncodeFrame(CmdStartupMessage, []byte{0x00})
	c, _ := newTestController(startup)

	require.NoError(t, c.Reset())
	assert.Equal(t, StateReset, c.State())
}

func TestControllerResetFailsWithoutStartupMessage(t *testing.T) {
	other := EncodeFrame(CmdChannelResponse, []byte{0x00, 0x00, EventNoError})
	c, _ := newTestController(other)

	err := c.Reset()
	assert.Error(t, err)
	assert.NotEqual(t, StateReset, c.State())
}

func TestControllerAssignChannelAdvancesState(t *testing.T) {
	ok := EncodeFrame(CmdChannelResponse, []byte{0x00, 0x00, EventNoError})
	c, transport := newTestController(ok)

	require.NoError(t, c.AssignChannel())
	assert.Equal(t, StateConfigured, c.State())
	require.Len(t, transport.writes, 1)
	assert.Equal(t, CmdAssignChannel, transport.writes[0][2])
}

func TestControllerConfigureRejectsErrorEvent(t *testing.T) {
	failed := EncodeFrame(CmdChannelResponse, []byte{0x00, 0x00, EventChannelCollision})
	c, _ := newTestController(failed)

	err := c.OpenChannel()
	assert.Error(t, err)
	assert.NotEqual(t, StateOpen, c.State())
}

func TestControllerSendAcknowledgedSucceedsOnTxCompleted(t *testing.T) {
	txCompleted := EncodeFrame(CmdChannelResponse, []byte{0x00, 0x00, EventTransferTxCompleted})
	c, transport := newTestController(txCompleted)

	err := c.SendAcknowledged([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	require.Len(t, transport.writes, 1)
	assert.Equal(t, CmdAcknowledgedData, transport.writes[0][2])
}

func TestControllerSendAcknowledgedRejectsWrongPayloadLength(t *testing.T) {
	c, _ := newTestController()
	err := c.SendAcknowledged([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestControllerSendAcknowledgedExhaustsRetriesOnTxFailed(t *testing.T) {
	txFailed := EncodeFrame(CmdChannelResponse, []byte{0x00, 0x00, EventTransferTxFailed})
	reads := make([][]byte, 0, ackOuterRetries)
	for i := 0; i < ackOuterRetries; i++ {
		reads = append(reads, txFailed)
	}
	c, transport := newTestController(reads...)

	err := c.SendAcknowledged([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Error(t, err)
	assert.Len(t, transport.writes, ackOuterRetries, "every outer retry must re-send the payload")
}

func TestControllerReceiveAcknowledgedReplyStripsChannelByte(t *testing.T) {
	reply := EncodeFrame(CmdAcknowledgedData, []byte{0x00, 0x39, 0x41, 0x01, 0x02})
	c, _ := newTestController(reply)

	got, err := c.ReceiveAcknowledgedReply()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x39, 0x41, 0x01, 0x02}, got)
}

func TestControllerReceiveAcknowledgedReplyExhausts(t *testing.T) {
	c, _ := newTestController() // no frames at all: every decode times out
	_, err := c.ReceiveAcknowledgedReply()
	assert.Error(t, err)
}

func TestControllerReceiveBurstStopsAtTerminatorBit(t *testing.T) {
	first := EncodeFrame(CmdBurstData, []byte{0x20, 0xAA, 0xBB})
	last := EncodeFrame(CmdBurstData, []byte{0xA0, 0xCC, 0xDD}) // 0x80 bit set
	c, _ := newTestController(first, last)

	out, err := c.ReceiveBurst()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, out)
}

func TestControllerReceiveBurstFailsOnRxFailedEvent(t *testing.T) {
	rxFailed := EncodeFrame(CmdChannelResponse, []byte{0x00, 0x00, EventTransferRxFailed})
	c, _ := newTestController(rxFailed)

	_, err := c.ReceiveBurst()
	assert.Error(t, err)
}

func TestControllerReceiveBurstCapsAtFrameLimit(t *testing.T) {
	chunk := EncodeFrame(CmdBurstData, []byte{0x20, 0x01}) // terminator bit never set
	reads := make([][]byte, 0, burstReplyMaxReads+1)
	for i := 0; i < burstReplyMaxReads+1; i++ {
		reads = append(reads, chunk)
	}
	c, _ := newTestController(reads...)

	_, err := c.ReceiveBurst()
	assert.Error(t, err, "an endless burst stream without a terminator must be bounded, not looped forever")
}
