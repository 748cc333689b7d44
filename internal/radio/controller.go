package radio

import (
	"time"

	"tracksync/internal/logging"
	"tracksync/internal/usb"
)

// State is the controller's lifecycle position.
type State int

const (
	StateClosed State = iota
	StateReset
	StateConfigured
	StateOpen
)

const (
	resetAttempts       = 8
	resetSettleDelay    = time.Second
	ackOuterRetries     = 8
	ackReconcileReads   = 16
	burstOuterRetries   = 2
	burstChunkDelay     = 10 * time.Millisecond
	burstReplyMaxReads  = 128
	ackReplyMaxReads    = 30
	burstChunkSize      = 9
)

// Controller drives one radio channel: command framing, response
// reconciliation, and the Closed->Reset->Configured->Open->Closed lifecycle.
// It owns the Codec (and, through it, the transport) and is meant to be
// driven by exactly one session at a time.
type Controller struct {
	codec     *Codec
	log       *logging.Logger
	state     State
	channelID byte
}

// NewController wraps a transport in a Codec and a Controller on the given
// logical channel (typically 0).
func NewController(transport usb.Transport, channelID byte, log *logging.Logger) *Controller {
	return &Controller{
		codec:     NewCodec(transport, log),
		log:       log,
		state:     StateClosed,
		channelID: channelID,
	}
}

func (c *Controller) State() State { return c.state }

// Reset sends the system reset command, waits the empirically required
// settle time, then polls for a StartupMessage (cmd 0x6F) up to
// resetAttempts times.
func (c *Controller) Reset() error {
	if err := c.codec.Send(CmdResetSystem, byte(0x00)); err != nil {
		return err
	}
	time.Sleep(resetSettleDelay)

	for attempt := 0; attempt < resetAttempts; attempt++ {
		frame, ok, err := c.codec.Decode()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if frame.Command == CmdStartupMessage {
			c.state = StateReset
			return nil
		}
	}
	return ErrProtocol("reset: no startup message received")
}

// configure sends one command frame and waits for a ChannelResponseEvent
// carrying EventNoError, the pattern shared by every channel-configuration
// operation.
func (c *Controller) configure(cmd byte, args ...interface{}) error {
	if err := c.codec.Send(cmd, args...); err != nil {
		return err
	}
	return c.awaitOK()
}

func (c *Controller) awaitOK() error {
	frame, ok, err := c.codec.Decode()
	if err != nil {
		return err
	}
	if !ok {
		return ErrReceiveFailed("no response to configuration command")
	}
	if frame.Command != CmdChannelResponse {
		return ErrProtocol("expected channel response, got cmd " + hexByte(frame.Command))
	}
	if len(frame.Payload) < 3 {
		return ErrProtocol("channel response payload too short")
	}
	if frame.Payload[2] != EventNoError {
		return ErrProtocol("channel response event " + EventName(frame.Payload[2]))
	}
	return nil
}

// SetNetworkKey sends a shared network key for a network index.
func (c *Controller) SetNetworkKey(networkIdx byte, key []byte) error {
	return c.configure(CmdSetNetworkKey, networkIdx, key)
}

// AssignChannel assigns the logical channel as a bidirectional slave.
func (c *Controller) AssignChannel() error {
	if err := c.configure(CmdAssignChannel, c.channelID, byte(0x00), byte(0x00)); err != nil {
		return err
	}
	c.state = StateConfigured
	return nil
}

func (c *Controller) SetChannelPeriod(period []byte) error {
	return c.configure(CmdSetChannelPeriod, c.channelID, period)
}

func (c *Controller) SetChannelFrequency(freq byte) error {
	return c.configure(CmdSetChannelFrequency, c.channelID, freq)
}

func (c *Controller) SetTransmitPower(power byte) error {
	return c.configure(CmdSetTransmitPower, byte(0x00), power)
}

func (c *Controller) SetSearchTimeout(timeout byte) error {
	return c.configure(CmdSetSearchTimeout, c.channelID, timeout)
}

func (c *Controller) SetChannelID(id []byte) error {
	return c.configure(CmdSetChannelId, c.channelID, id)
}

// OpenChannel transitions Configured->Open.
func (c *Controller) OpenChannel() error {
	if err := c.configure(CmdOpenChannel, c.channelID); err != nil {
		return err
	}
	c.state = StateOpen
	return nil
}

// CloseChannel transitions back to Closed, regardless of current state (the
// rekey sequence closes and reconfigures mid-session).
func (c *Controller) CloseChannel() error {
	if err := c.configure(CmdCloseChannel, c.channelID); err != nil {
		return err
	}
	c.state = StateClosed
	return nil
}

// DecodeFrame exposes one raw decode to callers (session's wait_for_beacon)
// that need to inspect frames the controller's own operations don't model.
func (c *Controller) DecodeFrame() (*Frame, bool, error) {
	return c.codec.Decode()
}

// SendAcknowledged emits an 8-byte acknowledged-data payload and reconciles
// the transmit outcome, retrying the whole send up to ackOuterRetries times.
func (c *Controller) SendAcknowledged(payload []byte) error {
	if len(payload) != 8 {
		return ErrProtocol("acknowledged send payload must be exactly 8 bytes")
	}

	var lastErr error
	for attempt := 0; attempt < ackOuterRetries; attempt++ {
		if err := c.codec.Send(CmdAcknowledgedData, c.channelID, payload); err != nil {
			lastErr = err
			continue
		}
		ok, err := c.reconcileTx()
		if err == nil && ok {
			return nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrTransmissionFailed("exhausted acknowledged-send retries")
	}
	return lastErr
}

// reconcileTx reads channel response events up to ackReconcileReads times,
// treating TX_START as still-in-progress, TX_COMPLETED as success, and
// TX_FAILED as failure.
func (c *Controller) reconcileTx() (bool, error) {
	for i := 0; i < ackReconcileReads; i++ {
		frame, ok, err := c.codec.Decode()
		if err != nil {
			return false, err
		}
		if !ok || frame.Command != CmdChannelResponse || len(frame.Payload) < 3 {
			continue
		}
		switch frame.Payload[2] {
		case EventTransferTxStart:
			continue
		case EventTransferTxCompleted:
			return true, nil
		case EventTransferTxFailed:
			return false, ErrTransmissionFailed("EVENT_TRANSFER_TX_FAILED")
		}
	}
	return false, ErrTransmissionFailed("transmit reconciliation exhausted")
}

// SendBurst splits data into 9-byte chunks (the caller has already baked the
// per-chunk seq/channel header into each chunk), emits them as cmd 0x50
// frames with a fixed inter-chunk delay, then reconciles the transmit
// outcome. The whole send is retried up to burstOuterRetries times.
func (c *Controller) SendBurst(data []byte) error {
	var lastErr error
	for attempt := 0; attempt < burstOuterRetries; attempt++ {
		sent := true
		for off := 0; off < len(data); off += burstChunkSize {
			end := off + burstChunkSize
			if end > len(data) {
				end = len(data)
			}
			if err := c.codec.Send(CmdBurstData, data[off:end]); err != nil {
				lastErr = err
				sent = false
				break
			}
			time.Sleep(burstChunkDelay)
		}
		if !sent {
			continue
		}
		ok, err := c.reconcileTx()
		if err == nil && ok {
			return nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrTransmissionFailed("exhausted burst-send retries")
	}
	return lastErr
}

// ReceiveAcknowledgedReply drains inbound frames up to ackReplyMaxReads
// times and returns the payload of the first cmd-0x4F frame, stripped of its
// leading channel byte.
func (c *Controller) ReceiveAcknowledgedReply() ([]byte, error) {
	for i := 0; i < ackReplyMaxReads; i++ {
		frame, ok, err := c.codec.Decode()
		if err != nil {
			return nil, err
		}
		if !ok || frame.Command != CmdAcknowledgedData {
			continue
		}
		if len(frame.Payload) < 1 {
			return nil, ErrProtocol("acknowledged reply payload too short")
		}
		return frame.Payload[1:], nil
	}
	return nil, ErrReceiveFailed("receive_acknowledged_reply exhausted its attempts")
}

// ReceiveBurst accumulates contiguous cmd-0x50 frames, stripping the
// seq_channel header byte from each, until a frame with bit 0x80 set in
// seq_channel (or a terminating cmd-0x4F frame) is seen.
func (c *Controller) ReceiveBurst() ([]byte, error) {
	var out []byte
	for i := 0; i < burstReplyMaxReads; i++ {
		frame, ok, err := c.codec.Decode()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		switch frame.Command {
		case CmdChannelResponse:
			if len(frame.Payload) >= 3 && frame.Payload[2] == EventTransferRxFailed {
				return nil, ErrReceiveFailed("EVENT_TRANSFER_RX_FAILED")
			}
		case CmdAcknowledgedData:
			if len(frame.Payload) > 0 {
				out = append(out, frame.Payload[1:]...)
			}
			return out, nil
		case CmdBurstData:
			if len(frame.Payload) == 0 {
				continue
			}
			seqChannel := frame.Payload[0]
			out = append(out, frame.Payload[1:]...)
			if seqChannel&0x80 != 0 {
				return out, nil
			}
		}
	}
	return nil, ErrReceiveFailed("burst receive exceeded frame cap")
}
