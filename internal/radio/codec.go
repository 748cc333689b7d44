package radio

import (
	"tracksync/internal/logging"
	"tracksync/internal/usb"
)

// maxTimeouts bounds how many consecutive transport timeouts Codec.Decode
// tolerates before it gives up on the current frame and clears rx_buffer.
const maxTimeouts = 3

// Codec turns a raw byte stream from a usb.Transport into Frames, holding an
// rx_buffer of undecoded tail bytes across calls and resynchronizing on
// corrupted input rather than failing outright.
type Codec struct {
	transport usb.Transport
	log       *logging.Logger

	rxBuffer []byte
	timeouts int
}

// NewCodec wraps a transport with frame decoding state.
func NewCodec(transport usb.Transport, log *logging.Logger) *Codec {
	return &Codec{transport: transport, log: log}
}

// Send encodes and writes one frame.
func (c *Codec) Send(cmd byte, args ...interface{}) error {
	if err := c.transport.Write(Encode(cmd, args...)); err != nil {
		return ErrTransport(err.Error())
	}
	return nil
}

// SendFrame writes an already-assembled payload under cmd.
func (c *Codec) SendFrame(cmd byte, payload []byte) error {
	if err := c.transport.Write(EncodeFrame(cmd, payload)); err != nil {
		return ErrTransport(err.Error())
	}
	return nil
}

// Decode returns the next complete frame, or ok=false if the read budget was
// exhausted without finding one. It never blocks indefinitely: while fewer
// than minFrameLen bytes are buffered, after maxTimeouts consecutive
// transport timeouts it attempts one relaxed best-effort scan of whatever is
// buffered, then surrenders. A timeout at any later point (no sync byte in
// the buffer, or a frame only partly buffered) returns ok=false at once,
// keeping a partly buffered frame for the next call.
func (c *Codec) Decode() (frame *Frame, ok bool, err error) {
	for {
		if len(c.rxBuffer) < minFrameLen {
			if filled := c.fill(); !filled {
				if c.timeouts >= maxTimeouts {
					if f := c.relaxedScan(); f != nil {
						c.timeouts = 0
						return f, true, nil
					}
					c.rxBuffer = nil
					c.timeouts = 0
					return nil, false, nil
				}
				continue
			}
		}

		start := c.findSync(0)
		if start < 0 {
			// No sync byte anywhere in the buffer: nothing usable, drop it
			// all and wait for more data.
			c.rxBuffer = nil
			if filled := c.fill(); !filled {
				return nil, false, nil
			}
			continue
		}
		c.rxBuffer = c.rxBuffer[start:]

		if len(c.rxBuffer) < 2 {
			if filled := c.fill(); !filled {
				return nil, false, nil
			}
			continue
		}

		lenByte := int(c.rxBuffer[1])
		if lenByte < 0 || lenByte > maxPayload {
			next := c.findSync(1)
			if next < 0 {
				c.rxBuffer = nil
				continue
			}
			c.rxBuffer = c.rxBuffer[next:]
			continue
		}

		total := lenByte + 4 // sync(1) + len(1) + cmd(1) + payload(lenByte) + checksum(1)
		if len(c.rxBuffer) < total {
			if filled := c.fill(); !filled {
				return nil, false, nil
			}
			continue
		}

		candidate := c.rxBuffer[:total]
		if xorAll(candidate) != 0 {
			next := c.findSync(1)
			if next < 0 {
				c.rxBuffer = nil
				continue
			}
			c.rxBuffer = c.rxBuffer[next:]
			continue
		}

		c.rxBuffer = c.rxBuffer[total:]
		return &Frame{
			Command: candidate[2],
			Payload: append([]byte(nil), candidate[3:total-1]...),
		}, true, nil
	}
}

// fill issues one read on the transport and appends it to rx_buffer,
// returning false on timeout (after bumping the consecutive-timeout
// counter) and true otherwise (resetting it).
func (c *Codec) fill() bool {
	data, err := c.transport.Read(4096)
	if err != nil {
		if err == usb.ErrTimeout {
			c.timeouts++
			return false
		}
		c.log.Debug("transport read error: %v", err)
		c.timeouts++
		return false
	}
	c.timeouts = 0
	c.rxBuffer = append(c.rxBuffer, data...)
	return true
}

// findSync scans rx_buffer from start for the first sync or alt-sync byte,
// returning its index or -1 if none is present.
func (c *Codec) findSync(start int) int {
	for i := start; i < len(c.rxBuffer); i++ {
		if c.rxBuffer[i] == SyncByte || c.rxBuffer[i] == AltSyncByte {
			return i
		}
	}
	return -1
}

// relaxedScan is the best-effort recovery path after repeated timeouts: try
// to decode whatever full frame already sits in rx_buffer without issuing
// further reads, otherwise give up.
func (c *Codec) relaxedScan() *Frame {
	start := c.findSync(0)
	if start < 0 {
		return nil
	}
	buf := c.rxBuffer[start:]
	if len(buf) < minFrameLen {
		return nil
	}
	lenByte := int(buf[1])
	if lenByte < 0 || lenByte > maxPayload {
		return nil
	}
	total := lenByte + 4
	if len(buf) < total {
		return nil
	}
	candidate := buf[:total]
	if xorAll(candidate) != 0 {
		return nil
	}
	c.rxBuffer = c.rxBuffer[start+total:]
	return &Frame{Command: candidate[2], Payload: append([]byte(nil), candidate[3:total-1]...)}
}
