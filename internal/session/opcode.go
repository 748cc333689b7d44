package session

const opcodeAttempts = 4

// Opcode classification bytes carried as the second byte of an opcode reply.
const (
	classBurstResult   byte = 0x42
	classWantsPayload  byte = 0x61
	classImmediateDone byte = 0x41
)

// runOpcode implements spec §4.4.4: emit opcodeBytes as a tracker packet, up
// to opcodeAttempts times, retrying on transport failure or a packet-id
// mismatch, and dispatching on the reply's classification byte.
func (s *TrackerSession) runOpcode(opcodeBytes []byte, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < opcodeAttempts; attempt++ {
		id := s.seq.Next()
		packet := buildPacket(id, opcodeBytes)
		if err := s.controller.SendAcknowledged(packet); err != nil {
			lastErr = err
			continue
		}

		reply, err := s.controller.ReceiveAcknowledgedReply()
		if err != nil {
			lastErr = err
			continue
		}
		if len(reply) < 2 {
			lastErr = ErrPacketIDMismatch("reply too short")
			continue
		}
		if reply[0] != id {
			lastErr = ErrPacketIDMismatch("expected reply to packet id")
			continue
		}

		switch reply[1] {
		case classBurstResult:
			return s.getDataBank()
		case classWantsPayload:
			if payload == nil {
				return nil, ErrPayloadRequired("opcode requires a payload upload")
			}
			if err := s.sendTrackerPayload(payload); err != nil {
				return nil, err
			}
			final, err := s.controller.ReceiveAcknowledgedReply()
			if err != nil {
				return nil, err
			}
			if len(final) < 1 {
				return nil, ErrPacketIDMismatch("final reply too short")
			}
			return final[1:], nil
		case classImmediateDone:
			return reply[1:], nil
		default:
			lastErr = ErrOpcodeExhausted("unrecognized classification byte")
			continue
		}
	}
	if lastErr == nil {
		lastErr = ErrOpcodeExhausted("no attempts succeeded")
	}
	return nil, lastErr
}

// sendTrackerPayload builds and bursts the payload-upload byte stream for
// the "0x61" classification.
func (s *TrackerSession) sendTrackerPayload(payload []byte) error {
	burst := buildPayloadBurst(s.seq.Next(), s.channelID, payload)
	return s.controller.SendBurst(burst)
}

// GetInfo runs the getInfo opcode (0x24) and caches the parsed result.
func (s *TrackerSession) GetInfo() (TrackerInfo, error) {
	data, err := s.runOpcode([]byte{0x24, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, nil)
	if err != nil {
		return TrackerInfo{}, err
	}
	info, err := parseInfo(data)
	if err != nil {
		return TrackerInfo{}, err
	}
	s.info = info
	return info, nil
}

// ReadDataBank runs the readDataBank opcode (0x22) for a bank index.
func (s *TrackerSession) ReadDataBank(index byte) ([]byte, error) {
	return s.runOpcode([]byte{0x22, index, 0x00, 0x00, 0x00, 0x00, 0x00}, nil)
}

// EraseDataBank runs the eraseDataBank opcode (0x25) for a bank index,
// stamping it with a big-endian unix timestamp.
func (s *TrackerSession) EraseDataBank(index byte, unixTimestamp uint32) ([]byte, error) {
	return s.runOpcode([]byte{
		0x25, index,
		byte(unixTimestamp >> 24), byte(unixTimestamp >> 16),
		byte(unixTimestamp >> 8), byte(unixTimestamp),
		0x00,
	}, nil)
}

// Sleep sends the sleep command (0x7F 0x03), matching command_sleep's raw
// acknowledged-data send: like ResetTracker/Ping/Rekey, it carries no
// packet id.
func (s *TrackerSession) Sleep() error {
	return s.controller.SendAcknowledged([]byte{0x7F, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x3C})
}
