package session

import "tracksync/internal/radio"

const dataBankMaxIterations = 2000

// firstBankCmd and subsequentBankCmd are the two data-bank paging opcodes:
// 0x70 opens a fresh bank fetch, 0x60 continues it.
const (
	firstBankCmd      byte = 0x70
	subsequentBankCmd byte = 0x60

	trackerBurstMarker byte = 0x81
)

// getDataBank pages through the tracker's current data bank: it sends a
// cmd-0x70 page request, then cmd-0x60 for every subsequent page, until a
// page reports zero remaining bytes. Bounded to dataBankMaxIterations pages.
func (s *TrackerSession) getDataBank() ([]byte, error) {
	var data []byte
	cmd := firstBankCmd

	for i := 0; i < dataBankMaxIterations; i++ {
		bank, err := s.checkDataBank(s.currentBankID, cmd)
		if err != nil {
			return nil, err
		}
		s.currentBankID++
		cmd = subsequentBankCmd

		if len(bank) == 0 {
			return data, nil
		}
		data = append(data, bank...)
	}
	return nil, ErrDataBankOverrun("exceeded 2000 page requests")
}

// checkDataBank emits one tracker packet requesting page index of the
// current bank under cmd, then reads the resulting burst and extracts its
// size-prefixed payload.
func (s *TrackerSession) checkDataBank(index uint32, cmd byte) ([]byte, error) {
	packet := buildPacket(s.seq.Next(), []byte{cmd, 0x00, 0x02, byte(index), 0x00, 0x00, 0x00})
	if err := s.controller.SendAcknowledged(packet); err != nil {
		return nil, err
	}

	burst, err := s.controller.ReceiveBurst()
	if err != nil {
		return nil, err
	}
	return parseBankBurst(burst)
}

// parseBankBurst validates the tracker-burst marker and slices out the
// size-prefixed payload from a raw accumulated burst, per spec §4.4.6.
func parseBankBurst(d []byte) ([]byte, error) {
	if len(d) < 8 {
		if len(d) >= 2 && d[1] == trackerBurstMarker {
			return nil, nil
		}
		return nil, radio.ErrProtocol("data bank burst too short")
	}
	if d[1] != trackerBurstMarker {
		return nil, ErrBurstMarker("expected 0x81 tracker-burst marker")
	}
	size := uint16(d[2]) | uint16(d[3])<<8
	if size == 0 {
		return nil, nil
	}
	end := 8 + int(size)
	if end > len(d) {
		end = len(d)
	}
	return d[8:end], nil
}
