// Package session implements the tracker-facing protocol layer: packet-id
// sequencing, bring-up/rekey, opcode dispatch, and paged data-bank
// retrieval, built on top of a radio.Controller.
package session

import (
	"crypto/rand"
	"time"

	"tracksync/internal/logging"
	"tracksync/internal/radio"
	"tracksync/internal/usb"
)

const beaconWaitAttempts = 75

// rendezvousChannelID is the fixed channel id a tracker answers on before
// rekeying to a private channel, per spec §4.4.2.
var rendezvousChannelID = []byte{0xFF, 0xFF, 0x01, 0x01}

// TrackerSession drives one tracker sync from bring-up through opcode
// dispatch. It owns the radio.Controller exclusively for its lifetime.
type TrackerSession struct {
	controller *radio.Controller
	transport  usb.Transport
	log        *logging.Logger

	channelID     byte
	seq           *sequence
	currentBankID uint32
	info          TrackerInfo
}

// Open claims the USB device for variant, builds a controller on
// channelID, and returns a session ready for InitForTransfer.
func Open(variant usb.Variant, channelID byte, readTimeoutMs int, log *logging.Logger) (*TrackerSession, error) {
	dev, found, err := usb.Open(variant, log)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, radio.ErrTransport("no base station device found")
	}
	dev.SetReadTimeout(time.Duration(readTimeoutMs) * time.Millisecond)

	return &TrackerSession{
		controller: radio.NewController(dev, channelID, log),
		transport:  dev,
		log:        log,
		channelID:  channelID,
		seq:        newSequence(),
	}, nil
}

// Close releases the underlying USB device.
func (s *TrackerSession) Close() error {
	return s.transport.Close()
}

// Info returns the most recently fetched tracker metadata.
func (s *TrackerSession) Info() TrackerInfo { return s.info }

// InitForTransfer runs the full bring-up sequence of spec §4.4.2: configure
// the rendezvous channel, wait for the tracker's beacon, reset it, rekey it
// onto a private channel, wait for its beacon again, then ping it.
func (s *TrackerSession) InitForTransfer() error {
	if err := s.initChannel(rendezvousChannelID); err != nil {
		return err
	}
	if err := s.waitForBeacon(); err != nil {
		return err
	}
	if err := s.ResetTracker(); err != nil {
		return err
	}

	var cid [2]byte
	rand.Read(cid[:])
	cid0, cid1 := cid[0], cid[1]
	if err := s.Rekey(cid0, cid1); err != nil {
		return err
	}
	if err := s.controller.CloseChannel(); err != nil {
		return err
	}

	if err := s.initChannel([]byte{cid0, cid1, 0x01, 0x01}); err != nil {
		return err
	}
	if err := s.waitForBeacon(); err != nil {
		return err
	}
	return s.Ping()
}

// initChannel runs the device-channel configuration sequence (reset,
// network key, channel assignment, period/frequency/power/search-timeout,
// channel id, open) on the given 4-byte channel id.
func (s *TrackerSession) initChannel(channelID []byte) error {
	if err := s.controller.Reset(); err != nil {
		return err
	}
	if err := s.controller.SetNetworkKey(0, []byte{0, 0, 0, 0, 0, 0, 0, 0}); err != nil {
		return err
	}
	if err := s.controller.AssignChannel(); err != nil {
		return err
	}
	if err := s.controller.SetChannelPeriod([]byte{0x00, 0x10}); err != nil {
		return err
	}
	if err := s.controller.SetChannelFrequency(0x02); err != nil {
		return err
	}
	if err := s.controller.SetTransmitPower(0x03); err != nil {
		return err
	}
	if err := s.controller.SetSearchTimeout(0xFF); err != nil {
		return err
	}
	if err := s.controller.SetChannelID(channelID); err != nil {
		return err
	}
	return s.controller.OpenChannel()
}

// waitForBeacon decodes frames until one is a BroadcastData frame (cmd
// 0x4E) from the tracker, up to beaconWaitAttempts times.
func (s *TrackerSession) waitForBeacon() error {
	for i := 0; i < beaconWaitAttempts; i++ {
		frame, ok, err := s.controller.DecodeFrame()
		if err != nil {
			continue
		}
		if ok && frame.Command == radio.CmdBroadcastData {
			return nil
		}
	}
	return ErrBeaconTimeout("no beacon within attempt budget")
}

// ResetTracker, Ping and Rekey send their fixed command vectors directly:
// unlike opcode dispatch, these bring-up sends never carry a packet id.
func (s *TrackerSession) ResetTracker() error {
	return s.controller.SendAcknowledged([]byte{0x78, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
}

func (s *TrackerSession) Ping() error {
	return s.controller.SendAcknowledged([]byte{0x78, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
}

// Rekey tells the tracker to hop to a private channel id (cid0, cid1) for
// the rest of the transfer. Callers that only want the raw command (rather
// than the full channel-switch dance in InitForTransfer) can call this
// directly.
func (s *TrackerSession) Rekey(cid0, cid1 byte) error {
	return s.controller.SendAcknowledged([]byte{0x78, 0x02, cid0, cid1, 0x00, 0x00, 0x00, 0x00})
}
