// Package tracksync is the public facade over the driver's internal
// packages: open a base station, bring up a tracker session, and run a
// sync. Internal packages implement the protocol; this package is the
// surface other programs import.
package tracksync

import (
	"tracksync/internal/config"
	"tracksync/internal/logging"
	"tracksync/internal/session"
	"tracksync/internal/usb"
)

// Client owns one tracker session end to end.
type Client struct {
	session *session.TrackerSession
	log     *logging.Logger
}

// Open resolves the configured base variant, claims the USB device, and
// returns a Client ready for Sync. Callers must Close it when done.
func Open(cfg config.DriverConfig) (*Client, error) {
	log, err := logging.Open(cfg.LogOutput, "tracksync", logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}

	variant, ok := usb.Lookup(cfg.Base)
	if !ok {
		return nil, config.ErrUnknownBase(cfg.Base)
	}

	sess, err := session.Open(variant, cfg.ChannelID, cfg.ReadTimeoutMs, log)
	if err != nil {
		return nil, err
	}
	return &Client{session: sess, log: log}, nil
}

// Close releases the underlying USB device.
func (c *Client) Close() error {
	return c.session.Close()
}

// SyncResult summarizes one completed sync pass.
type SyncResult struct {
	Info  session.TrackerInfo
	Banks map[byte][]byte
}

// Sync runs session bring-up, fetches tracker info, then reads every bank
// index in banks, returning each bank's accumulated payload.
func (c *Client) Sync(banks []byte) (*SyncResult, error) {
	if err := c.session.InitForTransfer(); err != nil {
		return nil, err
	}

	info, err := c.session.GetInfo()
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Info: info, Banks: make(map[byte][]byte, len(banks))}
	for _, bank := range banks {
		data, err := c.session.ReadDataBank(bank)
		if err != nil {
			return nil, err
		}
		result.Banks[bank] = data
	}
	return result, nil
}

// Session exposes the underlying session for callers that need finer-
// grained control than Sync provides (the CLI's live-progress TUI, for
// instance).
func (c *Client) Session() *session.TrackerSession { return c.session }
