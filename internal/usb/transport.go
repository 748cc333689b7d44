// Package usb wraps gousb to provide the bulk-transfer transport the radio
// codec rides on, plus the two base-station variants the driver supports.
package usb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"

	"tracksync/internal/logging"
)

// Endpoint addresses, fixed by the base station's USB descriptor.
const (
	EndpointOut = 0x01
	EndpointIn  = 0x81

	writeTimeout        = 100 * time.Millisecond
	defaultReadTimeout  = 1000 * time.Millisecond
)

// ErrTimeout is returned by Read when the bulk-IN transfer exceeds its
// deadline, distinct from a successful zero-length read.
var ErrTimeout = errors.New("usb: read timeout")

// Transport is the boundary the radio codec depends on: open/close a USB
// bulk connection to a base station and move bytes in both directions.
type Transport interface {
	Write(data []byte) error
	Read(maxLen int) ([]byte, error)
	Close() error
}

// Device is a gousb-backed Transport for one base-station variant.
type Device struct {
	variant Variant
	log     *logging.Logger

	readTimeout time.Duration

	ctx    *gousb.Context
	dev    *gousb.Device
	cfg    *gousb.Config
	intf   *gousb.Interface
	epOut  *gousb.OutEndpoint
	epIn   *gousb.InEndpoint
}

// Open finds the device by the variant's VID/PID, selects its configuration,
// applies a bus reset, re-selects the configuration (required on at least
// one host OS per the original driver's comment), claims the interface, and
// — for variants that need it — runs the vendor control-transfer init
// sequence before any radio I/O.
func Open(variant Variant, log *logging.Logger) (*Device, bool, error) {
	ctx := gousb.NewContext()

	vid, pid := variant.VIDPID()
	dev, err := ctx.OpenDeviceWithVIDPID(vid, pid)
	if err != nil {
		ctx.Close()
		return nil, false, fmt.Errorf("usb: open %s (vid=0x%04x pid=0x%04x): %w", variant.Name(), vid, pid, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, false, nil
	}

	if _, err := dev.Config(1); err != nil {
		dev.Close()
		ctx.Close()
		return nil, false, fmt.Errorf("usb: set config: %w", err)
	}
	if err := dev.Reset(); err != nil {
		log.Warn("bus reset failed (continuing): %v", err)
	}
	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, false, fmt.Errorf("usb: re-set config after reset: %w", err)
	}

	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, false, fmt.Errorf("usb: claim interface: %w", err)
	}

	epOut, err := intf.OutEndpoint(EndpointOut)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, false, fmt.Errorf("usb: open OUT endpoint: %w", err)
	}
	epIn, err := intf.InEndpoint(EndpointIn)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, false, fmt.Errorf("usb: open IN endpoint: %w", err)
	}

	d := &Device{
		variant:     variant,
		log:         log,
		readTimeout: defaultReadTimeout,
		ctx:         ctx,
		dev:         dev,
		cfg:         cfg,
		intf:        intf,
		epOut:       epOut,
		epIn:        epIn,
	}

	if variant.NeedsVendorInit() {
		if err := variant.VendorInit(d); err != nil {
			d.Close()
			return nil, true, fmt.Errorf("usb: vendor init: %w", err)
		}
	}

	return d, true, nil
}

// SetReadTimeout overrides the default 1000ms bulk-IN deadline.
func (d *Device) SetReadTimeout(timeout time.Duration) {
	d.readTimeout = timeout
}

// Write performs a bulk-OUT transfer with a short, fixed timeout: writes are
// treated as non-blocking at the protocol layer.
func (d *Device) Write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := d.epOut.WriteContext(ctx, data)
	if err != nil {
		return fmt.Errorf("usb: bulk write: %w", err)
	}
	return nil
}

// Read performs a bulk-IN transfer up to maxLen bytes, returning ErrTimeout
// distinctly from a successful empty read.
func (d *Device) Read(maxLen int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.readTimeout)
	defer cancel()

	buf := make([]byte, maxLen)
	n, err := d.epIn.ReadContext(ctx, buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("usb: bulk read: %w", err)
	}
	return buf[:n], nil
}

// controlTransfer issues one vendor control transfer, matching
// FitBitANT.init's (bmRequestType, bRequest, wValue, wIndex, data) calls. A
// non-zero readLen performs a device-to-host transfer instead of writing
// data.
func (d *Device) controlTransfer(requestType, request uint8, value, index uint16, data []byte, readLen int) ([]byte, error) {
	if readLen > 0 {
		buf := make([]byte, readLen)
		n, err := d.dev.Control(requestType, request, value, index, buf)
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}
	_, err := d.dev.Control(requestType, request, value, index, data)
	return nil, err
}

// DiscardRead performs a best-effort bulk-IN read and ignores a timeout,
// matching the vendor-init sequence's final "tolerate and discard" read.
func (d *Device) DiscardRead(maxLen int) {
	if _, err := d.Read(maxLen); err != nil && !errors.Is(err, ErrTimeout) {
		d.log.Debug("discard read: %v", err)
	}
}

// Close releases the interface, configuration, device, and context.
func (d *Device) Close() error {
	if d.intf != nil {
		d.intf.Close()
	}
	if d.cfg != nil {
		d.cfg.Close()
	}
	var err error
	if d.dev != nil {
		err = d.dev.Close()
	}
	if d.ctx != nil {
		d.ctx.Close()
	}
	return err
}
