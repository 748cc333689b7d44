package usb

// Variant names one base-station hardware family: its USB identity and,
// for bases that need it, the vendor control-transfer bring-up sequence
// that must run before any bulk I/O.
type Variant interface {
	Name() string
	VIDPID() (vid, pid uint16)
	NeedsVendorInit() bool
	VendorInit(d *Device) error
}

// Dynastream is the Garmin/Suunto ANT+ USB stick: plain bulk transport, no
// vendor bring-up sequence.
type Dynastream struct{}

func (Dynastream) Name() string                { return "Dynastream" }
func (Dynastream) VIDPID() (uint16, uint16)     { return 0x0fcf, 0x1008 }
func (Dynastream) NeedsVendorInit() bool        { return false }
func (Dynastream) VendorInit(*Device) error     { return nil }

// FitBit is the original FitBit base station. It carries extra hardware to
// manage tracker docking/charging and needs a CP210x-style vendor
// control-transfer sequence before the bulk endpoints will talk.
type FitBit struct{}

func (FitBit) Name() string            { return "FitBit" }
func (FitBit) VIDPID() (uint16, uint16) { return 0x10c4, 0x84c4 }
func (FitBit) NeedsVendorInit() bool    { return true }

// VendorInit replays the FitBit base's control-transfer bring-up, byte for
// byte: a sequence of vendor OUT transfers, one 1-byte status IN transfer
// expected to read back 0x02, and a final best-effort bulk read that
// tolerates a timeout.
func (FitBit) VendorInit(d *Device) error {
	const (
		reqTypeOut = 0x40
		reqTypeIn  = 0xC0
	)

	xfers := []struct {
		request uint8
		value   uint16
		index   uint16
		data    []byte
	}{
		{0x00, 0xFFFF, 0x0, nil},
		{0x01, 0x2000, 0x0, nil},
		{0x00, 0x0, 0x0, nil},
		{0x00, 0xFFFF, 0x0, nil},
		{0x01, 0x2000, 0x0, nil},
		{0x01, 0x4A, 0x0, nil},
	}
	for _, x := range xfers {
		if _, err := d.controlTransfer(reqTypeOut, x.request, x.value, x.index, x.data, 0); err != nil {
			return err
		}
	}

	// Status read: should come back 0x02, but the original driver never
	// actually checks it, so neither do we.
	if _, err := d.controlTransfer(reqTypeIn, 0xFF, 0x370B, 0x0, nil, 1); err != nil {
		return err
	}

	tail := []struct {
		request uint8
		value   uint16
		index   uint16
		data    []byte
	}{
		{0x03, 0x800, 0x0, nil},
		{0x13, 0x0, 0x0, []byte{
			0x08, 0x00, 0x00, 0x00,
			0x40, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
		}},
		{0x12, 0x0C, 0x0, nil},
	}
	for _, x := range tail {
		if _, err := d.controlTransfer(reqTypeOut, x.request, x.value, x.index, x.data, 0); err != nil {
			return err
		}
	}

	// The base emits junk on the bulk-IN endpoint after bring-up; drain and
	// discard it, tolerating a timeout if nothing arrives.
	d.DiscardRead(maxReadBuf)
	return nil
}

const maxReadBuf = 4096

// Lookup resolves a config.DriverConfig's Base string to a Variant.
func Lookup(base string) (Variant, bool) {
	switch base {
	case "fitbit":
		return FitBit{}, true
	case "dynastream":
		return Dynastream{}, true
	default:
		return nil, false
	}
}
