package session

import "fmt"

// TrackerInfo is the parsed result of the getInfo opcode (0x24), per spec
// §6.4.
type TrackerInfo struct {
	Serial         []byte
	FirmwareVer    byte
	BSLMajor       byte
	BSLMinor       byte
	AppMajor       byte
	AppMinor       byte
	InBSLMode      bool
	OnCharger      bool
}

// parseInfo decodes a getInfo reply payload into a TrackerInfo.
func parseInfo(data []byte) (TrackerInfo, error) {
	if len(data) < 12 {
		return TrackerInfo{}, fmt.Errorf("session: info packet too short: got %d bytes", len(data))
	}
	return TrackerInfo{
		Serial:      append([]byte(nil), data[0:5]...),
		FirmwareVer: data[5],
		BSLMajor:    data[6],
		BSLMinor:    data[7],
		AppMajor:    data[8],
		AppMinor:    data[9],
		InBSLMode:   data[10] != 0,
		OnCharger:   data[11] != 0,
	}, nil
}

func (t TrackerInfo) String() string {
	return fmt.Sprintf(
		"Tracker Serial: %x\nFirmware Version: %d\nBSL Version: %d.%d\nAPP Version: %d.%d\nIn Mode BSL? %v\nOn Charger? %v\n",
		t.Serial, t.FirmwareVer, t.BSLMajor, t.BSLMinor, t.AppMajor, t.AppMinor, t.InBSLMode, t.OnCharger,
	)
}
