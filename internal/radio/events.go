package radio

// Event codes carried in a ChannelResponseEvent (cmd 0x40) payload's third
// byte, per the radio's response/event message.
const (
	EventNoError                 = 0x00
	EventRxSearchTimeout         = 0x01
	EventRxFail                  = 0x02
	EventTx                      = 0x03
	EventTransferRxFailed        = 0x04
	EventTransferTxCompleted     = 0x05
	EventTransferTxFailed        = 0x06
	EventChannelClosed           = 0x07
	EventRxFailGoToSearch        = 0x08
	EventChannelCollision        = 0x09
	EventTransferTxStart         = 0x0A
	ChannelInWrongState          = 0x15
	ChannelNotOpened             = 0x16
	ChannelIDNotSet              = 0x18
	CloseAllChannels             = 0x19
	TransferInProgress           = 0x1F
	TransferSequenceNumberError  = 0x20
	TransferInError              = 0x21
	InvalidMessage               = 0x28
	InvalidNetworkNumber         = 0x29
	InvalidListID                = 0x30
	InvalidScanTxChannel         = 0x31
	InvalidParameterProvided     = 0x33
	EventQueueOverflow           = 0x35
	NVMFullError                 = 0x40
	NVMWriteError                = 0x41
	AssignChannelID              = 0x42
	SetChannelID                 = 0x51
	OpenChannelEvent             = 0x4B
)

var eventNames = map[byte]string{
	EventNoError:                "RESPONSE_NO_ERROR",
	EventRxSearchTimeout:        "EVENT_RX_SEARCH_TIMEOUT",
	EventRxFail:                 "EVENT_RX_FAIL",
	EventTx:                     "EVENT_TX",
	EventTransferRxFailed:       "EVENT_TRANSFER_RX_FAILED",
	EventTransferTxCompleted:    "EVENT_TRANSFER_TX_COMPLETED",
	EventTransferTxFailed:       "EVENT_TRANSFER_TX_FAILED",
	EventChannelClosed:          "EVENT_CHANNEL_CLOSED",
	EventRxFailGoToSearch:       "EVENT_RX_FAIL_GO_TO_SEARCH",
	EventChannelCollision:       "EVENT_CHANNEL_COLLISION",
	EventTransferTxStart:        "EVENT_TRANSFER_TX_START",
	ChannelInWrongState:         "CHANNEL_IN_WRONG_STATE",
	ChannelNotOpened:            "CHANNEL_NOT_OPENED",
	ChannelIDNotSet:             "CHANNEL_ID_NOT_SET",
	CloseAllChannels:            "CLOSE_ALL_CHANNELS",
	TransferInProgress:          "TRANSFER_IN_PROGRESS",
	TransferSequenceNumberError: "TRANSFER_SEQUENCE_NUMBER_ERROR",
	TransferInError:             "TRANSFER_IN_ERROR",
	InvalidMessage:              "INVALID_MESSAGE",
	InvalidNetworkNumber:        "INVALID_NETWORK_NUMBER",
	InvalidListID:               "INVALID_LIST_ID",
	InvalidScanTxChannel:        "INVALID_SCAN_TX_CHANNEL",
	InvalidParameterProvided:    "INVALID_PARAMETER_PROVIDED",
	EventQueueOverflow:          "EVENT_QUE_OVERFLOW",
	NVMFullError:                "NVM_FULL_ERROR",
	NVMWriteError:               "NVM_WRITE_ERROR",
	AssignChannelID:             "ASSIGN_CHANNEL_ID",
	SetChannelID:                "SET_CHANNEL_ID",
	OpenChannelEvent:            "OPEN_CHANNEL",
}

// EventName returns the diagnostic name for an event code, or its hex value
// if unrecognized.
func EventName(code byte) string {
	if name, ok := eventNames[code]; ok {
		return name
	}
	return hexByte(code)
}

func hexByte(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{'0', 'x', hex[b>>4], hex[b&0xF]})
}
