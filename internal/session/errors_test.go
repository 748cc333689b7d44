package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionErrorMessageIncludesCodeAndDetails(t *testing.T) {
	err := ErrPacketIDMismatch("expected 0x39, got 0x3A")
	assert.Contains(t, err.Error(), "[2]")
	assert.Contains(t, err.Error(), "packet id mismatch")
	assert.Contains(t, err.Error(), "0x39")
}

func TestSessionErrorWithoutDetailsOmitsColon(t *testing.T) {
	err := &SessionError{Code: ErrCodeBeaconTimeout, Message: "no tracker beacon observed"}
	assert.Equal(t, "session: [1] no tracker beacon observed", err.Error())
}
