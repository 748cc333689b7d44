//go:build !linux

package diag

import "errors"

// FrameEvent mirrors the Linux build's type so callers can compile against
// one API regardless of host OS.
type FrameEvent struct {
	Bytes     uint32
	Direction uint8
}

// FrameTracer is a no-op stand-in: eBPF tracepoints only attach on Linux.
type FrameTracer struct{}

// NewFrameTracer always fails on non-Linux hosts.
func NewFrameTracer() (*FrameTracer, error) {
	return nil, errors.New("diag: frame tracer requires linux")
}

func (t *FrameTracer) Next() (FrameEvent, error) {
	return FrameEvent{}, errors.New("diag: frame tracer requires linux")
}

func (t *FrameTracer) Close() error { return nil }
