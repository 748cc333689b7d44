//go:build linux

package diag

import (
	"fmt"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/ringbuf"
	"github.com/cilium/ebpf/rlimit"
)

// FrameEvent is one USB bulk-transfer event surfaced by the ring buffer, for
// callers that want a kernel-side view of frame timing.
type FrameEvent struct {
	Bytes     uint32
	Direction uint8 // 0 = OUT, 1 = IN
}

// frameObjects mirrors the program/map pair a compiled tracer.bpf.c would
// produce: one tracepoint program attached to usb_submit_urb, and a ring
// buffer map it publishes FrameEvents into.
type frameObjects struct {
	TraceSubmitURB *ebpf.Program `ebpf:"trace_submit_urb"`
	FrameEvents    *ebpf.Map     `ebpf:"frame_events"`
}

func (o *frameObjects) Close() error {
	if o.TraceSubmitURB != nil {
		o.TraceSubmitURB.Close()
	}
	if o.FrameEvents != nil {
		o.FrameEvents.Close()
	}
	return nil
}

// loadFrameObjects loads the compiled tracer objects. The actual bytecode
// is produced by a separate bpf2go build step outside this module's scope;
// until that step is wired in, this returns an error rather than silently
// running without a tracer.
func loadFrameObjects(obj *frameObjects, opts *ebpf.CollectionOptions) error {
	return fmt.Errorf("diag: no compiled frame tracer object available")
}

// FrameTracer loads the tracer objects and decodes FrameEvents from their
// ring buffer. It does not attach the program to a tracepoint itself.
type FrameTracer struct {
	objs   frameObjects
	reader *ringbuf.Reader
}

// NewFrameTracer removes the memlock limit, loads the tracer program, and
// opens its ring buffer for reading.
func NewFrameTracer() (*FrameTracer, error) {
	if err := rlimit.RemoveMemlock(); err != nil {
		return nil, fmt.Errorf("diag: remove memlock rlimit: %w", err)
	}

	var objs frameObjects
	if err := loadFrameObjects(&objs, nil); err != nil {
		return nil, fmt.Errorf("diag: load frame tracer objects: %w", err)
	}

	reader, err := ringbuf.NewReader(objs.FrameEvents)
	if err != nil {
		objs.Close()
		return nil, fmt.Errorf("diag: open ring buffer reader: %w", err)
	}

	return &FrameTracer{objs: objs, reader: reader}, nil
}

// Next blocks for the next frame event, or returns an error once the reader
// is closed.
func (t *FrameTracer) Next() (FrameEvent, error) {
	record, err := t.reader.Read()
	if err != nil {
		return FrameEvent{}, err
	}
	if len(record.RawSample) < 5 {
		return FrameEvent{}, fmt.Errorf("diag: short ring buffer record (%d bytes)", len(record.RawSample))
	}
	bytesLen := uint32(record.RawSample[0]) | uint32(record.RawSample[1])<<8 |
		uint32(record.RawSample[2])<<16 | uint32(record.RawSample[3])<<24
	return FrameEvent{Bytes: bytesLen, Direction: record.RawSample[4]}, nil
}

// Close releases the ring buffer reader and the loaded BPF objects.
func (t *FrameTracer) Close() error {
	err := t.reader.Close()
	t.objs.Close()
	return err
}
