package radio

import "tracksync/internal/usb"

// fakeTransport is an in-memory usb.Transport: writes are recorded, reads
// are served from a queue of pre-loaded byte slices (one per Read call),
// and an exhausted queue reports usb.ErrTimeout the way a real bulk-IN
// transfer would on an idle base station.
type fakeTransport struct {
	writes [][]byte
	reads  [][]byte
	pos    int
	closed bool
}

func newFakeTransport(reads ...[]byte) *fakeTransport {
	return &fakeTransport{reads: reads}
}

func (f *fakeTransport) Write(data []byte) error {
	cp := append([]byte(nil), data...)
	f.writes = append(f.writes, cp)
	return nil
}

func (f *fakeTransport) Read(maxLen int) ([]byte, error) {
	if f.pos >= len(f.reads) {
		return nil, usb.ErrTimeout
	}
	chunk := f.reads[f.pos]
	f.pos++
	if len(chunk) > maxLen {
		chunk = chunk[:maxLen]
	}
	return chunk, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}
