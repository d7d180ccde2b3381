package kfmt

import "io"

// ringBufferSize defines the size of the ring buffer that captures early
// Printf output. It must be a power of 2.
const ringBufferSize = 2048

// ringBuffer buffers the output of Printf until an output sink is registered.
// Once full, the oldest buffered output gets overwritten first. The read and
// write offsets grow monotonically and are masked on each access.
type ringBuffer struct {
	data       [ringBufferSize]byte
	rOff, wOff uint32
}

// Write writes len(p) bytes from p to the ringBuffer.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.data[rb.wOff&(ringBufferSize-1)] = b
		rb.wOff++
		if rb.wOff-rb.rOff > ringBufferSize {
			rb.rOff = rb.wOff - ringBufferSize
		}
	}

	return len(p), nil
}

// Read reads up to len(p) bytes into p. It returns the number of bytes read
// and io.EOF once the buffer has been fully drained.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.rOff == rb.wOff {
		return 0, io.EOF
	}

	var n int
	for n < len(p) && rb.rOff != rb.wOff {
		p[n] = rb.data[rb.rOff&(ringBufferSize-1)]
		rb.rOff++
		n++
	}

	return n, nil
}
