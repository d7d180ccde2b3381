package kfmt

import (
	"io"
	"testing"
)

func TestRingBufferReadWrite(t *testing.T) {
	var rb ringBuffer

	if _, err := rb.Read(make([]byte, 1)); err != io.EOF {
		t.Fatal("expected reading an empty ring buffer to return io.EOF")
	}

	payload := "initialized 8259A chain"
	rb.Write([]byte(payload))

	got := make([]byte, len(payload))
	n, err := rb.Read(got)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(payload) || string(got) != payload {
		t.Fatalf("expected to read back %q; got %q", payload, string(got[:n]))
	}

	if _, err = rb.Read(got); err != io.EOF {
		t.Fatal("expected a drained ring buffer to return io.EOF")
	}
}

func TestRingBufferOverwritesOldestData(t *testing.T) {
	var rb ringBuffer

	block := make([]byte, ringBufferSize)
	for i := range block {
		block[i] = 'x'
	}
	rb.Write(block)
	rb.Write([]byte("tail"))

	// The 4 oldest bytes must have been dropped to make room for the tail.
	drained := make([]byte, 2*ringBufferSize)
	var total int
	for {
		n, err := rb.Read(drained[total:])
		total += n
		if err == io.EOF {
			break
		}
	}

	if total != ringBufferSize {
		t.Fatalf("expected to drain %d bytes; got %d", ringBufferSize, total)
	}
	if got := string(drained[total-4 : total]); got != "tail" {
		t.Fatalf("expected buffer to end with %q; got %q", "tail", got)
	}
	for i := 0; i < total-4; i++ {
		if drained[i] != 'x' {
			t.Fatalf("expected byte %d to be 'x'; got %q", i, drained[i])
		}
	}
}
