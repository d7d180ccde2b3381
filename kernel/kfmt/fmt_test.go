package kfmt

import (
	"bytes"
	"testing"
)

func TestFprintf(t *testing.T) {
	specs := []struct {
		format string
		args   []interface{}
		exp    string
	}{
		// strings
		{"%s", []interface{}{"foo"}, "foo"},
		{"%5s", []interface{}{"foo"}, "  foo"},
		{"%s", []interface{}{[]byte("bar")}, "bar"},
		{"irq %s raised", []interface{}{"kbd"}, "irq kbd raised"},
		// base-10 integers
		{"%d", []interface{}{42}, "42"},
		{"%d", []interface{}{int8(-5)}, "-5"},
		{"%4d", []interface{}{-5}, "  -5"},
		{"%4d", []interface{}{uint16(1234)}, "1234"},
		// base-16 integers
		{"%x", []interface{}{uint8(255)}, "ff"},
		{"%4x", []interface{}{uint32(0xff)}, "00ff"},
		{"%8x", []interface{}{uintptr(0xfec00000)}, "fec00000"},
		// base-8 integers
		{"%o", []interface{}{uint8(8)}, "10"},
		{"%3o", []interface{}{int64(8)}, "010"},
		// booleans
		{"%t", []interface{}{true}, "true"},
		{"%t", []interface{}{false}, "false"},
		// literal %
		{"100%%", nil, "100%"},
		// error tokens
		{"%d", nil, "%!(MISSING)"},
		{"", []interface{}{1}, "%!(EXTRA)"},
		{"%t", []interface{}{1}, "%!(WRONGTYPE)"},
		{"%d", []interface{}{"nan"}, "%!(WRONGTYPE)"},
		{"%v", []interface{}{1}, "%!(NOVERB)"},
		{"%4", []interface{}{1}, "%!(NOVERB)%!(EXTRA)"},
	}

	var buf bytes.Buffer
	for specIndex, spec := range specs {
		buf.Reset()
		Fprintf(&buf, spec.format, spec.args...)
		if got := buf.String(); got != spec.exp {
			t.Errorf("[spec %d] expected formatting %q to yield %q; got %q", specIndex, spec.format, spec.exp, got)
		}
	}
}

func TestPrintfBuffersEarlyOutput(t *testing.T) {
	defer func() {
		outputSink = nil
		earlyBuf = ringBuffer{}
	}()
	outputSink = nil
	earlyBuf = ringBuffer{}

	Printf("mask %2x\n", uint8(0xfb))

	exp := "mask fb\n"

	var buf bytes.Buffer
	SetOutputSink(&buf)
	if got := buf.String(); got != exp {
		t.Fatalf("expected early output %q to be drained into the sink; got %q", exp, got)
	}

	buf.Reset()
	Printf("eoi %d", 33)
	if got := buf.String(); got != "eoi 33" {
		t.Fatalf("expected output to reach the registered sink; got %q", got)
	}
}

func TestGetOutputSink(t *testing.T) {
	defer func() {
		outputSink = nil
		earlyBuf = ringBuffer{}
	}()

	outputSink = nil
	if got := GetOutputSink(); got != &earlyBuf {
		t.Fatal("expected GetOutputSink to return the early ring buffer when no sink is registered")
	}

	var buf bytes.Buffer
	SetOutputSink(&buf)
	if got := GetOutputSink(); got != &buf {
		t.Fatal("expected GetOutputSink to return the registered sink")
	}
}
