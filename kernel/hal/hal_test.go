package hal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"irqos/device"
	"irqos/kernel"
	"irqos/kernel/kfmt"
)

type mockDriver struct {
	name    string
	initErr *kernel.Error

	initCalls int
	ackedIDs  []uint8
}

func (drv *mockDriver) DriverName() string                  { return drv.name }
func (*mockDriver) DriverVersion() (uint16, uint16, uint16) { return 1, 2, 3 }
func (drv *mockDriver) DriverInit(w io.Writer) *kernel.Error {
	drv.initCalls++
	if drv.initErr != nil {
		return drv.initErr
	}
	kfmt.Fprintf(w, "ready\n")
	return nil
}

func (drv *mockDriver) NotifyEndOfInterrupt(vector uint8) {
	drv.ackedIDs = append(drv.ackedIDs, vector)
}

func TestProbe(t *testing.T) {
	defer func() {
		devices = managedDevices{}
		kfmt.SetOutputSink(nil)
	}()

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)

	var (
		working = &mockDriver{name: "mock-pic"}
		broken  = &mockDriver{name: "broken", initErr: &kernel.Error{Module: "broken", Message: "hardware absent"}}
	)

	driverList := device.DriverInfoList{
		{Probe: func() device.Driver { return nil }},
		{Probe: func() device.Driver { return broken }},
		{Probe: func() device.Driver { return working }},
	}

	probe(driverList)

	if working.initCalls != 1 || broken.initCalls != 1 {
		t.Fatalf("expected each probed driver to be initialized once; got %d and %d",
			working.initCalls, broken.initCalls)
	}

	if len(devices.activeDrivers) != 1 || devices.activeDrivers[0] != device.Driver(working) {
		t.Fatal("expected only the working driver to be tracked as active")
	}

	// The broken driver failed init before the working one ran, so the
	// working driver must have become the active IRQ controller.
	if got := ActiveIRQControl(); got != working {
		t.Fatal("expected the working driver to become the active IRQ controller")
	}

	out := buf.String()
	if !strings.Contains(out, "[hal] broken(1.2.3): init failed: hardware absent\n") {
		t.Errorf("expected init failure to be logged with the driver prefix; got %q", out)
	}
	if !strings.Contains(out, "[hal] mock-pic(1.2.3): ready\n") {
		t.Errorf("expected driver output to carry the driver prefix; got %q", out)
	}
	if !strings.Contains(out, "[hal] mock-pic(1.2.3): initialized\n") {
		t.Errorf("expected successful init to be logged; got %q", out)
	}
}

func TestAckInterrupt(t *testing.T) {
	defer func() {
		devices = managedDevices{}
	}()

	// Without an active controller the notification is dropped.
	AckInterrupt(33)

	drv := &mockDriver{name: "mock-pic"}
	devices.activeIRQControl = drv

	AckInterrupt(33)
	AckInterrupt(40)

	if len(drv.ackedIDs) != 2 || drv.ackedIDs[0] != 33 || drv.ackedIDs[1] != 40 {
		t.Fatalf("expected vectors [33 40] to be acknowledged in order; got %v", drv.ackedIDs)
	}
}
