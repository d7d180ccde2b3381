// Package hal probes for supported hardware and initializes the matching
// device drivers.
package hal

import (
	"bytes"
	"sort"

	"irqos/device"
	"irqos/device/intc"
	"irqos/kernel/kfmt"
	"irqos/kernel/sync"

	// The interrupt-controller drivers register themselves during package
	// init.
	_ "irqos/device/intc/ioapic"
	_ "irqos/device/intc/pic8259"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	// activeIRQControl receives the end-of-interrupt notifications for
	// delivered interrupt vectors.
	activeIRQControl intc.Notifier

	// activeDrivers tracks all initialized device drivers.
	activeDrivers []device.Driver
}

var (
	devices managedDevices
	strBuf  bytes.Buffer

	// irqControlLock serializes access to the shared interrupt-controller
	// state. The controllers perform multi-step register transactions and
	// do no locking of their own; a spinlock is used here because the
	// acknowledgment path runs with interrupts disabled.
	irqControlLock sync.Spinlock
)

// ActiveIRQControl returns the interrupt controller that end-of-interrupt
// notifications are routed to.
func ActiveIRQControl() intc.Notifier {
	return devices.activeIRQControl
}

// AckInterrupt notifies the active interrupt controller that the handler for
// the given vector has completed. It is safe to call from interrupt context
// and is a no-op while no controller has been initialized.
func AckInterrupt(vector uint8) {
	irqControlLock.Acquire()
	if devices.activeIRQControl != nil {
		devices.activeIRQControl.NotifyEndOfInterrupt(vector)
	}
	irqControlLock.Release()
}

// DetectHardware probes for hardware devices and initializes the appropriate
// drivers.
func DetectHardware() {
	// Get driver list and sort by detection priority
	drivers := device.DriverList()
	sort.Sort(drivers)

	probe(drivers)
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver.
func probe(driverInfoList device.DriverInfoList) {
	var w = kfmt.PrefixWriter{Sink: kfmt.GetOutputSink()}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		onDriverInit(drv)
		devices.activeDrivers = append(devices.activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is
// detected and successfully initialized. The first initialized driver that
// can acknowledge interrupts becomes the active IRQ controller.
func onDriverInit(drv device.Driver) {
	if notifier, ok := drv.(intc.Notifier); ok && devices.activeIRQControl == nil {
		devices.activeIRQControl = notifier
	}
}
