package ioapic

import (
	"io"

	"irqos/device"
	"irqos/device/intc"
	"irqos/kernel"
	"irqos/kernel/kfmt"
)

var (
	errBadVersion = &kernel.Error{Module: "ioapic", Message: "version register reads back as zero; register window unmapped?"}

	// baseAddr is the physical address of the register window, published
	// by the platform-discovery code before hardware detection runs. Zero
	// means no I/O APIC is present.
	baseAddr uintptr
)

// SetBase publishes the register-window address found in the platform's
// ACPI/MP tables. It must be called before hardware detection probes for
// drivers; the address itself is not validated here.
func SetBase(base uintptr) {
	baseAddr = base
}

type ioApicDriver struct {
	apic *IoApic
}

// DriverName returns the name of this driver.
func (*ioApicDriver) DriverName() string {
	return "ioapic"
}

// DriverVersion returns the version of this driver.
func (*ioApicDriver) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit sanity-checks the register window and masks every pin. Pins get
// unmasked individually once a handler is attached to them.
func (drv *ioApicDriver) DriverInit(w io.Writer) *kernel.Error {
	version := drv.apic.Version()
	if version == 0 {
		return errBadVersion
	}

	drv.apic.MaskAll()

	kfmt.Fprintf(w, "id: %d, version: %2x, pins: %d\n",
		drv.apic.ID(), version, drv.apic.PinCount())
	return nil
}

// Controller returns the I/O APIC managed by this driver.
func (drv *ioApicDriver) Controller() *IoApic {
	return drv.apic
}

func probeForIoApic() device.Driver {
	if baseAddr == 0 {
		return nil
	}

	return &ioApicDriver{apic: NewIoApic(intc.HWMemIO(), baseAddr)}
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderACPI,
		Probe: probeForIoApic,
	})
}
