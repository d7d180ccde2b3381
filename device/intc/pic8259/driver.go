package pic8259

import (
	"io"

	"irqos/device"
	"irqos/device/intc"
	"irqos/kernel"
	"irqos/kernel/cpu"
	"irqos/kernel/kfmt"
)

// The vector offsets the chips get remapped to during driver init, right
// above the CPU exception range.
const (
	remapPrimaryOffset   = 0x20
	remapSecondaryOffset = 0x28
)

var disableInterruptsFn = cpu.DisableInterrupts

type picDriver struct {
	pics *ChainedPics
}

// DriverName returns the name of this driver.
func (*picDriver) DriverName() string {
	return "8259A-pic"
}

// DriverVersion returns the version of this driver.
func (*picDriver) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit remaps the chip pair away from the CPU exception vectors. The
// handshake must not be interrupted halfway so interrupt delivery gets
// switched off first; bring-up re-enables it once handlers are installed.
func (drv *picDriver) DriverInit(w io.Writer) *kernel.Error {
	disableInterruptsFn()
	drv.pics.Init()

	masks := drv.pics.ReadMasks()
	kfmt.Fprintf(w, "remapped to vectors %2x-%2x, masks: %2x, %2x\n",
		uint8(remapPrimaryOffset), uint8(remapSecondaryOffset+linesPerChip-1),
		masks[0], masks[1])
	return nil
}

// NotifyEndOfInterrupt forwards the acknowledgment for vector to the chip
// pair.
func (drv *picDriver) NotifyEndOfInterrupt(vector uint8) {
	drv.pics.NotifyEndOfInterrupt(vector)
}

// Controller returns the chip pair managed by this driver.
func (drv *picDriver) Controller() *ChainedPics {
	return drv.pics
}

// probeForPIC always returns a driver; every x86 chipset still emulates the
// chip pair.
func probeForPIC() device.Driver {
	return &picDriver{
		pics: NewChainedPics(intc.HWPortIO(), remapPrimaryOffset, remapSecondaryOffset),
	}
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Probe: probeForPIC,
	})
}
