// Package ioapic provides a driver for the I/O APIC, the register-indexed
// interrupt router that supersedes the chained 8259A pair on multiprocessor
// x86 systems. Each interrupt pin has a 64-bit redirection entry describing
// the vector it raises, the processors it targets and how it is signalled.
package ioapic

import "irqos/device/intc"

// Register indices of the I/O APIC register bank.
const (
	idReg          = 0x00
	versionReg     = 0x01
	arbitrationReg = 0x02

	// redirBase is the index of the first redirection entry register.
	// Entry n occupies indices redirBase+2n (low half) and redirBase+2n+1
	// (high half).
	redirBase = 0x10
)

// Byte offsets of the two memory-mapped access registers relative to the
// register-window base.
const (
	selectOffset = 0x00
	dataOffset   = 0x10
)

// RegisterChannel is the select/data register pair through which the indexed
// register bank is reached. A transaction writes the register index to the
// select register and then reads or writes the data register. The two steps
// are not atomic; concurrent callers must serialize around whole
// transactions or a select from one caller can pair with the data access of
// another.
type RegisterChannel struct {
	sel  uintptr
	data uintptr
}

// NewRegisterChannel returns a RegisterChannel for the register window that
// starts at base.
func NewRegisterChannel(base uintptr) RegisterChannel {
	return RegisterChannel{
		sel:  base + selectOffset,
		data: base + dataOffset,
	}
}

// Read selects register reg and returns its value.
func (ch RegisterChannel) Read(mem intc.MemIO, reg uint8) uint32 {
	mem.WriteDword(ch.sel, uint32(reg))
	return mem.ReadDword(ch.data)
}

// Write selects register reg and stores val into it.
func (ch RegisterChannel) Write(mem intc.MemIO, reg uint8, val uint32) {
	mem.WriteDword(ch.sel, uint32(reg))
	mem.WriteDword(ch.data, val)
}

// IoApic drives a single I/O APIC through its select/data channel. The
// controller keeps no driver-side state beyond the channel addresses; every
// query is a fresh register transaction and callers must serialize access.
type IoApic struct {
	mem intc.MemIO
	ch  RegisterChannel
}

// NewIoApic returns an IoApic whose register window starts at base. The base
// address comes out of the platform's ACPI/MP tables and is trusted as-is.
func NewIoApic(mem intc.MemIO, base uintptr) *IoApic {
	return &IoApic{
		mem: mem,
		ch:  NewRegisterChannel(base),
	}
}

// ReadReg returns the value of the register with index reg.
func (a *IoApic) ReadReg(reg uint8) uint32 {
	return a.ch.Read(a.mem, reg)
}

// WriteReg stores val into the register with index reg.
func (a *IoApic) WriteReg(reg uint8, val uint32) {
	a.ch.Write(a.mem, reg, val)
}

// ID returns the identifier this I/O APIC answers to on the APIC bus.
func (a *IoApic) ID() uint8 {
	return uint8(a.ReadReg(idReg) >> 24 & 0xf)
}

// Version returns the implementation version of this I/O APIC.
func (a *IoApic) Version() uint8 {
	return uint8(a.ReadReg(versionReg))
}

// PinCount returns the number of interrupt pins this I/O APIC implements.
// The hardware field holds the index of the last redirection entry, so the
// count is one higher.
func (a *IoApic) PinCount() int {
	return int(a.ReadReg(versionReg)>>16&0xff) + 1
}

// ArbitrationID returns the identifier this I/O APIC uses when arbitrating
// for the APIC bus.
func (a *IoApic) ArbitrationID() uint8 {
	return uint8(a.ReadReg(arbitrationReg) >> 24 & 0xf)
}

// RedirEntry returns the redirection entry for the given pin.
func (a *IoApic) RedirEntry(pin uint8) RedirectionEntry {
	return RedirectionEntry{
		low:  a.ReadReg(redirBase + 2*pin),
		high: a.ReadReg(redirBase + 2*pin + 1),
	}
}

// SetRedirEntry programs the redirection entry for the given pin.
func (a *IoApic) SetRedirEntry(pin uint8, entry RedirectionEntry) {
	a.WriteReg(redirBase+2*pin, entry.low)
	a.WriteReg(redirBase+2*pin+1, entry.high)
}

// MaskAll suppresses delivery on every pin, leaving the rest of each
// redirection entry untouched.
func (a *IoApic) MaskAll() {
	count := a.PinCount()
	for pin := 0; pin < count; pin++ {
		entry := a.RedirEntry(uint8(pin))
		entry.SetMasked(true)
		a.SetRedirEntry(uint8(pin), entry)
	}
}
