// Package intc defines the register-access capabilities consumed by the
// interrupt-controller drivers. The drivers never touch ports or device
// memory directly; they go through an injected PortIO or MemIO instance
// which keeps the controller protocols testable without real hardware.
package intc

import (
	"unsafe"

	"irqos/kernel/cpu"
)

// PortIO provides byte-wide access to the x86 I/O port space.
type PortIO interface {
	// ReadByte reads one byte from the given port.
	ReadByte(port uint16) uint8

	// WriteByte writes one byte to the given port.
	WriteByte(port uint16, val uint8)
}

// MemIO provides 32-bit wide access to memory-mapped device registers.
type MemIO interface {
	// ReadDword reads one dword from the given address.
	ReadDword(addr uintptr) uint32

	// WriteDword writes one dword to the given address.
	WriteDword(addr uintptr, val uint32)
}

// Notifier is implemented by interrupt controllers that must be informed
// when the handler for a delivered interrupt vector has finished running.
type Notifier interface {
	NotifyEndOfInterrupt(vector uint8)
}

// HWPortIO returns a PortIO backed by the processor's in/out instructions.
func HWPortIO() PortIO { return hwPortIO{} }

type hwPortIO struct{}

func (hwPortIO) ReadByte(port uint16) uint8       { return cpu.PortReadByte(port) }
func (hwPortIO) WriteByte(port uint16, val uint8) { cpu.PortWriteByte(port, val) }

// HWMemIO returns a MemIO that performs direct dword loads and stores. The
// supplied addresses must point at mapped device memory.
func HWMemIO() MemIO { return hwMemIO{} }

type hwMemIO struct{}

func (hwMemIO) ReadDword(addr uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(addr))
}

func (hwMemIO) WriteDword(addr uintptr, val uint32) {
	*(*uint32)(unsafe.Pointer(addr)) = val
}
