// Package pic8259 provides a driver for the pair of chained 8259A
// programmable interrupt controllers found on every x86 system. The primary
// chip is the only one wired to the CPU; the secondary chip reaches it over
// a cascade line attached to one of the primary's eight inputs, so the pair
// covers 15 usable interrupt lines mapped onto a linear vector range.
package pic8259

import "irqos/device/intc"

// I/O port assignments for the two chips, fixed by the PC architecture.
const (
	primaryCommandPort   = 0x20
	primaryDataPort      = 0x21
	secondaryCommandPort = 0xa0
	secondaryDataPort    = 0xa1

	// settlePort is the legacy POST diagnostic port. A throwaway write to
	// it takes long enough on all known hardware to act as the inter-write
	// delay the init handshake needs, at a stage where no timer exists yet.
	settlePort = 0x80
)

// Command bytes understood by the 8259A.
const (
	cmdInit           = 0x11 // ICW1: begin the 3-byte init handshake, ICW4 follows
	cmdEndOfInterrupt = 0x20
	cmdReadIRR        = 0x0a // OCW3: next command-port read returns the IRR
	cmdReadISR        = 0x0b // OCW3: next command-port read returns the ISR

	// ICW3: the secondary chip hangs off input line 2 of the primary. The
	// primary gets told as a line bitmask, the secondary as a plain id.
	primaryChainWiring = 1 << 2
	secondaryCascadeID = 2

	mode8086 = 0x01 // ICW4
)

// Power-on vector offsets. After a reset the chips answer for vectors 0-15,
// a range that collides with the CPU exceptions in protected mode.
const (
	defaultPrimaryOffset   = 0
	defaultSecondaryOffset = 8
)

// linesPerChip is the number of interrupt inputs on a single 8259A.
const linesPerChip = 8

// Pic describes a single 8259A chip.
type Pic struct {
	// offset is the first interrupt vector this chip answers for; the
	// chip covers [offset, offset+8).
	offset uint8

	commandPort uint16
	dataPort    uint16
}

// handlesInterrupt returns true if id falls in this chip's vector range.
func (p *Pic) handlesInterrupt(id uint8) bool {
	return id >= p.offset && id-p.offset < linesPerChip
}

// ChainedPics drives the primary/secondary chip pair as a single controller.
// None of its methods lock: the chips are shared mutable state and callers
// must serialize access to them, typically with a sync.Spinlock held for the
// whole call since Init and the status reads are multi-step port
// transactions that must not interleave.
type ChainedPics struct {
	io   intc.PortIO
	pics [2]Pic
}

// NewChainedPics sets up the chip pair with the supplied vector offsets. No
// hardware is touched until Init is called. The offsets are trusted: values
// below 16 collide with the CPU exception vectors in protected mode, and the
// standard chained layout expects secondaryOffset == primaryOffset+8.
func NewChainedPics(portIO intc.PortIO, primaryOffset, secondaryOffset uint8) *ChainedPics {
	return &ChainedPics{
		io: portIO,
		pics: [2]Pic{
			{offset: primaryOffset, commandPort: primaryCommandPort, dataPort: primaryDataPort},
			{offset: secondaryOffset, commandPort: secondaryCommandPort, dataPort: secondaryDataPort},
		},
	}
}

// Init runs the 3-byte initialization handshake on both chips, remapping
// them to the configured vector offsets. The interrupt masks present before
// the handshake are reinstated afterwards so initialization is mask-neutral.
// Init must run exactly once, before interrupts are enabled.
func (c *ChainedPics) Init() {
	savedMasks := c.ReadMasks()

	// ICW1 arms the handshake: each chip now expects three bytes on its
	// data port. Each handshake byte must reach both chips before the
	// next byte goes out to either one.
	c.io.WriteByte(c.pics[0].commandPort, cmdInit)
	c.settle()
	c.io.WriteByte(c.pics[1].commandPort, cmdInit)
	c.settle()

	// ICW2: the vector offsets.
	c.writeHandshakeByte(c.pics[0].offset, c.pics[1].offset)

	// ICW3: how the chips are wired to each other.
	c.writeHandshakeByte(primaryChainWiring, secondaryCascadeID)

	// ICW4: 8086 mode.
	c.writeHandshakeByte(mode8086, mode8086)

	c.WriteMasks(savedMasks[0], savedMasks[1])
}

// writeHandshakeByte sends one handshake byte to each chip's data port,
// primary first, with a settle delay after every write.
func (c *ChainedPics) writeHandshakeByte(primaryVal, secondaryVal uint8) {
	c.io.WriteByte(c.pics[0].dataPort, primaryVal)
	c.settle()
	c.io.WriteByte(c.pics[1].dataPort, secondaryVal)
	c.settle()
}

// settle gives the chips time to absorb the previous write. Older boards
// lose handshake bytes without the delay.
func (c *ChainedPics) settle() {
	c.io.WriteByte(settlePort, 0)
}

// ReadMasks returns the interrupt masks of the primary and secondary chip.
// With no command pending, a data-port read returns the chip's mask.
func (c *ChainedPics) ReadMasks() [2]uint8 {
	return [2]uint8{
		c.io.ReadByte(c.pics[0].dataPort),
		c.io.ReadByte(c.pics[1].dataPort),
	}
}

// WriteMasks programs the interrupt masks of both chips. A set bit
// suppresses the corresponding line.
func (c *ChainedPics) WriteMasks(primaryMask, secondaryMask uint8) {
	c.io.WriteByte(c.pics[0].dataPort, primaryMask)
	c.io.WriteByte(c.pics[1].dataPort, secondaryMask)
}

// Disable suppresses every line on both chips. Disable is idempotent and is
// the expected state when interrupt delivery moves to the I/O APIC.
func (c *ChainedPics) Disable() {
	c.WriteMasks(0xff, 0xff)
}

// HandlesInterrupt returns true when either chip's vector range contains id.
// It performs no I/O.
func (c *ChainedPics) HandlesInterrupt(id uint8) bool {
	return c.pics[0].handlesInterrupt(id) || c.pics[1].handlesInterrupt(id)
}

// NotifyEndOfInterrupt acknowledges the interrupt with vector id so the
// originating chip can deliver further interrupts on that line. An id
// outside both chips' ranges is silently ignored: acknowledging something
// the chips never raised (a mis-routed CPU exception, say) is more dangerous
// than dropping the notification. An id in the secondary range is
// acknowledged on the secondary chip first and then on the primary, which
// carried the interrupt to the CPU over the cascade line; some chip
// revisions misbehave when that order is reversed.
func (c *ChainedPics) NotifyEndOfInterrupt(id uint8) {
	if !c.HandlesInterrupt(id) {
		return
	}

	if c.pics[1].handlesInterrupt(id) {
		c.io.WriteByte(c.pics[1].commandPort, cmdEndOfInterrupt)
	}
	c.io.WriteByte(c.pics[0].commandPort, cmdEndOfInterrupt)
}

// ReadIRR returns the interrupt request register of each chip: the lines
// with an interrupt waiting to be delivered.
func (c *ChainedPics) ReadIRR() [2]uint8 {
	return c.readStatus(cmdReadIRR)
}

// ReadISR returns the in-service register of each chip: the lines whose
// interrupt was delivered but not yet acknowledged. Interrupt handlers use
// it to tell a real line-7 interrupt from a spurious one.
func (c *ChainedPics) ReadISR() [2]uint8 {
	return c.readStatus(cmdReadISR)
}

// readStatus issues the OCW3 register-select command to both chips and then
// reads the selected status register back from their command ports.
func (c *ChainedPics) readStatus(ocw3 uint8) [2]uint8 {
	c.io.WriteByte(c.pics[0].commandPort, ocw3)
	c.io.WriteByte(c.pics[1].commandPort, ocw3)
	return [2]uint8{
		c.io.ReadByte(c.pics[0].commandPort),
		c.io.ReadByte(c.pics[1].commandPort),
	}
}

// Restore resets both chips' offsets to the power-on vector ranges (0-7 and
// 8-15), the layout expected when dropping back to real mode. Only the
// bookkeeping changes; reprogramming the hardware is a subsequent Init.
func (c *ChainedPics) Restore() {
	c.pics[0].offset = defaultPrimaryOffset
	c.pics[1].offset = defaultSecondaryOffset
}
