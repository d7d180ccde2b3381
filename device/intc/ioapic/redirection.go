package ioapic

// DeliveryMode selects how a routed interrupt is presented to its
// destination processors. It is a closed enumeration occupying a 3-bit
// field; values outside the named set are reserved by the architecture.
type DeliveryMode uint8

const (
	// DeliveryFixed raises the entry's vector on every destination
	// processor.
	DeliveryFixed DeliveryMode = 0b000

	// DeliveryLowestPriority raises the entry's vector on the destination
	// processor executing at the lowest priority.
	DeliveryLowestPriority DeliveryMode = 0b001

	// DeliverySMI delivers a system management interrupt; the vector field
	// must be programmed to zero.
	DeliverySMI DeliveryMode = 0b010

	// DeliveryNMI delivers a non-maskable interrupt, bypassing the vector
	// field.
	DeliveryNMI DeliveryMode = 0b100

	// DeliveryInit delivers an INIT signal, resetting the destination
	// processors.
	DeliveryInit DeliveryMode = 0b101

	// DeliveryExtInt delivers the interrupt as if it originated from an
	// externally connected 8259A-style controller.
	DeliveryExtInt DeliveryMode = 0b111
)

// Field layout of a redirection entry. All fields except the destination
// live in the low dword.
const (
	vectorMask        = 0xff
	deliveryModeShift = 8
	deliveryModeMask  = 0x7
	destModeBit       = 1 << 11
	deliveryStatusBit = 1 << 12
	polarityBit       = 1 << 13
	remoteIRRBit      = 1 << 14
	triggerModeBit    = 1 << 15
	maskBit           = 1 << 16

	destShift = 24
)

// RedirectionEntry is the per-pin routing record: the vector to raise, the
// processors to send it to and how to signal it, packed into the two dwords
// the redirection registers store.
type RedirectionEntry struct {
	low  uint32
	high uint32
}

// Vector returns the interrupt vector raised for this pin.
func (e RedirectionEntry) Vector() uint8 {
	return uint8(e.low & vectorMask)
}

// SetVector sets the interrupt vector raised for this pin.
func (e *RedirectionEntry) SetVector(vector uint8) {
	e.low = e.low&^uint32(vectorMask) | uint32(vector)
}

// DeliveryMode returns how the interrupt is presented to its destination.
func (e RedirectionEntry) DeliveryMode() DeliveryMode {
	return DeliveryMode(e.low >> deliveryModeShift & deliveryModeMask)
}

// SetDeliveryMode sets how the interrupt is presented to its destination.
func (e *RedirectionEntry) SetDeliveryMode(mode DeliveryMode) {
	e.low = e.low&^uint32(deliveryModeMask<<deliveryModeShift) |
		uint32(mode&deliveryModeMask)<<deliveryModeShift
}

// LogicalDestination reports whether the destination field holds a logical
// processor set rather than a physical APIC ID.
func (e RedirectionEntry) LogicalDestination() bool {
	return e.low&destModeBit != 0
}

// SetLogicalDestination selects between logical and physical destination
// addressing.
func (e *RedirectionEntry) SetLogicalDestination(logical bool) {
	e.setLowBit(destModeBit, logical)
}

// DeliveryPending reports whether an interrupt for this pin is waiting to be
// delivered. The underlying bit is read-only on hardware.
func (e RedirectionEntry) DeliveryPending() bool {
	return e.low&deliveryStatusBit != 0
}

// ActiveLow reports whether the pin's polarity is active-low.
func (e RedirectionEntry) ActiveLow() bool {
	return e.low&polarityBit != 0
}

// SetActiveLow sets the pin's polarity; PCI interrupt lines are active-low,
// ISA lines active-high.
func (e *RedirectionEntry) SetActiveLow(activeLow bool) {
	e.setLowBit(polarityBit, activeLow)
}

// RemoteIRRPending reports whether a level-triggered interrupt for this pin
// has been accepted but not yet acknowledged by the destination. The
// underlying bit is read-only on hardware.
func (e RedirectionEntry) RemoteIRRPending() bool {
	return e.low&remoteIRRBit != 0
}

// LevelTriggered reports whether the pin is level-triggered.
func (e RedirectionEntry) LevelTriggered() bool {
	return e.low&triggerModeBit != 0
}

// SetLevelTriggered selects between level-triggered and edge-triggered
// signalling for the pin.
func (e *RedirectionEntry) SetLevelTriggered(level bool) {
	e.setLowBit(triggerModeBit, level)
}

// Masked reports whether delivery for this pin is suppressed.
func (e RedirectionEntry) Masked() bool {
	return e.low&maskBit != 0
}

// SetMasked suppresses or enables delivery for this pin.
func (e *RedirectionEntry) SetMasked(masked bool) {
	e.setLowBit(maskBit, masked)
}

// Destination returns the destination identifier: a physical APIC ID or a
// logical processor set depending on the destination mode.
func (e RedirectionEntry) Destination() uint8 {
	return uint8(e.high >> destShift)
}

// SetDestination sets the destination identifier.
func (e *RedirectionEntry) SetDestination(dest uint8) {
	e.high = e.high&^uint32(0xff<<destShift) | uint32(dest)<<destShift
}

func (e *RedirectionEntry) setLowBit(bit uint32, set bool) {
	if set {
		e.low |= bit
	} else {
		e.low &^= bit
	}
}
