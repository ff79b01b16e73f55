package nrf24

// Level represents the logical level of a pin (Low or High).
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "High"
	}
	return "Low"
}

// Pull represents the internal pull-up/down resistor state.
type Pull uint8

const (
	PullNoChange Pull = iota
	PullFloat
	PullDown
	PullUp
)

// Edge represents the signal edge to trigger an interrupt.
type Edge uint8

const (
	NoEdge Edge = iota
	RisingEdge
	FallingEdge
	BothEdges
)

// SPI is a full-duplex SPI connection with the chip select handled by
// the implementation: CSN is asserted for exactly one call to Tx.
type SPI interface {
	// Tx sends w and reads into r.
	// len(r) must be >= len(w). w and r may be the same slice.
	Tx(w, r []byte) error
}

// Pin represents a generic GPIO pin.
type Pin interface {
	// Out sets the pin as output with the given level.
	Out(l Level) error
	// In sets the pin as input with the given pull mode.
	In(pull Pull) error
	// Read returns the current level of the pin.
	Read() Level
	// Watch calls handler every time edge is detected on the pin.
	Watch(edge Edge, handler func()) error
	// Unwatch stops calling the handler registered by Watch.
	Unwatch() error
}
