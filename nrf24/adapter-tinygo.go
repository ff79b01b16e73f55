//go:build tinygo

package nrf24

import (
	"machine"
)

// tinygoPin wraps a machine.Pin to satisfy the Pin interface.
type tinygoPin struct {
	pin machine.Pin
}

func (p *tinygoPin) Out(l Level) error {
	p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.pin.Set(bool(l))
	return nil
}

func (p *tinygoPin) In(pull Pull) error {
	mode := machine.PinInput
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	}
	p.pin.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (p *tinygoPin) Read() Level {
	return Level(p.pin.Get())
}

func (p *tinygoPin) Watch(edge Edge, handler func()) error {
	var change machine.PinChange
	switch edge {
	case RisingEdge:
		change = machine.PinRising
	case FallingEdge:
		change = machine.PinFalling
	case BothEdges:
		change = machine.PinToggle
	default:
		return nil
	}

	return p.pin.SetInterrupt(change, func(machine.Pin) {
		handler()
	})
}

func (p *tinygoPin) Unwatch() error {
	return p.pin.SetInterrupt(0, nil)
}

// tinygoSPI wraps a machine.SPI and drives chip select around every
// transaction.
type tinygoSPI struct {
	spi *machine.SPI
	cs  machine.Pin
}

func (s *tinygoSPI) Tx(w, r []byte) error {
	s.cs.Low()
	err := s.spi.Tx(w, r)
	s.cs.High()
	return err
}

// NewTinyGo creates a new NRF24L01 driver for TinyGo systems. spi must be
// configured for mode 0. Pass machine.NoPin as irqPin to poll instead of
// using interrupts.
func NewTinyGo(c RadioConfig, spi *machine.SPI, csPin, cePin, irqPin machine.Pin) (*Device, error) {
	// Chip select idles high
	csPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	csPin.High()

	hw := HardwareConfig{
		RadioConfig: c,
		CE:          &tinygoPin{pin: cePin},
	}
	if irqPin != machine.NoPin {
		hw.IRQ = &tinygoPin{pin: irqPin}
	}

	return NewWithHardware(hw, &tinygoSPI{spi: spi, cs: csPin})
}
