//go:build !tinygo

package nrf24

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// periphPin wraps a gpio.PinIO to satisfy the Pin interface.
type periphPin struct {
	gpio.PinIO
	stopWatch chan struct{}
}

func (p *periphPin) Out(l Level) error {
	if l == High {
		return p.PinIO.Out(gpio.High)
	}
	return p.PinIO.Out(gpio.Low)
}

func (p *periphPin) In(pull Pull) error {
	return p.PinIO.In(periphPull(pull), gpio.NoEdge)
}

func (p *periphPin) Read() Level {
	if p.PinIO.Read() == gpio.High {
		return High
	}
	return Low
}

func periphPull(pull Pull) gpio.Pull {
	switch pull {
	case PullFloat:
		return gpio.Float
	case PullDown:
		return gpio.PullDown
	case PullUp:
		return gpio.PullUp
	}
	return gpio.PullNoChange
}

func periphEdge(edge Edge) gpio.Edge {
	switch edge {
	case RisingEdge:
		return gpio.RisingEdge
	case FallingEdge:
		return gpio.FallingEdge
	case BothEdges:
		return gpio.BothEdges
	}
	return gpio.NoEdge
}

func (p *periphPin) Watch(edge Edge, handler func()) error {
	// Ensure we are in input mode with the correct edge detection
	if err := p.PinIO.In(gpio.PullUp, periphEdge(edge)); err != nil {
		return err
	}

	stop := make(chan struct{})
	p.stopWatch = stop

	go func() {
		for {
			// A finite timeout lets the goroutine notice Unwatch even
			// when no edge ever arrives.
			fired := p.PinIO.WaitForEdge(100 * time.Millisecond)
			select {
			case <-stop:
				return
			default:
			}
			if fired {
				handler()
			}
		}
	}()
	return nil
}

func (p *periphPin) Unwatch() error {
	if p.stopWatch != nil {
		close(p.stopWatch)
		p.stopWatch = nil
	}
	// Disable edge detection
	return p.PinIO.In(gpio.PullUp, gpio.NoEdge)
}

func periphPinByNumber(n int) (*periphPin, error) {
	name := fmt.Sprintf("GPIO%d", n)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("failed to open pin %s", name)
	}
	return &periphPin{PinIO: p}, nil
}

// openSPIDev opens /dev/spidevX.Y and the CE/IRQ pins through periph.io.
func openSPIDev(c Config) (*hardware, error) {
	// 1. Initialize periph.io host (Required for both SPI and GPIO)
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io host: %w", err)
	}

	// 2. Open the SPI Port
	p, err := spireg.Open(c.DevicePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", c.DevicePath(), err)
	}

	// 3. Create the SPI Connection (Mode 0, 8 bits)
	conn, err := p.Connect(physic.Frequency(c.SpiClockHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create SPI connection: %w", err)
	}

	// 4. Setup CE Pin
	ce, err := periphPinByNumber(c.CEPin)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("CE: %w", err)
	}

	// 5. Setup IRQ Pin
	hw := &hardware{spi: conn, ce: ce, closer: p}
	if c.IRQPin != 0 {
		irq, err := periphPinByNumber(c.IRQPin)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("IRQ: %w", err)
		}
		hw.irq = irq
	}
	return hw, nil
}
