//go:build !tinygo

package nrf24

import (
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// rpioPin wraps an rpio.Pin to satisfy the Pin interface.
type rpioPin struct {
	pin       rpio.Pin
	mu        sync.Mutex
	stopWatch chan struct{}
}

func (p *rpioPin) Out(l Level) error {
	p.pin.Output()
	if l == High {
		p.pin.High()
	} else {
		p.pin.Low()
	}
	return nil
}

func (p *rpioPin) In(pull Pull) error {
	p.pin.Input()
	switch pull {
	case PullUp:
		p.pin.PullUp()
	case PullDown:
		p.pin.PullDown()
	case PullFloat:
		p.pin.PullOff()
	}
	return nil
}

func (p *rpioPin) Read() Level {
	return p.pin.Read() == rpio.High
}

// Watch polls the BCM2835 event detect register. go-rpio has no blocking
// edge wait, so a 1ms ticker is the resolution of the callback.
func (p *rpioPin) Watch(edge Edge, handler func()) error {
	var rEdge rpio.Edge
	switch edge {
	case RisingEdge:
		rEdge = rpio.RiseEdge
	case FallingEdge:
		rEdge = rpio.FallEdge
	case BothEdges:
		rEdge = rpio.AnyEdge
	default:
		return nil
	}

	p.pin.Input()
	p.pin.PullUp()
	p.pin.Detect(rEdge)

	stop := make(chan struct{})
	p.mu.Lock()
	p.stopWatch = stop
	p.mu.Unlock()

	go func() {
		t := time.NewTicker(time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				if p.pin.EdgeDetected() {
					handler()
				}
			}
		}
	}()
	return nil
}

func (p *rpioPin) Unwatch() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopWatch != nil {
		close(p.stopWatch)
		p.stopWatch = nil
	}
	p.pin.Detect(rpio.NoEdge)
	return nil
}

// rpioSPI drives the BCM2835 SPI peripheral. Chip select is handled by
// the peripheral itself.
type rpioSPI struct {
	dev rpio.SpiDev
}

func (s *rpioSPI) Tx(w, r []byte) error {
	if len(r) < len(w) {
		return fmt.Errorf("spi: read buffer shorter than write buffer")
	}
	buf := r[:len(w)]
	copy(buf, w)
	rpio.SpiExchange(buf)
	return nil
}

func (s *rpioSPI) Close() error {
	rpio.SpiEnd(s.dev)
	return rpio.Close()
}

// openBCM2835 maps the GPIO and SPI peripherals with go-rpio.
func openBCM2835(c Config) (*hardware, error) {
	bus, cs := c.SPIBus()
	if bus > 2 {
		return nil, fmt.Errorf("SPI bus %d is not available on the BCM2835", bus)
	}

	// 1. Map the peripherals (/dev/gpiomem or /dev/mem)
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to map BCM2835 peripherals: %w", err)
	}

	// 2. Claim the SPI pins
	dev := rpio.SpiDev(bus)
	if err := rpio.SpiBegin(dev); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("failed to start SPI%d: %w", bus, err)
	}
	s := &rpioSPI{dev: dev}

	// 3. Mode 0, clock and chip select
	rpio.SpiSpeed(c.SpiClockHz)
	rpio.SpiMode(0, 0)
	rpio.SpiChipSelect(uint8(cs))

	hw := &hardware{
		spi:    s,
		ce:     &rpioPin{pin: rpio.Pin(c.CEPin)},
		closer: s,
	}
	if c.IRQPin != 0 {
		hw.irq = &rpioPin{pin: rpio.Pin(c.IRQPin)}
	}
	return hw, nil
}
