//go:build !tinygo

package nrf24

import (
	"fmt"
	"io"
	"strings"
)

// Backend selects how the driver reaches the SPI bus and GPIO pins on
// Linux.
type Backend string

const (
	// BackendSPIDev uses the kernel spidev driver and GPIO character
	// device through periph.io. It works on any Linux board.
	BackendSPIDev Backend = "spidev"
	// BackendBCM2835 drives the Broadcom SPI and GPIO peripherals
	// directly through /dev/gpiomem using go-rpio. Raspberry Pi only.
	BackendBCM2835 Backend = "bcm2835"
)

// ParseBackend parses a backend name. The empty string selects
// BackendSPIDev.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(s)) {
	case "", BackendSPIDev:
		return BackendSPIDev, nil
	case BackendBCM2835:
		return BackendBCM2835, nil
	}
	return "", fmt.Errorf("unknown backend %q (want %s or %s)", s, BackendSPIDev, BackendBCM2835)
}

// Config holds the configuration for the Linux drivers.
type Config struct {
	RadioConfig
	// Backend selects the hardware access layer.
	// Defaults to BackendSPIDev if not provided.
	Backend Backend
	// CEPin is the GPIO pin number (BCM numbering) for the Chip Enable (CE) pin.
	// Defaults to 22 if not provided.
	CEPin int
	// IRQPin is the GPIO pin number (BCM numbering) for the Interrupt Request (IRQ) pin.
	// Optional. If not provided, polling is used.
	IRQPin int
	// CSN selects the SPI bus and chip select as bus*10+cs, so 0 is
	// /dev/spidev0.0 and 11 is /dev/spidev1.1.
	CSN int
	// SpiBusPath overrides the spidev path derived from CSN.
	SpiBusPath string
	// SpiClockHz is the SPI clock frequency in Hz.
	// Defaults to 1000000 (1MHz) if not provided.
	SpiClockHz int
}

// SPIBus returns the bus and chip select numbers encoded in CSN.
func (c Config) SPIBus() (bus, cs int) {
	return c.CSN / 10, c.CSN % 10
}

// DevicePath returns the spidev path used by BackendSPIDev.
func (c Config) DevicePath() string {
	if c.SpiBusPath != "" {
		return c.SpiBusPath
	}
	bus, cs := c.SPIBus()
	return fmt.Sprintf("/dev/spidev%d.%d", bus, cs)
}

func (c *Config) applyBackendDefaults() {
	if c.Backend == "" {
		c.Backend = BackendSPIDev
	}
	if c.CEPin == 0 {
		c.CEPin = 22
	}
	if c.SpiClockHz == 0 {
		c.SpiClockHz = 1000000
	}
}

// hardware is what a backend hands to NewWithHardware.
type hardware struct {
	spi    SPI
	ce     Pin
	irq    Pin
	closer io.Closer
}

// New creates and initializes a new NRF24L01 driver for Linux systems.
// It applies configuration defaults, opens the SPI bus and GPIO pins with
// the selected backend and configures the radio module.
// It returns the initialized driver or an error if hardware initialization fails.
func New(c Config) (*Device, error) {
	c.applyBackendDefaults()

	var (
		hw  *hardware
		err error
	)
	switch c.Backend {
	case BackendSPIDev:
		hw, err = openSPIDev(c)
	case BackendBCM2835:
		hw, err = openBCM2835(c)
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
	if err != nil {
		return nil, err
	}

	globalLogger.Debug("Opened " + string(c.Backend) + " backend on " + c.DevicePath())

	dev, err := NewWithHardware(HardwareConfig{
		RadioConfig: c.RadioConfig,
		CE:          hw.ce,
		IRQ:         hw.irq,
	}, hw.spi)
	if err != nil {
		hw.closer.Close()
		return nil, err
	}

	// Store the closer so we can release the bus later
	dev.closer = hw.closer
	return dev, nil
}
