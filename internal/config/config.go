// Package config loads the hardware configuration of the example programs
// from an optional .env file and RF24_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/michcald/rf24-examples/nrf24"
)

// Config holds the settings shared by every command.
type Config struct {
	Backend     string
	CEPin       int
	CSN         int
	SpiSpeed    int
	IRQPin      int
	Channel     int
	PALevel     string
	DataRate    string
	MetricsAddr string
	Verbose     bool
}

// Load reads envFile into the environment without overriding variables
// that are already set, then builds a Config from the environment. An
// empty envFile reads DefaultEnvFile if it exists.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", DefaultEnvFile, err)
	}

	var errs []error
	cfg := &Config{
		Backend:     getEnvString(EnvBackend, DefaultBackend),
		CEPin:       getEnvInt(EnvCEPin, DefaultCEPin, &errs),
		CSN:         getEnvInt(EnvCSN, DefaultCSN, &errs),
		SpiSpeed:    getEnvInt(EnvSpiSpeed, DefaultSpiSpeed, &errs),
		IRQPin:      getEnvInt(EnvIRQPin, DefaultIRQPin, &errs),
		Channel:     getEnvInt(EnvChannel, DefaultChannel, &errs),
		PALevel:     getEnvString(EnvPALevel, DefaultPALevel),
		DataRate:    getEnvString(EnvDataRate, DefaultDataRate),
		MetricsAddr: getEnvString(EnvMetricsAddr, DefaultMetricsAddr),
		Verbose:     getEnvBool(EnvVerbose, false, &errs),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := nrf24.ParseBackend(c.Backend); err != nil {
		errs = append(errs, err)
	}
	if c.CEPin < 0 || c.CEPin > 53 {
		errs = append(errs, fmt.Errorf("CE pin %d out of range 0-53", c.CEPin))
	}
	if c.IRQPin < 0 || c.IRQPin > 53 {
		errs = append(errs, fmt.Errorf("IRQ pin %d out of range 0-53", c.IRQPin))
	}
	if c.IRQPin != 0 && c.IRQPin == c.CEPin {
		errs = append(errs, fmt.Errorf("IRQ and CE cannot share pin %d", c.CEPin))
	}
	if c.CSN < 0 || c.CSN/10 > 6 || c.CSN%10 > 2 {
		errs = append(errs, fmt.Errorf("CSN %d does not name a spidev bus and chip select", c.CSN))
	}
	if c.SpiSpeed <= 0 || c.SpiSpeed > 10000000 {
		errs = append(errs, fmt.Errorf("SPI speed %d Hz out of range 1-10000000", c.SpiSpeed))
	}
	if c.Channel < 0 || c.Channel > nrf24.MaxChannel {
		errs = append(errs, fmt.Errorf("channel %d out of range 0-%d", c.Channel, nrf24.MaxChannel))
	}
	if c.PALevel != "" {
		if _, err := nrf24.ParsePALevel(c.PALevel); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := nrf24.ParseDataRate(c.DataRate); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Radio returns the driver configuration. Call Validate first.
func (c *Config) Radio() (nrf24.Config, error) {
	if err := c.Validate(); err != nil {
		return nrf24.Config{}, err
	}
	backend, _ := nrf24.ParseBackend(c.Backend)
	pa := nrf24.PALevelMax
	if lvl, ok := c.ExamplePALevel(); ok {
		pa = lvl
	}
	rate, _ := nrf24.ParseDataRate(c.DataRate)
	return nrf24.Config{
		RadioConfig: nrf24.RadioConfig{
			ChannelNumber: byte(c.Channel),
			PALevel:       pa,
			DataRate:      rate,
		},
		Backend:    backend,
		CEPin:      c.CEPin,
		IRQPin:     c.IRQPin,
		CSN:        c.CSN,
		SpiClockHz: c.SpiSpeed,
	}, nil
}

// ExamplePALevel returns the PA level the examples should use instead of
// their own, if one was configured.
func (c *Config) ExamplePALevel() (nrf24.PALevel, bool) {
	if c.PALevel == "" {
		return 0, false
	}
	lvl, err := nrf24.ParsePALevel(c.PALevel)
	return lvl, err == nil
}

func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return parsed
}
