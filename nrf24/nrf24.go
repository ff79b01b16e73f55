// Package nrf24 drives an nRF24L01(+) 2.4 GHz transceiver over SPI.
//
// The API mirrors the calls the RF24 example programs are written
// against: open pipes, switch between listening and transmitting, write
// and read fixed or dynamically sized payloads and attach payloads to
// acknowledgement packets. Hardware access goes through the SPI and Pin
// interfaces so the same driver runs on Linux (periph.io or go-rpio
// backends) and on microcontrollers (TinyGo).
package nrf24

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrPkg                 = errors.New("nrf24")
	ErrMaxRetries          = errors.New("max retransmissions reached")
	ErrTimeout             = errors.New("timeout waiting for device")
	ErrNotResponding       = errors.New("radio hardware is not responding")
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrInvalidPipe         = errors.New("pipe must be between 0 and 5")
	ErrCorruptPayload      = errors.New("corrupt payload width")
	ErrAckPayloadsDisabled = errors.New("ack payloads are not enabled")
)

// MaxChannel is the highest RF channel (2400 MHz + channel).
const MaxChannel = 125

type (
	Address [5]byte
	Packet  [MaxPayloadSize]byte
)

func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4])
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// ParseAddress accepts either five raw characters ("1Node") or five
// colon separated hex octets ("E7:E7:E7:E7:E7").
func ParseAddress(s string) (Address, error) {
	var a Address
	if len(s) == len(a) {
		copy(a[:], s)
		return a, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != len(a) {
		return a, fmt.Errorf("invalid address %q: want 5 characters or 5 hex octets", s)
	}
	for i, p := range parts {
		b, err := strconv.ParseUint(p, 16, 8)
		if err != nil || len(p) != 2 {
			return a, fmt.Errorf("invalid address %q: bad octet %q", s, p)
		}
		a[i] = byte(b)
	}
	return a, nil
}

type (
	DataRate  byte
	PALevel   byte
	CRCLength byte
)

// The zero value of every enum below is the chip's power-on default as
// configured by RF24: 1 Mbps, 0 dBm, 16-bit CRC.
const (
	// DataRate1mbps represents a data rate of 1mbps
	DataRate1mbps DataRate = iota
	// DataRate2mbps represents a data rate of 2mbps
	DataRate2mbps
	// DataRate250kbps represents a data rate of 250kbps
	DataRate250kbps
)

func (d DataRate) String() string {
	switch d {
	case DataRate250kbps:
		return "250kbps"
	case DataRate1mbps:
		return "1mbps"
	case DataRate2mbps:
		return "2mbps"
	default:
		return "unknown"
	}
}

// ParseDataRate parses "250kbps", "1mbps" or "2mbps".
func ParseDataRate(s string) (DataRate, error) {
	for _, d := range []DataRate{DataRate250kbps, DataRate1mbps, DataRate2mbps} {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown data rate %q", s)
}

const (
	// PALevelMax represents a power amplifier level of 0dBm
	PALevelMax PALevel = iota
	// PALevelHigh represents a power amplifier level of -6dBm
	PALevelHigh
	// PALevelLow represents a power amplifier level of -12dBm
	PALevelLow
	// PALevelMin represents a power amplifier level of -18dBm
	PALevelMin
)

func (p PALevel) String() string {
	switch p {
	case PALevelMin:
		return "-18dBm"
	case PALevelLow:
		return "-12dBm"
	case PALevelHigh:
		return "-6dBm"
	case PALevelMax:
		return "0dBm"
	default:
		return "unknown"
	}
}

// ParsePALevel parses "min", "low", "high", "max" or the dBm form
// returned by String.
func ParsePALevel(s string) (PALevel, error) {
	names := map[string]PALevel{
		"min": PALevelMin, "low": PALevelLow, "high": PALevelHigh, "max": PALevelMax,
	}
	if p, ok := names[strings.ToLower(s)]; ok {
		return p, nil
	}
	for _, p := range names {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown PA level %q", s)
}

const (
	// CRCLength16 enables 16-bit CRC
	CRCLength16 CRCLength = iota
	// CRCLength8 enables 8-bit CRC
	CRCLength8
	// CRCLengthDisabled disables CRC. Ignored by the chip while auto-ack is on.
	CRCLengthDisabled
)

func (c CRCLength) String() string {
	switch c {
	case CRCLength16:
		return "16 bits"
	case CRCLength8:
		return "8 bits"
	case CRCLengthDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

type RadioConfig struct {
	// ChannelNumber determines the specific radio frequency within the 2.4 GHz ISM band that your module will use to
	// transmit and listen for data. The range is between 0 to 125.
	// Channel numbers like 70-80 (around 2470-2480 MHz) are often good choices because they sit above the main Wi-Fi
	// spectrum used in many regions.
	ChannelNumber byte
	// RxAddr is the address of this radio module in order to receive messages.
	// When set, pipe 1 is opened with it and the radio is left listening
	// after initialization. Otherwise the radio is left in standby.
	RxAddr Address
	// EnableDynamicPayload enables or disables dynamic packet size.
	EnableDynamicPayload bool
	// EnableAckPayload allows payloads to be attached to ACK packets.
	// Implies EnableDynamicPayload.
	EnableAckPayload bool
	// PayloadSize is the payload size in bytes when EnableDynamicPayload is false.
	// Range: 1 to 32.
	// Defaults to 32 if not provided.
	PayloadSize byte
	// DisableAutoAck turns hardware auto-acknowledgements off on every pipe.
	DisableAutoAck bool
	// DataRate sets the data rate.
	DataRate DataRate
	// PALevel sets the power amplifier level.
	PALevel PALevel
	// AutoRetransmitDelay sets the auto-retransmit delay.
	// The value is in microseconds and must be a multiple of 250.
	// Range: 250 to 4000.
	// Defaults to 1500 if not provided.
	AutoRetransmitDelay uint16
	// AutoRetransmitCount sets the auto-retransmit count.
	// Range: 1 to 15. Use SetAutoRetransmit to disable retransmission.
	// Defaults to 15 if not provided.
	AutoRetransmitCount byte
	// AddressWidth sets the address width.
	// Range: 3 to 5.
	// Defaults to 5 if not provided.
	AddressWidth byte
	// CRCLength sets the CRC length.
	CRCLength CRCLength
}

func (c *RadioConfig) applyDefaults() {
	if c.EnableAckPayload {
		c.EnableDynamicPayload = true
	}
	if c.PayloadSize == 0 || c.PayloadSize > MaxPayloadSize {
		c.PayloadSize = MaxPayloadSize
	}
	if c.AutoRetransmitDelay == 0 {
		c.AutoRetransmitDelay = 1500
	}
	if c.AutoRetransmitCount == 0 {
		c.AutoRetransmitCount = 15
	}
	if c.AddressWidth == 0 {
		c.AddressWidth = 5
	}
}

func (c *RadioConfig) validate() error {
	if c.ChannelNumber > MaxChannel {
		return fmt.Errorf("channel number must be between 0 and %d", MaxChannel)
	}
	if c.AddressWidth < 3 || c.AddressWidth > 5 {
		return fmt.Errorf("AddressWidth must be 3, 4, or 5")
	}
	if c.AutoRetransmitDelay < 250 || c.AutoRetransmitDelay > 4000 || c.AutoRetransmitDelay%250 != 0 {
		return fmt.Errorf("delay must be between 250 and 4000 us and multiple of 250")
	}
	if c.AutoRetransmitCount > 15 {
		return fmt.Errorf("count must be between 0 and 15")
	}
	if c.DataRate > DataRate250kbps {
		return fmt.Errorf("unknown data rate %d", c.DataRate)
	}
	if c.PALevel > PALevelMin {
		return fmt.Errorf("unknown PA level %d", c.PALevel)
	}
	return nil
}

type HardwareConfig struct {
	RadioConfig
	// CE is the Chip Enable pin interface.
	CE Pin
	// IRQ is the Interrupt Request pin interface.
	// Optional. If not provided, polling is used.
	IRQ Pin
}

type Device struct {
	config  HardwareConfig
	conn    SPI
	irqChan chan struct{}
	closer  io.Closer
	mu      sync.Mutex
	scratch [MaxPayloadSize + 1]byte // Max payload (32) + 1 command/status byte

	txAddr    Address
	pipe0Addr []byte // reading address of pipe 0, restored by StartListening
	listening bool
}

// NewWithHardware creates and initializes a new NRF24L01 driver with the provided hardware interfaces.
// It returns ErrNotResponding if the configuration written to the chip
// cannot be read back.
func NewWithHardware(c HardwareConfig, conn SPI) (*Device, error) {
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	if c.CE == nil {
		return nil, fmt.Errorf("CE pin not configured")
	}

	dev := &Device{
		config: c,
		conn:   conn,
	}

	globalLogger.Info("Initializing NRF24L01 SPI communication...")

	// 1. Setup CE. It stays Low (Standby-I) during configuration.
	if err := dev.config.CE.Out(Low); err != nil {
		return nil, fmt.Errorf("failed to drive CE pin: %w", err)
	}

	// 2. Setup IRQ if provided
	if dev.config.IRQ != nil {
		if err := dev.config.IRQ.In(PullUp); err != nil {
			return nil, fmt.Errorf("failed to configure IRQ pin: %w", err)
		}
		dev.irqChan = make(chan struct{}, 1)
		// Watch starts a goroutine that calls the handler on edge
		err := dev.config.IRQ.Watch(FallingEdge, func() {
			select {
			case dev.irqChan <- struct{}{}:
			default:
				// Channel full
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to watch IRQ pin: %w", err)
		}
	}

	// 3. Reset the radio into power down
	dev.writeRegister(regConfig, 0)
	time.Sleep(5 * time.Millisecond)

	// 4. RF parameters
	dev.writeRegister(regSetupAW, dev.config.AddressWidth-2)
	dev.writeRegister(regSetupRetr, retrValue(dev.config.AutoRetransmitDelay, dev.config.AutoRetransmitCount))
	dev.writeRegister(regRFSetup, rfSetupValue(dev.config.DataRate, dev.config.PALevel))
	dev.writeRegister(regRFCh, dev.config.ChannelNumber)

	// 5. Payload features. Dynamic ACK is always on to support TransmitNoAck.
	featureVal := byte(featEnDynAck)
	dynpd := byte(0)
	if dev.config.EnableDynamicPayload {
		featureVal |= featEnDPL
		dynpd = byte(PAll)
	}
	if dev.config.EnableAckPayload {
		featureVal |= featEnAckPay
	}
	dev.writeRegister(regFeature, featureVal)
	dev.writeRegister(regDynPD, dynpd)
	for p := 0; p < 6; p++ {
		dev.writeRegister(byte(regRxPwP0+p), dev.config.PayloadSize)
	}

	// 6. Auto Ack and Pipes
	if dev.config.DisableAutoAck {
		dev.writeRegister(regEnAA, 0)
	} else {
		dev.writeRegister(regEnAA, byte(PAll))
	}
	dev.writeRegister(regEnRxAddr, byte(P0|P1))
	if !dev.config.RxAddr.IsZero() {
		dev.writeRegisterN(regRxAddrP1, dev.config.RxAddr[:dev.config.AddressWidth])
	}

	// 7. Clear leftovers from a previous run
	dev.clearStatus()
	dev.flushTX()
	dev.flushRX()

	// 8. Verify Connection
	// Read back registers to ensure SPI write/read is working
	if dev.readRegister(regRFCh) != dev.config.ChannelNumber ||
		dev.readRegister(regSetupAW) != dev.config.AddressWidth-2 {
		globalLogger.Error("NRF24L01 did not echo its configuration: check wiring/power")
		dev.setCE(false)
		if dev.config.IRQ != nil {
			dev.config.IRQ.Unwatch()
		}
		return nil, fmt.Errorf("%w: %w", ErrPkg, ErrNotResponding)
	}

	// 9. Power up into Standby-I, primary transmitter
	dev.writeRegister(regConfig, dev.configValue()|byte(PwrUp))
	time.Sleep(5 * time.Millisecond)

	globalLogger.Info("NRF24L01 initialized and powered up. Ready to operate.")

	if !dev.config.RxAddr.IsZero() {
		dev.startListening()
	}

	return dev, nil
}

// configValue returns the CRC bits of CONFIG for the current configuration.
func (d *Device) configValue() byte {
	switch d.config.CRCLength {
	case CRCLength8:
		return byte(EnCRC)
	case CRCLength16:
		return byte(EnCRC | CRCO)
	}
	return 0
}

func retrValue(delay uint16, count byte) byte {
	ard := (delay/250 - 1) & 0x0F
	arc := count & 0x0F
	return (byte(ard) << 4) | arc
}

func rfSetupValue(rate DataRate, level PALevel) byte {
	var rfSetup byte
	switch rate {
	case DataRate1mbps:
		// RF_DR_HIGH = 0, RF_DR_LOW = 0
	case DataRate2mbps:
		rfSetup |= rfDRHigh
	case DataRate250kbps:
		rfSetup |= rfDRLow
	}
	switch level {
	case PALevelMin:
		// 0
	case PALevelLow:
		rfSetup |= 1 << rfPwrLSB
	case PALevelHigh:
		rfSetup |= 2 << rfPwrLSB
	case PALevelMax:
		rfSetup |= 3 << rfPwrLSB
	}
	return rfSetup
}

func (d *Device) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return fmt.Sprintf("NRF24L01(Channel=%d, DataRate=%s, PALevel=%s, RxAddr=%s, DynamicPayload=%v, AckPayload=%v, AutoAck=%v)",
		d.config.ChannelNumber,
		d.config.DataRate,
		d.config.PALevel,
		d.config.RxAddr,
		d.config.EnableDynamicPayload,
		d.config.EnableAckPayload,
		!d.config.DisableAutoAck,
	)
}

// Close cleans up the resources used by the NRF24L01 driver.
// It powers down the radio, closes the SPI connection, and releases GPIO pins.
// This method is concurrent safe.
func (dev *Device) Close() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	// 1. Power down
	dev.powerDown()
	globalLogger.Info("NRF24L01 powered down.")

	// 2. Clean up SPI
	var err error
	if dev.closer != nil {
		if err = dev.closer.Close(); err != nil {
			globalLogger.Warn("Failed to close SPI port")
		} else {
			globalLogger.Info("SPI bus closed.")
		}
		dev.closer = nil
	}

	// 3. Clean up GPIO
	if dev.config.IRQ != nil {
		dev.config.IRQ.Unwatch()
	}
	globalLogger.Info("GPIO interface closed.")

	return err
}

// --- NRF24L01 Core Functions (SPI interaction) ---

func (d *Device) spiTransfer(n int) (status Stat, response []byte) {
	// Perform full-duplex transaction on the scratch buffer
	// We use the same slice for read and write
	slice := d.scratch[:n]
	if err := d.conn.Tx(slice, slice); err != nil {
		globalLogger.Error("SPI Transfer Error: " + err.Error())
		return 0, nil
	}

	if n > 0 {
		return Stat(d.scratch[0]), d.scratch[1:n]
	}
	return 0, nil
}

func (d *Device) writeRegister(reg, val byte) {
	d.scratch[0] = cmdWRegister | reg
	d.scratch[1] = val
	d.spiTransfer(2)
}

func (d *Device) readRegister(reg byte) byte {
	d.scratch[0] = cmdRRegister | reg
	d.scratch[1] = cmdNOP
	_, data := d.spiTransfer(2)
	if len(data) > 0 {
		return data[0]
	}
	return 0
}

func (d *Device) readRegisterN(reg byte, n int) []byte {
	d.scratch[0] = cmdRRegister | reg
	for i := 1; i <= n; i++ {
		d.scratch[i] = cmdNOP
	}
	_, data := d.spiTransfer(1 + n)
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

func (d *Device) writeRegisterN(reg byte, data []byte) {
	d.scratch[0] = cmdWRegister | reg
	copy(d.scratch[1:], data)
	d.spiTransfer(1 + len(data))
}

func (d *Device) status() Stat {
	d.scratch[0] = cmdNOP
	s, _ := d.spiTransfer(1)
	return s
}

func (d *Device) flushTX() {
	d.scratch[0] = cmdFlushTX
	d.spiTransfer(1)
}

func (d *Device) flushRX() {
	d.scratch[0] = cmdFlushRX
	d.spiTransfer(1)
}

func (d *Device) clearStatus() {
	d.writeRegister(regStatus, byte(Interrupts))
}

func (d *Device) setCE(level bool) {
	if level {
		d.config.CE.Out(High)
	} else {
		d.config.CE.Out(Low)
	}
}
