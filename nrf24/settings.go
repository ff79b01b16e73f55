package nrf24

import (
	"fmt"
	"strings"
)

// --- NRF24L01 Configuration ---

// SetChannel changes the radio channel (frequency).
// channel must be between 0 and 125.
// This method is concurrent safe.
func (d *Device) SetChannel(channel byte) error {
	if channel > MaxChannel {
		return fmt.Errorf("channel number must be between 0 and %d", MaxChannel)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.writeRegister(regRFCh, channel)
	d.config.ChannelNumber = channel
	return nil
}

// Channel returns the configured radio channel.
// This method is concurrent safe.
func (d *Device) Channel() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config.ChannelNumber
}

// SetDataRate changes the air data rate.
// This method is concurrent safe.
func (d *Device) SetDataRate(rate DataRate) error {
	if rate > DataRate250kbps {
		return fmt.Errorf("unknown data rate %d", rate)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.config.DataRate = rate
	d.writeRegister(regRFSetup, rfSetupValue(d.config.DataRate, d.config.PALevel))
	return nil
}

// SetPALevel changes the power amplifier level.
// This method is concurrent safe.
func (d *Device) SetPALevel(level PALevel) error {
	if level > PALevelMin {
		return fmt.Errorf("unknown PA level %d", level)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.config.PALevel = level
	d.writeRegister(regRFSetup, rfSetupValue(d.config.DataRate, d.config.PALevel))
	return nil
}

// SetAutoRetransmit configures the automatic retransmission parameters.
// delay: 250 to 4000 microseconds (must be multiple of 250).
// count: 0 to 15 retransmits.
// This method is concurrent safe.
func (d *Device) SetAutoRetransmit(delay uint16, count byte) error {
	if delay < 250 || delay > 4000 || delay%250 != 0 {
		return fmt.Errorf("delay must be between 250 and 4000 us and multiple of 250")
	}
	if count > 15 {
		return fmt.Errorf("count must be between 0 and 15")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.writeRegister(regSetupRetr, retrValue(delay, count))
	d.config.AutoRetransmitDelay = delay
	d.config.AutoRetransmitCount = count
	return nil
}

// SetAddressWidth sets the address width (3, 4, or 5 bytes).
// This method is concurrent safe.
func (d *Device) SetAddressWidth(width byte) error {
	if width < 3 || width > 5 {
		return fmt.Errorf("AddressWidth must be 3, 4, or 5")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.writeRegister(regSetupAW, width-2)
	d.config.AddressWidth = width
	return nil
}

// SetCRCLength changes the CRC scheme. The chip forces CRC on while any
// pipe has auto-ack enabled.
// This method is concurrent safe.
func (d *Device) SetCRCLength(length CRCLength) error {
	if length > CRCLengthDisabled {
		return fmt.Errorf("unknown CRC length %d", length)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.config.CRCLength = length
	cfg := d.readRegister(regConfig) &^ byte(EnCRC|CRCO)
	d.writeRegister(regConfig, cfg|d.configValue())
	return nil
}

// SetPayloadSize sets the static payload width of every pipe. Values
// outside 1..32 are clamped.
// This method is concurrent safe.
func (d *Device) SetPayloadSize(size byte) {
	if size < 1 {
		size = 1
	}
	if size > MaxPayloadSize {
		size = MaxPayloadSize
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for p := 0; p < 6; p++ {
		d.writeRegister(byte(regRxPwP0+p), size)
	}
	d.config.PayloadSize = size
}

// PayloadSize returns the static payload width.
// This method is concurrent safe.
func (d *Device) PayloadSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int(d.config.PayloadSize)
}

// EnableDynamicPayloads lets every pipe accept payloads of 1 to 32 bytes.
// This method is concurrent safe.
func (d *Device) EnableDynamicPayloads() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.writeRegister(regFeature, d.readRegister(regFeature)|featEnDPL)
	d.writeRegister(regDynPD, byte(PAll))
	d.config.EnableDynamicPayload = true
}

// DisableDynamicPayloads returns every pipe to static payloads. ACK
// payloads depend on dynamic payloads and are disabled too.
// This method is concurrent safe.
func (d *Device) DisableDynamicPayloads() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.writeRegister(regFeature, d.readRegister(regFeature)&^byte(featEnDPL|featEnAckPay))
	d.writeRegister(regDynPD, 0)
	d.config.EnableDynamicPayload = false
	d.config.EnableAckPayload = false
}

// EnableAckPayload allows WriteAckPayload to attach data to ACK packets.
// Dynamic payloads are enabled on pipes 0 and 1 as the chip requires.
// This method is concurrent safe.
func (d *Device) EnableAckPayload() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.writeRegister(regFeature, d.readRegister(regFeature)|featEnAckPay|featEnDPL)
	d.writeRegister(regDynPD, d.readRegister(regDynPD)|byte(P0|P1))
	d.config.EnableAckPayload = true
	d.config.EnableDynamicPayload = true
}

// SetAutoAck turns hardware acknowledgements on or off for every pipe.
// This method is concurrent safe.
func (d *Device) SetAutoAck(enable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if enable {
		d.writeRegister(regEnAA, byte(PAll))
	} else {
		d.writeRegister(regEnAA, 0)
	}
	d.config.DisableAutoAck = !enable
}

// --- Diagnostics ---

// Status reads the current value of the STATUS register.
// This is useful for debugging or polling the radio state.
// This method is concurrent safe.
func (d *Device) Status() Stat {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status()
}

// FlushTX clears the transmit FIFO buffer.
// This method is concurrent safe.
func (d *Device) FlushTX() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushTX()
}

// FlushRX clears the receive FIFO buffer.
// This method is concurrent safe.
func (d *Device) FlushRX() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushRX()
}

// RetransmissionCounters returns the number of lost packets and the number of retransmissions
// for the last sent packet.
// lostPackets: Number of packets lost (count resets when changing channel).
// currentRetries: Number of retransmissions for the latest transmission.
// This method is concurrent safe.
func (d *Device) RetransmissionCounters() (lostPackets byte, currentRetries byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	val := d.readRegister(regObserveTX)
	lostPackets = (val >> 4) & 0x0F
	currentRetries = val & 0x0F
	return
}

// IsCarrierDetected returns true if a carrier is detected on the current channel.
// The RPD flag latches a signal above -64dBm received while listening, so
// the radio must have been in RX mode for at least 170us before calling.
// This method is concurrent safe.
func (d *Device) IsCarrierDetected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return (d.readRegister(regRPD) & 0x01) != 0
}

// Details returns a human readable dump of the chip registers.
// This method is concurrent safe.
func (d *Device) Details() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	aw := int(d.config.AddressWidth)
	cfg := Cfg(d.readRegister(regConfig))
	aa := Pipe(d.readRegister(regEnAA))
	rxae := Pipe(d.readRegister(regEnRxAddr))
	retr := d.readRegister(regSetupRetr)
	rfSetup := d.readRegister(regRFSetup)
	observe := d.readRegister(regObserveTX)
	rpd := d.readRegister(regRPD)&0x01 != 0
	a0 := d.readRegisterN(regRxAddrP0, aw)
	a1 := d.readRegisterN(regRxAddrP1, aw)
	var a2to5 [4]byte
	for i := range a2to5 {
		a2to5[i] = d.readRegister(byte(regRxAddrP0 + 2 + i))
	}
	txa := d.readRegisterN(regTxAddr, aw)
	var pw [6]byte
	for i := range pw {
		pw[i] = d.readRegister(byte(regRxPwP0 + i))
	}
	fifo := FIFO(d.readRegister(regFIFOStatus))
	dynpd := Pipe(d.readRegister(regDynPD))
	feature := d.readRegister(regFeature)
	stat := d.status()

	rpds := "< -64dBm"
	if rpd {
		rpds = "> -64dBm"
	}
	dr := "1mbps"
	switch {
	case rfSetup&rfDRLow != 0:
		dr = "250kbps"
	case rfSetup&rfDRHigh != 0:
		dr = "2mbps"
	}
	pa := [...]string{"-18dBm", "-12dBm", "-6dBm", "0dBm"}[(rfSetup>>rfPwrLSB)&0x03]

	var b strings.Builder
	fmt.Fprintf(&b, "STATUS     = %s\n", stat)
	fmt.Fprintf(&b, "CONFIG     = %s\n", cfg)
	fmt.Fprintf(&b, "EN_AA      = %s\n", aa)
	fmt.Fprintf(&b, "EN_RXADDR  = %s\n", rxae)
	fmt.Fprintf(&b, "SETUP_AW   = %d bytes\n", aw)
	fmt.Fprintf(&b, "SETUP_RETR = %d times, %d us\n", retr&0x0F, (int(retr>>4)+1)*250)
	fmt.Fprintf(&b, "RF_CH      = %d (%d MHz)\n", d.readRegister(regRFCh), 2400+int(d.readRegister(regRFCh)))
	fmt.Fprintf(&b, "RF_SETUP   = %s, %s\n", dr, pa)
	fmt.Fprintf(&b, "OBSERVE_TX = %d pkt lost, %d retr\n", observe>>4, observe&0x0F)
	fmt.Fprintf(&b, "RPD        = %t (%s)\n", rpd, rpds)
	fmt.Fprintf(&b, "RX_ADDR_P0 = %X\n", a0)
	fmt.Fprintf(&b, "RX_ADDR_P1 = %X\n", a1)
	fmt.Fprintf(&b, "RX_ADDR_P2-5 = %X\n", a2to5[:])
	fmt.Fprintf(&b, "TX_ADDR    = %X\n", txa)
	fmt.Fprintf(&b, "RX_PW_P0-5 = %v\n", pw[:])
	fmt.Fprintf(&b, "FIFO       = %s\n", fifo)
	fmt.Fprintf(&b, "DYNPD      = %s\n", dynpd)
	fmt.Fprintf(&b, "FEATURE    = DPL%s AckPay%s DynAck%s\n",
		sign(feature&featEnDPL), sign(feature&featEnAckPay), sign(feature&featEnDynAck))
	return b.String()
}

func sign(bit byte) string {
	if bit != 0 {
		return "+"
	}
	return "-"
}
