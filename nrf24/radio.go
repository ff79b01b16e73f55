package nrf24

import (
	"context"
	"fmt"
	"time"
)

// --- Pipes ---

// setTargetAddress points TX_ADDR at addr. RX_ADDR_P0 must follow it
// because the ACK for an auto-acknowledged packet comes back on pipe 0.
func (d *Device) setTargetAddress(addr Address) {
	d.setCE(false) // Ensure we are in standby
	w := d.config.AddressWidth
	d.writeRegisterN(regTxAddr, addr[:w])
	d.writeRegisterN(regRxAddrP0, addr[:w])
	d.txAddr = addr
}

// OpenWritingPipe sets the address that Write transmits to.
// This method is concurrent safe.
func (d *Device) OpenWritingPipe(addr Address) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setTargetAddress(addr)
}

// OpenReadingPipe enables a data pipe (0-5) with the specified address.
// For Pipe 0 and 1, a full address (3-5 bytes depending on configuration) must be provided.
// For Pipes 2-5, only the LSB (1 byte) is required, as they share the high bytes with Pipe 1.
// If a full address is provided for Pipes 2-5, only the LSB is used.
// This method automatically configures the payload size/type based on the current configuration.
// Pipe 0 shares its address register with the auto-ack path of the
// transmitter: its reading address is cached and written back on
// StartListening.
// This method is concurrent safe.
func (d *Device) OpenReadingPipe(pipe int, address []byte) error {
	if pipe < 0 || pipe > 5 {
		return fmt.Errorf("%w: %w", ErrPkg, ErrInvalidPipe)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// 1. Configure Address
	reg := byte(regRxAddrP0 + pipe)
	if pipe <= 1 {
		if len(address) < int(d.config.AddressWidth) {
			return fmt.Errorf("pipe %d requires %d byte address", pipe, d.config.AddressWidth)
		}
		addr := address[:d.config.AddressWidth]
		if pipe == 0 {
			d.pipe0Addr = append(d.pipe0Addr[:0], addr...)
		}
		d.writeRegisterN(reg, addr)
	} else {
		if len(address) == 0 {
			return fmt.Errorf("pipe %d requires at least 1 byte address", pipe)
		}
		d.writeRegister(reg, address[0])
	}

	// 2. Configure Payload
	if d.config.EnableDynamicPayload {
		d.writeRegister(regDynPD, d.readRegister(regDynPD)|(1<<pipe))
	} else {
		d.writeRegister(regDynPD, d.readRegister(regDynPD)&^(1<<pipe))
		d.writeRegister(byte(regRxPwP0+pipe), d.config.PayloadSize)
	}

	// 3. Enable Pipe in EN_RXADDR
	d.writeRegister(regEnRxAddr, d.readRegister(regEnRxAddr)|(1<<pipe))

	// 4. Configure Auto-Ack
	if d.config.DisableAutoAck {
		d.writeRegister(regEnAA, d.readRegister(regEnAA)&^(1<<pipe))
	} else {
		d.writeRegister(regEnAA, d.readRegister(regEnAA)|(1<<pipe))
	}

	return nil
}

// CloseReadingPipe disables a specific data pipe (0-5).
// This method is concurrent safe.
func (d *Device) CloseReadingPipe(pipe int) error {
	if pipe < 0 || pipe > 5 {
		return fmt.Errorf("%w: %w", ErrPkg, ErrInvalidPipe)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.writeRegister(regEnRxAddr, d.readRegister(regEnRxAddr)&^(1<<pipe))
	d.writeRegister(regEnAA, d.readRegister(regEnAA)&^(1<<pipe))
	if pipe == 0 {
		d.pipe0Addr = nil
	}
	return nil
}

// --- Modes ---

// StartListening switches the radio to primary receiver and raises CE.
// This method is concurrent safe.
func (d *Device) StartListening() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.startListening()
}

func (d *Device) startListening() {
	d.writeRegister(regConfig, d.readRegister(regConfig)|byte(PrimRx))
	d.writeRegister(regStatus, byte(Interrupts))
	if d.pipe0Addr != nil {
		d.writeRegisterN(regRxAddrP0, d.pipe0Addr)
	} else {
		d.writeRegister(regEnRxAddr, d.readRegister(regEnRxAddr)&^byte(P0))
	}
	d.setCE(true)
	d.listening = true
	time.Sleep(130 * time.Microsecond)
}

// StopListening drops CE and switches the radio to primary transmitter.
// When ACK payloads are enabled the TX FIFO is flushed so stale ACK
// payloads are not sent as data.
// This method is concurrent safe.
func (d *Device) StopListening() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopListening()
}

func (d *Device) stopListening() {
	d.setCE(false)
	if d.config.EnableAckPayload {
		d.flushTX()
	}
	d.writeRegister(regConfig, d.readRegister(regConfig)&^byte(PrimRx))
	d.writeRegister(regEnRxAddr, d.readRegister(regEnRxAddr)|byte(P0))
	if !d.txAddr.IsZero() {
		d.writeRegisterN(regRxAddrP0, d.txAddr[:d.config.AddressWidth])
	}
	d.listening = false
}

// IsListening reports whether the radio is in RX mode.
// This method is concurrent safe.
func (d *Device) IsListening() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listening
}

// --- NRF24L01 Power Management ---

// PowerDown puts the NRF24L01 into Power Down mode.
// In this mode, the radio is disabled with minimal current consumption (approx. 900nA).
// This is useful for battery-powered applications when the radio is not in use.
// This method is concurrent safe.
func (d *Device) PowerDown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.powerDown()
}

func (d *Device) powerDown() {
	d.setCE(false)
	d.writeRegister(regConfig, d.readRegister(regConfig)&^byte(PwrUp))
	d.listening = false
}

// PowerUp wakes the NRF24L01 from Power Down mode.
// After calling PowerUp, it takes approximately 1.5ms for the crystal oscillator to stabilize
// before the radio can enter Standby or RX/TX modes.
// This method is concurrent safe.
func (d *Device) PowerUp() {
	d.mu.Lock()
	defer d.mu.Unlock()
	cfg := d.readRegister(regConfig)
	if cfg&byte(PwrUp) != 0 {
		return
	}
	d.writeRegister(regConfig, cfg|byte(PwrUp))
	time.Sleep(2 * time.Millisecond) // Wait for oscillator stabilization
}

// --- Write ---

func (d *Device) payloadLimit() int {
	if d.config.EnableDynamicPayload {
		return MaxPayloadSize
	}
	return int(d.config.PayloadSize)
}

func (d *Device) checkPayload(p []byte) error {
	limit := d.payloadLimit()
	if len(p) > limit {
		return fmt.Errorf("%w: %w (%d bytes), limit is %d", ErrPkg, ErrPayloadTooLarge, len(p), limit)
	}
	return nil
}

func (d *Device) write(data []byte, noAck bool) error {
	d.setCE(false)

	cmdPrefix := byte(cmdWTxPayload)
	if noAck {
		cmdPrefix = cmdWTxPayloadNoAck
	}

	d.scratch[0] = cmdPrefix

	if d.config.EnableDynamicPayload {
		copy(d.scratch[1:], data)
		d.spiTransfer(1 + len(data))
	} else {
		// Fixed payloads are zero padded to PayloadSize
		size := int(d.config.PayloadSize)
		for i := 1; i <= size; i++ {
			d.scratch[i] = 0
		}
		copy(d.scratch[1:], data)
		d.spiTransfer(1 + size)
	}

	d.setCE(true)
	time.Sleep(15 * time.Microsecond)
	d.setCE(false)

	// (Delay * Count) is the maximum time the hardware will spend retrying.
	// 50ms covers SPI communication and OS scheduling on top of it.
	timeoutDuration := time.Duration(d.config.AutoRetransmitDelay)*time.Duration(d.config.AutoRetransmitCount)*time.Microsecond + 50*time.Millisecond
	deadline := time.Now().Add(timeoutDuration)

	for {
		status := d.status()
		if status&(TxDS|MaxRT) != 0 {
			d.writeRegister(regStatus, byte(TxDS|MaxRT))
			if status&MaxRT != 0 {
				d.flushTX()
				return fmt.Errorf("%w: %w", ErrPkg, ErrMaxRetries)
			}
			return nil
		}
		if time.Now().After(deadline) {
			d.clearStatus()
			d.flushTX()
			return fmt.Errorf("%w: %w", ErrPkg, ErrTimeout)
		}
		time.Sleep(50 * time.Microsecond)
	}
}

// Write transmits p to the address set by OpenWritingPipe and blocks
// until the packet was acknowledged, the retransmit count was exhausted
// (ErrMaxRetries) or the chip stopped answering (ErrTimeout). With
// auto-ack disabled every completed transmission is a success.
// The radio is left in TX mode.
// This method is concurrent safe.
func (d *Device) Write(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkPayload(p); err != nil {
		return err
	}
	if d.listening {
		d.stopListening()
	}
	return d.write(p, false)
}

// Transmit sends a message to destAddr and puts the radio back in RX
// mode afterwards.
// This method is concurrent safe.
// It returns an error if you are trying to send a message bigger than the max payload size.
func (dev *Device) Transmit(destAddr Address, p []byte) error {
	return dev.transmit(destAddr, p, false)
}

// TransmitNoAck sends a message with a "No Acknowledgement" flag in the packet header.
// Unlike a regular Transmit with auto-ack disabled, this method explicitly tells
// the receiver NOT to send an ACK packet. This is the preferred method for broadcasting
// to multiple receivers or for high-speed, low-reliability data as it prevents receivers
// from wasting power and airtime sending ACKs that the transmitter isn't listening for.
// This method is concurrent safe.
func (dev *Device) TransmitNoAck(destAddr Address, p []byte) error {
	return dev.transmit(destAddr, p, true)
}

func (dev *Device) transmit(destAddr Address, p []byte, noAck bool) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if err := dev.checkPayload(p); err != nil {
		return err
	}

	dev.stopListening()
	dev.setTargetAddress(destAddr)

	err := dev.write(p, noAck)
	dev.startListening()
	if err != nil {
		return fmt.Errorf("failed to send data: %w", err)
	}
	return nil
}

// WriteAckPayload writes a payload to be transmitted with the next ACK
// packet sent on pipe. The chip holds up to three pending ACK payloads.
// This allows for bi-directional communication where the receiver replies to the
// transmitter instantly.
// This method is concurrent safe.
func (d *Device) WriteAckPayload(pipe int, data []byte) error {
	if pipe < 0 || pipe > 5 {
		return fmt.Errorf("%w: %w", ErrPkg, ErrInvalidPipe)
	}
	if len(data) > MaxPayloadSize {
		return fmt.Errorf("%w: %w (%d bytes), max is %d", ErrPkg, ErrPayloadTooLarge, len(data), MaxPayloadSize)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.config.EnableAckPayload || d.config.DisableAutoAck {
		return fmt.Errorf("%w: %w", ErrPkg, ErrAckPayloadsDisabled)
	}

	d.scratch[0] = cmdWAckPayload | byte(pipe)
	copy(d.scratch[1:], data)
	d.spiTransfer(1 + len(data))

	return nil
}

// --- Read ---

// Available reports whether a payload is waiting in the RX FIFO and the
// pipe it arrived on.
// This method is concurrent safe.
func (d *Device) Available() (pipe int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pipe = d.status().RxPipe()
	return pipe, pipe >= 0
}

// DynamicPayloadSize returns the width of the payload at the head of the
// RX FIFO. Widths above 32 are reported as 0 after flushing the RX FIFO.
// This method is concurrent safe.
func (d *Device) DynamicPayloadSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.payloadWidth()
	if w > MaxPayloadSize {
		d.flushRX()
		return 0
	}
	return w
}

func (d *Device) payloadWidth() int {
	d.scratch[0] = cmdRRxPlWid
	d.scratch[1] = cmdNOP
	_, data := d.spiTransfer(2)
	if len(data) == 0 {
		return 0
	}
	return int(data[0])
}

// readFIFO pops the payload at the head of the RX FIFO into the scratch
// buffer and returns a slice of it.
func (d *Device) readFIFO() ([]byte, error) {
	size := int(d.config.PayloadSize)
	if d.config.EnableDynamicPayload {
		size = d.payloadWidth()
		if size == 0 || size > MaxPayloadSize {
			// An impossible width means the FIFO is corrupt: it cannot be
			// advanced by reading so it has to be flushed.
			d.flushRX()
			d.writeRegister(regStatus, byte(RxDR))
			return nil, fmt.Errorf("%w: %w (%d)", ErrPkg, ErrCorruptPayload, size)
		}
	}

	d.scratch[0] = cmdRRxPayload
	for i := 1; i <= size; i++ {
		d.scratch[i] = cmdNOP
	}
	_, data := d.spiTransfer(size + 1)
	return data, nil
}

// Read pops the next payload from the RX FIFO into buf and returns the
// number of bytes copied. The payload is truncated if buf is too small.
// Call Available first: reading an empty FIFO returns garbage.
// This method is concurrent safe.
func (d *Device) Read(buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.readFIFO()
	if err != nil {
		return 0, err
	}
	n := copy(buf, data)
	d.writeRegister(regStatus, byte(RxDR))
	return n, nil
}

// Receive tries to receive a packet from the NRF24L01 module.
// This method is non-blocking and assumes the radio has been put into
// receive mode (StartListening, or RxAddr at construction).
// It returns the packet and true if a message is available, otherwise returns nil and false.
// This method is concurrent safe.
func (dev *Device) Receive() ([]byte, bool) {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.status().RxPipe() < 0 {
		return nil, false
	}
	data, err := dev.readFIFO()
	if err != nil {
		globalLogger.Warn(err.Error())
		return nil, false
	}
	// Copy result to safe buffer BEFORE clearing status which reuses scratch
	result := make([]byte, len(data))
	copy(result, data)
	dev.writeRegister(regStatus, byte(RxDR))
	return result, true
}

// WaitForInterrupt blocks until the IRQ pin goes low (active) or the context is cancelled.
// It returns the content of the STATUS register.
// If IRQ is not configured, it returns an error.
// This method is concurrent safe.
func (d *Device) WaitForInterrupt(ctx context.Context) (Stat, error) {
	if d.config.IRQ == nil {
		return 0, fmt.Errorf("IRQ pin not configured")
	}

	// Check if interrupt is already active (low = false)
	if d.config.IRQ.Read() == Low {
		return d.Status(), nil
	}

	select {
	case <-d.irqChan:
		return d.Status(), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ReceiveBlocking waits for a packet to arrive or for the context to be cancelled.
// It blocks efficiently using the IRQ pin if configured, or falls back to polling.
// This method is concurrent safe.
func (d *Device) ReceiveBlocking(ctx context.Context) ([]byte, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if data, ok := d.Receive(); ok {
			return data, nil
		}

		if d.config.IRQ != nil {
			status, err := d.WaitForInterrupt(ctx)
			if err != nil {
				return nil, err
			}
			if status&RxDR != 0 {
				continue
			}
			// Some other interrupt (e.g. MaxRT): clear it so the IRQ line is released
			d.ClearInterrupts(status & Interrupts)
		} else {
			// Sleep instead of time.After to avoid a timer allocation per poll
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// ClearInterrupts clears the given interrupt flags in the STATUS register.
// This method is concurrent safe.
func (d *Device) ClearInterrupts(flags Stat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeRegister(regStatus, byte(flags&Interrupts))
}

// Ping sends a single zero byte to addr and reports whether it was
// acknowledged. The previous target address and RX/TX mode are restored.
// This method is concurrent safe.
func (d *Device) Ping(ctx context.Context, addr Address) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	wasListening := d.listening
	prev := d.txAddr
	if wasListening {
		d.stopListening()
	}
	d.setTargetAddress(addr)

	err := d.write([]byte{0x00}, false)

	if !prev.IsZero() {
		d.setTargetAddress(prev)
	}
	if wasListening {
		d.startListening()
	}

	if err == nil {
		globalLogger.Debug("Ping to " + addr.String() + " acknowledged")
		return true, nil
	}
	globalLogger.Debug("Ping to " + addr.String() + " failed: " + err.Error())
	return false, nil
}
