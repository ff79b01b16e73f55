package nrf24

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeChip is an in-memory model of the nRF24L01 register file and FIFOs
// that answers SPI commands the way the real chip does. Transmissions
// happen when CE rises while the chip is a powered-up primary transmitter.
type fakeChip struct {
	mu sync.Mutex

	regs   map[byte][]byte
	irq    byte // RX_DR | TX_DS | MAX_RT
	txFIFO []txPacket
	rxFIFO []rxPacket
	ackQ   []ackPayload

	// sent records every packet that left the antenna.
	sent []txPacket
	// acked records ACK payloads sent back to a transmitter.
	acked []ackPayload
	// log records every SPI transaction as written by the driver.
	log [][]byte

	// outcome decides what happens to a transmitted packet. nil means
	// delivered with an empty ACK.
	outcome func(p txPacket) txOutcome
	// dead makes the chip answer every transaction with zeros.
	dead bool
}

type txPacket struct {
	addr  []byte
	data  []byte
	noAck bool
}

type rxPacket struct {
	pipe int
	data []byte
}

type ackPayload struct {
	pipe int
	data []byte
}

type txOutcome struct {
	// lost packets are retried until MAX_RT.
	lost bool
	// silent packets never complete, as if the chip hung.
	silent bool
	// ack is attached to the ACK packet and lands in the RX FIFO on pipe 0.
	ack []byte
}

func newFakeChip() *fakeChip {
	return &fakeChip{
		regs: map[byte][]byte{
			regConfig:    {0x08},
			regEnAA:      {0x3F},
			regEnRxAddr:  {0x03},
			regSetupAW:   {0x03},
			regSetupRetr: {0x03},
			regRFCh:      {0x02},
			regRFSetup:   {0x0E},
			regRxAddrP0:  {0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
			regRxAddrP1:  {0xC2, 0xC2, 0xC2, 0xC2, 0xC2},
			0x0C:         {0xC3},
			0x0D:         {0xC4},
			0x0E:         {0xC5},
			0x0F:         {0xC6},
			regTxAddr:    {0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
		},
	}
}

func (c *fakeChip) statusLocked() byte {
	s := c.irq
	if len(c.rxFIFO) == 0 {
		s |= 0x0E
	} else {
		s |= byte(c.rxFIFO[0].pipe) << 1
	}
	if len(c.txFIFO) >= 3 {
		s |= byte(FullTx)
	}
	return s
}

func (c *fakeChip) regLocked(reg byte) []byte {
	switch reg {
	case regStatus:
		return []byte{c.statusLocked()}
	case regFIFOStatus:
		var f FIFO
		if len(c.rxFIFO) == 0 {
			f |= RxEmpty
		}
		if len(c.rxFIFO) >= 3 {
			f |= RxFull
		}
		if len(c.txFIFO) == 0 {
			f |= TxEmpty
		}
		if len(c.txFIFO) >= 3 {
			f |= TxFull
		}
		return []byte{byte(f)}
	}
	v, ok := c.regs[reg]
	if !ok {
		return []byte{0}
	}
	return v
}

func (c *fakeChip) Tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := append([]byte(nil), w...)
	c.log = append(c.log, cmd)

	resp := make([]byte, len(cmd))
	if c.dead {
		copy(r, resp)
		return nil
	}
	resp[0] = c.statusLocked()

	op := cmd[0]
	switch {
	case op < cmdWRegister:
		copy(resp[1:], c.regLocked(op&0x1F))
	case op < 0x40:
		reg := op & 0x1F
		val := append([]byte(nil), cmd[1:]...)
		if reg == regStatus {
			if len(val) > 0 {
				c.irq &^= val[0] & byte(Interrupts)
			}
		} else {
			c.regs[reg] = val
		}
	case op == cmdRRxPlWid:
		if len(c.rxFIFO) > 0 && len(resp) > 1 {
			resp[1] = byte(len(c.rxFIFO[0].data))
		}
	case op == cmdRRxPayload:
		if len(c.rxFIFO) > 0 {
			copy(resp[1:], c.rxFIFO[0].data)
			c.rxFIFO = c.rxFIFO[1:]
		}
		if len(c.rxFIFO) == 0 {
			c.irq &^= byte(RxDR)
		}
	case op == cmdWTxPayload || op == cmdWTxPayloadNoAck:
		if len(c.txFIFO) < 3 {
			c.txFIFO = append(c.txFIFO, txPacket{data: cmd[1:], noAck: op == cmdWTxPayloadNoAck})
		}
	case op&0xF8 == cmdWAckPayload:
		c.ackQ = append(c.ackQ, ackPayload{pipe: int(op & 0x07), data: cmd[1:]})
	case op == cmdFlushTX:
		c.txFIFO = nil
		c.ackQ = nil
	case op == cmdFlushRX:
		c.rxFIFO = nil
	}

	copy(r, resp)
	return nil
}

func (c *fakeChip) ceRose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.regLocked(regConfig)[0]
	if cfg&byte(PwrUp) == 0 || cfg&byte(PrimRx) != 0 || len(c.txFIFO) == 0 {
		return
	}
	p := c.txFIFO[0]
	p.addr = append([]byte(nil), c.regLocked(regTxAddr)...)

	var out txOutcome
	if c.outcome != nil {
		out = c.outcome(p)
	}
	if out.silent {
		return
	}
	c.sent = append(c.sent, p)

	autoAck := c.regLocked(regEnAA)[0]&byte(P0) != 0 && !p.noAck
	if autoAck && out.lost {
		c.irq |= byte(MaxRT)
		return
	}
	c.txFIFO = c.txFIFO[1:]
	c.irq |= byte(TxDS)
	if autoAck && len(out.ack) > 0 {
		c.rxFIFO = append(c.rxFIFO, rxPacket{pipe: 0, data: out.ack})
		c.irq |= byte(RxDR)
	}
}

// receive puts a packet into the RX FIFO as if it arrived over the air
// on pipe, sending the first pending ACK payload for that pipe back.
func (c *fakeChip) receive(pipe int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rxFIFO = append(c.rxFIFO, rxPacket{pipe: pipe, data: data})
	c.irq |= byte(RxDR)

	if c.regLocked(regEnAA)[0]&(1<<pipe) == 0 {
		return
	}
	for i, a := range c.ackQ {
		if a.pipe == pipe {
			c.acked = append(c.acked, a)
			c.ackQ = append(c.ackQ[:i], c.ackQ[i+1:]...)
			return
		}
	}
}

func (c *fakeChip) reg(reg byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.regLocked(reg)...)
}

func (c *fakeChip) setReg(reg byte, val ...byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[reg] = val
}

func (c *fakeChip) resetLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = nil
}

// wrote reports whether the driver sent exactly seq in one transaction.
func (c *fakeChip) wrote(seq ...byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tx := range c.log {
		if bytes.Equal(tx, seq) {
			return true
		}
	}
	return false
}

func (c *fakeChip) sentPackets() []txPacket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]txPacket(nil), c.sent...)
}

// fakePin is a GPIO pin. When wired as CE it drives the fake chip.
type fakePin struct {
	mu      sync.Mutex
	chip    *fakeChip
	level   Level
	mode    string
	history []Level
	handler func()
}

func (p *fakePin) Out(l Level) error {
	p.mu.Lock()
	rose := l == High && p.level == Low
	p.mode = "output"
	p.level = l
	p.history = append(p.history, l)
	chip := p.chip
	p.mu.Unlock()

	if rose && chip != nil {
		chip.ceRose()
	}
	return nil
}

func (p *fakePin) In(pull Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = "input"
	if pull == PullUp {
		p.level = High
	}
	return nil
}

func (p *fakePin) Read() Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *fakePin) Watch(edge Edge, handler func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = handler
	return nil
}

func (p *fakePin) Unwatch() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = nil
	return nil
}

func (p *fakePin) Level() Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// fire simulates the IRQ line pulsing low.
func (p *fakePin) fire() {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h()
	}
}

type testRadio struct {
	dev  *Device
	chip *fakeChip
	ce   *fakePin
}

func newTestRadio(t *testing.T, cfg RadioConfig) testRadio {
	t.Helper()
	SetLogger(nil)

	chip := newFakeChip()
	ce := &fakePin{chip: chip}
	dev, err := NewWithHardware(HardwareConfig{RadioConfig: cfg, CE: ce}, chip)
	require.NoError(t, err)
	t.Cleanup(func() { dev.Close() })

	chip.resetLog()
	return testRadio{dev: dev, chip: chip, ce: ce}
}
