package nrf24

import "strconv"

// Register map.
const (
	regConfig     = 0x00
	regEnAA       = 0x01
	regEnRxAddr   = 0x02
	regSetupAW    = 0x03
	regSetupRetr  = 0x04
	regRFCh       = 0x05
	regRFSetup    = 0x06
	regStatus     = 0x07
	regObserveTX  = 0x08
	regRPD        = 0x09
	regRxAddrP0   = 0x0A
	regRxAddrP1   = 0x0B
	regTxAddr     = 0x10
	regRxPwP0     = 0x11
	regFIFOStatus = 0x17
	regDynPD      = 0x1C
	regFeature    = 0x1D
)

// SPI commands.
const (
	cmdRRegister       = 0x00
	cmdWRegister       = 0x20
	cmdRRxPlWid        = 0x60
	cmdRRxPayload      = 0x61
	cmdWTxPayload      = 0xA0
	cmdWAckPayload     = 0xA8 // + pipe (0-5)
	cmdWTxPayloadNoAck = 0xB0
	cmdFlushTX         = 0xE1
	cmdFlushRX         = 0xE2
	cmdNOP             = 0xFF
)

// Bits of RF_SETUP.
const (
	rfDRLow  = 1 << 5
	rfDRHigh = 1 << 3
	rfPwrLSB = 1
)

// Bits of FEATURE.
const (
	featEnDPL    = 1 << 2
	featEnAckPay = 1 << 1
	featEnDynAck = 1 << 0
)

// MaxPayloadSize is the capacity of a single nRF24L01 FIFO slot.
const MaxPayloadSize = 32

// flags renders the bits of b selected by mask into the template f, where
// every '+' in f is replaced by '+' (bit set) or '-' (bit clear), starting
// at the most significant bit of mask.
func flags(f string, mask, b byte) string {
	buf := make([]byte, len(f))
	m := byte(0x80)
	for i := range buf {
		if f[i] != '+' {
			buf[i] = f[i]
			continue
		}
		for mask&m == 0 {
			m >>= 1
		}
		if b&m == 0 {
			buf[i] = '-'
		} else {
			buf[i] = '+'
		}
		m >>= 1
	}
	return string(buf)
}

// Stat is the value of the STATUS register. Every SPI command returns it
// as the first byte of the response.
type Stat byte

const (
	FullTx Stat = 1 << iota // Tx FIFO full flag.
	_
	_
	_
	MaxRT // Maximum number of Tx retransmits interrupt.
	TxDS  // Data Sent Tx FIFO interrupt.
	RxDR  // Data Ready Rx FIFO interrupt.
)

// Interrupts masks the three write-1-to-clear interrupt flags.
const Interrupts = RxDR | TxDS | MaxRT

// RxPipe returns the data pipe number of the payload at the head of the
// RX FIFO or -1 if the RX FIFO is empty. The unused value 6 also gives -1.
func (s Stat) RxPipe() int {
	n := int(s>>1) & 0x07
	if n > 5 {
		return -1
	}
	return n
}

func (s Stat) String() string {
	return flags("RxDR+ TxDS+ MaxRT+ FullTx+ RxPipe:", 0x71, byte(s)) +
		strconv.Itoa(s.RxPipe())
}

// Cfg is the value of the CONFIG register.
type Cfg byte

const (
	PrimRx    Cfg = 1 << iota // Rx/Tx control 1: PRX, 0: PTX.
	PwrUp                     // 1: power up, 0: power down.
	CRCO                      // CRC encoding scheme 0: one byte, 1: two bytes.
	EnCRC                     // Enable CRC. Forced on if any bit in EN_AA is set.
	MaskMaxRT                 // Mask interrupt caused by MaxRT.
	MaskTxDS                  // Mask interrupt caused by TxDS.
	MaskRxDR                  // Mask interrupt caused by RxDR.
)

func (c Cfg) String() string {
	return flags(
		"Mask(RxDR+ TxDS+ MaxRT+) EnCRC+ CRCO+ PwrUp+ PrimRx+",
		0x7f, byte(c),
	)
}

// Pipe is a bitfield of RX data pipes as used by EN_AA, EN_RXADDR and
// DYNPD.
type Pipe byte

const (
	P0 Pipe = 1 << iota
	P1
	P2
	P3
	P4
	P5
	PAll = P0 | P1 | P2 | P3 | P4 | P5
)

func (p Pipe) String() string {
	return flags("P5+ P4+ P3+ P2+ P1+ P0+", 0x3f, byte(p))
}

// FIFO is the value of the FIFO_STATUS register.
type FIFO byte

const (
	RxEmpty FIFO = 1 << iota
	RxFull
	_
	_
	TxEmpty
	TxFull
	TxReuse
)

func (f FIFO) String() string {
	return flags("TxReuse+ TxFull+ TxEmpty+ RxFull+ RxEmpty+", 0x73, byte(f))
}
