package session

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/michcald/rf24-examples/nrf24"
)

// Addresses is the pair of pipe addresses shared by the two nodes. A node
// transmits on Addresses[node] and listens on Addresses[1-node].
var Addresses = [2]nrf24.Address{
	{'1', 'N', 'o', 'd', 'e'},
	{'2', 'N', 'o', 'd', 'e'},
}

// MessageSize is the encoded size of a Message.
const MessageSize = 8

// Message is the payload of the ACK payload and manual ACK examples: a
// NUL terminated text of up to six characters and a counter.
type Message struct {
	Text    [7]byte
	Counter uint8
}

// NewMessage returns a Message holding the first six bytes of text.
func NewMessage(text string, counter uint8) Message {
	m := Message{Counter: counter}
	copy(m.Text[:len(m.Text)-1], text)
	return m
}

// String renders the text followed by the counter, e.g. "Hello 3".
func (m Message) String() string {
	text := m.Text[:]
	if i := bytes.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	return string(text) + strconv.Itoa(int(m.Counter))
}

func (m Message) MarshalBinary() ([]byte, error) {
	b := make([]byte, MessageSize)
	copy(b, m.Text[:])
	b[len(m.Text)] = m.Counter
	return b, nil
}

// UnmarshalBinary decodes b. Short payloads leave the missing trailing
// fields zero.
func (m *Message) UnmarshalBinary(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("empty message")
	}
	*m = Message{}
	n := copy(m.Text[:], b)
	if len(b) > n {
		m.Counter = b[n]
	}
	return nil
}

// encodeFloat packs f the way a little endian microcontroller lays out a
// C float.
func encodeFloat(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

func decodeFloat(b []byte) (float32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("float payload needs 4 bytes, got %d", len(b))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// formatFloat prints f with six significant digits and no trailing zeros.
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', 6, 32)
}
