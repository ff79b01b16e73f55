// Package console turns a byte oriented serial port into the line based
// terminal the example menus read from and print to.
package console

import "time"

// Port is the part of a serial port the console uses. TinyGo's
// machine.Serialer implements it, for the USB CDC console as well as
// for a UART.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// Console reads from a Port without busy looping and writes to it with
// CRLF line endings. Typed characters are echoed back.
type Console struct {
	port Port
	poll time.Duration
}

// New returns a Console that checks for input every 10ms.
func New(p Port) *Console {
	return &Console{port: p, poll: 10 * time.Millisecond}
}

// Read blocks until at least one byte arrived, then returns what is
// buffered. Carriage returns become newlines.
func (c *Console) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for c.port.Buffered() == 0 {
		time.Sleep(c.poll)
	}
	n := 0
	for n < len(p) && c.port.Buffered() > 0 {
		b, err := c.port.ReadByte()
		if err != nil {
			return n, err
		}
		if b == '\r' {
			b = '\n'
		}
		p[n] = b
		n++
	}
	if _, err := c.Write(p[:n]); err != nil {
		return n, err
	}
	return n, nil
}

// Write expands newlines to CRLF.
func (c *Console) Write(p []byte) (int, error) {
	start := 0
	for i, b := range p {
		if b != '\n' {
			continue
		}
		if _, err := c.port.Write(p[start:i]); err != nil {
			return start, err
		}
		if _, err := c.port.Write([]byte("\r\n")); err != nil {
			return i, err
		}
		start = i + 1
	}
	if _, err := c.port.Write(p[start:]); err != nil {
		return start, err
	}
	return len(p), nil
}
