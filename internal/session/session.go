// Package session implements the example programs: an interactive role
// menu and the transmitter and receiver loops of each example.
//
// Every loop runs on the calling goroutine and returns when its failure
// ceiling or receive timeout is reached, or when ctx is cancelled.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/michcald/rf24-examples/nrf24"
)

const (
	// MaxFailures ends a transmitter loop.
	MaxFailures = 6
	// ReceiveTimeout ends a receiver loop when no payload arrived for
	// that long.
	ReceiveTimeout = 6 * time.Second
	// TransmitInterval paces transmissions.
	TransmitInterval = time.Second
	// ResponseTimeout is how long a manual ACK transmitter waits for the
	// response.
	ResponseTimeout = 200 * time.Millisecond

	pollInterval = time.Millisecond
)

// Radio is the part of *nrf24.Device used by the examples.
type Radio interface {
	OpenWritingPipe(addr nrf24.Address)
	OpenReadingPipe(pipe int, addr []byte) error
	StartListening()
	StopListening()
	Write(p []byte) error
	Available() (pipe int, ok bool)
	Read(buf []byte) (int, error)
	WriteAckPayload(pipe int, data []byte) error

	SetPALevel(level nrf24.PALevel) error
	SetPayloadSize(size byte)
	EnableDynamicPayloads()
	EnableAckPayload()
	SetAutoAck(enable bool)
	SetChannel(channel byte) error
	IsCarrierDetected() bool
}

var _ Radio = (*nrf24.Device)(nil)

// Recorder receives the outcome of radio operations. *metrics.Recorder
// implements it.
type Recorder interface {
	Transmission(example string, ok bool, elapsed time.Duration)
	Received(example string, pipe int)
	AckPayload(example string)
	Carrier(channel int)
}

type nopRecorder struct{}

func (nopRecorder) Transmission(string, bool, time.Duration) {}
func (nopRecorder) Received(string, int)                     {}
func (nopRecorder) AckPayload(string)                        {}
func (nopRecorder) Carrier(int)                              {}

// Clock is the time source of the loops.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Config holds what every example needs besides the radio.
type Config struct {
	// Out receives the example output. Defaults to os.Stdout.
	Out io.Writer
	// Clock defaults to the wall clock.
	Clock Clock
	// Recorder defaults to a no-op.
	Recorder Recorder
	// Logger receives diagnostics that are not part of the example
	// output. Defaults to a no-op.
	Logger nrf24.Logger
	// PALevel replaces the low PA level the examples use when set.
	PALevel *nrf24.PALevel
}

func (c *Config) paLevel() nrf24.PALevel {
	if c.PALevel != nil {
		return *c.PALevel
	}
	return nrf24.PALevelLow
}

func (c *Config) applyDefaults() {
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Clock == nil {
		c.Clock = realClock{}
	}
	if c.Recorder == nil {
		c.Recorder = nopRecorder{}
	}
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(string) {}

func sleep(ctx context.Context, c Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.After(d):
		return nil
	}
}

// validNode rejects anything but 0 and 1.
func validNode(node int) error {
	if node != 0 && node != 1 {
		return fmt.Errorf("node must be 0 or 1, got %d", node)
	}
	return nil
}
