package session

import (
	"context"
	"fmt"

	"github.com/michcald/rf24-examples/nrf24"
)

// GettingStarted sends a float that grows by 0.01 with every delivered
// packet. Both nodes use the same address, so no node number is needed.
type GettingStarted struct {
	radio   Radio
	cfg     Config
	payload float32
}

const gettingStartedName = "getting-started"

// NewGettingStarted configures r for the example: low PA level unless
// cfg.PALevel is set, 4 byte
// static payloads and "1Node" as both the writing pipe and reading pipe 0.
func NewGettingStarted(r Radio, cfg Config) (*GettingStarted, error) {
	cfg.applyDefaults()

	if err := r.SetPALevel(cfg.paLevel()); err != nil {
		return nil, err
	}
	r.SetPayloadSize(4)
	r.OpenWritingPipe(Addresses[0])
	if err := r.OpenReadingPipe(0, Addresses[0][:]); err != nil {
		return nil, err
	}
	return &GettingStarted{radio: r, cfg: cfg}, nil
}

// Transmit writes the payload once a second until MaxFailures writes
// failed.
func (g *GettingStarted) Transmit(ctx context.Context) error {
	out, clk := g.cfg.Out, g.cfg.Clock
	g.radio.StopListening()

	failures := 0
	for failures < MaxFailures {
		start := clk.Now()
		err := g.radio.Write(encodeFloat(g.payload))
		elapsed := clk.Now().Sub(start)
		g.cfg.Recorder.Transmission(gettingStartedName, err == nil, elapsed)

		if err == nil {
			fmt.Fprintf(out, "Transmission successful! Time to transmit = %d us. Sent: %s\n",
				elapsed.Microseconds(), formatFloat(g.payload))
			g.payload += 0.01
		} else {
			g.cfg.Logger.Debug("write failed: " + err.Error())
			fmt.Fprintln(out, "Transmission failed or timed out")
			failures++
		}

		if err := sleep(ctx, clk, TransmitInterval); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%d failures detected. Leaving TX role.\n", failures)
	return nil
}

// Receive prints every payload until none arrived for ReceiveTimeout.
func (g *GettingStarted) Receive(ctx context.Context) error {
	out, clk := g.cfg.Out, g.cfg.Clock
	g.radio.StartListening()
	defer g.radio.StopListening()

	buf := make([]byte, nrf24.MaxPayloadSize)
	last := clk.Now()
	for clk.Now().Sub(last) < ReceiveTimeout {
		if pipe, ok := g.radio.Available(); ok {
			n, err := g.radio.Read(buf)
			if err != nil {
				g.cfg.Logger.Warn(err.Error())
				continue
			}
			g.cfg.Recorder.Received(gettingStartedName, pipe)
			f, err := decodeFloat(buf[:n])
			if err != nil {
				g.cfg.Logger.Warn(err.Error())
				continue
			}
			fmt.Fprintf(out, "Received %d bytes on pipe %d: %s\n", n, pipe, formatFloat(f))
			g.payload = f
			last = clk.Now()
			continue
		}
		if err := sleep(ctx, clk, pollInterval); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "Timeout reached. Nothing received in 6 seconds")
	return nil
}
