package session

import (
	"context"
	"fmt"

	"github.com/michcald/rf24-examples/nrf24"
)

// AckPayloads exchanges Messages in both directions with a single
// transmission: the receiver attaches its reply to the ACK packet.
type AckPayloads struct {
	radio Radio
	cfg   Config
	node  int
}

const ackPayloadsName = "ack-payloads"

// NewAckPayloads enables ACK payloads on r, sets the PA level and opens
// the writing pipe on Addresses[node] and reading pipe 1 on the other
// address.
func NewAckPayloads(r Radio, node int, cfg Config) (*AckPayloads, error) {
	if err := validNode(node); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	r.EnableDynamicPayloads()
	r.EnableAckPayload()
	if err := r.SetPALevel(cfg.paLevel()); err != nil {
		return nil, err
	}
	r.OpenWritingPipe(Addresses[node])
	if err := r.OpenReadingPipe(1, Addresses[1-node][:]); err != nil {
		return nil, err
	}
	return &AckPayloads{radio: r, cfg: cfg, node: node}, nil
}

// Transmit sends "Hello N" once a second and prints the ACK payload that
// came back. The next counter is the received counter plus one.
func (a *AckPayloads) Transmit(ctx context.Context) error {
	out, clk := a.cfg.Out, a.cfg.Clock
	payload := NewMessage("Hello ", 0)
	a.radio.StopListening()

	buf := make([]byte, nrf24.MaxPayloadSize)
	failures := 0
	for failures < MaxFailures {
		data, _ := payload.MarshalBinary()
		start := clk.Now()
		err := a.radio.Write(data)
		elapsed := clk.Now().Sub(start)
		a.cfg.Recorder.Transmission(ackPayloadsName, err == nil, elapsed)

		if err != nil {
			a.cfg.Logger.Debug("write failed: " + err.Error())
			fmt.Fprintln(out, "Transmission failed or timed out")
			failures++
		} else {
			fmt.Fprintf(out, "Transmission successful! Time to transmit = %d us. Sent: %s",
				elapsed.Microseconds(), payload)
			a.printAck(buf, &payload)
		}

		if err := sleep(ctx, clk, TransmitInterval); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%d failures detected. Leaving TX role.\n", failures)
	return nil
}

func (a *AckPayloads) printAck(buf []byte, payload *Message) {
	out := a.cfg.Out
	pipe, ok := a.radio.Available()
	if !ok {
		fmt.Fprintln(out, " Received an empty ACK packet.")
		return
	}
	n, err := a.radio.Read(buf)
	var received Message
	if err == nil {
		err = received.UnmarshalBinary(buf[:n])
	}
	if err != nil {
		a.cfg.Logger.Warn("bad ACK payload: " + err.Error())
		fmt.Fprintf(out, " Received an unreadable ACK payload on pipe %d.\n", pipe)
		return
	}
	a.cfg.Recorder.AckPayload(ackPayloadsName)
	fmt.Fprintf(out, " Received %d bytes on pipe %d: %s\n", n, pipe, received)
	payload.Counter = received.Counter + 1
}

// Receive preloads "World N" as the ACK payload of pipe 1, then prints
// every Message received and reloads the ACK payload with the received
// counter plus one. It returns when nothing arrived for ReceiveTimeout.
func (a *AckPayloads) Receive(ctx context.Context) error {
	out, clk := a.cfg.Out, a.cfg.Clock
	payload := NewMessage("World ", 0)
	if err := a.loadAck(payload); err != nil {
		return err
	}
	a.radio.StartListening()
	defer a.radio.StopListening()

	buf := make([]byte, nrf24.MaxPayloadSize)
	last := clk.Now()
	for clk.Now().Sub(last) < ReceiveTimeout {
		pipe, ok := a.radio.Available()
		if !ok {
			if err := sleep(ctx, clk, pollInterval); err != nil {
				return err
			}
			continue
		}

		n, err := a.radio.Read(buf)
		var received Message
		if err == nil {
			err = received.UnmarshalBinary(buf[:n])
		}
		if err != nil {
			a.cfg.Logger.Warn(err.Error())
			continue
		}
		a.cfg.Recorder.Received(ackPayloadsName, pipe)
		fmt.Fprintf(out, "Received %d bytes on pipe %d: %s Sent: %s\n", n, pipe, received, payload)
		last = clk.Now()

		payload.Counter = received.Counter + 1
		if err := a.loadAck(payload); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "Nothing received in 6 seconds. Leaving RX role.")
	return nil
}

func (a *AckPayloads) loadAck(m Message) error {
	data, _ := m.MarshalBinary()
	if err := a.radio.WriteAckPayload(1, data); err != nil {
		return fmt.Errorf("loading ACK payload: %w", err)
	}
	return nil
}
