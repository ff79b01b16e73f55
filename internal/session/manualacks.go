package session

import (
	"context"
	"fmt"

	"github.com/michcald/rf24-examples/nrf24"
)

// ManualAcks runs without hardware acknowledgements. The receiver
// answers every Message with a Message of its own, sent as a regular
// packet after switching to TX mode.
type ManualAcks struct {
	radio Radio
	cfg   Config
	node  int
}

const manualAcksName = "manual-acks"

// NewManualAcks disables auto-ack, uses 8 byte static payloads and opens
// the writing pipe on Addresses[node] and reading pipe 1 on the other
// address.
func NewManualAcks(r Radio, node int, cfg Config) (*ManualAcks, error) {
	if err := validNode(node); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	r.SetAutoAck(false)
	r.SetPayloadSize(MessageSize)
	if err := r.SetPALevel(cfg.paLevel()); err != nil {
		return nil, err
	}
	r.OpenWritingPipe(Addresses[node])
	if err := r.OpenReadingPipe(1, Addresses[1-node][:]); err != nil {
		return nil, err
	}
	return &ManualAcks{radio: r, cfg: cfg, node: node}, nil
}

// Transmit sends "Hello N" once a second and waits ResponseTimeout for
// the answer. A failed write or a missing answer counts as a failure.
func (m *ManualAcks) Transmit(ctx context.Context) error {
	out, clk := m.cfg.Out, m.cfg.Clock
	payload := NewMessage("Hello ", 0)
	m.radio.StopListening()

	failures := 0
	for failures < MaxFailures {
		data, _ := payload.MarshalBinary()
		start := clk.Now()
		err := m.radio.Write(data)
		if err != nil {
			m.cfg.Recorder.Transmission(manualAcksName, false, clk.Now().Sub(start))
			m.cfg.Logger.Debug("write failed: " + err.Error())
			fmt.Fprintln(out, "Transmission failed or timed out")
			failures++
		} else {
			m.radio.StartListening()
			response, n, pipe, ok, err := m.awaitResponse(ctx)
			m.radio.StopListening()
			if err != nil {
				return err
			}
			elapsed := clk.Now().Sub(start)
			m.cfg.Recorder.Transmission(manualAcksName, ok, elapsed)

			fmt.Fprintf(out, "Transmission successful! Time to transmit = %d us. Sent: %s",
				elapsed.Microseconds(), payload)
			if ok {
				m.cfg.Recorder.Received(manualAcksName, pipe)
				fmt.Fprintf(out, " Received %d bytes on pipe %d: %s\n", n, pipe, response)
				payload.Counter = response.Counter + 1
			} else {
				fmt.Fprintln(out, " No response received.")
				failures++
			}
		}

		if err := sleep(ctx, clk, TransmitInterval); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%d failures detected. Leaving TX role.\n", failures)
	return nil
}

// awaitResponse returns the response, its size and pipe, or ok false when
// nothing arrived within ResponseTimeout.
func (m *ManualAcks) awaitResponse(ctx context.Context) (response Message, n, pipe int, ok bool, err error) {
	clk := m.cfg.Clock
	buf := make([]byte, nrf24.MaxPayloadSize)
	start := clk.Now()
	for clk.Now().Sub(start) < ResponseTimeout {
		if pipe, ok = m.radio.Available(); ok {
			n, err = m.radio.Read(buf)
			if err == nil {
				err = response.UnmarshalBinary(buf[:n])
			}
			if err != nil {
				m.cfg.Logger.Warn(err.Error())
				continue
			}
			return response, n, pipe, true, nil
		}
		if err = sleep(ctx, clk, pollInterval); err != nil {
			return Message{}, 0, 0, false, err
		}
	}
	return Message{}, 0, 0, false, nil
}

// Receive answers every Message with "World N" carrying the received
// counter. It returns when nothing arrived for ReceiveTimeout.
func (m *ManualAcks) Receive(ctx context.Context) error {
	out, clk := m.cfg.Out, m.cfg.Clock
	m.radio.StartListening()
	defer m.radio.StopListening()

	buf := make([]byte, nrf24.MaxPayloadSize)
	last := clk.Now()
	for clk.Now().Sub(last) < ReceiveTimeout {
		pipe, ok := m.radio.Available()
		if !ok {
			if err := sleep(ctx, clk, pollInterval); err != nil {
				return err
			}
			continue
		}

		n, err := m.radio.Read(buf)
		var received Message
		if err == nil {
			err = received.UnmarshalBinary(buf[:n])
		}
		if err != nil {
			m.cfg.Logger.Warn(err.Error())
			continue
		}
		m.cfg.Recorder.Received(manualAcksName, pipe)
		last = clk.Now()

		response := NewMessage("World ", received.Counter)
		data, _ := response.MarshalBinary()
		m.radio.StopListening()
		err = m.radio.Write(data)
		m.radio.StartListening()
		m.cfg.Recorder.Transmission(manualAcksName, err == nil, clk.Now().Sub(last))

		fmt.Fprintf(out, "Received %d bytes on pipe %d: %s", n, pipe, received)
		if err != nil {
			m.cfg.Logger.Debug("response failed: " + err.Error())
			fmt.Fprintln(out, " Response failed.")
		} else {
			fmt.Fprintf(out, " Sent: %s\n", response)
		}
	}
	fmt.Fprintln(out, "Nothing received in 6 seconds. Leaving RX role.")
	return nil
}
