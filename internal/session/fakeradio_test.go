package session

import (
	"bytes"
	"errors"
	"time"

	"github.com/michcald/rf24-examples/nrf24"
)

type incoming struct {
	// at is the offset from the start of the test when the packet
	// becomes available.
	at   time.Duration
	pipe int
	data []byte
}

// fakeRadio is a scripted Radio driven by a manualClock.
type fakeRadio struct {
	clock *manualClock
	start time.Time

	listening bool
	calls     []string

	writes       [][]byte
	writeLatency time.Duration
	// writeErr decides the result of the n-th write (0 based).
	writeErr func(n int) error
	// onWrite runs after every successful write.
	onWrite func(p []byte)

	rx   []incoming
	acks [][]byte

	channel byte
	carrier map[byte]bool
}

var errLost = errors.New("lost")

func newFakeRadio() *fakeRadio {
	clk := newManualClock()
	return &fakeRadio{clock: clk, start: clk.Now(), carrier: map[byte]bool{}}
}

func (r *fakeRadio) config(out *bytes.Buffer, rec Recorder) Config {
	return Config{Out: out, Clock: r.clock, Recorder: rec}
}

func (r *fakeRadio) elapsed() time.Duration {
	return r.clock.Now().Sub(r.start)
}

func (r *fakeRadio) deliver(pipe int, data []byte) {
	r.rx = append(r.rx, incoming{at: r.elapsed(), pipe: pipe, data: data})
}

func (r *fakeRadio) OpenWritingPipe(addr nrf24.Address) {
	r.calls = append(r.calls, "OpenWritingPipe "+string(addr[:]))
}

func (r *fakeRadio) OpenReadingPipe(pipe int, addr []byte) error {
	r.calls = append(r.calls, "OpenReadingPipe "+string(addr))
	return nil
}

func (r *fakeRadio) StartListening() {
	r.listening = true
	r.calls = append(r.calls, "StartListening")
}

func (r *fakeRadio) StopListening() {
	r.listening = false
	r.calls = append(r.calls, "StopListening")
}

func (r *fakeRadio) Write(p []byte) error {
	r.calls = append(r.calls, "Write")
	n := len(r.writes)
	r.writes = append(r.writes, append([]byte(nil), p...))
	r.clock.Advance(r.writeLatency)
	if r.writeErr != nil {
		if err := r.writeErr(n); err != nil {
			return err
		}
	}
	if r.onWrite != nil {
		r.onWrite(p)
	}
	return nil
}

func (r *fakeRadio) Available() (int, bool) {
	if len(r.rx) == 0 || r.elapsed() < r.rx[0].at {
		return 0, false
	}
	return r.rx[0].pipe, true
}

func (r *fakeRadio) Read(buf []byte) (int, error) {
	if len(r.rx) == 0 {
		return 0, errors.New("empty")
	}
	p := r.rx[0]
	r.rx = r.rx[1:]
	return copy(buf, p.data), nil
}

func (r *fakeRadio) WriteAckPayload(pipe int, data []byte) error {
	r.calls = append(r.calls, "WriteAckPayload")
	r.acks = append(r.acks, append([]byte(nil), data...))
	return nil
}

func (r *fakeRadio) SetPALevel(nrf24.PALevel) error { return nil }
func (r *fakeRadio) SetPayloadSize(byte)            {}
func (r *fakeRadio) EnableDynamicPayloads()         {}
func (r *fakeRadio) EnableAckPayload()              {}
func (r *fakeRadio) SetAutoAck(bool)                {}

func (r *fakeRadio) SetChannel(ch byte) error {
	r.channel = ch
	return nil
}

func (r *fakeRadio) IsCarrierDetected() bool {
	return r.carrier[r.channel]
}

// failAfter makes every write from the n-th on fail.
func failAfter(n int) func(int) error {
	return func(i int) error {
		if i >= n {
			return errLost
		}
		return nil
	}
}

type transmission struct {
	example string
	ok      bool
}

// fakeRecorder collects what the sessions report.
type fakeRecorder struct {
	transmissions []transmission
	received      []int
	acks          int
	carriers      map[int]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{carriers: map[int]int{}}
}

func (r *fakeRecorder) Transmission(example string, ok bool, _ time.Duration) {
	r.transmissions = append(r.transmissions, transmission{example, ok})
}

func (r *fakeRecorder) Received(_ string, pipe int) { r.received = append(r.received, pipe) }
func (r *fakeRecorder) AckPayload(string)           { r.acks++ }
func (r *fakeRecorder) Carrier(ch int)              { r.carriers[ch]++ }

func message(text string, counter uint8) []byte {
	b, _ := NewMessage(text, counter).MarshalBinary()
	return b
}
