package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/michcald/rf24-examples/nrf24"
)

// Channels is the number of channels a Scanner sweeps.
const Channels = nrf24.MaxChannel + 1

// carrierSettle is how long the receiver listens on a channel before RPD
// is sampled.
const carrierSettle = 130 * time.Microsecond

// Scanner samples the carrier detect flag on every channel and prints one
// line per sweep with a hex digit per channel: the number of samples in
// which a carrier was seen, capped at 15, or '-' for none.
type Scanner struct {
	radio Radio
	cfg   Config
	// Reps is the number of samples taken per channel and sweep.
	Reps int
}

// NewScanner turns auto-ack off and leaves r in standby.
func NewScanner(r Radio, cfg Config) *Scanner {
	cfg.applyDefaults()
	r.SetAutoAck(false)
	r.StartListening()
	r.StopListening()
	return &Scanner{radio: r, cfg: cfg, Reps: 100}
}

// Header returns the two lines labelling the columns of a sweep with the
// high and low hex digit of the channel number.
func Header() string {
	var hi, lo strings.Builder
	for ch := 0; ch < Channels; ch++ {
		fmt.Fprintf(&hi, "%x", ch>>4)
		fmt.Fprintf(&lo, "%x", ch&0x0f)
	}
	return hi.String() + "\n" + lo.String() + "\n"
}

// Sweep samples every channel Reps times and returns the number of
// samples with a carrier per channel.
func (s *Scanner) Sweep(ctx context.Context) ([Channels]int, error) {
	var counts [Channels]int
	for rep := 0; rep < s.Reps; rep++ {
		for ch := 0; ch < Channels; ch++ {
			if err := ctx.Err(); err != nil {
				return counts, err
			}
			if err := s.radio.SetChannel(byte(ch)); err != nil {
				return counts, err
			}
			s.radio.StartListening()
			if err := sleep(ctx, s.cfg.Clock, carrierSettle); err != nil {
				return counts, err
			}
			s.radio.StopListening()
			if s.radio.IsCarrierDetected() {
				counts[ch]++
				s.cfg.Recorder.Carrier(ch)
			}
		}
	}
	return counts, nil
}

// FormatSweep renders counts as one line of hex digits.
func FormatSweep(counts [Channels]int) string {
	var b strings.Builder
	for _, n := range counts {
		switch {
		case n == 0:
			b.WriteByte('-')
		case n > 0x0f:
			b.WriteByte('f')
		default:
			fmt.Fprintf(&b, "%x", n)
		}
	}
	return b.String()
}

// Run prints the header followed by sweeps lines. A sweeps value of 0
// scans until ctx is cancelled, which is not an error.
func (s *Scanner) Run(ctx context.Context, sweeps int) error {
	fmt.Fprint(s.cfg.Out, Header())
	for i := 0; sweeps == 0 || i < sweeps; i++ {
		counts, err := s.Sweep(ctx)
		if err != nil {
			if sweeps == 0 && ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Fprintln(s.cfg.Out, FormatSweep(counts))
	}
	return nil
}
