package session

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerHeader(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(Header(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], Channels)
	assert.True(t, strings.HasPrefix(lines[0], "0000000000000000111"))
	assert.True(t, strings.HasPrefix(lines[1], "0123456789abcdef012"))
	assert.True(t, strings.HasSuffix(lines[0], "7777777777777"))
	assert.True(t, strings.HasSuffix(lines[1], "3456789abcd"))
}

func TestFormatSweep(t *testing.T) {
	var counts [Channels]int
	counts[0] = 1
	counts[2] = 10
	counts[3] = 100
	line := FormatSweep(counts)
	assert.Len(t, line, Channels)
	assert.Equal(t, "1-af--", line[:6])
}

func TestScannerRun(t *testing.T) {
	radio := newFakeRadio()
	radio.carrier[3] = true
	radio.carrier[125] = true
	rec := newFakeRecorder()
	var out bytes.Buffer

	s := NewScanner(radio, radio.config(&out, rec))
	s.Reps = 2
	require.NoError(t, s.Run(context.Background(), 2))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	want := "---2" + strings.Repeat("-", Channels-5) + "2"
	assert.Equal(t, want, lines[2])
	assert.Equal(t, want, lines[3])
	assert.Equal(t, map[int]int{3: 4, 125: 4}, rec.carriers)
	assert.False(t, radio.listening)
}

func TestScannerRunUntilCancelled(t *testing.T) {
	radio := newFakeRadio()
	var out bytes.Buffer
	s := NewScanner(radio, radio.config(&out, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx, 0))
	assert.ErrorIs(t, s.Run(ctx, 1), context.Canceled)
}
