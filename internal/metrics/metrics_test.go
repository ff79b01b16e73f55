package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmissions(t *testing.T) {
	r := New()
	r.Transmission("ack-payloads", true, 2*time.Millisecond)
	r.Transmission("ack-payloads", true, 3*time.Millisecond)
	r.Transmission("ack-payloads", false, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.transmissions.WithLabelValues("ack-payloads", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transmissions.WithLabelValues("ack-payloads", "failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}

func TestReceived(t *testing.T) {
	r := New()
	r.Received("getting-started", 0)
	r.Received("getting-started", 0)
	r.Received("manual-acks", 1)
	r.AckPayload("ack-payloads")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.received.WithLabelValues("getting-started", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.received.WithLabelValues("manual-acks", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ackPayloads.WithLabelValues("ack-payloads")))
}

func TestCarrier(t *testing.T) {
	r := New()
	r.Carrier(76)
	r.Carrier(76)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.carriers.WithLabelValues("76")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.carriers))
}

func TestHandlerServesContent(t *testing.T) {
	r := New()
	r.Transmission("getting-started", true, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "# HELP rf24_transmissions_total")
	assert.Contains(t, rr.Body.String(), `rf24_transmissions_total{example="getting-started",result="ok"} 1`)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestServeStopsWithContext(t *testing.T) {
	r := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, "127.0.0.1:0") }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeReportsListenError(t *testing.T) {
	err := New().Serve(context.Background(), "not-an-address")
	assert.Error(t, err)
}
