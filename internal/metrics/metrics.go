// Package metrics exposes what the example programs do over the radio as
// Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rf24"

// Recorder counts radio operations. It implements session.Recorder.
type Recorder struct {
	registry *prometheus.Registry

	transmissions *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	received      *prometheus.CounterVec
	ackPayloads   *prometheus.CounterVec
	carriers      *prometheus.CounterVec
}

// New returns a Recorder with its collectors registered on a fresh
// registry together with the Go runtime and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transmissions_total",
			Help:      "Total number of payload transmissions by example and result",
		}, []string{"example", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transmit_duration_seconds",
			Help:      "Time from writing a payload to its acknowledgement",
			Buckets:   prometheus.ExponentialBuckets(0.0002, 2, 12),
		}, []string{"example"}),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_received_total",
			Help:      "Total number of payloads read from the RX FIFO by example and pipe",
		}, []string{"example", "pipe"}),
		ackPayloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ack_payloads_received_total",
			Help:      "Total number of payloads received attached to ACK packets",
		}, []string{"example"}),
		carriers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carrier_detections_total",
			Help:      "Total number of scanner samples with a carrier by channel",
		}, []string{"channel"}),
	}
	r.registry.MustRegister(
		r.transmissions,
		r.latency,
		r.received,
		r.ackPayloads,
		r.carriers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Transmission(example string, ok bool, elapsed time.Duration) {
	result := "failed"
	if ok {
		result = "ok"
		r.latency.WithLabelValues(example).Observe(elapsed.Seconds())
	}
	r.transmissions.WithLabelValues(example, result).Inc()
}

func (r *Recorder) Received(example string, pipe int) {
	r.received.WithLabelValues(example, strconv.Itoa(pipe)).Inc()
}

func (r *Recorder) AckPayload(example string) {
	r.ackPayloads.WithLabelValues(example).Inc()
}

func (r *Recorder) Carrier(channel int) {
	r.carriers.WithLabelValues(strconv.Itoa(channel)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
