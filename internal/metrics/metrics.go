package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"anchor-todo/go-client/internal/transport"
)

const namespace = "anchor_client"

const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeProgramError = "program_error"
	OutcomeCanceled     = "canceled"
	OutcomeError        = "error"
)

// Recorder holds the client collectors. A nil *Recorder discards everything.
type Recorder struct {
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// New creates the collectors and registers them on reg when reg is non-nil.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_calls_total",
			Help:      "Transport operations by method and outcome.",
		}, []string{"method", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transport_call_seconds",
			Help:      "Latency of transport operations.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Local JSON-RPC requests by method and error code (0 on success).",
		}, []string{"method", "code"}),
	}
	if reg != nil {
		reg.MustRegister(r.calls, r.latency, r.requests)
	}
	return r
}

func (r *Recorder) ObserveCall(method string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(method, Outcome(err)).Inc()
	r.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveRPC(method string, code int) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// Outcome classifies err into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, transport.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	}
	if _, ok := transport.CustomCode(err); ok {
		return OutcomeProgramError
	}
	return OutcomeError
}
