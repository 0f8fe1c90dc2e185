package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus. It also
// keeps the dashboard-facing average_delay aggregate.
type Recorder struct {
	signalsTotal    prometheus.Counter
	deliveriesTotal *prometheus.CounterVec
	attemptsTotal   *prometheus.CounterVec
	channelHealthy  *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
	avgDelayGauge   prometheus.Gauge

	mu        sync.Mutex
	avgDelay  float64 // milliseconds
	startedAt time.Time
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "paratoner_signals_total",
				Help: "Total number of webhook signals ingested",
			},
		),
		deliveriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paratoner_deliveries_total",
				Help: "Delivery outcomes per channel",
			},
			[]string{"channel", "outcome"},
		),
		attemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paratoner_send_attempts_total",
				Help: "Single send attempts per channel including retries",
			},
			[]string{"channel", "outcome"},
		),
		channelHealthy: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "paratoner_channel_healthy",
				Help: "1 if the last delivery sequence for the channel succeeded",
			},
			[]string{"channel"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paratoner_delivery_duration_seconds",
				Help:    "Duration of full dispatch calls including retries",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"channel"},
		),
		avgDelayGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paratoner_average_delay_ms",
				Help: "Rolling average delivery delay in milliseconds",
			},
		),
		startedAt: time.Now(),
	}
}

// RecordSignal records one ingested webhook signal.
func (r *Recorder) RecordSignal() {
	r.signalsTotal.Inc()
}

// RecordDelivery records the final outcome of a dispatch call.
func (r *Recorder) RecordDelivery(channel string, success bool) {
	r.deliveriesTotal.WithLabelValues(channel, outcome(success)).Inc()
}

// RecordAttempt records a single send attempt.
func (r *Recorder) RecordAttempt(channel string, success bool) {
	r.attemptsTotal.WithLabelValues(channel, outcome(success)).Inc()
}

// RecordHealth records channel health state.
func (r *Recorder) RecordHealth(channel string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	r.channelHealthy.WithLabelValues(channel).Set(v)
}

// RecordDeliveryLatency records the wall-clock duration of one dispatch call
// and folds it into the rolling average. The recurrence avg=(avg+latency)/2
// matches the historical dashboard metric.
func (r *Recorder) RecordDeliveryLatency(channel string, d time.Duration) {
	r.latency.WithLabelValues(channel).Observe(d.Seconds())

	ms := float64(d) / float64(time.Millisecond)
	r.mu.Lock()
	r.avgDelay = (r.avgDelay + ms) / 2
	avg := r.avgDelay
	r.mu.Unlock()
	r.avgDelayGauge.Set(avg)
}

// AverageDelayMs returns the rolling average delivery delay.
func (r *Recorder) AverageDelayMs() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.avgDelay
}

// Uptime returns time since the recorder (process) started.
func (r *Recorder) Uptime() time.Duration {
	return time.Since(r.startedAt)
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
