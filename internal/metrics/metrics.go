package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "sessionclock_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported result labels.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

var (
	registerOnce sync.Once

	ticksTotal    prometheus.Counter
	tickDuration  prometheus.Histogram
	sessionsOpen  prometheus.Gauge
	sessionOpen   *prometheus.GaugeVec
	volatileGauge prometheus.Gauge

	feedFetchTotal   *prometheus.CounterVec
	feedFetchLatency *prometheus.HistogramVec

	streamClients prometheus.Gauge

	exportTotal *prometheus.CounterVec
)

// Init registers all metrics with the default registerer.
func Init() {
	InitWith(prometheus.DefaultRegisterer)
}

// InitWith registers all metrics with reg. Only the first call has effect.
func InitWith(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		ticksTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "ticks_total",
				Help: "Total clock ticks processed",
			},
		)
		tickDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "tick_duration_seconds",
				Help:    "Snapshot build latency per tick in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		)
		sessionsOpen = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "sessions_open",
				Help: "Number of currently open sessions",
			},
		)
		sessionOpen = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "session_open",
				Help: "1 when the session is open, 0 when closed",
			},
			[]string{"session"},
		)
		volatileGauge = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "volatility_window",
				Help: "1 while inside a volatility window",
			},
		)

		feedFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "feed_fetch_total",
				Help: "Total feed fetches by feed and result",
			},
			[]string{"feed", "result"},
		)
		feedFetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "feed_fetch_latency_seconds",
				Help:    "Feed fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feed"},
		)

		streamClients = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "stream_clients",
				Help: "Connected stream clients",
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total timetable exports by format and result",
			},
			[]string{"format", "result"},
		)

		reg.MustRegister(
			ticksTotal,
			tickDuration,
			sessionsOpen,
			sessionOpen,
			volatileGauge,
			feedFetchTotal,
			feedFetchLatency,
			streamClients,
			exportTotal,
		)
	})
}

// ObserveTick records one processed tick.
func ObserveTick(duration time.Duration) {
	if ticksTotal != nil {
		ticksTotal.Inc()
	}
	if tickDuration != nil {
		tickDuration.Observe(duration.Seconds())
	}
}

// SetSessionStates publishes per-session open state and the open count.
func SetSessionStates(open map[string]bool) {
	if sessionOpen == nil || sessionsOpen == nil {
		return
	}
	n := 0
	for id, isOpen := range open {
		v := 0.0
		if isOpen {
			v = 1
			n++
		}
		sessionOpen.WithLabelValues(id).Set(v)
	}
	sessionsOpen.Set(float64(n))
}

// SetVolatile publishes the volatility flag.
func SetVolatile(volatile bool) {
	if volatileGauge != nil {
		volatileGauge.Set(boolToFloat(volatile))
	}
}

// ObserveFeedFetch records a feed fetch result and latency.
func ObserveFeedFetch(feed string, err error, duration time.Duration) {
	if feed == "" {
		feed = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if feedFetchTotal != nil {
		feedFetchTotal.WithLabelValues(feed, result).Inc()
	}
	if feedFetchLatency != nil {
		feedFetchLatency.WithLabelValues(feed).Observe(duration.Seconds())
	}
}

// SetStreamClients publishes the connected client count.
func SetStreamClients(n int) {
	if streamClients != nil {
		streamClients.Set(float64(n))
	}
}

// IncExport counts a timetable export.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

// FeedObserver adapts ObserveFeedFetch to the poller observer interface.
type FeedObserver struct{}

// ObserveFetch records a feed fetch.
func (FeedObserver) ObserveFetch(feed string, err error, elapsed time.Duration) {
	ObserveFeedFetch(feed, err, elapsed)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
