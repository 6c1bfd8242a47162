package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Decoding metrics
	eventsDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaindecoder_events_decoded_total",
			Help: "Total number of logs decoded into events",
		},
		[]string{"contract", "event"},
	)

	decodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaindecoder_decode_errors_total",
			Help: "Total number of logs that failed to decode, by error kind",
		},
		[]string{"contract", "kind"},
	)

	decodeTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chaindecoder_decode_duration_seconds",
			Help:    "Time taken to decode a single log",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"contract"},
	)

	// API metrics
	apiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaindecoder_api_requests_total",
			Help: "Total number of API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chaindecoder_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chaindecoder_goroutines",
			Help: "Number of active goroutines",
		},
	)

	MemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chaindecoder_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func EventsDecodedInc(contract, event string) {
	eventsDecoded.WithLabelValues(contract, event).Inc()
}

func DecodeErrorsInc(contract, kind string) {
	decodeErrors.WithLabelValues(contract, kind).Inc()
}

func DecodeDuration(contract string, duration time.Duration) {
	decodeTime.WithLabelValues(contract).Observe(duration.Seconds())
}

func APIRequestsInc(route string, status int) {
	apiRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// UpdateSystemMetrics updates runtime system metrics.
// This should be called periodically (e.g., every 15 seconds).
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())

	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	MemoryUsage.WithLabelValues("total_alloc").Set(float64(m.TotalAlloc))
	MemoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	MemoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
