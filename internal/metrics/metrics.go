package metrics

import (
	"net/http"
	"time"

	"facewatch/internal/tracker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the frame loop.
type Metrics struct {
	registry *prometheus.Registry

	events          *prometheus.CounterVec
	framesProcessed prometheus.Counter
	framesDropped   prometheus.Counter
	facesInFrame    prometheus.Gauge
	processDuration prometheus.Histogram
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facewatch_events_total",
			Help: "Facial events counted, by kind",
		}, []string{"kind"}),
		framesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facewatch_frames_processed_total",
			Help: "Frames run through detection and the tracker",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facewatch_frames_dropped_total",
			Help: "Frames that could not be read or rendered",
		}),
		facesInFrame: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "facewatch_faces_in_frame",
			Help: "Faces detected in the last processed frame",
		}),
		processDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "facewatch_frame_process_seconds",
			Help:    "Time spent processing one frame",
			Buckets: []float64{.005, .01, .02, .033, .05, .1, .25, .5},
		}),
	}

	for _, kind := range tracker.Kinds {
		m.events.WithLabelValues(string(kind))
	}

	m.registry.MustRegister(m.events, m.framesProcessed, m.framesDropped, m.facesInFrame, m.processDuration)
	return m
}

// ObserveEvent counts one tracker event.
func (m *Metrics) ObserveEvent(kind tracker.EventKind) {
	m.events.WithLabelValues(string(kind)).Inc()
}

// ObserveFrame records a processed frame.
func (m *Metrics) ObserveFrame(faces int, took time.Duration) {
	m.framesProcessed.Inc()
	m.facesInFrame.Set(float64(faces))
	m.processDuration.Observe(took.Seconds())
}

// FrameDropped records a frame that was skipped.
func (m *Metrics) FrameDropped() {
	m.framesDropped.Inc()
}

// RegisterViewerGauge exposes the current number of connected viewers.
func (m *Metrics) RegisterViewerGauge(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "facewatch_viewers",
			Help: "Connected websocket viewers",
		},
		func() float64 { return float64(count()) },
	))
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
