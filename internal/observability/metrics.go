package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	AwakeSessions   prometheus.Gauge
	SessionEvents   *prometheus.CounterVec
	Utterances      *prometheus.CounterVec
	FlowEvents      *prometheus.CounterVec
	BookingResults  *prometheus.CounterVec
	WSMessages      *prometheus.CounterVec
	WSWriteErrors   *prometheus.CounterVec
	TurnLatency     prometheus.Histogram
	turnStageWindow *turnStageWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AwakeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "awake_sessions",
			Help:      "Number of sessions currently awake.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session lifecycle events by type.",
		}, []string{"event"}),
		Utterances: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_total",
			Help:      "Handled utterances by dialog outcome.",
		}, []string{"outcome"}),
		FlowEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_events_total",
			Help:      "Flow state machine events by flow type and event.",
		}, []string{"flow", "event"}),
		BookingResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_results_total",
			Help:      "Booking executor outcomes.",
		}, []string{"result"}),
		WSMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		WSWriteErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_write_errors_total",
			Help:      "WebSocket write failures by kind.",
		}, []string{"kind"}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_ms",
			Help:      "HandleUtterance latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		turnStageWindow: newTurnStageWindow(256),
	}
}

// ObserveTurnStage records a stage duration in the rolling latency window.
func (m *Metrics) ObserveTurnStage(stage string, d time.Duration) {
	m.turnStageWindow.Observe(stage, float64(d.Microseconds())/1000)
	if stage == "turn_total" {
		m.TurnLatency.Observe(float64(d.Milliseconds()))
	}
}

// ObserveTurnIndicator bumps a named counter in the latency snapshot.
func (m *Metrics) ObserveTurnIndicator(name string) {
	m.turnStageWindow.ObserveIndicator(name)
}

// SnapshotTurnStages returns percentile stats for the recent turn stages.
func (m *Metrics) SnapshotTurnStages() TurnStageSnapshot {
	return m.turnStageWindow.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
