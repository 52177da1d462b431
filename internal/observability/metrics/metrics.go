package metrics

import "github.com/prometheus/client_golang/prometheus"

// BoardMetrics exposes counters/gauges for the live scheduling board.
type BoardMetrics struct {
	snapshotsApplied  prometheus.Counter
	snapshotsDropped  *prometheus.CounterVec
	writesTotal       *prometheus.CounterVec
	liveClients       prometheus.Gauge
	aggregateDuration prometheus.Histogram
}

func NewBoardMetrics(reg prometheus.Registerer) *BoardMetrics {
	m := &BoardMetrics{
		snapshotsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salesboard",
			Subsystem: "board",
			Name:      "snapshots_applied_total",
			Help:      "Appointment snapshots applied by the board",
		}),
		snapshotsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesboard",
			Subsystem: "board",
			Name:      "snapshots_dropped_total",
			Help:      "Appointment snapshots discarded by the board",
		}, []string{"reason"}),
		writesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesboard",
			Subsystem: "board",
			Name:      "writes_total",
			Help:      "Appointment write intents issued to the repository",
		}, []string{"op", "status"}),
		liveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "salesboard",
			Subsystem: "board",
			Name:      "live_clients",
			Help:      "Connected live-feed WebSocket clients",
		}),
		aggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salesboard",
			Subsystem: "board",
			Name:      "aggregate_duration_seconds",
			Help:      "Time spent recomputing the stats snapshot",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.snapshotsApplied, m.snapshotsDropped, m.writesTotal, m.liveClients, m.aggregateDuration)
	return m
}

func (m *BoardMetrics) ObserveSnapshotApplied() {
	if m == nil {
		return
	}
	m.snapshotsApplied.Inc()
}

func (m *BoardMetrics) ObserveSnapshotDropped(reason string) {
	if m == nil {
		return
	}
	m.snapshotsDropped.WithLabelValues(reason).Inc()
}

func (m *BoardMetrics) ObserveWrite(op string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.writesTotal.WithLabelValues(op, status).Inc()
}

func (m *BoardMetrics) SetLiveClients(n int) {
	if m == nil {
		return
	}
	m.liveClients.Set(float64(n))
}

func (m *BoardMetrics) ObserveAggregateDuration(seconds float64) {
	if m == nil {
		return
	}
	m.aggregateDuration.Observe(seconds)
}
