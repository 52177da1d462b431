package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBoardMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBoardMetrics(reg)
	m.ObserveSnapshotApplied()
	m.ObserveSnapshotDropped("stale")
	m.ObserveWrite("create", nil)
	m.ObserveWrite("delete", errors.New("boom"))
	m.SetLiveClients(3)
	m.ObserveAggregateDuration(0.002)
}

func TestBoardMetricsNilSafe(t *testing.T) {
	var m *BoardMetrics
	m.ObserveSnapshotApplied()
	m.ObserveSnapshotDropped("stale")
	m.ObserveWrite("create", nil)
	m.SetLiveClients(0)
	m.ObserveAggregateDuration(0.1)
}
