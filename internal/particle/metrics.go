package particle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Removal reasons recorded on particles_removed_total.
const (
	reasonClick  = "click"
	reasonID     = "id"
	reasonIndex  = "index"
	reasonReaped = "reaped"
	reasonClosed = "closed"
)

var (
	spawnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "particles_spawned_total",
		Help: "Particles spawned since process start",
	})

	removedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "particles_removed_total",
		Help: "Particles removed from the registry, by reason",
	}, []string{"reason"})

	activeGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "particles_active",
		Help: "Particles currently held by registries",
	})

	supervisorTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "particles_supervisor_tick_seconds",
		Help:    "Time spent reaping and repainting per supervisor tick",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})
)

func recordRemoved(reason string, n int) {
	if n == 0 {
		return
	}
	removedTotal.WithLabelValues(reason).Add(float64(n))
	activeGauge.Sub(float64(n))
}
