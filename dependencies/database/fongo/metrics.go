package fongo

import (
	"errors"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/ti/fongo/log"
)

// metrics the prometheus metrics of the databases of one client.
type metrics struct {
	databases prom.Gauge
	created   prom.Counter
	dropped   prom.Counter
}

func newMetrics(reg prom.Registerer, client string, logger log.Logger) *metrics {
	if logger == nil {
		logger = log.Default()
	}
	databases := registerOrReuse(reg, logger, prom.NewGaugeVec(prom.GaugeOpts{
		Name: "fongo_databases",
		Help: "Number of databases currently registered on the client.",
	}, []string{"client"}))
	created := registerOrReuse(reg, logger, prom.NewCounterVec(prom.CounterOpts{
		Name: "fongo_database_created_total",
		Help: "Total number of databases created on first access.",
	}, []string{"client"}))
	dropped := registerOrReuse(reg, logger, prom.NewCounterVec(prom.CounterOpts{
		Name: "fongo_database_dropped_total",
		Help: "Total number of databases dropped from the client.",
	}, []string{"client"}))
	return &metrics{
		databases: databases.WithLabelValues(client),
		created:   created.WithLabelValues(client),
		dropped:   dropped.WithLabelValues(client),
	}
}

// registerOrReuse returns the collector already registered under the same
// descriptor, so several clients can share one registry. Any other
// registration error is logged and c is returned unregistered.
func registerOrReuse[C prom.Collector](reg prom.Registerer, logger log.Logger, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prom.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	logger.Action("register_metrics").Error("fongo metrics not registered: %s", err)
	return c
}

func (m *metrics) onCreate() {
	if m == nil {
		return
	}
	m.created.Inc()
	m.databases.Inc()
}

func (m *metrics) onDrop(n int) {
	if m == nil || n == 0 {
		return
	}
	m.dropped.Add(float64(n))
	m.databases.Sub(float64(n))
}
