package plugins

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus metrics a Registry can be instrumented
// with. All metrics are labeled by namespace so both extension points
// can share one Metrics value.
type Metrics struct {
	DiscoveryTotal    *prometheus.CounterVec
	ConflictsTotal    *prometheus.CounterVec
	LookupMissesTotal *prometheus.CounterVec
	PluginsLoaded     *prometheus.GaugeVec
}

// NewMetrics creates the registry metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DiscoveryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openany_plugin_discovery_total",
				Help: "Total number of plugin discovery passes",
			},
			[]string{"namespace"},
		),
		ConflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openany_plugin_conflicts_total",
				Help: "Total number of plugin name conflicts dropped during discovery",
			},
			[]string{"namespace"},
		),
		LookupMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openany_plugin_lookup_misses_total",
				Help: "Total number of lookups for plugins that were not registered",
			},
			[]string{"namespace"},
		),
		PluginsLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "openany_plugins_loaded",
				Help: "Number of plugins currently loaded per namespace",
			},
			[]string{"namespace"},
		),
	}

	reg.MustRegister(m.DiscoveryTotal, m.ConflictsTotal, m.LookupMissesTotal, m.PluginsLoaded)
	return m
}

func (m *Metrics) observeDiscovery(namespace Kind, loaded, conflicts int) {
	if m == nil {
		return
	}
	ns := string(namespace)
	m.DiscoveryTotal.WithLabelValues(ns).Inc()
	m.ConflictsTotal.WithLabelValues(ns).Add(float64(conflicts))
	m.PluginsLoaded.WithLabelValues(ns).Set(float64(loaded))
}

func (m *Metrics) observeMiss(namespace Kind) {
	if m == nil {
		return
	}
	m.LookupMissesTotal.WithLabelValues(string(namespace)).Inc()
}
