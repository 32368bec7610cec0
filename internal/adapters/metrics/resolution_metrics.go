package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ResolutionMetricsCollector handles plan resolution and report cache metrics
type ResolutionMetricsCollector struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	graphNodes         *prometheus.HistogramVec
	workUnitsTotal     *prometheus.CounterVec
	cacheLookupsTotal  *prometheus.CounterVec
}

// NewResolutionMetricsCollector creates a new resolution metrics collector
func NewResolutionMetricsCollector() *ResolutionMetricsCollector {
	return &ResolutionMetricsCollector{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolutions_total",
				Help:      "Total plan resolutions by outcome",
			},
			[]string{"outcome"},
		),

		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolution_duration_seconds",
				Help:      "Plan resolution duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"outcome"},
		),

		graphNodes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolution_graph_nodes",
				Help:      "Number of items in resolved BOM graphs",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{},
		),

		workUnitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "work_units_total",
				Help:      "Work units planned by blueprint source",
			},
			[]string{"source"},
		),

		cacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "report_cache_lookups_total",
				Help:      "Report cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Register registers all resolution metrics with the Prometheus registry
func (c *ResolutionMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.resolutionsTotal,
		c.resolutionDuration,
		c.graphNodes,
		c.workUnitsTotal,
		c.cacheLookupsTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordResolution records one resolution
func (c *ResolutionMetricsCollector) RecordResolution(result ResolutionResult) {
	c.resolutionsTotal.WithLabelValues(result.Outcome).Inc()
	c.resolutionDuration.WithLabelValues(result.Outcome).Observe(result.Duration)

	if result.Outcome != OutcomeSuccess {
		return
	}
	c.graphNodes.WithLabelValues().Observe(float64(result.Nodes))
	c.workUnitsTotal.WithLabelValues("owned").Add(float64(result.WorkUnits - result.VoidUnits))
	c.workUnitsTotal.WithLabelValues("void").Add(float64(result.VoidUnits))
}

// RecordCacheLookup records a report cache hit or miss
func (c *ResolutionMetricsCollector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookupsTotal.WithLabelValues(result).Inc()
}
