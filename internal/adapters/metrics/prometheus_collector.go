package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "kahuna"
	// Subsystem for daemon metrics
	subsystem = "daemon"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalResolutionCollector is the singleton resolution metrics collector
	// Set by SetGlobalResolutionCollector() when metrics are enabled
	globalResolutionCollector ResolutionMetricsRecorder

	// globalCacheCollector is the singleton report cache metrics collector
	globalCacheCollector CacheMetricsRecorder
)

// ResolutionMetricsRecorder defines the interface for recording plan resolution events
// This interface is used by application code to record metrics
type ResolutionMetricsRecorder interface {
	RecordResolution(result ResolutionResult)
}

// CacheMetricsRecorder defines the interface for recording report cache lookups
type CacheMetricsRecorder interface {
	RecordCacheLookup(hit bool)
}

// ResolutionResult summarizes one resolution for metrics
type ResolutionResult struct {
	UserID    string
	Outcome   string
	Duration  float64
	Nodes     int
	WorkUnits int
	VoidUnits int
}

// Resolution outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeUserError     = "user_error"
	OutcomeInconsistency = "inconsistency"
	OutcomeError         = "error"
)

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalResolutionCollector sets the global resolution metrics collector
func SetGlobalResolutionCollector(collector ResolutionMetricsRecorder) {
	globalResolutionCollector = collector
}

// RecordResolution records a resolution event globally
func RecordResolution(result ResolutionResult) {
	if globalResolutionCollector != nil {
		globalResolutionCollector.RecordResolution(result)
	}
}

// SetGlobalCacheCollector sets the global cache metrics collector
func SetGlobalCacheCollector(collector CacheMetricsRecorder) {
	globalCacheCollector = collector
}

// RecordCacheLookup records a report cache lookup globally
func RecordCacheLookup(hit bool) {
	if globalCacheCollector != nil {
		globalCacheCollector.RecordCacheLookup(hit)
	}
}
