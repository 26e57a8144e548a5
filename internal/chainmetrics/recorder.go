package chainmetrics

import (
	"strings"
	"sync"
)

// Recorder receives engine events destined for the chain's central
// Prometheus. The package-level functions dispatch to the active
// recorder, which stays a noop until Register runs.
type Recorder interface {
	RecordOrderRegistered()
	RecordDealsServed()
	RecordCodeGenFailure(reason string)
	SetCatalogSize(table string, count int64)
	SetMemoryUsage(bytes uint64)
}

type noopRecorder struct{}

func (noopRecorder) RecordOrderRegistered()         {}
func (noopRecorder) RecordDealsServed()             {}
func (noopRecorder) RecordCodeGenFailure(string)    {}
func (noopRecorder) SetCatalogSize(string, int64)   {}
func (noopRecorder) SetMemoryUsage(uint64)          {}

var (
	activeRecorder Recorder = noopRecorder{}
	recorderMu     sync.RWMutex
)

func setRecorder(rec Recorder) {
	if rec == nil {
		return
	}
	recorderMu.Lock()
	activeRecorder = rec
	recorderMu.Unlock()
}

func current() Recorder {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	return rec
}

func RecordOrderRegistered() {
	current().RecordOrderRegistered()
}

func RecordDealsServed() {
	current().RecordDealsServed()
}

func RecordCodeGenFailure(reason string) {
	current().RecordCodeGenFailure(reason)
}

type recorder struct {
	metrics *metrics
	store   string
}

func (r *recorder) RecordOrderRegistered() {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.ordersRegistered.WithLabelValues(r.store).Inc()
}

func (r *recorder) RecordDealsServed() {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.dealsServed.WithLabelValues(r.store).Inc()
}

func (r *recorder) RecordCodeGenFailure(reason string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.codeGenFailures.WithLabelValues(r.store, normalizeLabel(reason)).Inc()
}

func (r *recorder) SetCatalogSize(table string, count int64) {
	if r == nil || r.metrics == nil {
		return
	}
	if count < 0 {
		count = 0
	}
	r.metrics.catalogSize.WithLabelValues(r.store, normalizeLabel(table)).Set(float64(count))
}

func (r *recorder) SetMemoryUsage(bytes uint64) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.memoryUsage.Set(float64(bytes))
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
