package connector

import (
	"sync"
	"time"
)

// maxDurationSamples caps the retained duration samples per action.
const maxDurationSamples = 1000

// Metrics tracks action execution metrics for observability.
type Metrics struct {
	// ActionsByID counts invocations per action identifier
	ActionsByID map[string]int64

	// ActionsByStatus counts invocations per action and terminal status
	ActionsByStatus map[string]map[Status]int64

	// CallsByEndpoint counts REST calls per endpoint path
	CallsByEndpoint map[string]int64

	// CallsByStatusCode counts REST calls per HTTP status code
	CallsByStatusCode map[int]int64

	// DurationsByAction retains recent per-action durations for percentile calculation
	DurationsByAction map[string][]time.Duration

	// LastEventTime is the timestamp of the most recent recorded event
	LastEventTime time.Time
}

// MetricsCollector collects action and call metrics.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics *Metrics
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: &Metrics{
			ActionsByID:       make(map[string]int64),
			ActionsByStatus:   make(map[string]map[Status]int64),
			CallsByEndpoint:   make(map[string]int64),
			CallsByStatusCode: make(map[int]int64),
			DurationsByAction: make(map[string][]time.Duration),
			LastEventTime:     time.Now(),
		},
	}
}

// RecordAction records one completed action invocation.
func (m *MetricsCollector) RecordAction(actionID string, status Status, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.LastEventTime = time.Now()
	m.metrics.ActionsByID[actionID]++

	if m.metrics.ActionsByStatus[actionID] == nil {
		m.metrics.ActionsByStatus[actionID] = make(map[Status]int64)
	}
	m.metrics.ActionsByStatus[actionID][status]++

	samples := append(m.metrics.DurationsByAction[actionID], duration)
	if len(samples) > maxDurationSamples {
		samples = samples[1:]
	}
	m.metrics.DurationsByAction[actionID] = samples
}

// RecordCall records one REST call issued by the dispatcher.
func (m *MetricsCollector) RecordCall(endpoint string, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.LastEventTime = time.Now()
	m.metrics.CallsByEndpoint[endpoint]++
	m.metrics.CallsByStatusCode[statusCode]++
}

// Snapshot returns a copy of the collected metrics.
func (m *MetricsCollector) Snapshot() *Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := &Metrics{
		ActionsByID:       make(map[string]int64, len(m.metrics.ActionsByID)),
		ActionsByStatus:   make(map[string]map[Status]int64, len(m.metrics.ActionsByStatus)),
		CallsByEndpoint:   make(map[string]int64, len(m.metrics.CallsByEndpoint)),
		CallsByStatusCode: make(map[int]int64, len(m.metrics.CallsByStatusCode)),
		DurationsByAction: make(map[string][]time.Duration, len(m.metrics.DurationsByAction)),
		LastEventTime:     m.metrics.LastEventTime,
	}

	for k, v := range m.metrics.ActionsByID {
		snapshot.ActionsByID[k] = v
	}
	for action, byStatus := range m.metrics.ActionsByStatus {
		statuses := make(map[Status]int64, len(byStatus))
		for status, count := range byStatus {
			statuses[status] = count
		}
		snapshot.ActionsByStatus[action] = statuses
	}
	for k, v := range m.metrics.CallsByEndpoint {
		snapshot.CallsByEndpoint[k] = v
	}
	for k, v := range m.metrics.CallsByStatusCode {
		snapshot.CallsByStatusCode[k] = v
	}
	for action, durations := range m.metrics.DurationsByAction {
		copied := make([]time.Duration, len(durations))
		copy(copied, durations)
		snapshot.DurationsByAction[action] = copied
	}

	return snapshot
}
