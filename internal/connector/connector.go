// Package connector implements REST actions against a search cluster.
//
// The package has three layers. The Dispatcher issues one HTTP call and
// classifies the outcome (success with decoded JSON, connection failure,
// parse failure, or server-reported failure). The Router maps an action
// identifier to one of three operations: test_connectivity, run_query,
// get_config (mapping introspection). Each operation composes dispatcher
// calls and shapes an ActionResult for the host platform.
package connector

import (
	"fmt"
	"log/slog"
)

// Action identifiers supported by the router.
const (
	// ActionRunQuery executes a search query against an index.
	ActionRunQuery = "run_query"

	// ActionGetConfig retrieves the cluster mapping (schema introspection).
	ActionGetConfig = "get_config"

	// ActionTestConnectivity checks cluster reachability.
	ActionTestConnectivity = "test_connectivity"
)

// Status is the terminal state of an action invocation.
type Status string

const (
	// StatusSuccess indicates the action fully succeeded.
	StatusSuccess Status = "success"

	// StatusFailure indicates the action failed; Message carries the reason.
	StatusFailure Status = "failure"
)

// ActionResult is the per-invocation result container handed back to the
// host platform. It is created at the start of an operation, appended to
// as the operation progresses, and finalized exactly once with a terminal
// status.
type ActionResult struct {
	// Parameter echoes the action input
	Parameter interface{} `json:"parameter"`

	// Data is the ordered sequence of result entries
	Data []interface{} `json:"data"`

	// Summary holds operation-specific aggregate values
	Summary map[string]interface{} `json:"summary"`

	// Status is the terminal state (success or failure)
	Status Status `json:"status"`

	// Message is the human-readable outcome description
	Message string `json:"message,omitempty"`

	finalized bool
}

// NewActionResult creates a result container echoing the given parameters.
func NewActionResult(parameter interface{}) *ActionResult {
	return &ActionResult{
		Parameter: parameter,
		Data:      []interface{}{},
		Summary:   map[string]interface{}{},
	}
}

// AppendData adds one entry to the result data sequence.
func (r *ActionResult) AppendData(entry interface{}) {
	r.Data = append(r.Data, entry)
}

// UpdateSummary merges the given values into the result summary.
func (r *ActionResult) UpdateSummary(values map[string]interface{}) {
	for key, value := range values {
		r.Summary[key] = value
	}
}

// SetStatus finalizes the result with a terminal status and message.
// Only the first call takes effect; the result is finalized exactly once.
func (r *ActionResult) SetStatus(status Status, message string) {
	if r.finalized {
		return
	}
	r.finalized = true
	r.Status = status
	r.Message = message
}

// Succeeded reports whether the result finalized as a success.
func (r *ActionResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Reporter is the capability interface for host platform callbacks.
// Operations report progress through it and attach debug diagnostics;
// it replaces any ambient platform state.
type Reporter interface {
	// Progress emits a human-readable progress note.
	Progress(format string, args ...interface{})

	// Diagnostic records a debug value attached to the current invocation.
	Diagnostic(key string, value interface{})
}

// logReporter implements Reporter over a structured logger.
type logReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a Reporter that writes progress notes at info
// level and diagnostics at debug level.
func NewLogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &logReporter{logger: logger}
}

func (l *logReporter) Progress(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *logReporter) Diagnostic(key string, value interface{}) {
	l.logger.Debug("diagnostic", slog.Any(key, value))
}
