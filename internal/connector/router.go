package connector

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tombee/esbridge/internal/config"
	esblog "github.com/tombee/esbridge/internal/log"
	"github.com/tombee/esbridge/internal/transport"
)

// Router maps an action identifier to one of the three operations and
// returns the shaped ActionResult. Each invocation owns its own
// ActionResult; the router itself holds no mutable state beyond the
// immutable config snapshot, so concurrent Route calls are safe.
type Router struct {
	cfg        *config.Config
	dispatcher *Dispatcher
	reporter   Reporter
	metrics    *MetricsCollector
	logger     *slog.Logger
}

// NewRouter creates a router over the given transport.
// A nil reporter falls back to logging progress through the logger;
// a nil logger falls back to slog.Default().
func NewRouter(cfg *config.Config, tr transport.Transport, reporter Reporter, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	logger = esblog.WithComponent(logger, "connector")

	if reporter == nil {
		reporter = NewLogReporter(logger)
	}

	metrics := NewMetricsCollector()
	dispatcher := NewDispatcher(cfg, tr, reporter)
	dispatcher.SetMetrics(metrics)

	return &Router{
		cfg:        cfg,
		dispatcher: dispatcher,
		reporter:   reporter,
		metrics:    metrics,
		logger:     logger,
	}
}

// Metrics returns the router's metrics collector.
func (r *Router) Metrics() *MetricsCollector {
	return r.metrics
}

// Route invokes the operation matching the action identifier.
// Unknown identifiers fail explicitly rather than defaulting to success.
func (r *Router) Route(ctx context.Context, actionID string, params map[string]interface{}) *ActionResult {
	start := time.Now()

	logger := esblog.WithCorrelationID(r.logger, uuid.NewString())
	logger.Info("handling action", slog.String(esblog.ActionKey, actionID))

	result := NewActionResult(params)

	switch actionID {
	case ActionRunQuery:
		r.runQuery(ctx, params, result)
	case ActionGetConfig:
		r.getSchema(ctx, result)
	case ActionTestConnectivity:
		r.testConnectivity(ctx, result)
	default:
		result.SetStatus(StatusFailure, NewUnknownActionError(actionID).Message)
	}

	duration := time.Since(start)
	r.metrics.RecordAction(actionID, result.Status, duration)

	if !result.Succeeded() {
		logger.Error("action failed",
			slog.String(esblog.ActionKey, actionID),
			slog.String("message", result.Message),
			slog.Int64(esblog.DurationKey, duration.Milliseconds()))
	} else {
		logger.Info("action completed",
			slog.String(esblog.ActionKey, actionID),
			slog.Int64(esblog.DurationKey, duration.Milliseconds()))
	}

	return result
}
