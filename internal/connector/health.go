package connector

import (
	"context"
	"fmt"
)

// Connectivity check messages.
const (
	msgConnectivityPassed = "Connectivity test passed"
	msgConnectivityFailed = "Connectivity test failed"
)

// testConnectivity checks cluster reachability through the cluster health
// endpoint. It communicates pass/fail only; no data payload is produced.
func (r *Router) testConnectivity(ctx context.Context, result *ActionResult) {
	r.reporter.Progress("Connecting to %s", r.cfg.Host())
	r.reporter.Progress("Querying cluster health to check connectivity")

	_, callErr := r.dispatcher.Issue(ctx, &CallRequest{
		Endpoint: "/_cluster/health",
		Method:   MethodGet,
	})
	if callErr != nil {
		result.SetStatus(StatusFailure, fmt.Sprintf("%s. %s", callErr.Message, msgConnectivityFailed))
		return
	}

	result.SetStatus(StatusSuccess, msgConnectivityPassed)
}
