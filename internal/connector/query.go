package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Summary keys produced by run_query.
const (
	summaryTotalHits = "total_hits"
	summaryTimedOut  = "timed_out"
)

// runQuery executes a search query against an index.
//
// Expected parameters: index and type (strings), query (a JSON-encoded
// string), optional routing (shard routing hint), optional transform
// (jq expression applied to the response before it is appended as data).
func (r *Router) runQuery(ctx context.Context, params map[string]interface{}, result *ActionResult) {
	index, ok := params["index"].(string)
	if !ok || index == "" {
		result.SetStatus(StatusFailure, "Missing required parameter: index")
		return
	}

	docType, ok := params["type"].(string)
	if !ok || docType == "" {
		result.SetStatus(StatusFailure, "Missing required parameter: type")
		return
	}

	queryString, ok := params["query"].(string)
	if !ok || queryString == "" {
		result.SetStatus(StatusFailure, "Missing required parameter: query")
		return
	}

	// The query must be valid JSON before any network call is made.
	var queryJSON interface{}
	if err := json.Unmarshal([]byte(queryString), &queryJSON); err != nil {
		result.SetStatus(StatusFailure, fmt.Sprintf("Unable to parse query JSON. Error: %v", err))
		return
	}

	endpoint := fmt.Sprintf("/%s/%s/_search", url.PathEscape(index), url.PathEscape(docType))

	var queryParams map[string]string
	if routing, _ := params["routing"].(string); routing != "" {
		queryParams = map[string]string{"routing": routing}
	}

	r.reporter.Progress("Connecting to %s", r.cfg.Host())

	resp, callErr := r.dispatcher.Issue(ctx, &CallRequest{
		Endpoint:    endpoint,
		Method:      MethodPost,
		QueryParams: queryParams,
		Body:        queryJSON,
	})
	if callErr != nil {
		result.SetStatus(StatusFailure, callErr.Message)
		return
	}

	result.UpdateSummary(map[string]interface{}{
		summaryTotalHits: extractTotalHits(resp.Body),
		summaryTimedOut:  extractTimedOut(resp.Body),
	})

	data := resp.Body
	if expression, _ := params["transform"].(string); expression != "" {
		transformed, transformErr := TransformResponse(expression, resp.Body)
		if transformErr != nil {
			result.SetStatus(StatusFailure, transformErr.Message)
			return
		}
		data = transformed
	}
	result.AppendData(data)

	result.SetStatus(StatusSuccess, "")
}

// extractTotalHits reads hits.total from a search response, defaulting
// to 0 when absent. Both the legacy bare number and the newer
// {"value": N, "relation": ...} object form are accepted.
func extractTotalHits(body interface{}) interface{} {
	response, ok := body.(map[string]interface{})
	if !ok {
		return 0
	}

	hits, ok := response["hits"].(map[string]interface{})
	if !ok {
		return 0
	}

	switch total := hits["total"].(type) {
	case map[string]interface{}:
		if value, ok := total["value"]; ok {
			return value
		}
		return 0
	case nil:
		return 0
	default:
		return total
	}
}

// extractTimedOut reads timed_out from a search response, defaulting to false.
func extractTimedOut(body interface{}) bool {
	response, ok := body.(map[string]interface{})
	if !ok {
		return false
	}

	timedOut, _ := response["timed_out"].(bool)
	return timedOut
}
