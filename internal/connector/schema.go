package connector

import (
	"context"
	"sort"
)

// Summary key produced by get_config.
const summaryTotalIndices = "total_indices"

// getSchema retrieves the cluster mapping and shapes one data entry per
// index: the index name and the sorted list of its mapping types. Index
// names are emitted in sorted order so repeated calls over an unchanged
// mapping produce identical output. An empty index set is still a success.
func (r *Router) getSchema(ctx context.Context, result *ActionResult) {
	r.reporter.Progress("Connecting to %s", r.cfg.Host())

	resp, callErr := r.dispatcher.Issue(ctx, &CallRequest{
		Endpoint: "/_mapping",
		Method:   MethodGet,
	})
	if callErr != nil {
		result.SetStatus(StatusFailure, callErr.Message)
		return
	}

	mapping, ok := resp.Body.(map[string]interface{})
	if !ok {
		result.SetStatus(StatusFailure, "Mapping response was not a JSON object")
		return
	}

	indices := make([]string, 0, len(mapping))
	for index := range mapping {
		indices = append(indices, index)
	}
	sort.Strings(indices)

	for _, index := range indices {
		result.AppendData(map[string]interface{}{
			"index": index,
			"types": mappingTypes(mapping[index]),
		})
	}

	result.UpdateSummary(map[string]interface{}{
		summaryTotalIndices: len(indices),
	})

	result.SetStatus(StatusSuccess, "")
}

// mappingTypes extracts the sorted type names from one index entry's
// mappings sub-object. Missing or malformed entries yield an empty list.
func mappingTypes(entry interface{}) []string {
	types := []string{}

	indexEntry, ok := entry.(map[string]interface{})
	if !ok {
		return types
	}

	mappings, ok := indexEntry["mappings"].(map[string]interface{})
	if !ok {
		return types
	}

	for typeName := range mappings {
		types = append(types, typeName)
	}
	sort.Strings(types)

	return types
}
