// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/esbridge/internal/commands/shared"
	"github.com/tombee/esbridge/internal/connector"
)

var (
	queryIndex     string
	queryType      string
	queryBody      string
	queryFile      string
	queryRouting   string
	queryTransform string
)

// NewCommand creates the query command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a search query against an index",
		Long: `Run a search query against an index and type on the configured
cluster. The query is a JSON search body, given inline with --query or
read from a file with --query-file.

An optional jq expression (--transform) reshapes the response before it
is emitted; the summary is always computed from the untransformed
response.

Examples:
  esbridge query --index logs --type event --query '{"query":{"match_all":{}}}'
  esbridge query --index logs --type event --query-file search.json --routing shard-1
  esbridge query --index logs --type event --query-file search.json \
    --transform '[.hits.hits[]._source]'`,
		Args: cobra.NoArgs,
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&queryIndex, "index", "", "Index to query (required)")
	cmd.Flags().StringVar(&queryType, "type", "", "Document type to query (required)")
	cmd.Flags().StringVar(&queryBody, "query", "", "Search query as a JSON string")
	cmd.Flags().StringVar(&queryFile, "query-file", "", "File containing the search query JSON")
	cmd.Flags().StringVar(&queryRouting, "routing", "", "Routing value forwarded to the search")
	cmd.Flags().StringVar(&queryTransform, "transform", "", "jq expression applied to the response")

	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("type")
	cmd.MarkFlagsMutuallyExclusive("query", "query-file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	body := queryBody
	if queryFile != "" {
		data, err := os.ReadFile(queryFile)
		if err != nil {
			return shared.NewUsageError("failed to read query file", err)
		}
		body = string(data)
	}
	if body == "" {
		return shared.NewUsageError("a query is required: set --query or --query-file", nil)
	}

	params := map[string]interface{}{
		"index": queryIndex,
		"type":  queryType,
		"query": body,
	}
	if queryRouting != "" {
		params["routing"] = queryRouting
	}
	if queryTransform != "" {
		params["transform"] = queryTransform
	}

	return shared.RunAction(cmd, connector.ActionRunQuery, params)
}
