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

package shared

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tombee/esbridge/internal/connector"
	"github.com/tombee/esbridge/internal/log"
	"github.com/tombee/esbridge/internal/transport"
)

// NewActionRouter wires the effective config into a transport and a
// connector router. Each command invocation builds a fresh router.
func NewActionRouter() (*connector.Router, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}

	logCfg := log.FromEnv()
	if GetVerbose() {
		logCfg.Level = "debug"
	}
	logger := log.New(logCfg)

	tr := transport.NewHTTPTransport(&transport.HTTPTransportConfig{
		Timeout:   cfg.Timeout,
		VerifyTLS: cfg.VerifyTLS,
	})
	tr.SetRateLimiter(transport.NewRateLimiter(10, 10))

	return connector.NewRouter(cfg, tr, nil, logger), nil
}

// RunAction routes one action and renders the result. A failed action
// returns an ExitError so the process exits non-zero.
func RunAction(cmd *cobra.Command, actionID string, params map[string]interface{}) error {
	router, err := NewActionRouter()
	if err != nil {
		return err
	}

	result := router.Route(cmd.Context(), actionID, params)

	if GetJSON() {
		if err := EmitActionJSON(cmd.Name(), actionID, result); err != nil {
			return err
		}
	} else {
		renderActionText(cmd, result)
	}

	if !result.Succeeded() {
		// Message already rendered above
		return NewActionFailedError("")
	}

	return nil
}

// renderActionText prints a human-readable rendering of the result:
// status and message, summary values, then the data entries as JSON.
func renderActionText(cmd *cobra.Command, result *connector.ActionResult) {
	cmd.Printf("status: %s\n", result.Status)
	if result.Message != "" {
		cmd.Printf("message: %s\n", result.Message)
	}

	if len(result.Summary) > 0 {
		keys := make([]string, 0, len(result.Summary))
		for key := range result.Summary {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			cmd.Printf("%s: %v\n", key, result.Summary[key])
		}
	}

	for _, entry := range result.Data {
		encoded, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			cmd.Printf("%v\n", entry)
			continue
		}
		cmd.Println(string(encoded))
	}
}
