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
	"os"

	"github.com/tombee/esbridge/internal/connector"
)

// JSONResponse is the base envelope for all JSON output
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command"`
	Success bool   `json:"success"`
}

// ActionResponse is the JSON envelope wrapping one action result
type ActionResponse struct {
	JSONResponse
	Action string                  `json:"action"`
	Result *connector.ActionResult `json:"result"`
}

// emitJSON marshals a response to JSON and outputs it to stdout
func emitJSON(response interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// EmitJSON is the exported version of emitJSON for use by command packages
func EmitJSON(response interface{}) error {
	return emitJSON(response)
}

// EmitActionJSON emits one action result wrapped in the standard envelope
func EmitActionJSON(command, actionID string, result *connector.ActionResult) error {
	return emitJSON(ActionResponse{
		JSONResponse: JSONResponse{
			Version: "1.0",
			Command: command,
			Success: result.Succeeded(),
		},
		Action: actionID,
		Result: result,
	})
}
