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

package schema

import (
	"github.com/spf13/cobra"

	"github.com/tombee/esbridge/internal/commands/shared"
	"github.com/tombee/esbridge/internal/connector"
)

// NewCommand creates the schema command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Retrieve the cluster mapping",
		Long: `Retrieve the cluster mapping and list each index with its mapping
types. Indices are listed in sorted order.`,
		Args: cobra.NoArgs,
		RunE: runSchema,
	}
}

func runSchema(cmd *cobra.Command, args []string) error {
	return shared.RunAction(cmd, connector.ActionGetConfig, nil)
}
