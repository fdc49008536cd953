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

package ping

import (
	"github.com/spf13/cobra"

	"github.com/tombee/esbridge/internal/commands/shared"
	"github.com/tombee/esbridge/internal/connector"
)

// NewCommand creates the ping command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check cluster connectivity",
		Long: `Test connectivity to the configured cluster by querying its health
endpoint with the supplied credentials.

Exit codes:
  0 - Connectivity test passed
  1 - Connectivity test failed`,
		Args: cobra.NoArgs,
		RunE: runPing,
	}
}

func runPing(cmd *cobra.Command, args []string) error {
	return shared.RunAction(cmd, connector.ActionTestConnectivity, nil)
}
