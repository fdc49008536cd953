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
	"time"

	"github.com/spf13/pflag"

	"github.com/tombee/esbridge/internal/config"
)

// Global flag values - set by root command
var (
	verboseFlag bool
	jsonFlag    bool
	configFlag  string

	baseURLFlag  string
	usernameFlag string
	passwordFlag string
	insecureFlag bool
	timeoutFlag  time.Duration

	// connFlags retains the flag set so overrides only apply when the
	// user actually set a flag.
	connFlags *pflag.FlagSet

	// Build-time version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// RegisterGlobalFlags binds the output and config-file flags.
// Called by the root command on its persistent flag set.
func RegisterGlobalFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	flags.StringVar(&configFlag, "config", "", "Path to config file (default: ~/.config/esbridge/config.yaml)")
}

// RegisterConnectionFlags binds the cluster connection flags.
// Called by the root command on its persistent flag set.
func RegisterConnectionFlags(flags *pflag.FlagSet) {
	flags.StringVar(&baseURLFlag, "base-url", "", "Cluster base URL, e.g. https://es.example.com:9200")
	flags.StringVar(&usernameFlag, "username", "", "Basic auth username")
	flags.StringVar(&passwordFlag, "password", "", "Basic auth password (supports keyring: references and ${VAR} expansion)")
	flags.BoolVar(&insecureFlag, "insecure", false, "Skip TLS certificate verification")
	flags.DurationVar(&timeoutFlag, "timeout", config.DefaultTimeout, "Per-call timeout, connection included")

	connFlags = flags
}

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verboseFlag
}

// GetJSON returns the JSON output flag value
func GetJSON() bool {
	return jsonFlag
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return configFlag
}

// ResolveConfig builds the effective cluster config: file values first,
// then ESBRIDGE_* environment variables, then any connection flags the
// user set on the command line.
func ResolveConfig() (*config.Config, error) {
	path := configFlag
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, NewInvalidConfigError("failed to determine config path", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, NewInvalidConfigError("failed to load config", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, NewInvalidConfigError("failed to apply environment", err)
	}

	if connFlags != nil {
		if connFlags.Changed("base-url") {
			cfg.BaseURL = baseURLFlag
		}
		if connFlags.Changed("username") {
			cfg.Username = usernameFlag
		}
		if connFlags.Changed("password") {
			cfg.Password = passwordFlag
		}
		if connFlags.Changed("insecure") {
			cfg.VerifyTLS = !insecureFlag
		}
		if connFlags.Changed("timeout") {
			cfg.Timeout = timeoutFlag
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, NewInvalidConfigError("failed to resolve config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, NewInvalidConfigError("invalid configuration", err)
	}

	return cfg, nil
}

// SetConfigPathForTest sets the config path for testing purposes
func SetConfigPathForTest(path string) {
	configFlag = path
}
