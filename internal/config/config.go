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

// Package config resolves connection parameters for the search cluster.
//
// Values are layered: built-in defaults, then a YAML config file, then
// ESBRIDGE_* environment variables, then CLI flags. After layering, the
// config is normalized (env expansion, keyring resolution, trailing
// slash stripping) and validated once; the resulting snapshot is
// immutable for the rest of the session.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tombee/esbridge/internal/secrets"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// DefaultTimeout bounds each REST call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Config holds the resolved connection parameters for a cluster.
type Config struct {
	// BaseURL is the cluster base URL, scheme included, no trailing slash.
	// Required. Environment: ESBRIDGE_BASE_URL
	BaseURL string `yaml:"base_url"`

	// Username for HTTP basic authentication. Optional.
	// Authentication is only attempted when both Username and Password are set.
	// May be a keyring:<key> reference or use ${VAR} expansion.
	// Environment: ESBRIDGE_USERNAME
	Username string `yaml:"username,omitempty"`

	// Password for HTTP basic authentication. Optional.
	// May be a keyring:<key> reference or use ${VAR} expansion.
	// Environment: ESBRIDGE_PASSWORD
	Password string `yaml:"password,omitempty"`

	// VerifyTLS controls TLS certificate verification.
	// Default: true. Environment: ESBRIDGE_VERIFY_TLS
	VerifyTLS bool `yaml:"verify_tls"`

	// Timeout bounds each REST call, connection included.
	// Default: 30s. Environment: ESBRIDGE_TIMEOUT
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Default returns a Config with built-in defaults applied.
func Default() *Config {
	return &Config{
		VerifyTLS: true,
		Timeout:   DefaultTimeout,
	}
}

// Load reads a YAML config file over the built-in defaults.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
	}

	return cfg, nil
}

// ApplyEnv overlays ESBRIDGE_* environment variables onto the config.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ESBRIDGE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("ESBRIDGE_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("ESBRIDGE_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("ESBRIDGE_VERIFY_TLS"); v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: ESBRIDGE_VERIFY_TLS: %v", ErrInvalidConfig, err)
		}
		c.VerifyTLS = verify
	}
	if v := os.Getenv("ESBRIDGE_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: ESBRIDGE_TIMEOUT: %v", ErrInvalidConfig, err)
		}
		c.Timeout = timeout
	}
	return nil
}

// Normalize expands ${VAR} references, resolves keyring: credential
// references, and strips any trailing slash from the base URL.
// Must be called before Validate.
func (c *Config) Normalize() error {
	var err error

	if c.BaseURL, err = expandEnvVar(c.BaseURL); err != nil {
		return fmt.Errorf("%w: base_url: %v", ErrInvalidConfig, err)
	}
	if c.Username, err = expandEnvVar(c.Username); err != nil {
		return fmt.Errorf("%w: username: %v", ErrInvalidConfig, err)
	}
	if c.Password, err = expandEnvVar(c.Password); err != nil {
		return fmt.Errorf("%w: password: %v", ErrInvalidConfig, err)
	}

	if c.Username, err = secrets.Resolve(c.Username); err != nil {
		return fmt.Errorf("%w: username: %v", ErrInvalidConfig, err)
	}
	if c.Password, err = secrets.Resolve(c.Password); err != nil {
		return fmt.Errorf("%w: password: %v", ErrInvalidConfig, err)
	}

	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base_url is required", ErrInvalidConfig)
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid base_url: %v", ErrInvalidConfig, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: base_url scheme must be http or https, got %q", ErrInvalidConfig, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: base_url must include host", ErrInvalidConfig)
	}

	return nil
}

// Host returns the authority component of the base URL, used in status messages.
func (c *Config) Host() string {
	if idx := strings.Index(c.BaseURL, "//"); idx != -1 {
		return c.BaseURL[idx+2:]
	}
	return c.BaseURL
}

// AuthEnabled reports whether basic authentication will be attached to calls.
// Both username and password must be present; one without the other
// disables authentication entirely rather than sending partial credentials.
func (c *Config) AuthEnabled() bool {
	return c.Username != "" && c.Password != ""
}

// validEnvVarName matches valid environment variable names (alphanumeric + underscore).
var validEnvVarName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// expandEnvVar expands environment variable references in the form ${VAR_NAME}.
// If the value doesn't contain ${...}, it's returned as-is.
// Returns error if variable name is invalid or variable is not found.
func expandEnvVar(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	if !strings.Contains(value, "${") {
		return value, nil
	}

	result := value
	for {
		start := strings.Index(result, "${")
		if start == -1 {
			break
		}

		end := strings.Index(result[start:], "}")
		if end == -1 {
			return "", fmt.Errorf("malformed environment variable reference: unclosed ${")
		}
		end += start

		varName := result[start+2 : end]

		if !validEnvVarName.MatchString(varName) {
			return "", fmt.Errorf("invalid environment variable name: %q (must be alphanumeric with underscores)", varName)
		}

		varValue, exists := os.LookupEnv(varName)
		if !exists {
			return "", fmt.Errorf("environment variable %q not found", varName)
		}

		result = result[:start] + varValue + result[end+1:]
	}

	return result, nil
}
