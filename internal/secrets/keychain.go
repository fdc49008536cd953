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

// Package secrets resolves credential references in configuration values.
//
// Two reference forms are supported:
//   - keyring:<key>, looked up in the OS keychain (macOS Keychain,
//     Linux Secret Service, Windows Credential Manager)
//   - any other value is returned as-is
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

var (
	// ErrSecretNotFound is returned when a referenced secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrBackendUnavailable is returned when the keychain cannot be used in the current environment.
	ErrBackendUnavailable = errors.New("keychain unavailable")
)

const (
	// keychainService is the service name used for keychain entries.
	keychainService = "esbridge"

	// keyringPrefix marks a configuration value as a keychain reference.
	keyringPrefix = "keyring:"
)

// KeychainBackend provides credential lookup from the system keychain.
type KeychainBackend struct {
	service   string
	available bool
}

// NewKeychainBackend creates a new keychain backend.
// It performs availability detection to check if the keyring service is accessible.
func NewKeychainBackend() *KeychainBackend {
	backend := &KeychainBackend{
		service:   keychainService,
		available: true,
	}

	// Probing a non-existent key detects locked keychains or missing
	// services early; ErrNotFound means the service itself responded.
	_, err := keyring.Get(keychainService, "__esbridge_availability_test__")
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		backend.available = false
	}

	return backend
}

// Available returns true if the keychain service is accessible.
func (k *KeychainBackend) Available() bool {
	return k.available
}

// Get retrieves a secret from the system keychain.
func (k *KeychainBackend) Get(key string) (string, error) {
	if !k.available {
		return "", fmt.Errorf("%w: keychain service unavailable", ErrBackendUnavailable)
	}

	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, key)
		}
		if isKeychainUnavailableError(err) {
			return "", fmt.Errorf("%w: %s", ErrBackendUnavailable, err.Error())
		}
		return "", fmt.Errorf("keychain error: %w", err)
	}

	return value, nil
}

// Set stores a secret in the system keychain.
func (k *KeychainBackend) Set(key, value string) error {
	if !k.available {
		return fmt.Errorf("%w: keychain service unavailable", ErrBackendUnavailable)
	}

	if err := keyring.Set(k.service, key, value); err != nil {
		if isKeychainUnavailableError(err) {
			return fmt.Errorf("%w: %s", ErrBackendUnavailable, err.Error())
		}
		return fmt.Errorf("keychain error: %w", err)
	}

	return nil
}

// IsKeyringRef reports whether a configuration value is a keychain reference.
func IsKeyringRef(value string) bool {
	return strings.HasPrefix(value, keyringPrefix)
}

// Resolve resolves a configuration value that may be a keychain reference.
// Plain values pass through unchanged.
func Resolve(value string) (string, error) {
	if !IsKeyringRef(value) {
		return value, nil
	}

	key := strings.TrimPrefix(value, keyringPrefix)
	if key == "" {
		return "", fmt.Errorf("%w: empty keyring reference", ErrSecretNotFound)
	}

	return NewKeychainBackend().Get(key)
}

// isKeychainUnavailableError checks if an error indicates the keychain is locked or inaccessible.
// This includes common error messages from different platforms.
func isKeychainUnavailableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	unavailableIndicators := []string{
		"locked",
		"cannot access",
		"permission denied",
		"failed to unlock",
		"no such interface",
		"service unknown",
	}

	for _, indicator := range unavailableIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}
