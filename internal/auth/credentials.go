// Package auth resolves the API key used to authenticate against the
// platform. The key is sent as the basic-auth username with an empty
// password.
package auth

import (
	"context"
	"errors"
	"os"
	"strings"
)

// EnvAPIKey is the environment variable consulted when no key is
// configured explicitly.
const EnvAPIKey = "SHUB_APIKEY"

// ErrNoAPIKey indicates that no provider in the chain produced a key.
var ErrNoAPIKey = errors.New("no API key available")

// CredentialsProvider supplies the API key for outgoing requests.
type CredentialsProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a provider returning a fixed key.
type StaticKey string

// APIKey implements CredentialsProvider.
func (k StaticKey) APIKey(ctx context.Context) (string, error) {
	key := strings.TrimSpace(string(k))
	if key == "" {
		return "", ErrNoAPIKey
	}

	return key, nil
}

// EnvKey reads the key from the environment on every call, so a key
// exported after client construction still takes effect.
type EnvKey struct {
	// Variable overrides the variable name; defaults to EnvAPIKey.
	Variable string
}

// APIKey implements CredentialsProvider.
func (e EnvKey) APIKey(ctx context.Context) (string, error) {
	variable := e.Variable
	if variable == "" {
		variable = EnvAPIKey
	}

	key := strings.TrimSpace(os.Getenv(variable))
	if key == "" {
		return "", ErrNoAPIKey
	}

	return key, nil
}

// Chain tries each provider in order and returns the first key found.
type Chain []CredentialsProvider

// APIKey implements CredentialsProvider.
func (c Chain) APIKey(ctx context.Context) (string, error) {
	for _, provider := range c {
		key, err := provider.APIKey(ctx)
		if err == nil {
			return key, nil
		}

		if !errors.Is(err, ErrNoAPIKey) {
			return "", err
		}
	}

	return "", ErrNoAPIKey
}
