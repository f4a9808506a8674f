// Package hubclient provides the main entry point for creating platform API clients
package hubclient

import (
	"fmt"
	"strings"

	"github.com/spiderhub-io/hubapi/internal/client"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// New creates a new platform API client from the given configuration.
func New(config *hubapi.Config) (hubapi.Client, error) {
	if config == nil {
		return nil, hubapi.ErrConfigRequired
	}

	if strings.TrimSpace(config.APIEndpoint) == "" {
		return nil, hubapi.ErrAPIEndpointRequired
	}

	config.APIEndpoint = normalizeEndpoint(config.APIEndpoint)

	if strings.TrimSpace(config.StorageEndpoint) == "" {
		config.StorageEndpoint = config.APIEndpoint
	} else {
		config.StorageEndpoint = normalizeEndpoint(config.StorageEndpoint)
	}

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// normalizeEndpoint trims a trailing slash and defaults to https when no
// scheme is given.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewWithEndpoint creates a client for an endpoint; the API key falls
// back to the SHUB_APIKEY environment variable.
func NewWithEndpoint(endpoint string) (hubapi.Client, error) {
	return New(&hubapi.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithAPIKey creates a client with an endpoint and explicit API key.
func NewWithAPIKey(endpoint, apiKey string) (hubapi.Client, error) {
	return New(&hubapi.Config{
		APIEndpoint: endpoint,
		APIKey:      apiKey,
	})
}
