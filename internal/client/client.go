// Package client contains the concrete resource clients behind the
// public hubapi interfaces.
package client

import (
	"fmt"
	"strings"

	"github.com/spiderhub-io/hubapi/internal/auth"
	"github.com/spiderhub-io/hubapi/internal/http"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// Client implements the hubapi.Client interface.
type Client struct {
	apiClient     *http.Client
	storageClient *http.Client
	logger        hubapi.Logger
	projects      *ProjectsClient
}

// New creates a client from the given configuration. The configuration
// must carry a non-empty APIEndpoint; the API key may come from the
// configuration or the SHUB_APIKEY environment variable.
func New(config *hubapi.Config) (*Client, error) {
	if config == nil {
		return nil, hubapi.ErrConfigRequired
	}

	if strings.TrimSpace(config.APIEndpoint) == "" {
		return nil, hubapi.ErrAPIEndpointRequired
	}

	credentials := auth.Chain{
		auth.StaticKey(config.APIKey),
		auth.EnvKey{},
	}

	options, err := transportOptions(config)
	if err != nil {
		return nil, err
	}

	storageEndpoint := config.StorageEndpoint
	if strings.TrimSpace(storageEndpoint) == "" {
		storageEndpoint = config.APIEndpoint
	}

	client := &Client{
		apiClient:     http.NewClient(config.APIEndpoint, credentials, options...),
		storageClient: http.NewClient(storageEndpoint, credentials, options...),
		logger:        config.Logger,
	}
	client.projects = NewProjectsClient(client)

	return client, nil
}

// transportOptions translates the public configuration into transport
// options shared by both endpoints.
func transportOptions(config *hubapi.Config) ([]http.Option, error) {
	var options []http.Option

	if config.Logger != nil {
		options = append(options, http.WithLogger(config.Logger))
	}

	if config.Debug {
		options = append(options, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		options = append(options, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		options = append(options, http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if config.HTTPTimeout > 0 {
		options = append(options, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.Cache != nil {
		cache, err := hubapi.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building cache: %w", err)
		}

		ttl := hubapi.DefaultCacheOptions().DefaultTTL
		if config.Cache.Options != nil && config.Cache.Options.DefaultTTL > 0 {
			ttl = config.Cache.Options.DefaultTTL
		}

		options = append(options, http.WithCache(cache, ttl))
	}

	return options, nil
}

// Projects implements hubapi.Client.Projects.
func (c *Client) Projects() hubapi.ProjectsClient {
	return c.projects
}

// GetProject implements hubapi.Client.GetProject.
func (c *Client) GetProject(projectID int) (*hubapi.Project, error) {
	return c.projects.Get(projectID)
}

// GetProjectKey implements hubapi.Client.GetProjectKey.
func (c *Client) GetProjectKey(key string) (*hubapi.Project, error) {
	return c.projects.GetKey(key)
}
