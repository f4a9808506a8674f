package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// SpidersClient implements hubapi.SpidersClient for one project.
type SpidersClient struct {
	client  *Client
	project int
}

// NewSpidersClient creates a spiders client bound to a project.
func NewSpidersClient(client *Client, project int) *SpidersClient {
	return &SpidersClient{client: client, project: project}
}

func (c *SpidersClient) basePath() string {
	return fmt.Sprintf("/api/v1/projects/%d/spiders", c.project)
}

// Get implements hubapi.SpidersClient.Get. Unknown names surface as the
// endpoint's not-found error.
func (c *SpidersClient) Get(ctx context.Context, name string) (*hubapi.Spider, error) {
	if strings.TrimSpace(name) == "" {
		return nil, hubapi.ErrSpiderNameRequired
	}

	query := url.Values{"spider": []string{name}}

	resp, err := c.client.apiClient.Get(ctx, c.basePath()+"/resolve", query)
	if err != nil {
		return nil, fmt.Errorf("resolving spider %q: %w", name, err)
	}

	var spider hubapi.Spider

	err = json.Unmarshal(resp.Body, &spider)
	if err != nil {
		return nil, fmt.Errorf("parsing spider: %w", err)
	}

	return &spider, nil
}

// List implements hubapi.SpidersClient.List.
func (c *SpidersClient) List(ctx context.Context) ([]hubapi.Spider, error) {
	resp, err := c.client.apiClient.Get(ctx, c.basePath(), nil)
	if err != nil {
		return nil, fmt.Errorf("listing spiders: %w", err)
	}

	var result struct {
		Spiders []hubapi.Spider `json:"spiders"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing spider list: %w", err)
	}

	return result.Spiders, nil
}

// UpdateTags implements hubapi.SpidersClient.UpdateTags.
func (c *SpidersClient) UpdateTags(ctx context.Context, spider string, add, remove []string) error {
	if strings.TrimSpace(spider) == "" {
		return hubapi.ErrSpiderNameRequired
	}

	body := map[string][]string{}
	if len(add) > 0 {
		body["add_tag"] = add
	}

	if len(remove) > 0 {
		body["remove_tag"] = remove
	}

	_, err := c.client.apiClient.Post(ctx, c.basePath()+"/"+url.PathEscape(spider)+"/tags", body)
	if err != nil {
		return fmt.Errorf("updating spider tags: %w", err)
	}

	return nil
}
