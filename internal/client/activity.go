package client

import (
	"context"
	"fmt"

	"github.com/spiderhub-io/hubapi/internal/http"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// ActivityClient implements hubapi.ActivityClient for one project.
type ActivityClient struct {
	client  *Client
	project int
}

// NewActivityClient creates an activity client bound to a project.
func NewActivityClient(client *Client, project int) *ActivityClient {
	return &ActivityClient{client: client, project: project}
}

func (c *ActivityClient) basePath() string {
	return fmt.Sprintf("/api/v1/projects/%d/activity", c.project)
}

// List implements hubapi.ActivityClient.List. Events come back newest
// first as a jsonlines stream.
func (c *ActivityClient) List(ctx context.Context, params *hubapi.QueryParams) ([]hubapi.ActivityEvent, error) {
	resp, err := c.client.storageClient.Get(ctx, c.basePath(), params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}

	events, err := http.DecodeLines[hubapi.ActivityEvent](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding activity events: %w", err)
	}

	return events, nil
}

// Iter implements hubapi.ActivityClient.Iter.
func (c *ActivityClient) Iter(ctx context.Context, params *hubapi.QueryParams) *hubapi.PageIterator[hubapi.ActivityEvent] {
	lister := hubapi.PageListerFunc[hubapi.ActivityEvent](func(ctx context.Context, pageParams *hubapi.QueryParams) ([]hubapi.ActivityEvent, error) {
		return c.List(ctx, pageParams)
	})

	return hubapi.NewPageIterator(ctx, lister, params)
}

// Add implements hubapi.ActivityClient.Add.
func (c *ActivityClient) Add(ctx context.Context, event hubapi.ActivityEvent) error {
	return c.AddMany(ctx, []hubapi.ActivityEvent{event})
}

// AddMany implements hubapi.ActivityClient.AddMany. Events are posted as
// a jsonlines body.
func (c *ActivityClient) AddMany(ctx context.Context, events []hubapi.ActivityEvent) error {
	if len(events) == 0 {
		return nil
	}

	lines := make([]interface{}, len(events))
	for i := range events {
		lines[i] = events[i]
	}

	_, err := c.client.storageClient.PostLines(ctx, c.basePath()+"/add", nil, lines)
	if err != nil {
		return fmt.Errorf("posting activity events: %w", err)
	}

	return nil
}
