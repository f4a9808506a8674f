package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spiderhub-io/hubapi/internal/http"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// FrontiersClient implements hubapi.FrontiersClient for one project.
type FrontiersClient struct {
	client  *Client
	project int
}

// NewFrontiersClient creates a frontiers client bound to a project.
func NewFrontiersClient(client *Client, project int) *FrontiersClient {
	return &FrontiersClient{client: client, project: project}
}

func (c *FrontiersClient) basePath() string {
	return fmt.Sprintf("/api/v1/projects/%d/frontiers", c.project)
}

// List implements hubapi.FrontiersClient.List.
func (c *FrontiersClient) List(ctx context.Context) ([]string, error) {
	resp, err := c.client.storageClient.Get(ctx, c.basePath(), nil)
	if err != nil {
		return nil, fmt.Errorf("listing frontiers: %w", err)
	}

	var names []string

	err = json.Unmarshal(resp.Body, &names)
	if err != nil {
		return nil, fmt.Errorf("parsing frontier list: %w", err)
	}

	return names, nil
}

// Get implements hubapi.FrontiersClient.Get. The handle is built locally.
func (c *FrontiersClient) Get(name string) (hubapi.Frontier, error) {
	if strings.TrimSpace(name) == "" {
		return nil, hubapi.ErrFrontierNameRequired
	}

	return &frontier{
		client:   c.client,
		name:     name,
		basePath: c.basePath() + "/" + url.PathEscape(name),
	}, nil
}

// frontier implements hubapi.Frontier.
type frontier struct {
	client   *Client
	name     string
	basePath string
}

// Name implements hubapi.Frontier.Name.
func (f *frontier) Name() string {
	return f.name
}

// ListSlots implements hubapi.Frontier.ListSlots.
func (f *frontier) ListSlots(ctx context.Context) ([]string, error) {
	resp, err := f.client.storageClient.Get(ctx, f.basePath+"/slots", nil)
	if err != nil {
		return nil, fmt.Errorf("listing frontier slots: %w", err)
	}

	var names []string

	err = json.Unmarshal(resp.Body, &names)
	if err != nil {
		return nil, fmt.Errorf("parsing slot list: %w", err)
	}

	return names, nil
}

// Slot implements hubapi.Frontier.Slot. The handle is built locally.
func (f *frontier) Slot(name string) (hubapi.FrontierSlot, error) {
	if strings.TrimSpace(name) == "" {
		return nil, hubapi.ErrSlotNameRequired
	}

	return &frontierSlot{
		client:   f.client,
		name:     name,
		basePath: f.basePath + "/slots/" + url.PathEscape(name),
	}, nil
}

// Flush implements hubapi.Frontier.Flush.
func (f *frontier) Flush(ctx context.Context) error {
	_, err := f.client.storageClient.Post(ctx, f.basePath+"/flush", nil)
	if err != nil {
		return fmt.Errorf("flushing frontier: %w", err)
	}

	return nil
}

// frontierSlot implements hubapi.FrontierSlot.
type frontierSlot struct {
	client   *Client
	name     string
	basePath string
}

// Name implements hubapi.FrontierSlot.Name.
func (s *frontierSlot) Name() string {
	return s.name
}

// AddRequests implements hubapi.FrontierSlot.AddRequests. Fingerprints
// ride as a jsonlines body; the response reports how many were new.
func (s *frontierSlot) AddRequests(ctx context.Context, fps []hubapi.FrontierFingerprint) (int, error) {
	if len(fps) == 0 {
		return 0, nil
	}

	lines := make([]interface{}, len(fps))
	for i := range fps {
		lines[i] = fps[i]
	}

	resp, err := s.client.storageClient.PostLines(ctx, s.basePath, nil, lines)
	if err != nil {
		return 0, fmt.Errorf("adding frontier requests: %w", err)
	}

	var result struct {
		NewCount int `json:"newcount"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return 0, fmt.Errorf("parsing frontier response: %w", err)
	}

	return result.NewCount, nil
}

// ReadRequests implements hubapi.FrontierSlot.ReadRequests. Batches are
// read without being consumed; acknowledge them with DeleteBatches.
func (s *frontierSlot) ReadRequests(ctx context.Context, params *hubapi.QueryParams) ([]hubapi.RequestBatch, error) {
	resp, err := s.client.storageClient.Get(ctx, s.basePath+"/queue", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("reading frontier queue: %w", err)
	}

	batches, err := http.DecodeLines[hubapi.RequestBatch](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding frontier batches: %w", err)
	}

	return batches, nil
}

// DeleteBatches implements hubapi.FrontierSlot.DeleteBatches.
func (s *frontierSlot) DeleteBatches(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	lines := make([]interface{}, len(ids))
	for i := range ids {
		lines[i] = ids[i]
	}

	_, err := s.client.storageClient.PostLines(ctx, s.basePath+"/queue/deleted", nil, lines)
	if err != nil {
		return fmt.Errorf("acknowledging frontier batches: %w", err)
	}

	return nil
}

// NewCount implements hubapi.FrontierSlot.NewCount.
func (s *frontierSlot) NewCount(ctx context.Context) (int, error) {
	resp, err := s.client.storageClient.Get(ctx, s.basePath+"/newcount", nil)
	if err != nil {
		return 0, fmt.Errorf("fetching frontier newcount: %w", err)
	}

	var result struct {
		NewCount int `json:"newcount"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return 0, fmt.Errorf("parsing frontier newcount: %w", err)
	}

	return result.NewCount, nil
}

// Flush implements hubapi.FrontierSlot.Flush.
func (s *frontierSlot) Flush(ctx context.Context) error {
	_, err := s.client.storageClient.Post(ctx, s.basePath+"/flush", nil)
	if err != nil {
		return fmt.Errorf("flushing frontier slot: %w", err)
	}

	return nil
}

// Delete implements hubapi.FrontierSlot.Delete.
func (s *frontierSlot) Delete(ctx context.Context) error {
	_, err := s.client.storageClient.Delete(ctx, s.basePath)
	if err != nil {
		return fmt.Errorf("deleting frontier slot: %w", err)
	}

	return nil
}
