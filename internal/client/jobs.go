package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spiderhub-io/hubapi/internal/http"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// JobsClient implements hubapi.JobsClient for one project.
type JobsClient struct {
	client  *Client
	project int
}

// NewJobsClient creates a jobs client bound to a project.
func NewJobsClient(client *Client, project int) *JobsClient {
	return &JobsClient{client: client, project: project}
}

func (c *JobsClient) basePath() string {
	return fmt.Sprintf("/api/v1/projects/%d/jobs", c.project)
}

// checkKey rejects keys belonging to another project.
func (c *JobsClient) checkKey(key hubapi.JobKey) error {
	if key.Project != c.project {
		return fmt.Errorf("%w: %s (project %d)", hubapi.ErrJobKeyMismatch, key, c.project)
	}

	return nil
}

type runRequest struct {
	Spider string `json:"spider"`
	*hubapi.JobRunOptions
}

// Run implements hubapi.JobsClient.Run.
func (c *JobsClient) Run(ctx context.Context, spider string, opts *hubapi.JobRunOptions) (hubapi.JobKey, error) {
	if strings.TrimSpace(spider) == "" {
		return hubapi.JobKey{}, hubapi.ErrSpiderNameRequired
	}

	if opts == nil {
		opts = &hubapi.JobRunOptions{}
	}

	resp, err := c.client.apiClient.Post(ctx, c.basePath(), &runRequest{Spider: spider, JobRunOptions: opts})
	if err != nil {
		return hubapi.JobKey{}, fmt.Errorf("scheduling job: %w", err)
	}

	var result struct {
		Key string `json:"key"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return hubapi.JobKey{}, fmt.Errorf("parsing scheduled job: %w", err)
	}

	key, err := hubapi.ParseJobKey(result.Key)
	if err != nil {
		return hubapi.JobKey{}, fmt.Errorf("parsing scheduled job key: %w", err)
	}

	return key, nil
}

// Metadata implements hubapi.JobsClient.Metadata.
func (c *JobsClient) Metadata(ctx context.Context, key hubapi.JobKey) (*hubapi.JobMetadata, error) {
	if err := c.checkKey(key); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%s/%d/%d", c.basePath(), key.Spider, key.Job)

	resp, err := c.client.apiClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting job metadata: %w", err)
	}

	var metadata hubapi.JobMetadata

	err = json.Unmarshal(resp.Body, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing job metadata: %w", err)
	}

	return &metadata, nil
}

// List implements hubapi.JobsClient.List.
func (c *JobsClient) List(ctx context.Context, params *hubapi.QueryParams) ([]hubapi.JobMetadata, error) {
	resp, err := c.client.apiClient.Get(ctx, c.basePath(), params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	var result struct {
		Jobs []hubapi.JobMetadata `json:"jobs"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing job list: %w", err)
	}

	return result.Jobs, nil
}

// Iter implements hubapi.JobsClient.Iter.
func (c *JobsClient) Iter(ctx context.Context, params *hubapi.QueryParams) *hubapi.PageIterator[hubapi.JobMetadata] {
	lister := hubapi.PageListerFunc[hubapi.JobMetadata](func(ctx context.Context, pageParams *hubapi.QueryParams) ([]hubapi.JobMetadata, error) {
		return c.List(ctx, pageParams)
	})

	return hubapi.NewPageIterator(ctx, lister, params)
}

// Summary implements hubapi.JobsClient.Summary.
func (c *JobsClient) Summary(ctx context.Context, params *hubapi.QueryParams) ([]hubapi.QueueSummary, error) {
	resp, err := c.client.apiClient.Get(ctx, c.basePath()+"/summary", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("fetching job summary: %w", err)
	}

	var summaries []hubapi.QueueSummary

	err = json.Unmarshal(resp.Body, &summaries)
	if err != nil {
		return nil, fmt.Errorf("parsing job summary: %w", err)
	}

	return summaries, nil
}

// UpdateTags implements hubapi.JobsClient.UpdateTags.
func (c *JobsClient) UpdateTags(ctx context.Context, opts *hubapi.TagUpdateOptions) (int, error) {
	if opts == nil {
		return 0, nil
	}

	resp, err := c.client.apiClient.Post(ctx, c.basePath()+"/tags", opts)
	if err != nil {
		return 0, fmt.Errorf("updating job tags: %w", err)
	}

	var result struct {
		Count int `json:"count"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return 0, fmt.Errorf("parsing tag update result: %w", err)
	}

	return result.Count, nil
}

// Cancel implements hubapi.JobsClient.Cancel.
func (c *JobsClient) Cancel(ctx context.Context, keys ...hubapi.JobKey) error {
	return c.postKeys(ctx, "/cancel", "cancelling jobs", keys)
}

// Delete implements hubapi.JobsClient.Delete.
func (c *JobsClient) Delete(ctx context.Context, keys ...hubapi.JobKey) error {
	return c.postKeys(ctx, "/delete", "deleting jobs", keys)
}

func (c *JobsClient) postKeys(ctx context.Context, suffix, action string, keys []hubapi.JobKey) error {
	if len(keys) == 0 {
		return nil
	}

	wireKeys := make([]string, len(keys))

	for i, key := range keys {
		if err := c.checkKey(key); err != nil {
			return err
		}

		wireKeys[i] = key.String()
	}

	body := map[string][]string{"keys": wireKeys}

	_, err := c.client.apiClient.Post(ctx, c.basePath()+suffix, body)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}

// Items implements hubapi.JobsClient.Items.
func (c *JobsClient) Items(ctx context.Context, key hubapi.JobKey, params *hubapi.QueryParams) ([]hubapi.Item, error) {
	body, err := c.jobData(ctx, key, "items", params)
	if err != nil {
		return nil, err
	}

	items, err := http.DecodeLines[hubapi.Item](body)
	if err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	return items, nil
}

// Logs implements hubapi.JobsClient.Logs.
func (c *JobsClient) Logs(ctx context.Context, key hubapi.JobKey, params *hubapi.QueryParams) ([]hubapi.LogEntry, error) {
	body, err := c.jobData(ctx, key, "logs", params)
	if err != nil {
		return nil, err
	}

	entries, err := http.DecodeLines[hubapi.LogEntry](body)
	if err != nil {
		return nil, fmt.Errorf("decoding log entries: %w", err)
	}

	return entries, nil
}

// Requests implements hubapi.JobsClient.Requests.
func (c *JobsClient) Requests(ctx context.Context, key hubapi.JobKey, params *hubapi.QueryParams) ([]hubapi.RequestEntry, error) {
	body, err := c.jobData(ctx, key, "requests", params)
	if err != nil {
		return nil, err
	}

	entries, err := http.DecodeLines[hubapi.RequestEntry](body)
	if err != nil {
		return nil, fmt.Errorf("decoding request entries: %w", err)
	}

	return entries, nil
}

// jobData fetches one of the jsonlines data streams stored for a job.
func (c *JobsClient) jobData(ctx context.Context, key hubapi.JobKey, kind string, params *hubapi.QueryParams) ([]byte, error) {
	if err := c.checkKey(key); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%s/%d/%d/%s", c.basePath(), key.Spider, key.Job, kind)

	resp, err := c.client.storageClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("fetching job %s: %w", kind, err)
	}

	return resp.Body, nil
}
