package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// ProjectsClient implements hubapi.ProjectsClient.
type ProjectsClient struct {
	client *Client
}

// NewProjectsClient creates a new projects client.
func NewProjectsClient(client *Client) *ProjectsClient {
	return &ProjectsClient{client: client}
}

// List implements hubapi.ProjectsClient.List.
func (c *ProjectsClient) List(ctx context.Context) ([]int, error) {
	resp, err := c.client.apiClient.Get(ctx, "/api/v1/projects", nil)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	var result struct {
		Projects []int `json:"projects"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing project list: %w", err)
	}

	return result.Projects, nil
}

// Iter implements hubapi.ProjectsClient.Iter. The endpoint returns the
// full id list in one response, so the iterator is backed by that list.
func (c *ProjectsClient) Iter(ctx context.Context) (*hubapi.PageIterator[int], error) {
	ids, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	return hubapi.NewStaticIterator(ids), nil
}

// Summary implements hubapi.ProjectsClient.Summary.
func (c *ProjectsClient) Summary(ctx context.Context, params *hubapi.QueryParams) ([]hubapi.JobSummary, error) {
	resp, err := c.client.apiClient.Get(ctx, "/api/v1/projects/summary", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("fetching project summary: %w", err)
	}

	var summaries []hubapi.JobSummary

	err = json.Unmarshal(resp.Body, &summaries)
	if err != nil {
		return nil, fmt.Errorf("parsing project summary: %w", err)
	}

	return summaries, nil
}

// Get implements hubapi.ProjectsClient.Get. The handle is built locally;
// no request is made.
func (c *ProjectsClient) Get(projectID int) (*hubapi.Project, error) {
	if projectID < 0 {
		return nil, fmt.Errorf("%w: %d", hubapi.ErrInvalidProjectID, projectID)
	}

	return c.buildProject(projectID), nil
}

// GetKey implements hubapi.ProjectsClient.GetKey. GetKey(strconv.Itoa(x))
// builds the same handle as Get(x).
func (c *ProjectsClient) GetKey(key string) (*hubapi.Project, error) {
	projectID, err := hubapi.ParseProjectID(key)
	if err != nil {
		return nil, err
	}

	return c.buildProject(projectID), nil
}

func (c *ProjectsClient) buildProject(projectID int) *hubapi.Project {
	return &hubapi.Project{
		Key:         strconv.Itoa(projectID),
		ID:          projectID,
		Jobs:        NewJobsClient(c.client, projectID),
		Spiders:     NewSpidersClient(c.client, projectID),
		Activity:    NewActivityClient(c.client, projectID),
		Collections: NewCollectionsClient(c.client, projectID),
		Frontiers:   NewFrontiersClient(c.client, projectID),
		Settings:    NewSettingsClient(c.client, projectID),
	}
}
