package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// SettingsClient implements hubapi.SettingsClient for one project.
//
// Reads are served from a local copy of the settings mapping, fetched
// lazily on first use. Writes are staged in the same copy and tracked in
// a dirty set; Save posts only the staged keys. A failed Save keeps the
// staged writes so the caller can retry.
type SettingsClient struct {
	client  *Client
	project int

	mu     sync.Mutex
	loaded bool
	cached hubapi.SettingsMap
	dirty  map[string]struct{}
}

// NewSettingsClient creates a settings client bound to a project.
func NewSettingsClient(client *Client, project int) *SettingsClient {
	return &SettingsClient{client: client, project: project}
}

func (c *SettingsClient) basePath() string {
	return fmt.Sprintf("/api/v1/projects/%d/settings", c.project)
}

// ensureLoadedLocked fetches the remote mapping on first use. Staged
// writes survive the fetch. Caller holds the lock.
func (c *SettingsClient) ensureLoadedLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	resp, err := c.client.apiClient.Get(ctx, c.basePath(), nil)
	if err != nil {
		return fmt.Errorf("fetching settings: %w", err)
	}

	remote := hubapi.SettingsMap{}

	err = json.Unmarshal(resp.Body, &remote)
	if err != nil {
		return fmt.Errorf("parsing settings: %w", err)
	}

	for key := range c.dirty {
		remote[key] = c.cached[key]
	}

	c.cached = remote
	c.loaded = true

	return nil
}

// List implements hubapi.SettingsClient.List.
func (c *SettingsClient) List(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(c.cached))
	for key := range c.cached {
		keys = append(keys, key)
	}

	return keys, nil
}

// Get implements hubapi.SettingsClient.Get.
func (c *SettingsClient) Get(ctx context.Context, key string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	value, ok := c.cached[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", hubapi.ErrSettingNotFound, key)
	}

	return value, nil
}

// Set implements hubapi.SettingsClient.Set. The write is visible to
// subsequent reads at once and reaches the server on Save.
func (c *SettingsClient) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached == nil {
		c.cached = hubapi.SettingsMap{}
	}

	if c.dirty == nil {
		c.dirty = map[string]struct{}{}
	}

	c.cached[key] = value
	c.dirty[key] = struct{}{}
}

// Save implements hubapi.SettingsClient.Save. Only staged keys are
// posted; remote validation errors come back unmodified and the staged
// writes stay in place.
func (c *SettingsClient) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.dirty) == 0 {
		return nil
	}

	pending := hubapi.SettingsMap{}
	for key := range c.dirty {
		pending[key] = c.cached[key]
	}

	_, err := c.client.apiClient.Post(ctx, c.basePath(), pending)
	if err != nil {
		return err
	}

	c.dirty = nil

	return nil
}

// Delete implements hubapi.SettingsClient.Delete. Unlike Set, deletion is
// not staged: the remote key is removed at once.
func (c *SettingsClient) Delete(ctx context.Context, key string) error {
	_, err := c.client.apiClient.Delete(ctx, c.basePath()+"/"+url.PathEscape(key))
	if err != nil {
		return fmt.Errorf("deleting setting %q: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cached, key)
	delete(c.dirty, key)

	return nil
}

// Expire implements hubapi.SettingsClient.Expire. The next read fetches
// a fresh mapping.
func (c *SettingsClient) Expire() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = false
	c.cached = nil
	c.dirty = nil
}

// LiveGet implements hubapi.SettingsClient.LiveGet.
func (c *SettingsClient) LiveGet(ctx context.Context, key string) (any, error) {
	resp, err := c.client.apiClient.Get(ctx, c.basePath()+"/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching setting %q: %w", key, err)
	}

	var value any

	err = json.Unmarshal(resp.Body, &value)
	if err != nil {
		return nil, fmt.Errorf("parsing setting %q: %w", key, err)
	}

	return value, nil
}

// Snapshot implements hubapi.SettingsClient.Snapshot.
func (c *SettingsClient) Snapshot(ctx context.Context) (hubapi.SettingsMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	snapshot := make(hubapi.SettingsMap, len(c.cached))
	for key, value := range c.cached {
		snapshot[key] = value
	}

	return snapshot, nil
}
