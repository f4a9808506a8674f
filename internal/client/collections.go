package client

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/spiderhub-io/hubapi/internal/http"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// Collection store types as they appear in storage paths.
const (
	storeTypePlain     = "s"
	storeTypeCached    = "cs"
	storeTypeVersioned = "vs"
)

// collectionNameRe matches valid collection names.
var collectionNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// CollectionsClient implements hubapi.CollectionsClient for one project.
type CollectionsClient struct {
	client  *Client
	project int
}

// NewCollectionsClient creates a collections client bound to a project.
func NewCollectionsClient(client *Client, project int) *CollectionsClient {
	return &CollectionsClient{client: client, project: project}
}

func (c *CollectionsClient) basePath() string {
	return fmt.Sprintf("/api/v1/projects/%d/collections", c.project)
}

// List implements hubapi.CollectionsClient.List.
func (c *CollectionsClient) List(ctx context.Context) ([]hubapi.CollectionInfo, error) {
	resp, err := c.client.storageClient.Get(ctx, c.basePath(), nil)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	var infos []hubapi.CollectionInfo

	err = json.Unmarshal(resp.Body, &infos)
	if err != nil {
		return nil, fmt.Errorf("parsing collection list: %w", err)
	}

	return infos, nil
}

// GetStore implements hubapi.CollectionsClient.GetStore.
func (c *CollectionsClient) GetStore(name string) (hubapi.Collection, error) {
	return c.store(storeTypePlain, name)
}

// GetCachedStore implements hubapi.CollectionsClient.GetCachedStore.
func (c *CollectionsClient) GetCachedStore(name string) (hubapi.Collection, error) {
	return c.store(storeTypeCached, name)
}

// GetVersionedStore implements hubapi.CollectionsClient.GetVersionedStore.
func (c *CollectionsClient) GetVersionedStore(name string) (hubapi.Collection, error) {
	return c.store(storeTypeVersioned, name)
}

func (c *CollectionsClient) store(storeType, name string) (hubapi.Collection, error) {
	if !collectionNameRe.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", hubapi.ErrInvalidCollectionName, name)
	}

	return &collection{
		client:   c.client,
		name:     name,
		basePath: fmt.Sprintf("%s/%s/%s", c.basePath(), storeType, name),
	}, nil
}

// collection implements hubapi.Collection for one named store.
type collection struct {
	client   *Client
	name     string
	basePath string
}

// Name implements hubapi.Collection.Name.
func (c *collection) Name() string {
	return c.name
}

// Get implements hubapi.Collection.Get.
func (c *collection) Get(ctx context.Context, key string) (hubapi.CollectionItem, error) {
	if key == "" {
		return nil, hubapi.ErrCollectionKeyRequired
	}

	resp, err := c.client.storageClient.Get(ctx, c.basePath+"/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("getting collection item %q: %w", key, err)
	}

	var item hubapi.CollectionItem

	err = json.Unmarshal(resp.Body, &item)
	if err != nil {
		return nil, fmt.Errorf("parsing collection item: %w", err)
	}

	return item, nil
}

// Set implements hubapi.Collection.Set.
func (c *collection) Set(ctx context.Context, item hubapi.CollectionItem) error {
	return c.SetMany(ctx, []hubapi.CollectionItem{item})
}

// SetMany implements hubapi.Collection.SetMany. Items ride as a jsonlines
// body; every item must carry a "_key".
func (c *collection) SetMany(ctx context.Context, items []hubapi.CollectionItem) error {
	if len(items) == 0 {
		return nil
	}

	lines := make([]interface{}, len(items))

	for i, item := range items {
		if item.Key() == "" {
			return hubapi.ErrCollectionKeyRequired
		}

		lines[i] = item
	}

	_, err := c.client.storageClient.PostLines(ctx, c.basePath, nil, lines)
	if err != nil {
		return fmt.Errorf("writing collection items: %w", err)
	}

	return nil
}

// Delete implements hubapi.Collection.Delete.
func (c *collection) Delete(ctx context.Context, key string) error {
	if key == "" {
		return hubapi.ErrCollectionKeyRequired
	}

	_, err := c.client.storageClient.Delete(ctx, c.basePath+"/"+key)
	if err != nil {
		return fmt.Errorf("deleting collection item %q: %w", key, err)
	}

	return nil
}

// Count implements hubapi.Collection.Count.
func (c *collection) Count(ctx context.Context) (int, error) {
	resp, err := c.client.storageClient.Get(ctx, c.basePath+"/count", nil)
	if err != nil {
		return 0, fmt.Errorf("counting collection items: %w", err)
	}

	var result struct {
		Count int `json:"count"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return 0, fmt.Errorf("parsing collection count: %w", err)
	}

	return result.Count, nil
}

// List implements hubapi.Collection.List.
func (c *collection) List(ctx context.Context, params *hubapi.QueryParams) ([]hubapi.CollectionItem, error) {
	resp, err := c.client.storageClient.Get(ctx, c.basePath, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing collection items: %w", err)
	}

	items, err := http.DecodeLines[hubapi.CollectionItem](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding collection items: %w", err)
	}

	return items, nil
}

// Iter implements hubapi.Collection.Iter.
func (c *collection) Iter(ctx context.Context, params *hubapi.QueryParams) *hubapi.PageIterator[hubapi.CollectionItem] {
	lister := hubapi.PageListerFunc[hubapi.CollectionItem](func(ctx context.Context, pageParams *hubapi.QueryParams) ([]hubapi.CollectionItem, error) {
		return c.List(ctx, pageParams)
	})

	return hubapi.NewPageIterator(ctx, lister, params)
}
