package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil)
		assert.ErrorIs(t, err, hubapi.ErrConfigRequired)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := New(&hubapi.Config{APIKey: "key"})
		assert.ErrorIs(t, err, hubapi.ErrAPIEndpointRequired)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		client, err := New(&hubapi.Config{
			APIEndpoint: "https://app.example.com/api",
			APIKey:      "key",
		})
		require.NoError(t, err)
		assert.NotNil(t, client.Projects())
	})

	t.Run("invalid cache config", func(t *testing.T) {
		t.Parallel()

		_, err := New(&hubapi.Config{
			APIEndpoint: "https://app.example.com/api",
			APIKey:      "key",
			Cache:       &hubapi.CacheConfig{Type: hubapi.CacheType("bogus")},
		})
		assert.ErrorIs(t, err, hubapi.ErrUnsupportedCacheType)
	})
}

func TestStorageEndpointDefaults(t *testing.T) {
	t.Parallel()

	// With no StorageEndpoint configured, storage reads hit the API
	// endpoint.
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/projects/123/activity", request.URL.Path)
		_, _ = writer.Write([]byte(`{"event":"job:completed"}` + "\n"))
	}))
	t.Cleanup(server.Close)

	client, err := New(&hubapi.Config{APIEndpoint: server.URL, APIKey: "key"})
	require.NoError(t, err)

	project, err := client.GetProject(123)
	require.NoError(t, err)

	events, err := project.Activity.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestSeparateStorageEndpoint(t *testing.T) {
	t.Parallel()

	apiServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/projects", request.URL.Path)
		_ = json.NewEncoder(writer).Encode(map[string][]int{"projects": {123}})
	}))
	t.Cleanup(apiServer.Close)

	storageServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/projects/123/collections", request.URL.Path)
		_, _ = writer.Write([]byte(`[{"name":"pages","type":"s"}]`))
	}))
	t.Cleanup(storageServer.Close)

	client, err := New(&hubapi.Config{
		APIEndpoint:     apiServer.URL,
		StorageEndpoint: storageServer.URL,
		APIKey:          "key",
	})
	require.NoError(t, err)

	ids, err := client.Projects().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{123}, ids)

	project, err := client.GetProject(123)
	require.NoError(t, err)

	infos, err := project.Collections.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "pages", infos[0].Name)
}
