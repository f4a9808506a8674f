package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpidersGet(t *testing.T) {
	t.Parallel()

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/projects/123/spiders/resolve", request.URL.Path)
		assert.Equal(t, "books", request.URL.Query().Get("spider"))

		_ = json.NewEncoder(writer).Encode(hubapi.Spider{ID: 1, Name: "books", Tags: []string{"prod"}})
	})

	spider, err := project.Spiders.Get(context.Background(), "books")
	require.NoError(t, err)
	assert.Equal(t, 1, spider.ID)
	assert.Equal(t, "books", spider.Name)
	assert.Equal(t, []string{"prod"}, spider.Tags)
}

func TestSpidersGetUnknown(t *testing.T) {
	t.Parallel()

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)

		response := hubapi.ResponseError{Errors: []hubapi.APIError{
			{Code: hubapi.ErrorCodeNotFound, Title: "SH-ResourceNotFound", Detail: "spider not found"},
		}}
		_ = json.NewEncoder(writer).Encode(response)
	})

	_, err := project.Spiders.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, hubapi.IsNotFound(err))
}

func TestSpidersGetEmptyName(t *testing.T) {
	t.Parallel()

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		t.Error("no request expected")
	})

	_, err := project.Spiders.Get(context.Background(), "")
	assert.ErrorIs(t, err, hubapi.ErrSpiderNameRequired)
}

func TestSpidersList(t *testing.T) {
	t.Parallel()

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/projects/123/spiders", request.URL.Path)

		spiders := []hubapi.Spider{
			{ID: 1, Name: "books"},
			{ID: 2, Name: "quotes", Type: "manual"},
		}
		_ = json.NewEncoder(writer).Encode(map[string]any{"spiders": spiders})
	})

	spiders, err := project.Spiders.List(context.Background())
	require.NoError(t, err)
	require.Len(t, spiders, 2)
	assert.Equal(t, "quotes", spiders[1].Name)
	assert.Equal(t, "manual", spiders[1].Type)
}

func TestSpidersUpdateTags(t *testing.T) {
	t.Parallel()

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/projects/123/spiders/books/tags", request.URL.Path)

		var body map[string][]string

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, []string{"prod"}, body["add_tag"])
		assert.Equal(t, []string{"beta"}, body["remove_tag"])
		writer.WriteHeader(http.StatusOK)
	})

	err := project.Spiders.UpdateTags(context.Background(), "books", []string{"prod"}, []string{"beta"})
	require.NoError(t, err)

	err = project.Spiders.UpdateTags(context.Background(), "", nil, nil)
	assert.ErrorIs(t, err, hubapi.ErrSpiderNameRequired)
}
