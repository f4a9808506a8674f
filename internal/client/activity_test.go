package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityList(t *testing.T) {
	t.Parallel()

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/projects/123/activity", request.URL.Path)
		assert.Equal(t, "2", request.URL.Query().Get("count"))

		// Newest first.
		_, _ = writer.Write([]byte(
			`{"event":"job:completed","job":"123/1/4","user":"jobrunner","timestamp":1609459200000}` + "\n" +
				`{"event":"job:scheduled","job":"123/1/4","user":"john"}` + "\n"))
	})

	events, err := project.Activity.List(context.Background(), hubapi.NewQueryParams().WithCount(2))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "job:completed", events[0].Event)
	assert.Equal(t, int64(1609459200000), events[0].Timestamp)
	assert.Equal(t, "john", events[1].User)
}

func TestActivityIter(t *testing.T) {
	t.Parallel()

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"event":"job:scheduled"}` + "\n"))
	})

	events, err := project.Activity.Iter(context.Background(), hubapi.NewQueryParams().WithCount(1)).All()
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestActivityAdd(t *testing.T) {
	t.Parallel()

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/projects/123/activity/add", request.URL.Path)
		assert.Equal(t, "application/jsonlines", request.Header.Get("Content-Type"))

		body, err := io.ReadAll(request.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"event":"deploy","user":"jane"}`, strings.TrimSpace(string(body)))
		writer.WriteHeader(http.StatusOK)
	})

	err := project.Activity.Add(context.Background(), hubapi.ActivityEvent{Event: "deploy", User: "jane"})
	require.NoError(t, err)
}

func TestActivityAddMany(t *testing.T) {
	t.Parallel()

	requests := 0

	project := newTestProject(t, 123, func(writer http.ResponseWriter, request *http.Request) {
		requests++

		body, err := io.ReadAll(request.Body)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		assert.Len(t, lines, 3)
		writer.WriteHeader(http.StatusOK)
	})

	events := []hubapi.ActivityEvent{
		{Event: "deploy"},
		{Event: "job:scheduled"},
		{Event: "job:cancelled"},
	}

	require.NoError(t, project.Activity.AddMany(context.Background(), events))
	assert.Equal(t, 1, requests)

	// Empty batch sends nothing.
	require.NoError(t, project.Activity.AddMany(context.Background(), nil))
	assert.Equal(t, 1, requests)
}
