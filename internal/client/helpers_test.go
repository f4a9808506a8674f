package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/require"
)

// newTestClient starts an httptest server around handler and returns a
// client pointed at it for both endpoints.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(&hubapi.Config{
		APIEndpoint: server.URL,
		APIKey:      "test-key",
	})
	require.NoError(t, err)

	return client
}

// newTestProject builds a project handle against a test server.
func newTestProject(t *testing.T, projectID int, handler http.HandlerFunc) *hubapi.Project {
	t.Helper()

	client := newTestClient(t, handler)

	project, err := client.GetProject(projectID)
	require.NoError(t, err)

	return project
}
