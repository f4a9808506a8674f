package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settingsServer is a minimal in-memory settings endpoint. GET returns
// the mapping, POST merges the posted subset, GET /{key} returns one
// value. readOnly keys are rejected with the platform's 409 error.
type settingsServer struct {
	mu       sync.Mutex
	values   hubapi.SettingsMap
	readOnly map[string]bool
	gets     int
	posts    int
}

func newSettingsServer(values hubapi.SettingsMap) *settingsServer {
	if values == nil {
		values = hubapi.SettingsMap{}
	}

	return &settingsServer{values: values, readOnly: map[string]bool{}}
}

func (s *settingsServer) handler(t *testing.T) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch {
		case request.Method == "GET" && request.URL.Path == "/api/v1/projects/123/settings":
			s.gets++

			_ = json.NewEncoder(writer).Encode(s.values)
		case request.Method == "POST" && request.URL.Path == "/api/v1/projects/123/settings":
			s.posts++

			var posted hubapi.SettingsMap

			require.NoError(t, json.NewDecoder(request.Body).Decode(&posted))

			for key := range posted {
				if s.readOnly[key] {
					writer.WriteHeader(http.StatusConflict)

					response := hubapi.ResponseError{Errors: []hubapi.APIError{
						{Code: hubapi.ErrorCodeReadOnlySetting, Title: "SH-ReadOnlySetting", Detail: key},
					}}
					_ = json.NewEncoder(writer).Encode(response)

					return
				}
			}

			for key, value := range posted {
				s.values[key] = value
			}

			writer.WriteHeader(http.StatusOK)
		case request.Method == "DELETE":
			key := request.URL.Path[len("/api/v1/projects/123/settings/"):]

			delete(s.values, key)
			writer.WriteHeader(http.StatusOK)
		case request.Method == "GET":
			key := request.URL.Path[len("/api/v1/projects/123/settings/"):]

			value, ok := s.values[key]
			if !ok {
				writer.WriteHeader(http.StatusNotFound)

				return
			}

			_ = json.NewEncoder(writer).Encode(value)
		default:
			t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
		}
	}
}

func (s *settingsServer) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gets
}

func (s *settingsServer) postCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.posts
}

func TestSettingsListUsesCache(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(hubapi.SettingsMap{"CONCURRENCY": float64(8), "LOG_LEVEL": "INFO"})
	project := newTestProject(t, 123, server.handler(t))

	keys, err := project.Settings.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"CONCURRENCY", "LOG_LEVEL"}, keys)

	// Further reads are served from the cache.
	_, err = project.Settings.Get(context.Background(), "LOG_LEVEL")
	require.NoError(t, err)

	_, err = project.Settings.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, server.getCount())
}

func TestSettingsGet(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(hubapi.SettingsMap{"LOG_LEVEL": "INFO"})
	project := newTestProject(t, 123, server.handler(t))

	value, err := project.Settings.Get(context.Background(), "LOG_LEVEL")
	require.NoError(t, err)
	assert.Equal(t, "INFO", value)

	_, err = project.Settings.Get(context.Background(), "MISSING")
	assert.ErrorIs(t, err, hubapi.ErrSettingNotFound)
}

func TestSettingsSetVisibleBeforeSave(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(nil)
	project := newTestProject(t, 123, server.handler(t))

	project.Settings.Set("CONCURRENCY", 16)

	value, err := project.Settings.Get(context.Background(), "CONCURRENCY")
	require.NoError(t, err)
	assert.Equal(t, 16, value)

	keys, err := project.Settings.List(context.Background())
	require.NoError(t, err)
	assert.Contains(t, keys, "CONCURRENCY")

	// Nothing was written remotely yet.
	assert.Equal(t, 0, server.postCount())
}

func TestSettingsSaveFlushesOnlyDirtyKeys(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(hubapi.SettingsMap{"LOG_LEVEL": "INFO"})
	project := newTestProject(t, 123, server.handler(t))

	// Warm the cache, then stage one write.
	_, err := project.Settings.List(context.Background())
	require.NoError(t, err)

	project.Settings.Set("CONCURRENCY", 16)

	require.NoError(t, project.Settings.Save(context.Background()))
	assert.Equal(t, 1, server.postCount())

	// Nothing staged, nothing posted.
	require.NoError(t, project.Settings.Save(context.Background()))
	assert.Equal(t, 1, server.postCount())

	server.mu.Lock()
	assert.Equal(t, float64(16), server.values["CONCURRENCY"].(float64))
	assert.Equal(t, "INFO", server.values["LOG_LEVEL"])
	server.mu.Unlock()
}

func TestSettingsSaveReadOnlyKeepsPending(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(nil)
	server.readOnly["BOT_GROUPS"] = true
	project := newTestProject(t, 123, server.handler(t))

	project.Settings.Set("BOT_GROUPS", []string{"g1"})

	err := project.Settings.Save(context.Background())
	require.Error(t, err)

	errResp := &hubapi.ResponseError{}
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, hubapi.ErrorCodeReadOnlySetting, errResp.Errors[0].Code)

	// The staged write survives a failed save and is retried.
	server.mu.Lock()
	server.readOnly["BOT_GROUPS"] = false
	server.mu.Unlock()

	require.NoError(t, project.Settings.Save(context.Background()))
	assert.Equal(t, 2, server.postCount())
}

func TestSettingsDelete(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(hubapi.SettingsMap{"LOG_LEVEL": "INFO", "CONCURRENCY": float64(8)})
	project := newTestProject(t, 123, server.handler(t))

	// Warm the cache, then delete one key.
	_, err := project.Settings.Get(context.Background(), "LOG_LEVEL")
	require.NoError(t, err)

	require.NoError(t, project.Settings.Delete(context.Background(), "LOG_LEVEL"))

	// Gone locally without a refetch, and gone remotely.
	_, err = project.Settings.Get(context.Background(), "LOG_LEVEL")
	assert.ErrorIs(t, err, hubapi.ErrSettingNotFound)
	assert.Equal(t, 1, server.getCount())

	_, err = project.Settings.LiveGet(context.Background(), "LOG_LEVEL")
	require.Error(t, err)
}

func TestSettingsExpire(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(hubapi.SettingsMap{"LOG_LEVEL": "INFO"})
	project := newTestProject(t, 123, server.handler(t))

	_, err := project.Settings.List(context.Background())
	require.NoError(t, err)

	project.Settings.Set("CONCURRENCY", 16)
	project.Settings.Expire()

	// Staged write was dropped with the cache.
	_, err = project.Settings.Get(context.Background(), "CONCURRENCY")
	assert.ErrorIs(t, err, hubapi.ErrSettingNotFound)

	// The next read refetched.
	assert.Equal(t, 2, server.getCount())
}

func TestSettingsLiveGetBypassesCache(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(hubapi.SettingsMap{"LOG_LEVEL": "INFO"})
	project := newTestProject(t, 123, server.handler(t))

	// Warm the cache, then change the value server-side.
	_, err := project.Settings.List(context.Background())
	require.NoError(t, err)

	server.mu.Lock()
	server.values["LOG_LEVEL"] = "DEBUG"
	server.mu.Unlock()

	cached, err := project.Settings.Get(context.Background(), "LOG_LEVEL")
	require.NoError(t, err)
	assert.Equal(t, "INFO", cached)

	live, err := project.Settings.LiveGet(context.Background(), "LOG_LEVEL")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", live)
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(nil)
	project := newTestProject(t, 123, server.handler(t))

	project.Settings.Set("RETRY_TIMES", 5)
	require.NoError(t, project.Settings.Save(context.Background()))

	project.Settings.Expire()

	value, err := project.Settings.LiveGet(context.Background(), "RETRY_TIMES")
	require.NoError(t, err)
	assert.Equal(t, float64(5), value)
}

func TestSettingsSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	server := newSettingsServer(hubapi.SettingsMap{"LOG_LEVEL": "INFO"})
	project := newTestProject(t, 123, server.handler(t))

	snapshot, err := project.Settings.Snapshot(context.Background())
	require.NoError(t, err)

	snapshot["LOG_LEVEL"] = "ERROR"

	value, err := project.Settings.Get(context.Background(), "LOG_LEVEL")
	require.NoError(t, err)
	assert.Equal(t, "INFO", value)
}
