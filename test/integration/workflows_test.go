//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkflow_ProjectDiscovery lists projects and checks the targeted
// project is reachable.
func TestWorkflow_ProjectDiscovery(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()

	ids, err := client.Projects().List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, config.ProjectID)

	project, err := client.GetProject(config.ProjectID)
	require.NoError(t, err)

	_, err = project.Spiders.List(ctx)
	require.NoError(t, err)
}

// TestWorkflow_JobLifecycle schedules a job, waits on its metadata, and
// cancels it again.
func TestWorkflow_JobLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	if config.Spider == "" {
		t.Skip("SHUB_TEST_SPIDER not set, skipping job lifecycle test")
	}

	client := config.NewClient(t)
	ctx := context.Background()

	project, err := client.GetProject(config.ProjectID)
	require.NoError(t, err)

	tag := GenerateTestName("integration")

	key, err := project.Jobs.Run(ctx, config.Spider, &hubapi.JobRunOptions{
		Tags: []string{tag},
	})
	require.NoError(t, err)
	assert.Equal(t, config.ProjectID, key.Project)

	job, err := project.Jobs.Metadata(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, config.Spider, job.Spider)
	assert.Contains(t, job.Tags, tag)

	require.NoError(t, project.Jobs.Cancel(ctx, key))
}

// TestWorkflow_SettingsRoundTrip stages a setting, saves it, and reads it
// back live before deleting it again.
func TestWorkflow_SettingsRoundTrip(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()

	project, err := client.GetProject(config.ProjectID)
	require.NoError(t, err)

	key := GenerateTestName("INTEGRATION_SETTING")

	project.Settings.Set(key, "test-value")
	require.NoError(t, project.Settings.Save(ctx))

	defer func() {
		_ = project.Settings.Delete(ctx, key)
	}()

	value, err := project.Settings.LiveGet(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "test-value", value)

	// A fresh read after Expire sees the saved value too
	project.Settings.Expire()

	value, err = project.Settings.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "test-value", value)
}

// TestWorkflow_CollectionRoundTrip writes, reads, counts, and deletes a
// collection item.
func TestWorkflow_CollectionRoundTrip(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()

	project, err := client.GetProject(config.ProjectID)
	require.NoError(t, err)

	store, err := project.Collections.GetStore("integration_store")
	require.NoError(t, err)

	itemKey := GenerateTestName("item")

	err = store.Set(ctx, hubapi.CollectionItem{"_key": itemKey, "value": "present"})
	require.NoError(t, err)

	item, err := store.Get(ctx, itemKey)
	require.NoError(t, err)
	assert.Equal(t, "present", item["value"])

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)

	require.NoError(t, store.Delete(ctx, itemKey))
}

// TestWorkflow_Activity posts an event and finds it in the feed.
func TestWorkflow_Activity(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()

	project, err := client.GetProject(config.ProjectID)
	require.NoError(t, err)

	event := GenerateTestName("integration-event")

	err = project.Activity.Add(ctx, hubapi.ActivityEvent{Event: event, User: "integration"})
	require.NoError(t, err)

	events, err := project.Activity.List(ctx, hubapi.NewQueryParams().WithCount(50))
	require.NoError(t, err)

	found := false
	for _, entry := range events {
		if entry.Event == event {
			found = true

			break
		}
	}

	assert.True(t, found, "posted event not present in activity feed")
}
