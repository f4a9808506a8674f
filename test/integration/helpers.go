//go:build integration
// +build integration

package integration

import (
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/spiderhub-io/hubapi/pkg/hubclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Endpoint        string
	StorageEndpoint string
	APIKey          string
	ProjectID       int
	Spider          string
	Verbose         bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	projectID, _ := strconv.Atoi(os.Getenv("SHUB_TEST_PROJECT"))

	return &TestConfig{
		Endpoint:        os.Getenv("SHUB_ENDPOINT"),
		StorageEndpoint: os.Getenv("SHUB_STORAGE_ENDPOINT"),
		APIKey:          os.Getenv("SHUB_APIKEY"),
		ProjectID:       projectID,
		Spider:          os.Getenv("SHUB_TEST_SPIDER"),
		Verbose:         os.Getenv("SHUB_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test unless a live endpoint is configured
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Endpoint == "" {
		t.Skip("SHUB_ENDPOINT not set, skipping integration test")
	}

	if config.APIKey == "" {
		t.Skip("SHUB_APIKEY not set, skipping integration test")
	}

	if config.ProjectID == 0 {
		t.Skip("SHUB_TEST_PROJECT not set, skipping integration test")
	}
}

// NewClient builds a client from the test configuration
func (config *TestConfig) NewClient(t *testing.T) hubapi.Client {
	t.Helper()

	client, err := hubclient.New(&hubapi.Config{
		APIEndpoint:     config.Endpoint,
		StorageEndpoint: config.StorageEndpoint,
		APIKey:          config.APIKey,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return client
}

// GenerateTestName creates a unique name for test resources
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
