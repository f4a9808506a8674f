package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/spiderhub-io/hubapi/internal/constants"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/spiderhub-io/hubapi/pkg/hubclient"
	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is used when no API endpoint is configured.
const DefaultEndpoint = "https://app.spiderhub.io"

// CreateClient builds an API client from the effective CLI configuration
// (flags, environment, config file).
func CreateClient() (hubapi.Client, error) {
	apiKey := viper.GetString("apikey")
	if apiKey == "" {
		return nil, constants.ErrNoAPIKeyConfigured
	}

	endpoint := viper.GetString("api")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	config := &hubapi.Config{
		APIEndpoint:     endpoint,
		StorageEndpoint: viper.GetString("storage"),
		APIKey:          apiKey,
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = stderrLogger{}
	}

	client, err := hubclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// CurrentProject resolves the project targeted via --project (or the
// config file) to a project handle.
func CurrentProject() (*hubapi.Project, error) {
	client, err := CreateClient()
	if err != nil {
		return nil, err
	}

	projectID := viper.GetInt("project")
	if projectID <= 0 {
		return nil, constants.ErrProjectRequired
	}

	project, err := client.GetProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project: %w", err)
	}

	return project, nil
}

// stderrLogger routes SDK debug logging to stderr for --verbose runs.
type stderrLogger struct{}

func (stderrLogger) Debug(msg string, fields map[string]interface{}) { logLine("DEBUG", msg, fields) }
func (stderrLogger) Info(msg string, fields map[string]interface{})  { logLine("INFO", msg, fields) }
func (stderrLogger) Warn(msg string, fields map[string]interface{})  { logLine("WARN", msg, fields) }
func (stderrLogger) Error(msg string, fields map[string]interface{}) { logLine("ERROR", msg, fields) }

func logLine(level, msg string, fields map[string]interface{}) {
	parts := make([]string, 0, len(fields))
	for key, value := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", key, value))
	}

	_, _ = fmt.Fprintf(os.Stderr, "[%s] %s %s\n", level, msg, strings.Join(parts, " "))
}

// StandardJSONRenderer writes data to stdout as indented JSON.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data to stdout as YAML.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// renderOutput dispatches to the renderer selected by --output, falling
// back to the given table renderer.
func renderOutput[T any](data T, renderTable func(T) error) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(data)
	case constants.FormatTable, "":
		return renderTable(data)
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnknownOutputFormat, viper.GetString("output"))
	}
}

// formatMillis renders a unix-milliseconds timestamp, or N/A when unset.
func formatMillis(millis int64) string {
	if millis == 0 {
		return constants.NotAvailable
	}

	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04:05")
}

// parseSetting splits a KEY=VALUE argument. JSON values are decoded so
// numbers and booleans keep their type; everything else stays a string.
func parseSetting(arg string) (string, any, error) {
	key, raw, found := strings.Cut(arg, "=")
	if !found || key == "" {
		return "", nil, fmt.Errorf("%w: %q", constants.ErrInvalidSetting, arg)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	return key, value, nil
}

// saveConfig persists the effective viper configuration, creating
// ~/.shub/config.yml when no config file is in use yet.
func saveConfig() error {
	if file := viper.ConfigFileUsed(); file != "" {
		if err := viper.WriteConfig(); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}

	configDir := filepath.Join(home, ".shub")
	if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := viper.WriteConfigAs(filepath.Join(configDir, "config.yml")); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
