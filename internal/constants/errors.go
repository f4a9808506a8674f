package constants

import "errors"

// CLI configuration errors.
var (
	ErrNoAPIKeyConfigured   = errors.New("no API key configured, run 'shub login' or set SHUB_APIKEY")
	ErrNoEndpointConfigured = errors.New("no API endpoint configured")
	ErrUnknownOutputFormat  = errors.New("unknown output format")
)

// CLI argument errors.
var (
	ErrProjectRequired    = errors.New("project id is required (use --project or set a default)")
	ErrSpiderRequired     = errors.New("spider name is required")
	ErrJobKeyRequired     = errors.New("job key is required")
	ErrSettingKeyRequired = errors.New("setting key is required")
	ErrEventTextRequired  = errors.New("event text is required")
	ErrInvalidSetting     = errors.New("invalid setting, expected key=value")
)
