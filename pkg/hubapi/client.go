package hubapi

import (
	"context"
	"time"
)

// Client is the top-level entry point into the platform API.
type Client interface {
	// Projects returns the enumerator over projects visible to the
	// authenticated account.
	Projects() ProjectsClient

	// GetProject is shorthand for Projects().Get.
	GetProject(projectID int) (*Project, error)

	// GetProjectKey is shorthand for Projects().GetKey.
	GetProjectKey(key string) (*Project, error)
}

// ProjectsClient enumerates projects and constructs project handles. The
// enumerator itself is stateless; handles are built locally without touching
// the network.
type ProjectsClient interface {
	// List returns the numeric ids of all projects visible to the account.
	List(ctx context.Context) ([]int, error)

	// Iter iterates over the same ids as List. Provided for the sake of API
	// consistency.
	Iter(ctx context.Context) (*PageIterator[int], error)

	// Summary returns short per-project job summaries.
	Summary(ctx context.Context, params *QueryParams) ([]JobSummary, error)

	// Get builds a project handle for the given id. The id must be
	// non-negative; no remote call is made.
	Get(projectID int) (*Project, error)

	// GetKey builds a project handle from a string key. It fails with
	// ErrInvalidProjectID when the key cannot be parsed to a non-negative
	// integer. GetKey(strconv.Itoa(x)) is equivalent to Get(x).
	GetKey(key string) (*Project, error)
}

// Project is a handle on a single project and its sub-resources. Key is the
// project id coerced to a string and never changes after construction.
type Project struct {
	Key string
	ID  int

	Jobs        JobsClient
	Spiders     SpidersClient
	Activity    ActivityClient
	Collections CollectionsClient
	Frontiers   FrontiersClient
	Settings    SettingsClient
}

// JobsClient manages the jobs of one project.
type JobsClient interface {
	// Run schedules a job for the named spider and returns the new job's key.
	Run(ctx context.Context, spider string, opts *JobRunOptions) (JobKey, error)

	// Metadata fetches the stored metadata of a job. The key's project part
	// must match the bound project.
	Metadata(ctx context.Context, key JobKey) (*JobMetadata, error)

	// List returns job metadata matching the query.
	List(ctx context.Context, params *QueryParams) ([]JobMetadata, error)

	// Iter iterates over job metadata matching the query, fetching pages
	// lazily.
	Iter(ctx context.Context, params *QueryParams) *PageIterator[JobMetadata]

	// Summary returns the pending/running/finished queue summaries.
	Summary(ctx context.Context, params *QueryParams) ([]QueueSummary, error)

	// UpdateTags adds and removes tags across the project's jobs and returns
	// the number of jobs modified.
	UpdateTags(ctx context.Context, opts *TagUpdateOptions) (int, error)

	// Cancel requests cancellation of the given jobs.
	Cancel(ctx context.Context, keys ...JobKey) error

	// Delete removes finished jobs and their stored data.
	Delete(ctx context.Context, keys ...JobKey) error

	// Items returns the scraped items of a job.
	Items(ctx context.Context, key JobKey, params *QueryParams) ([]Item, error)

	// Logs returns the log entries of a job.
	Logs(ctx context.Context, key JobKey, params *QueryParams) ([]LogEntry, error)

	// Requests returns the crawled request records of a job.
	Requests(ctx context.Context, key JobKey, params *QueryParams) ([]RequestEntry, error)
}

// SpidersClient manages the spiders of one project.
type SpidersClient interface {
	// Get resolves a spider by name.
	Get(ctx context.Context, name string) (*Spider, error)

	// List returns all spiders of the project.
	List(ctx context.Context) ([]Spider, error)

	// UpdateTags adds and removes tags on a spider.
	UpdateTags(ctx context.Context, spider string, add, remove []string) error
}

// ActivityClient reads and posts project activity events.
type ActivityClient interface {
	// List returns recent activity events, newest first.
	List(ctx context.Context, params *QueryParams) ([]ActivityEvent, error)

	// Iter iterates over activity events, fetching pages lazily.
	Iter(ctx context.Context, params *QueryParams) *PageIterator[ActivityEvent]

	// Add posts a single activity event.
	Add(ctx context.Context, event ActivityEvent) error

	// AddMany posts several activity events at once.
	AddMany(ctx context.Context, events []ActivityEvent) error
}

// CollectionsClient provides access to a project's named key/value stores.
type CollectionsClient interface {
	// List returns the existing collections of the project.
	List(ctx context.Context) ([]CollectionInfo, error)

	// GetStore returns a handle on a plain store.
	GetStore(name string) (Collection, error)

	// GetCachedStore returns a handle on a store with cached reads.
	GetCachedStore(name string) (Collection, error)

	// GetVersionedStore returns a handle on a store keeping item versions.
	GetVersionedStore(name string) (Collection, error)
}

// Collection is a handle on one named store. Items are JSON objects addressed
// by their "_key" field.
type Collection interface {
	Name() string
	Get(ctx context.Context, key string) (CollectionItem, error)
	Set(ctx context.Context, item CollectionItem) error
	SetMany(ctx context.Context, items []CollectionItem) error
	Delete(ctx context.Context, key string) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, params *QueryParams) ([]CollectionItem, error)
	Iter(ctx context.Context, params *QueryParams) *PageIterator[CollectionItem]
}

// FrontiersClient provides access to a project's crawl frontiers.
type FrontiersClient interface {
	// List returns the names of the project's frontiers.
	List(ctx context.Context) ([]string, error)

	// Get returns a handle on a named frontier.
	Get(name string) (Frontier, error)
}

// Frontier is a handle on one crawl frontier and its slots.
type Frontier interface {
	Name() string
	ListSlots(ctx context.Context) ([]string, error)
	Slot(name string) (FrontierSlot, error)

	// Flush forces buffered writes of all slots to storage.
	Flush(ctx context.Context) error
}

// FrontierSlot is a handle on one slot queue of a frontier.
type FrontierSlot interface {
	Name() string

	// AddRequests enqueues request fingerprints and returns the number of
	// fingerprints that were new to the slot.
	AddRequests(ctx context.Context, fps []FrontierFingerprint) (int, error)

	// ReadRequests reads pending request batches without consuming them.
	ReadRequests(ctx context.Context, params *QueryParams) ([]RequestBatch, error)

	// DeleteBatches acknowledges processed batches by id.
	DeleteBatches(ctx context.Context, ids []string) error

	// NewCount returns the number of fingerprints added since the last flush.
	NewCount(ctx context.Context) (int, error)

	// Flush forces buffered writes of the slot to storage.
	Flush(ctx context.Context) error

	// Delete removes the slot and its queue.
	Delete(ctx context.Context) error
}

// SettingsClient is a proxy over a project's key/value settings. Reads are
// served from a local cache populated lazily from the settings endpoint;
// writes are staged locally until Save flushes them to the remote store.
type SettingsClient interface {
	// List returns exactly the keys present in the cached settings mapping,
	// fetching it first when cold.
	List(ctx context.Context) ([]string, error)

	// Get returns the cached value for a key, fetching the mapping first when
	// cold. Staged writes are visible to Get.
	Get(ctx context.Context, key string) (any, error)

	// Set stages a write. The value becomes visible locally at once and
	// remotely after Save.
	Set(key string, value any)

	// Save flushes staged writes to the remote store. Remote validation
	// errors (e.g. a rejected read-only setting) are returned unmodified and
	// the staged writes are kept.
	Save(ctx context.Context) error

	// Delete removes a key from the remote store at once and drops it from
	// the local cache, including any staged write for it.
	Delete(ctx context.Context, key string) error

	// Expire drops the local cache and any staged writes.
	Expire()

	// LiveGet fetches a single key from the server, bypassing the cache.
	LiveGet(ctx context.Context, key string) (any, error)

	// Snapshot returns a copy of the cached settings mapping, fetching it
	// first when cold.
	Snapshot(ctx context.Context) (SettingsMap, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a hubapi.Client.
//
// # Authentication
//
// The platform authenticates with a per-account API key sent as the
// basic-auth username of every request. APIKey may be left empty, in which
// case the concrete client falls back to the SHUB_APIKEY environment
// variable.
//
// # Endpoints
//
// APIEndpoint serves account and scheduling operations; StorageEndpoint
// serves stored job data, settings, collections, and frontiers. When
// StorageEndpoint is empty it defaults to APIEndpoint, which is what tests
// and single-host deployments want.
//
// # Timeouts and retries
//
// Per-request timeouts should generally be controlled via the context passed
// to client methods. Retry behavior for transient failures (>=500, 429, and
// connection errors) can be tuned via RetryMax/RetryWaitMin/RetryWaitMax.
type Config struct {
	// APIEndpoint: base URL for the platform API. The hubclient constructor
	// normalizes this value by trimming a trailing slash and adding "https://"
	// when no scheme is present.
	APIEndpoint string

	// StorageEndpoint: base URL for the storage API. Defaults to APIEndpoint.
	StorageEndpoint string

	// APIKey: account API key.
	APIKey string

	// HTTPTimeout: optional default HTTP timeout where supported.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures. If 0, a
	// sensible default is used by the client.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// Debug: enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string

	// Cache: optional response cache configuration for GET requests. If nil,
	// responses are not cached.
	Cache *CacheConfig
}
