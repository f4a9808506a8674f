package hubapi

// JobSummary is one entry of the per-project summary returned by
// ProjectsClient.Summary. The key set mirrors the platform's response schema
// and must stay stable for existing callers.
type JobSummary struct {
	Project     int  `json:"project"      yaml:"project"`
	Pending     int  `json:"pending"      yaml:"pending"`
	Running     int  `json:"running"      yaml:"running"`
	Finished    int  `json:"finished"     yaml:"finished"`
	HasCapacity bool `json:"has_capacity" yaml:"has_capacity"`
}

// SettingsMap holds project settings as string keys mapped to scalar/JSON
// values, exactly as the settings endpoint returns them.
type SettingsMap map[string]any

// JobMetadata is the stored metadata of a single job.
type JobMetadata struct {
	Key          string      `json:"key"                     yaml:"key"`
	Project      int         `json:"project"                 yaml:"project"`
	Spider       string      `json:"spider"                  yaml:"spider"`
	State        string      `json:"state"                   yaml:"state"`
	Priority     int         `json:"priority,omitempty"      yaml:"priority,omitempty"`
	Tags         []string    `json:"tags,omitempty"          yaml:"tags,omitempty"`
	ItemsScraped int         `json:"items_scraped"           yaml:"items_scraped"`
	ErrorsCount  int         `json:"errors_count"            yaml:"errors_count"`
	PendingTime  int64       `json:"pending_time,omitempty"  yaml:"pending_time,omitempty"`
	RunningTime  int64       `json:"running_time,omitempty"  yaml:"running_time,omitempty"`
	FinishedTime int64       `json:"finished_time,omitempty" yaml:"finished_time,omitempty"`
	CloseReason  string      `json:"close_reason,omitempty"  yaml:"close_reason,omitempty"`
	Version      string      `json:"version,omitempty"       yaml:"version,omitempty"`
	JobSettings  SettingsMap `json:"job_settings,omitempty"  yaml:"job_settings,omitempty"`
}

// Job states as stored in job metadata.
const (
	JobStatePending  = "pending"
	JobStateRunning  = "running"
	JobStateFinished = "finished"
	JobStateDeleted  = "deleted"
)

// JobRunOptions are the optional arguments accepted when scheduling a job.
type JobRunOptions struct {
	Args        map[string]string `json:"job_args,omitempty"     yaml:"job_args,omitempty"`
	Settings    SettingsMap       `json:"job_settings,omitempty" yaml:"job_settings,omitempty"`
	Priority    *int              `json:"priority,omitempty"     yaml:"priority,omitempty"`
	Units       *int              `json:"units,omitempty"        yaml:"units,omitempty"`
	Tags        []string          `json:"add_tag,omitempty"      yaml:"add_tag,omitempty"`
	Environment map[string]string `json:"environment,omitempty"  yaml:"environment,omitempty"`
}

// TagUpdateOptions describes a bulk tag update over a project's jobs.
type TagUpdateOptions struct {
	Spider string   `json:"spider,omitempty"     yaml:"spider,omitempty"`
	Add    []string `json:"add_tag,omitempty"    yaml:"add_tag,omitempty"`
	Remove []string `json:"remove_tag,omitempty" yaml:"remove_tag,omitempty"`
}

// QueueSummary is one per-queue entry of the project job summary.
type QueueSummary struct {
	Queue string        `json:"name"    yaml:"name"`
	Count int           `json:"count"   yaml:"count"`
	Jobs  []JobMetadata `json:"summary" yaml:"summary"`
}

// Spider describes a spider registered in a project.
type Spider struct {
	ID       int         `json:"id"                 yaml:"id"`
	Name     string      `json:"name"               yaml:"name"`
	Type     string      `json:"type,omitempty"     yaml:"type,omitempty"`
	Tags     []string    `json:"tags,omitempty"     yaml:"tags,omitempty"`
	Settings SettingsMap `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// ActivityEvent is a single project activity entry. Timestamp is unix
// milliseconds assigned by the server; leave it zero when posting.
type ActivityEvent struct {
	Event     string `json:"event"               yaml:"event"`
	User      string `json:"user,omitempty"      yaml:"user,omitempty"`
	Job       string `json:"job,omitempty"       yaml:"job,omitempty"`
	Spider    string `json:"spider,omitempty"    yaml:"spider,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Item is a scraped item as stored by the platform.
type Item map[string]any

// LogEntry is one job log line.
type LogEntry struct {
	Time    int64  `json:"time"    yaml:"time"`
	Level   int    `json:"level"   yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// Log levels stored in job logs.
const (
	LogLevelDebug   = 10
	LogLevelInfo    = 20
	LogLevelWarning = 30
	LogLevelError   = 40
)

// RequestEntry is one crawled request record of a job.
type RequestEntry struct {
	URL         string `json:"url"              yaml:"url"`
	Time        int64  `json:"time"             yaml:"time"`
	Method      string `json:"method,omitempty" yaml:"method,omitempty"`
	Status      int    `json:"status"           yaml:"status"`
	Duration    int64  `json:"duration"         yaml:"duration"`
	ResponseLen int    `json:"rs"               yaml:"rs"`
	Parent      *int   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Fingerprint string `json:"fp,omitempty"     yaml:"fp,omitempty"`
}

// CollectionInfo describes an existing collection of a project.
type CollectionInfo struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// CollectionItem is a single collection entry. Every stored item carries its
// key under "_key".
type CollectionItem map[string]any

// Key returns the item's "_key" value, or the empty string.
func (i CollectionItem) Key() string {
	key, _ := i["_key"].(string)

	return key
}

// FrontierFingerprint is one request fingerprint queued into a frontier slot.
type FrontierFingerprint struct {
	Fingerprint string         `json:"fp"              yaml:"fp"`
	QueueData   map[string]any `json:"qdata,omitempty" yaml:"qdata,omitempty"`
}

// RequestBatch is a batch of fingerprints read from a frontier slot. Batches
// are acknowledged by id via FrontierSlot.DeleteBatches.
type RequestBatch struct {
	ID       string                `json:"id"       yaml:"id"`
	Requests []FrontierFingerprint `json:"requests" yaml:"requests"`
}
