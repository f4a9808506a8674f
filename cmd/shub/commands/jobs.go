package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spiderhub-io/hubapi/internal/constants"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// NewJobsCommand creates the jobs command group.
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Manage jobs",
		Long:    "Schedule, list, and cancel jobs and browse their stored data",
	}

	cmd.AddCommand(newJobsRunCommand())
	cmd.AddCommand(newJobsListCommand())
	cmd.AddCommand(newJobsGetCommand())
	cmd.AddCommand(newJobsCancelCommand())
	cmd.AddCommand(newJobsDeleteCommand())
	cmd.AddCommand(newJobsTagsCommand())
	cmd.AddCommand(newJobsItemsCommand())
	cmd.AddCommand(newJobsLogsCommand())
	cmd.AddCommand(newJobsRequestsCommand())

	return cmd
}

func newJobsRunCommand() *cobra.Command {
	var (
		jobArgs  map[string]string
		settings []string
		tags     []string
		priority int
		units    int
	)

	cmd := &cobra.Command{
		Use:   "run SPIDER",
		Short: "Schedule a job",
		Long:  "Schedule a job for the named spider and print the new job key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			opts := &hubapi.JobRunOptions{
				Args: jobArgs,
				Tags: tags,
			}

			for _, setting := range settings {
				key, value, err := parseSetting(setting)
				if err != nil {
					return err
				}

				if opts.Settings == nil {
					opts.Settings = hubapi.SettingsMap{}
				}

				opts.Settings[key] = value
			}

			if cmd.Flags().Changed("priority") {
				opts.Priority = &priority
			}

			if cmd.Flags().Changed("units") {
				opts.Units = &units
			}

			key, err := project.Jobs.Run(context.Background(), args[0], opts)
			if err != nil {
				return fmt.Errorf("failed to schedule job: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Scheduled job %s\n", key)

			return nil
		},
	}

	cmd.Flags().StringToStringVar(&jobArgs, "arg", nil, "spider argument (key=value)")
	cmd.Flags().StringArrayVar(&settings, "setting", nil, "job setting override (key=value)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag to attach to the job")
	cmd.Flags().IntVar(&priority, "priority", 0, "job priority")
	cmd.Flags().IntVar(&units, "units", 0, "number of units to run with")

	return cmd
}

func newJobsListCommand() *cobra.Command {
	var (
		spider string
		state  string
		tag    []string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Long:  "List job metadata of the targeted project, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			params := hubapi.NewQueryParams().WithCount(count)
			if spider != "" {
				params.WithSpider(spider)
			}

			if state != "" {
				params.WithState(state)
			}

			if len(tag) > 0 {
				params.WithTag(tag...)
			}

			jobs, err := project.Jobs.List(context.Background(), params)
			if err != nil {
				return fmt.Errorf("failed to list jobs: %w", err)
			}

			return renderOutput(jobs, renderJobTable)
		},
	}

	cmd.Flags().StringVar(&spider, "spider", "", "filter by spider name")
	cmd.Flags().StringVar(&state, "state", "", "filter by job state (pending, running, finished)")
	cmd.Flags().StringArrayVar(&tag, "tag", nil, "filter by tag")
	cmd.Flags().IntVar(&count, "count", constants.DefaultPageSize, "maximum number of jobs")

	return cmd
}

func renderJobTable(jobs []hubapi.JobMetadata) error {
	if len(jobs) == 0 {
		_, _ = os.Stdout.WriteString("No jobs found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Spider", "State", "Items", "Errors", "Finished")

	for _, job := range jobs {
		_ = table.Append(job.Key, job.Spider, job.State,
			strconv.Itoa(job.ItemsScraped),
			strconv.Itoa(job.ErrorsCount),
			formatMillis(job.FinishedTime))
	}

	_ = table.Render()

	return nil
}

func newJobsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get JOB_KEY",
		Short: "Show job details",
		Long:  "Display the stored metadata of a single job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, key, err := resolveJob(args[0])
			if err != nil {
				return err
			}

			job, err := project.Jobs.Metadata(context.Background(), key)
			if err != nil {
				return fmt.Errorf("failed to fetch job: %w", err)
			}

			return renderOutput(job, renderJobDetailsTable)
		},
	}
}

func renderJobDetailsTable(job *hubapi.JobMetadata) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Key", job.Key)
	_ = table.Append("Spider", job.Spider)
	_ = table.Append("State", job.State)
	_ = table.Append("Items", strconv.Itoa(job.ItemsScraped))
	_ = table.Append("Errors", strconv.Itoa(job.ErrorsCount))
	_ = table.Append("Tags", strings.Join(job.Tags, ", "))
	_ = table.Append("Pending", formatMillis(job.PendingTime))
	_ = table.Append("Running", formatMillis(job.RunningTime))
	_ = table.Append("Finished", formatMillis(job.FinishedTime))

	if job.CloseReason != "" {
		_ = table.Append("Close reason", job.CloseReason)
	}

	_ = table.Render()

	return nil
}

func newJobsCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel JOB_KEY...",
		Short: "Cancel jobs",
		Long:  "Request cancellation of one or more pending or running jobs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, keys, err := resolveJobs(args)
			if err != nil {
				return err
			}

			err = project.Jobs.Cancel(context.Background(), keys...)
			if err != nil {
				return fmt.Errorf("failed to cancel jobs: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Cancelled %d job(s)\n", len(keys))

			return nil
		},
	}
}

func newJobsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete JOB_KEY...",
		Short: "Delete jobs",
		Long:  "Delete finished jobs and their stored data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, keys, err := resolveJobs(args)
			if err != nil {
				return err
			}

			err = project.Jobs.Delete(context.Background(), keys...)
			if err != nil {
				return fmt.Errorf("failed to delete jobs: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted %d job(s)\n", len(keys))

			return nil
		},
	}
}

func newJobsTagsCommand() *cobra.Command {
	var (
		spider string
		add    []string
		remove []string
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Update job tags",
		Long:  "Add and remove tags across the project's jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			opts := &hubapi.TagUpdateOptions{Spider: spider, Add: add, Remove: remove}

			count, err := project.Jobs.UpdateTags(context.Background(), opts)
			if err != nil {
				return fmt.Errorf("failed to update tags: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated %d job(s)\n", count)

			return nil
		},
	}

	cmd.Flags().StringVar(&spider, "spider", "", "restrict to jobs of one spider")
	cmd.Flags().StringArrayVar(&add, "add", nil, "tag to add")
	cmd.Flags().StringArrayVar(&remove, "remove", nil, "tag to remove")

	return cmd
}

func newJobsItemsCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "items JOB_KEY",
		Short: "Show scraped items",
		Long:  "Print the scraped items of a job as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, key, err := resolveJob(args[0])
			if err != nil {
				return err
			}

			params := hubapi.NewQueryParams().WithCount(count)

			items, err := project.Jobs.Items(context.Background(), key, params)
			if err != nil {
				return fmt.Errorf("failed to fetch items: %w", err)
			}

			// Items are free-form objects, so table output falls back to JSON.
			return renderOutput(items, StandardJSONRenderer[[]hubapi.Item])
		},
	}

	cmd.Flags().IntVar(&count, "count", constants.DefaultPageSize, "maximum number of items")

	return cmd
}

func newJobsLogsCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "logs JOB_KEY",
		Short: "Show job logs",
		Long:  "Print the log entries of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, key, err := resolveJob(args[0])
			if err != nil {
				return err
			}

			params := hubapi.NewQueryParams().WithCount(count)

			entries, err := project.Jobs.Logs(context.Background(), key, params)
			if err != nil {
				return fmt.Errorf("failed to fetch logs: %w", err)
			}

			return renderOutput(entries, renderLogTable)
		},
	}

	cmd.Flags().IntVar(&count, "count", constants.DefaultLogLines, "maximum number of log lines")

	return cmd
}

func renderLogTable(entries []hubapi.LogEntry) error {
	if len(entries) == 0 {
		_, _ = os.Stdout.WriteString("No log entries found\n")

		return nil
	}

	for _, entry := range entries {
		_, _ = fmt.Fprintf(os.Stdout, "%s %s %s\n",
			formatMillis(entry.Time), logLevelName(entry.Level), entry.Message)
	}

	return nil
}

func logLevelName(level int) string {
	switch {
	case level >= hubapi.LogLevelError:
		return "ERROR"
	case level >= hubapi.LogLevelWarning:
		return "WARNING"
	case level >= hubapi.LogLevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func newJobsRequestsCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "requests JOB_KEY",
		Short: "Show crawled requests",
		Long:  "Print the crawled request records of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, key, err := resolveJob(args[0])
			if err != nil {
				return err
			}

			params := hubapi.NewQueryParams().WithCount(count)

			requests, err := project.Jobs.Requests(context.Background(), key, params)
			if err != nil {
				return fmt.Errorf("failed to fetch requests: %w", err)
			}

			return renderOutput(requests, renderRequestTable)
		},
	}

	cmd.Flags().IntVar(&count, "count", constants.DefaultPageSize, "maximum number of requests")

	return cmd
}

func renderRequestTable(requests []hubapi.RequestEntry) error {
	if len(requests) == 0 {
		_, _ = os.Stdout.WriteString("No requests found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("URL", "Method", "Status", "Duration (ms)")

	for _, request := range requests {
		method := request.Method
		if method == "" {
			method = "GET"
		}

		_ = table.Append(request.URL, method,
			strconv.Itoa(request.Status),
			strconv.FormatInt(request.Duration, 10))
	}

	_ = table.Render()

	return nil
}

// resolveJob parses a job key argument and returns the matching project
// handle. The key's project part wins over --project when both are set.
func resolveJob(arg string) (*hubapi.Project, hubapi.JobKey, error) {
	key, err := hubapi.ParseJobKey(arg)
	if err != nil {
		return nil, hubapi.JobKey{}, err
	}

	client, err := CreateClient()
	if err != nil {
		return nil, hubapi.JobKey{}, err
	}

	project, err := client.GetProject(key.Project)
	if err != nil {
		return nil, hubapi.JobKey{}, fmt.Errorf("failed to resolve project: %w", err)
	}

	return project, key, nil
}

func resolveJobs(args []string) (*hubapi.Project, []hubapi.JobKey, error) {
	keys := make([]hubapi.JobKey, 0, len(args))

	for _, arg := range args {
		key, err := hubapi.ParseJobKey(arg)
		if err != nil {
			return nil, nil, err
		}

		keys = append(keys, key)
	}

	client, err := CreateClient()
	if err != nil {
		return nil, nil, err
	}

	project, err := client.GetProject(keys[0].Project)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve project: %w", err)
	}

	return project, keys, nil
}
