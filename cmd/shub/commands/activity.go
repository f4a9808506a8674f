package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spiderhub-io/hubapi/internal/constants"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// NewActivityCommand creates the activity command group.
func NewActivityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Project activity",
		Long:  "Read and post activity events of the targeted project",
	}

	cmd.AddCommand(newActivityListCommand())
	cmd.AddCommand(newActivityAddCommand())

	return cmd
}

func newActivityListCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activity events",
		Long:  "List recent activity events of the targeted project, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			params := hubapi.NewQueryParams().WithCount(count)

			events, err := project.Activity.List(context.Background(), params)
			if err != nil {
				return fmt.Errorf("failed to list activity: %w", err)
			}

			return renderOutput(events, renderActivityTable)
		},
	}

	cmd.Flags().IntVar(&count, "count", constants.DefaultActivityCount, "maximum number of events")

	return cmd
}

func renderActivityTable(events []hubapi.ActivityEvent) error {
	if len(events) == 0 {
		_, _ = os.Stdout.WriteString("No activity found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Time", "Event", "User", "Job")

	for _, event := range events {
		_ = table.Append(formatMillis(event.Timestamp), event.Event, event.User, event.Job)
	}

	_ = table.Render()

	return nil
}

func newActivityAddCommand() *cobra.Command {
	var (
		user   string
		spider string
		job    string
	)

	cmd := &cobra.Command{
		Use:   "add EVENT",
		Short: "Post an activity event",
		Long:  "Post a single activity event to the targeted project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return constants.ErrEventTextRequired
			}

			project, err := CurrentProject()
			if err != nil {
				return err
			}

			event := hubapi.ActivityEvent{
				Event:  args[0],
				User:   user,
				Spider: spider,
				Job:    job,
			}

			err = project.Activity.Add(context.Background(), event)
			if err != nil {
				return fmt.Errorf("failed to post activity: %w", err)
			}

			_, _ = os.Stdout.WriteString("Posted activity event\n")

			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user the event is attributed to")
	cmd.Flags().StringVar(&spider, "spider", "", "spider the event relates to")
	cmd.Flags().StringVar(&job, "job", "", "job key the event relates to")

	return cmd
}
