package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects",
		Long:    "List the projects the API key can access and show their job summaries",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsSummaryCommand())

	return cmd
}

func newProjectsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  "List the ids of all projects visible to the configured API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ids, err := client.Projects().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			return renderOutput(ids, renderProjectIDTable)
		},
	}
}

func renderProjectIDTable(ids []int) error {
	if len(ids) == 0 {
		_, _ = os.Stdout.WriteString("No projects found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Project")

	for _, id := range ids {
		_ = table.Append(strconv.Itoa(id))
	}

	_ = table.Render()

	return nil
}

func newProjectsSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show per-project job counts",
		Long:  "Show pending, running, and finished job counts for each project",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			summaries, err := client.Projects().Summary(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to fetch project summaries: %w", err)
			}

			return renderOutput(summaries, renderProjectSummaryTable)
		},
	}
}

func renderProjectSummaryTable(summaries []hubapi.JobSummary) error {
	if len(summaries) == 0 {
		_, _ = os.Stdout.WriteString("No projects found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Project", "Pending", "Running", "Finished", "Capacity")

	for _, summary := range summaries {
		capacity := "full"
		if summary.HasCapacity {
			capacity = "available"
		}

		_ = table.Append(strconv.Itoa(summary.Project),
			strconv.Itoa(summary.Pending),
			strconv.Itoa(summary.Running),
			strconv.Itoa(summary.Finished),
			capacity)
	}

	_ = table.Render()

	return nil
}
