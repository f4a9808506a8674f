package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// NewSpidersCommand creates the spiders command group.
func NewSpidersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "spiders",
		Aliases: []string{"spider"},
		Short:   "Manage spiders",
		Long:    "List and inspect the spiders registered in the targeted project",
	}

	cmd.AddCommand(newSpidersListCommand())
	cmd.AddCommand(newSpidersGetCommand())
	cmd.AddCommand(newSpidersTagsCommand())

	return cmd
}

func newSpidersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List spiders",
		Long:  "List all spiders of the targeted project",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			spiders, err := project.Spiders.List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list spiders: %w", err)
			}

			return renderOutput(spiders, renderSpiderTable)
		},
	}
}

func renderSpiderTable(spiders []hubapi.Spider) error {
	if len(spiders) == 0 {
		_, _ = os.Stdout.WriteString("No spiders found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Type", "Tags")

	for _, spider := range spiders {
		_ = table.Append(strconv.Itoa(spider.ID), spider.Name, spider.Type,
			strings.Join(spider.Tags, ", "))
	}

	_ = table.Render()

	return nil
}

func newSpidersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SPIDER",
		Short: "Show spider details",
		Long:  "Display details of a single spider, resolved by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			spider, err := project.Spiders.Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch spider: %w", err)
			}

			return renderOutput(spider, renderSpiderDetailsTable)
		},
	}
}

func renderSpiderDetailsTable(spider *hubapi.Spider) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", strconv.Itoa(spider.ID))
	_ = table.Append("Name", spider.Name)
	_ = table.Append("Type", spider.Type)
	_ = table.Append("Tags", strings.Join(spider.Tags, ", "))

	_ = table.Render()

	return nil
}

func newSpidersTagsCommand() *cobra.Command {
	var (
		add    []string
		remove []string
	)

	cmd := &cobra.Command{
		Use:   "tags SPIDER",
		Short: "Update spider tags",
		Long:  "Add and remove tags on a spider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			err = project.Spiders.UpdateTags(context.Background(), args[0], add, remove)
			if err != nil {
				return fmt.Errorf("failed to update spider tags: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated tags on spider '%s'\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&add, "add", nil, "tag to add")
	cmd.Flags().StringArrayVar(&remove, "remove", nil, "tag to remove")

	return cmd
}
