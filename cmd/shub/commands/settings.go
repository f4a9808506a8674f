package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"setting"},
		Short:   "Manage project settings",
		Long:    "List, read, write, and delete the settings of the targeted project",
	}

	cmd.AddCommand(newSettingsListCommand())
	cmd.AddCommand(newSettingsGetCommand())
	cmd.AddCommand(newSettingsSetCommand())
	cmd.AddCommand(newSettingsDelCommand())

	return cmd
}

func newSettingsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List settings",
		Long:  "List all settings of the targeted project",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			settings, err := project.Settings.Snapshot(context.Background())
			if err != nil {
				return fmt.Errorf("failed to fetch settings: %w", err)
			}

			return renderOutput(settings, renderSettingsTable)
		},
	}
}

func renderSettingsTable(settings hubapi.SettingsMap) error {
	if len(settings) == 0 {
		_, _ = os.Stdout.WriteString("No settings found\n")

		return nil
	}

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Value")

	for _, key := range keys {
		_ = table.Append(key, fmt.Sprintf("%v", settings[key]))
	}

	_ = table.Render()

	return nil
}

func newSettingsGetCommand() *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Read one setting",
		Long:  "Print the value of a single project setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			var value any
			if live {
				value, err = project.Settings.LiveGet(context.Background(), args[0])
			} else {
				value, err = project.Settings.Get(context.Background(), args[0])
			}

			if err != nil {
				return fmt.Errorf("failed to fetch setting: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "%v\n", value)

			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "bypass the settings cache")

	return cmd
}

func newSettingsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Write settings",
		Long:  "Write one or more project settings and save them to the platform",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			for _, arg := range args {
				key, value, err := parseSetting(arg)
				if err != nil {
					return err
				}

				project.Settings.Set(key, value)
			}

			err = project.Settings.Save(context.Background())
			if err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Saved %d setting(s)\n", len(args))

			return nil
		},
	}
}

func newSettingsDelCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "del KEY",
		Aliases: []string{"delete"},
		Short:   "Delete a setting",
		Long:    "Remove a single setting from the targeted project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := CurrentProject()
			if err != nil {
				return err
			}

			err = project.Settings.Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete setting: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted setting '%s'\n", args[0])

			return nil
		},
	}
}
