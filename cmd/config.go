package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/detent/runview/internal/config"
	"github.com/detent/runview/internal/output"
	"github.com/spf13/cobra"
)

type configEntry struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Source string `json:"source"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage runview configuration",
	Long: `View and manage the global configuration stored in ~/.runview/runview.json.

Values are resolved in order: environment variable, global config, default.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration values and where they come from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolved, err := config.LoadWithSources()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		entries := []configEntry{
			{Key: "resources_dir", Value: resolved.ResourcesDir.Value, Source: resolved.ResourcesDir.Source.String()},
			{Key: "workflows_dir", Value: resolved.WorkflowsDir.Value, Source: resolved.WorkflowsDir.Source.String()},
			{Key: "workflow_pattern", Value: resolved.WorkflowPattern.Value, Source: resolved.WorkflowPattern.Source.String()},
			{Key: "output", Value: resolved.Output.Value, Source: resolved.Output.Source.String()},
			{Key: "cache", Value: resolved.Cache.Value, Source: resolved.Cache.Source.String()},
		}

		if formatFlag == config.OutputJSON {
			return output.FormatJSON(cmd.OutOrStdout(), entries)
		}
		for _, e := range entries {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-17s %-22v (%s)\n", e.Key, e.Value, e.Source)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the global config to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Reset(); err != nil {
			return fmt.Errorf("resetting config: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Config reset to defaults")
		return nil
	},
}

var configSetResourcesCmd = &cobra.Command{
	Use:   "set-resources <dir>",
	Short: "Store the extension root used for icon assets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := loaded.SetResourcesDir(dir); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Resource root set to %s\n", dir)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configSetResourcesCmd)
}
