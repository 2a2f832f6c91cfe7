package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/detent/runview/internal/config"
	"github.com/detent/runview/internal/sentry"
	"github.com/detent/runview/internal/signal"
	"github.com/spf13/cobra"
)

var (
	// Global flags shared across commands
	workflowsDir string
	workflowFile string
	formatFlag   string
	resourcesDir string
	verbose      bool
	noCache      bool
)

// cfg holds the loaded and merged configuration, available to all commands.
// Initialized in PersistentPreRunE.
var cfg *config.Config

// logger writes diagnostics to stderr. Debug level only with --verbose.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   "runview",
	Short: "Inspect GitHub Actions workflows and run states",
	Long: `Runview reads GitHub Actions workflow files and reports how they can be
triggered. It normalizes the "on:" field into a list of trigger events, derives
a context tag describing whether a workflow accepts repository_dispatch or
workflow_dispatch, and maps run and job states to status indicators.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		sentry.SetTag("command", cmd.Name())

		// Skip for config subcommands so a broken config can still be reset
		for c := cmd; c != nil; c = c.Parent() {
			if c == configCmd {
				return nil
			}
		}

		loaded, err := config.Load()
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "! Config error: %s\n", err)
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "  Run: runview config reset")
			loaded = config.Defaults()
		}
		cfg = applyFlags(cmd, loaded)
		return validateFormat(cfg.Output)
	},
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, c *config.Config) *config.Config {
	flags := cmd.Flags()
	if flags.Changed("workflows") {
		c.WorkflowsDir = workflowsDir
	}
	if flags.Changed("format") {
		c.Output = formatFlag
	}
	if flags.Changed("resources") {
		c.ResourcesDir = resourcesDir
	}
	if noCache {
		c.Cache = false
	}
	return c
}

func validateFormat(format string) error {
	if format != config.OutputText && format != config.OutputJSON {
		return fmt.Errorf("invalid format %q: must be %q or %q", format, config.OutputText, config.OutputJSON)
	}
	return nil
}

// Execute runs the root command with signal handling
func Execute() error {
	ctx, stop := signal.SetupSignalHandler(context.Background())
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && ctx.Err() != nil {
		signal.PrintCancellationMessage("runview")
	}
	return err
}

func init() {
	rootCmd.AddCommand(triggersCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(iconCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&workflowsDir, "workflows", "w", config.DefaultWorkflowsDir, "workflows directory path")
	rootCmd.PersistentFlags().StringVar(&workflowFile, "workflow", "", "specific workflow file (e.g., ci.yml)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", config.DefaultOutput, "output format (text or json)")
	rootCmd.PersistentFlags().StringVar(&resourcesDir, "resources", "", "extension root containing resources/icons")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "skip the tag cache")
}
