package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/detent/runview/internal/cache"
	"github.com/detent/runview/internal/config"
	"github.com/detent/runview/internal/output"
	"github.com/detent/runview/internal/sentry"
	"github.com/detent/runview/internal/source"
	"github.com/detent/runview/internal/workflow"
	"github.com/spf13/cobra"
)

// cacheMaxAge is how long an unused cache entry survives.
const cacheMaxAge = 30 * 24 * time.Hour

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Discover workflows and show how each can be triggered",
	Long: `Discover workflow files in the workflows directory and show each
workflow's name, normalized triggers, context tag, and whether it accepts
workflow_dispatch or repository_dispatch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		views, err := tagWorkflows(cmd.Context(), nil, true)
		if err != nil {
			return err
		}
		return render(cmd, views, func(p *output.Printer) {
			p.Banner(Version, cmd.Name())
			p.Workflows(views)
		})
	},
}

// resolveWorkflowPaths returns explicit arguments as-is, the --workflow file
// inside the workflows directory, or every discovered workflow.
func resolveWorkflowPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if workflowFile != "" {
		if filepath.Base(workflowFile) != workflowFile {
			return nil, fmt.Errorf("workflow must be a file name, not a path: %s", workflowFile)
		}
		return []string{filepath.Join(cfg.WorkflowsDir, workflowFile)}, nil
	}
	return workflow.DiscoverWorkflows(cfg.WorkflowsDir, cfg.WorkflowPattern)
}

// newTagger builds a file-backed tagger, attaching the tag cache when enabled.
// A cache that cannot be opened is logged and skipped.
func newTagger(ctx context.Context) (*workflow.Tagger, func()) {
	opts := []workflow.TaggerOption{workflow.WithLogger(logger)}
	closeFn := func() {}

	if cfg.Cache {
		store, err := openCache()
		if err != nil {
			logger.Warn("tag cache unavailable", "error", err)
		} else {
			if n, err := store.Prune(ctx, cacheMaxAge); err != nil {
				logger.Debug("tag cache prune failed", "error", err)
			} else if n > 0 {
				logger.Debug("tag cache pruned", "entries", n)
			}
			opts = append(opts, workflow.WithCache(store))
			closeFn = func() { _ = store.Close() }
		}
	}
	return workflow.NewTagger(source.NewFileSource(""), opts...), closeFn
}

func openCache() (*cache.TagStore, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return cache.Open(filepath.Join(dir, cache.FileName))
}

// tagWorkflows resolves tags for the selected workflows. With names set, each
// workflow's display name is read as well.
func tagWorkflows(ctx context.Context, args []string, names bool) ([]output.WorkflowView, error) {
	paths, err := resolveWorkflowPaths(args)
	if err != nil {
		return nil, err
	}

	tagger, closeCache := newTagger(ctx)
	defer closeCache()

	results := tagger.TagAll(ctx, paths)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := source.NewFileSource("")
	views := make([]output.WorkflowView, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			sentry.AddBreadcrumb("workflow", "unreadable workflow: "+res.Err.Error())
		}
		name := ""
		if names && res.Err == nil {
			name = workflowName(ctx, src, res.Path)
		}
		views = append(views, output.NewWorkflowView(res, name))
	}
	return views, nil
}

func workflowName(ctx context.Context, src source.TextSource, path string) string {
	text, err := src.ReadText(ctx, path)
	if err != nil {
		return ""
	}
	doc, err := workflow.Inspect([]byte(text))
	if err != nil {
		return ""
	}
	return doc.Name
}

// render writes v as JSON when --format json is active, otherwise calls text
// with a printer bound to the command's output.
func render(cmd *cobra.Command, v any, text func(p *output.Printer)) error {
	if cfg.Output == config.OutputJSON {
		return output.FormatJSON(cmd.OutOrStdout(), v)
	}
	text(output.NewPrinter(cmd.OutOrStdout()))
	return nil
}
