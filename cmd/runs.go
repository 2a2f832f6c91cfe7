package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/detent/runview/internal/icons"
	"github.com/detent/runview/internal/output"
	"github.com/detent/runview/internal/source"
	"github.com/spf13/cobra"
)

// runInput is one run or job as reported by the host. Null status and
// conclusion are preserved as nil.
type runInput struct {
	Name       string     `json:"name"`
	Status     *string    `json:"status"`
	Conclusion *string    `json:"conclusion"`
	Jobs       []runInput `json:"jobs,omitempty"`
}

type runsEnvelope struct {
	WorkflowRuns []runInput `json:"workflow_runs"`
}

var runsCmd = &cobra.Command{
	Use:   "runs [file|-]",
	Short: "Render workflow runs and jobs with status indicators",
	Long: `Read workflow runs as JSON and render each run and its jobs with the
indicator for its status and conclusion.

Input is either an array of runs or an object with a "workflow_runs" array,
as returned by the GitHub API. Each run has "name", "status", "conclusion",
and optionally "jobs". Reads stdin when no file is given or the file is "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readRunsInput(cmd, args)
		if err != nil {
			return err
		}
		runs, err := parseRuns(data)
		if err != nil {
			return err
		}

		assets, err := optionalAssetResolver()
		if err != nil {
			return err
		}

		views := make([]output.RunView, 0, len(runs))
		for _, run := range runs {
			views = append(views, runView(run, assets))
		}
		return render(cmd, views, func(p *output.Printer) { p.Runs(views) })
	},
}

func readRunsInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), source.MaxTextBytes+1))
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if len(data) > source.MaxTextBytes {
			return nil, source.ErrContentTooLarge
		}
		return data, nil
	}
	text, err := source.NewFileSource("").ReadText(cmd.Context(), args[0])
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// parseRuns accepts a bare array of runs or a {"workflow_runs": [...]} object.
func parseRuns(data []byte) ([]runInput, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("no runs provided")
	}

	if trimmed[0] == '[' {
		var runs []runInput
		if err := json.Unmarshal(trimmed, &runs); err != nil {
			return nil, fmt.Errorf("parsing runs: %w", err)
		}
		return runs, nil
	}

	var env runsEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("parsing runs: %w", err)
	}
	if env.WorkflowRuns == nil {
		return nil, errors.New(`parsing runs: expected an array or an object with "workflow_runs"`)
	}
	return env.WorkflowRuns, nil
}

// optionalAssetResolver returns a resolver when a resource root is
// configured, or nil when assets should be omitted.
func optionalAssetResolver() (*icons.AssetResolver, error) {
	if cfg.ResourcesDir == "" {
		return nil, nil
	}
	if _, err := os.Stat(cfg.ResourcesDir); err != nil {
		logger.Warn("resource root not found", "path", cfg.ResourcesDir, "error", err)
	}
	return icons.NewAssetResolver(icons.ExtensionRoots(cfg.ResourcesDir))
}

func runView(run runInput, assets *icons.AssetResolver) output.RunView {
	v := stateView(run.Name, &icons.StatusAndConclusion{Status: run.Status, Conclusion: run.Conclusion}, assets)
	for _, job := range run.Jobs {
		v.Jobs = append(v.Jobs, runView(job, assets))
	}
	return v
}

// stateView resolves both renderings for one state. A nil assets resolver
// leaves the asset icon out.
func stateView(name string, state *icons.StatusAndConclusion, assets *icons.AssetResolver) output.RunView {
	v := output.RunView{
		Name:    name,
		Outcome: icons.Classify(state).String(),
		Builtin: icons.BuiltinName(state),
	}
	if state != nil {
		v.Status = deref(state.Status)
		v.Conclusion = deref(state.Conclusion)
	}
	if assets != nil {
		iv := output.NewIconView(assets.Icon(state))
		v.Icon = &iv
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
