package cmd

import (
	"github.com/detent/runview/internal/output"
	"github.com/detent/runview/internal/workflow"
	"github.com/spf13/cobra"
)

type tagEntry struct {
	Path string       `json:"path"`
	Tag  workflow.Tag `json:"tag"`
}

var contextCmd = &cobra.Command{
	Use:   "context [file...]",
	Short: "Print the context tag for workflows",
	Long: `Print the context tag for each workflow. The tag contains "rdispatch"
when the workflow accepts repository_dispatch and "wdispatch" when it accepts
workflow_dispatch. Unreadable or invalid workflows get an empty tag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := tagWorkflows(cmd.Context(), args, false)
		if err != nil {
			return err
		}
		entries := make([]tagEntry, 0, len(views))
		for _, v := range views {
			entries = append(entries, tagEntry{Path: v.Path, Tag: v.Tag})
		}
		return render(cmd, entries, func(p *output.Printer) { p.Tags(views) })
	},
}
