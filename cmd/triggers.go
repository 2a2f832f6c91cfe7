package cmd

import (
	"github.com/detent/runview/internal/output"
	"github.com/spf13/cobra"
)

var triggersCmd = &cobra.Command{
	Use:   "triggers [file...]",
	Short: "List the normalized trigger events of workflows",
	Long: `List the trigger events declared in each workflow's "on:" field.

The field may be a single event name, a list of names, or a mapping of
events to their filters. All three forms are normalized to the same list.
Without arguments every workflow in the workflows directory is read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := tagWorkflows(cmd.Context(), args, false)
		if err != nil {
			return err
		}
		return render(cmd, views, func(p *output.Printer) { p.Triggers(views) })
	},
}
