package cmd

import (
	"fmt"

	"github.com/detent/runview/internal/icons"
	"github.com/detent/runview/internal/output"
	"github.com/spf13/cobra"
)

const (
	modeAsset   = "asset"
	modeBuiltin = "builtin"
	modeBoth    = "both"
)

var (
	iconStatus     string
	iconConclusion string
	iconMode       string
	iconNoData     bool
)

var iconCmd = &cobra.Command{
	Use:   "icon",
	Short: "Resolve the indicator for a status and conclusion",
	Long: `Resolve the indicator shown for a run or job state.

In asset mode the result is a pair of light and dark image paths under the
resource root (--resources or RUNVIEW_RESOURCES). In builtin mode it is the
name of a built-in icon. Unrecognized states fall back to a neutral
indicator. Pass --no-data to resolve the state of a run that has not
reported anything yet.`,
	Example: `  runview icon --status completed --conclusion success
  runview icon --status in_progress --mode builtin
  runview icon --no-data --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		view, err := resolveIcon(iconMode, iconNoData, iconStatus, iconConclusion)
		if err != nil {
			return err
		}
		return render(cmd, view, func(p *output.Printer) { p.Icon(view) })
	},
}

// resolveIcon builds the view for one state in the requested mode.
func resolveIcon(mode string, noData bool, status, conclusion string) (output.RunView, error) {
	var state *icons.StatusAndConclusion
	if !noData {
		state = icons.RunState(status, conclusion)
	}

	var assets *icons.AssetResolver
	switch mode {
	case modeBuiltin:
	case modeAsset:
		if cfg.ResourcesDir == "" {
			return output.RunView{}, fmt.Errorf("asset mode needs a resource root: %w", icons.ErrNoRoots)
		}
		fallthrough
	case modeBoth:
		var err error
		if assets, err = optionalAssetResolver(); err != nil {
			return output.RunView{}, err
		}
	default:
		return output.RunView{}, fmt.Errorf("invalid mode %q: must be %q, %q, or %q", mode, modeAsset, modeBuiltin, modeBoth)
	}

	return stateView("", state, assets), nil
}

func init() {
	iconCmd.Flags().StringVar(&iconStatus, "status", "", "run status (queued, waiting, in_progress, completed)")
	iconCmd.Flags().StringVar(&iconConclusion, "conclusion", "", "run conclusion (success, failure, skipped, cancelled, ...)")
	iconCmd.Flags().StringVar(&iconMode, "mode", modeBoth, "rendering mode (asset, builtin, or both)")
	iconCmd.Flags().BoolVar(&iconNoData, "no-data", false, "resolve the state of a run with no data")
}
