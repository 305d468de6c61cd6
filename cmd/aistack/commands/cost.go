package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/aistack/cmd/aistack/handlers"
)

// Cost returns the command for stack cost estimation.
func Cost() *cobra.Command {
	var flags stackFlags
	var stackFile string
	var jsonOutput bool
	var compact bool
	var offline bool

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Estimate the stack's monthly running cost",
		Long: `Estimate the monthly cost of the configured stack.

By default the estimate uses live spot prices from the configured regions and
the same selection logic as deploy, so the projected instance matches what a
deployment would actually launch. With --offline the estimate uses static
on-demand list prices and makes no cloud calls.

CDN request and transfer charges depend on traffic and are not included.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Cost(cmd.Context(), handlers.CostOptions{
				StackFile: stackFile,
				Overrides: flags.overrides(cmd),
				JSON:      jsonOutput,
				Compact:   compact,
				Offline:   offline,
			})
		},
	}

	flags.registerAll(cmd)
	cmd.Flags().StringVarP(&stackFile, "file", "f", "", "Path to stack file (default: aistack.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&compact, "compact", false, "Single-line summary")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use static list prices, no cloud calls")

	return cmd
}
