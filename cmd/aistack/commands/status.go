package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/aistack/cmd/aistack/handlers"
)

// Status returns the command for inspecting a deployed stack.
func Status() *cobra.Command {
	var flags stackFlags
	var stackFile string
	var skipHealth bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stack's cloud resources and service health",
		Long: `Discover the stack's resources by tag and report their state.

When the instance has a public address, each service endpoint is probed once.
Use --skip-health to report resources only.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), handlers.StatusOptions{
				StackFile:  stackFile,
				Overrides:  flags.overrides(cmd),
				SkipHealth: skipHealth,
			})
		},
	}

	flags.registerCore(cmd)
	cmd.Flags().StringVarP(&stackFile, "file", "f", "", "Path to stack file (default: aistack.yaml)")
	cmd.Flags().BoolVar(&skipHealth, "skip-health", false, "Do not probe service endpoints")

	return cmd
}
