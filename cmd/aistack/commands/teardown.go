package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/aistack/cmd/aistack/handlers"
)

// Teardown returns the command for destroying a stack.
func Teardown() *cobra.Command {
	var flags stackFlags
	var stackFile string

	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Destroy the stack and all its resources",
		Long: `Destroy every cloud resource belonging to the stack.

Resources are discovered by tag and deleted in dependency order. A resource
that is already gone counts as success, so an interrupted teardown can simply
be re-run. If a deletion is blocked (for example by a resource some other
system still references), teardown stops and names the blocking resource.

Examples:
  aistack teardown
  aistack teardown --stack prod`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Teardown(cmd.Context(), handlers.TeardownOptions{
				StackFile: stackFile,
				Overrides: flags.overrides(cmd),
			})
		},
	}

	flags.registerCore(cmd)
	cmd.Flags().StringVarP(&stackFile, "file", "f", "", "Path to stack file (default: aistack.yaml)")

	return cmd
}
