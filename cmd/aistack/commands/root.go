// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the aistack CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aistack",
		Short: "Deploy the AI service stack on AWS",
	}

	cmd.AddCommand(Deploy())
	cmd.AddCommand(Teardown())
	cmd.AddCommand(Status())
	cmd.AddCommand(Cost())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
