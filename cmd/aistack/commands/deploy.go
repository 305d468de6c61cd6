package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/aistack/cmd/aistack/handlers"
)

// Deploy returns the command for provisioning the stack.
//
// This command handles the complete deployment lifecycle: resolving
// configuration, selecting the best-value instance across regions,
// provisioning all infrastructure and validating service health.
//
// Optional flags:
//
//	--file, -f: Path to the stack configuration YAML file (default: aistack.yaml)
//	--validate-only: Resolve and validate configuration, then stop
//
// AWS credentials come from the standard SDK chain (environment, shared
// config, instance role).
func Deploy() *cobra.Command {
	var flags stackFlags
	var stackFile string
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create or update the stack",
		Long: `Create or update the AI service stack on AWS.

Selection probes spot prices and launch capacity in every configured region
and picks the instance with the best price-performance ratio under your
budget. Provisioning is idempotent: resources that already exist are adopted,
so re-running after a failure resumes where it stopped.

Examples:
  # Deploy using aistack.yaml in the current directory
  aistack deploy

  # Deploy a named stack with a tighter budget
  aistack deploy --stack prod --budget 0.40

  # On-demand with a load balancer in front
  aistack deploy --mode on-demand --enable-alb

  # Check the resolved configuration without touching the cloud
  aistack deploy --validate-only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), handlers.DeployOptions{
				StackFile:    stackFile,
				Overrides:    flags.overrides(cmd),
				ValidateOnly: validateOnly,
			})
		},
	}

	flags.registerAll(cmd)
	cmd.Flags().StringVarP(&stackFile, "file", "f", "", "Path to stack file (default: aistack.yaml)")
	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "Resolve and validate configuration, then stop")

	return cmd
}
