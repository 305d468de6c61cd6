// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/imamik/aistack/internal/config"
	"github.com/imamik/aistack/internal/health"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
	"github.com/imamik/aistack/internal/pricing"
	"github.com/imamik/aistack/internal/provisioning"
	"github.com/imamik/aistack/internal/selector"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newCloudClient creates a cloud client bound to a region.
	newCloudClient = func(ctx context.Context, region string) (awsplatform.CloudManager, error) {
		return awsplatform.NewRealClient(ctx, region)
	}

	// resolveConfig assembles the deployment configuration from all layers.
	resolveConfig = func(ctx context.Context, params awsplatform.ParameterStore, stackFile string, overrides config.Overrides) (*config.DeploymentConfig, error) {
		return config.NewResolver(params).Resolve(ctx, stackFile, overrides)
	}

	// newCatalog creates the price and capacity catalog.
	newCatalog = func(api awsplatform.CapacityAPI) pricing.Catalog {
		return pricing.NewAWSCatalog(api)
	}

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// runPhases executes the provisioning pipeline.
	runPhases = provisioning.RunPhases

	// validateStack probes the service endpoints until they respond.
	validateStack = func(ctx context.Context, host string) *health.Result {
		return health.NewValidator().Validate(ctx, health.Endpoints(host, health.DefaultServices))
	}

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile
)

// DeployOptions carries the deploy command's inputs.
type DeployOptions struct {
	StackFile    string
	Overrides    config.Overrides
	ValidateOnly bool
}

// Deploy provisions the AI service stack on AWS.
//
// This function orchestrates the complete deployment workflow:
//  1. Resolves configuration from flags, environment, stack file, parameter
//     store and defaults
//  2. Probes spot prices and launch capacity across all configured regions
//  3. Selects the instance with the best price-performance ratio under budget
//  4. Runs the provisioning pipeline, adopting resources that already exist
//  5. Saves the SSH private key if the key pair was created this run
//  6. Validates that every required service endpoint responds
//
// Selection may move the deployment to a fallback region; the effective
// region is logged before any resource is touched.
func Deploy(ctx context.Context, opts DeployOptions) error {
	client, err := newCloudClient(ctx, regionHint(opts.Overrides))
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(ctx, client, opts.StackFile, opts.Overrides)
	if err != nil {
		return err
	}

	if opts.ValidateOnly {
		printResolved(cfg)
		return nil
	}

	winner, err := selectInstance(ctx, client, cfg)
	if err != nil {
		return err
	}

	if winner.Region != cfg.Region {
		log.Printf("Deploying to fallback region %s (preferred region %s had no eligible capacity)",
			winner.Region, cfg.Region)
		// The resolved configuration stays immutable; the run continues on a
		// copy bound to the effective region.
		regional := *cfg
		regional.Region = winner.Region
		cfg = &regional
		if client, err = newCloudClient(ctx, winner.Region); err != nil {
			return err
		}
	}

	pctx := newProvisioningContext(ctx, cfg, client)
	pctx.State.InstanceType = winner.InstanceType
	pctx.State.Zone = winner.Zone
	pctx.State.HourlyPrice = winner.HourlyPrice
	pctx.State.Architecture = string(winner.Architecture)
	pctx.State.Spot = winner.Spot

	if err := runPhases(pctx, provisioning.Phases(cfg)); err != nil {
		printPartialFailure(err)
		return err
	}

	if err := savePrivateKey(cfg, pctx.State); err != nil {
		return err
	}

	log.Printf("Validating service health at %s...", pctx.State.PublicIP)
	result := validateStack(ctx, pctx.State.PublicIP)
	printHealth(result)
	if !result.Healthy() {
		return fmt.Errorf("services failed health validation: %s", strings.Join(result.Failed(), ", "))
	}

	printDeploySuccess(cfg, pctx.State)
	return nil
}

// selectInstance probes all candidate regions and picks the launch target.
func selectInstance(ctx context.Context, client awsplatform.CloudManager, cfg *config.DeploymentConfig) (selector.Candidate, error) {
	log.Printf("Selecting instance for stack %q (budget $%.2f/h, %d regions)...",
		cfg.Stack, cfg.Budget, len(cfg.Regions()))

	candidates, err := newCatalog(client).Candidates(ctx, cfg.Regions(), cfg.Spot())
	if err != nil {
		return selector.Candidate{}, err
	}

	winner, err := selector.Select(candidates, cfg.Budget, workloadProfile(cfg), selector.Options{
		PreferredRegion: cfg.Region,
	})
	if err != nil {
		return selector.Candidate{}, err
	}

	log.Printf("Selected %s in %s at $%.4f/h (score %.1f)",
		winner.InstanceType, winner.Region, winner.HourlyPrice, winner.Score)
	return winner, nil
}

// workloadProfile converts the configuration's instance requirements into a
// selection profile.
func workloadProfile(cfg *config.DeploymentConfig) selector.Profile {
	archs := make([]selector.Architecture, 0, len(cfg.Architectures))
	for _, a := range cfg.Architectures {
		archs = append(archs, selector.Architecture(a))
	}
	return selector.Profile{
		Name:            cfg.Stack,
		Architectures:   archs,
		MinGPUMemoryGiB: cfg.MinGPUMemoryGiB,
	}
}

// regionHint picks the region for the bootstrap client, before the full
// configuration is resolved. The effective region may still change.
func regionHint(o config.Overrides) string {
	if o.Region != nil {
		return *o.Region
	}
	if v := os.Getenv("AISTACK_REGION"); v != "" {
		return v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		return v
	}
	return config.DefaultConfig().Region
}

// savePrivateKey persists the generated SSH key next to the stack file. Only
// written when the key pair was created this run; an adopted key pair's
// private half was saved by the run that created it.
func savePrivateKey(cfg *config.DeploymentConfig, state *provisioning.State) error {
	if len(state.PrivateKeyPEM) == 0 {
		return nil
	}

	path := cfg.Stack + "-key.pem"
	if err := writeFile(path, state.PrivateKeyPEM, 0600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	log.Printf("SSH private key saved to %s", path)
	return nil
}

// printResolved outputs the effective configuration for --validate-only.
func printResolved(cfg *config.DeploymentConfig) {
	fmt.Printf("Configuration is valid.\n\n")
	fmt.Printf("  Stack:            %s\n", cfg.Stack)
	fmt.Printf("  Region:           %s\n", cfg.Region)
	if len(cfg.FallbackRegions) > 0 {
		fmt.Printf("  Fallback regions: %s\n", strings.Join(cfg.FallbackRegions, ", "))
	}
	fmt.Printf("  Mode:             %s\n", cfg.Mode)
	fmt.Printf("  Budget:           $%.2f/h\n", cfg.Budget)
	fmt.Printf("  Load balancer:    %t\n", cfg.EnableALB)
	fmt.Printf("  CDN:              %t\n", cfg.EnableCDN)
	fmt.Printf("  Shared storage:   %t\n", cfg.EnableSharedFS)
}

// printPartialFailure shows what was provisioned before a pipeline failure
// and how to proceed.
func printPartialFailure(err error) {
	var partial *provisioning.PartialFailureError
	if !errors.As(err, &partial) {
		return
	}

	resources := partial.Ledger.Resources()
	fmt.Printf("\nDeployment failed during the %s phase.\n", partial.Phase)
	if len(resources) > 0 {
		fmt.Printf("\nResources in place before the failure:\n")
		for _, r := range resources {
			state := "created"
			if r.Reused {
				state = "adopted"
			}
			fmt.Printf("  %-16s %-24s %s (%s)\n", r.Kind, r.Name, r.ID, state)
		}
	}
	fmt.Printf("\nRe-run 'aistack deploy' to resume, or 'aistack teardown' to remove everything.\n")
}

func printHealth(result *health.Result) {
	for _, s := range result.Services {
		status := "healthy"
		if !s.Healthy {
			status = "unreachable"
			if s.Optional {
				status = "unreachable (optional)"
			}
		}
		fmt.Printf("  %-10s %-12s %s\n", s.Name, status, s.URL)
	}
}

// printDeploySuccess outputs completion message and access details.
func printDeploySuccess(cfg *config.DeploymentConfig, state *provisioning.State) {
	fmt.Printf("\nDeployment complete!\n\n")
	fmt.Printf("  Instance: %s (%s, %s)\n", state.InstanceID, state.InstanceType, cfg.Region)
	fmt.Printf("  Address:  %s\n", state.PublicIP)
	if state.LoadBalancerDNS != "" {
		fmt.Printf("  ALB:      %s\n", state.LoadBalancerDNS)
	}
	if state.DistributionDomain != "" {
		fmt.Printf("  CDN:      %s\n", state.DistributionDomain)
	}

	fmt.Printf("\nService endpoints:\n")
	for _, s := range health.DefaultServices {
		fmt.Printf("  %-10s http://%s:%d\n", s.Name, state.PublicIP, s.Port)
	}

	estimate := pricing.NewCalculator().Calculate(cfg, state.InstanceType, state.HourlyPrice)
	fmt.Printf("\nEstimated cost: %s\n", pricing.NewFormatter().FormatCompact(estimate))

	fmt.Printf("\nSSH access:\n")
	fmt.Printf("  ssh -i %s-key.pem ubuntu@%s\n", cfg.Stack, state.PublicIP)
}
