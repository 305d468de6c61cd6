package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/aistack/internal/config"
	"github.com/imamik/aistack/internal/health"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

// probeStack checks each service endpoint once - can be replaced in tests.
var probeStack = func(ctx context.Context, host string) *health.Result {
	validator := health.NewValidator()
	validator.Attempts = 1
	return validator.Validate(ctx, health.Endpoints(host, health.DefaultServices))
}

// StatusOptions carries the status command's inputs.
type StatusOptions struct {
	StackFile  string
	Overrides  config.Overrides
	SkipHealth bool
}

// Status discovers the stack's resources by tag and reports their state.
// The cloud is the source of truth: there is no local state file to read.
// Region-scoped resources are looked up in the preferred region and every
// fallback region, since a deployment may have landed in a fallback after a
// capacity miss; global resources (IAM role, distribution) are looked up
// once.
func Status(ctx context.Context, opts StatusOptions) error {
	hint := regionHint(opts.Overrides)
	client, err := newCloudClient(ctx, hint)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(ctx, client, opts.StackFile, opts.Overrides)
	if err != nil {
		return err
	}

	fmt.Printf("Stack %q:\n\n", cfg.Stack)

	found := false
	publicIP := ""
	for _, region := range cfg.Regions() {
		regionClient := client
		if region != hint {
			if regionClient, err = newCloudClient(ctx, region); err != nil {
				return err
			}
		}

		f, ip, err := printRegionResources(ctx, regionClient, cfg.Stack, region)
		if err != nil {
			return err
		}
		found = found || f
		if publicIP == "" {
			publicIP = ip
		}
	}

	globalFound, err := printGlobalResources(ctx, client, cfg.Stack)
	if err != nil {
		return err
	}
	found = found || globalFound

	if !found {
		fmt.Printf("  No resources found. The stack is not deployed.\n")
		return nil
	}

	if opts.SkipHealth || publicIP == "" {
		return nil
	}

	fmt.Printf("\nService health (%s):\n", publicIP)
	printHealth(probeStack(ctx, publicIP))
	return nil
}

// printRegionResources lists the stack's region-scoped resources. The region
// header is only printed when something was found there. Returns whether
// anything was found and the public IP of a running instance, if any.
func printRegionResources(ctx context.Context, client awsplatform.CloudManager, stack, region string) (bool, string, error) {
	found := false
	publicIP := ""
	header := func() {
		if !found {
			fmt.Printf("  [%s]\n", region)
			found = true
		}
	}

	instances, err := client.InstancesByTag(ctx, awsplatform.TagStack, stack)
	if err != nil {
		return false, "", fmt.Errorf("failed to list instances in %s: %w", region, err)
	}
	for _, inst := range instances {
		header()
		fmt.Printf("  %-16s %-24s %s", "instance", inst.ID, inst.State)
		if inst.PublicIP != "" {
			fmt.Printf("  %s", inst.PublicIP)
		}
		fmt.Println()
		if inst.State == "running" && inst.PublicIP != "" {
			publicIP = inst.PublicIP
		}
	}

	requests, err := client.SpotRequestsByTag(ctx, awsplatform.TagStack, stack)
	if err != nil {
		return false, "", fmt.Errorf("failed to list spot requests in %s: %w", region, err)
	}
	for _, req := range requests {
		header()
		fmt.Printf("  %-16s %-24s %s\n", "spot-request", req.ID, req.State)
	}

	lbs, err := client.LoadBalancersByTag(ctx, awsplatform.TagStack, stack)
	if err != nil {
		return false, "", fmt.Errorf("failed to list load balancers in %s: %w", region, err)
	}
	for _, lb := range lbs {
		header()
		fmt.Printf("  %-16s %-24s %s  %s\n", "load-balancer", lb.Name, lb.State, lb.DNSName)
	}

	filesystems, err := client.FileSystemsByTag(ctx, awsplatform.TagStack, stack)
	if err != nil {
		return false, "", fmt.Errorf("failed to list filesystems in %s: %w", region, err)
	}
	for _, fs := range filesystems {
		header()
		fmt.Printf("  %-16s %-24s %s\n", "filesystem", fs.ID, fs.State)
	}

	groups, err := client.SecurityGroupsByTag(ctx, awsplatform.TagStack, stack)
	if err != nil {
		return false, "", fmt.Errorf("failed to list security groups in %s: %w", region, err)
	}
	for _, sg := range groups {
		header()
		fmt.Printf("  %-16s %-24s %s\n", "security-group", sg.Name, sg.ID)
	}

	keyPair, err := client.GetKeyPair(ctx, stack+"-key")
	if err != nil {
		return false, "", fmt.Errorf("failed to look up key pair in %s: %w", region, err)
	}
	if keyPair != nil {
		header()
		fmt.Printf("  %-16s %-24s %s\n", "key-pair", keyPair.Name, keyPair.ID)
	}

	return found, publicIP, nil
}

// printGlobalResources lists the stack's region-less resources: the
// CloudFront distribution and the IAM role.
func printGlobalResources(ctx context.Context, client awsplatform.CloudManager, stack string) (bool, error) {
	found := false

	dist, err := client.GetDistributionByStack(ctx, stack)
	if err != nil {
		return false, fmt.Errorf("failed to look up distribution: %w", err)
	}
	if dist != nil {
		found = true
		fmt.Printf("  %-16s %-24s %s  %s\n", "distribution", dist.ID, dist.Status, dist.DomainName)
	}

	role, err := client.GetRole(ctx, stack+"-role")
	if err != nil {
		return false, fmt.Errorf("failed to look up role: %w", err)
	}
	if role != nil {
		found = true
		fmt.Printf("  %-16s %-24s %s\n", "iam-role", role.Name, role.ARN)
	}

	return found, nil
}
