package provisioning

import "fmt"

// CDNPhase ensures the CloudFront distribution fronting the load balancer.
// Only instantiated when the CDN is enabled.
type CDNPhase struct{}

// Name implements Phase.
func (p *CDNPhase) Name() string { return "cdn" }

// Provision creates the distribution with the load balancer as origin. The
// distribution deploys asynchronously; the phase does not wait for global
// rollout, only records the domain.
func (p *CDNPhase) Provision(ctx *Context) error {
	stack := ctx.Config.Stack

	existing, err := ctx.Cloud.GetDistributionByStack(ctx, stack)
	if err != nil {
		return fmt.Errorf("failed to look up distribution for %q: %w", stack, err)
	}
	if existing != nil {
		LogResourceExists(ctx.Observer, p.Name(), "distribution", stack, existing.ID)
		ctx.State.DistributionID = existing.ID
		ctx.State.DistributionDomain = existing.DomainName
		ctx.State.Ledger.Record(Resource{Kind: KindDistribution, ID: existing.ID, Name: stack, Reused: true})
		return nil
	}

	if ctx.State.LoadBalancerDNS == "" {
		return fmt.Errorf("no load balancer DNS name to use as distribution origin")
	}

	LogResourceCreating(ctx.Observer, p.Name(), "distribution", stack)
	dist, err := ctx.Cloud.CreateDistribution(ctx, stack, ctx.State.LoadBalancerDNS)
	if err != nil {
		return fmt.Errorf("failed to create distribution: %w", err)
	}

	ctx.State.DistributionID = dist.ID
	ctx.State.DistributionDomain = dist.DomainName
	ctx.State.Ledger.Record(Resource{Kind: KindDistribution, ID: dist.ID, Name: stack})
	LogResourceCreated(ctx.Observer, p.Name(), "distribution", stack, dist.ID)
	return nil
}
