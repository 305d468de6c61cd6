package provisioning

import (
	"fmt"

	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

// listenerPort is the public port the load balancer accepts traffic on.
const listenerPort int32 = 80

// targetPort is the backend service the load balancer fronts (n8n).
const targetPort int32 = 5678

// LoadBalancerPhase ensures the ALB, target group, instance registration and
// listener. Only instantiated when the load balancer is enabled.
type LoadBalancerPhase struct{}

// Name implements Phase.
func (p *LoadBalancerPhase) Name() string { return "loadbalancer" }

// Provision converges every piece individually so a partially created load
// balancer setup completes on re-run. Registration and listener creation
// tolerate duplicates.
func (p *LoadBalancerPhase) Provision(ctx *Context) error {
	lbName := ctx.loadBalancerName()

	lb, err := ctx.Cloud.GetLoadBalancer(ctx, lbName)
	if err != nil {
		return fmt.Errorf("failed to look up load balancer %q: %w", lbName, err)
	}
	if lb != nil {
		LogResourceExists(ctx.Observer, p.Name(), "load balancer", lbName, lb.ARN)
		ctx.State.Ledger.Record(Resource{Kind: KindLoadBalancer, ID: lb.ARN, Name: lbName, Reused: true})
	} else {
		if len(ctx.State.SubnetIDs) < 2 {
			return fmt.Errorf("load balancer needs at least 2 subnets, VPC %s has %d",
				ctx.State.VPCID, len(ctx.State.SubnetIDs))
		}
		LogResourceCreating(ctx.Observer, p.Name(), "load balancer", lbName)
		lb, err = ctx.Cloud.CreateLoadBalancer(ctx, lbName,
			ctx.State.SubnetIDs, []string{ctx.State.SecurityGroupID}, ctx.stackTags())
		if err != nil {
			return fmt.Errorf("failed to create load balancer %q: %w", lbName, err)
		}
		ctx.State.Ledger.Record(Resource{Kind: KindLoadBalancer, ID: lb.ARN, Name: lbName})
		LogResourceCreated(ctx.Observer, p.Name(), "load balancer", lbName, lb.ARN)
	}
	ctx.State.LoadBalancerARN = lb.ARN
	ctx.State.LoadBalancerDNS = lb.DNSName

	tgName := ctx.targetGroupName()
	var tgARN string

	groups, err := ctx.Cloud.TargetGroupsByTag(ctx, awsplatform.TagStack, ctx.Config.Stack)
	if err != nil {
		return fmt.Errorf("failed to list target groups: %w", err)
	}
	if len(groups) > 0 {
		tgARN = groups[0].ARN
		LogResourceExists(ctx.Observer, p.Name(), "target group", tgName, tgARN)
		ctx.State.Ledger.Record(Resource{Kind: KindTargetGroup, ID: tgARN, Name: tgName, Reused: true})
	} else {
		LogResourceCreating(ctx.Observer, p.Name(), "target group", tgName)
		tg, err := ctx.Cloud.CreateTargetGroup(ctx, tgName, ctx.State.VPCID, targetPort, ctx.stackTags())
		if err != nil {
			return fmt.Errorf("failed to create target group %q: %w", tgName, err)
		}
		tgARN = tg.ARN
		ctx.State.Ledger.Record(Resource{Kind: KindTargetGroup, ID: tgARN, Name: tgName})
		LogResourceCreated(ctx.Observer, p.Name(), "target group", tgName, tgARN)
	}
	ctx.State.TargetGroupARN = tgARN

	if err := ctx.Cloud.RegisterInstance(ctx, tgARN, ctx.State.InstanceID); err != nil {
		return fmt.Errorf("failed to register instance %s: %w", ctx.State.InstanceID, err)
	}

	if err := ctx.Cloud.CreateListener(ctx, lb.ARN, tgARN, listenerPort); err != nil {
		if !awsplatform.IsConflict(err) {
			return fmt.Errorf("failed to create listener: %w", err)
		}
	}
	return nil
}
