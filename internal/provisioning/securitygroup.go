package provisioning

import (
	"fmt"

	"github.com/imamik/aistack/internal/health"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

// SecurityGroupPhase ensures the stack's security group and ingress rules.
// It also resolves the VPC topology later phases need.
type SecurityGroupPhase struct{}

// Name implements Phase.
func (p *SecurityGroupPhase) Name() string { return "securitygroup" }

// Provision creates the group in the default VPC and authorizes ingress for
// SSH and every stack service port. Rule authorization is idempotent: the
// platform layer tolerates duplicates.
func (p *SecurityGroupPhase) Provision(ctx *Context) error {
	vpcID, err := ctx.Cloud.DefaultVPC(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve default VPC: %w", err)
	}
	subnets, err := ctx.Cloud.SubnetIDs(ctx, vpcID)
	if err != nil {
		return fmt.Errorf("failed to list subnets of %s: %w", vpcID, err)
	}
	if len(subnets) == 0 {
		return fmt.Errorf("VPC %s has no subnets", vpcID)
	}
	ctx.State.VPCID = vpcID
	ctx.State.SubnetIDs = subnets

	name := ctx.securityGroupName()
	groupID := ""

	existing, err := ctx.Cloud.GetSecurityGroupByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up security group %q: %w", name, err)
	}
	if existing != nil {
		LogResourceExists(ctx.Observer, p.Name(), "security group", name, existing.ID)
		groupID = existing.ID
		ctx.State.Ledger.Record(Resource{Kind: KindSecurityGroup, ID: groupID, Name: name, Reused: true})
	} else {
		LogResourceCreating(ctx.Observer, p.Name(), "security group", name)
		groupID, err = ctx.Cloud.CreateSecurityGroup(ctx, name,
			fmt.Sprintf("aistack %s services", ctx.Config.Stack), vpcID, ctx.stackTags())
		if err != nil {
			return fmt.Errorf("failed to create security group %q: %w", name, err)
		}
		ctx.State.Ledger.Record(Resource{Kind: KindSecurityGroup, ID: groupID, Name: name})
		LogResourceCreated(ctx.Observer, p.Name(), "security group", name, groupID)
	}
	ctx.State.SecurityGroupID = groupID

	if err := ctx.Cloud.AuthorizeIngress(ctx, groupID, p.ingressRules(ctx)); err != nil {
		return fmt.Errorf("failed to authorize ingress on %s: %w", groupID, err)
	}
	return nil
}

// ingressRules builds the rule set: SSH, the stack service ports, and HTTP(S)
// when a load balancer fronts the stack.
func (p *SecurityGroupPhase) ingressRules(ctx *Context) []awsplatform.IngressRule {
	rules := []awsplatform.IngressRule{
		{Protocol: "tcp", FromPort: 22, ToPort: 22, CIDR: "0.0.0.0/0", Description: "SSH"},
	}
	for _, svc := range health.DefaultServices {
		rules = append(rules, awsplatform.IngressRule{
			Protocol:    "tcp",
			FromPort:    int32(svc.Port),
			ToPort:      int32(svc.Port),
			CIDR:        "0.0.0.0/0",
			Description: svc.Name,
		})
	}
	if ctx.Config.EnableALB {
		rules = append(rules,
			awsplatform.IngressRule{Protocol: "tcp", FromPort: 80, ToPort: 80, CIDR: "0.0.0.0/0", Description: "HTTP"},
			awsplatform.IngressRule{Protocol: "tcp", FromPort: 443, ToPort: 443, CIDR: "0.0.0.0/0", Description: "HTTPS"},
		)
	}
	return rules
}
