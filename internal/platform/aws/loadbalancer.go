package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// GetLoadBalancer returns the load balancer by name, or nil if absent.
func (c *RealClient) GetLoadBalancer(ctx context.Context, name string) (*LoadBalancerInfo, error) {
	out, err := c.elbClient.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{
		Names: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe load balancer %q: %w", name, err)
	}
	if len(out.LoadBalancers) == 0 {
		return nil, nil
	}

	return loadBalancerInfo(&out.LoadBalancers[0]), nil
}

// CreateLoadBalancer creates an internet-facing application load balancer.
func (c *RealClient) CreateLoadBalancer(ctx context.Context, name string, subnetIDs, securityGroupIDs []string, tags map[string]string) (*LoadBalancerInfo, error) {
	out, err := c.elbClient.CreateLoadBalancer(ctx, &elbv2.CreateLoadBalancerInput{
		Name:           awssdk.String(name),
		Type:           elbtypes.LoadBalancerTypeEnumApplication,
		Scheme:         elbtypes.LoadBalancerSchemeEnumInternetFacing,
		Subnets:        subnetIDs,
		SecurityGroups: securityGroupIDs,
		Tags:           elbTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create load balancer %q: %w", name, err)
	}
	if len(out.LoadBalancers) == 0 {
		return nil, fmt.Errorf("CreateLoadBalancer returned no load balancer for %q", name)
	}

	return loadBalancerInfo(&out.LoadBalancers[0]), nil
}

// LoadBalancersByTag lists load balancers carrying the given tag.
// ELBv2 has no tag filter on describe, so tags are resolved per ARN.
func (c *RealClient) LoadBalancersByTag(ctx context.Context, key, value string) ([]LoadBalancerInfo, error) {
	out, err := c.elbClient.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list load balancers: %w", err)
	}

	var matched []LoadBalancerInfo
	for i := range out.LoadBalancers {
		lb := &out.LoadBalancers[i]
		ok, err := c.resourceHasTag(ctx, awssdk.ToString(lb.LoadBalancerArn), key, value)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, *loadBalancerInfo(lb))
		}
	}
	return matched, nil
}

// CreateTargetGroup creates an instance target group for the given port.
func (c *RealClient) CreateTargetGroup(ctx context.Context, name, vpcID string, port int32, tags map[string]string) (*TargetGroupInfo, error) {
	out, err := c.elbClient.CreateTargetGroup(ctx, &elbv2.CreateTargetGroupInput{
		Name:       awssdk.String(name),
		Protocol:   elbtypes.ProtocolEnumHttp,
		Port:       awssdk.Int32(port),
		VpcId:      awssdk.String(vpcID),
		TargetType: elbtypes.TargetTypeEnumInstance,
		Tags:       elbTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create target group %q: %w", name, err)
	}
	if len(out.TargetGroups) == 0 {
		return nil, fmt.Errorf("CreateTargetGroup returned no target group for %q", name)
	}

	tg := out.TargetGroups[0]
	return &TargetGroupInfo{
		ARN:  awssdk.ToString(tg.TargetGroupArn),
		Name: awssdk.ToString(tg.TargetGroupName),
	}, nil
}

// TargetGroupsByTag lists target groups carrying the given tag.
func (c *RealClient) TargetGroupsByTag(ctx context.Context, key, value string) ([]TargetGroupInfo, error) {
	out, err := c.elbClient.DescribeTargetGroups(ctx, &elbv2.DescribeTargetGroupsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list target groups: %w", err)
	}

	var matched []TargetGroupInfo
	for _, tg := range out.TargetGroups {
		arn := awssdk.ToString(tg.TargetGroupArn)
		ok, err := c.resourceHasTag(ctx, arn, key, value)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, TargetGroupInfo{
				ARN:  arn,
				Name: awssdk.ToString(tg.TargetGroupName),
			})
		}
	}
	return matched, nil
}

// RegisterInstance registers an instance with a target group.
func (c *RealClient) RegisterInstance(ctx context.Context, targetGroupARN, instanceID string) error {
	_, err := c.elbClient.RegisterTargets(ctx, &elbv2.RegisterTargetsInput{
		TargetGroupArn: awssdk.String(targetGroupARN),
		Targets: []elbtypes.TargetDescription{{
			Id: awssdk.String(instanceID),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to register %s with target group: %w", instanceID, err)
	}
	return nil
}

// CreateListener forwards the given port on the load balancer to a target
// group.
func (c *RealClient) CreateListener(ctx context.Context, loadBalancerARN, targetGroupARN string, port int32) error {
	_, err := c.elbClient.CreateListener(ctx, &elbv2.CreateListenerInput{
		LoadBalancerArn: awssdk.String(loadBalancerARN),
		Protocol:        elbtypes.ProtocolEnumHttp,
		Port:            awssdk.Int32(port),
		DefaultActions: []elbtypes.Action{{
			Type:           elbtypes.ActionTypeEnumForward,
			TargetGroupArn: awssdk.String(targetGroupARN),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}
	return nil
}

// DeleteLoadBalancer deletes the load balancer by ARN.
func (c *RealClient) DeleteLoadBalancer(ctx context.Context, arn string) error {
	_, err := c.elbClient.DeleteLoadBalancer(ctx, &elbv2.DeleteLoadBalancerInput{
		LoadBalancerArn: awssdk.String(arn),
	})
	return err
}

// DeleteTargetGroup deletes the target group by ARN.
func (c *RealClient) DeleteTargetGroup(ctx context.Context, arn string) error {
	_, err := c.elbClient.DeleteTargetGroup(ctx, &elbv2.DeleteTargetGroupInput{
		TargetGroupArn: awssdk.String(arn),
	})
	return err
}

// resourceHasTag checks one ELBv2 resource ARN for the given tag.
func (c *RealClient) resourceHasTag(ctx context.Context, arn, key, value string) (bool, error) {
	out, err := c.elbClient.DescribeTags(ctx, &elbv2.DescribeTagsInput{
		ResourceArns: []string{arn},
	})
	if err != nil {
		return false, fmt.Errorf("failed to describe tags for %s: %w", arn, err)
	}

	for _, desc := range out.TagDescriptions {
		for _, tag := range desc.Tags {
			if awssdk.ToString(tag.Key) == key && awssdk.ToString(tag.Value) == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func loadBalancerInfo(lb *elbtypes.LoadBalancer) *LoadBalancerInfo {
	info := &LoadBalancerInfo{
		ARN:     awssdk.ToString(lb.LoadBalancerArn),
		Name:    awssdk.ToString(lb.LoadBalancerName),
		DNSName: awssdk.ToString(lb.DNSName),
	}
	if lb.State != nil {
		info.State = string(lb.State.Code)
	}
	return info
}

func elbTags(tags map[string]string) []elbtypes.Tag {
	out := make([]elbtypes.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, elbtypes.Tag{
			Key:   awssdk.String(k),
			Value: awssdk.String(tags[k]),
		})
	}
	return out
}
