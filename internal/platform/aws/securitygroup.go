package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// GetSecurityGroupByName returns the security group by group name, or nil if
// it does not exist.
func (c *RealClient) GetSecurityGroupByName(ctx context.Context, name string) (*SecurityGroupInfo, error) {
	out, err := c.ec2Client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("group-name"),
			Values: []string{name},
		}},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe security group %q: %w", name, err)
	}
	if len(out.SecurityGroups) == 0 {
		return nil, nil
	}

	sg := out.SecurityGroups[0]
	return &SecurityGroupInfo{
		ID:   awssdk.ToString(sg.GroupId),
		Name: awssdk.ToString(sg.GroupName),
	}, nil
}

// CreateSecurityGroup creates a security group in the given VPC and returns
// its ID.
func (c *RealClient) CreateSecurityGroup(ctx context.Context, name, description, vpcID string, tags map[string]string) (string, error) {
	out, err := c.ec2Client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:         awssdk.String(name),
		Description:       awssdk.String(description),
		VpcId:             awssdk.String(vpcID),
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeSecurityGroup, tags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create security group %q: %w", name, err)
	}

	return awssdk.ToString(out.GroupId), nil
}

// AuthorizeIngress adds the given ingress rules to a security group.
// Duplicate-rule errors are tolerated so re-provisioning stays idempotent.
func (c *RealClient) AuthorizeIngress(ctx context.Context, groupID string, rules []IngressRule) error {
	permissions := make([]ec2types.IpPermission, 0, len(rules))
	for _, r := range rules {
		permissions = append(permissions, ec2types.IpPermission{
			IpProtocol: awssdk.String(r.Protocol),
			FromPort:   awssdk.Int32(r.FromPort),
			ToPort:     awssdk.Int32(r.ToPort),
			IpRanges: []ec2types.IpRange{{
				CidrIp:      awssdk.String(r.CIDR),
				Description: awssdk.String(r.Description),
			}},
		})
	}

	_, err := c.ec2Client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId:       awssdk.String(groupID),
		IpPermissions: permissions,
	})
	if err != nil && !hasErrorCode(err, map[string]bool{"InvalidPermission.Duplicate": true}) {
		return fmt.Errorf("failed to authorize ingress on %s: %w", groupID, err)
	}
	return nil
}

// SecurityGroupsByTag lists security groups carrying the given tag.
func (c *RealClient) SecurityGroupsByTag(ctx context.Context, key, value string) ([]SecurityGroupInfo, error) {
	out, err := c.ec2Client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{tagFilter(key, value)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list security groups by tag: %w", err)
	}

	groups := make([]SecurityGroupInfo, 0, len(out.SecurityGroups))
	for _, sg := range out.SecurityGroups {
		groups = append(groups, SecurityGroupInfo{
			ID:   awssdk.ToString(sg.GroupId),
			Name: awssdk.ToString(sg.GroupName),
		})
	}
	return groups, nil
}

// DeleteSecurityGroup deletes the group by ID.
func (c *RealClient) DeleteSecurityGroup(ctx context.Context, id string) error {
	_, err := c.ec2Client.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
		GroupId: awssdk.String(id),
	})
	return err
}
