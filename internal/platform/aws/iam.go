package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// GetRole returns the IAM role by name, or nil if it does not exist.
func (c *RealClient) GetRole(ctx context.Context, name string) (*RoleInfo, error) {
	out, err := c.iamClient.GetRole(ctx, &iam.GetRoleInput{
		RoleName: awssdk.String(name),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role %q: %w", name, err)
	}

	return &RoleInfo{
		Name: awssdk.ToString(out.Role.RoleName),
		ARN:  awssdk.ToString(out.Role.Arn),
	}, nil
}

// CreateRole creates an IAM role with the given trust policy document.
func (c *RealClient) CreateRole(ctx context.Context, name, trustPolicy string, tags map[string]string) (*RoleInfo, error) {
	out, err := c.iamClient.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 awssdk.String(name),
		AssumeRolePolicyDocument: awssdk.String(trustPolicy),
		Tags:                     iamTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create role %q: %w", name, err)
	}

	return &RoleInfo{
		Name: awssdk.ToString(out.Role.RoleName),
		ARN:  awssdk.ToString(out.Role.Arn),
	}, nil
}

// PutRolePolicy attaches an inline policy document to a role.
func (c *RealClient) PutRolePolicy(ctx context.Context, roleName, policyName, document string) error {
	_, err := c.iamClient.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       awssdk.String(roleName),
		PolicyName:     awssdk.String(policyName),
		PolicyDocument: awssdk.String(document),
	})
	if err != nil {
		return fmt.Errorf("failed to put inline policy %q on role %q: %w", policyName, roleName, err)
	}
	return nil
}

// AttachRolePolicy attaches a managed policy to a role.
func (c *RealClient) AttachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	_, err := c.iamClient.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  awssdk.String(roleName),
		PolicyArn: awssdk.String(policyARN),
	})
	if err != nil {
		return fmt.Errorf("failed to attach policy %s to role %q: %w", policyARN, roleName, err)
	}
	return nil
}

// ListInlinePolicies returns the names of all inline policies on a role.
func (c *RealClient) ListInlinePolicies(ctx context.Context, roleName string) ([]string, error) {
	var names []string
	var marker *string
	for {
		out, err := c.iamClient.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
			RoleName: awssdk.String(roleName),
			Marker:   marker,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list inline policies for role %q: %w", roleName, err)
		}
		names = append(names, out.PolicyNames...)
		if !out.IsTruncated {
			return names, nil
		}
		marker = out.Marker
	}
}

// ListAttachedPolicies returns the ARNs of all managed policies attached to
// a role.
func (c *RealClient) ListAttachedPolicies(ctx context.Context, roleName string) ([]string, error) {
	var arns []string
	var marker *string
	for {
		out, err := c.iamClient.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
			RoleName: awssdk.String(roleName),
			Marker:   marker,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list attached policies for role %q: %w", roleName, err)
		}
		for _, p := range out.AttachedPolicies {
			arns = append(arns, awssdk.ToString(p.PolicyArn))
		}
		if !out.IsTruncated {
			return arns, nil
		}
		marker = out.Marker
	}
}

// DeleteRolePolicy removes an inline policy from a role.
func (c *RealClient) DeleteRolePolicy(ctx context.Context, roleName, policyName string) error {
	_, err := c.iamClient.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
		RoleName:   awssdk.String(roleName),
		PolicyName: awssdk.String(policyName),
	})
	return err
}

// DetachRolePolicy detaches a managed policy from a role.
func (c *RealClient) DetachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	_, err := c.iamClient.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
		RoleName:  awssdk.String(roleName),
		PolicyArn: awssdk.String(policyARN),
	})
	return err
}

// DeleteRole deletes an IAM role. The role must have no inline policies,
// attached policies or instance profile memberships left, or the API returns
// DeleteConflict.
func (c *RealClient) DeleteRole(ctx context.Context, name string) error {
	_, err := c.iamClient.DeleteRole(ctx, &iam.DeleteRoleInput{
		RoleName: awssdk.String(name),
	})
	return err
}

// GetInstanceProfile returns the instance profile by name, or nil if absent.
func (c *RealClient) GetInstanceProfile(ctx context.Context, name string) (*InstanceProfileInfo, error) {
	out, err := c.iamClient.GetInstanceProfile(ctx, &iam.GetInstanceProfileInput{
		InstanceProfileName: awssdk.String(name),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get instance profile %q: %w", name, err)
	}

	return instanceProfileInfo(out.InstanceProfile), nil
}

// CreateInstanceProfile creates an empty instance profile.
func (c *RealClient) CreateInstanceProfile(ctx context.Context, name string, tags map[string]string) (*InstanceProfileInfo, error) {
	out, err := c.iamClient.CreateInstanceProfile(ctx, &iam.CreateInstanceProfileInput{
		InstanceProfileName: awssdk.String(name),
		Tags:                iamTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create instance profile %q: %w", name, err)
	}

	return instanceProfileInfo(out.InstanceProfile), nil
}

// AddRoleToInstanceProfile associates a role with an instance profile.
func (c *RealClient) AddRoleToInstanceProfile(ctx context.Context, profileName, roleName string) error {
	_, err := c.iamClient.AddRoleToInstanceProfile(ctx, &iam.AddRoleToInstanceProfileInput{
		InstanceProfileName: awssdk.String(profileName),
		RoleName:            awssdk.String(roleName),
	})
	if err != nil {
		return fmt.Errorf("failed to add role %q to instance profile %q: %w", roleName, profileName, err)
	}
	return nil
}

// InstanceProfilesForRole returns every instance profile referencing the role.
func (c *RealClient) InstanceProfilesForRole(ctx context.Context, roleName string) ([]InstanceProfileInfo, error) {
	var profiles []InstanceProfileInfo
	var marker *string
	for {
		out, err := c.iamClient.ListInstanceProfilesForRole(ctx, &iam.ListInstanceProfilesForRoleInput{
			RoleName: awssdk.String(roleName),
			Marker:   marker,
		})
		if err != nil {
			if IsNotFound(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list instance profiles for role %q: %w", roleName, err)
		}
		for i := range out.InstanceProfiles {
			profiles = append(profiles, *instanceProfileInfo(&out.InstanceProfiles[i]))
		}
		if !out.IsTruncated {
			return profiles, nil
		}
		marker = out.Marker
	}
}

// RemoveRoleFromInstanceProfile removes a role from an instance profile.
func (c *RealClient) RemoveRoleFromInstanceProfile(ctx context.Context, profileName, roleName string) error {
	_, err := c.iamClient.RemoveRoleFromInstanceProfile(ctx, &iam.RemoveRoleFromInstanceProfileInput{
		InstanceProfileName: awssdk.String(profileName),
		RoleName:            awssdk.String(roleName),
	})
	return err
}

// DeleteInstanceProfile deletes an instance profile. The profile must have
// no roles left.
func (c *RealClient) DeleteInstanceProfile(ctx context.Context, name string) error {
	_, err := c.iamClient.DeleteInstanceProfile(ctx, &iam.DeleteInstanceProfileInput{
		InstanceProfileName: awssdk.String(name),
	})
	return err
}

func instanceProfileInfo(p *iamtypes.InstanceProfile) *InstanceProfileInfo {
	info := &InstanceProfileInfo{
		Name: awssdk.ToString(p.InstanceProfileName),
		ARN:  awssdk.ToString(p.Arn),
	}
	for _, r := range p.Roles {
		info.RoleNames = append(info.RoleNames, awssdk.ToString(r.RoleName))
	}
	return info
}

func iamTags(tags map[string]string) []iamtypes.Tag {
	out := make([]iamtypes.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, iamtypes.Tag{
			Key:   awssdk.String(k),
			Value: awssdk.String(tags[k]),
		})
	}
	return out
}
