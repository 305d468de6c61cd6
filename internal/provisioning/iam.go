package provisioning

import (
	"fmt"
	"strings"
)

// ec2TrustPolicy lets EC2 instances assume the stack role.
const ec2TrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "ec2.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`

// ssmManagedPolicyARN enables Session Manager access to the instance.
const ssmManagedPolicyARN = "arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"

// parameterReadPolicyName is the inline policy granting the instance read
// access to its own parameter path.
const parameterReadPolicyName = "parameter-read"

const parameterReadPolicyTemplate = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": ["ssm:GetParameter", "ssm:GetParameters", "ssm:GetParametersByPath"],
      "Resource": "arn:aws:ssm:*:*:parameter/STACK/*"
    }
  ]
}`

// IAMRolePhase ensures the stack's instance role with its policies.
type IAMRolePhase struct{}

// Name implements Phase.
func (p *IAMRolePhase) Name() string { return "iamrole" }

// Provision creates the role when missing and converges its policies either
// way, so a role from an interrupted earlier run still ends up complete.
func (p *IAMRolePhase) Provision(ctx *Context) error {
	name := ctx.roleName()

	role, err := ctx.Cloud.GetRole(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up role %q: %w", name, err)
	}
	if role != nil {
		LogResourceExists(ctx.Observer, p.Name(), "IAM role", name, role.ARN)
		ctx.State.Ledger.Record(Resource{Kind: KindIAMRole, ID: role.ARN, Name: name, Reused: true})
	} else {
		LogResourceCreating(ctx.Observer, p.Name(), "IAM role", name)
		role, err = ctx.Cloud.CreateRole(ctx, name, ec2TrustPolicy, ctx.stackTags())
		if err != nil {
			return fmt.Errorf("failed to create role %q: %w", name, err)
		}
		ctx.State.Ledger.Record(Resource{Kind: KindIAMRole, ID: role.ARN, Name: name})
		LogResourceCreated(ctx.Observer, p.Name(), "IAM role", name, role.ARN)
	}
	ctx.State.RoleName = role.Name
	ctx.State.RoleARN = role.ARN

	document := strings.ReplaceAll(parameterReadPolicyTemplate, "STACK", ctx.Config.Stack)
	if err := ctx.Cloud.PutRolePolicy(ctx, name, parameterReadPolicyName, document); err != nil {
		return fmt.Errorf("failed to put inline policy on %q: %w", name, err)
	}
	if err := ctx.Cloud.AttachRolePolicy(ctx, name, ssmManagedPolicyARN); err != nil {
		return fmt.Errorf("failed to attach managed policy to %q: %w", name, err)
	}
	return nil
}

// InstanceProfilePhase ensures the instance profile wrapping the stack role.
type InstanceProfilePhase struct{}

// Name implements Phase.
func (p *InstanceProfilePhase) Name() string { return "instanceprofile" }

// Provision creates the profile when missing and attaches the role when it
// is not already a member.
func (p *InstanceProfilePhase) Provision(ctx *Context) error {
	name := ctx.profileName()

	profile, err := ctx.Cloud.GetInstanceProfile(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up instance profile %q: %w", name, err)
	}
	if profile != nil {
		LogResourceExists(ctx.Observer, p.Name(), "instance profile", name, profile.ARN)
		ctx.State.Ledger.Record(Resource{Kind: KindInstanceProfile, ID: profile.ARN, Name: name, Reused: true})
	} else {
		LogResourceCreating(ctx.Observer, p.Name(), "instance profile", name)
		profile, err = ctx.Cloud.CreateInstanceProfile(ctx, name, ctx.stackTags())
		if err != nil {
			return fmt.Errorf("failed to create instance profile %q: %w", name, err)
		}
		ctx.State.Ledger.Record(Resource{Kind: KindInstanceProfile, ID: profile.ARN, Name: name})
		LogResourceCreated(ctx.Observer, p.Name(), "instance profile", name, profile.ARN)
	}

	attached := false
	for _, roleName := range profile.RoleNames {
		if roleName == ctx.State.RoleName {
			attached = true
			break
		}
	}
	if !attached {
		if err := ctx.Cloud.AddRoleToInstanceProfile(ctx, name, ctx.State.RoleName); err != nil {
			return fmt.Errorf("failed to add role to instance profile %q: %w", name, err)
		}
	}

	ctx.State.InstanceProfileName = name
	return nil
}
