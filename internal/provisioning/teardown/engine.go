// Package teardown destroys every cloud resource belonging to a stack, in
// dependency-safe order, discovering resources purely by tag and naming
// convention. There is no local state to consult: the cloud is the source of
// truth.
package teardown

import (
	"context"
	"fmt"
	"time"

	awsplatform "github.com/imamik/aistack/internal/platform/aws"
	"github.com/imamik/aistack/internal/provisioning"
)

// Engine tears down one stack.
type Engine struct {
	Cloud    awsplatform.CloudManager
	Observer provisioning.Observer
	Stack    string

	// DistributionWait bounds how long a CDN distribution may take to
	// finish disabling before it can be deleted.
	DistributionWait time.Duration
}

// NewEngine creates a teardown engine for the stack.
func NewEngine(cloud awsplatform.CloudManager, stack string) *Engine {
	return &Engine{
		Cloud:            cloud,
		Observer:         provisioning.NewConsoleObserver().WithFields(map[string]string{"stack": stack}),
		Stack:            stack,
		DistributionWait: 30 * time.Minute,
	}
}

// Report lists what a teardown pass removed.
type Report struct {
	Deleted []string
}

func (r *Report) add(kind, id string) {
	r.Deleted = append(r.Deleted, kind+":"+id)
}

// BlockedError names the resource whose deletion failed, halting teardown.
type BlockedError struct {
	Resource string
	Err      error
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("teardown blocked at %s: %v", e.Resource, e.Err)
}

func (e *BlockedError) Unwrap() error {
	return e.Err
}

// Run destroys the stack's resources in strict dependency order:
// IAM bindings unwind first (inline policies, managed policy detachments,
// profile membership, profiles, roles), then compute, the traffic layer
// (load balancer, target groups, distribution), storage, the security group
// and finally the key pair.
//
// A resource already gone counts as success. Any other failure halts the
// pass immediately with the blocking resource named; re-running after the
// cause is fixed resumes where it stopped.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	e.Observer.Printf("Tearing down stack %q...", e.Stack)

	steps := []func(context.Context, *Report) error{
		e.unwindIAM,
		e.deleteCompute,
		e.deleteLoadBalancers,
		e.deleteTargetGroups,
		e.deleteDistribution,
		e.deleteStorage,
		e.deleteSecurityGroups,
		e.deleteKeyPair,
	}
	for _, step := range steps {
		if err := step(ctx, report); err != nil {
			return report, err
		}
	}

	e.Observer.Printf("Teardown of %q complete: %d resources removed", e.Stack, len(report.Deleted))
	return report, nil
}

// unwindIAM removes everything attached to the stack role before the role
// itself: inline policies, managed policy attachments, profile membership,
// the profiles, then the role. IAM refuses deletion in any other order.
func (e *Engine) unwindIAM(ctx context.Context, report *Report) error {
	roleName := e.Stack + "-role"

	role, err := e.Cloud.GetRole(ctx, roleName)
	if err != nil {
		return &BlockedError{Resource: "role " + roleName, Err: err}
	}
	if role == nil {
		return nil
	}

	inline, err := e.Cloud.ListInlinePolicies(ctx, roleName)
	if err != nil {
		return &BlockedError{Resource: "role " + roleName, Err: err}
	}
	for _, policy := range inline {
		if err := e.Cloud.DeleteRolePolicy(ctx, roleName, policy); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "inline policy " + policy, Err: err}
		}
		report.add("inline-policy", policy)
	}

	attached, err := e.Cloud.ListAttachedPolicies(ctx, roleName)
	if err != nil {
		return &BlockedError{Resource: "role " + roleName, Err: err}
	}
	for _, policyARN := range attached {
		if err := e.Cloud.DetachRolePolicy(ctx, roleName, policyARN); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "policy attachment " + policyARN, Err: err}
		}
		report.add("policy-attachment", policyARN)
	}

	profiles, err := e.Cloud.InstanceProfilesForRole(ctx, roleName)
	if err != nil {
		return &BlockedError{Resource: "role " + roleName, Err: err}
	}
	for _, profile := range profiles {
		if err := e.Cloud.RemoveRoleFromInstanceProfile(ctx, profile.Name, roleName); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "instance profile " + profile.Name, Err: err}
		}
	}
	for _, profile := range profiles {
		if err := e.Cloud.DeleteInstanceProfile(ctx, profile.Name); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "instance profile " + profile.Name, Err: err}
		}
		report.add("instance-profile", profile.Name)
		provisioning.LogResourceDeleted(e.Observer, "teardown", "instance profile", profile.Name)
	}

	if err := e.Cloud.DeleteRole(ctx, roleName); err != nil && !awsplatform.IsNotFound(err) {
		return &BlockedError{Resource: "role " + roleName, Err: err}
	}
	report.add("role", roleName)
	provisioning.LogResourceDeleted(e.Observer, "teardown", "IAM role", roleName)
	return nil
}

// deleteCompute terminates tagged instances and cancels outstanding spot
// requests.
func (e *Engine) deleteCompute(ctx context.Context, report *Report) error {
	instances, err := e.Cloud.InstancesByTag(ctx, awsplatform.TagStack, e.Stack)
	if err != nil {
		return &BlockedError{Resource: "instances", Err: err}
	}
	for _, inst := range instances {
		if err := e.Cloud.TerminateInstance(ctx, inst.ID); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "instance " + inst.ID, Err: err}
		}
		report.add("instance", inst.ID)
		provisioning.LogResourceDeleted(e.Observer, "teardown", "instance", inst.ID)
	}

	requests, err := e.Cloud.SpotRequestsByTag(ctx, awsplatform.TagStack, e.Stack)
	if err != nil {
		return &BlockedError{Resource: "spot requests", Err: err}
	}
	for _, req := range requests {
		if err := e.Cloud.CancelSpotRequest(ctx, req.ID); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "spot request " + req.ID, Err: err}
		}
		report.add("spot-request", req.ID)
	}
	return nil
}

func (e *Engine) deleteLoadBalancers(ctx context.Context, report *Report) error {
	lbs, err := e.Cloud.LoadBalancersByTag(ctx, awsplatform.TagStack, e.Stack)
	if err != nil {
		return &BlockedError{Resource: "load balancers", Err: err}
	}
	for _, lb := range lbs {
		if err := e.Cloud.DeleteLoadBalancer(ctx, lb.ARN); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "load balancer " + lb.Name, Err: err}
		}
		report.add("load-balancer", lb.Name)
		provisioning.LogResourceDeleted(e.Observer, "teardown", "load balancer", lb.Name)
	}
	return nil
}

func (e *Engine) deleteTargetGroups(ctx context.Context, report *Report) error {
	groups, err := e.Cloud.TargetGroupsByTag(ctx, awsplatform.TagStack, e.Stack)
	if err != nil {
		return &BlockedError{Resource: "target groups", Err: err}
	}
	for _, tg := range groups {
		if err := e.Cloud.DeleteTargetGroup(ctx, tg.ARN); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "target group " + tg.Name, Err: err}
		}
		report.add("target-group", tg.Name)
	}
	return nil
}

// deleteDistribution disables the distribution, waits for the disable to
// deploy globally, then deletes. CloudFront rejects deleting an enabled or
// still-deploying distribution.
func (e *Engine) deleteDistribution(ctx context.Context, report *Report) error {
	dist, err := e.Cloud.GetDistributionByStack(ctx, e.Stack)
	if err != nil {
		return &BlockedError{Resource: "distribution", Err: err}
	}
	if dist == nil {
		return nil
	}

	if dist.Enabled {
		if err := e.Cloud.DisableDistribution(ctx, dist.ID); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "distribution " + dist.ID, Err: err}
		}
	}
	if err := e.Cloud.WaitDistributionDeployed(ctx, dist.ID, e.DistributionWait); err != nil {
		return &BlockedError{Resource: "distribution " + dist.ID, Err: err}
	}
	if err := e.Cloud.DeleteDistribution(ctx, dist.ID); err != nil && !awsplatform.IsNotFound(err) {
		return &BlockedError{Resource: "distribution " + dist.ID, Err: err}
	}
	report.add("distribution", dist.ID)
	provisioning.LogResourceDeleted(e.Observer, "teardown", "distribution", dist.ID)
	return nil
}

// deleteStorage removes mount targets before the filesystem; EFS refuses to
// delete a filesystem with live mount targets.
func (e *Engine) deleteStorage(ctx context.Context, report *Report) error {
	filesystems, err := e.Cloud.FileSystemsByTag(ctx, awsplatform.TagStack, e.Stack)
	if err != nil {
		return &BlockedError{Resource: "filesystems", Err: err}
	}
	for _, fs := range filesystems {
		targets, err := e.Cloud.MountTargets(ctx, fs.ID)
		if err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "filesystem " + fs.ID, Err: err}
		}
		for _, mt := range targets {
			if err := e.Cloud.DeleteMountTarget(ctx, mt.ID); err != nil && !awsplatform.IsNotFound(err) {
				return &BlockedError{Resource: "mount target " + mt.ID, Err: err}
			}
			report.add("mount-target", mt.ID)
		}
		if err := e.Cloud.DeleteFileSystem(ctx, fs.ID); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "filesystem " + fs.ID, Err: err}
		}
		report.add("filesystem", fs.ID)
		provisioning.LogResourceDeleted(e.Observer, "teardown", "filesystem", fs.ID)
	}
	return nil
}

func (e *Engine) deleteSecurityGroups(ctx context.Context, report *Report) error {
	groups, err := e.Cloud.SecurityGroupsByTag(ctx, awsplatform.TagStack, e.Stack)
	if err != nil {
		return &BlockedError{Resource: "security groups", Err: err}
	}
	for _, sg := range groups {
		if err := e.Cloud.DeleteSecurityGroup(ctx, sg.ID); err != nil && !awsplatform.IsNotFound(err) {
			return &BlockedError{Resource: "security group " + sg.ID, Err: err}
		}
		report.add("security-group", sg.ID)
		provisioning.LogResourceDeleted(e.Observer, "teardown", "security group", sg.ID)
	}
	return nil
}

func (e *Engine) deleteKeyPair(ctx context.Context, report *Report) error {
	name := e.Stack + "-key"

	kp, err := e.Cloud.GetKeyPair(ctx, name)
	if err != nil {
		return &BlockedError{Resource: "key pair " + name, Err: err}
	}
	if kp == nil {
		return nil
	}
	if err := e.Cloud.DeleteKeyPair(ctx, name); err != nil && !awsplatform.IsNotFound(err) {
		return &BlockedError{Resource: "key pair " + name, Err: err}
	}
	report.add("key-pair", name)
	provisioning.LogResourceDeleted(e.Observer, "teardown", "key pair", name)
	return nil
}
