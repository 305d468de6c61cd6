package provisioning

import (
	"fmt"
	"time"

	awsplatform "github.com/imamik/aistack/internal/platform/aws"
	"github.com/imamik/aistack/internal/util/retry"
)

// pollInterval is how often long-running waits re-check cloud state.
// Variable so tests do not wait out real intervals.
var pollInterval = 5 * time.Second

// rootVolumeSizeGiB sizes the instance root volume. Model weights and
// container images need substantially more than the image default.
const rootVolumeSizeGiB = 100

// ComputePhase launches the stack's instance. The instance type, zone and
// purchasing mode were decided by the selector before the pipeline started.
type ComputePhase struct{}

// Name implements Phase.
func (p *ComputePhase) Name() string { return "compute" }

// Provision adopts a live tagged instance when one exists; otherwise it
// launches via spot request or on-demand. Spot fulfillment is polled with a
// bounded deadline, and escalates to on-demand only when the operator opted
// in with AllowFallback.
func (p *ComputePhase) Provision(ctx *Context) error {
	instances, err := ctx.Cloud.InstancesByTag(ctx, awsplatform.TagStack, ctx.Config.Stack)
	if err != nil {
		return fmt.Errorf("failed to list stack instances: %w", err)
	}
	if len(instances) > 0 {
		inst := instances[0]
		LogResourceExists(ctx.Observer, p.Name(), "instance", ctx.instanceName(), inst.ID)
		ctx.State.Ledger.Record(Resource{Kind: KindInstance, ID: inst.ID, Name: ctx.instanceName(), Reused: true})
		return p.waitRunning(ctx, inst.ID)
	}

	imageID := ctx.Config.ImageID
	if imageID == "" {
		arch := ctx.State.Architecture
		if arch == "" {
			arch = "x86_64"
		}
		imageID, err = ctx.Cloud.ResolveImage(ctx, arch)
		if err != nil {
			return err
		}
	}

	opts := awsplatform.InstanceCreateOpts{
		Name:                ctx.instanceName(),
		InstanceType:        ctx.State.InstanceType,
		ImageID:             imageID,
		KeyName:             ctx.State.KeyPairName,
		SecurityGroupIDs:    []string{ctx.State.SecurityGroupID},
		SubnetID:            firstSubnet(ctx.State.SubnetIDs),
		InstanceProfileName: ctx.State.InstanceProfileName,
		UserData:            buildUserData(ctx.Config, ctx.State.FileSystemID, ctx.Config.Region),
		VolumeSizeGiB:       rootVolumeSizeGiB,
		Tags:                ctx.stackTags(),
	}

	var instanceID string
	if ctx.State.Spot {
		instanceID, err = p.provisionSpot(ctx, opts)
	} else {
		LogResourceCreating(ctx.Observer, p.Name(), "instance", opts.Name)
		instanceID, err = launchInstance(ctx, opts)
		if err == nil {
			ctx.State.Ledger.Record(Resource{Kind: KindInstance, ID: instanceID, Name: opts.Name})
			LogResourceCreated(ctx.Observer, p.Name(), "instance", opts.Name, instanceID)
		}
	}
	if err != nil {
		return err
	}

	return p.waitRunning(ctx, instanceID)
}

// provisionSpot submits (or adopts) the spot request and waits for
// fulfillment within the configured deadline.
func (p *ComputePhase) provisionSpot(ctx *Context, opts awsplatform.InstanceCreateOpts) (string, error) {
	requestID := ""

	existing, err := ctx.Cloud.SpotRequestsByTag(ctx, awsplatform.TagStack, ctx.Config.Stack)
	if err != nil {
		return "", fmt.Errorf("failed to list spot requests: %w", err)
	}
	if len(existing) > 0 {
		requestID = existing[0].ID
		LogResourceExists(ctx.Observer, p.Name(), "spot request", opts.Name, requestID)
		ctx.State.Ledger.Record(Resource{Kind: KindSpotRequest, ID: requestID, Name: opts.Name, Reused: true})
	} else {
		LogResourceCreating(ctx.Observer, p.Name(), "spot request", opts.Name)
		requestID, err = requestSpot(ctx, opts)
		if err != nil {
			return "", fmt.Errorf("failed to request spot instance: %w", err)
		}
		ctx.State.Ledger.Record(Resource{Kind: KindSpotRequest, ID: requestID, Name: opts.Name})
		LogResourceCreated(ctx.Observer, p.Name(), "spot request", opts.Name, requestID)
	}
	ctx.State.SpotRequestID = requestID

	instanceID, err := p.waitSpotFulfilled(ctx, requestID)
	if err == nil {
		ctx.State.Ledger.Record(Resource{Kind: KindInstance, ID: instanceID, Name: opts.Name})
		return instanceID, nil
	}

	if !ctx.Config.AllowFallback {
		return "", fmt.Errorf(
			"%w; spot request %s left open for a later resume, or run teardown and retry with --allow-fallback",
			err, requestID)
	}

	ctx.Observer.Printf("[%s] spot not fulfilled (%v), falling back to on-demand", p.Name(), err)
	if cancelErr := ctx.Cloud.CancelSpotRequest(ctx, requestID); cancelErr != nil {
		return "", fmt.Errorf("failed to cancel spot request %s before fallback: %w", requestID, cancelErr)
	}
	ctx.State.SpotRequestID = ""

	LogResourceCreating(ctx.Observer, p.Name(), "instance", opts.Name)
	instanceID, err = launchInstance(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("on-demand fallback failed: %w", err)
	}
	ctx.State.Ledger.Record(Resource{Kind: KindInstance, ID: instanceID, Name: opts.Name})
	LogResourceCreated(ctx.Observer, p.Name(), "instance", opts.Name, instanceID)
	return instanceID, nil
}

// waitSpotFulfilled polls the request until it is active with an instance
// attached, or the fulfillment deadline passes.
func (p *ComputePhase) waitSpotFulfilled(ctx *Context, requestID string) (string, error) {
	deadline := time.Now().Add(ctx.Timeouts.SpotFulfillment)
	for {
		req, err := ctx.Cloud.GetSpotRequest(ctx, requestID)
		if err != nil {
			return "", err
		}
		if req == nil {
			return "", fmt.Errorf("spot request %s disappeared", requestID)
		}

		switch req.State {
		case "active":
			if req.InstanceID != "" {
				return req.InstanceID, nil
			}
		case "closed", "cancelled", "failed":
			return "", fmt.Errorf("spot request %s ended in state %s (%s)", requestID, req.State, req.StatusCode)
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("spot request %s not fulfilled within %v (status %s)",
				requestID, ctx.Timeouts.SpotFulfillment, req.StatusCode)
		}
		if err := sleepCtx(ctx, pollInterval); err != nil {
			return "", err
		}
	}
}

// waitRunning polls the instance until it is running with a public IP.
func (p *ComputePhase) waitRunning(ctx *Context, instanceID string) error {
	deadline := time.Now().Add(ctx.Timeouts.InstanceRunning)
	for {
		inst, err := ctx.Cloud.GetInstance(ctx, instanceID)
		if err != nil {
			return err
		}
		if inst == nil {
			return fmt.Errorf("instance %s disappeared", instanceID)
		}

		if inst.State == "running" && inst.PublicIP != "" {
			ctx.State.InstanceID = inst.ID
			ctx.State.PublicIP = inst.PublicIP
			ctx.State.PrivateIP = inst.PrivateIP
			ctx.Observer.Printf("[%s] instance %s running at %s", p.Name(), inst.ID, inst.PublicIP)
			return nil
		}
		if inst.State == "terminated" || inst.State == "shutting-down" {
			return fmt.Errorf("instance %s entered state %s", instanceID, inst.State)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("instance %s not running within %v (state %s)",
				instanceID, ctx.Timeouts.InstanceRunning, inst.State)
		}
		if err := sleepCtx(ctx, pollInterval); err != nil {
			return err
		}
	}
}

// launchInstance runs the on-demand launch with backoff. A freshly created
// instance profile takes a few seconds to propagate to EC2, during which the
// launch call fails.
func launchInstance(ctx *Context, opts awsplatform.InstanceCreateOpts) (string, error) {
	var instanceID string
	err := retry.WithExponentialBackoff(ctx, func() error {
		var launchErr error
		instanceID, launchErr = ctx.Cloud.RunInstance(ctx, opts)
		return classifyLaunch(launchErr)
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	return instanceID, err
}

// requestSpot submits the spot request with the same propagation backoff as
// on-demand launches.
func requestSpot(ctx *Context, opts awsplatform.InstanceCreateOpts) (string, error) {
	var requestID string
	err := retry.WithExponentialBackoff(ctx, func() error {
		var reqErr error
		requestID, reqErr = ctx.Cloud.RequestSpotInstance(ctx, opts, ctx.Config.Budget)
		return classifyLaunch(reqErr)
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	return requestID, err
}

// classifyLaunch separates transient launch failures from semantic ones.
// Only throttling and the instance-profile propagation window are worth
// waiting out; quota, auth and parameter errors fail fast.
func classifyLaunch(err error) error {
	if err == nil || awsplatform.IsRetryableLaunch(err) {
		return err
	}
	return retry.Fatal(err)
}

func firstSubnet(subnets []string) string {
	if len(subnets) == 0 {
		return ""
	}
	return subnets[0]
}

func sleepCtx(ctx *Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
