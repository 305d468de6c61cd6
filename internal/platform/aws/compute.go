package aws

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// ubuntuImagePattern matches Canonical's Ubuntu 24.04 LTS server images.
const ubuntuImagePattern = "ubuntu/images/hvm-ssd-gp3/ubuntu-noble-24.04-*-server-*"

// canonicalOwnerID is Canonical's AWS account, the only trusted image owner.
const canonicalOwnerID = "099720109477"

// ResolveImage returns the newest Ubuntu LTS AMI published by Canonical for
// the given architecture.
func (c *RealClient) ResolveImage(ctx context.Context, architecture string) (string, error) {
	out, err := c.ec2Client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{canonicalOwnerID},
		Filters: []ec2types.Filter{
			{Name: awssdk.String("name"), Values: []string{ubuntuImagePattern}},
			{Name: awssdk.String("architecture"), Values: []string{architecture}},
			{Name: awssdk.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s image: %w", architecture, err)
	}
	if len(out.Images) == 0 {
		return "", fmt.Errorf("no %s Ubuntu LTS image available in %s", architecture, c.region)
	}

	// CreationDate is RFC 3339, so lexical comparison picks the newest.
	newest := out.Images[0]
	for _, img := range out.Images[1:] {
		if awssdk.ToString(img.CreationDate) > awssdk.ToString(newest.CreationDate) {
			newest = img
		}
	}
	return awssdk.ToString(newest.ImageId), nil
}

// RunInstance launches an on-demand instance and returns its ID.
func (c *RealClient) RunInstance(ctx context.Context, opts InstanceCreateOpts) (string, error) {
	input := &ec2.RunInstancesInput{
		ImageId:      awssdk.String(opts.ImageID),
		InstanceType: ec2types.InstanceType(opts.InstanceType),
		MinCount:     awssdk.Int32(1),
		MaxCount:     awssdk.Int32(1),
		KeyName:      awssdk.String(opts.KeyName),
		SecurityGroupIds: opts.SecurityGroupIDs,
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeInstance,
			MergeTags(opts.Tags, map[string]string{"Name": opts.Name})),
	}
	applyCommonRunOptions(input, opts)

	out, err := c.ec2Client.RunInstances(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to launch instance %q: %w", opts.Name, err)
	}
	if len(out.Instances) == 0 {
		return "", fmt.Errorf("RunInstances returned no instances for %q", opts.Name)
	}

	return awssdk.ToString(out.Instances[0].InstanceId), nil
}

func applyCommonRunOptions(input *ec2.RunInstancesInput, opts InstanceCreateOpts) {
	if opts.SubnetID != "" {
		input.SubnetId = awssdk.String(opts.SubnetID)
	}
	if opts.InstanceProfileName != "" {
		input.IamInstanceProfile = &ec2types.IamInstanceProfileSpecification{
			Name: awssdk.String(opts.InstanceProfileName),
		}
	}
	if opts.UserData != "" {
		input.UserData = awssdk.String(base64.StdEncoding.EncodeToString([]byte(opts.UserData)))
	}
	if opts.VolumeSizeGiB > 0 {
		input.BlockDeviceMappings = []ec2types.BlockDeviceMapping{{
			DeviceName: awssdk.String("/dev/sda1"),
			Ebs: &ec2types.EbsBlockDevice{
				VolumeSize:          awssdk.Int32(opts.VolumeSizeGiB),
				VolumeType:          ec2types.VolumeTypeGp3,
				DeleteOnTermination: awssdk.Bool(true),
			},
		}}
	}
}

// RequestSpotInstance submits a one-time spot request at the given price
// ceiling and returns the spot request ID. Fulfillment is polled separately
// via GetSpotRequest.
func (c *RealClient) RequestSpotInstance(ctx context.Context, opts InstanceCreateOpts, maxHourlyPrice float64) (string, error) {
	spec := &ec2types.RequestSpotLaunchSpecification{
		ImageId:          awssdk.String(opts.ImageID),
		InstanceType:     ec2types.InstanceType(opts.InstanceType),
		KeyName:          awssdk.String(opts.KeyName),
		SecurityGroupIds: opts.SecurityGroupIDs,
	}
	if opts.SubnetID != "" {
		spec.SubnetId = awssdk.String(opts.SubnetID)
	}
	if opts.InstanceProfileName != "" {
		spec.IamInstanceProfile = &ec2types.IamInstanceProfileSpecification{
			Name: awssdk.String(opts.InstanceProfileName),
		}
	}
	if opts.UserData != "" {
		spec.UserData = awssdk.String(base64.StdEncoding.EncodeToString([]byte(opts.UserData)))
	}

	out, err := c.ec2Client.RequestSpotInstances(ctx, &ec2.RequestSpotInstancesInput{
		InstanceCount:       awssdk.Int32(1),
		Type:                ec2types.SpotInstanceTypeOneTime,
		SpotPrice:           awssdk.String(strconv.FormatFloat(maxHourlyPrice, 'f', 4, 64)),
		LaunchSpecification: spec,
		TagSpecifications:   ec2TagSpec(ec2types.ResourceTypeSpotInstancesRequest, opts.Tags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to request spot instance %q: %w", opts.Name, err)
	}
	if len(out.SpotInstanceRequests) == 0 {
		return "", fmt.Errorf("RequestSpotInstances returned no requests for %q", opts.Name)
	}

	return awssdk.ToString(out.SpotInstanceRequests[0].SpotInstanceRequestId), nil
}

// GetSpotRequest returns the current state of a spot request, or nil if it
// no longer exists.
func (c *RealClient) GetSpotRequest(ctx context.Context, id string) (*SpotRequestInfo, error) {
	out, err := c.ec2Client.DescribeSpotInstanceRequests(ctx, &ec2.DescribeSpotInstanceRequestsInput{
		SpotInstanceRequestIds: []string{id},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe spot request %s: %w", id, err)
	}
	if len(out.SpotInstanceRequests) == 0 {
		return nil, nil
	}

	return spotRequestInfo(&out.SpotInstanceRequests[0]), nil
}

// CancelSpotRequest cancels an outstanding spot request.
func (c *RealClient) CancelSpotRequest(ctx context.Context, id string) error {
	_, err := c.ec2Client.CancelSpotInstanceRequests(ctx, &ec2.CancelSpotInstanceRequestsInput{
		SpotInstanceRequestIds: []string{id},
	})
	return err
}

// SpotRequestsByTag lists spot requests carrying the given tag, excluding
// already cancelled or closed ones.
func (c *RealClient) SpotRequestsByTag(ctx context.Context, key, value string) ([]SpotRequestInfo, error) {
	out, err := c.ec2Client.DescribeSpotInstanceRequests(ctx, &ec2.DescribeSpotInstanceRequestsInput{
		Filters: []ec2types.Filter{
			tagFilter(key, value),
			{
				Name:   awssdk.String("state"),
				Values: []string{"open", "active"},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list spot requests by tag: %w", err)
	}

	requests := make([]SpotRequestInfo, 0, len(out.SpotInstanceRequests))
	for i := range out.SpotInstanceRequests {
		requests = append(requests, *spotRequestInfo(&out.SpotInstanceRequests[i]))
	}
	return requests, nil
}

// GetInstance returns the instance by ID, or nil if it does not exist.
func (c *RealClient) GetInstance(ctx context.Context, id string) (*InstanceInfo, error) {
	out, err := c.ec2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe instance %s: %w", id, err)
	}

	for _, res := range out.Reservations {
		for i := range res.Instances {
			return instanceInfo(&res.Instances[i]), nil
		}
	}
	return nil, nil
}

// InstancesByTag lists non-terminated instances carrying the given tag.
func (c *RealClient) InstancesByTag(ctx context.Context, key, value string) ([]InstanceInfo, error) {
	out, err := c.ec2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			tagFilter(key, value),
			{
				Name:   awssdk.String("instance-state-name"),
				Values: []string{"pending", "running", "stopping", "stopped"},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instances by tag: %w", err)
	}

	var instances []InstanceInfo
	for _, res := range out.Reservations {
		for i := range res.Instances {
			instances = append(instances, *instanceInfo(&res.Instances[i]))
		}
	}
	return instances, nil
}

// TerminateInstance terminates the instance by ID.
func (c *RealClient) TerminateInstance(ctx context.Context, id string) error {
	_, err := c.ec2Client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{id},
	})
	return err
}

func instanceInfo(in *ec2types.Instance) *InstanceInfo {
	info := &InstanceInfo{
		ID:            awssdk.ToString(in.InstanceId),
		Type:          string(in.InstanceType),
		PublicIP:      awssdk.ToString(in.PublicIpAddress),
		PrivateIP:     awssdk.ToString(in.PrivateIpAddress),
		SpotRequestID: awssdk.ToString(in.SpotInstanceRequestId),
	}
	if in.State != nil {
		info.State = string(in.State.Name)
	}
	if in.Placement != nil {
		info.Zone = awssdk.ToString(in.Placement.AvailabilityZone)
	}
	return info
}

func spotRequestInfo(r *ec2types.SpotInstanceRequest) *SpotRequestInfo {
	info := &SpotRequestInfo{
		ID:         awssdk.ToString(r.SpotInstanceRequestId),
		State:      string(r.State),
		InstanceID: awssdk.ToString(r.InstanceId),
	}
	if r.Status != nil {
		info.StatusCode = awssdk.ToString(r.Status.Code)
	}
	return info
}
