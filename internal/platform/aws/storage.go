package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	efstypes "github.com/aws/aws-sdk-go-v2/service/efs/types"
)

// GetFileSystem returns the EFS filesystem created with the given token, or
// nil if it does not exist. The creation token doubles as the idempotency
// key, so re-running provisioning never creates a second filesystem.
func (c *RealClient) GetFileSystem(ctx context.Context, creationToken string) (*FileSystemInfo, error) {
	out, err := c.efsClient.DescribeFileSystems(ctx, &efs.DescribeFileSystemsInput{
		CreationToken: awssdk.String(creationToken),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe filesystem %q: %w", creationToken, err)
	}
	if len(out.FileSystems) == 0 {
		return nil, nil
	}

	fs := out.FileSystems[0]
	return &FileSystemInfo{
		ID:    awssdk.ToString(fs.FileSystemId),
		State: string(fs.LifeCycleState),
	}, nil
}

// CreateFileSystem creates an EFS filesystem and returns its ID.
func (c *RealClient) CreateFileSystem(ctx context.Context, creationToken string, tags map[string]string) (string, error) {
	out, err := c.efsClient.CreateFileSystem(ctx, &efs.CreateFileSystemInput{
		CreationToken:   awssdk.String(creationToken),
		PerformanceMode: efstypes.PerformanceModeGeneralPurpose,
		Encrypted:       awssdk.Bool(true),
		Tags:            efsTags(tags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create filesystem %q: %w", creationToken, err)
	}

	return awssdk.ToString(out.FileSystemId), nil
}

// FileSystemsByTag lists filesystems carrying the given tag.
func (c *RealClient) FileSystemsByTag(ctx context.Context, key, value string) ([]FileSystemInfo, error) {
	var systems []FileSystemInfo
	var marker *string
	for {
		out, err := c.efsClient.DescribeFileSystems(ctx, &efs.DescribeFileSystemsInput{
			Marker: marker,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list filesystems: %w", err)
		}

		for _, fs := range out.FileSystems {
			for _, tag := range fs.Tags {
				if awssdk.ToString(tag.Key) == key && awssdk.ToString(tag.Value) == value {
					systems = append(systems, FileSystemInfo{
						ID:    awssdk.ToString(fs.FileSystemId),
						State: string(fs.LifeCycleState),
					})
					break
				}
			}
		}

		if out.NextMarker == nil {
			return systems, nil
		}
		marker = out.NextMarker
	}
}

// CreateMountTarget creates a mount target for a filesystem in one subnet.
func (c *RealClient) CreateMountTarget(ctx context.Context, fsID, subnetID string, securityGroupIDs []string) (string, error) {
	out, err := c.efsClient.CreateMountTarget(ctx, &efs.CreateMountTargetInput{
		FileSystemId:   awssdk.String(fsID),
		SubnetId:       awssdk.String(subnetID),
		SecurityGroups: securityGroupIDs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create mount target for %s in %s: %w", fsID, subnetID, err)
	}

	return awssdk.ToString(out.MountTargetId), nil
}

// MountTargets lists the mount targets of a filesystem.
func (c *RealClient) MountTargets(ctx context.Context, fsID string) ([]MountTargetInfo, error) {
	out, err := c.efsClient.DescribeMountTargets(ctx, &efs.DescribeMountTargetsInput{
		FileSystemId: awssdk.String(fsID),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list mount targets for %s: %w", fsID, err)
	}

	targets := make([]MountTargetInfo, 0, len(out.MountTargets))
	for _, mt := range out.MountTargets {
		targets = append(targets, MountTargetInfo{
			ID:    awssdk.ToString(mt.MountTargetId),
			State: string(mt.LifeCycleState),
		})
	}
	return targets, nil
}

// DeleteMountTarget deletes a mount target. Mount targets must be gone
// before the filesystem itself can be deleted.
func (c *RealClient) DeleteMountTarget(ctx context.Context, id string) error {
	_, err := c.efsClient.DeleteMountTarget(ctx, &efs.DeleteMountTargetInput{
		MountTargetId: awssdk.String(id),
	})
	return err
}

// DeleteFileSystem deletes an EFS filesystem.
func (c *RealClient) DeleteFileSystem(ctx context.Context, id string) error {
	_, err := c.efsClient.DeleteFileSystem(ctx, &efs.DeleteFileSystemInput{
		FileSystemId: awssdk.String(id),
	})
	return err
}

func efsTags(tags map[string]string) []efstypes.Tag {
	out := make([]efstypes.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, efstypes.Tag{
			Key:   awssdk.String(k),
			Value: awssdk.String(tags[k]),
		})
	}
	return out
}
