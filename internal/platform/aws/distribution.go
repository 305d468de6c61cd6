package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
)

// cachingDisabledPolicyID is the AWS managed CachingDisabled cache policy.
// The stack serves dynamic API traffic, so the CDN only terminates TLS close
// to the user.
const cachingDisabledPolicyID = "4135ea2d-6df8-44a3-9df3-4b5a84be39ad"

// distributionComment returns the marker stored in the distribution comment.
// ListDistributions exposes no tags, so discovery matches on this comment;
// the stack tag is still written for account-wide tag tooling.
func distributionComment(stack string) string {
	return "aistack:" + stack
}

// GetDistributionByStack returns the stack's distribution, or nil if absent.
func (c *RealClient) GetDistributionByStack(ctx context.Context, stack string) (*DistributionInfo, error) {
	comment := distributionComment(stack)
	var marker *string
	for {
		out, err := c.cfClient.ListDistributions(ctx, &cloudfront.ListDistributionsInput{
			Marker: marker,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list distributions: %w", err)
		}
		if out.DistributionList == nil {
			return nil, nil
		}

		for _, item := range out.DistributionList.Items {
			if awssdk.ToString(item.Comment) == comment {
				return &DistributionInfo{
					ID:         awssdk.ToString(item.Id),
					DomainName: awssdk.ToString(item.DomainName),
					Status:     awssdk.ToString(item.Status),
					Enabled:    awssdk.ToBool(item.Enabled),
				}, nil
			}
		}

		if !awssdk.ToBool(out.DistributionList.IsTruncated) {
			return nil, nil
		}
		marker = out.DistributionList.NextMarker
	}
}

// CreateDistribution creates a distribution fronting the given origin domain.
func (c *RealClient) CreateDistribution(ctx context.Context, stack, originDomain string) (*DistributionInfo, error) {
	originID := stack + "-origin"
	cfg := &cftypes.DistributionConfig{
		CallerReference: awssdk.String(distributionComment(stack)),
		Comment:         awssdk.String(distributionComment(stack)),
		Enabled:         awssdk.Bool(true),
		Origins: &cftypes.Origins{
			Quantity: awssdk.Int32(1),
			Items: []cftypes.Origin{{
				Id:         awssdk.String(originID),
				DomainName: awssdk.String(originDomain),
				CustomOriginConfig: &cftypes.CustomOriginConfig{
					HTTPPort:             awssdk.Int32(80),
					HTTPSPort:            awssdk.Int32(443),
					OriginProtocolPolicy: cftypes.OriginProtocolPolicyHttpOnly,
				},
			}},
		},
		DefaultCacheBehavior: &cftypes.DefaultCacheBehavior{
			TargetOriginId:       awssdk.String(originID),
			ViewerProtocolPolicy: cftypes.ViewerProtocolPolicyRedirectToHttps,
			CachePolicyId:        awssdk.String(cachingDisabledPolicyID),
			AllowedMethods: &cftypes.AllowedMethods{
				Quantity: awssdk.Int32(7),
				Items: []cftypes.Method{
					cftypes.MethodGet, cftypes.MethodHead, cftypes.MethodOptions,
					cftypes.MethodPut, cftypes.MethodPost, cftypes.MethodPatch,
					cftypes.MethodDelete,
				},
			},
		},
	}

	tags := StackTags(stack)
	items := make([]cftypes.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		items = append(items, cftypes.Tag{
			Key:   awssdk.String(k),
			Value: awssdk.String(tags[k]),
		})
	}

	out, err := c.cfClient.CreateDistributionWithTags(ctx, &cloudfront.CreateDistributionWithTagsInput{
		DistributionConfigWithTags: &cftypes.DistributionConfigWithTags{
			DistributionConfig: cfg,
			Tags:               &cftypes.Tags{Items: items},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create distribution for %q: %w", stack, err)
	}

	return &DistributionInfo{
		ID:         awssdk.ToString(out.Distribution.Id),
		DomainName: awssdk.ToString(out.Distribution.DomainName),
		Status:     awssdk.ToString(out.Distribution.Status),
		Enabled:    true,
	}, nil
}

// DisableDistribution turns the distribution off. CloudFront requires a
// distribution to be disabled and fully deployed before it can be deleted.
func (c *RealClient) DisableDistribution(ctx context.Context, id string) error {
	out, err := c.cfClient.GetDistributionConfig(ctx, &cloudfront.GetDistributionConfigInput{
		Id: awssdk.String(id),
	})
	if err != nil {
		return err
	}

	if !awssdk.ToBool(out.DistributionConfig.Enabled) {
		return nil
	}

	out.DistributionConfig.Enabled = awssdk.Bool(false)
	_, err = c.cfClient.UpdateDistribution(ctx, &cloudfront.UpdateDistributionInput{
		Id:                 awssdk.String(id),
		IfMatch:            out.ETag,
		DistributionConfig: out.DistributionConfig,
	})
	if err != nil {
		return fmt.Errorf("failed to disable distribution %s: %w", id, err)
	}
	return nil
}

// WaitDistributionDeployed polls until the distribution reaches Deployed
// status or the timeout elapses.
func (c *RealClient) WaitDistributionDeployed(ctx context.Context, id string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		out, err := c.cfClient.GetDistribution(ctx, &cloudfront.GetDistributionInput{
			Id: awssdk.String(id),
		})
		if err != nil {
			return err
		}
		if awssdk.ToString(out.Distribution.Status) == "Deployed" {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("distribution %s not deployed after %v", id, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(15 * time.Second):
		}
	}
}

// DeleteDistribution deletes a disabled, deployed distribution.
func (c *RealClient) DeleteDistribution(ctx context.Context, id string) error {
	out, err := c.cfClient.GetDistribution(ctx, &cloudfront.GetDistributionInput{
		Id: awssdk.String(id),
	})
	if err != nil {
		return err
	}

	_, err = c.cfClient.DeleteDistribution(ctx, &cloudfront.DeleteDistributionInput{
		Id:      awssdk.String(id),
		IfMatch: out.ETag,
	})
	return err
}
