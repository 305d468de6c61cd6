package aws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// spotPriceWindow bounds how far back price history is read. Recent prices
// are all the selector needs; a long window only slows the probe down.
const spotPriceWindow = 2 * time.Hour

// SpotPrices returns the cheapest current spot price per instance type in
// the given region, with the availability zone it was observed in.
func (c *RealClient) SpotPrices(ctx context.Context, region string, instanceTypes []string) (map[string]ZonePrice, error) {
	types := make([]ec2types.InstanceType, 0, len(instanceTypes))
	for _, t := range instanceTypes {
		types = append(types, ec2types.InstanceType(t))
	}

	client := c.ec2For(region)
	start := time.Now().Add(-spotPriceWindow)

	prices := make(map[string]ZonePrice)
	var next *string
	for {
		out, err := client.DescribeSpotPriceHistory(ctx, &ec2.DescribeSpotPriceHistoryInput{
			InstanceTypes:       types,
			ProductDescriptions: []string{"Linux/UNIX"},
			StartTime:           awssdk.Time(start),
			NextToken:           next,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch spot prices in %s: %w", region, err)
		}

		for _, entry := range out.SpotPriceHistory {
			price, err := strconv.ParseFloat(awssdk.ToString(entry.SpotPrice), 64)
			if err != nil {
				continue
			}
			instanceType := string(entry.InstanceType)
			current, ok := prices[instanceType]
			if !ok || price < current.Price {
				prices[instanceType] = ZonePrice{
					Zone:  awssdk.ToString(entry.AvailabilityZone),
					Price: price,
				}
			}
		}

		if out.NextToken == nil || awssdk.ToString(out.NextToken) == "" {
			return prices, nil
		}
		next = out.NextToken
	}
}

// OfferedInstanceTypes reports which of the given instance types can
// currently be launched in the region.
func (c *RealClient) OfferedInstanceTypes(ctx context.Context, region string, instanceTypes []string) (map[string]bool, error) {
	client := c.ec2For(region)

	offered := make(map[string]bool, len(instanceTypes))
	for _, t := range instanceTypes {
		offered[t] = false
	}

	var next *string
	for {
		out, err := client.DescribeInstanceTypeOfferings(ctx, &ec2.DescribeInstanceTypeOfferingsInput{
			LocationType: ec2types.LocationTypeRegion,
			Filters: []ec2types.Filter{{
				Name:   awssdk.String("instance-type"),
				Values: instanceTypes,
			}},
			NextToken: next,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch instance type offerings in %s: %w", region, err)
		}

		for _, offering := range out.InstanceTypeOfferings {
			offered[string(offering.InstanceType)] = true
		}

		if out.NextToken == nil {
			return offered, nil
		}
		next = out.NextToken
	}
}

// DefaultVPC returns the region's default VPC ID.
func (c *RealClient) DefaultVPC(ctx context.Context) (string, error) {
	out, err := c.ec2Client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("is-default"),
			Values: []string{"true"},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe default VPC: %w", err)
	}
	if len(out.Vpcs) == 0 {
		return "", fmt.Errorf("no default VPC in region %s", c.region)
	}

	return awssdk.ToString(out.Vpcs[0].VpcId), nil
}

// SubnetIDs returns the subnet IDs of a VPC.
func (c *RealClient) SubnetIDs(ctx context.Context, vpcID string) ([]string, error) {
	out, err := c.ec2Client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("vpc-id"),
			Values: []string{vpcID},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe subnets of %s: %w", vpcID, err)
	}

	ids := make([]string, 0, len(out.Subnets))
	for _, s := range out.Subnets {
		ids = append(ids, awssdk.ToString(s.SubnetId))
	}
	return ids, nil
}
