package aws

import (
	"context"
	"fmt"
	"sync"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// RealClient implements CloudManager against the live AWS APIs.
// All service clients share one credential chain; EC2 clients for fallback
// regions are created lazily for cross-region capacity probes.
type RealClient struct {
	cfg    awssdk.Config
	region string

	ec2Client *ec2.Client
	iamClient *iam.Client
	efsClient *efs.Client
	elbClient *elbv2.Client
	cfClient  *cloudfront.Client
	ssmClient *ssm.Client

	mu        sync.Mutex
	regionEC2 map[string]*ec2.Client
}

// Ensure interface compliance.
var _ CloudManager = (*RealClient)(nil)

// NewRealClient creates a client bound to the given region using the default
// credential chain (environment, shared config, instance role).
func NewRealClient(ctx context.Context, region string) (*RealClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &RealClient{
		cfg:       cfg,
		region:    region,
		ec2Client: ec2.NewFromConfig(cfg),
		iamClient: iam.NewFromConfig(cfg),
		efsClient: efs.NewFromConfig(cfg),
		elbClient: elbv2.NewFromConfig(cfg),
		cfClient:  cloudfront.NewFromConfig(cfg),
		ssmClient: ssm.NewFromConfig(cfg),
		regionEC2: make(map[string]*ec2.Client),
	}, nil
}

// Region returns the region this client provisions into.
func (c *RealClient) Region() string {
	return c.region
}

// ec2For returns an EC2 client for the given region, reusing the primary
// client when the region matches.
func (c *RealClient) ec2For(region string) *ec2.Client {
	if region == "" || region == c.region {
		return c.ec2Client
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.regionEC2[region]; ok {
		return client
	}

	cfg := c.cfg.Copy()
	cfg.Region = region
	client := ec2.NewFromConfig(cfg)
	c.regionEC2[region] = client
	return client
}
