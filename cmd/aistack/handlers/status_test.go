package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/aistack/internal/config"
	"github.com/imamik/aistack/internal/health"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

func stubStatus(t *testing.T, mock *awsplatform.MockClient, cfg *config.DeploymentConfig) *int {
	t.Helper()

	origClient := newCloudClient
	origResolve := resolveConfig
	origProbe := probeStack
	t.Cleanup(func() {
		newCloudClient = origClient
		resolveConfig = origResolve
		probeStack = origProbe
	})

	newCloudClient = func(context.Context, string) (awsplatform.CloudManager, error) {
		return mock, nil
	}
	resolveConfig = func(context.Context, awsplatform.ParameterStore, string, config.Overrides) (*config.DeploymentConfig, error) {
		return cfg, nil
	}

	probes := 0
	probeStack = func(context.Context, string) *health.Result {
		probes++
		return healthyResult()
	}
	return &probes
}

func runningInstanceMock() *awsplatform.MockClient {
	return &awsplatform.MockClient{
		InstancesByTagFunc: func(context.Context, string, string) ([]awsplatform.InstanceInfo, error) {
			return []awsplatform.InstanceInfo{
				{ID: "i-1", Type: "g4dn.xlarge", State: "running", PublicIP: "198.51.100.7"},
			}, nil
		},
	}
}

func TestStatus_ProbesRunningInstance(t *testing.T) {
	cfg := testDeployConfig()
	probes := stubStatus(t, runningInstanceMock(), cfg)

	err := Status(context.Background(), StatusOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, *probes)
}

func TestStatus_SkipHealth(t *testing.T) {
	cfg := testDeployConfig()
	probes := stubStatus(t, runningInstanceMock(), cfg)

	err := Status(context.Background(), StatusOptions{SkipHealth: true})
	require.NoError(t, err)
	assert.Equal(t, 0, *probes)
}

func TestStatus_FindsInstanceInFallbackRegion(t *testing.T) {
	t.Setenv("AISTACK_REGION", "")
	t.Setenv("AWS_REGION", "")

	cfg := testDeployConfig()
	cfg.FallbackRegions = []string{"us-west-2"}

	east := &awsplatform.MockClient{}
	probes := stubStatus(t, east, cfg)
	newCloudClient = func(_ context.Context, region string) (awsplatform.CloudManager, error) {
		if region == "us-west-2" {
			return runningInstanceMock(), nil
		}
		return east, nil
	}

	err := Status(context.Background(), StatusOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, *probes)
}

func TestStatus_EmptyStack(t *testing.T) {
	cfg := testDeployConfig()
	probes := stubStatus(t, &awsplatform.MockClient{}, cfg)

	err := Status(context.Background(), StatusOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, *probes)
}
