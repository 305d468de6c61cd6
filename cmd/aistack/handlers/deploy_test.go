package handlers

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/aistack/internal/config"
	"github.com/imamik/aistack/internal/health"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
	"github.com/imamik/aistack/internal/selector"
)

func testDeployConfig() *config.DeploymentConfig {
	return &config.DeploymentConfig{
		Stack:       "teststack",
		Region:      "us-east-1",
		Mode:        config.ModeSpot,
		Budget:      0.50,
		ComposeFile: "docker-compose.yml",
		Secrets: map[string]string{
			config.SecretPostgresPassword: strings.Repeat("p", 16),
			config.SecretN8NEncryptionKey: strings.Repeat("n", 16),
			config.SecretJWT:              strings.Repeat("j", 16),
		},
	}
}

func healthyResult() *health.Result {
	return &health.Result{Services: []health.ServiceResult{
		{Name: "n8n", Healthy: true},
		{Name: "ollama", Healthy: true},
		{Name: "qdrant", Healthy: true},
	}}
}

// stubDeploy swaps every factory for a deploy run against the given mock and
// returns a restore function plus the captured key file writes.
func stubDeploy(t *testing.T, mock *awsplatform.MockClient, cfg *config.DeploymentConfig) *capturedWrites {
	t.Helper()

	origClient := newCloudClient
	origResolve := resolveConfig
	origValidate := validateStack
	origWrite := writeFile
	t.Cleanup(func() {
		newCloudClient = origClient
		resolveConfig = origResolve
		validateStack = origValidate
		writeFile = origWrite
	})

	newCloudClient = func(context.Context, string) (awsplatform.CloudManager, error) {
		return mock, nil
	}
	resolveConfig = func(context.Context, awsplatform.ParameterStore, string, config.Overrides) (*config.DeploymentConfig, error) {
		return cfg, nil
	}
	validateStack = func(context.Context, string) *health.Result {
		return healthyResult()
	}

	writes := &capturedWrites{}
	writeFile = func(name string, data []byte, perm fs.FileMode) error {
		writes.names = append(writes.names, name)
		writes.perms = append(writes.perms, perm)
		writes.sizes = append(writes.sizes, len(data))
		return nil
	}
	return writes
}

type capturedWrites struct {
	names []string
	perms []fs.FileMode
	sizes []int
}

func spotPriceMock(prices map[string]float64) *awsplatform.MockClient {
	return &awsplatform.MockClient{
		SpotPricesFunc: func(_ context.Context, region string, _ []string) (map[string]awsplatform.ZonePrice, error) {
			out := map[string]awsplatform.ZonePrice{}
			for instanceType, price := range prices {
				out[instanceType] = awsplatform.ZonePrice{Zone: region + "a", Price: price}
			}
			return out, nil
		},
	}
}

func TestDeploy(t *testing.T) {
	cfg := testDeployConfig()
	mock := spotPriceMock(map[string]float64{"g4dn.xlarge": 0.21})
	writes := stubDeploy(t, mock, cfg)

	err := Deploy(context.Background(), DeployOptions{})
	require.NoError(t, err)

	// The spot request was placed for the selected type, and the generated
	// private key landed next to the stack file with tight permissions.
	assert.Contains(t, mock.CallLog(), "RequestSpotInstance:teststack-node")
	require.Len(t, writes.names, 1)
	assert.Equal(t, "teststack-key.pem", writes.names[0])
	assert.Equal(t, fs.FileMode(0600), writes.perms[0])
	assert.Greater(t, writes.sizes[0], 0)
}

func TestDeploy_ValidateOnly(t *testing.T) {
	cfg := testDeployConfig()
	mock := &awsplatform.MockClient{}
	writes := stubDeploy(t, mock, cfg)

	err := Deploy(context.Background(), DeployOptions{ValidateOnly: true})
	require.NoError(t, err)

	assert.Empty(t, mock.CallLog())
	assert.Empty(t, writes.names)
}

func TestDeploy_BudgetExceeded(t *testing.T) {
	cfg := testDeployConfig()
	mock := spotPriceMock(map[string]float64{"g4dn.xlarge": 5.00})
	stubDeploy(t, mock, cfg)

	err := Deploy(context.Background(), DeployOptions{})
	var budgetErr *selector.BudgetExceededError
	require.ErrorAs(t, err, &budgetErr)

	// Nothing was provisioned.
	for _, call := range mock.CallLog() {
		assert.NotContains(t, call, "RequestSpotInstance")
		assert.NotContains(t, call, "ImportKeyPair")
	}
}

func TestDeploy_HealthFailure(t *testing.T) {
	cfg := testDeployConfig()
	mock := spotPriceMock(map[string]float64{"g4dn.xlarge": 0.21})
	stubDeploy(t, mock, cfg)

	validateStack = func(context.Context, string) *health.Result {
		return &health.Result{Services: []health.ServiceResult{
			{Name: "n8n", Healthy: false},
			{Name: "ollama", Healthy: true},
		}}
	}

	err := Deploy(context.Background(), DeployOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n8n")
}

func TestDeploy_FallbackRegionRebuildsClient(t *testing.T) {
	t.Setenv("AISTACK_REGION", "")
	t.Setenv("AWS_REGION", "")

	cfg := testDeployConfig()
	cfg.FallbackRegions = []string{"us-west-2"}

	// Spot history exists only in the fallback region.
	mock := &awsplatform.MockClient{
		SpotPricesFunc: func(_ context.Context, region string, _ []string) (map[string]awsplatform.ZonePrice, error) {
			if region != "us-west-2" {
				return map[string]awsplatform.ZonePrice{}, nil
			}
			return map[string]awsplatform.ZonePrice{
				"g4dn.xlarge": {Zone: "us-west-2a", Price: 0.19},
			}, nil
		},
	}
	stubDeploy(t, mock, cfg)

	var clientRegions []string
	newCloudClient = func(_ context.Context, region string) (awsplatform.CloudManager, error) {
		clientRegions = append(clientRegions, region)
		return mock, nil
	}

	err := Deploy(context.Background(), DeployOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"us-east-1", "us-west-2"}, clientRegions)

	// The resolved configuration is never mutated mid-run; the fallback
	// region lives only in the run's working copy.
	assert.Equal(t, "us-east-1", cfg.Region)
}

func TestRegionHint(t *testing.T) {
	t.Setenv("AISTACK_REGION", "")
	t.Setenv("AWS_REGION", "")
	assert.Equal(t, "us-east-1", regionHint(config.Overrides{}))

	t.Setenv("AWS_REGION", "eu-central-1")
	assert.Equal(t, "eu-central-1", regionHint(config.Overrides{}))

	t.Setenv("AISTACK_REGION", "us-west-2")
	assert.Equal(t, "us-west-2", regionHint(config.Overrides{}))

	region := "ap-south-1"
	assert.Equal(t, "ap-south-1", regionHint(config.Overrides{Region: &region}))
}

func TestWorkloadProfile(t *testing.T) {
	cfg := testDeployConfig()
	cfg.Architectures = []string{"arm64"}
	cfg.MinGPUMemoryGiB = 16

	profile := workloadProfile(cfg)
	assert.Equal(t, "teststack", profile.Name)
	assert.Equal(t, []selector.Architecture{selector.ArchARM64}, profile.Architectures)
	assert.Equal(t, 16, profile.MinGPUMemoryGiB)
}
