package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/aistack/internal/config"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

func stubCost(t *testing.T, mock *awsplatform.MockClient, cfg *config.DeploymentConfig) {
	t.Helper()

	origClient := newCloudClient
	origResolve := resolveConfig
	t.Cleanup(func() {
		newCloudClient = origClient
		resolveConfig = origResolve
	})

	newCloudClient = func(context.Context, string) (awsplatform.CloudManager, error) {
		return mock, nil
	}
	resolveConfig = func(_ context.Context, params awsplatform.ParameterStore, _ string, _ config.Overrides) (*config.DeploymentConfig, error) {
		return cfg, nil
	}
}

func TestCost_Live(t *testing.T) {
	cfg := testDeployConfig()
	mock := spotPriceMock(map[string]float64{"g4dn.xlarge": 0.21})
	stubCost(t, mock, cfg)

	err := Cost(context.Background(), CostOptions{JSON: true})
	require.NoError(t, err)
	assert.Contains(t, mock.CallLog(), "SpotPrices:us-east-1")
}

func TestCost_Offline(t *testing.T) {
	cfg := testDeployConfig()
	mock := &awsplatform.MockClient{}
	stubCost(t, mock, cfg)

	err := Cost(context.Background(), CostOptions{Offline: true, Compact: true})
	require.NoError(t, err)

	// Offline estimation makes no cloud calls at all.
	assert.Empty(t, mock.CallLog())
}

func TestCost_LiveFallsBackToStatic(t *testing.T) {
	// No spot history anywhere: the live pass finds no candidates and the
	// estimate falls back to the static table instead of failing.
	cfg := testDeployConfig()
	mock := spotPriceMock(map[string]float64{})
	stubCost(t, mock, cfg)

	err := Cost(context.Background(), CostOptions{Compact: true})
	require.NoError(t, err)
}

func TestSelectStatic_OnDemandBudget(t *testing.T) {
	cfg := testDeployConfig()
	cfg.Mode = config.ModeOnDemand
	cfg.Budget = 1.00

	winner, err := selectStatic(cfg)
	require.NoError(t, err)

	// Only the sub-dollar families fit; g5g wins on price-performance.
	assert.Equal(t, "g5g.xlarge", winner.InstanceType)
	assert.InDelta(t, 0.75, winner.HourlyPrice, 0.001)
}
