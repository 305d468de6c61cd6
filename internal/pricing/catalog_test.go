package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsplatform "github.com/imamik/aistack/internal/platform/aws"
	"github.com/imamik/aistack/internal/selector"
)

func TestCandidates_SpotMergesRegionsDeterministically(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		SpotPricesFunc: func(_ context.Context, region string, _ []string) (map[string]awsplatform.ZonePrice, error) {
			switch region {
			case "us-east-1":
				return map[string]awsplatform.ZonePrice{
					"g4dn.xlarge": {Zone: "us-east-1a", Price: 0.21},
				}, nil
			case "us-west-2":
				return map[string]awsplatform.ZonePrice{
					"g5g.xlarge": {Zone: "us-west-2b", Price: 0.18},
				}, nil
			}
			return nil, nil
		},
	}

	catalog := NewAWSCatalog(mock)
	first, err := catalog.Candidates(context.Background(), []string{"us-west-2", "us-east-1"}, true)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Sorted by region then type regardless of which probe finished first.
	assert.Equal(t, "us-east-1", first[0].Region)
	assert.Equal(t, "g4dn.xlarge", first[0].InstanceType)
	assert.Equal(t, "us-west-2", first[1].Region)
	assert.Equal(t, "g5g.xlarge", first[1].InstanceType)
	assert.Equal(t, "us-west-2b", first[1].Zone)
	assert.True(t, first[1].Spot)
	assert.Equal(t, selector.ArchARM64, first[1].Architecture)

	for i := 0; i < 5; i++ {
		again, err := catalog.Candidates(context.Background(), []string{"us-west-2", "us-east-1"}, true)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCandidates_OnDemandUsesStaticTable(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{}

	catalog := NewAWSCatalog(mock)
	got, err := catalog.Candidates(context.Background(), []string{"eu-west-1"}, false)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	byType := make(map[string]selector.Candidate, len(got))
	for _, c := range got {
		assert.False(t, c.Spot)
		assert.True(t, c.CapacityAvailable)
		byType[c.InstanceType] = c
	}
	assert.InDelta(t, 1.19, byType["g4dn.xlarge"].HourlyPrice, 1e-9)
	assert.InDelta(t, 2.38, byType["g4dn.2xlarge"].HourlyPrice, 1e-9)
}

func TestCandidates_TypeWithoutSpotHistorySkipped(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		SpotPricesFunc: func(context.Context, string, []string) (map[string]awsplatform.ZonePrice, error) {
			return map[string]awsplatform.ZonePrice{
				"g5.xlarge": {Zone: "us-east-1a", Price: 0.55},
			}, nil
		},
	}

	catalog := NewAWSCatalog(mock)
	got, err := catalog.Candidates(context.Background(), []string{"us-east-1"}, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "g5.xlarge", got[0].InstanceType)
}

func TestCandidates_UnofferedTypeCarriesNoCapacity(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		OfferedInstanceTypesFunc: func(_ context.Context, _ string, instanceTypes []string) (map[string]bool, error) {
			offered := make(map[string]bool, len(instanceTypes))
			for _, it := range instanceTypes {
				offered[it] = it != "g4dn.xlarge"
			}
			return offered, nil
		},
		SpotPricesFunc: func(context.Context, string, []string) (map[string]awsplatform.ZonePrice, error) {
			return map[string]awsplatform.ZonePrice{
				"g4dn.xlarge": {Zone: "us-east-1a", Price: 0.21},
				"g5g.xlarge":  {Zone: "us-east-1b", Price: 0.18},
			}, nil
		},
	}

	catalog := NewAWSCatalog(mock)
	got, err := catalog.Candidates(context.Background(), []string{"us-east-1"}, true)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, c := range got {
		if c.InstanceType == "g4dn.xlarge" {
			assert.False(t, c.CapacityAvailable)
		} else {
			assert.True(t, c.CapacityAvailable)
		}
	}
}

func TestCandidates_PartialRegionFailureTolerated(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		OfferedInstanceTypesFunc: func(_ context.Context, region string, instanceTypes []string) (map[string]bool, error) {
			if region == "eu-central-1" {
				return nil, errors.New("endpoint unreachable")
			}
			offered := make(map[string]bool, len(instanceTypes))
			for _, it := range instanceTypes {
				offered[it] = true
			}
			return offered, nil
		},
		SpotPricesFunc: func(context.Context, string, []string) (map[string]awsplatform.ZonePrice, error) {
			return map[string]awsplatform.ZonePrice{
				"g4dn.xlarge": {Zone: "a", Price: 0.21},
			}, nil
		},
	}

	catalog := NewAWSCatalog(mock)
	got, err := catalog.Candidates(context.Background(), []string{"us-east-1", "eu-central-1"}, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "us-east-1", got[0].Region)
}

func TestCandidates_AllRegionsFailing(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		OfferedInstanceTypesFunc: func(context.Context, string, []string) (map[string]bool, error) {
			return nil, errors.New("endpoint unreachable")
		},
	}

	catalog := NewAWSCatalog(mock)
	_, err := catalog.Candidates(context.Background(), []string{"us-east-1", "us-west-2"}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 regions")
}

func TestOnDemandPrice(t *testing.T) {
	t.Parallel()

	price, ok := OnDemandPrice("g4dn.xlarge")
	require.True(t, ok)
	assert.InDelta(t, 1.19, price, 1e-9)

	_, ok = OnDemandPrice("t3.micro")
	assert.False(t, ok)
}
