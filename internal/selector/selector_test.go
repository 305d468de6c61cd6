package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(region, instanceType string, price float64) Candidate {
	arch, _ := FamilyArchitecture(instanceType)
	return Candidate{
		Region:            region,
		InstanceType:      instanceType,
		Architecture:      arch,
		HourlyPrice:       price,
		CapacityAvailable: true,
		Spot:              true,
	}
}

func TestSelect_PicksBestPricePerformance(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		candidate("us-east-1", "g4dn.xlarge", 0.21),
		candidate("us-east-1", "g5g.xlarge", 0.18),
	}

	got, err := Select(candidates, 0.25, Profile{}, Options{PreferredRegion: "us-east-1"})
	require.NoError(t, err)
	assert.Equal(t, "g5g.xlarge", got.InstanceType)
}

func TestSelect_AllOverBudget(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		candidate("us-east-1", "g4dn.xlarge", 0.21),
		candidate("us-east-1", "g5g.xlarge", 0.18),
	}

	_, err := Select(candidates, 0.10, Profile{}, Options{})
	var budgetErr *BudgetExceededError
	require.ErrorAs(t, err, &budgetErr)
	assert.InDelta(t, 0.18, budgetErr.CheapestPrice, 1e-9)
}

func TestSelect_EmptyCandidates(t *testing.T) {
	t.Parallel()

	_, err := Select(nil, 1.0, Profile{Name: "gpu-standard"}, Options{})
	var capErr *NoCapacityError
	require.ErrorAs(t, err, &capErr)
}

func TestSelect_Deterministic(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		candidate("us-west-2", "g4dn.xlarge", 0.25),
		candidate("us-east-1", "g4dn.xlarge", 0.25),
		candidate("eu-west-1", "g4dn.xlarge", 0.25),
	}

	first, err := Select(candidates, 1.0, Profile{}, Options{PreferredRegion: "us-east-1"})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Select(candidates, 1.0, Profile{}, Options{PreferredRegion: "us-east-1"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	// Identical score and price: preferred region wins the tie.
	assert.Equal(t, "us-east-1", first.Region)
}

func TestSelect_TieBrokenByLowerPrice(t *testing.T) {
	t.Parallel()

	// Same family, so equal performance index; the cheaper type has the
	// higher score and must win.
	candidates := []Candidate{
		candidate("us-east-1", "g4dn.2xlarge", 0.40),
		candidate("us-east-1", "g4dn.xlarge", 0.21),
	}

	got, err := Select(candidates, 1.0, Profile{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "g4dn.xlarge", got.InstanceType)
}

func TestSelect_ArchitectureFilter(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		candidate("us-east-1", "g5g.xlarge", 0.18),
		candidate("us-east-1", "g4dn.xlarge", 0.21),
	}

	got, err := Select(candidates, 1.0, Profile{Architectures: []Architecture{ArchX86}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "g4dn.xlarge", got.InstanceType)
}

func TestSelect_GPUMemoryFilter(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		candidate("us-east-1", "g4ad.xlarge", 0.10), // 8 GiB, excluded
		candidate("us-east-1", "g5.xlarge", 0.50),   // 24 GiB
	}

	got, err := Select(candidates, 1.0, Profile{MinGPUMemoryGiB: 24}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "g5.xlarge", got.InstanceType)
}

func TestSelect_SkipsCandidatesWithoutCapacity(t *testing.T) {
	t.Parallel()

	best := candidate("us-east-1", "g5g.xlarge", 0.18)
	best.CapacityAvailable = false
	fallback := candidate("us-west-2", "g4dn.xlarge", 0.21)

	got, err := Select([]Candidate{best, fallback}, 1.0, Profile{}, Options{PreferredRegion: "us-east-1"})
	require.NoError(t, err)
	assert.Equal(t, "g4dn.xlarge", got.InstanceType)
	assert.Equal(t, "us-west-2", got.Region)
}

func TestSelect_NoCapacityAnywhere(t *testing.T) {
	t.Parallel()

	a := candidate("us-east-1", "g4dn.xlarge", 0.21)
	a.CapacityAvailable = false
	b := candidate("us-west-2", "g5g.xlarge", 0.18)
	b.CapacityAvailable = false

	_, err := Select([]Candidate{a, b}, 1.0, Profile{}, Options{})
	var capErr *NoCapacityError
	require.ErrorAs(t, err, &capErr)
}

func TestSelect_UnknownFamilyNeverMatches(t *testing.T) {
	t.Parallel()

	_, err := Select([]Candidate{candidate("us-east-1", "t3.micro", 0.01)}, 1.0, Profile{}, Options{})
	var capErr *NoCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.False(t, errors.Is(err, nil))
}

func TestSelect_BelowMinScoreUsedOnlyAsLastResort(t *testing.T) {
	t.Parallel()

	// A price this high pushes the score below any sane threshold; the
	// candidate must still be returned when it is the only one with
	// capacity.
	expensive := candidate("us-east-1", "g4dn.xlarge", 5.00)

	got, err := Select([]Candidate{expensive}, 10.0, Profile{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "g4dn.xlarge", got.InstanceType)
}

func TestFamily(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "g5g", Family("g5g.xlarge"))
	assert.Equal(t, "g4dn", Family("g4dn.2xlarge"))
	assert.Equal(t, "weird", Family("weird"))
}

func TestKnownInstanceTypes_StableOrder(t *testing.T) {
	t.Parallel()

	first := KnownInstanceTypes()
	second := KnownInstanceTypes()
	assert.Equal(t, first, second)
	assert.Contains(t, first, "g4dn.xlarge")
	assert.Contains(t, first, "g5g.xlarge")
}
