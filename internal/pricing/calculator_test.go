package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/aistack/internal/config"
)

func testAncillary() AncillaryPrices {
	return AncillaryPrices{
		ALBHourly:      0.0225,
		EFSPerGiBMonth: 0.30,
		AssumedEFSGiB:  20,
	}
}

func TestCalculate_SpotWithAllComponents(t *testing.T) {
	t.Parallel()

	cfg := &config.DeploymentConfig{
		Stack:          "prod",
		Region:         "us-east-1",
		Mode:           config.ModeSpot,
		EnableALB:      true,
		EnableSharedFS: true,
	}

	calc := NewCalculatorWithPrices(testAncillary())
	e := calc.Calculate(cfg, "g4dn.xlarge", 0.35)

	require.Len(t, e.Items, 3)
	// 0.35*730 + 0.0225*730 + 0.30*20 = 255.50 + 16.425 + 6.00
	assert.InDelta(t, 277.925, e.MonthlyTotal, 1e-6)
	assert.InDelta(t, e.MonthlyTotal*12, e.AnnualCost(), 1e-6)

	// On-demand list price is 1.19; spot at 0.35 saves the difference.
	assert.InDelta(t, (1.19-0.35)*HoursPerMonth, e.SpotSavings, 1e-6)
}

func TestCalculate_OnDemandMinimal(t *testing.T) {
	t.Parallel()

	cfg := &config.DeploymentConfig{
		Stack:  "dev",
		Region: "us-east-1",
		Mode:   config.ModeOnDemand,
	}

	calc := NewCalculatorWithPrices(testAncillary())
	e := calc.Calculate(cfg, "g4dn.xlarge", 1.19)

	require.Len(t, e.Items, 1)
	assert.Equal(t, "Compute", e.Items[0].Description)
	assert.InDelta(t, 1.19*HoursPerMonth, e.MonthlyTotal, 1e-6)
	assert.Zero(t, e.SpotSavings)
}

func TestCalculate_SpotSavingsOnlyWhenCheaper(t *testing.T) {
	t.Parallel()

	cfg := &config.DeploymentConfig{Stack: "x", Mode: config.ModeSpot}
	calc := NewCalculator()

	// Spot priced above list happens during capacity crunches.
	e := calc.Calculate(cfg, "g4dn.xlarge", 1.50)
	assert.Zero(t, e.SpotSavings)

	// Unknown type has no list price to compare against.
	e = calc.Calculate(cfg, "g7.xlarge", 0.10)
	assert.Zero(t, e.SpotSavings)
}

func TestFormatter(t *testing.T) {
	t.Parallel()

	cfg := &config.DeploymentConfig{
		Stack:     "prod",
		Region:    "us-east-1",
		Mode:      config.ModeSpot,
		EnableALB: true,
	}
	e := NewCalculatorWithPrices(testAncillary()).Calculate(cfg, "g5g.xlarge", 0.18)

	f := NewFormatter()

	full := f.Format(e)
	assert.Contains(t, full, "prod")
	assert.Contains(t, full, "g5g.xlarge")
	assert.Contains(t, full, "Load Balancer")
	assert.Contains(t, full, "Spot saves")

	compact := f.FormatCompact(e)
	assert.Contains(t, compact, "prod")
	assert.Contains(t, compact, "/mo")

	jsonOut := f.FormatJSON(e)
	assert.Contains(t, jsonOut, `"monthly_total"`)
	assert.Contains(t, jsonOut, `"g5g.xlarge"`)
}
