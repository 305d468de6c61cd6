package pricing

import (
	"fmt"

	"github.com/imamik/aistack/internal/config"
)

// HoursPerMonth is the billing convention for converting hourly prices to
// monthly estimates.
const HoursPerMonth = 730

// AncillaryPrices contains static prices for the non-compute stack parts.
type AncillaryPrices struct {
	// ALBHourly is the base hourly price for an application load balancer,
	// excluding capacity units.
	ALBHourly float64

	// EFSPerGiBMonth is the standard-class storage price per GiB-month.
	EFSPerGiBMonth float64

	// AssumedEFSGiB is the storage volume assumed for the estimate. Actual
	// usage is metered; this only sizes the projection.
	AssumedEFSGiB int
}

// DefaultAncillaryPrices returns us-east-1 list prices (as of mid 2025).
func DefaultAncillaryPrices() AncillaryPrices {
	return AncillaryPrices{
		ALBHourly:      0.0225,
		EFSPerGiBMonth: 0.30,
		AssumedEFSGiB:  20,
	}
}

// Calculator produces cost estimates for a stack configuration.
type Calculator struct {
	ancillary AncillaryPrices
}

// NewCalculator creates a calculator with default ancillary pricing.
func NewCalculator() *Calculator {
	return &Calculator{ancillary: DefaultAncillaryPrices()}
}

// NewCalculatorWithPrices creates a calculator with specific ancillary
// pricing.
func NewCalculatorWithPrices(ancillary AncillaryPrices) *Calculator {
	return &Calculator{ancillary: ancillary}
}

// LineItem is a single cost line in an estimate.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Monthly     float64 `json:"monthly"`
}

// String returns a formatted representation of the line item.
func (l LineItem) String() string {
	return fmt.Sprintf("%s: %d× %s @ $%.4f = $%.2f/mo",
		l.Description, l.Quantity, l.Unit, l.UnitPrice, l.Monthly)
}

// Estimate is the projected running cost of one stack.
type Estimate struct {
	StackName    string
	Mode         config.Mode
	Region       string
	InstanceType string

	Items []LineItem

	// MonthlyTotal is the sum of all line items per month.
	MonthlyTotal float64

	// SpotSavings is the monthly amount saved versus running the same
	// instance on-demand. Zero for on-demand estimates.
	SpotSavings float64
}

// AnnualCost returns the estimated annual cost.
func (e *Estimate) AnnualCost() float64 {
	return e.MonthlyTotal * 12
}

// Calculate builds the estimate for a configuration. instanceHourly is the
// effective compute price: the observed spot price in spot mode, the
// on-demand list price otherwise.
func (c *Calculator) Calculate(cfg *config.DeploymentConfig, instanceType string, instanceHourly float64) *Estimate {
	estimate := &Estimate{
		StackName:    cfg.Stack,
		Mode:         cfg.Mode,
		Region:       cfg.Region,
		InstanceType: instanceType,
		Items:        make([]LineItem, 0, 3),
	}

	computeMonthly := instanceHourly * HoursPerMonth
	estimate.Items = append(estimate.Items, LineItem{
		Description: "Compute",
		Quantity:    1,
		Unit:        instanceType,
		UnitPrice:   instanceHourly,
		Monthly:     computeMonthly,
	})
	estimate.MonthlyTotal += computeMonthly

	if cfg.EnableALB {
		lbMonthly := c.ancillary.ALBHourly * HoursPerMonth
		estimate.Items = append(estimate.Items, LineItem{
			Description: "Load Balancer",
			Quantity:    1,
			Unit:        "alb",
			UnitPrice:   c.ancillary.ALBHourly,
			Monthly:     lbMonthly,
		})
		estimate.MonthlyTotal += lbMonthly
	}

	if cfg.EnableSharedFS {
		fsMonthly := c.ancillary.EFSPerGiBMonth * float64(c.ancillary.AssumedEFSGiB)
		estimate.Items = append(estimate.Items, LineItem{
			Description: "Shared Storage",
			Quantity:    c.ancillary.AssumedEFSGiB,
			Unit:        "GiB-month",
			UnitPrice:   c.ancillary.EFSPerGiBMonth,
			Monthly:     fsMonthly,
		})
		estimate.MonthlyTotal += fsMonthly
	}

	// CDN is priced per request and transfer volume, which nothing in the
	// configuration can predict; it is deliberately absent from the items.

	if cfg.Mode == config.ModeSpot {
		if onDemand, ok := OnDemandPrice(instanceType); ok && onDemand > instanceHourly {
			estimate.SpotSavings = (onDemand - instanceHourly) * HoursPerMonth
		}
	}

	return estimate
}
