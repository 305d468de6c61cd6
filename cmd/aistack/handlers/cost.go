package handlers

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/imamik/aistack/internal/config"
	"github.com/imamik/aistack/internal/pricing"
	"github.com/imamik/aistack/internal/selector"
)

// CostOptions carries the cost command's inputs.
type CostOptions struct {
	StackFile string
	Overrides config.Overrides
	JSON      bool
	Compact   bool
	Offline   bool
}

// Cost estimates the stack's monthly running cost.
//
// The estimate runs the same selection as deploy against live prices, so the
// projected instance and price match what a deployment would launch. In
// offline mode (or when the live probe fails) the estimate falls back to
// static on-demand list prices and makes no cloud calls.
func Cost(ctx context.Context, opts CostOptions) error {
	cfg, winner, err := costSelection(ctx, opts)
	if err != nil {
		return err
	}

	estimate := pricing.NewCalculator().Calculate(cfg, winner.InstanceType, winner.HourlyPrice)
	formatter := pricing.NewFormatter()

	switch {
	case opts.JSON:
		fmt.Println(formatter.FormatJSON(estimate))
	case opts.Compact:
		fmt.Println(formatter.FormatCompact(estimate))
	default:
		fmt.Print(formatter.Format(estimate))
	}
	return nil
}

// costSelection resolves the configuration and picks the instance to price.
func costSelection(ctx context.Context, opts CostOptions) (*config.DeploymentConfig, selector.Candidate, error) {
	if opts.Offline {
		cfg, err := resolveConfig(ctx, nil, opts.StackFile, opts.Overrides)
		if err != nil {
			return nil, selector.Candidate{}, err
		}
		winner, err := selectStatic(cfg)
		return cfg, winner, err
	}

	client, err := newCloudClient(ctx, regionHint(opts.Overrides))
	if err != nil {
		return nil, selector.Candidate{}, err
	}
	cfg, err := resolveConfig(ctx, client, opts.StackFile, opts.Overrides)
	if err != nil {
		return nil, selector.Candidate{}, err
	}

	candidates, err := newCatalog(client).Candidates(ctx, cfg.Regions(), cfg.Spot())
	if err == nil {
		winner, selErr := selector.Select(candidates, cfg.Budget, workloadProfile(cfg), selector.Options{
			PreferredRegion: cfg.Region,
		})
		if selErr == nil {
			return cfg, winner, nil
		}
		err = selErr
	}

	log.Printf("Warning: live price probe failed (%v), using static list prices", err)
	winner, err := selectStatic(cfg)
	return cfg, winner, err
}

// selectStatic picks an instance from the static on-demand price table using
// the normal selection logic, with every type assumed launchable.
func selectStatic(cfg *config.DeploymentConfig) (selector.Candidate, error) {
	var candidates []selector.Candidate
	for _, instanceType := range selector.KnownInstanceTypes() {
		price, ok := pricing.OnDemandPrice(instanceType)
		if !ok {
			continue
		}
		arch, known := selector.FamilyArchitecture(instanceType)
		if !known {
			continue
		}
		candidates = append(candidates, selector.Candidate{
			Region:            cfg.Region,
			InstanceType:      instanceType,
			Architecture:      arch,
			HourlyPrice:       price,
			CapacityAvailable: true,
		})
	}

	// The static table holds on-demand list prices. A spot budget does not
	// bound them; the estimate then shows what the best-value instance
	// would cost, not whether it fits the spot ceiling.
	budget := cfg.Budget
	if cfg.Spot() {
		budget = math.MaxFloat64
	}

	return selector.Select(candidates, budget, workloadProfile(cfg), selector.Options{
		PreferredRegion: cfg.Region,
	})
}
