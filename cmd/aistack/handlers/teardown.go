package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/aistack/internal/config"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
	"github.com/imamik/aistack/internal/provisioning/teardown"
)

// Destroyer interface for testing - matches teardown.Engine.
type Destroyer interface {
	Run(ctx context.Context) (*teardown.Report, error)
}

// newTeardownEngine creates the teardown engine - can be replaced in tests.
var newTeardownEngine = func(cloud awsplatform.CloudManager, stack string) Destroyer {
	engine := teardown.NewEngine(cloud, stack)
	engine.DistributionWait = config.LoadTimeouts().DistributionWait
	return engine
}

// TeardownOptions carries the teardown command's inputs.
type TeardownOptions struct {
	StackFile string
	Overrides config.Overrides
}

// Teardown destroys every cloud resource belonging to the stack.
//
// Resources are discovered by tag, never from local state, and deleted in
// dependency order. Discovery sweeps the preferred region and every fallback
// region: a deployment that landed in a fallback region after a capacity
// miss is found and removed the same as one in the preferred region. A
// blocked deletion halts the pass with the resource named; re-running after
// the cause is fixed resumes where it stopped.
func Teardown(ctx context.Context, opts TeardownOptions) error {
	hint := regionHint(opts.Overrides)
	client, err := newCloudClient(ctx, hint)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(ctx, client, opts.StackFile, opts.Overrides)
	if err != nil {
		return err
	}

	var removed []string
	var runErr error
	for _, region := range cfg.Regions() {
		regionClient := client
		if region != hint {
			if regionClient, err = newCloudClient(ctx, region); err != nil {
				return err
			}
		}

		log.Printf("Tearing down stack %q in %s...", cfg.Stack, region)
		report, err := newTeardownEngine(regionClient, cfg.Stack).Run(ctx)
		if report != nil {
			removed = append(removed, report.Deleted...)
		}
		if err != nil {
			runErr = fmt.Errorf("teardown failed in %s: %w", region, err)
			break
		}
	}

	if len(removed) > 0 {
		fmt.Printf("\nRemoved %d resources:\n", len(removed))
		for _, entry := range removed {
			fmt.Printf("  %s\n", entry)
		}
	}
	if runErr != nil {
		return runErr
	}

	log.Printf("Stack %q destroyed successfully", cfg.Stack)
	return nil
}
