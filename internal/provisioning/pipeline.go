package provisioning

import (
	"fmt"
	"time"

	"github.com/imamik/aistack/internal/config"
)

// Phases assembles the pipeline for a configuration. Disabled optional
// components contribute no phase at all.
func Phases(cfg *config.DeploymentConfig) []Phase {
	phases := []Phase{
		&KeyPairPhase{},
		&SecurityGroupPhase{},
		&IAMRolePhase{},
		&InstanceProfilePhase{},
	}
	if cfg.EnableSharedFS {
		phases = append(phases, &StoragePhase{})
	}
	phases = append(phases, &ComputePhase{})
	if cfg.EnableALB {
		phases = append(phases, &LoadBalancerPhase{})
	}
	if cfg.EnableCDN {
		phases = append(phases, &CDNPhase{})
	}
	return phases
}

// RunPhases executes all provisioning phases sequentially. On failure it
// returns a PartialFailureError carrying the ledger of everything already
// provisioned.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		ctx.Observer.Printf("[%s] starting", name)

		if err := phase.Provision(ctx); err != nil {
			ctx.Observer.Printf("[%s] failed: %v", name, err)
			return &PartialFailureError{
				Phase:  phase.Name(),
				Ledger: ctx.State.Ledger,
				Err:    err,
			}
		}

		ctx.Observer.Printf("[%s] completed in %v", name, time.Since(phaseStart).Round(time.Millisecond))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
