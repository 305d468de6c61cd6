package commands

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestDeployCommand(t *testing.T) {
	cmd := Deploy()

	if cmd.Use != "deploy" {
		t.Errorf("Use = %q, want %q", cmd.Use, "deploy")
	}
	if cmd.Short == "" {
		t.Error("Short description is empty")
	}

	for _, name := range []string{
		"stack", "region", "fallback-regions", "mode", "budget",
		"min-gpu-memory", "arch", "allow-fallback", "enable-alb",
		"enable-cdn", "enable-efs", "compose-file", "image-id",
		"file", "validate-only",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
}

func TestStackFlags_OverridesOnlyChangedFlags(t *testing.T) {
	var flags stackFlags
	cmd := &cobra.Command{Use: "test"}
	flags.registerAll(cmd)

	if err := cmd.Flags().Set("budget", "0.75"); err != nil {
		t.Fatalf("Set(budget) error = %v", err)
	}
	if err := cmd.Flags().Set("enable-alb", "true"); err != nil {
		t.Fatalf("Set(enable-alb) error = %v", err)
	}

	o := flags.overrides(cmd)

	if o.Budget == nil || *o.Budget != 0.75 {
		t.Errorf("Budget override = %v, want 0.75", o.Budget)
	}
	if o.EnableALB == nil || !*o.EnableALB {
		t.Errorf("EnableALB override = %v, want true", o.EnableALB)
	}

	// Untouched flags stay nil so lower configuration layers are not
	// clobbered by flag defaults.
	if o.Stack != nil || o.Region != nil || o.Mode != nil || o.AllowFallback != nil {
		t.Errorf("unexpected overrides for unset flags: %+v", o)
	}
	if o.FallbackRegions != nil || o.Architectures != nil {
		t.Errorf("unexpected list overrides for unset flags: %+v", o)
	}
}
