package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/aistack/internal/config"
)

// stackFlags holds the configuration flags shared by the stack commands.
// Only flags the operator actually set become overrides; everything else
// falls through to the environment, the stack file, the parameter store and
// the defaults, in that order.
type stackFlags struct {
	stack           string
	region          string
	fallbackRegions []string
	mode            string
	budget          float64
	minGPUMemory    int
	architectures   []string
	allowFallback   bool
	enableALB       bool
	enableCDN       bool
	enableSharedFS  bool
	composeFile     string
	imageID         string
}

// registerCore binds the flags every stack command needs.
func (f *stackFlags) registerCore(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stack, "stack", "", "Stack name (default: aistack)")
	cmd.Flags().StringVar(&f.region, "region", "", "Preferred AWS region")
}

// registerAll binds the full configuration flag set.
func (f *stackFlags) registerAll(cmd *cobra.Command) {
	f.registerCore(cmd)
	cmd.Flags().StringSliceVar(&f.fallbackRegions, "fallback-regions", nil, "Regions probed after the preferred one")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Purchasing mode: spot, on-demand or simple")
	cmd.Flags().Float64Var(&f.budget, "budget", 0, "Hourly compute budget ceiling in USD")
	cmd.Flags().IntVar(&f.minGPUMemory, "min-gpu-memory", 0, "Minimum GPU memory in GiB")
	cmd.Flags().StringSliceVar(&f.architectures, "arch", nil, "Allowed CPU architectures (x86_64, arm64)")
	cmd.Flags().BoolVar(&f.allowFallback, "allow-fallback", false, "Escalate an unfulfilled spot request to on-demand")
	cmd.Flags().BoolVar(&f.enableALB, "enable-alb", false, "Provision an application load balancer")
	cmd.Flags().BoolVar(&f.enableCDN, "enable-cdn", false, "Provision a CDN distribution (requires --enable-alb)")
	cmd.Flags().BoolVar(&f.enableSharedFS, "enable-efs", false, "Provision a shared EFS filesystem")
	cmd.Flags().StringVar(&f.composeFile, "compose-file", "", "Compose file shipped to the instance")
	cmd.Flags().StringVar(&f.imageID, "image-id", "", "Pin the machine image instead of resolving the latest Ubuntu LTS")
}

// overrides converts the explicitly set flags into configuration overrides.
func (f *stackFlags) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	if cmd.Flags().Changed("stack") {
		o.Stack = &f.stack
	}
	if cmd.Flags().Changed("region") {
		o.Region = &f.region
	}
	if cmd.Flags().Changed("fallback-regions") {
		o.FallbackRegions = f.fallbackRegions
	}
	if cmd.Flags().Changed("mode") {
		o.Mode = &f.mode
	}
	if cmd.Flags().Changed("budget") {
		o.Budget = &f.budget
	}
	if cmd.Flags().Changed("min-gpu-memory") {
		o.MinGPUMemoryGiB = &f.minGPUMemory
	}
	if cmd.Flags().Changed("arch") {
		o.Architectures = f.architectures
	}
	if cmd.Flags().Changed("allow-fallback") {
		o.AllowFallback = &f.allowFallback
	}
	if cmd.Flags().Changed("enable-alb") {
		o.EnableALB = &f.enableALB
	}
	if cmd.Flags().Changed("enable-cdn") {
		o.EnableCDN = &f.enableCDN
	}
	if cmd.Flags().Changed("enable-efs") {
		o.EnableSharedFS = &f.enableSharedFS
	}
	if cmd.Flags().Changed("compose-file") {
		o.ComposeFile = &f.composeFile
	}
	if cmd.Flags().Changed("image-id") {
		o.ImageID = &f.imageID
	}
	return o
}
