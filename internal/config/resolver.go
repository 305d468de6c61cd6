package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

// ConfigurationError marks a configuration the operator must fix before any
// cloud call is worth attempting.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// Overrides carries explicitly set CLI flag values. Nil fields were not set
// and do not override lower layers.
type Overrides struct {
	Stack           *string
	Region          *string
	FallbackRegions []string
	Mode            *string
	Budget          *float64
	MinGPUMemoryGiB *int
	Architectures   []string
	AllowFallback   *bool
	EnableALB       *bool
	EnableCDN       *bool
	EnableSharedFS  *bool
	ComposeFile     *string
	ImageID         *string
}

// Resolver assembles the deployment configuration from all layers.
type Resolver struct {
	// Params reads the remote parameter layer. Nil skips it.
	Params awsplatform.ParameterStore

	// Getenv is the environment lookup, injectable for tests.
	Getenv func(string) string
}

// NewResolver returns a resolver using the process environment and the given
// parameter store.
func NewResolver(params awsplatform.ParameterStore) *Resolver {
	return &Resolver{Params: params, Getenv: os.Getenv}
}

// Resolve builds the effective configuration. Precedence, highest first:
// CLI flags, environment, stack file, parameter store, defaults. The stack
// name itself never comes from the parameter store: it names the store path.
func (r *Resolver) Resolve(ctx context.Context, stackFilePath string, overrides Overrides) (*DeploymentConfig, error) {
	explicit := stackFilePath != ""
	if stackFilePath == "" {
		stackFilePath = DefaultStackFile
	}

	sf, err := loadStackFile(stackFilePath, explicit)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// The stack name must settle before the parameter store can be read.
	if sf.Stack != nil {
		cfg.Stack = *sf.Stack
	}
	if v := r.Getenv("STACK_NAME"); v != "" {
		cfg.Stack = v
	}
	if v := r.Getenv("AISTACK_STACK"); v != "" {
		cfg.Stack = v
	}
	if overrides.Stack != nil {
		cfg.Stack = *overrides.Stack
	}

	if r.Params != nil {
		if err := r.applyParameterStore(ctx, cfg); err != nil {
			return nil, err
		}
	}

	sf.apply(cfg)
	if err := r.applyEnv(cfg); err != nil {
		return nil, err
	}
	applyOverrides(cfg, overrides)

	// Simple mode is the minimal footprint: no optional components.
	if cfg.Mode == ModeSimple {
		cfg.EnableALB = false
		cfg.EnableCDN = false
		cfg.EnableSharedFS = false
	}

	if err := EnsureSecrets(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyParameterStore merges parameters under /<stack>/ into the config.
// Parameter names are sanitized (hyphens become underscores); two names
// colliding after sanitization is a configuration error, not a silent pick.
// An unreachable store is logged and skipped: remote parameters are an
// optional layer, not a dependency.
func (r *Resolver) applyParameterStore(ctx context.Context, cfg *DeploymentConfig) error {
	raw, err := r.Params.ParametersByPath(ctx, "/"+cfg.Stack+"/")
	if err != nil {
		log.Printf("Warning: parameter store unavailable, skipping layer: %v", err)
		return nil
	}

	sanitized := make(map[string]string, len(raw))
	origin := make(map[string]string, len(raw))
	for name, value := range raw {
		key := strings.ReplaceAll(name, "-", "_")
		if prev, ok := origin[key]; ok {
			return &ConfigurationError{Msg: fmt.Sprintf(
				"parameters %q and %q collide after sanitization (both map to %q)", prev, name, key)}
		}
		origin[key] = name
		sanitized[key] = value
	}

	for key, value := range sanitized {
		if err := applyKey(cfg, key, value); err != nil {
			return &ConfigurationError{Msg: fmt.Sprintf("parameter %q: %v", origin[key], err)}
		}
	}
	return nil
}

// applyKey sets one config field from its string form. Unknown keys are
// treated as secrets so operators can store service credentials alongside
// the deployment parameters.
func applyKey(cfg *DeploymentConfig, key, value string) error {
	switch key {
	case "region":
		cfg.Region = value
	case "fallback_regions":
		cfg.FallbackRegions = splitList(value)
	case "mode":
		cfg.Mode = Mode(value)
	case "budget":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid budget %q", value)
		}
		cfg.Budget = f
	case "min_gpu_memory_gib":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPU memory %q", value)
		}
		cfg.MinGPUMemoryGiB = n
	case "architectures":
		cfg.Architectures = splitList(value)
	case "allow_fallback":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.AllowFallback = b
	case "enable_alb":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.EnableALB = b
	case "enable_cdn":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.EnableCDN = b
	case "enable_shared_fs":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.EnableSharedFS = b
	case "compose_file":
		cfg.ComposeFile = value
	case "image_id":
		cfg.ImageID = value
	default:
		cfg.Secrets[key] = value
	}
	return nil
}

// envAliases maps conventional variable names onto config keys. They apply
// before the AISTACK_* forms, which win when both are set.
var envAliases = []struct{ envVar, key string }{
	{"AWS_REGION", "region"},
	{"DEPLOYMENT_MODE", "mode"},
	{"SPOT_MAX_PRICE", "budget"},
}

// applyEnv merges the conventional aliases, the AISTACK_* environment
// variables, plus the well-known secret variables under their own names.
func (r *Resolver) applyEnv(cfg *DeploymentConfig) error {
	for _, a := range envAliases {
		v := r.Getenv(a.envVar)
		if v == "" {
			continue
		}
		if err := applyKey(cfg, a.key, v); err != nil {
			return &ConfigurationError{Msg: fmt.Sprintf("%s: %v", a.envVar, err)}
		}
	}

	envKeys := []string{
		"region", "fallback_regions", "mode", "budget", "min_gpu_memory_gib",
		"architectures", "allow_fallback", "enable_alb", "enable_cdn",
		"enable_shared_fs", "compose_file", "image_id",
	}
	for _, key := range envKeys {
		envVar := "AISTACK_" + strings.ToUpper(key)
		v := r.Getenv(envVar)
		if v == "" {
			continue
		}
		if err := applyKey(cfg, key, v); err != nil {
			return &ConfigurationError{Msg: fmt.Sprintf("%s: %v", envVar, err)}
		}
	}

	for _, name := range RequiredSecrets {
		if v := r.Getenv(name); v != "" {
			cfg.Secrets[name] = v
		}
	}
	return nil
}

func applyOverrides(cfg *DeploymentConfig, o Overrides) {
	if o.Region != nil {
		cfg.Region = *o.Region
	}
	if o.FallbackRegions != nil {
		cfg.FallbackRegions = o.FallbackRegions
	}
	if o.Mode != nil {
		cfg.Mode = Mode(*o.Mode)
	}
	if o.Budget != nil {
		cfg.Budget = *o.Budget
	}
	if o.MinGPUMemoryGiB != nil {
		cfg.MinGPUMemoryGiB = *o.MinGPUMemoryGiB
	}
	if o.Architectures != nil {
		cfg.Architectures = o.Architectures
	}
	if o.AllowFallback != nil {
		cfg.AllowFallback = *o.AllowFallback
	}
	if o.EnableALB != nil {
		cfg.EnableALB = *o.EnableALB
	}
	if o.EnableCDN != nil {
		cfg.EnableCDN = *o.EnableCDN
	}
	if o.EnableSharedFS != nil {
		cfg.EnableSharedFS = *o.EnableSharedFS
	}
	if o.ComposeFile != nil {
		cfg.ComposeFile = *o.ComposeFile
	}
	if o.ImageID != nil {
		cfg.ImageID = *o.ImageID
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
