package config

// Mode selects the purchasing model for the stack's compute.
type Mode string

const (
	// ModeSpot launches the instance via a spot request.
	ModeSpot Mode = "spot"

	// ModeOnDemand launches a regular on-demand instance.
	ModeOnDemand Mode = "on-demand"

	// ModeSimple is on-demand with every optional component disabled.
	ModeSimple Mode = "simple"
)

// Secret names required by the service stack.
const (
	SecretPostgresPassword = "POSTGRES_PASSWORD"
	SecretN8NEncryptionKey = "N8N_ENCRYPTION_KEY"
	SecretJWT              = "JWT_SECRET"
)

// RequiredSecrets lists the secrets every deployment must carry.
var RequiredSecrets = []string{
	SecretPostgresPassword,
	SecretN8NEncryptionKey,
	SecretJWT,
}

// DeploymentConfig is the fully resolved configuration for one stack.
// Resolution produces it once per command invocation; nothing mutates it
// afterwards.
type DeploymentConfig struct {
	// Stack is the deployment name. It keys every tag and resource name.
	Stack string `yaml:"stack"`

	// Region is the preferred launch region. Selection may move the
	// deployment to a fallback region when capacity or budget demand it.
	Region string `yaml:"region"`

	// FallbackRegions are probed in order after the preferred region.
	FallbackRegions []string `yaml:"fallback_regions"`

	Mode Mode `yaml:"mode"`

	// Budget is the hourly compute budget ceiling in USD.
	Budget float64 `yaml:"budget"`

	// MinGPUMemoryGiB is the workload's minimum GPU memory class.
	MinGPUMemoryGiB int `yaml:"min_gpu_memory_gib"`

	// Architectures restricts instance CPU architectures. Empty means any.
	Architectures []string `yaml:"architectures"`

	// AllowFallback permits escalating an unfulfilled spot request to an
	// on-demand launch. Never implied; the operator opts in explicitly.
	AllowFallback bool `yaml:"allow_fallback"`

	EnableALB      bool `yaml:"enable_alb"`
	EnableCDN      bool `yaml:"enable_cdn"`
	EnableSharedFS bool `yaml:"enable_shared_fs"`

	// ComposeFile is the service stack definition shipped to the instance.
	ComposeFile string `yaml:"compose_file"`

	// ImageID pins the machine image. Empty resolves the latest Ubuntu LTS
	// for the selected instance architecture at launch time.
	ImageID string `yaml:"image_id"`

	// Secrets holds the service credentials. Missing required entries are
	// generated during resolution.
	Secrets map[string]string `yaml:"secrets"`
}

// DefaultConfig returns the built-in defaults, the lowest precedence layer.
func DefaultConfig() *DeploymentConfig {
	return &DeploymentConfig{
		Stack:           "aistack",
		Region:          "us-east-1",
		FallbackRegions: []string{"us-west-2", "eu-west-1"},
		Mode:            ModeSpot,
		Budget:          0.50,
		ComposeFile:     "docker-compose.yml",
		Secrets:         map[string]string{},
	}
}

// Regions returns the preferred region followed by the fallbacks, in probe
// order, without duplicates.
func (c *DeploymentConfig) Regions() []string {
	regions := make([]string, 0, 1+len(c.FallbackRegions))
	seen := map[string]bool{}
	for _, r := range append([]string{c.Region}, c.FallbackRegions...) {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		regions = append(regions, r)
	}
	return regions
}

// Spot reports whether the configuration requests spot purchasing.
func (c *DeploymentConfig) Spot() bool {
	return c.Mode == ModeSpot
}
