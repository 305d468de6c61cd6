package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultStackFile is the stack file looked up when none is given.
const DefaultStackFile = "aistack.yaml"

// stackFile mirrors DeploymentConfig but keeps booleans and numbers as
// pointers so an absent key is distinguishable from an explicit zero value.
type stackFile struct {
	Stack           *string           `yaml:"stack"`
	Region          *string           `yaml:"region"`
	FallbackRegions []string          `yaml:"fallback_regions"`
	Mode            *string           `yaml:"mode"`
	Budget          *float64          `yaml:"budget"`
	MinGPUMemoryGiB *int              `yaml:"min_gpu_memory_gib"`
	Architectures   []string          `yaml:"architectures"`
	AllowFallback   *bool             `yaml:"allow_fallback"`
	EnableALB       *bool             `yaml:"enable_alb"`
	EnableCDN       *bool             `yaml:"enable_cdn"`
	EnableSharedFS  *bool             `yaml:"enable_shared_fs"`
	ComposeFile     *string           `yaml:"compose_file"`
	ImageID         *string           `yaml:"image_id"`
	Secrets         map[string]string `yaml:"secrets"`
}

// loadStackFile reads and parses a YAML stack file. A missing file is only
// an error when the path was given explicitly.
func loadStackFile(path string, explicit bool) (*stackFile, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &stackFile{}, nil
		}
		return nil, fmt.Errorf("failed to read stack file: %w", err)
	}

	var sf stackFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stack file: %w", err)
	}
	return &sf, nil
}

// apply copies every present stack-file value onto the config.
func (sf *stackFile) apply(cfg *DeploymentConfig) {
	if sf.Stack != nil {
		cfg.Stack = *sf.Stack
	}
	if sf.Region != nil {
		cfg.Region = *sf.Region
	}
	if sf.FallbackRegions != nil {
		cfg.FallbackRegions = sf.FallbackRegions
	}
	if sf.Mode != nil {
		cfg.Mode = Mode(*sf.Mode)
	}
	if sf.Budget != nil {
		cfg.Budget = *sf.Budget
	}
	if sf.MinGPUMemoryGiB != nil {
		cfg.MinGPUMemoryGiB = *sf.MinGPUMemoryGiB
	}
	if sf.Architectures != nil {
		cfg.Architectures = sf.Architectures
	}
	if sf.AllowFallback != nil {
		cfg.AllowFallback = *sf.AllowFallback
	}
	if sf.EnableALB != nil {
		cfg.EnableALB = *sf.EnableALB
	}
	if sf.EnableCDN != nil {
		cfg.EnableCDN = *sf.EnableCDN
	}
	if sf.EnableSharedFS != nil {
		cfg.EnableSharedFS = *sf.EnableSharedFS
	}
	if sf.ComposeFile != nil {
		cfg.ComposeFile = *sf.ComposeFile
	}
	if sf.ImageID != nil {
		cfg.ImageID = *sf.ImageID
	}
	for k, v := range sf.Secrets {
		cfg.Secrets[k] = v
	}
}
