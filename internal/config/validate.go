package config

import (
	"fmt"
	"regexp"
)

// stackNamePattern is the DNS-label shape every stack name must have: it
// ends up in resource names, tags and hostnames.
var stackNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,38}[a-z0-9]$`)

// validModes enumerates the accepted purchasing modes.
var validModes = map[Mode]bool{
	ModeSpot:     true,
	ModeOnDemand: true,
	ModeSimple:   true,
}

// validArchitectures enumerates the accepted CPU architectures.
var validArchitectures = map[string]bool{
	"x86_64": true,
	"arm64":  true,
}

// Validate checks the resolved configuration and returns a
// ConfigurationError describing the first problem found.
func (c *DeploymentConfig) Validate() error {
	if c.Stack == "" {
		return &ConfigurationError{Msg: "stack name is required"}
	}
	if !stackNamePattern.MatchString(c.Stack) {
		return &ConfigurationError{Msg: fmt.Sprintf(
			"stack name %q must be a DNS-safe label (lowercase letters, digits, hyphens, 2-40 chars)", c.Stack)}
	}
	if c.Region == "" {
		return &ConfigurationError{Msg: "region is required"}
	}
	if !validModes[c.Mode] {
		return &ConfigurationError{Msg: fmt.Sprintf(
			"mode %q must be one of spot, on-demand, simple", c.Mode)}
	}
	if c.Budget <= 0 {
		return &ConfigurationError{Msg: fmt.Sprintf("budget must be positive, got %.4f", c.Budget)}
	}
	if c.MinGPUMemoryGiB < 0 {
		return &ConfigurationError{Msg: "min GPU memory cannot be negative"}
	}
	for _, arch := range c.Architectures {
		if !validArchitectures[arch] {
			return &ConfigurationError{Msg: fmt.Sprintf(
				"architecture %q must be one of x86_64, arm64", arch)}
		}
	}
	if c.EnableCDN && !c.EnableALB {
		return &ConfigurationError{Msg: "enable_cdn requires enable_alb: the distribution origin is the load balancer"}
	}
	if c.AllowFallback && c.Mode != ModeSpot {
		return &ConfigurationError{Msg: "allow_fallback only applies to spot mode"}
	}
	for _, name := range RequiredSecrets {
		if len(c.Secrets[name]) < 16 {
			return &ConfigurationError{Msg: fmt.Sprintf("secret %s must be at least 16 characters", name)}
		}
	}
	return nil
}
