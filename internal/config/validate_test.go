package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *DeploymentConfig {
	cfg := DefaultConfig()
	cfg.Secrets = map[string]string{
		SecretPostgresPassword: strings.Repeat("a", 16),
		SecretN8NEncryptionKey: strings.Repeat("b", 16),
		SecretJWT:              strings.Repeat("c", 16),
	}
	return cfg
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestValidate_StackName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stack string
		ok    bool
	}{
		{"simple", "aistack", true},
		{"hyphenated", "ai-stack-2", true},
		{"empty", "", false},
		{"uppercase", "AIStack", false},
		{"leading digit", "1stack", false},
		{"trailing hyphen", "stack-", false},
		{"underscore", "ai_stack", false},
		{"too long", strings.Repeat("a", 41), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Stack = tt.stack
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				var cfgErr *ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
			}
		})
	}
}

func TestValidate_Mode(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Mode = "reserved"
	var cfgErr *ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Contains(t, cfgErr.Msg, "mode")
}

func TestValidate_Budget(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Budget = 0
	assert.Error(t, cfg.Validate())
	cfg.Budget = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_FallbackRequiresSpotMode(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Mode = ModeOnDemand
	cfg.AllowFallback = true
	var cfgErr *ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Contains(t, cfgErr.Msg, "allow_fallback")
}

func TestValidate_CDNRequiresALB(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.EnableCDN = true
	var cfgErr *ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Contains(t, cfgErr.Msg, "enable_alb")

	cfg.EnableALB = true
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Architecture(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Architectures = []string{"riscv"}
	assert.Error(t, cfg.Validate())

	cfg.Architectures = []string{"x86_64", "arm64"}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ShortSecret(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Secrets[SecretJWT] = "short"
	var cfgErr *ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Contains(t, cfgErr.Msg, SecretJWT)
}
