package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

func envMap(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeStackFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aistack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolve_Defaults(t *testing.T) {
	t.Parallel()

	r := &Resolver{Getenv: envMap(nil)}
	cfg, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), Overrides{})
	require.Error(t, err) // explicit path that does not exist

	cfg, err = r.Resolve(context.Background(), "", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "aistack", cfg.Stack)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, ModeSpot, cfg.Mode)
	assert.InDelta(t, 0.50, cfg.Budget, 1e-9)
	assert.Equal(t, []string{"us-west-2", "eu-west-1"}, cfg.FallbackRegions)
}

func TestResolve_PrecedenceFlagsOverEnvOverFile(t *testing.T) {
	t.Parallel()

	path := writeStackFile(t, "region: eu-central-1\nbudget: 0.30\nmode: on-demand\n")

	env := envMap(map[string]string{
		"AISTACK_REGION": "us-west-2",
	})
	region := "ap-southeast-1"

	r := &Resolver{Getenv: env}

	// Env beats file.
	cfg, err := r.Resolve(context.Background(), path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, ModeOnDemand, cfg.Mode)
	assert.InDelta(t, 0.30, cfg.Budget, 1e-9)

	// Flag beats env.
	cfg, err = r.Resolve(context.Background(), path, Overrides{Region: &region})
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-1", cfg.Region)
}

func TestResolve_ParameterStoreLayer(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		ParametersByPathFunc: func(_ context.Context, path string) (map[string]string, error) {
			assert.Equal(t, "/myapp/", path)
			return map[string]string{
				"region":            "eu-west-1",
				"budget":            "0.40",
				"POSTGRES_PASSWORD": "from-parameter-store",
			}, nil
		},
	}

	stack := "myapp"
	r := &Resolver{Params: mock, Getenv: envMap(nil)}
	cfg, err := r.Resolve(context.Background(), "", Overrides{Stack: &stack})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.InDelta(t, 0.40, cfg.Budget, 1e-9)
	assert.Equal(t, "from-parameter-store", cfg.Secrets[SecretPostgresPassword])
}

func TestResolve_EnvBeatsParameterStore(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		ParametersByPathFunc: func(context.Context, string) (map[string]string, error) {
			return map[string]string{"region": "eu-west-1"}, nil
		},
	}

	r := &Resolver{Params: mock, Getenv: envMap(map[string]string{"AISTACK_REGION": "us-west-2"})}
	cfg, err := r.Resolve(context.Background(), "", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
}

func TestResolve_WellKnownEnvAliases(t *testing.T) {
	t.Parallel()

	r := &Resolver{Getenv: envMap(map[string]string{
		"STACK_NAME":      "aliased",
		"AWS_REGION":      "eu-west-1",
		"DEPLOYMENT_MODE": "on-demand",
		"SPOT_MAX_PRICE":  "0.80",
	})}
	cfg, err := r.Resolve(context.Background(), "", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "aliased", cfg.Stack)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, ModeOnDemand, cfg.Mode)
	assert.InDelta(t, 0.80, cfg.Budget, 1e-9)
}

func TestResolve_AistackFormsBeatAliases(t *testing.T) {
	t.Parallel()

	r := &Resolver{Getenv: envMap(map[string]string{
		"AWS_REGION":     "eu-west-1",
		"AISTACK_REGION": "us-west-2",
		"STACK_NAME":     "aliased",
		"AISTACK_STACK":  "primary",
	})}
	cfg, err := r.Resolve(context.Background(), "", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "primary", cfg.Stack)
}

func TestResolve_SanitizationCollision(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		ParametersByPathFunc: func(context.Context, string) (map[string]string, error) {
			return map[string]string{
				"allow-fallback": "true",
				"allow_fallback": "false",
			}, nil
		},
	}

	r := &Resolver{Params: mock, Getenv: envMap(nil)}
	_, err := r.Resolve(context.Background(), "", Overrides{})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Msg, "collide")
}

func TestResolve_HyphenatedParameterSanitized(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		ParametersByPathFunc: func(context.Context, string) (map[string]string, error) {
			return map[string]string{"compose-file": "stack.yml"}, nil
		},
	}

	r := &Resolver{Params: mock, Getenv: envMap(nil)}
	cfg, err := r.Resolve(context.Background(), "", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "stack.yml", cfg.ComposeFile)
}

func TestResolve_ParameterStoreUnavailableSkipped(t *testing.T) {
	t.Parallel()

	mock := &awsplatform.MockClient{
		ParametersByPathFunc: func(context.Context, string) (map[string]string, error) {
			return nil, errors.New("ssm unreachable")
		},
	}

	r := &Resolver{Params: mock, Getenv: envMap(nil)}
	cfg, err := r.Resolve(context.Background(), "", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.Region)
}

func TestResolve_SimpleModeDisablesOptionals(t *testing.T) {
	t.Parallel()

	path := writeStackFile(t, "mode: simple\nenable_alb: true\nenable_cdn: true\nenable_shared_fs: true\n")

	r := &Resolver{Getenv: envMap(nil)}
	cfg, err := r.Resolve(context.Background(), path, Overrides{})
	require.NoError(t, err)
	assert.False(t, cfg.EnableALB)
	assert.False(t, cfg.EnableCDN)
	assert.False(t, cfg.EnableSharedFS)
}

func TestResolve_SecretsGenerated(t *testing.T) {
	t.Parallel()

	r := &Resolver{Getenv: envMap(nil)}
	cfg, err := r.Resolve(context.Background(), "", Overrides{})
	require.NoError(t, err)
	for _, name := range RequiredSecrets {
		assert.GreaterOrEqual(t, len(cfg.Secrets[name]), 16, name)
	}
}

func TestResolve_SecretFromEnvPreserved(t *testing.T) {
	t.Parallel()

	r := &Resolver{Getenv: envMap(map[string]string{
		"POSTGRES_PASSWORD": "operator-chosen-password",
	})}
	cfg, err := r.Resolve(context.Background(), "", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "operator-chosen-password", cfg.Secrets[SecretPostgresPassword])
}

func TestResolve_InvalidEnvBudget(t *testing.T) {
	t.Parallel()

	r := &Resolver{Getenv: envMap(map[string]string{"AISTACK_BUDGET": "cheap"})}
	_, err := r.Resolve(context.Background(), "", Overrides{})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Msg, "AISTACK_BUDGET")
}

func TestRegions_DeduplicatesAndOrders(t *testing.T) {
	t.Parallel()

	cfg := &DeploymentConfig{
		Region:          "us-east-1",
		FallbackRegions: []string{"us-west-2", "us-east-1", "eu-west-1"},
	}
	assert.Equal(t, []string{"us-east-1", "us-west-2", "eu-west-1"}, cfg.Regions())
}
