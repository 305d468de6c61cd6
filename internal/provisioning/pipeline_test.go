package provisioning

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/aistack/internal/config"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

func init() {
	// Keep the polling loops fast across the whole test package.
	pollInterval = time.Millisecond
}

func testConfig() *config.DeploymentConfig {
	return &config.DeploymentConfig{
		Stack:       "teststack",
		Region:      "us-east-1",
		Mode:        config.ModeSpot,
		Budget:      0.50,
		ComposeFile: "docker-compose.yml",
		Secrets: map[string]string{
			config.SecretPostgresPassword: strings.Repeat("p", 16),
			config.SecretN8NEncryptionKey: strings.Repeat("n", 16),
			config.SecretJWT:              strings.Repeat("j", 16),
		},
	}
}

func testContext(cfg *config.DeploymentConfig, cloud awsplatform.CloudManager) *Context {
	ctx := NewContext(context.Background(), cfg, cloud)
	ctx.Timeouts = &config.Timeouts{
		SpotFulfillment: 100 * time.Millisecond,
		InstanceRunning: 100 * time.Millisecond,
		Teardown:        time.Second,
	}
	ctx.State.InstanceType = "g4dn.xlarge"
	ctx.State.Architecture = "x86_64"
	ctx.State.Spot = cfg.Mode == config.ModeSpot
	return ctx
}

func TestPhases_OptionalPhasesOnlyWhenEnabled(t *testing.T) {
	cfg := testConfig()
	phases := Phases(cfg)

	names := make([]string, 0, len(phases))
	for _, p := range phases {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"keypair", "securitygroup", "iamrole", "instanceprofile", "compute"}, names)

	cfg.EnableALB = true
	cfg.EnableCDN = true
	cfg.EnableSharedFS = true
	phases = Phases(cfg)
	names = names[:0]
	for _, p := range phases {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{
		"keypair", "securitygroup", "iamrole", "instanceprofile",
		"storage", "compute", "loadbalancer", "cdn",
	}, names)
}

func TestRunPhases_FullDeployment(t *testing.T) {
	cfg := testConfig()
	cfg.EnableALB = true
	cfg.EnableSharedFS = true
	mock := &awsplatform.MockClient{
		SubnetIDsFunc: func(context.Context, string) ([]string, error) {
			return []string{"subnet-a", "subnet-b"}, nil
		},
	}

	ctx := testContext(cfg, mock)
	err := RunPhases(ctx, Phases(cfg))
	require.NoError(t, err)

	assert.Equal(t, "teststack-key", ctx.State.KeyPairName)
	assert.NotEmpty(t, ctx.State.PrivateKeyPEM)
	assert.NotEmpty(t, ctx.State.SecurityGroupID)
	assert.Equal(t, "teststack-role", ctx.State.RoleName)
	assert.Equal(t, "teststack-profile", ctx.State.InstanceProfileName)
	assert.NotEmpty(t, ctx.State.FileSystemID)
	assert.Equal(t, "i-mock", ctx.State.InstanceID)
	assert.Equal(t, "198.51.100.10", ctx.State.PublicIP)
	assert.NotEmpty(t, ctx.State.LoadBalancerARN)

	// Every kind shows up in the ledger exactly once except mount targets.
	for _, kind := range []ResourceKind{
		KindKeyPair, KindSecurityGroup, KindIAMRole, KindInstanceProfile,
		KindFileSystem, KindSpotRequest, KindInstance, KindLoadBalancer, KindTargetGroup,
	} {
		assert.Len(t, ctx.State.Ledger.ByKind(kind), 1, string(kind))
	}
	assert.Len(t, ctx.State.Ledger.ByKind(KindMountTarget), 2)
}

func TestRunPhases_PartialFailureCarriesLedger(t *testing.T) {
	cfg := testConfig()
	mock := &awsplatform.MockClient{
		CreateRoleFunc: func(context.Context, string, string, map[string]string) (*awsplatform.RoleInfo, error) {
			return nil, errors.New("iam is down")
		},
	}

	ctx := testContext(cfg, mock)
	err := RunPhases(ctx, Phases(cfg))

	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "iamrole", partial.Phase)
	assert.Contains(t, partial.Error(), "iam is down")

	// Key pair and security group were provisioned before the failure.
	kinds := make(map[ResourceKind]bool)
	for _, r := range partial.Ledger.Resources() {
		kinds[r.Kind] = true
	}
	assert.True(t, kinds[KindKeyPair])
	assert.True(t, kinds[KindSecurityGroup])
	assert.False(t, kinds[KindInstance])
}

func TestRunPhases_ResumeAfterCrash(t *testing.T) {
	// First run crashed after key pair, security group and role were
	// created. The re-run must adopt all of them and only create what is
	// missing.
	cfg := testConfig()
	mock := &awsplatform.MockClient{
		GetKeyPairFunc: func(_ context.Context, name string) (*awsplatform.KeyPairInfo, error) {
			return &awsplatform.KeyPairInfo{ID: "key-1", Name: name}, nil
		},
		GetSecurityGroupByNameFunc: func(_ context.Context, name string) (*awsplatform.SecurityGroupInfo, error) {
			return &awsplatform.SecurityGroupInfo{ID: "sg-1", Name: name}, nil
		},
		GetRoleFunc: func(_ context.Context, name string) (*awsplatform.RoleInfo, error) {
			return &awsplatform.RoleInfo{Name: name, ARN: "arn:role/" + name}, nil
		},
	}

	ctx := testContext(cfg, mock)
	err := RunPhases(ctx, Phases(cfg))
	require.NoError(t, err)

	for _, kind := range []ResourceKind{KindKeyPair, KindSecurityGroup, KindIAMRole} {
		entries := ctx.State.Ledger.ByKind(kind)
		require.Len(t, entries, 1, string(kind))
		assert.True(t, entries[0].Reused, string(kind))
	}
	// Profile and instance were created fresh.
	assert.False(t, ctx.State.Ledger.ByKind(KindInstanceProfile)[0].Reused)
	assert.False(t, ctx.State.Ledger.ByKind(KindInstance)[0].Reused)

	// Nothing tried to re-import the existing key pair.
	for _, call := range mock.CallLog() {
		assert.NotContains(t, call, "ImportKeyPair")
	}
}
