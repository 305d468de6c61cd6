package config

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// No t.Parallel here: these tests swap the package entropy source.

func withRandReader(t *testing.T, r io.Reader) {
	t.Helper()
	orig := randReader
	randReader = r
	t.Cleanup(func() { randReader = orig })
}

func TestEnsureSecrets_GeneratesMissing(t *testing.T) {
	withRandReader(t, bytes.NewReader(bytes.Repeat([]byte{0xAB}, 256)))

	cfg := &DeploymentConfig{Secrets: map[string]string{}}
	require.NoError(t, EnsureSecrets(cfg))

	for _, name := range RequiredSecrets {
		assert.Len(t, cfg.Secrets[name], secretBytes*2, name)
	}
	assert.Equal(t, bytes.Repeat([]byte("ab"), secretBytes), []byte(cfg.Secrets[SecretJWT]))
}

func TestEnsureSecrets_KeepsExisting(t *testing.T) {
	withRandReader(t, bytes.NewReader(bytes.Repeat([]byte{0x01}, 256)))

	cfg := &DeploymentConfig{Secrets: map[string]string{
		SecretPostgresPassword: "keep-this-password",
	}}
	require.NoError(t, EnsureSecrets(cfg))
	assert.Equal(t, "keep-this-password", cfg.Secrets[SecretPostgresPassword])
	assert.NotEmpty(t, cfg.Secrets[SecretN8NEncryptionKey])
}

func TestEnsureSecrets_ExhaustedEntropy(t *testing.T) {
	withRandReader(t, bytes.NewReader([]byte{0x01}))

	cfg := &DeploymentConfig{Secrets: map[string]string{}}
	err := EnsureSecrets(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating secret")
}

func TestEnsureSecrets_NilMap(t *testing.T) {
	withRandReader(t, bytes.NewReader(bytes.Repeat([]byte{0x02}, 256)))

	cfg := &DeploymentConfig{}
	require.NoError(t, EnsureSecrets(cfg))
	assert.NotNil(t, cfg.Secrets)
}
