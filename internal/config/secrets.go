package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// secretBytes is the entropy per generated secret. 24 bytes gives a 48-char
// hex value, comfortably above the 16-byte floor the services require.
const secretBytes = 24

// randReader is the entropy source, swappable for deterministic tests.
var randReader io.Reader = rand.Reader

// EnsureSecrets fills in every required secret that no layer provided.
// Present values are never regenerated.
func EnsureSecrets(cfg *DeploymentConfig) error {
	if cfg.Secrets == nil {
		cfg.Secrets = map[string]string{}
	}
	for _, name := range RequiredSecrets {
		if cfg.Secrets[name] != "" {
			continue
		}
		value, err := generateSecret()
		if err != nil {
			return fmt.Errorf("generating secret %s: %w", name, err)
		}
		cfg.Secrets[name] = value
	}
	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
