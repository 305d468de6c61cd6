// Package keygen generates SSH key pairs for instance access.
package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds the private and public keys.
type KeyPair struct {
	// PrivateKey is the OpenSSH PEM encoding of the private key.
	PrivateKey []byte

	// PublicKey is the authorized_keys line for the public key.
	PublicKey []byte
}

// GenerateED25519KeyPair generates a new ed25519 key pair.
func GenerateED25519KeyPair(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	privBlock, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, err
	}
	privateKeyPEM := pem.EncodeToMemory(privBlock)

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, err
	}
	pubKeyBytes := ssh.MarshalAuthorizedKey(sshPub)

	return &KeyPair{
		PrivateKey: privateKeyPEM,
		PublicKey:  pubKeyBytes,
	}, nil
}
