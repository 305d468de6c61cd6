package provisioning

import (
	"fmt"

	"github.com/imamik/aistack/internal/keygen"
)

// KeyPairPhase ensures the stack's SSH key pair exists.
type KeyPairPhase struct{}

// Name implements Phase.
func (p *KeyPairPhase) Name() string { return "keypair" }

// Provision imports a fresh ed25519 key when the pair is missing. The
// private key is only available in the run that created it; reusing an
// existing pair keeps the operator's previously saved key valid.
func (p *KeyPairPhase) Provision(ctx *Context) error {
	name := ctx.keyPairName()

	existing, err := ctx.Cloud.GetKeyPair(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up key pair %q: %w", name, err)
	}
	if existing != nil {
		LogResourceExists(ctx.Observer, p.Name(), "key pair", name, existing.ID)
		ctx.State.KeyPairName = name
		ctx.State.Ledger.Record(Resource{Kind: KindKeyPair, ID: existing.ID, Name: name, Reused: true})
		return nil
	}

	LogResourceCreating(ctx.Observer, p.Name(), "key pair", name)
	kp, err := keygen.GenerateED25519KeyPair(name)
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	id, err := ctx.Cloud.ImportKeyPair(ctx, name, kp.PublicKey, ctx.stackTags())
	if err != nil {
		return fmt.Errorf("failed to import key pair %q: %w", name, err)
	}

	ctx.State.KeyPairName = name
	ctx.State.PrivateKeyPEM = kp.PrivateKey
	ctx.State.Ledger.Record(Resource{Kind: KindKeyPair, ID: id, Name: name})
	LogResourceCreated(ctx.Observer, p.Name(), "key pair", name, id)
	return nil
}
