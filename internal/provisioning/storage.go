package provisioning

import "fmt"

// StoragePhase ensures the shared EFS filesystem and its mount targets.
// Only instantiated when the shared filesystem is enabled.
type StoragePhase struct{}

// Name implements Phase.
func (p *StoragePhase) Name() string { return "storage" }

// Provision relies on the EFS creation token for idempotency: creating with
// an existing token returns the same filesystem.
func (p *StoragePhase) Provision(ctx *Context) error {
	token := ctx.Config.Stack

	fsID := ""
	existing, err := ctx.Cloud.GetFileSystem(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up filesystem %q: %w", token, err)
	}
	if existing != nil {
		LogResourceExists(ctx.Observer, p.Name(), "filesystem", token, existing.ID)
		fsID = existing.ID
		ctx.State.Ledger.Record(Resource{Kind: KindFileSystem, ID: fsID, Name: token, Reused: true})
	} else {
		LogResourceCreating(ctx.Observer, p.Name(), "filesystem", token)
		fsID, err = ctx.Cloud.CreateFileSystem(ctx, token, ctx.stackTags())
		if err != nil {
			return fmt.Errorf("failed to create filesystem %q: %w", token, err)
		}
		ctx.State.Ledger.Record(Resource{Kind: KindFileSystem, ID: fsID, Name: token})
		LogResourceCreated(ctx.Observer, p.Name(), "filesystem", token, fsID)
	}
	ctx.State.FileSystemID = fsID

	targets, err := ctx.Cloud.MountTargets(ctx, fsID)
	if err != nil {
		return fmt.Errorf("failed to list mount targets of %s: %w", fsID, err)
	}
	if len(targets) > 0 {
		for _, mt := range targets {
			ctx.State.MountTargetIDs = append(ctx.State.MountTargetIDs, mt.ID)
			ctx.State.Ledger.Record(Resource{Kind: KindMountTarget, ID: mt.ID, Name: token, Reused: true})
		}
		return nil
	}

	for i, subnet := range ctx.State.SubnetIDs {
		mtID, err := ctx.Cloud.CreateMountTarget(ctx, fsID, subnet, []string{ctx.State.SecurityGroupID})
		if err != nil {
			return fmt.Errorf("failed to create mount target in %s: %w", subnet, err)
		}
		ctx.State.MountTargetIDs = append(ctx.State.MountTargetIDs, mtID)
		ctx.State.Ledger.Record(Resource{Kind: KindMountTarget, ID: mtID, Name: token})
		ctx.Observer.Progress(p.Name(), i+1, len(ctx.State.SubnetIDs))
	}
	return nil
}
