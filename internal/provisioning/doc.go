// Package provisioning provides the phase pipeline that brings a stack's
// cloud resources into existence.
//
// The deployment is organized into phases run in dependency order: key pair,
// security group, IAM role, instance profile, shared storage, compute, load
// balancer and CDN. Every phase is idempotent: it checks for its resource by
// name or tag before creating anything, so a crashed deployment resumes by
// re-running the same pipeline.
//
// This root package contains the shared Phase, Context, State and Observer
// types plus the phases themselves; teardown/ holds the reverse operation.
package provisioning
