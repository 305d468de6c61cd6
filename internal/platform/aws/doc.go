// Package aws wraps the AWS SDK behind narrow, per-concern interfaces.
//
// Each resource family (key pairs, security groups, IAM, compute, storage,
// load balancers, CDN distributions, parameters) has its own manager
// interface; CloudManager combines them all. RealClient implements the
// full surface against the live APIs, MockClient implements it for tests.
//
// All resources carry the stack tag (see tags.go); discovery for status and
// teardown goes through the *ByTag methods and never through local state.
package aws
