package provisioning

import (
	"sync"
	"time"
)

// ResourceKind identifies the type of a provisioned resource.
type ResourceKind string

const (
	KindKeyPair         ResourceKind = "keypair"
	KindSecurityGroup   ResourceKind = "securitygroup"
	KindIAMRole         ResourceKind = "iamrole"
	KindInstanceProfile ResourceKind = "instanceprofile"
	KindFileSystem      ResourceKind = "filesystem"
	KindMountTarget     ResourceKind = "mounttarget"
	KindSpotRequest     ResourceKind = "spotrequest"
	KindInstance        ResourceKind = "instance"
	KindLoadBalancer    ResourceKind = "loadbalancer"
	KindTargetGroup     ResourceKind = "targetgroup"
	KindListener        ResourceKind = "listener"
	KindDistribution    ResourceKind = "distribution"
)

// Resource is one ledger entry: a cloud resource this deployment created or
// found already in place.
type Resource struct {
	Kind      ResourceKind
	ID        string
	Name      string
	Reused    bool // true when the resource existed before this run
	CreatedAt time.Time
}

// Ledger records every resource a deployment touched, in order. A partial
// failure hands the ledger to the operator so they can see exactly what
// exists before deciding between resume and teardown.
type Ledger struct {
	mu      sync.Mutex
	entries []Resource
}

// Record appends a resource to the ledger.
func (l *Ledger) Record(r Resource) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, r)
}

// Resources returns a copy of all entries in record order.
func (l *Ledger) Resources() []Resource {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Resource(nil), l.entries...)
}

// ByKind returns all entries of the given kind.
func (l *Ledger) ByKind(kind ResourceKind) []Resource {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Resource
	for _, r := range l.entries {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	Ledger *Ledger

	// Selection results (populated by the deploy handler before the
	// pipeline runs)
	InstanceType string
	Zone         string
	HourlyPrice  float64
	Architecture string
	Spot         bool

	// Network topology (resolved by the security group phase)
	VPCID     string
	SubnetIDs []string

	// Access results
	KeyPairName   string
	PrivateKeyPEM []byte // only set when the key pair was created this run

	// Security results
	SecurityGroupID string

	// IAM results
	RoleName            string
	RoleARN             string
	InstanceProfileName string

	// Storage results
	FileSystemID   string
	MountTargetIDs []string

	// Compute results
	SpotRequestID string
	InstanceID    string
	PublicIP      string
	PrivateIP     string

	// Load balancer results
	LoadBalancerARN string
	LoadBalancerDNS string
	TargetGroupARN  string

	// CDN results
	DistributionID     string
	DistributionDomain string
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{Ledger: &Ledger{}}
}
