package aws

import (
	"context"
	"time"
)

// KeyPairInfo describes an EC2 key pair.
type KeyPairInfo struct {
	ID   string
	Name string
}

// SecurityGroupInfo describes a security group.
type SecurityGroupInfo struct {
	ID   string
	Name string
}

// IngressRule describes a single security group ingress rule.
type IngressRule struct {
	Protocol    string
	FromPort    int32
	ToPort      int32
	CIDR        string
	Description string
}

// RoleInfo describes an IAM role.
type RoleInfo struct {
	Name string
	ARN  string
}

// InstanceProfileInfo describes an IAM instance profile and the roles
// currently attached to it.
type InstanceProfileInfo struct {
	Name      string
	ARN       string
	RoleNames []string
}

// InstanceInfo describes an EC2 instance.
type InstanceInfo struct {
	ID            string
	Type          string
	State         string
	PublicIP      string
	PrivateIP     string
	Zone          string
	SpotRequestID string
}

// SpotRequestInfo describes a spot instance request.
type SpotRequestInfo struct {
	ID         string
	State      string // open | active | closed | cancelled | failed
	StatusCode string
	InstanceID string
}

// FileSystemInfo describes an EFS filesystem.
type FileSystemInfo struct {
	ID    string
	State string
}

// MountTargetInfo describes an EFS mount target.
type MountTargetInfo struct {
	ID    string
	State string
}

// LoadBalancerInfo describes an application load balancer.
type LoadBalancerInfo struct {
	ARN     string
	Name    string
	DNSName string
	State   string
}

// TargetGroupInfo describes a target group.
type TargetGroupInfo struct {
	ARN  string
	Name string
}

// DistributionInfo describes a CloudFront distribution.
type DistributionInfo struct {
	ID         string
	DomainName string
	Status     string
	Enabled    bool
}

// ZonePrice is the cheapest current spot price for an instance type and the
// availability zone it was observed in.
type ZonePrice struct {
	Zone  string
	Price float64
}

// InstanceCreateOpts holds all parameters for launching an instance.
type InstanceCreateOpts struct {
	Name                string
	InstanceType        string
	ImageID             string
	KeyName             string
	SecurityGroupIDs    []string
	SubnetID            string
	InstanceProfileName string
	UserData            string
	VolumeSizeGiB       int32
	Tags                map[string]string
}

// KeyPairManager defines the interface for managing EC2 key pairs.
type KeyPairManager interface {
	// GetKeyPair returns the key pair by name, or nil if it does not exist.
	GetKeyPair(ctx context.Context, name string) (*KeyPairInfo, error)
	ImportKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) (string, error)
	DeleteKeyPair(ctx context.Context, name string) error
}

// SecurityGroupManager defines the interface for managing security groups.
type SecurityGroupManager interface {
	// GetSecurityGroupByName returns the group by name, or nil if absent.
	GetSecurityGroupByName(ctx context.Context, name string) (*SecurityGroupInfo, error)
	CreateSecurityGroup(ctx context.Context, name, description, vpcID string, tags map[string]string) (string, error)
	AuthorizeIngress(ctx context.Context, groupID string, rules []IngressRule) error
	SecurityGroupsByTag(ctx context.Context, key, value string) ([]SecurityGroupInfo, error)
	DeleteSecurityGroup(ctx context.Context, id string) error
}

// IAMManager defines the interface for managing IAM roles and instance
// profiles. Deletion helpers expose the listing calls teardown needs to
// satisfy the strict destroy order (inline policies, then detachments, then
// profile membership, then profiles, then roles).
type IAMManager interface {
	GetRole(ctx context.Context, name string) (*RoleInfo, error)
	CreateRole(ctx context.Context, name, trustPolicy string, tags map[string]string) (*RoleInfo, error)
	PutRolePolicy(ctx context.Context, roleName, policyName, document string) error
	AttachRolePolicy(ctx context.Context, roleName, policyARN string) error
	ListInlinePolicies(ctx context.Context, roleName string) ([]string, error)
	ListAttachedPolicies(ctx context.Context, roleName string) ([]string, error)
	DeleteRolePolicy(ctx context.Context, roleName, policyName string) error
	DetachRolePolicy(ctx context.Context, roleName, policyARN string) error
	DeleteRole(ctx context.Context, name string) error

	GetInstanceProfile(ctx context.Context, name string) (*InstanceProfileInfo, error)
	CreateInstanceProfile(ctx context.Context, name string, tags map[string]string) (*InstanceProfileInfo, error)
	AddRoleToInstanceProfile(ctx context.Context, profileName, roleName string) error
	// InstanceProfilesForRole returns every profile referencing the role.
	// A role may be attached to more than one profile.
	InstanceProfilesForRole(ctx context.Context, roleName string) ([]InstanceProfileInfo, error)
	RemoveRoleFromInstanceProfile(ctx context.Context, profileName, roleName string) error
	DeleteInstanceProfile(ctx context.Context, name string) error
}

// ComputeManager defines the interface for instance and spot request lifecycle.
type ComputeManager interface {
	// ResolveImage returns the newest Ubuntu LTS AMI for the architecture
	// (x86_64 or arm64) in the client's region.
	ResolveImage(ctx context.Context, architecture string) (string, error)
	RunInstance(ctx context.Context, opts InstanceCreateOpts) (string, error)
	RequestSpotInstance(ctx context.Context, opts InstanceCreateOpts, maxHourlyPrice float64) (string, error)
	GetSpotRequest(ctx context.Context, id string) (*SpotRequestInfo, error)
	CancelSpotRequest(ctx context.Context, id string) error
	SpotRequestsByTag(ctx context.Context, key, value string) ([]SpotRequestInfo, error)
	GetInstance(ctx context.Context, id string) (*InstanceInfo, error)
	InstancesByTag(ctx context.Context, key, value string) ([]InstanceInfo, error)
	TerminateInstance(ctx context.Context, id string) error
}

// StorageManager defines the interface for the shared EFS filesystem.
type StorageManager interface {
	// GetFileSystem returns the filesystem by creation token, or nil if absent.
	GetFileSystem(ctx context.Context, creationToken string) (*FileSystemInfo, error)
	CreateFileSystem(ctx context.Context, creationToken string, tags map[string]string) (string, error)
	FileSystemsByTag(ctx context.Context, key, value string) ([]FileSystemInfo, error)
	CreateMountTarget(ctx context.Context, fsID, subnetID string, securityGroupIDs []string) (string, error)
	MountTargets(ctx context.Context, fsID string) ([]MountTargetInfo, error)
	DeleteMountTarget(ctx context.Context, id string) error
	DeleteFileSystem(ctx context.Context, id string) error
}

// LoadBalancerManager defines the interface for ALBs and target groups.
type LoadBalancerManager interface {
	// GetLoadBalancer returns the load balancer by name, or nil if absent.
	GetLoadBalancer(ctx context.Context, name string) (*LoadBalancerInfo, error)
	CreateLoadBalancer(ctx context.Context, name string, subnetIDs, securityGroupIDs []string, tags map[string]string) (*LoadBalancerInfo, error)
	LoadBalancersByTag(ctx context.Context, key, value string) ([]LoadBalancerInfo, error)
	CreateTargetGroup(ctx context.Context, name, vpcID string, port int32, tags map[string]string) (*TargetGroupInfo, error)
	TargetGroupsByTag(ctx context.Context, key, value string) ([]TargetGroupInfo, error)
	RegisterInstance(ctx context.Context, targetGroupARN, instanceID string) error
	CreateListener(ctx context.Context, loadBalancerARN, targetGroupARN string, port int32) error
	DeleteLoadBalancer(ctx context.Context, arn string) error
	DeleteTargetGroup(ctx context.Context, arn string) error
}

// DistributionManager defines the interface for CloudFront distributions.
// Distributions must be disabled and fully deployed before deletion.
type DistributionManager interface {
	// GetDistributionByStack returns the stack's distribution, or nil if absent.
	GetDistributionByStack(ctx context.Context, stack string) (*DistributionInfo, error)
	CreateDistribution(ctx context.Context, stack, originDomain string) (*DistributionInfo, error)
	DisableDistribution(ctx context.Context, id string) error
	WaitDistributionDeployed(ctx context.Context, id string, timeout time.Duration) error
	DeleteDistribution(ctx context.Context, id string) error
}

// ParameterStore defines the interface for the remote parameter store.
type ParameterStore interface {
	// ParametersByPath batch-reads all parameters under the path prefix,
	// returning them keyed by the last path element.
	ParametersByPath(ctx context.Context, path string) (map[string]string, error)
}

// CapacityAPI defines read-only price and capacity queries. Both calls take
// an explicit region so the catalog can probe fallback regions concurrently.
type CapacityAPI interface {
	// SpotPrices returns the cheapest current spot price per instance type.
	SpotPrices(ctx context.Context, region string, instanceTypes []string) (map[string]ZonePrice, error)
	// OfferedInstanceTypes reports which of the given types can currently be
	// launched in the region.
	OfferedInstanceTypes(ctx context.Context, region string, instanceTypes []string) (map[string]bool, error)
}

// NetworkInfoProvider exposes the minimal VPC topology lookups the
// provisioner needs (default VPC and its subnets).
type NetworkInfoProvider interface {
	DefaultVPC(ctx context.Context) (string, error)
	SubnetIDs(ctx context.Context, vpcID string) ([]string, error)
}

// CloudManager combines all cloud interfaces.
type CloudManager interface {
	KeyPairManager
	SecurityGroupManager
	IAMManager
	ComputeManager
	StorageManager
	LoadBalancerManager
	DistributionManager
	ParameterStore
	CapacityAPI
	NetworkInfoProvider
}
