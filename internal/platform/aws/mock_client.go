package aws

import (
	"context"
	"sync"
	"time"
)

// MockClient is a mock implementation of CloudManager. Each method delegates
// to its Func field when set and otherwise returns a benign default, so tests
// only wire up the calls they care about. Calls records every invocation in
// order, which the teardown tests use to assert the destroy sequence.
type MockClient struct {
	mu    sync.Mutex
	Calls []string

	GetKeyPairFunc    func(ctx context.Context, name string) (*KeyPairInfo, error)
	ImportKeyPairFunc func(ctx context.Context, name string, publicKey []byte, tags map[string]string) (string, error)
	DeleteKeyPairFunc func(ctx context.Context, name string) error

	GetSecurityGroupByNameFunc func(ctx context.Context, name string) (*SecurityGroupInfo, error)
	CreateSecurityGroupFunc    func(ctx context.Context, name, description, vpcID string, tags map[string]string) (string, error)
	AuthorizeIngressFunc       func(ctx context.Context, groupID string, rules []IngressRule) error
	SecurityGroupsByTagFunc    func(ctx context.Context, key, value string) ([]SecurityGroupInfo, error)
	DeleteSecurityGroupFunc    func(ctx context.Context, id string) error

	GetRoleFunc                       func(ctx context.Context, name string) (*RoleInfo, error)
	CreateRoleFunc                    func(ctx context.Context, name, trustPolicy string, tags map[string]string) (*RoleInfo, error)
	PutRolePolicyFunc                 func(ctx context.Context, roleName, policyName, document string) error
	AttachRolePolicyFunc              func(ctx context.Context, roleName, policyARN string) error
	ListInlinePoliciesFunc            func(ctx context.Context, roleName string) ([]string, error)
	ListAttachedPoliciesFunc          func(ctx context.Context, roleName string) ([]string, error)
	DeleteRolePolicyFunc              func(ctx context.Context, roleName, policyName string) error
	DetachRolePolicyFunc              func(ctx context.Context, roleName, policyARN string) error
	DeleteRoleFunc                    func(ctx context.Context, name string) error
	GetInstanceProfileFunc            func(ctx context.Context, name string) (*InstanceProfileInfo, error)
	CreateInstanceProfileFunc         func(ctx context.Context, name string, tags map[string]string) (*InstanceProfileInfo, error)
	AddRoleToInstanceProfileFunc      func(ctx context.Context, profileName, roleName string) error
	InstanceProfilesForRoleFunc       func(ctx context.Context, roleName string) ([]InstanceProfileInfo, error)
	RemoveRoleFromInstanceProfileFunc func(ctx context.Context, profileName, roleName string) error
	DeleteInstanceProfileFunc         func(ctx context.Context, name string) error

	ResolveImageFunc        func(ctx context.Context, architecture string) (string, error)
	RunInstanceFunc         func(ctx context.Context, opts InstanceCreateOpts) (string, error)
	RequestSpotInstanceFunc func(ctx context.Context, opts InstanceCreateOpts, maxHourlyPrice float64) (string, error)
	GetSpotRequestFunc      func(ctx context.Context, id string) (*SpotRequestInfo, error)
	CancelSpotRequestFunc   func(ctx context.Context, id string) error
	SpotRequestsByTagFunc   func(ctx context.Context, key, value string) ([]SpotRequestInfo, error)
	GetInstanceFunc         func(ctx context.Context, id string) (*InstanceInfo, error)
	InstancesByTagFunc      func(ctx context.Context, key, value string) ([]InstanceInfo, error)
	TerminateInstanceFunc   func(ctx context.Context, id string) error

	GetFileSystemFunc     func(ctx context.Context, creationToken string) (*FileSystemInfo, error)
	CreateFileSystemFunc  func(ctx context.Context, creationToken string, tags map[string]string) (string, error)
	FileSystemsByTagFunc  func(ctx context.Context, key, value string) ([]FileSystemInfo, error)
	CreateMountTargetFunc func(ctx context.Context, fsID, subnetID string, securityGroupIDs []string) (string, error)
	MountTargetsFunc      func(ctx context.Context, fsID string) ([]MountTargetInfo, error)
	DeleteMountTargetFunc func(ctx context.Context, id string) error
	DeleteFileSystemFunc  func(ctx context.Context, id string) error

	GetLoadBalancerFunc    func(ctx context.Context, name string) (*LoadBalancerInfo, error)
	CreateLoadBalancerFunc func(ctx context.Context, name string, subnetIDs, securityGroupIDs []string, tags map[string]string) (*LoadBalancerInfo, error)
	LoadBalancersByTagFunc func(ctx context.Context, key, value string) ([]LoadBalancerInfo, error)
	CreateTargetGroupFunc  func(ctx context.Context, name, vpcID string, port int32, tags map[string]string) (*TargetGroupInfo, error)
	TargetGroupsByTagFunc  func(ctx context.Context, key, value string) ([]TargetGroupInfo, error)
	RegisterInstanceFunc   func(ctx context.Context, targetGroupARN, instanceID string) error
	CreateListenerFunc     func(ctx context.Context, loadBalancerARN, targetGroupARN string, port int32) error
	DeleteLoadBalancerFunc func(ctx context.Context, arn string) error
	DeleteTargetGroupFunc  func(ctx context.Context, arn string) error

	GetDistributionByStackFunc  func(ctx context.Context, stack string) (*DistributionInfo, error)
	CreateDistributionFunc      func(ctx context.Context, stack, originDomain string) (*DistributionInfo, error)
	DisableDistributionFunc     func(ctx context.Context, id string) error
	WaitDistributionDeployedFunc func(ctx context.Context, id string, timeout time.Duration) error
	DeleteDistributionFunc      func(ctx context.Context, id string) error

	ParametersByPathFunc func(ctx context.Context, path string) (map[string]string, error)

	SpotPricesFunc           func(ctx context.Context, region string, instanceTypes []string) (map[string]ZonePrice, error)
	OfferedInstanceTypesFunc func(ctx context.Context, region string, instanceTypes []string) (map[string]bool, error)

	DefaultVPCFunc func(ctx context.Context) (string, error)
	SubnetIDsFunc  func(ctx context.Context, vpcID string) ([]string, error)
}

// Ensure interface compliance.
var _ CloudManager = (*MockClient)(nil)

// record appends a call marker for order-sensitive assertions.
func (m *MockClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallLog returns a copy of the recorded calls.
func (m *MockClient) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

func (m *MockClient) GetKeyPair(ctx context.Context, name string) (*KeyPairInfo, error) {
	m.record("GetKeyPair:" + name)
	if m.GetKeyPairFunc != nil {
		return m.GetKeyPairFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) ImportKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) (string, error) {
	m.record("ImportKeyPair:" + name)
	if m.ImportKeyPairFunc != nil {
		return m.ImportKeyPairFunc(ctx, name, publicKey, tags)
	}
	return "key-mock", nil
}

func (m *MockClient) DeleteKeyPair(ctx context.Context, name string) error {
	m.record("DeleteKeyPair:" + name)
	if m.DeleteKeyPairFunc != nil {
		return m.DeleteKeyPairFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) GetSecurityGroupByName(ctx context.Context, name string) (*SecurityGroupInfo, error) {
	m.record("GetSecurityGroupByName:" + name)
	if m.GetSecurityGroupByNameFunc != nil {
		return m.GetSecurityGroupByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) CreateSecurityGroup(ctx context.Context, name, description, vpcID string, tags map[string]string) (string, error) {
	m.record("CreateSecurityGroup:" + name)
	if m.CreateSecurityGroupFunc != nil {
		return m.CreateSecurityGroupFunc(ctx, name, description, vpcID, tags)
	}
	return "sg-mock", nil
}

func (m *MockClient) AuthorizeIngress(ctx context.Context, groupID string, rules []IngressRule) error {
	m.record("AuthorizeIngress:" + groupID)
	if m.AuthorizeIngressFunc != nil {
		return m.AuthorizeIngressFunc(ctx, groupID, rules)
	}
	return nil
}

func (m *MockClient) SecurityGroupsByTag(ctx context.Context, key, value string) ([]SecurityGroupInfo, error) {
	m.record("SecurityGroupsByTag:" + value)
	if m.SecurityGroupsByTagFunc != nil {
		return m.SecurityGroupsByTagFunc(ctx, key, value)
	}
	return nil, nil
}

func (m *MockClient) DeleteSecurityGroup(ctx context.Context, id string) error {
	m.record("DeleteSecurityGroup:" + id)
	if m.DeleteSecurityGroupFunc != nil {
		return m.DeleteSecurityGroupFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) GetRole(ctx context.Context, name string) (*RoleInfo, error) {
	m.record("GetRole:" + name)
	if m.GetRoleFunc != nil {
		return m.GetRoleFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) CreateRole(ctx context.Context, name, trustPolicy string, tags map[string]string) (*RoleInfo, error) {
	m.record("CreateRole:" + name)
	if m.CreateRoleFunc != nil {
		return m.CreateRoleFunc(ctx, name, trustPolicy, tags)
	}
	return &RoleInfo{Name: name, ARN: "arn:aws:iam::000000000000:role/" + name}, nil
}

func (m *MockClient) PutRolePolicy(ctx context.Context, roleName, policyName, document string) error {
	m.record("PutRolePolicy:" + policyName)
	if m.PutRolePolicyFunc != nil {
		return m.PutRolePolicyFunc(ctx, roleName, policyName, document)
	}
	return nil
}

func (m *MockClient) AttachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	m.record("AttachRolePolicy:" + policyARN)
	if m.AttachRolePolicyFunc != nil {
		return m.AttachRolePolicyFunc(ctx, roleName, policyARN)
	}
	return nil
}

func (m *MockClient) ListInlinePolicies(ctx context.Context, roleName string) ([]string, error) {
	m.record("ListInlinePolicies:" + roleName)
	if m.ListInlinePoliciesFunc != nil {
		return m.ListInlinePoliciesFunc(ctx, roleName)
	}
	return nil, nil
}

func (m *MockClient) ListAttachedPolicies(ctx context.Context, roleName string) ([]string, error) {
	m.record("ListAttachedPolicies:" + roleName)
	if m.ListAttachedPoliciesFunc != nil {
		return m.ListAttachedPoliciesFunc(ctx, roleName)
	}
	return nil, nil
}

func (m *MockClient) DeleteRolePolicy(ctx context.Context, roleName, policyName string) error {
	m.record("DeleteRolePolicy:" + policyName)
	if m.DeleteRolePolicyFunc != nil {
		return m.DeleteRolePolicyFunc(ctx, roleName, policyName)
	}
	return nil
}

func (m *MockClient) DetachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	m.record("DetachRolePolicy:" + policyARN)
	if m.DetachRolePolicyFunc != nil {
		return m.DetachRolePolicyFunc(ctx, roleName, policyARN)
	}
	return nil
}

func (m *MockClient) DeleteRole(ctx context.Context, name string) error {
	m.record("DeleteRole:" + name)
	if m.DeleteRoleFunc != nil {
		return m.DeleteRoleFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) GetInstanceProfile(ctx context.Context, name string) (*InstanceProfileInfo, error) {
	m.record("GetInstanceProfile:" + name)
	if m.GetInstanceProfileFunc != nil {
		return m.GetInstanceProfileFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) CreateInstanceProfile(ctx context.Context, name string, tags map[string]string) (*InstanceProfileInfo, error) {
	m.record("CreateInstanceProfile:" + name)
	if m.CreateInstanceProfileFunc != nil {
		return m.CreateInstanceProfileFunc(ctx, name, tags)
	}
	return &InstanceProfileInfo{Name: name, ARN: "arn:aws:iam::000000000000:instance-profile/" + name}, nil
}

func (m *MockClient) AddRoleToInstanceProfile(ctx context.Context, profileName, roleName string) error {
	m.record("AddRoleToInstanceProfile:" + profileName)
	if m.AddRoleToInstanceProfileFunc != nil {
		return m.AddRoleToInstanceProfileFunc(ctx, profileName, roleName)
	}
	return nil
}

func (m *MockClient) InstanceProfilesForRole(ctx context.Context, roleName string) ([]InstanceProfileInfo, error) {
	m.record("InstanceProfilesForRole:" + roleName)
	if m.InstanceProfilesForRoleFunc != nil {
		return m.InstanceProfilesForRoleFunc(ctx, roleName)
	}
	return nil, nil
}

func (m *MockClient) RemoveRoleFromInstanceProfile(ctx context.Context, profileName, roleName string) error {
	m.record("RemoveRoleFromInstanceProfile:" + profileName)
	if m.RemoveRoleFromInstanceProfileFunc != nil {
		return m.RemoveRoleFromInstanceProfileFunc(ctx, profileName, roleName)
	}
	return nil
}

func (m *MockClient) DeleteInstanceProfile(ctx context.Context, name string) error {
	m.record("DeleteInstanceProfile:" + name)
	if m.DeleteInstanceProfileFunc != nil {
		return m.DeleteInstanceProfileFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) ResolveImage(ctx context.Context, architecture string) (string, error) {
	m.record("ResolveImage:" + architecture)
	if m.ResolveImageFunc != nil {
		return m.ResolveImageFunc(ctx, architecture)
	}
	return "ami-mock", nil
}

func (m *MockClient) RunInstance(ctx context.Context, opts InstanceCreateOpts) (string, error) {
	m.record("RunInstance:" + opts.Name)
	if m.RunInstanceFunc != nil {
		return m.RunInstanceFunc(ctx, opts)
	}
	return "i-mock", nil
}

func (m *MockClient) RequestSpotInstance(ctx context.Context, opts InstanceCreateOpts, maxHourlyPrice float64) (string, error) {
	m.record("RequestSpotInstance:" + opts.Name)
	if m.RequestSpotInstanceFunc != nil {
		return m.RequestSpotInstanceFunc(ctx, opts, maxHourlyPrice)
	}
	return "sir-mock", nil
}

func (m *MockClient) GetSpotRequest(ctx context.Context, id string) (*SpotRequestInfo, error) {
	m.record("GetSpotRequest:" + id)
	if m.GetSpotRequestFunc != nil {
		return m.GetSpotRequestFunc(ctx, id)
	}
	return &SpotRequestInfo{ID: id, State: "active", StatusCode: "fulfilled", InstanceID: "i-mock"}, nil
}

func (m *MockClient) CancelSpotRequest(ctx context.Context, id string) error {
	m.record("CancelSpotRequest:" + id)
	if m.CancelSpotRequestFunc != nil {
		return m.CancelSpotRequestFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) SpotRequestsByTag(ctx context.Context, key, value string) ([]SpotRequestInfo, error) {
	m.record("SpotRequestsByTag:" + value)
	if m.SpotRequestsByTagFunc != nil {
		return m.SpotRequestsByTagFunc(ctx, key, value)
	}
	return nil, nil
}

func (m *MockClient) GetInstance(ctx context.Context, id string) (*InstanceInfo, error) {
	m.record("GetInstance:" + id)
	if m.GetInstanceFunc != nil {
		return m.GetInstanceFunc(ctx, id)
	}
	return &InstanceInfo{ID: id, State: "running", PublicIP: "198.51.100.10"}, nil
}

func (m *MockClient) InstancesByTag(ctx context.Context, key, value string) ([]InstanceInfo, error) {
	m.record("InstancesByTag:" + value)
	if m.InstancesByTagFunc != nil {
		return m.InstancesByTagFunc(ctx, key, value)
	}
	return nil, nil
}

func (m *MockClient) TerminateInstance(ctx context.Context, id string) error {
	m.record("TerminateInstance:" + id)
	if m.TerminateInstanceFunc != nil {
		return m.TerminateInstanceFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) GetFileSystem(ctx context.Context, creationToken string) (*FileSystemInfo, error) {
	m.record("GetFileSystem:" + creationToken)
	if m.GetFileSystemFunc != nil {
		return m.GetFileSystemFunc(ctx, creationToken)
	}
	return nil, nil
}

func (m *MockClient) CreateFileSystem(ctx context.Context, creationToken string, tags map[string]string) (string, error) {
	m.record("CreateFileSystem:" + creationToken)
	if m.CreateFileSystemFunc != nil {
		return m.CreateFileSystemFunc(ctx, creationToken, tags)
	}
	return "fs-mock", nil
}

func (m *MockClient) FileSystemsByTag(ctx context.Context, key, value string) ([]FileSystemInfo, error) {
	m.record("FileSystemsByTag:" + value)
	if m.FileSystemsByTagFunc != nil {
		return m.FileSystemsByTagFunc(ctx, key, value)
	}
	return nil, nil
}

func (m *MockClient) CreateMountTarget(ctx context.Context, fsID, subnetID string, securityGroupIDs []string) (string, error) {
	m.record("CreateMountTarget:" + fsID)
	if m.CreateMountTargetFunc != nil {
		return m.CreateMountTargetFunc(ctx, fsID, subnetID, securityGroupIDs)
	}
	return "fsmt-mock", nil
}

func (m *MockClient) MountTargets(ctx context.Context, fsID string) ([]MountTargetInfo, error) {
	m.record("MountTargets:" + fsID)
	if m.MountTargetsFunc != nil {
		return m.MountTargetsFunc(ctx, fsID)
	}
	return nil, nil
}

func (m *MockClient) DeleteMountTarget(ctx context.Context, id string) error {
	m.record("DeleteMountTarget:" + id)
	if m.DeleteMountTargetFunc != nil {
		return m.DeleteMountTargetFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) DeleteFileSystem(ctx context.Context, id string) error {
	m.record("DeleteFileSystem:" + id)
	if m.DeleteFileSystemFunc != nil {
		return m.DeleteFileSystemFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) GetLoadBalancer(ctx context.Context, name string) (*LoadBalancerInfo, error) {
	m.record("GetLoadBalancer:" + name)
	if m.GetLoadBalancerFunc != nil {
		return m.GetLoadBalancerFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) CreateLoadBalancer(ctx context.Context, name string, subnetIDs, securityGroupIDs []string, tags map[string]string) (*LoadBalancerInfo, error) {
	m.record("CreateLoadBalancer:" + name)
	if m.CreateLoadBalancerFunc != nil {
		return m.CreateLoadBalancerFunc(ctx, name, subnetIDs, securityGroupIDs, tags)
	}
	return &LoadBalancerInfo{ARN: "arn:mock:lb/" + name, Name: name, DNSName: name + ".elb.amazonaws.com", State: "active"}, nil
}

func (m *MockClient) LoadBalancersByTag(ctx context.Context, key, value string) ([]LoadBalancerInfo, error) {
	m.record("LoadBalancersByTag:" + value)
	if m.LoadBalancersByTagFunc != nil {
		return m.LoadBalancersByTagFunc(ctx, key, value)
	}
	return nil, nil
}

func (m *MockClient) CreateTargetGroup(ctx context.Context, name, vpcID string, port int32, tags map[string]string) (*TargetGroupInfo, error) {
	m.record("CreateTargetGroup:" + name)
	if m.CreateTargetGroupFunc != nil {
		return m.CreateTargetGroupFunc(ctx, name, vpcID, port, tags)
	}
	return &TargetGroupInfo{ARN: "arn:mock:tg/" + name, Name: name}, nil
}

func (m *MockClient) TargetGroupsByTag(ctx context.Context, key, value string) ([]TargetGroupInfo, error) {
	m.record("TargetGroupsByTag:" + value)
	if m.TargetGroupsByTagFunc != nil {
		return m.TargetGroupsByTagFunc(ctx, key, value)
	}
	return nil, nil
}

func (m *MockClient) RegisterInstance(ctx context.Context, targetGroupARN, instanceID string) error {
	m.record("RegisterInstance:" + instanceID)
	if m.RegisterInstanceFunc != nil {
		return m.RegisterInstanceFunc(ctx, targetGroupARN, instanceID)
	}
	return nil
}

func (m *MockClient) CreateListener(ctx context.Context, loadBalancerARN, targetGroupARN string, port int32) error {
	m.record("CreateListener:" + loadBalancerARN)
	if m.CreateListenerFunc != nil {
		return m.CreateListenerFunc(ctx, loadBalancerARN, targetGroupARN, port)
	}
	return nil
}

func (m *MockClient) DeleteLoadBalancer(ctx context.Context, arn string) error {
	m.record("DeleteLoadBalancer:" + arn)
	if m.DeleteLoadBalancerFunc != nil {
		return m.DeleteLoadBalancerFunc(ctx, arn)
	}
	return nil
}

func (m *MockClient) DeleteTargetGroup(ctx context.Context, arn string) error {
	m.record("DeleteTargetGroup:" + arn)
	if m.DeleteTargetGroupFunc != nil {
		return m.DeleteTargetGroupFunc(ctx, arn)
	}
	return nil
}

func (m *MockClient) GetDistributionByStack(ctx context.Context, stack string) (*DistributionInfo, error) {
	m.record("GetDistributionByStack:" + stack)
	if m.GetDistributionByStackFunc != nil {
		return m.GetDistributionByStackFunc(ctx, stack)
	}
	return nil, nil
}

func (m *MockClient) CreateDistribution(ctx context.Context, stack, originDomain string) (*DistributionInfo, error) {
	m.record("CreateDistribution:" + stack)
	if m.CreateDistributionFunc != nil {
		return m.CreateDistributionFunc(ctx, stack, originDomain)
	}
	return &DistributionInfo{ID: "E2MOCK", DomainName: "mock.cloudfront.net", Status: "Deployed", Enabled: true}, nil
}

func (m *MockClient) DisableDistribution(ctx context.Context, id string) error {
	m.record("DisableDistribution:" + id)
	if m.DisableDistributionFunc != nil {
		return m.DisableDistributionFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) WaitDistributionDeployed(ctx context.Context, id string, timeout time.Duration) error {
	m.record("WaitDistributionDeployed:" + id)
	if m.WaitDistributionDeployedFunc != nil {
		return m.WaitDistributionDeployedFunc(ctx, id, timeout)
	}
	return nil
}

func (m *MockClient) DeleteDistribution(ctx context.Context, id string) error {
	m.record("DeleteDistribution:" + id)
	if m.DeleteDistributionFunc != nil {
		return m.DeleteDistributionFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) ParametersByPath(ctx context.Context, path string) (map[string]string, error) {
	m.record("ParametersByPath:" + path)
	if m.ParametersByPathFunc != nil {
		return m.ParametersByPathFunc(ctx, path)
	}
	return map[string]string{}, nil
}

func (m *MockClient) SpotPrices(ctx context.Context, region string, instanceTypes []string) (map[string]ZonePrice, error) {
	m.record("SpotPrices:" + region)
	if m.SpotPricesFunc != nil {
		return m.SpotPricesFunc(ctx, region, instanceTypes)
	}
	return map[string]ZonePrice{}, nil
}

func (m *MockClient) OfferedInstanceTypes(ctx context.Context, region string, instanceTypes []string) (map[string]bool, error) {
	m.record("OfferedInstanceTypes:" + region)
	if m.OfferedInstanceTypesFunc != nil {
		return m.OfferedInstanceTypesFunc(ctx, region, instanceTypes)
	}
	offered := make(map[string]bool, len(instanceTypes))
	for _, t := range instanceTypes {
		offered[t] = true
	}
	return offered, nil
}

func (m *MockClient) DefaultVPC(ctx context.Context) (string, error) {
	m.record("DefaultVPC")
	if m.DefaultVPCFunc != nil {
		return m.DefaultVPCFunc(ctx)
	}
	return "vpc-mock", nil
}

func (m *MockClient) SubnetIDs(ctx context.Context, vpcID string) ([]string, error) {
	m.record("SubnetIDs:" + vpcID)
	if m.SubnetIDsFunc != nil {
		return m.SubnetIDsFunc(ctx, vpcID)
	}
	return []string{"subnet-mock-a", "subnet-mock-b"}, nil
}
