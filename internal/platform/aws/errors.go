package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// Error codes are shared across EC2, IAM, EFS, ELBv2 and CloudFront; the
// classifiers below fold the per-service spellings into the four classes the
// orchestrator cares about: not-found, conflict, throttling and auth.

var notFoundCodes = map[string]bool{
	"InvalidKeyPair.NotFound":      true,
	"InvalidGroup.NotFound":        true,
	"InvalidInstanceID.NotFound":   true,
	"InvalidSpotInstanceRequestID.NotFound": true,
	"InvalidVolume.NotFound":       true,
	"NoSuchEntity":                 true,
	"FileSystemNotFound":           true,
	"MountTargetNotFound":          true,
	"LoadBalancerNotFound":         true,
	"TargetGroupNotFound":          true,
	"ListenerNotFound":             true,
	"NoSuchDistribution":           true,
	"ParameterNotFound":            true,
}

var conflictCodes = map[string]bool{
	"DeleteConflict":            true,
	"DependencyViolation":       true,
	"ResourceInUse":             true,
	"ResourceInUseException":    true,
	"EntityAlreadyExists":       true,
	"InvalidGroup.Duplicate":    true,
	"InvalidKeyPair.Duplicate":  true,
	"DuplicateLoadBalancerName": true,
	"DistributionNotDisabled":   true,
	"IncompatibleVpcs":          true,
}

var throttlingCodes = map[string]bool{
	"Throttling":              true,
	"ThrottlingException":     true,
	"RequestLimitExceeded":    true,
	"TooManyRequestsException": true,
	"RequestThrottled":        true,
	"EC2ThrottledException":   true,
}

var authCodes = map[string]bool{
	"AuthFailure":             true,
	"UnauthorizedOperation":   true,
	"AccessDenied":            true,
	"AccessDeniedException":   true,
	"ExpiredToken":            true,
	"ExpiredTokenException":   true,
	"InvalidClientTokenId":    true,
	"SignatureDoesNotMatch":   true,
	"MissingAuthenticationToken": true,
}

var quotaCodes = map[string]bool{
	"LimitExceeded":               true,
	"LimitExceededException":      true,
	"InstanceLimitExceeded":       true,
	"VcpuLimitExceeded":           true,
	"ServiceQuotaExceededException": true,
	"MaxSpotInstanceCountExceeded": true,
	"SecurityGroupLimitExceeded":  true,
}

// propagationCodes covers the window where a freshly created instance
// profile has not yet propagated to EC2 and launch calls reject it.
var propagationCodes = map[string]bool{
	"InvalidParameterValue": true,
}

// hasErrorCode checks whether err is an AWS API error carrying one of the
// given codes.
func hasErrorCode(err error, codes map[string]bool) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return codes[apiErr.ErrorCode()]
	}
	return false
}

// IsNotFound checks if an error indicates a resource was not found.
// Teardown treats not-found as success so re-invocation stays safe.
func IsNotFound(err error) bool {
	return hasErrorCode(err, notFoundCodes)
}

// IsConflict checks if an error indicates a dependency or naming conflict
// (e.g. IAM DeleteConflict). These errors are fatal and must not be retried.
func IsConflict(err error) bool {
	return hasErrorCode(err, conflictCodes)
}

// IsThrottling checks if an error is a provider-side rate limit. Only these
// errors are retried with backoff.
func IsThrottling(err error) bool {
	return hasErrorCode(err, throttlingCodes)
}

// IsAuthError checks if an error indicates bad or expired credentials.
func IsAuthError(err error) bool {
	return hasErrorCode(err, authCodes)
}

// IsQuotaExceeded checks if an error indicates an account quota was hit.
func IsQuotaExceeded(err error) bool {
	return hasErrorCode(err, quotaCodes)
}

// IsRetryableLaunch reports whether a launch failure is transient: provider
// throttling or the instance-profile propagation window. Quota, auth and
// conflict errors are semantic and must surface immediately.
func IsRetryableLaunch(err error) bool {
	return IsThrottling(err) || hasErrorCode(err, propagationCodes)
}
