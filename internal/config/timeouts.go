package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	SpotFulfillment   time.Duration // Timeout for spot request fulfillment
	InstanceRunning   time.Duration // Timeout for the instance reaching running state
	DistributionWait  time.Duration // Timeout for CDN distribution state changes
	Teardown          time.Duration // Timeout for all delete operations
	HealthCheck       time.Duration // Timeout for the full health validation pass
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - AISTACK_TIMEOUT_SPOT_FULFILLMENT (default: 10m)
//   - AISTACK_TIMEOUT_INSTANCE_RUNNING (default: 5m)
//   - AISTACK_TIMEOUT_DISTRIBUTION_WAIT (default: 30m)
//   - AISTACK_TIMEOUT_TEARDOWN (default: 15m)
//   - AISTACK_TIMEOUT_HEALTH_CHECK (default: 10m)
//   - AISTACK_RETRY_MAX_ATTEMPTS (default: 5)
//   - AISTACK_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		SpotFulfillment:   parseDuration("AISTACK_TIMEOUT_SPOT_FULFILLMENT", 10*time.Minute),
		InstanceRunning:   parseDuration("AISTACK_TIMEOUT_INSTANCE_RUNNING", 5*time.Minute),
		DistributionWait:  parseDuration("AISTACK_TIMEOUT_DISTRIBUTION_WAIT", 30*time.Minute),
		Teardown:          parseDuration("AISTACK_TIMEOUT_TEARDOWN", 15*time.Minute),
		HealthCheck:       parseDuration("AISTACK_TIMEOUT_HEALTH_CHECK", 10*time.Minute),
		RetryMaxAttempts:  parseInt("AISTACK_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("AISTACK_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
