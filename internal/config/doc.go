// Package config resolves the deployment configuration from CLI flags,
// environment variables, an optional stack file, the remote parameter store
// and built-in defaults, in that precedence order.
package config
