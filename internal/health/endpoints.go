// Package health validates that the deployed service stack is reachable and
// responding.
package health

import "fmt"

// Service describes one stack service and how to probe it.
type Service struct {
	Name       string
	Port       int
	HealthPath string

	// Optional services are reported but do not fail validation.
	Optional bool
}

// DefaultServices is the service table for the standard stack.
var DefaultServices = []Service{
	{Name: "n8n", Port: 5678, HealthPath: "/healthz"},
	{Name: "ollama", Port: 11434, HealthPath: "/api/tags"},
	{Name: "qdrant", Port: 6333, HealthPath: "/healthz"},
	{Name: "crawl4ai", Port: 11235, HealthPath: "/health", Optional: true},
}

// ServicePorts returns the ports of all default services, for ingress rules.
func ServicePorts() []int {
	ports := make([]int, 0, len(DefaultServices))
	for _, s := range DefaultServices {
		ports = append(ports, s.Port)
	}
	return ports
}

// Endpoint is one concrete URL to probe.
type Endpoint struct {
	Service  Service
	URL      string
	Optional bool
}

// Endpoints builds the probe list for a host from the service table.
func Endpoints(host string, services []Service) []Endpoint {
	endpoints := make([]Endpoint, 0, len(services))
	for _, s := range services {
		endpoints = append(endpoints, Endpoint{
			Service:  s,
			URL:      fmt.Sprintf("http://%s:%d%s", host, s.Port, s.HealthPath),
			Optional: s.Optional,
		})
	}
	return endpoints
}
