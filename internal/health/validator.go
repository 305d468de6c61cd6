package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DefaultAttempts and DefaultInterval size the probe loop: services on a
// fresh instance can take a few minutes to pull images and come up.
const (
	DefaultAttempts = 30
	DefaultInterval = 10 * time.Second
)

// ServiceResult is the outcome of probing one endpoint.
type ServiceResult struct {
	Name        string
	URL         string
	Healthy     bool
	Attempts    int
	Failures    int
	Optional    bool
	LastErr     string
	LastChecked time.Time
}

// Result is the outcome of a full validation pass.
type Result struct {
	Services []ServiceResult
}

// Healthy reports whether every required service responded.
func (r *Result) Healthy() bool {
	for _, s := range r.Services {
		if !s.Healthy && !s.Optional {
			return false
		}
	}
	return true
}

// Failed returns the names of required services that never responded.
func (r *Result) Failed() []string {
	var failed []string
	for _, s := range r.Services {
		if !s.Healthy && !s.Optional {
			failed = append(failed, s.Name)
		}
	}
	return failed
}

// Validator probes service endpoints until they respond or attempts run out.
type Validator struct {
	Client   *http.Client
	Attempts int
	Interval time.Duration

	// sleep is swappable so tests do not wait out real intervals.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewValidator creates a validator with default probe settings.
func NewValidator() *Validator {
	return &Validator{
		Client:   &http.Client{Timeout: 5 * time.Second},
		Attempts: DefaultAttempts,
		Interval: DefaultInterval,
	}
}

// Validate probes all endpoints concurrently. Each endpoint is polled until
// its first 2xx response or until attempts are exhausted; one slow service
// never delays probing the others.
func (v *Validator) Validate(ctx context.Context, endpoints []Endpoint) *Result {
	results := make([]ServiceResult, len(endpoints))

	var wg sync.WaitGroup
	for i, ep := range endpoints {
		wg.Add(1)
		go func(i int, ep Endpoint) {
			defer wg.Done()
			results[i] = v.probe(ctx, ep)
		}(i, ep)
	}
	wg.Wait()

	return &Result{Services: results}
}

func (v *Validator) probe(ctx context.Context, ep Endpoint) ServiceResult {
	result := ServiceResult{
		Name:     ep.Service.Name,
		URL:      ep.URL,
		Optional: ep.Optional,
	}

	sleep := v.sleep
	if sleep == nil {
		sleep = waitInterval
	}

	for attempt := 0; attempt < v.Attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, v.Interval); err != nil {
				result.LastErr = err.Error()
				return result
			}
		}
		result.Attempts++
		result.LastChecked = time.Now()

		err := v.probeOnce(ctx, ep.URL)
		if err == nil {
			result.Healthy = true
			return result
		}
		result.Failures++
		result.LastErr = err.Error()

		if ctx.Err() != nil {
			return result
		}
	}
	return result
}

func (v *Validator) probeOnce(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := v.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func waitInterval(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
