// Package pricing builds instance candidates from spot and on-demand price
// data and estimates stack running costs.
package pricing

import (
	"context"
	"fmt"
	"sort"
	"sync"

	awsplatform "github.com/imamik/aistack/internal/platform/aws"
	"github.com/imamik/aistack/internal/selector"
)

// Catalog produces launch candidates with current price and capacity data.
type Catalog interface {
	// Candidates returns every known GPU instance type in every given
	// region, spot-priced where history exists, on-demand priced from the
	// static table. The result is sorted and independent of probe timing.
	Candidates(ctx context.Context, regions []string, spot bool) ([]selector.Candidate, error)
}

// maxProbeWorkers bounds concurrent per-region API probes.
const maxProbeWorkers = 4

// AWSCatalog implements Catalog against the EC2 price and capacity APIs.
type AWSCatalog struct {
	api awsplatform.CapacityAPI
}

// NewAWSCatalog creates a catalog backed by the given capacity API.
func NewAWSCatalog(api awsplatform.CapacityAPI) *AWSCatalog {
	return &AWSCatalog{api: api}
}

// regionProbe is the result of probing a single region.
type regionProbe struct {
	region     string
	spotPrices map[string]awsplatform.ZonePrice
	offered    map[string]bool
	err        error
}

// Candidates probes all regions concurrently with a bounded worker pool and
// merges the results deterministically. Concurrency never affects the
// selection outcome: the merged slice is fully sorted before return.
func (c *AWSCatalog) Candidates(ctx context.Context, regions []string, spot bool) ([]selector.Candidate, error) {
	types := selector.KnownInstanceTypes()

	probes := make([]regionProbe, len(regions))
	sem := make(chan struct{}, maxProbeWorkers)
	var wg sync.WaitGroup

	for i, region := range regions {
		wg.Add(1)
		go func(i int, region string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			probes[i] = c.probeRegion(ctx, region, types, spot)
		}(i, region)
	}
	wg.Wait()

	var candidates []selector.Candidate
	var firstErr error
	succeeded := 0
	for _, probe := range probes {
		if probe.err != nil {
			if firstErr == nil {
				firstErr = probe.err
			}
			continue
		}
		succeeded++
		candidates = append(candidates, buildCandidates(probe, types, spot)...)
	}

	// A single unreachable fallback region must not sink the whole
	// selection pass; fail only when no region answered.
	if succeeded == 0 && firstErr != nil {
		return nil, fmt.Errorf("price probe failed in all %d regions: %w", len(regions), firstErr)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Region != candidates[j].Region {
			return candidates[i].Region < candidates[j].Region
		}
		return candidates[i].InstanceType < candidates[j].InstanceType
	})
	return candidates, nil
}

func (c *AWSCatalog) probeRegion(ctx context.Context, region string, types []string, spot bool) regionProbe {
	probe := regionProbe{region: region}

	probe.offered, probe.err = c.api.OfferedInstanceTypes(ctx, region, types)
	if probe.err != nil {
		probe.err = fmt.Errorf("capacity probe in %s: %w", region, probe.err)
		return probe
	}

	if spot {
		probe.spotPrices, probe.err = c.api.SpotPrices(ctx, region, types)
		if probe.err != nil {
			probe.err = fmt.Errorf("spot price probe in %s: %w", region, probe.err)
		}
	}
	return probe
}

// buildCandidates turns one region probe into candidates. Spot candidates
// require observed price history; on-demand candidates use the static table.
func buildCandidates(probe regionProbe, types []string, spot bool) []selector.Candidate {
	candidates := make([]selector.Candidate, 0, len(types))
	for _, instanceType := range types {
		arch, known := selector.FamilyArchitecture(instanceType)
		if !known {
			continue
		}

		base := selector.Candidate{
			Region:            probe.region,
			InstanceType:      instanceType,
			Architecture:      arch,
			CapacityAvailable: probe.offered[instanceType],
		}

		if spot {
			zp, ok := probe.spotPrices[instanceType]
			if !ok {
				// No recent spot history means no spot capacity signal.
				continue
			}
			base.Zone = zp.Zone
			base.HourlyPrice = zp.Price
			base.Spot = true
		} else {
			price, ok := OnDemandPrice(instanceType)
			if !ok {
				continue
			}
			base.HourlyPrice = price
		}

		candidates = append(candidates, base)
	}
	return candidates
}
