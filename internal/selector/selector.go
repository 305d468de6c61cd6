// Package selector picks the best-fitting compute instance for a workload
// under a budget ceiling.
package selector

import (
	"sort"
	"strings"
)

// Architecture is the CPU architecture of an instance type.
type Architecture string

const (
	ArchX86   Architecture = "x86_64"
	ArchARM64 Architecture = "arm64"
)

// Candidate is one (region, instance type) launch option. Candidates are
// ephemeral: generated per selection pass and discarded after the decision.
type Candidate struct {
	Region            string
	Zone              string
	InstanceType      string
	Architecture      Architecture
	HourlyPrice       float64
	CapacityAvailable bool
	Spot              bool

	// Score is the price-performance ratio, computed during selection.
	Score float64
}

// Profile describes the workload's instance requirements.
type Profile struct {
	Name string

	// Architectures restricts candidates to the given CPU architectures.
	// Empty means any architecture is acceptable.
	Architectures []Architecture

	// MinGPUMemoryGiB is the minimum GPU memory class required.
	MinGPUMemoryGiB int
}

// Options tunes a selection pass.
type Options struct {
	// PreferredRegion wins score-and-price ties.
	PreferredRegion string

	// MinScore is the score threshold for the primary pass. Candidates
	// below it are considered only when nothing above it has capacity.
	MinScore float64
}

// DefaultMinScore is the threshold used when Options.MinScore is zero.
// Derived from the slowest acceptable GPU family at its usual on-demand
// price; anything scoring below this is a poor deal even when available.
const DefaultMinScore = 50.0

// familySpec is the static per-family lookup entry. Adding a family is a
// data change here, not a control-flow change anywhere else.
type familySpec struct {
	Architecture     Architecture
	GPUMemoryGiB     int
	PerformanceIndex float64
}

// gpuFamilies maps instance family to its capabilities and relative
// performance index. The g5g entry carries the Graviton2 uplift: the ARM
// host trades single-GPU throughput for a considerably better
// price-performance ratio.
var gpuFamilies = map[string]familySpec{
	"g4dn": {Architecture: ArchX86, GPUMemoryGiB: 16, PerformanceIndex: 100},
	"g4ad": {Architecture: ArchX86, GPUMemoryGiB: 8, PerformanceIndex: 90},
	"g5":   {Architecture: ArchX86, GPUMemoryGiB: 24, PerformanceIndex: 135},
	"g5g":  {Architecture: ArchARM64, GPUMemoryGiB: 16, PerformanceIndex: 120},
	"g6":   {Architecture: ArchX86, GPUMemoryGiB: 24, PerformanceIndex: 150},
	"p3":   {Architecture: ArchX86, GPUMemoryGiB: 16, PerformanceIndex: 110},
}

// Family extracts the family from an instance type id (g5g.xlarge -> g5g).
func Family(instanceType string) string {
	if idx := strings.Index(instanceType, "."); idx >= 0 {
		return instanceType[:idx]
	}
	return instanceType
}

// FamilyArchitecture returns the CPU architecture of an instance family.
func FamilyArchitecture(instanceType string) (Architecture, bool) {
	spec, ok := gpuFamilies[Family(instanceType)]
	return spec.Architecture, ok
}

// KnownInstanceTypes returns every instance type the catalog probes, in
// stable order.
func KnownInstanceTypes() []string {
	types := make([]string, 0, len(gpuFamilies)*2)
	for family := range gpuFamilies {
		types = append(types, family+".xlarge", family+".2xlarge")
	}
	sort.Strings(types)
	return types
}

// Select picks the best candidate matching the profile under the budget.
//
// Candidates are filtered to the profile's architecture and GPU class, then
// to the budget ceiling, scored as performanceIndex/price and ordered by
// score, price, preferred region and instance type id, in that priority.
// The first capacity-available candidate at or above the minimum score wins;
// if nothing clears the threshold, the best candidate with capacity wins.
// The ordering is total, so identical inputs always produce the same result.
func Select(candidates []Candidate, budget float64, profile Profile, opts Options) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, &NoCapacityError{Profile: profile.Name}
	}

	minScore := opts.MinScore
	if minScore == 0 {
		minScore = DefaultMinScore
	}

	eligible := make([]Candidate, 0, len(candidates))
	cheapest := 0.0
	for _, c := range candidates {
		if !matchesProfile(c, profile) {
			continue
		}
		if cheapest == 0 || c.HourlyPrice < cheapest {
			cheapest = c.HourlyPrice
		}
		if c.HourlyPrice > budget {
			continue
		}
		c.Score = score(c)
		eligible = append(eligible, c)
	}

	if len(eligible) == 0 {
		if cheapest > 0 && cheapest > budget {
			// Matching candidates exist but all cost more than the budget.
			// Never silently pick over-budget.
			return Candidate{}, &BudgetExceededError{Budget: budget, CheapestPrice: cheapest}
		}
		return Candidate{}, &NoCapacityError{Profile: profile.Name}
	}

	sortCandidates(eligible, opts.PreferredRegion)

	for _, c := range eligible {
		if c.CapacityAvailable && c.Score >= minScore {
			return c, nil
		}
	}
	for _, c := range eligible {
		if c.CapacityAvailable {
			return c, nil
		}
	}

	return Candidate{}, &NoCapacityError{Profile: profile.Name}
}

// matchesProfile reports whether a candidate satisfies the workload profile.
// Candidates from unknown families never match.
func matchesProfile(c Candidate, profile Profile) bool {
	spec, ok := gpuFamilies[Family(c.InstanceType)]
	if !ok {
		return false
	}
	if spec.GPUMemoryGiB < profile.MinGPUMemoryGiB {
		return false
	}
	if len(profile.Architectures) == 0 {
		return true
	}
	for _, arch := range profile.Architectures {
		if spec.Architecture == arch {
			return true
		}
	}
	return false
}

// score computes the price-performance ratio of a candidate.
func score(c Candidate) float64 {
	spec := gpuFamilies[Family(c.InstanceType)]
	if c.HourlyPrice <= 0 {
		return 0
	}
	return spec.PerformanceIndex / c.HourlyPrice
}

// sortCandidates orders by score descending, then price ascending, then the
// preferred region, then instance type id and region lexically. The final
// lexical keys make the order total and the selection deterministic.
func sortCandidates(candidates []Candidate, preferredRegion string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.HourlyPrice != b.HourlyPrice {
			return a.HourlyPrice < b.HourlyPrice
		}
		if (a.Region == preferredRegion) != (b.Region == preferredRegion) {
			return a.Region == preferredRegion
		}
		if a.InstanceType != b.InstanceType {
			return a.InstanceType < b.InstanceType
		}
		return a.Region < b.Region
	})
}
