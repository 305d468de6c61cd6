package selector

import "fmt"

// BudgetExceededError is returned when matching candidates exist but every
// one of them costs more than the budget ceiling.
type BudgetExceededError struct {
	Budget        float64
	CheapestPrice float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("cheapest matching instance costs $%.4f/h, over the $%.4f/h budget", e.CheapestPrice, e.Budget)
}

// NoCapacityError is returned when no (region, instance type) combination
// matching the profile currently has launch capacity.
type NoCapacityError struct {
	Profile string
}

func (e *NoCapacityError) Error() string {
	if e.Profile == "" {
		return "no instance capacity available in any candidate region"
	}
	return fmt.Sprintf("no instance capacity available for workload profile %q in any candidate region", e.Profile)
}
