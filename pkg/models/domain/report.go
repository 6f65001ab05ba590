package domain

import "time"

// ComplianceReport is the complete aggregation result for one scope.
// It is built once per run and never mutated after rendering.
type ComplianceReport struct {
	Scope         Scope
	GeneratedAt   time.Time
	Overall       map[ComplianceState]int
	Assignments   []AssignmentSummary
	ResourceTypes []ResourceTypeSummary
	NonCompliant  []ComplianceRecord
}

// TotalResources is the number of evaluated records across all states.
func (r *ComplianceReport) TotalResources() int {
	total := 0
	for _, n := range r.Overall {
		total += n
	}
	return total
}

// AssignmentSummary holds per-assignment compliance counts.
// Total == Compliant + NonCompliant + Other always holds.
type AssignmentSummary struct {
	Assignment   string
	Compliant    int
	NonCompliant int
	Other        int
	Total        int
	Rate         int // whole percent, floored
}

// ResourceTypeSummary holds the per-resource-type breakdown. Its rate is
// kept to one decimal, unlike the floored per-assignment rate.
type ResourceTypeSummary struct {
	ResourceType string
	Compliant    int
	NonCompliant int
	Other        int
	Total        int
	Rate         float64
}
