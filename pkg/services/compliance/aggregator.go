package compliance

import (
	"math"
	"sort"

	"github.com/de-tools/policy-atlas/pkg/models/domain"
)

// Aggregate folds raw compliance records into a report: overall counts by
// state, per-assignment summaries, a per-resource-type breakdown and the
// non-compliant details. It is a pure function; callers stamp the scope
// and generation time.
//
// The per-assignment rate is a floored whole percent while the
// per-resource-type rate keeps one rounded decimal. The two conventions
// are kept distinct on purpose.
func Aggregate(records []domain.ComplianceRecord) *domain.ComplianceReport {
	report := &domain.ComplianceReport{
		Overall:       map[domain.ComplianceState]int{},
		Assignments:   []domain.AssignmentSummary{},
		ResourceTypes: []domain.ResourceTypeSummary{},
		NonCompliant:  []domain.ComplianceRecord{},
	}

	byAssignment := map[string]*domain.AssignmentSummary{}
	byType := map[string]*domain.ResourceTypeSummary{}

	for _, record := range records {
		report.Overall[record.ComplianceState]++

		assignment, ok := byAssignment[record.PolicyAssignmentName]
		if !ok {
			assignment = &domain.AssignmentSummary{Assignment: record.PolicyAssignmentName}
			byAssignment[record.PolicyAssignmentName] = assignment
		}
		rt, ok := byType[record.ResourceType]
		if !ok {
			rt = &domain.ResourceTypeSummary{ResourceType: record.ResourceType}
			byType[record.ResourceType] = rt
		}

		assignment.Total++
		rt.Total++
		switch record.ComplianceState {
		case domain.StateCompliant:
			assignment.Compliant++
			rt.Compliant++
		case domain.StateNonCompliant:
			assignment.NonCompliant++
			rt.NonCompliant++
			report.NonCompliant = append(report.NonCompliant, record)
		default:
			assignment.Other++
			rt.Other++
		}
	}

	for _, summary := range byAssignment {
		if summary.Total > 0 {
			summary.Rate = summary.Compliant * 100 / summary.Total
		}
		report.Assignments = append(report.Assignments, *summary)
	}
	for _, summary := range byType {
		if summary.Total > 0 {
			summary.Rate = math.Round(float64(summary.Compliant)/float64(summary.Total)*1000) / 10
		}
		report.ResourceTypes = append(report.ResourceTypes, *summary)
	}

	sort.Slice(report.Assignments, func(i, j int) bool {
		return report.Assignments[i].Assignment < report.Assignments[j].Assignment
	})
	sort.Slice(report.ResourceTypes, func(i, j int) bool {
		return report.ResourceTypes[i].ResourceType < report.ResourceTypes[j].ResourceType
	})
	sort.SliceStable(report.NonCompliant, func(i, j int) bool {
		if report.NonCompliant[i].ResourceID != report.NonCompliant[j].ResourceID {
			return report.NonCompliant[i].ResourceID < report.NonCompliant[j].ResourceID
		}
		return report.NonCompliant[i].PolicyAssignmentName < report.NonCompliant[j].PolicyAssignmentName
	})

	return report
}
