package api

import (
	"time"

	"github.com/de-tools/policy-atlas/pkg/models/domain"
)

type ResourceGroup struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type PolicyAssignment struct {
	Name            string `json:"name"`
	DisplayName     string `json:"display_name,omitempty"`
	Description     string `json:"description,omitempty"`
	Scope           string `json:"scope"`
	EnforcementMode string `json:"enforcement_mode,omitempty"`
}

type AssignmentSummary struct {
	Assignment   string `json:"assignment"`
	Compliant    int    `json:"compliant"`
	NonCompliant int    `json:"non_compliant"`
	Other        int    `json:"other"`
	Total        int    `json:"total"`
	Rate         int    `json:"rate_percent"`
}

type ResourceTypeSummary struct {
	ResourceType string  `json:"resource_type"`
	Compliant    int     `json:"compliant"`
	NonCompliant int     `json:"non_compliant"`
	Other        int     `json:"other"`
	Total        int     `json:"total"`
	Rate         float64 `json:"rate_percent"`
}

type NonCompliantResource struct {
	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id"`
	Type       string `json:"type"`
	Policy     string `json:"policy"`
	Reason     string `json:"reason"`
	Location   string `json:"location"`
}

type ComplianceReport struct {
	Scope         string                 `json:"scope"`
	GeneratedAt   time.Time              `json:"generated_at"`
	Overall       map[string]int         `json:"overall"`
	Assignments   []AssignmentSummary    `json:"by_assignment"`
	ResourceTypes []ResourceTypeSummary  `json:"by_resource_type"`
	NonCompliant  []NonCompliantResource `json:"non_compliant"`
}

func FromDomainReport(report *domain.ComplianceReport) ComplianceReport {
	out := ComplianceReport{
		Scope:         report.Scope.ResourceID(),
		GeneratedAt:   report.GeneratedAt,
		Overall:       map[string]int{},
		Assignments:   []AssignmentSummary{},
		ResourceTypes: []ResourceTypeSummary{},
		NonCompliant:  []NonCompliantResource{},
	}

	for state, count := range report.Overall {
		out.Overall[string(state)] = count
	}
	for _, s := range report.Assignments {
		out.Assignments = append(out.Assignments, AssignmentSummary{
			Assignment:   s.Assignment,
			Compliant:    s.Compliant,
			NonCompliant: s.NonCompliant,
			Other:        s.Other,
			Total:        s.Total,
			Rate:         s.Rate,
		})
	}
	for _, s := range report.ResourceTypes {
		out.ResourceTypes = append(out.ResourceTypes, ResourceTypeSummary{
			ResourceType: s.ResourceType,
			Compliant:    s.Compliant,
			NonCompliant: s.NonCompliant,
			Other:        s.Other,
			Total:        s.Total,
			Rate:         s.Rate,
		})
	}
	for _, r := range report.NonCompliant {
		reason := r.ReasonCode
		if reason == "" {
			reason = "N/A"
		}
		out.NonCompliant = append(out.NonCompliant, NonCompliantResource{
			Resource:   r.ResourceName(),
			ResourceID: r.ResourceID,
			Type:       r.ResourceType,
			Policy:     r.PolicyAssignmentName,
			Reason:     reason,
			Location:   r.ResourceLocation,
		})
	}
	return out
}
