package domain

import (
	"fmt"
	"strings"
)

type ComplianceState string

const (
	StateCompliant    ComplianceState = "Compliant"
	StateNonCompliant ComplianceState = "NonCompliant"
	StateConflict     ComplianceState = "Conflict"
	StateUnknown      ComplianceState = "Unknown"
)

// ParseComplianceState maps the raw API value to a known state.
// Anything unrecognized is reported as Unknown rather than dropped.
func ParseComplianceState(raw string) ComplianceState {
	switch raw {
	case string(StateCompliant):
		return StateCompliant
	case string(StateNonCompliant):
		return StateNonCompliant
	case string(StateConflict):
		return StateConflict
	default:
		return StateUnknown
	}
}

// ComplianceRecord is a point-in-time evaluation result for one resource
// under one policy assignment.
type ComplianceRecord struct {
	ResourceID           string
	ResourceType         string
	ResourceLocation     string
	PolicyAssignmentName string
	PolicyDefinitionName string
	ComplianceState      ComplianceState
	ReasonCode           string
}

// ResourceName returns the last segment of the ARM resource ID.
func (r ComplianceRecord) ResourceName() string {
	idx := strings.LastIndex(r.ResourceID, "/")
	if idx < 0 {
		return r.ResourceID
	}
	return r.ResourceID[idx+1:]
}

// Scope identifies where compliance states are queried from: a whole
// subscription, or a single resource group within it.
type Scope struct {
	SubscriptionID string
	ResourceGroup  string
}

func (s Scope) IsSubscription() bool {
	return s.ResourceGroup == ""
}

// ResourceID renders the scope as an ARM scope path.
func (s Scope) ResourceID() string {
	if s.IsSubscription() {
		return fmt.Sprintf("/subscriptions/%s", s.SubscriptionID)
	}
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", s.SubscriptionID, s.ResourceGroup)
}

// Label is the scope's short name, used in report filenames.
func (s Scope) Label() string {
	if s.IsSubscription() {
		return s.SubscriptionID
	}
	return s.ResourceGroup
}

type ResourceGroup struct {
	Name     string
	Location string
}

type PolicyAssignment struct {
	Name               string
	DisplayName        string
	Description        string
	Scope              string
	PolicyDefinitionID string
	EnforcementMode    string
}
