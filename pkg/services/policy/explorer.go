package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	azpolicy "github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/policyinsights/armpolicyinsights"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armpolicy"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/de-tools/policy-atlas/pkg/models/domain"
	"github.com/de-tools/policy-atlas/pkg/services/azure"
)

// ExplorerFactory builds an Explorer for the named Azure config profile.
type ExplorerFactory func(ctx context.Context, profile string) (Explorer, error)

// Explorer provides read access to policy compliance data for one
// subscription.
type Explorer interface {
	Scope(resourceGroup string) domain.Scope
	ListComplianceStates(ctx context.Context, scope domain.Scope) ([]domain.ComplianceRecord, error)
	ListResourceGroups(ctx context.Context) ([]domain.ResourceGroup, error)
	ListAssignments(ctx context.Context, scope domain.Scope) ([]domain.PolicyAssignment, error)
}

type armExplorer struct {
	subscriptionID string
	states         *armpolicyinsights.PolicyStatesClient
	groups         *armresources.ResourceGroupsClient
	assignments    *armpolicy.AssignmentsClient
}

// NewExplorer builds an ARM-backed explorer. Retries on throttled or
// transient responses are delegated to the azcore pipeline with an
// explicit exponential backoff and a 30s per-try timeout.
func NewExplorer(cfg *azure.Config) (Explorer, error) {
	opts := &arm.ClientOptions{
		ClientOptions: azpolicy.ClientOptions{
			Retry: azpolicy.RetryOptions{
				MaxRetries: 4,
				TryTimeout: 30 * time.Second,
				RetryDelay: 2 * time.Second,
			},
		},
	}

	insights, err := armpolicyinsights.NewClientFactory(cfg.SubscriptionID, cfg.Credentials, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy insights client: %w", err)
	}
	resources, err := armresources.NewClientFactory(cfg.SubscriptionID, cfg.Credentials, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create resources client: %w", err)
	}
	definitions, err := armpolicy.NewClientFactory(cfg.SubscriptionID, cfg.Credentials, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy client: %w", err)
	}

	return &armExplorer{
		subscriptionID: cfg.SubscriptionID,
		states:         insights.NewPolicyStatesClient(),
		groups:         resources.NewResourceGroupsClient(),
		assignments:    definitions.NewAssignmentsClient(),
	}, nil
}

func (e *armExplorer) Scope(resourceGroup string) domain.Scope {
	return domain.Scope{
		SubscriptionID: e.subscriptionID,
		ResourceGroup:  resourceGroup,
	}
}

// ListComplianceStates pages the latest policy states for the scope. An
// empty result is not an error: evaluation may simply not have run yet.
func (e *armExplorer) ListComplianceStates(ctx context.Context, scope domain.Scope) ([]domain.ComplianceRecord, error) {
	if !scope.IsSubscription() {
		exists, err := e.groups.CheckExistence(ctx, scope.ResourceGroup, nil)
		if err != nil {
			return nil, classify(err)
		}
		if !exists.Success {
			return nil, fmt.Errorf("%w: resource group %q", ErrScopeNotFound, scope.ResourceGroup)
		}
	}

	var records []domain.ComplianceRecord

	if scope.IsSubscription() {
		pager := e.states.NewListQueryResultsForSubscriptionPager(
			armpolicyinsights.PolicyStatesResourceLatest, e.subscriptionID, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, classify(fmt.Errorf("failed to query policy states: %w", err))
			}
			records = append(records, toRecords(page.Value)...)
		}
		return records, nil
	}

	pager := e.states.NewListQueryResultsForResourceGroupPager(
		armpolicyinsights.PolicyStatesResourceLatest, e.subscriptionID, scope.ResourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(fmt.Errorf("failed to query policy states: %w", err))
		}
		records = append(records, toRecords(page.Value)...)
	}
	return records, nil
}

func (e *armExplorer) ListResourceGroups(ctx context.Context) ([]domain.ResourceGroup, error) {
	var groups []domain.ResourceGroup

	pager := e.groups.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(fmt.Errorf("failed to list resource groups: %w", err))
		}
		for _, rg := range page.Value {
			groups = append(groups, domain.ResourceGroup{
				Name:     deref(rg.Name),
				Location: deref(rg.Location),
			})
		}
	}
	return groups, nil
}

func (e *armExplorer) ListAssignments(ctx context.Context, scope domain.Scope) ([]domain.PolicyAssignment, error) {
	var assignments []domain.PolicyAssignment

	collect := func(values []*armpolicy.Assignment) {
		for _, a := range values {
			assignment := domain.PolicyAssignment{Name: deref(a.Name)}
			if a.Properties != nil {
				assignment.DisplayName = deref(a.Properties.DisplayName)
				assignment.Description = deref(a.Properties.Description)
				assignment.Scope = deref(a.Properties.Scope)
				assignment.PolicyDefinitionID = deref(a.Properties.PolicyDefinitionID)
				if a.Properties.EnforcementMode != nil {
					assignment.EnforcementMode = string(*a.Properties.EnforcementMode)
				}
			}
			assignments = append(assignments, assignment)
		}
	}

	if scope.IsSubscription() {
		pager := e.assignments.NewListPager(nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, classify(fmt.Errorf("failed to list policy assignments: %w", err))
			}
			collect(page.Value)
		}
		return assignments, nil
	}

	pager := e.assignments.NewListForResourceGroupPager(scope.ResourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(fmt.Errorf("failed to list policy assignments: %w", err))
		}
		collect(page.Value)
	}
	return assignments, nil
}

// toRecords flattens the raw policy states into compliance records. The
// latest-states API does not surface a typed reason code; the field stays
// empty and renders as N/A.
func toRecords(states []*armpolicyinsights.PolicyState) []domain.ComplianceRecord {
	records := make([]domain.ComplianceRecord, 0, len(states))
	for _, s := range states {
		if s == nil {
			continue
		}
		records = append(records, domain.ComplianceRecord{
			ResourceID:           deref(s.ResourceID),
			ResourceType:         deref(s.ResourceType),
			ResourceLocation:     deref(s.ResourceLocation),
			PolicyAssignmentName: deref(s.PolicyAssignmentName),
			PolicyDefinitionName: deref(s.PolicyDefinitionName),
			ComplianceState:      domain.ParseComplianceState(deref(s.ComplianceState)),
		})
	}
	return records
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
