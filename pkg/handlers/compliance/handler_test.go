package compliance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/policy-atlas/pkg/models/api"
	"github.com/de-tools/policy-atlas/pkg/models/domain"
	"github.com/de-tools/policy-atlas/pkg/services/policy"
)

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) Scope(resourceGroup string) domain.Scope {
	return domain.Scope{SubscriptionID: "sub-1", ResourceGroup: resourceGroup}
}

func (m *mockExplorer) ListComplianceStates(ctx context.Context, scope domain.Scope) ([]domain.ComplianceRecord, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplianceRecord), args.Error(1)
}

func (m *mockExplorer) ListResourceGroups(ctx context.Context) ([]domain.ResourceGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResourceGroup), args.Error(1)
}

func (m *mockExplorer) ListAssignments(ctx context.Context, scope domain.Scope) ([]domain.PolicyAssignment, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PolicyAssignment), args.Error(1)
}

func TestListScopes(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockExplorer)
		expectedStatus int
		expectedBody   []api.ResourceGroup
	}{
		{
			name: "successful response",
			setupMock: func(m *mockExplorer) {
				m.On("ListResourceGroups", mock.Anything).Return(
					[]domain.ResourceGroup{
						{Name: "rg-app", Location: "eastus"},
						{Name: "rg-data", Location: "westeurope"},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []api.ResourceGroup{
				{Name: "rg-app", Location: "eastus"},
				{Name: "rg-data", Location: "westeurope"},
			},
		},
		{
			name: "empty subscription",
			setupMock: func(m *mockExplorer) {
				m.On("ListResourceGroups", mock.Anything).Return(
					[]domain.ResourceGroup{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []api.ResourceGroup{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explorer := new(mockExplorer)
			tt.setupMock(explorer)
			handler := NewHandler(explorer)

			req := httptest.NewRequest("GET", "/scopes", nil)
			rec := httptest.NewRecorder()

			handler.ListScopes(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var response []api.ResourceGroup
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.expectedBody, response)

			explorer.AssertExpectations(t)
		})
	}
}

func requestWithScope(method, target, scope string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("scope", scope)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetCompliance(t *testing.T) {
	scope := domain.Scope{SubscriptionID: "sub-1", ResourceGroup: "rg-app"}

	t.Run("aggregated report", func(t *testing.T) {
		explorer := new(mockExplorer)
		explorer.On("ListComplianceStates", mock.Anything, scope).Return(
			[]domain.ComplianceRecord{
				{
					ResourceID:           "/subscriptions/sub-1/resourceGroups/rg-app/providers/Microsoft.Storage/storageAccounts/store1",
					ResourceType:         "Microsoft.Storage/storageAccounts",
					ResourceLocation:     "eastus",
					PolicyAssignmentName: "deny-public-ips",
					ComplianceState:      domain.StateCompliant,
				},
				{
					ResourceID:           "/subscriptions/sub-1/resourceGroups/rg-app/providers/Microsoft.Storage/storageAccounts/store2",
					ResourceType:         "Microsoft.Storage/storageAccounts",
					ResourceLocation:     "eastus",
					PolicyAssignmentName: "deny-public-ips",
					ComplianceState:      domain.StateNonCompliant,
				},
			}, nil)
		handler := NewHandler(explorer)

		rec := httptest.NewRecorder()
		handler.GetCompliance(rec, requestWithScope("GET", "/scopes/rg-app/compliance", "rg-app"))

		assert.Equal(t, http.StatusOK, rec.Code)

		var response api.ComplianceReport
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "/subscriptions/sub-1/resourceGroups/rg-app", response.Scope)
		assert.Equal(t, map[string]int{"Compliant": 1, "NonCompliant": 1}, response.Overall)
		require.Len(t, response.Assignments, 1)
		assert.Equal(t, 50, response.Assignments[0].Rate)
		require.Len(t, response.NonCompliant, 1)
		assert.Equal(t, "store2", response.NonCompliant[0].Resource)
		assert.Equal(t, "N/A", response.NonCompliant[0].Reason)
	})

	t.Run("no data yet yields an empty report", func(t *testing.T) {
		explorer := new(mockExplorer)
		explorer.On("ListComplianceStates", mock.Anything, scope).Return(
			[]domain.ComplianceRecord{}, nil)
		handler := NewHandler(explorer)

		rec := httptest.NewRecorder()
		handler.GetCompliance(rec, requestWithScope("GET", "/scopes/rg-app/compliance", "rg-app"))

		assert.Equal(t, http.StatusOK, rec.Code)

		var response api.ComplianceReport
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.Overall)
		assert.Empty(t, response.Assignments)
		assert.False(t, response.GeneratedAt.IsZero())
	})

	t.Run("unknown scope maps to 404", func(t *testing.T) {
		explorer := new(mockExplorer)
		explorer.On("ListComplianceStates", mock.Anything, scope).Return(
			nil, policy.ErrScopeNotFound)
		handler := NewHandler(explorer)

		rec := httptest.NewRecorder()
		handler.GetCompliance(rec, requestWithScope("GET", "/scopes/rg-app/compliance", "rg-app"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("auth failure maps to 401", func(t *testing.T) {
		explorer := new(mockExplorer)
		explorer.On("ListComplianceStates", mock.Anything, scope).Return(
			nil, policy.ErrAuth)
		handler := NewHandler(explorer)

		rec := httptest.NewRecorder()
		handler.GetCompliance(rec, requestWithScope("GET", "/scopes/rg-app/compliance", "rg-app"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListAssignments(t *testing.T) {
	scope := domain.Scope{SubscriptionID: "sub-1", ResourceGroup: "rg-app"}

	explorer := new(mockExplorer)
	explorer.On("ListAssignments", mock.Anything, scope).Return(
		[]domain.PolicyAssignment{
			{Name: "deny-public-ips", DisplayName: "Deny public IPs", Scope: "/subscriptions/sub-1"},
		}, nil)
	handler := NewHandler(explorer)

	rec := httptest.NewRecorder()
	handler.ListAssignments(rec, requestWithScope("GET", "/scopes/rg-app/assignments", "rg-app"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []api.PolicyAssignment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, "deny-public-ips", response[0].Name)
	explorer.AssertExpectations(t)
}
