package compliance

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/policy-atlas/pkg/models/api"
	"github.com/de-tools/policy-atlas/pkg/models/domain"
	"github.com/de-tools/policy-atlas/pkg/services/compliance"
	"github.com/de-tools/policy-atlas/pkg/services/policy"
)

type Handler struct {
	explorer   policy.Explorer
	controller compliance.Controller
	now        func() time.Time
}

func NewHandler(explorer policy.Explorer) *Handler {
	return &Handler{
		explorer:   explorer,
		controller: compliance.NewController(explorer),
		now:        time.Now,
	}
}

func (h *Handler) ListScopes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	groups, err := h.explorer.ListResourceGroups(ctx)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	response := make([]api.ResourceGroup, 0, len(groups))
	for _, rg := range groups {
		response = append(response, api.ResourceGroup{Name: rg.Name, Location: rg.Location})
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode resource groups")
	}
}

func (h *Handler) GetSubscriptionCompliance(w http.ResponseWriter, r *http.Request) {
	h.writeReport(w, r, h.explorer.Scope(""))
}

func (h *Handler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	h.writeReport(w, r, h.explorer.Scope(chi.URLParam(r, "scope")))
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	scope := h.explorer.Scope(chi.URLParam(r, "scope"))

	assignments, err := h.explorer.ListAssignments(ctx, scope)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	response := make([]api.PolicyAssignment, 0, len(assignments))
	for _, a := range assignments {
		response = append(response, api.PolicyAssignment{
			Name:            a.Name,
			DisplayName:     a.DisplayName,
			Description:     a.Description,
			Scope:           a.Scope,
			EnforcementMode: a.EnforcementMode,
		})
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Str("scope", scope.ResourceID()).Msg("failed to encode assignments")
	}
}

func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, scope domain.Scope) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	report, err := h.controller.GenerateReport(ctx, scope)
	if errors.Is(err, compliance.ErrNoData) {
		// Evaluation has not produced states yet; an empty report is a
		// valid answer, not a failure.
		report = &domain.ComplianceReport{Scope: scope, GeneratedAt: h.now().UTC()}
	} else if err != nil {
		writeError(w, logger, err)
		return
	}

	if err := json.NewEncoder(w).Encode(api.FromDomainReport(report)); err != nil {
		logger.Error().Err(err).Str("scope", scope.ResourceID()).Msg("failed to encode compliance report")
	}
}

func writeError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, policy.ErrScopeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, policy.ErrAuth):
		status = http.StatusUnauthorized
	}

	logger.Error().Err(err).Int("status", status).Msg("request failed")
	http.Error(w, err.Error(), status)
}
