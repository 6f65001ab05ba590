package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/policy-atlas/pkg/models/domain"
	"github.com/de-tools/policy-atlas/pkg/services/policy"
)

// ErrNoData means policy evaluation has produced no states for the scope
// yet. It is guidance for the operator, not a failure.
var ErrNoData = errors.New("no compliance data for scope")

// Controller runs one report: fetch states, aggregate, stamp the result.
type Controller interface {
	GenerateReport(ctx context.Context, scope domain.Scope) (*domain.ComplianceReport, error)
}

type controller struct {
	explorer policy.Explorer
	now      func() time.Time
}

func NewController(explorer policy.Explorer) Controller {
	return &controller{
		explorer: explorer,
		now:      time.Now,
	}
}

func (c *controller) GenerateReport(ctx context.Context, scope domain.Scope) (*domain.ComplianceReport, error) {
	records, err := c.explorer.ListComplianceStates(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch compliance states: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoData, scope.ResourceID())
	}

	report := Aggregate(records)
	report.Scope = scope
	report.GeneratedAt = c.now().UTC()
	return report, nil
}
