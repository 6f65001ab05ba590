package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/policy-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.ComplianceReport {
	return &domain.ComplianceReport{
		Scope:       domain.Scope{SubscriptionID: "sub-1", ResourceGroup: "rg-app"},
		GeneratedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Overall: map[domain.ComplianceState]int{
			domain.StateCompliant:    2,
			domain.StateNonCompliant: 1,
		},
		Assignments: []domain.AssignmentSummary{
			{Assignment: "deny-public-ips", Compliant: 2, NonCompliant: 1, Total: 3, Rate: 66},
		},
		ResourceTypes: []domain.ResourceTypeSummary{
			{ResourceType: "Microsoft.Storage/storageAccounts", Compliant: 2, NonCompliant: 1, Total: 3, Rate: 66.7},
		},
		NonCompliant: []domain.ComplianceRecord{
			{
				ResourceID:           "/subscriptions/sub-1/resourceGroups/rg-app/providers/Microsoft.Storage/storageAccounts/mystore",
				ResourceType:         "Microsoft.Storage/storageAccounts",
				ResourceLocation:     "eastus",
				PolicyAssignmentName: "deny-public-ips",
				ComplianceState:      domain.StateNonCompliant,
			},
		},
	}
}

func renderPlain(t *testing.T, report *domain.ComplianceReport, maxDetails int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(Plain(), maxDetails).Write(&buf, report))
	return buf.String()
}

func TestRenderer_SectionTitlesAreUnderlined(t *testing.T) {
	out := renderPlain(t, sampleReport(), 0)

	for _, title := range []string{
		"Azure Policy Compliance Report",
		"Overall Compliance",
		"Compliance by Assignment",
		"Compliance by Resource Type",
		"Non-Compliant Resources",
	} {
		assert.Contains(t, out, title+"\n"+strings.Repeat("=", len(title))+"\n")
	}
}

func TestRenderer_AssignmentBlockContract(t *testing.T) {
	out := renderPlain(t, sampleReport(), 0)

	assert.Contains(t, out, ""+
		"Assignment: deny-public-ips\n"+
		"  Compliant: 2\n"+
		"  Non-Compliant: 1\n"+
		"  Total Resources: 3\n"+
		"  Compliance Rate: 66%\n")
}

func TestRenderer_NonCompliantBlockContract(t *testing.T) {
	out := renderPlain(t, sampleReport(), 0)

	assert.Contains(t, out, ""+
		"Resource: mystore\n"+
		"Type: Microsoft.Storage/storageAccounts\n"+
		"Policy: deny-public-ips\n"+
		"Reason: N/A\n"+
		"Location: eastus\n")
}

func TestRenderer_HeaderAndOverall(t *testing.T) {
	out := renderPlain(t, sampleReport(), 0)

	assert.Contains(t, out, "Scope: /subscriptions/sub-1/resourceGroups/rg-app\n")
	assert.Contains(t, out, "Generated: 2026-03-14 09:26:53 UTC\n")
	assert.Contains(t, out, "Compliant: 2\n")
	assert.Contains(t, out, "Non-Compliant: 1\n")
	assert.Contains(t, out, "Conflict: 0\n")
	assert.Contains(t, out, "Unknown: 0\n")
	assert.Contains(t, out, "Total Resources: 3\n")
}

func TestRenderer_ResourceTypeRateHasOneDecimal(t *testing.T) {
	out := renderPlain(t, sampleReport(), 0)

	assert.Contains(t, out, "Microsoft.Storage/storageAccounts: 66.7% (2/3 compliant)\n")
}

func TestRenderer_TruncatesDetails(t *testing.T) {
	report := sampleReport()
	report.NonCompliant = nil
	for i := 0; i < 25; i++ {
		report.NonCompliant = append(report.NonCompliant, domain.ComplianceRecord{
			ResourceID:           "/subscriptions/sub-1/providers/Microsoft.Compute/virtualMachines/vm-" + strings.Repeat("x", i+1),
			ResourceType:         "Microsoft.Compute/virtualMachines",
			ResourceLocation:     "westus",
			PolicyAssignmentName: "require-tags",
			ComplianceState:      domain.StateNonCompliant,
		})
	}

	limited := renderPlain(t, report, 20)
	assert.Equal(t, 20, strings.Count(limited, "Resource: "))
	assert.Contains(t, limited, "... 5 more non-compliant resources not shown\n")

	unbounded := renderPlain(t, report, 0)
	assert.Equal(t, 25, strings.Count(unbounded, "Resource: "))
	assert.NotContains(t, unbounded, "more non-compliant resources not shown")
}

func TestRenderer_NoNonCompliantResources(t *testing.T) {
	report := sampleReport()
	report.NonCompliant = nil
	report.Overall = map[domain.ComplianceState]int{domain.StateCompliant: 3}

	out := renderPlain(t, report, 0)
	title := "Non-Compliant Resources"
	assert.Contains(t, out, title+"\n"+strings.Repeat("=", len(title))+"\nNone\n")
}

func TestRenderer_ColoredKeepsSameTextModuloEscapes(t *testing.T) {
	report := sampleReport()

	var colored bytes.Buffer
	require.NoError(t, New(Colored(), 0).Write(&colored, report))

	stripped := stripANSI(colored.String())
	assert.Equal(t, renderPlain(t, report, 0), stripped)
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
