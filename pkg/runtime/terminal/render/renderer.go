package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/de-tools/policy-atlas/pkg/models/domain"
)

// Styles colorize report fragments. The plain variant keeps the text
// byte-identical to the colored one minus escape codes, so file exports
// stay grep-friendly.
type Styles struct {
	Title func(a ...interface{}) string
	Good  func(a ...interface{}) string
	Bad   func(a ...interface{}) string
}

func Plain() Styles {
	return Styles{Title: fmt.Sprint, Good: fmt.Sprint, Bad: fmt.Sprint}
}

func Colored() Styles {
	return Styles{
		Title: color.New(color.FgCyan, color.Bold).SprintFunc(),
		Good:  color.New(color.FgGreen).SprintFunc(),
		Bad:   color.New(color.FgRed).SprintFunc(),
	}
}

// Renderer writes a compliance report as sectioned text. Each section
// title is underlined with '=' of the same length. A positive maxDetails
// caps the non-compliant detail blocks; zero means unbounded.
type Renderer struct {
	styles     Styles
	maxDetails int
}

func New(styles Styles, maxDetails int) *Renderer {
	return &Renderer{styles: styles, maxDetails: maxDetails}
}

type stateCount struct {
	Label string
	Count int
	State domain.ComplianceState
}

type reportView struct {
	Report    *domain.ComplianceReport
	Overall   []stateCount
	Details   []domain.ComplianceRecord
	Truncated int
}

const reportTemplate = `{{title "Azure Policy Compliance Report"}}
{{underline "Azure Policy Compliance Report"}}
Scope: {{.Report.Scope.ResourceID}}
Generated: {{.Report.GeneratedAt.Format "2006-01-02 15:04:05"}} UTC

{{title "Overall Compliance"}}
{{underline "Overall Compliance"}}
{{range .Overall}}{{stateLine .}}
{{end}}Total Resources: {{.Report.TotalResources}}

{{title "Compliance by Assignment"}}
{{underline "Compliance by Assignment"}}
{{range .Report.Assignments}}Assignment: {{.Assignment}}
  Compliant: {{.Compliant}}
  Non-Compliant: {{.NonCompliant}}
  Total Resources: {{.Total}}
  Compliance Rate: {{.Rate}}%

{{end}}{{title "Compliance by Resource Type"}}
{{underline "Compliance by Resource Type"}}
{{range .Report.ResourceTypes}}{{.ResourceType}}: {{rate .Rate}}% ({{.Compliant}}/{{.Total}} compliant)
{{end}}
{{title "Non-Compliant Resources"}}
{{underline "Non-Compliant Resources"}}
{{if not .Details}}None
{{end}}{{range .Details}}{{bad "Resource:"}} {{.ResourceName}}
Type: {{.ResourceType}}
Policy: {{.PolicyAssignmentName}}
Reason: {{reason .ReasonCode}}
Location: {{.ResourceLocation}}

{{end}}{{if gt .Truncated 0}}... {{.Truncated}} more non-compliant resources not shown
{{end}}`

func (r *Renderer) Write(w io.Writer, report *domain.ComplianceReport) error {
	funcMap := template.FuncMap{
		"title":     r.styles.Title,
		"bad":       r.styles.Bad,
		"underline": func(s string) string { return strings.Repeat("=", len(s)) },
		"reason": func(code string) string {
			if code == "" {
				return "N/A"
			}
			return code
		},
		"rate": func(rate float64) string {
			return strconv.FormatFloat(rate, 'f', 1, 64)
		},
		"stateLine": func(sc stateCount) string {
			line := fmt.Sprintf("%s: %d", sc.Label, sc.Count)
			switch {
			case sc.State == domain.StateCompliant:
				return r.styles.Good(line)
			case sc.State == domain.StateNonCompliant && sc.Count > 0:
				return r.styles.Bad(line)
			default:
				return line
			}
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}

	view := reportView{
		Report: report,
		Overall: []stateCount{
			{Label: "Compliant", Count: report.Overall[domain.StateCompliant], State: domain.StateCompliant},
			{Label: "Non-Compliant", Count: report.Overall[domain.StateNonCompliant], State: domain.StateNonCompliant},
			{Label: "Conflict", Count: report.Overall[domain.StateConflict], State: domain.StateConflict},
			{Label: "Unknown", Count: report.Overall[domain.StateUnknown], State: domain.StateUnknown},
		},
		Details: report.NonCompliant,
	}
	if r.maxDetails > 0 && len(view.Details) > r.maxDetails {
		view.Truncated = len(view.Details) - r.maxDetails
		view.Details = view.Details[:r.maxDetails]
	}

	return t.Execute(w, view)
}
