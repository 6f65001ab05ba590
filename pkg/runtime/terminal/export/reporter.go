package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/policy-atlas/pkg/models/domain"
	"github.com/de-tools/policy-atlas/pkg/runtime/terminal/render"
)

// Reporter writes a plain-text copy of the report to a timestamped file
// under the configured directory. No ANSI escapes, no detail truncation.
type Reporter struct {
	dir      string
	renderer *render.Renderer
}

func NewReporter(dir string) *Reporter {
	return &Reporter{
		dir:      dir,
		renderer: render.New(render.Plain(), 0),
	}
}

// Handle renders the report to <scope>_compliance-report_<timestamp>.txt,
// creating the directory when absent. It returns the written path.
func (c *Reporter) Handle(report *domain.ComplianceReport) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", c.dir, err)
	}

	name := fmt.Sprintf("%s_compliance-report_%s.txt",
		report.Scope.Label(), report.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(c.dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open report file %s: %w", path, err)
	}
	defer file.Close()

	if err := c.renderer.Write(file, report); err != nil {
		return "", fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	return path, nil
}
