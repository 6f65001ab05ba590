package console

import (
	"io"
	"os"

	"github.com/de-tools/policy-atlas/pkg/models/domain"
	"github.com/de-tools/policy-atlas/pkg/runtime/terminal/render"
)

// DefaultMaxDetails caps the interactive non-compliant listing; file
// exports stay unbounded.
const DefaultMaxDetails = 20

// Reporter outputs compliance reports to the console in colorized text.
type Reporter struct {
	writer   io.Writer
	renderer *render.Renderer
}

type ReporterOptions struct {
	NoColor    bool
	MaxDetails int
}

// NewReporter creates a new console reporter.
func NewReporter(writer io.Writer, opts ReporterOptions) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if opts.MaxDetails == 0 {
		opts.MaxDetails = DefaultMaxDetails
	}

	styles := render.Colored()
	if opts.NoColor {
		styles = render.Plain()
	}

	return &Reporter{
		writer:   writer,
		renderer: render.New(styles, opts.MaxDetails),
	}
}

func (c *Reporter) Handle(report *domain.ComplianceReport) error {
	return c.renderer.Write(c.writer, report)
}
