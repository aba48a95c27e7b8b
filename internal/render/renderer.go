// Package render holds what the PDF and spreadsheet renderers share.
package render

import (
	"context"
	"io"

	"github.com/garyjia/timesheet-reports/internal/report"
)

// Renderer turns a composed report document into a downloadable file.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(ctx context.Context, doc *report.Document, w io.Writer) error
}
