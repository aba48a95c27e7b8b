package port

import "context"

// ReportArchive keeps copies of generated reports
type ReportArchive interface {
	Store(ctx context.Context, name, ext string, content []byte) (string, error)
}
