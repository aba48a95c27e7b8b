package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// ReportArchive keeps a copy of every generated report under
// <base>/<yyyy-mm-dd>/<name>-<uuid>.<ext>.
type ReportArchive struct {
	files  FileStorage
	base   string
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewReportArchive creates an archive rooted at the storage base directory
func NewReportArchive(files *LocalFileStorage, logger *zap.Logger) *ReportArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportArchive{
		files:  files,
		base:   files.BaseDir(),
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Store writes content and returns the path it was written to
func (a *ReportArchive) Store(ctx context.Context, name, ext string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	safe := SanitizeName(name)
	if safe == "" {
		safe = "report"
	}
	ext = strings.TrimPrefix(ext, ".")

	day := a.now().Format("2006-01-02")
	fullPath := filepath.Join(a.base, day, fmt.Sprintf("%s-%s.%s", safe, a.newID(), ext))

	if err := a.files.SaveFileWithType(fullPath, content, FileTypeFromExt(ext)); err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}

	a.logger.Info("Report archived",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return fullPath, nil
}

// SanitizeName returns a filesystem-safe version of the name
// Keeps only alphanumerics, hyphens and underscores; spaces become hyphens
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.Join(strings.Fields(name), "-")
	return unsafeNameChars.ReplaceAllString(name, "")
}
