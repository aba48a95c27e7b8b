package service

import (
	"context"

	"github.com/garyjia/timesheet-reports/internal/application/port"
)

// StaticScope is an AccessScope fixed at startup from configuration.
type StaticScope struct {
	all bool
	ids []string
}

// NewStaticScope creates a scope granting either everyone or ids
func NewStaticScope(all bool, ids []string) *StaticScope {
	return &StaticScope{all: all, ids: compactIDs(ids)}
}

func (s *StaticScope) VisibleEmployees(ctx context.Context) ([]string, bool, error) {
	return s.ids, s.all, nil
}

type scopeKey struct{}

// WithScope attaches a caller-specific visible-employee set to ctx
func WithScope(ctx context.Context, ids []string) context.Context {
	return context.WithValue(ctx, scopeKey{}, compactIDs(ids))
}

// ContextScope prefers a scope attached with WithScope and otherwise
// falls back to the wrapped scope.
type ContextScope struct {
	Fallback port.AccessScope
}

func (s ContextScope) VisibleEmployees(ctx context.Context) ([]string, bool, error) {
	if ids, ok := ctx.Value(scopeKey{}).([]string); ok {
		return ids, false, nil
	}
	return s.Fallback.VisibleEmployees(ctx)
}
