package port

import "context"

// AccessScope reports which employees the caller may see.
// all=true means unrestricted; otherwise only ids are visible.
type AccessScope interface {
	VisibleEmployees(ctx context.Context) (ids []string, all bool, err error)
}
