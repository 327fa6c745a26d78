package access

import "context"

// RequestContext is the per-request authorization snapshot. It is built once by the
// auth middleware and never mutated afterwards.
type RequestContext struct {
	Subject        Subject
	Actor          Actor
	Roles          []string
	Permissions    PermissionSet
	CompanyUserIDs []int64
}

func (rc *RequestContext) Can(p Permission) bool {
	if rc == nil {
		return false
	}
	return rc.Permissions.Has(p)
}

// InCompany reports whether id is the actor's company owner or one of its team members.
func (rc *RequestContext) InCompany(id int64) bool {
	if rc == nil {
		return false
	}
	for _, member := range rc.CompanyUserIDs {
		if member == id {
			return true
		}
	}
	return false
}

// HasRole checks the scoped role names resolved for this request without touching the store.
func (rc *RequestContext) HasRole(names ...string) bool {
	if rc == nil {
		return false
	}
	for _, r := range rc.Roles {
		for _, n := range names {
			if r == n {
				return true
			}
		}
	}
	return false
}

type ctxKey struct{}

func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the request's authorization snapshot, or nil when unauthenticated.
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}
	rc, _ := ctx.Value(ctxKey{}).(*RequestContext)
	return rc
}
