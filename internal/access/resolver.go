package access

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/core/metrics"
)

// RoleGrant is one role held by a user together with the permissions it carries.
type RoleGrant struct {
	Name        string
	Permissions []string
}

// Store reads roles and memberships. Implementations must filter roles by created_by.
type Store interface {
	RolesForUser(ctx context.Context, userID, scopeOwnerID int64) ([]RoleGrant, error)
	DirectPermissions(ctx context.Context, userID int64) ([]string, error)
	TeamMemberIDs(ctx context.Context, ownerID int64) ([]int64, error)
}

// Resolver turns a user into its roles, permissions and company ids. Nothing is cached.
type Resolver struct {
	store   Store
	logger  *slog.Logger
	timeout time.Duration
}

func NewResolver(store Store, logger *slog.Logger, timeout time.Duration) *Resolver {
	return &Resolver{store: store, logger: logger, timeout: timeout}
}

// EffectivePermissions is the union of role permissions and direct grants.
// A nil subject or a storage failure yields the empty set. Requests read the same data through
// Resolve; this form serves callers without a request context such as the role CLI.
func (r *Resolver) EffectivePermissions(ctx context.Context, s *Subject) PermissionSet {
	if s == nil {
		return NewPermissionSet()
	}
	_, perms, err := r.load(ctx, s)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to resolve permissions", "user_id", s.ID, "error", err)
		return NewPermissionSet()
	}
	return perms
}

// HasRole reports whether the subject holds any of the names within its own role scope.
// Like EffectivePermissions it queries the store on every call; request handlers use RequestContext.HasRole.
func (r *Resolver) HasRole(ctx context.Context, s *Subject, names ...string) bool {
	if s == nil || len(names) == 0 {
		return false
	}
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	grants, err := r.store.RolesForUser(ctx, s.ID, s.ScopeOwnerID())
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to resolve roles", "user_id", s.ID, "error", err)
		return false
	}
	for _, g := range grants {
		for _, n := range names {
			if g.Name == n {
				return true
			}
		}
	}
	return false
}

// CompanyAndUserIDs returns the owner followed by every team member it created.
func (r *Resolver) CompanyAndUserIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	members, err := r.store.TeamMemberIDs(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load team members of %d: %w", ownerID, err)
	}

	ids := make([]int64, 0, len(members)+1)
	ids = append(ids, ownerID)
	for _, id := range members {
		if id != ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Resolve builds the request snapshot. Unlike the predicates above it reports storage
// failures so the caller can reject the request instead of running with no grants.
func (r *Resolver) Resolve(ctx context.Context, s *Subject) (*RequestContext, error) {
	if s == nil {
		return nil, fmt.Errorf("resolve: nil subject")
	}

	roles, perms, err := r.load(ctx, s)
	if err != nil {
		metrics.ResolveErrorsTotal.Inc()
		return nil, err
	}

	rc := &RequestContext{
		Subject:     *s,
		Actor:       ResolveActor(*s, roles),
		Roles:       roles,
		Permissions: perms,
	}

	if !rc.Actor.IsSuperAdmin() {
		ids, err := r.CompanyAndUserIDs(ctx, rc.Actor.OwnerID)
		if err != nil {
			metrics.ResolveErrorsTotal.Inc()
			return nil, err
		}
		rc.CompanyUserIDs = ids
	}

	r.logger.DebugContext(ctx, "request context resolved",
		"user_id", s.ID, "actor", rc.Actor.Kind.String(), "roles", roles, "permissions", perms.Len())
	return rc, nil
}

func (r *Resolver) load(ctx context.Context, s *Subject) ([]string, PermissionSet, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	grants, err := r.store.RolesForUser(ctx, s.ID, s.ScopeOwnerID())
	if err != nil {
		return nil, PermissionSet{}, fmt.Errorf("load roles of user %d: %w", s.ID, err)
	}
	direct, err := r.store.DirectPermissions(ctx, s.ID)
	if err != nil {
		return nil, PermissionSet{}, fmt.Errorf("load direct permissions of user %d: %w", s.ID, err)
	}

	roles := make([]string, 0, len(grants))
	var perms []Permission
	for _, g := range grants {
		roles = append(roles, g.Name)
		for _, p := range g.Permissions {
			perms = append(perms, Permission(p))
		}
	}
	for _, p := range direct {
		perms = append(perms, Permission(p))
	}
	return roles, NewPermissionSet(perms...), nil
}
