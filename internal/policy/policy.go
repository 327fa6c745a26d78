// Package policy holds the entity authorization chain shared by cases, clients, invoices and users.
package policy

import (
	"context"

	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/metrics"
	"github.com/frahmantamala/legal-practice/pkg/logger"
)

type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Verb is the permission prefix for the action: update maps to "edit".
func (a Action) Verb() string {
	if a == ActionUpdate {
		return "edit"
	}
	return string(a)
}

// Target is what a policy needs to know about an entity instance.
type Target struct {
	Resource string
	TenantID *int64
	// CreatedBy is the owning company or user.
	CreatedBy int64
	// TeamMemberIDs are the users linked through case team assignment.
	TeamMemberIDs []int64
	// ClientEmail and ClientTenantID describe the client record the entity belongs to.
	ClientEmail    string
	ClientTenantID *int64
}

// Decide runs the precedence chain. The first branch that matches the actor decides.
func Decide(rc *access.RequestContext, action Action, t Target) bool {
	if rc == nil {
		return false
	}
	actor := rc.Actor

	switch actor.Kind {
	case access.ActorSuperAdmin:
		return true
	case access.ActorCompany:
		return sameTenant(actor.TenantID, t.TenantID)
	case access.ActorTeamMember:
		return contains(t.TeamMemberIDs, actor.UserID)
	case access.ActorClient:
		return t.ClientEmail != "" && t.ClientEmail == actor.Email && sameTenant(actor.TenantID, t.ClientTenantID)
	}

	if rc.Can(access.Capability(action.Verb(), t.Resource)) {
		return rc.InCompany(t.CreatedBy)
	}
	return false
}

// Authorize is Decide plus a verdict metric and a warning log on denial.
func Authorize(ctx context.Context, action Action, t Target) bool {
	rc := access.FromContext(ctx)
	allowed := Decide(rc, action, t)

	kind := access.ActorUnscoped
	if rc != nil {
		kind = rc.Actor.Kind
	}
	verdict := "allow"
	if !allowed {
		verdict = "deny"
		userID := int64(0)
		if rc != nil {
			userID = rc.Actor.UserID
		}
		logger.From(ctx).WarnContext(ctx, "authorization denied",
			"user_id", userID, "actor", kind.String(), "resource", t.Resource, "action", string(action))
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(t.Resource, string(action), kind.String(), verdict).Inc()
	return allowed
}

func sameTenant(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
