package policy

import "github.com/frahmantamala/legal-practice/internal/access"

type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeAll
	ScopeTenant
	ScopeTeamMember
	ScopeClient
	ScopeOwners
)

// Scope tells list queries which rows the actor may see. It mirrors Decide for the view action.
type Scope struct {
	Kind     ScopeKind
	TenantID int64
	UserID   int64
	Email    string
	OwnerIDs []int64
}

// ListScope derives the list filter for a resource.
func ListScope(rc *access.RequestContext, resource string) Scope {
	if rc == nil {
		return Scope{Kind: ScopeNone}
	}
	actor := rc.Actor

	switch actor.Kind {
	case access.ActorSuperAdmin:
		return Scope{Kind: ScopeAll}
	case access.ActorCompany:
		return Scope{Kind: ScopeTenant, TenantID: *actor.TenantID}
	case access.ActorTeamMember:
		return Scope{Kind: ScopeTeamMember, UserID: actor.UserID}
	case access.ActorClient:
		if actor.TenantID == nil || actor.Email == "" {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeClient, TenantID: *actor.TenantID, Email: actor.Email}
	}

	if rc.Can(access.Capability(ActionView.Verb(), resource)) {
		return Scope{Kind: ScopeOwners, OwnerIDs: rc.CompanyUserIDs}
	}
	return Scope{Kind: ScopeNone}
}
