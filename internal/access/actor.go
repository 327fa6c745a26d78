package access

import "fmt"

// Subject is the raw user record an actor is resolved from.
type Subject struct {
	ID        int64
	Name      string
	Email     string
	Type      string
	TenantID  *int64
	CreatedBy *int64
	Status    string
}

const (
	TypeSuperAdmin = "superadmin"
	TypeCompany    = "company"
	TypeTeamMember = "team_member"
	TypeClient     = "client"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

func (s Subject) IsActive() bool { return s.Status == StatusActive }

// ScopeOwnerID is the created_by value that keys this subject's roles.
// Company owners own their tenant's roles, everyone else is scoped under their creator,
// and users without a creator fall back to the central scope.
func (s Subject) ScopeOwnerID() int64 {
	if s.Type == TypeCompany {
		return s.ID
	}
	if s.CreatedBy != nil {
		return *s.CreatedBy
	}
	return CentralScope
}

type ActorKind int

const (
	ActorUnscoped ActorKind = iota
	ActorSuperAdmin
	ActorCompany
	ActorTeamMember
	ActorClient
)

func (k ActorKind) String() string {
	switch k {
	case ActorSuperAdmin:
		return "superadmin"
	case ActorCompany:
		return "company"
	case ActorTeamMember:
		return "team_member"
	case ActorClient:
		return "client"
	default:
		return "unscoped"
	}
}

// Actor is the resolved role variant of the acting user.
//
//	SuperAdmin: no tenant
//	Company:    TenantID, OwnerID == UserID
//	TeamMember: TenantID, UserID, OwnerID = creating company
//	Client:     TenantID, Email
//	Unscoped:   holds only custom roles; checked through permissions plus company ids
type Actor struct {
	Kind     ActorKind
	UserID   int64
	TenantID *int64
	OwnerID  int64
	Email    string
}

func (a Actor) String() string {
	tenant := "none"
	if a.TenantID != nil {
		tenant = fmt.Sprint(*a.TenantID)
	}
	return fmt.Sprintf("%s(user=%d tenant=%s owner=%d)", a.Kind, a.UserID, tenant, a.OwnerID)
}

func (a Actor) IsSuperAdmin() bool { return a.Kind == ActorSuperAdmin }

// HasTenant reports whether the actor acts inside a company.
func (a Actor) HasTenant() bool { return a.TenantID != nil }

// ResolveActor picks the first matching variant: superadmin, company, team member, client.
// Team members are recognised by role or by the legacy type column. A company actor without a
// tenant cannot be scoped and drops to Unscoped. The superadmin role only counts for tenantless
// users keyed on the central scope; a tenant role that happens to share the name grants nothing.
func ResolveActor(s Subject, roles []string) Actor {
	has := func(name string) bool {
		for _, r := range roles {
			if r == name {
				return true
			}
		}
		return false
	}

	actor := Actor{
		UserID:   s.ID,
		TenantID: copyID(s.TenantID),
		OwnerID:  s.ID,
		Email:    s.Email,
	}
	if s.CreatedBy != nil {
		actor.OwnerID = *s.CreatedBy
	}

	switch {
	case has(RoleSuperAdmin) && s.TenantID == nil && s.ScopeOwnerID() == CentralScope:
		actor.Kind = ActorSuperAdmin
		actor.OwnerID = s.ID
	case has(RoleCompany) && s.TenantID != nil:
		actor.Kind = ActorCompany
		actor.OwnerID = s.ID
	case has(RoleTeamMember) || s.Type == TypeTeamMember:
		actor.Kind = ActorTeamMember
	case has(RoleClient):
		actor.Kind = ActorClient
	default:
		actor.Kind = ActorUnscoped
		if s.Type == TypeCompany {
			actor.OwnerID = s.ID
		}
	}
	return actor
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
