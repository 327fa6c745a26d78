package access

const (
	RoleSuperAdmin = "superadmin"
	RoleCompany    = "company"
	RoleTeamMember = "team_member"
	RoleClient     = "client"
)

// GuardWeb is the only guard roles and permissions are issued for.
const GuardWeb = "web"

// CentralScope is the created_by value of roles that belong to no company.
const CentralScope int64 = 0

// DefaultRolePermissions is the permission bundle each built-in role starts with.
// Companies can edit their copies afterwards.
func DefaultRolePermissions() map[string][]Permission {
	return map[string][]Permission{
		RoleSuperAdmin: AllPermissions(),
		RoleCompany:    AllPermissions(),
		RoleTeamMember: {ViewCases, EditCases, ViewClients, ViewInvoices},
		RoleClient:     {ViewCases, ViewInvoices},
	}
}

// TenantRoles are the built-in roles seeded for every company.
var TenantRoles = []string{RoleCompany, RoleTeamMember, RoleClient}

// builtinRank orders the built-in roles by the actor kind they resolve to.
var builtinRank = map[string]int{
	RoleClient:     1,
	RoleTeamMember: 2,
	RoleCompany:    3,
	RoleSuperAdmin: 4,
}

// IsBuiltinRole reports whether name is reserved for one of the built-in roles.
func IsBuiltinRole(name string) bool {
	_, ok := builtinRank[name]
	return ok
}

// CanAssignRole reports whether the actor may hand out the named role.
// Custom roles always pass; built-in roles only up to the actor's own kind.
func (a Actor) CanAssignRole(name string) bool {
	rank, ok := builtinRank[name]
	if !ok {
		return true
	}
	return a.rank() >= rank
}

func (a Actor) rank() int {
	switch a.Kind {
	case ActorSuperAdmin:
		return builtinRank[RoleSuperAdmin]
	case ActorCompany:
		return builtinRank[RoleCompany]
	case ActorTeamMember:
		return builtinRank[RoleTeamMember]
	case ActorClient:
		return builtinRank[RoleClient]
	}
	return 0
}
