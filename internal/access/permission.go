package access

import (
	"sort"
)

// Permission is an atomic capability string such as "view-cases".
type Permission string

const (
	ResourceCases    = "cases"
	ResourceClients  = "clients"
	ResourceInvoices = "invoices"
	ResourceUsers    = "users"
	ResourceRoles    = "roles"
)

const (
	ViewCases   Permission = "view-cases"
	CreateCases Permission = "create-cases"
	EditCases   Permission = "edit-cases"
	DeleteCases Permission = "delete-cases"

	ViewClients   Permission = "view-clients"
	CreateClients Permission = "create-clients"
	EditClients   Permission = "edit-clients"
	DeleteClients Permission = "delete-clients"

	ViewInvoices   Permission = "view-invoices"
	CreateInvoices Permission = "create-invoices"
	EditInvoices   Permission = "edit-invoices"
	DeleteInvoices Permission = "delete-invoices"

	ViewUsers   Permission = "view-users"
	CreateUsers Permission = "create-users"
	EditUsers   Permission = "edit-users"
	DeleteUsers Permission = "delete-users"

	ViewRoles   Permission = "view-roles"
	CreateRoles Permission = "create-roles"
	EditRoles   Permission = "edit-roles"
	DeleteRoles Permission = "delete-roles"
)

var allPermissions = []Permission{
	ViewCases, CreateCases, EditCases, DeleteCases,
	ViewClients, CreateClients, EditClients, DeleteClients,
	ViewInvoices, CreateInvoices, EditInvoices, DeleteInvoices,
	ViewUsers, CreateUsers, EditUsers, DeleteUsers,
	ViewRoles, CreateRoles, EditRoles, DeleteRoles,
}

// AllPermissions returns every capability known to the system.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// Capability builds the permission name for a verb on a resource, e.g. ("edit", "cases").
func Capability(verb, resource string) Permission {
	return Permission(verb + "-" + resource)
}

func IsKnown(p Permission) bool {
	for _, known := range allPermissions {
		if known == p {
			return true
		}
	}
	return false
}

// PermissionSet is an immutable set of permissions.
type PermissionSet struct {
	items map[Permission]struct{}
}

func NewPermissionSet(perms ...Permission) PermissionSet {
	items := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		if p != "" {
			items[p] = struct{}{}
		}
	}
	return PermissionSet{items: items}
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s.items[p]
	return ok
}

func (s PermissionSet) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

func (s PermissionSet) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

func (s PermissionSet) Len() int { return len(s.items) }

// Slice returns the permissions sorted by name.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, len(s.items))
	for p := range s.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s PermissionSet) Strings() []string {
	perms := s.Slice()
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
