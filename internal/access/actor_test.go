package access_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/legal-practice/internal/access"
)

func id(v int64) *int64 { return &v }

var _ = Describe("ResolveActor", func() {
	It("prefers superadmin over every other role", func() {
		actor := access.ResolveActor(access.Subject{ID: 1, Type: access.TypeSuperAdmin}, []string{access.RoleClient, access.RoleSuperAdmin})
		Expect(actor.Kind).To(Equal(access.ActorSuperAdmin))
	})

	It("ignores a superadmin role held outside the central scope", func() {
		owner := access.ResolveActor(access.Subject{ID: 10, Type: access.TypeCompany, TenantID: id(3)}, []string{access.RoleSuperAdmin, access.RoleCompany})
		Expect(owner.Kind).To(Equal(access.ActorCompany))

		member := access.ResolveActor(access.Subject{ID: 11, Type: access.TypeClient, TenantID: id(3), CreatedBy: id(10)}, []string{access.RoleSuperAdmin})
		Expect(member.Kind).To(Equal(access.ActorUnscoped))
		Expect(member.IsSuperAdmin()).To(BeFalse())
	})

	It("scopes a company owner to its own tenant", func() {
		actor := access.ResolveActor(access.Subject{ID: 10, Type: access.TypeCompany, TenantID: id(3)}, []string{access.RoleCompany})
		Expect(actor.Kind).To(Equal(access.ActorCompany))
		Expect(*actor.TenantID).To(Equal(int64(3)))
		Expect(actor.OwnerID).To(Equal(int64(10)))
	})

	It("does not treat a company without a tenant as a company actor", func() {
		actor := access.ResolveActor(access.Subject{ID: 10, Type: access.TypeCompany}, []string{access.RoleCompany})
		Expect(actor.Kind).To(Equal(access.ActorUnscoped))
		Expect(actor.OwnerID).To(Equal(int64(10)))
	})

	It("recognises team members by the legacy type column alone", func() {
		actor := access.ResolveActor(access.Subject{ID: 11, Type: access.TypeTeamMember, TenantID: id(3), CreatedBy: id(10)}, nil)
		Expect(actor.Kind).To(Equal(access.ActorTeamMember))
		Expect(actor.OwnerID).To(Equal(int64(10)))
	})

	It("recognises team members by role", func() {
		actor := access.ResolveActor(access.Subject{ID: 12, Type: access.TypeClient, CreatedBy: id(10)}, []string{access.RoleTeamMember, access.RoleClient})
		Expect(actor.Kind).To(Equal(access.ActorTeamMember))
	})

	It("resolves clients with their email", func() {
		actor := access.ResolveActor(access.Subject{ID: 20, Email: "c@x.com", Type: access.TypeClient, TenantID: id(3), CreatedBy: id(10)}, []string{access.RoleClient})
		Expect(actor.Kind).To(Equal(access.ActorClient))
		Expect(actor.Email).To(Equal("c@x.com"))
	})

	It("leaves custom-role holders unscoped under their creator", func() {
		actor := access.ResolveActor(access.Subject{ID: 30, Type: access.TypeClient, TenantID: id(3), CreatedBy: id(10)}, []string{"paralegal"})
		Expect(actor.Kind).To(Equal(access.ActorUnscoped))
		Expect(actor.OwnerID).To(Equal(int64(10)))
	})
})

var _ = Describe("Subject.ScopeOwnerID", func() {
	It("keys company roles on the company itself", func() {
		Expect(access.Subject{ID: 10, Type: access.TypeCompany}.ScopeOwnerID()).To(Equal(int64(10)))
	})

	It("keys created users on their creator", func() {
		Expect(access.Subject{ID: 11, Type: access.TypeTeamMember, CreatedBy: id(10)}.ScopeOwnerID()).To(Equal(int64(10)))
	})

	It("keys central users on the central scope", func() {
		Expect(access.Subject{ID: 1, Type: access.TypeSuperAdmin}.ScopeOwnerID()).To(Equal(access.CentralScope))
	})
})

var _ = Describe("PermissionSet", func() {
	It("deduplicates and sorts", func() {
		set := access.NewPermissionSet(access.ViewCases, access.EditCases, access.ViewCases)
		Expect(set.Len()).To(Equal(2))
		Expect(set.Strings()).To(Equal([]string{"edit-cases", "view-cases"}))
	})

	It("answers membership questions", func() {
		set := access.NewPermissionSet(access.ViewCases)
		Expect(set.Has(access.ViewCases)).To(BeTrue())
		Expect(set.HasAny(access.EditCases, access.ViewCases)).To(BeTrue())
		Expect(set.HasAll(access.EditCases, access.ViewCases)).To(BeFalse())
		Expect(access.PermissionSet{}.Has(access.ViewCases)).To(BeFalse())
	})

	It("builds capabilities from verb and resource", func() {
		Expect(access.Capability("delete", access.ResourceInvoices)).To(Equal(access.DeleteInvoices))
		Expect(access.IsKnown("launch-rockets")).To(BeFalse())
	})
})
