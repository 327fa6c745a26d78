package policy_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

func TestPolicy(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Policy Suite")
}

func id(v int64) *int64 { return &v }

func rcFor(s access.Subject, roles []string, perms []access.Permission, company []int64) *access.RequestContext {
	return &access.RequestContext{
		Subject:        s,
		Actor:          access.ResolveActor(s, roles),
		Roles:          roles,
		Permissions:    access.NewPermissionSet(perms...),
		CompanyUserIDs: company,
	}
}

var actions = []policy.Action{policy.ActionView, policy.ActionUpdate, policy.ActionDelete}

var _ = Describe("Decide", func() {
	superadmin := rcFor(access.Subject{ID: 1, Type: access.TypeSuperAdmin}, []string{access.RoleSuperAdmin}, nil, nil)
	company := rcFor(access.Subject{ID: 10, Type: access.TypeCompany, TenantID: id(1)}, []string{access.RoleCompany}, nil, []int64{10, 11})

	It("allows superadmins everything in every tenant", func() {
		targets := []policy.Target{
			{Resource: access.ResourceCases, TenantID: id(1), CreatedBy: 10},
			{Resource: access.ResourceInvoices, TenantID: id(2), CreatedBy: 20},
			{Resource: access.ResourceClients},
		}
		for _, t := range targets {
			for _, a := range actions {
				Expect(policy.Decide(superadmin, a, t)).To(BeTrue())
			}
		}
	})

	DescribeTable("company tenant equality",
		func(entityTenant *int64, expected bool) {
			t := policy.Target{Resource: access.ResourceCases, TenantID: entityTenant, CreatedBy: 10}
			for _, a := range actions {
				Expect(policy.Decide(company, a, t)).To(Equal(expected))
			}
		},
		Entry("own tenant", id(1), true),
		Entry("other tenant", id(2), false),
		Entry("entity without tenant", nil, false),
	)

	It("denies a nil request context", func() {
		Expect(policy.Decide(nil, policy.ActionView, policy.Target{Resource: access.ResourceCases})).To(BeFalse())
	})

	Describe("team members", func() {
		member := rcFor(access.Subject{ID: 11, Type: access.TypeTeamMember, TenantID: id(1), CreatedBy: id(10)},
			[]string{access.RoleTeamMember}, []access.Permission{access.ViewCases, access.EditCases}, []int64{10, 11})

		DescribeTable("view equals team membership",
			func(team []int64, expected bool) {
				t := policy.Target{Resource: access.ResourceCases, TenantID: id(1), CreatedBy: 10, TeamMemberIDs: team}
				Expect(policy.Decide(member, policy.ActionView, t)).To(Equal(expected))
			},
			Entry("on the team", []int64{12, 11}, true),
			Entry("not on the team", []int64{12}, false),
			Entry("no team", nil, false),
		)

		It("does not fall through to the permission fallback", func() {
			t := policy.Target{Resource: access.ResourceCases, TenantID: id(1), CreatedBy: 10}
			Expect(policy.Decide(member, policy.ActionView, t)).To(BeFalse())
		})
	})

	Describe("clients", func() {
		client := rcFor(access.Subject{ID: 20, Email: "c@x.com", Type: access.TypeClient, TenantID: id(1), CreatedBy: id(10)},
			[]string{access.RoleClient}, []access.Permission{access.ViewCases}, []int64{10})

		DescribeTable("view requires email and tenant match",
			func(email string, tenant *int64, expected bool) {
				t := policy.Target{Resource: access.ResourceCases, TenantID: id(1), CreatedBy: 10, ClientEmail: email, ClientTenantID: tenant}
				Expect(policy.Decide(client, policy.ActionView, t)).To(Equal(expected))
			},
			Entry("both match", "c@x.com", id(1), true),
			Entry("email differs", "other@x.com", id(1), false),
			Entry("email differs in case", "C@x.com", id(1), false),
			Entry("tenant differs", "c@x.com", id(2), false),
			Entry("client without tenant", "c@x.com", nil, false),
			Entry("no client", "", id(1), false),
		)
	})

	Describe("fallback for custom roles", func() {
		paralegal := rcFor(access.Subject{ID: 30, Type: access.TypeClient, TenantID: id(1), CreatedBy: id(10)},
			[]string{"paralegal"}, []access.Permission{access.ViewCases}, []int64{10, 11})

		It("allows records owned inside the company when the capability is held", func() {
			Expect(policy.Decide(paralegal, policy.ActionView, policy.Target{Resource: access.ResourceCases, CreatedBy: 11})).To(BeTrue())
		})

		It("denies records owned by another company", func() {
			Expect(policy.Decide(paralegal, policy.ActionView, policy.Target{Resource: access.ResourceCases, CreatedBy: 99})).To(BeFalse())
		})

		It("needs the capability for the action", func() {
			Expect(policy.Decide(paralegal, policy.ActionUpdate, policy.Target{Resource: access.ResourceCases, CreatedBy: 10})).To(BeFalse())
			Expect(policy.Decide(paralegal, policy.ActionView, policy.Target{Resource: access.ResourceInvoices, CreatedBy: 10})).To(BeFalse())
		})
	})

	It("grants a team member access once assigned to the case", func() {
		// company 10 creates team member 11, case created by 10
		t1 := rcFor(access.Subject{ID: 11, Type: access.TypeTeamMember, TenantID: id(1), CreatedBy: id(10)}, nil, nil, []int64{10, 11})
		caseX := policy.Target{Resource: access.ResourceCases, TenantID: id(1), CreatedBy: 10}

		Expect(policy.Decide(t1, policy.ActionView, caseX)).To(BeFalse())

		caseX.TeamMemberIDs = []int64{11}
		Expect(policy.Decide(t1, policy.ActionView, caseX)).To(BeTrue())
	})
})

var _ = Describe("Authorize", func() {
	It("reads the request context from ctx", func() {
		rc := rcFor(access.Subject{ID: 1, Type: access.TypeSuperAdmin}, []string{access.RoleSuperAdmin}, nil, nil)
		ctx := access.WithRequestContext(context.Background(), rc)
		Expect(policy.Authorize(ctx, policy.ActionDelete, policy.Target{Resource: access.ResourceInvoices})).To(BeTrue())
	})

	It("denies without a request context", func() {
		Expect(policy.Authorize(context.Background(), policy.ActionView, policy.Target{Resource: access.ResourceCases})).To(BeFalse())
	})
})

var _ = Describe("ListScope", func() {
	It("maps every actor to its list filter", func() {
		Expect(policy.ListScope(rcFor(access.Subject{ID: 1}, []string{access.RoleSuperAdmin}, nil, nil), access.ResourceCases).Kind).
			To(Equal(policy.ScopeAll))

		companyScope := policy.ListScope(rcFor(access.Subject{ID: 10, Type: access.TypeCompany, TenantID: id(4)}, []string{access.RoleCompany}, nil, []int64{10}), access.ResourceCases)
		Expect(companyScope.Kind).To(Equal(policy.ScopeTenant))
		Expect(companyScope.TenantID).To(Equal(int64(4)))

		memberScope := policy.ListScope(rcFor(access.Subject{ID: 11, Type: access.TypeTeamMember, CreatedBy: id(10)}, nil, nil, []int64{10, 11}), access.ResourceCases)
		Expect(memberScope).To(Equal(policy.Scope{Kind: policy.ScopeTeamMember, UserID: 11}))

		clientScope := policy.ListScope(rcFor(access.Subject{ID: 20, Email: "c@x.com", TenantID: id(4), CreatedBy: id(10)}, []string{access.RoleClient}, nil, []int64{10}), access.ResourceCases)
		Expect(clientScope).To(Equal(policy.Scope{Kind: policy.ScopeClient, TenantID: 4, Email: "c@x.com"}))
	})

	It("scopes custom roles to company ids only with the view capability", func() {
		custom := rcFor(access.Subject{ID: 30, CreatedBy: id(10)}, []string{"auditor"}, []access.Permission{access.ViewInvoices}, []int64{10, 11})
		Expect(policy.ListScope(custom, access.ResourceInvoices)).To(Equal(policy.Scope{Kind: policy.ScopeOwners, OwnerIDs: []int64{10, 11}}))
		Expect(policy.ListScope(custom, access.ResourceCases).Kind).To(Equal(policy.ScopeNone))
	})
})
