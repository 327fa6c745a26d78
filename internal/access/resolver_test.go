package access_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/legal-practice/internal/access"
)

type roleKey struct {
	userID int64
	scope  int64
}

type mockStore struct {
	roles   map[roleKey][]access.RoleGrant
	direct  map[int64][]string
	members map[int64][]int64
	err     error
	calls   int
}

func newMockStore() *mockStore {
	return &mockStore{
		roles:   map[roleKey][]access.RoleGrant{},
		direct:  map[int64][]string{},
		members: map[int64][]int64{},
	}
}

func (m *mockStore) RolesForUser(_ context.Context, userID, scope int64) ([]access.RoleGrant, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.roles[roleKey{userID, scope}], nil
}

func (m *mockStore) DirectPermissions(_ context.Context, userID int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.direct[userID], nil
}

func (m *mockStore) TeamMemberIDs(_ context.Context, ownerID int64) ([]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.members[ownerID], nil
}

var _ = Describe("Resolver", func() {
	var (
		store    *mockStore
		resolver *access.Resolver
		ctx      context.Context
		company  *access.Subject
		member   *access.Subject
	)

	BeforeEach(func() {
		store = newMockStore()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = access.NewResolver(store, lg, 0)
		ctx = context.Background()

		company = &access.Subject{ID: 10, Type: access.TypeCompany, TenantID: id(1), Status: "active"}
		member = &access.Subject{ID: 11, Type: access.TypeTeamMember, TenantID: id(1), CreatedBy: id(10), Status: "active"}

		store.roles[roleKey{10, 10}] = []access.RoleGrant{{Name: access.RoleCompany, Permissions: []string{"view-cases", "edit-cases"}}}
		store.roles[roleKey{11, 10}] = []access.RoleGrant{{Name: access.RoleTeamMember, Permissions: []string{"view-cases"}}}
		store.roles[roleKey{11, 99}] = []access.RoleGrant{{Name: access.RoleTeamMember, Permissions: []string{"delete-cases"}}}
		store.direct[11] = []string{"view-invoices"}
	})

	Describe("EffectivePermissions", func() {
		It("unions role and direct permissions", func() {
			perms := resolver.EffectivePermissions(ctx, member)
			Expect(perms.Strings()).To(Equal([]string{"view-cases", "view-invoices"}))
		})

		It("ignores roles held under another company's scope", func() {
			Expect(resolver.EffectivePermissions(ctx, member).Has(access.DeleteCases)).To(BeFalse())
		})

		It("returns the empty set for a nil user", func() {
			Expect(resolver.EffectivePermissions(ctx, nil).Len()).To(Equal(0))
			Expect(store.calls).To(Equal(0))
		})

		It("fails closed on storage errors", func() {
			store.err = errors.New("db down")
			Expect(resolver.EffectivePermissions(ctx, member).Len()).To(Equal(0))
		})
	})

	Describe("HasRole", func() {
		It("matches any of the given names within scope", func() {
			Expect(resolver.HasRole(ctx, member, access.RoleClient, access.RoleTeamMember)).To(BeTrue())
			Expect(resolver.HasRole(ctx, member, access.RoleCompany)).To(BeFalse())
		})

		It("is false for nil users and on storage errors", func() {
			Expect(resolver.HasRole(ctx, nil, access.RoleCompany)).To(BeFalse())
			store.err = errors.New("db down")
			Expect(resolver.HasRole(ctx, company, access.RoleCompany)).To(BeFalse())
		})
	})

	Describe("CompanyAndUserIDs", func() {
		It("always contains the owner", func() {
			ids, err := resolver.CompanyAndUserIDs(ctx, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]int64{42}))
		})

		It("appends team members after the owner", func() {
			store.members[10] = []int64{11, 12}
			ids, err := resolver.CompanyAndUserIDs(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]int64{10, 11, 12}))
		})

		It("reflects membership changes on the next call", func() {
			ids, _ := resolver.CompanyAndUserIDs(ctx, 10)
			Expect(ids).To(Equal([]int64{10}))

			store.members[10] = []int64{11}
			ids, _ = resolver.CompanyAndUserIDs(ctx, 10)
			Expect(ids).To(Equal([]int64{10, 11}))
		})
	})

	Describe("Resolve", func() {
		It("builds an immutable snapshot for a team member", func() {
			store.members[10] = []int64{11}
			rc, err := resolver.Resolve(ctx, member)
			Expect(err).NotTo(HaveOccurred())
			Expect(rc.Actor.Kind).To(Equal(access.ActorTeamMember))
			Expect(rc.Roles).To(Equal([]string{access.RoleTeamMember}))
			Expect(rc.Can(access.ViewInvoices)).To(BeTrue())
			Expect(rc.CompanyUserIDs).To(Equal([]int64{10, 11}))
			Expect(rc.InCompany(10)).To(BeTrue())
		})

		It("answers role checks from the snapshot without querying again", func() {
			rc, err := resolver.Resolve(ctx, member)
			Expect(err).NotTo(HaveOccurred())

			store.err = errors.New("db down")
			Expect(rc.HasRole(access.RoleCompany, access.RoleTeamMember)).To(BeTrue())
			Expect(rc.HasRole(access.RoleCompany)).To(BeFalse())
			Expect((*access.RequestContext)(nil).HasRole(access.RoleTeamMember)).To(BeFalse())
		})

		It("skips company ids for superadmins", func() {
			root := &access.Subject{ID: 1, Type: access.TypeSuperAdmin}
			store.roles[roleKey{1, access.CentralScope}] = []access.RoleGrant{{Name: access.RoleSuperAdmin}}

			rc, err := resolver.Resolve(ctx, root)
			Expect(err).NotTo(HaveOccurred())
			Expect(rc.Actor.IsSuperAdmin()).To(BeTrue())
			Expect(rc.CompanyUserIDs).To(BeEmpty())
		})

		It("reports storage failures", func() {
			store.err = errors.New("db down")
			_, err := resolver.Resolve(ctx, company)
			Expect(err).To(HaveOccurred())
		})

		It("round-trips through context", func() {
			rc, err := resolver.Resolve(ctx, company)
			Expect(err).NotTo(HaveOccurred())
			Expect(access.FromContext(access.WithRequestContext(ctx, rc))).To(BeIdenticalTo(rc))
			Expect(access.FromContext(ctx)).To(BeNil())
		})
	})
})
