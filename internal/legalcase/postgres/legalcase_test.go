package postgres_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	clientDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	"github.com/frahmantamala/legal-practice/internal/legalcase"
	casePostgres "github.com/frahmantamala/legal-practice/internal/legalcase/postgres"
	"github.com/frahmantamala/legal-practice/internal/policy"
	"github.com/frahmantamala/legal-practice/internal/testsupport"
)

func TestCasePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Case Postgres Suite")
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("CaseRepository", func() {
	var (
		db   *gorm.DB
		repo *casePostgres.CaseRepository
		ctx  context.Context

		jane, other clientDatamodel.Client
		caseA, caseB, caseC *legalcase.Case
	)

	BeforeEach(func() {
		var err error
		db, err = testsupport.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		repo = casePostgres.NewCaseRepository(db)
		ctx = context.Background()

		jane = clientDatamodel.Client{TenantID: ptr(1), CreatedBy: 10, Name: "Jane", Email: "jane@client.test", Status: "active"}
		other = clientDatamodel.Client{TenantID: ptr(2), CreatedBy: 20, Name: "Other", Email: "jane@client.test", Status: "active"}
		Expect(db.Create(&jane).Error).NotTo(HaveOccurred())
		Expect(db.Create(&other).Error).NotTo(HaveOccurred())

		caseA = &legalcase.Case{TenantID: ptr(1), CreatedBy: 10, ClientID: &jane.ID, Title: "A", Status: legalcase.StatusOpen, TeamMemberIDs: []int64{11}}
		caseB = &legalcase.Case{TenantID: ptr(1), CreatedBy: 10, Title: "B", Status: legalcase.StatusClosed, TeamMemberIDs: []int64{12}}
		caseC = &legalcase.Case{TenantID: ptr(2), CreatedBy: 20, ClientID: &other.ID, Title: "C", Status: legalcase.StatusOpen}
		for _, c := range []*legalcase.Case{caseA, caseB, caseC} {
			Expect(repo.Create(ctx, c)).To(Succeed())
			Expect(c.ID).NotTo(BeZero())
		}
	})

	titles := func(cases []*legalcase.Case) []string {
		out := make([]string, 0, len(cases))
		for _, c := range cases {
			out = append(out, c.Title)
		}
		return out
	}

	DescribeTable("List honours the scope",
		func(scope func() policy.Scope, expected []string) {
			cases, total, err := repo.List(ctx, scope(), legalcase.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(titles(cases)).To(ConsistOf(expected))
			Expect(total).To(Equal(int64(len(expected))))
		},
		Entry("all", func() policy.Scope { return policy.Scope{Kind: policy.ScopeAll} }, []string{"A", "B", "C"}),
		Entry("tenant", func() policy.Scope { return policy.Scope{Kind: policy.ScopeTenant, TenantID: 1} }, []string{"A", "B"}),
		Entry("team member", func() policy.Scope { return policy.Scope{Kind: policy.ScopeTeamMember, UserID: 11} }, []string{"A"}),
		Entry("client in its own tenant only", func() policy.Scope {
			return policy.Scope{Kind: policy.ScopeClient, TenantID: 1, Email: "jane@client.test"}
		}, []string{"A"}),
		Entry("owners", func() policy.Scope { return policy.Scope{Kind: policy.ScopeOwners, OwnerIDs: []int64{20}} }, []string{"C"}),
		Entry("owners without ids", func() policy.Scope { return policy.Scope{Kind: policy.ScopeOwners} }, []string{}),
		Entry("none", func() policy.Scope { return policy.Scope{Kind: policy.ScopeNone} }, []string{}),
	)

	It("filters by status and paginates", func() {
		cases, total, err := repo.List(ctx, policy.Scope{Kind: policy.ScopeAll}, legalcase.ListFilter{Status: legalcase.StatusOpen, Limit: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(2)))
		Expect(cases).To(HaveLen(1))
	})

	It("loads the client and the team", func() {
		c, err := repo.GetByID(ctx, caseA.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Client).NotTo(BeNil())
		Expect(c.Client.Email).To(Equal("jane@client.test"))
		Expect(c.TeamMemberIDs).To(Equal([]int64{11}))
	})

	It("replaces the team", func() {
		Expect(repo.ReplaceTeam(ctx, caseA.ID, []int64{12, 13})).To(Succeed())
		c, err := repo.GetByID(ctx, caseA.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.TeamMemberIDs).To(Equal([]int64{12, 13}))

		cases, _, err := repo.List(ctx, policy.Scope{Kind: policy.ScopeTeamMember, UserID: 11}, legalcase.ListFilter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cases).To(BeEmpty())
	})

	It("updates the editable columns", func() {
		caseB.Title = "B (renamed)"
		caseB.Status = legalcase.StatusPending
		Expect(repo.Update(ctx, caseB)).To(Succeed())

		c, err := repo.GetByID(ctx, caseB.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Title).To(Equal("B (renamed)"))
		Expect(c.Status).To(Equal(legalcase.StatusPending))
		Expect(c.CreatedBy).To(Equal(int64(10)))
	})

	It("deletes the case with its team", func() {
		Expect(repo.Delete(ctx, caseA.ID)).To(Succeed())
		_, err := repo.GetByID(ctx, caseA.ID)
		Expect(err).To(MatchError(legalcase.ErrCaseNotFound))

		var count int64
		Expect(db.Table("case_team_members").Where("case_id = ?", caseA.ID).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("reports unknown clients", func() {
		_, err := repo.GetClient(ctx, 999)
		Expect(err).To(MatchError(legalcase.ErrClientNotFound))

		ref, err := repo.GetClient(ctx, jane.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(*ref.TenantID).To(Equal(int64(1)))
	})
})
