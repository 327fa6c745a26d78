package legalcase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/events"
	"github.com/frahmantamala/legal-practice/internal/legalcase"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

func id(v int64) *int64 { return &v }

type mockRepo struct {
	cases     map[int64]*legalcase.Case
	clients   map[int64]*legalcase.ClientRef
	lastScope policy.Scope
	nextID    int64
	err       error
}

func newMockRepo() *mockRepo {
	return &mockRepo{cases: map[int64]*legalcase.Case{}, clients: map[int64]*legalcase.ClientRef{}, nextID: 100}
}

func (m *mockRepo) List(_ context.Context, scope policy.Scope, _ legalcase.ListFilter) ([]*legalcase.Case, int64, error) {
	m.lastScope = scope
	if m.err != nil {
		return nil, 0, m.err
	}
	return nil, 0, nil
}

func (m *mockRepo) GetByID(_ context.Context, caseID int64) (*legalcase.Case, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.cases[caseID]
	if !ok {
		return nil, legalcase.ErrCaseNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockRepo) Create(_ context.Context, c *legalcase.Case) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	c.ID = m.nextID
	m.cases[c.ID] = c
	return nil
}

func (m *mockRepo) Update(_ context.Context, c *legalcase.Case) error {
	m.cases[c.ID] = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, caseID int64) error {
	delete(m.cases, caseID)
	return nil
}

func (m *mockRepo) ReplaceTeam(_ context.Context, caseID int64, userIDs []int64) error {
	m.cases[caseID].TeamMemberIDs = userIDs
	return nil
}

func (m *mockRepo) GetClient(_ context.Context, clientID int64) (*legalcase.ClientRef, error) {
	c, ok := m.clients[clientID]
	if !ok {
		return nil, legalcase.ErrClientNotFound
	}
	return c, nil
}

type directory map[int64][]int64

func (d directory) CompanyAndUserIDs(_ context.Context, ownerID int64) ([]int64, error) {
	return append([]int64{ownerID}, d[ownerID]...), nil
}

type recordingPublisher struct{ published []events.Event }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

func withActor(s access.Subject, roles []string, perms []access.Permission, company []int64) context.Context {
	rc := &access.RequestContext{
		Subject:        s,
		Actor:          access.ResolveActor(s, roles),
		Roles:          roles,
		Permissions:    access.NewPermissionSet(perms...),
		CompanyUserIDs: company,
	}
	return access.WithRequestContext(context.Background(), rc)
}

func appErrCode(err error) internal.ErrorCode {
	appErr, ok := internal.IsAppError(err)
	Expect(ok).To(BeTrue(), "expected an AppError, got %v", err)
	return appErr.Code
}

var _ = Describe("Case service", func() {
	var (
		repo      *mockRepo
		publisher *recordingPublisher
		svc       *legalcase.Service

		companyCtx, memberCtx, otherMemberCtx, otherCompanyCtx, clientCtx context.Context
	)

	BeforeEach(func() {
		repo = newMockRepo()
		publisher = &recordingPublisher{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = legalcase.NewService(repo, directory{10: {11, 12}, 20: {21}}, publisher, lg)

		companyCtx = withActor(access.Subject{ID: 10, Type: access.TypeCompany, TenantID: id(1), Status: "active"},
			[]string{access.RoleCompany}, access.AllPermissions(), []int64{10, 11, 12})
		memberCtx = withActor(access.Subject{ID: 11, Type: access.TypeTeamMember, TenantID: id(1), CreatedBy: id(10), Status: "active"},
			[]string{access.RoleTeamMember}, nil, []int64{10, 11, 12})
		otherMemberCtx = withActor(access.Subject{ID: 12, Type: access.TypeTeamMember, TenantID: id(1), CreatedBy: id(10), Status: "active"},
			[]string{access.RoleTeamMember}, nil, []int64{10, 11, 12})
		otherCompanyCtx = withActor(access.Subject{ID: 20, Type: access.TypeCompany, TenantID: id(2), Status: "active"},
			[]string{access.RoleCompany}, access.AllPermissions(), []int64{20, 21})
		clientCtx = withActor(access.Subject{ID: 30, Type: access.TypeClient, Email: "jane@client.test", TenantID: id(1), CreatedBy: id(10), Status: "active"},
			[]string{access.RoleClient}, nil, []int64{10, 11, 12})

		repo.clients[5] = &legalcase.ClientRef{ID: 5, Name: "Jane", Email: "jane@client.test", TenantID: id(1)}
		repo.clients[6] = &legalcase.ClientRef{ID: 6, Name: "Other", Email: "other@client.test", TenantID: id(2)}
	})

	Describe("Create", func() {
		It("files the case under the actor's company", func() {
			c, err := svc.Create(companyCtx, legalcase.CreateCaseDTO{Title: "Smith v. Jones", ClientID: id(5), TeamMemberIDs: []int64{11}})
			Expect(err).NotTo(HaveOccurred())
			Expect(*c.TenantID).To(Equal(int64(1)))
			Expect(c.CreatedBy).To(Equal(int64(10)))
			Expect(c.Status).To(Equal(legalcase.StatusOpen))
			Expect(c.Client.Email).To(Equal("jane@client.test"))
			Expect(c.TeamMemberIDs).To(Equal([]int64{11}))
		})

		It("adds a team member creator to the team and attributes the case to their company", func() {
			c, err := svc.Create(memberCtx, legalcase.CreateCaseDTO{Title: "Estate of Doe"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.CreatedBy).To(Equal(int64(10)))
			Expect(c.TeamMemberIDs).To(ContainElement(int64(11)))
		})

		It("rejects a client from another tenant", func() {
			_, err := svc.Create(companyCtx, legalcase.CreateCaseDTO{Title: "X", ClientID: id(6)})
			Expect(appErrCode(err)).To(Equal(internal.ErrCodeValidationFailed))
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Details.(internal.ValidationErrors).Fields()).To(ConsistOf("client_id"))
		})

		It("rejects team members of another company", func() {
			_, err := svc.Create(companyCtx, legalcase.CreateCaseDTO{Title: "X", TeamMemberIDs: []int64{21}})
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("requires a title", func() {
			_, err := svc.Create(companyCtx, legalcase.CreateCaseDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("requires a tenant context", func() {
			_, err := svc.Create(context.Background(), legalcase.CreateCaseDTO{Title: "X"})
			Expect(appErrCode(err)).To(Equal(internal.ErrCodeTenantRequired))
		})
	})

	Describe("team member visibility", func() {
		var caseID int64

		BeforeEach(func() {
			c, err := svc.Create(companyCtx, legalcase.CreateCaseDTO{Title: "Smith v. Jones", ClientID: id(5), TeamMemberIDs: []int64{11}})
			Expect(err).NotTo(HaveOccurred())
			caseID = c.ID
		})

		It("lets an assigned team member view and update the case", func() {
			_, err := svc.Get(memberCtx, caseID)
			Expect(err).NotTo(HaveOccurred())

			title := "Smith v. Jones (amended)"
			c, err := svc.Update(memberCtx, caseID, legalcase.UpdateCaseDTO{Title: &title})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Title).To(Equal(title))
		})

		It("denies a team member who is not on the team", func() {
			_, err := svc.Get(otherMemberCtx, caseID)
			Expect(appErrCode(err)).To(Equal(internal.ErrCodeForbidden))
		})

		It("grants access once the member is added to the team", func() {
			c, err := svc.SyncTeam(companyCtx, caseID, legalcase.SyncTeamDTO{UserIDs: []int64{11, 12, 12}})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.TeamMemberIDs).To(Equal([]int64{11, 12}))

			_, err = svc.Get(otherMemberCtx, caseID)
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeCaseTeamChanged))
		})

		It("lets the client whose email matches view the case", func() {
			_, err := svc.Get(clientCtx, caseID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("hides the case from another company", func() {
			_, err := svc.Get(otherCompanyCtx, caseID)
			Expect(appErrCode(err)).To(Equal(internal.ErrCodeForbidden))

			err = svc.Delete(otherCompanyCtx, caseID)
			Expect(appErrCode(err)).To(Equal(internal.ErrCodeForbidden))
			Expect(repo.cases).To(HaveKey(caseID))
		})

		It("lets the owning company delete the case", func() {
			Expect(svc.Delete(companyCtx, caseID)).To(Succeed())
			Expect(repo.cases).NotTo(HaveKey(caseID))
		})
	})

	It("returns not found for a missing case", func() {
		_, err := svc.Get(companyCtx, 9999)
		Expect(appErrCode(err)).To(Equal(internal.ErrCodeCaseNotFound))
	})

	It("surfaces storage failures as internal errors", func() {
		repo.err = errors.New("connection reset")
		_, err := svc.Get(companyCtx, 1)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})

	DescribeTable("List passes the actor's scope to the repository",
		func(ctxFn func() context.Context, kind policy.ScopeKind) {
			_, _, err := svc.List(ctxFn(), legalcase.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastScope.Kind).To(Equal(kind))
		},
		Entry("company", func() context.Context { return companyCtx }, policy.ScopeTenant),
		Entry("team member", func() context.Context { return memberCtx }, policy.ScopeTeamMember),
		Entry("client", func() context.Context { return clientCtx }, policy.ScopeClient),
		Entry("anonymous", func() context.Context { return context.Background() }, policy.ScopeNone),
	)
})
