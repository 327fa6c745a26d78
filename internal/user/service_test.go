package user_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	accessPostgres "github.com/frahmantamala/legal-practice/internal/access/postgres"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/user"
	"github.com/frahmantamala/legal-practice/internal/core/events"
	"github.com/frahmantamala/legal-practice/internal/testsupport"
	"github.com/frahmantamala/legal-practice/internal/user"
	userPostgres "github.com/frahmantamala/legal-practice/internal/user/postgres"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type plainHasher struct{}

func (plainHasher) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

type recordingPublisher struct{ published []events.Event }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

func id(v int64) *int64 { return &v }
func str(v string) *string { return &v }

func fieldsOf(err error) []string {
	appErr, ok := internal.IsAppError(err)
	Expect(ok).To(BeTrue(), "expected an AppError, got %v", err)
	details, ok := appErr.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue(), "expected validation details on %v", appErr)
	return details.Fields()
}

var _ = Describe("User service", func() {
	var (
		db        *gorm.DB
		svc       *user.Service
		resolver  *access.Resolver
		publisher *recordingPublisher

		companyA, companyB userDatamodel.User
		ctxA, ctxB         context.Context
	)

	contextFor := func(u userDatamodel.User) context.Context {
		s := &access.Subject{ID: u.ID, Name: u.Name, Email: u.Email, Type: u.Type, TenantID: u.TenantID, CreatedBy: u.CreatedBy, Status: u.Status}
		rc, err := resolver.Resolve(context.Background(), s)
		Expect(err).NotTo(HaveOccurred())
		return access.WithRequestContext(context.Background(), rc)
	}

	BeforeEach(func() {
		var err error
		db, err = testsupport.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		sqlxDB, err := testsupport.SQLX(db)
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = access.NewResolver(accessPostgres.NewStore(sqlxDB), lg, 0)
		publisher = &recordingPublisher{}
		svc = user.NewService(userPostgres.NewUserRepository(db), validation.NewGormUniqueChecker(db), plainHasher{}, publisher, lg)

		companyA = userDatamodel.User{Name: "Firm A", Email: "a@firm.test", Type: userDatamodel.TypeCompany, TenantID: id(1), Status: "active", PasswordHash: "x"}
		companyB = userDatamodel.User{Name: "Firm B", Email: "b@firm.test", Type: userDatamodel.TypeCompany, TenantID: id(2), Status: "active", PasswordHash: "x"}
		Expect(db.Create(&companyA).Error).NotTo(HaveOccurred())
		Expect(db.Create(&companyB).Error).NotTo(HaveOccurred())

		// company role rows for both firms
		for _, c := range []userDatamodel.User{companyA, companyB} {
			Expect(db.Exec("INSERT INTO roles (name, guard_name, created_by) VALUES (?, 'web', ?)", access.RoleCompany, c.ID).Error).NotTo(HaveOccurred())
			Expect(db.Exec("INSERT INTO model_has_roles (user_id, role_id) SELECT ?, id FROM roles WHERE name = ? AND created_by = ?", c.ID, access.RoleCompany, c.ID).Error).NotTo(HaveOccurred())
		}
		ctxA = contextFor(companyA)
		ctxB = contextFor(companyB)
	})

	Describe("Create", func() {
		It("creates a team member holding the company's team_member role", func() {
			u, err := svc.Create(ctxA, user.CreateUserDTO{Name: "Paula", Email: "paula@firm.test", Password: "s3cret-pass", Type: access.TypeTeamMember})
			Expect(err).NotTo(HaveOccurred())
			Expect(*u.CreatedBy).To(Equal(companyA.ID))
			Expect(*u.TenantID).To(Equal(int64(1)))
			Expect(u.PasswordHash).To(Equal("hashed:s3cret-pass"))

			s := &access.Subject{ID: u.ID, Type: u.Type, TenantID: u.TenantID, CreatedBy: u.CreatedBy, Status: u.Status}
			Expect(resolver.HasRole(context.Background(), s, access.RoleTeamMember)).To(BeTrue())
			Expect(resolver.EffectivePermissions(context.Background(), s).Has(access.ViewCases)).To(BeTrue())

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeUserCreated))
		})

		It("reuses the role for the second member of the same company", func() {
			_, err := svc.Create(ctxA, user.CreateUserDTO{Name: "One", Email: "one@firm.test", Password: "password1", Type: access.TypeTeamMember})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Create(ctxA, user.CreateUserDTO{Name: "Two", Email: "two@firm.test", Password: "password2", Type: access.TypeTeamMember})
			Expect(err).NotTo(HaveOccurred())

			var roles int64
			Expect(db.Table("roles").Where("name = ? AND created_by = ?", access.RoleTeamMember, companyA.ID).Count(&roles).Error).NotTo(HaveOccurred())
			Expect(roles).To(Equal(int64(1)))
		})

		It("enforces email and phone uniqueness per tenant", func() {
			_, err := svc.Create(ctxA, user.CreateUserDTO{Name: "Paula", Email: "paula@firm.test", Phone: str("+15550001"), Password: "password1", Type: access.TypeTeamMember})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Create(ctxA, user.CreateUserDTO{Name: "Paula 2", Email: "paula@firm.test", Phone: str("+15550001"), Password: "password1", Type: access.TypeClient})
			Expect(fieldsOf(err)).To(ConsistOf("email", "phone"))

			_, err = svc.Create(ctxB, user.CreateUserDTO{Name: "Paula", Email: "paula@firm.test", Phone: str("+15550001"), Password: "password1", Type: access.TypeTeamMember})
			Expect(err).NotTo(HaveOccurred())
		})

		It("only creates team members and clients", func() {
			_, err := svc.Create(ctxA, user.CreateUserDTO{Name: "Boss", Email: "boss@firm.test", Password: "password1", Type: access.TypeCompany})
			Expect(fieldsOf(err)).To(ConsistOf("type"))
		})

		It("validates every field at once", func() {
			_, err := svc.Create(ctxA, user.CreateUserDTO{Email: "nope", Password: "short", Type: access.TypeClient})
			Expect(fieldsOf(err)).To(ConsistOf("name", "email", "password"))
		})
	})

	Describe("visibility and updates", func() {
		var member, colleague *user.User

		BeforeEach(func() {
			var err error
			member, err = svc.Create(ctxA, user.CreateUserDTO{Name: "Paula", Email: "paula@firm.test", Password: "password1", Type: access.TypeTeamMember})
			Expect(err).NotTo(HaveOccurred())
			colleague, err = svc.Create(ctxA, user.CreateUserDTO{Name: "Carl", Email: "carl@firm.test", Password: "password1", Type: access.TypeTeamMember})
			Expect(err).NotTo(HaveOccurred())
		})

		memberCtx := func(u *user.User) context.Context {
			return contextFor(userDatamodel.User{ID: u.ID, Name: u.Name, Email: u.Email, Type: u.Type, TenantID: u.TenantID, CreatedBy: u.CreatedBy, Status: u.Status})
		}

		It("scopes listings to the company", func() {
			users, total, err := svc.List(ctxA, user.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(users).To(HaveLen(3))

			_, total, err = svc.List(ctxB, user.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})

		It("lets a team member see only themselves", func() {
			ctx := memberCtx(member)
			_, err := svc.Get(ctx, member.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Get(ctx, colleague.ID)
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeForbidden))

			me, err := svc.Me(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(me.Roles).To(ConsistOf(access.RoleTeamMember))
			Expect(me.Permissions).To(ContainElement(string(access.ViewCases)))
		})

		It("keeps a user's own email valid on update but rejects a colleague's", func() {
			_, err := svc.Update(ctxA, member.ID, user.UpdateUserDTO{Name: str("Paula P."), Email: str("paula@firm.test")})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Update(ctxA, member.ID, user.UpdateUserDTO{Email: str("carl@firm.test")})
			Expect(fieldsOf(err)).To(ConsistOf("email"))
		})

		It("denies updates from another company", func() {
			_, err := svc.Update(ctxB, member.ID, user.UpdateUserDTO{Status: str(access.StatusInactive)})
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeForbidden))
		})
	})
})
