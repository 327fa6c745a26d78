package validation_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/user"
	"github.com/frahmantamala/legal-practice/internal/testsupport"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func int64Ptr(v int64) *int64 { return &v }

type failingChecker struct{}

func (failingChecker) Exists(context.Context, validation.UniqueRule) (bool, error) {
	return false, errors.New("connection reset")
}

type createUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type" validate:"required,oneof=team_member client"`
}

var _ = Describe("ValidationBuilder", func() {
	It("aggregates every failing field", func() {
		v := validation.NewValidator()
		v.Field("name", "").Required()
		v.Field("email", "not-an-email").Required().Email()
		v.Field("status", "archived").OneOf("active", "inactive")

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))

		details, ok := appErr.Details.(apperrors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Fields()).To(Equal([]string{"name", "email", "status"}))
	})

	It("passes valid input", func() {
		v := validation.NewValidator()
		v.Field("email", "ana@firm.test").Required().Email().MaxLength(255)
		v.Field("phone", "+62 811 2222").Phone()
		Expect(v.Validate()).To(BeNil())
	})

	It("checks email and phone formats with the shared validator", func() {
		v := validation.NewValidator()
		v.Field("email", "Ana <ana@firm.test>").Email()
		v.Field("phone", "0811 2222 333").Phone()
		v.Field("mobile", "+62-811-2222-333").Phone()
		v.Field("fax", (*string)(nil)).Phone()

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		details := appErr.Details.(apperrors.ValidationErrors)
		Expect(details.Fields()).To(Equal([]string{"email", "phone"}))
		for _, d := range details.Errors {
			Expect(d.Code).To(Equal(string(apperrors.ErrCodeInvalidFormat)))
		}
	})
})

var _ = Describe("ValidateStruct", func() {
	It("reports failures under json field names", func() {
		appErr := validation.ValidateStruct(createUserRequest{Email: "x", Type: "company"})
		Expect(appErr).NotTo(BeNil())

		details := appErr.Details.(apperrors.ValidationErrors)
		Expect(details.Fields()).To(ConsistOf("name", "email", "type"))
	})

	It("accepts a valid request", func() {
		Expect(validation.ValidateStruct(createUserRequest{Name: "Ana", Email: "ana@firm.test", Type: "client"})).To(BeNil())
	})
})

var _ = Describe("Tenant-aware uniqueness", func() {
	var (
		db      *gorm.DB
		checker *validation.GormUniqueChecker
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = testsupport.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		checker = validation.NewGormUniqueChecker(db)
		ctx = context.Background()

		users := []userDatamodel.User{
			{Name: "A", Email: "a@x.com", Type: userDatamodel.TypeTeamMember, TenantID: int64Ptr(5), Status: "active", PasswordHash: "h"},
			{Name: "Central", Email: "root@x.com", Type: userDatamodel.TypeSuperAdmin, Status: "active", PasswordHash: "h"},
		}
		Expect(db.Create(&users).Error).NotTo(HaveOccurred())
	})

	It("rejects an email already used in the same tenant", func() {
		appErr := validation.CheckUnique(ctx, checker, validation.TenantUnique("users", "email", "a@x.com", int64Ptr(5), nil))
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		Expect(appErr.Details.(apperrors.ValidationErrors).Errors[0].Code).To(Equal(string(apperrors.ErrCodeNotUnique)))
	})

	It("accepts the same email in another tenant", func() {
		Expect(validation.CheckUnique(ctx, checker, validation.TenantUnique("users", "email", "a@x.com", int64Ptr(6), nil))).To(BeNil())
	})

	It("compares central records against other central records", func() {
		Expect(validation.CheckUnique(ctx, checker, validation.TenantUnique("users", "email", "root@x.com", nil, nil))).NotTo(BeNil())
		Expect(validation.CheckUnique(ctx, checker, validation.TenantUnique("users", "email", "a@x.com", nil, nil))).To(BeNil())
	})

	It("ignores the record being updated", func() {
		var existing userDatamodel.User
		Expect(db.Where("email = ?", "a@x.com").First(&existing).Error).NotTo(HaveOccurred())

		rule := validation.TenantUnique("users", "email", "a@x.com", int64Ptr(5), &existing.ID)
		Expect(validation.CheckUnique(ctx, checker, rule)).To(BeNil())
	})

	It("skips empty optional values", func() {
		Expect(validation.CheckUnique(ctx, checker, validation.TenantUnique("users", "phone", (*string)(nil), int64Ptr(5), nil))).To(BeNil())
	})

	It("surfaces storage failures as internal errors", func() {
		appErr := validation.CheckUnique(ctx, failingChecker{}, validation.TenantUnique("users", "email", "a@x.com", int64Ptr(5), nil))
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Type).To(Equal(apperrors.ErrorTypeInternal))
	})
})
