package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
	"github.com/frahmantamala/legal-practice/internal/core/events"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, scope policy.Scope, filter ListFilter) ([]*User, int64, error)
	// Create inserts the user and attaches the named role of the owner's scope, creating that role when missing.
	Create(ctx context.Context, u *User, role string, scope int64) error
	Update(ctx context.Context, u *User) error
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type ServiceAPI interface {
	Me(ctx context.Context) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
	Create(ctx context.Context, dto CreateUserDTO) (*User, error)
	Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error)
}

type Service struct {
	repo   Repository
	unique validation.UniqueChecker
	hasher PasswordHasher
	events events.Publisher
	policy Policy
	logger *slog.Logger
}

func NewService(repo Repository, unique validation.UniqueChecker, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		unique: unique,
		hasher: hasher,
		events: publisher,
		logger: logger,
	}
}

// Me returns the caller with the roles and permissions resolved for this request.
func (s *Service) Me(ctx context.Context) (*User, error) {
	rc := access.FromContext(ctx)
	if rc == nil {
		return nil, internal.NewUnauthorizedError("unauthorized", internal.ErrCodeMissingPrincipal)
	}
	u, err := s.load(ctx, rc.Subject.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = rc.Roles
	u.Permissions = rc.Permissions.Strings()
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.View(ctx, u) {
		return nil, internal.ErrForbidden()
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*User, int64, error) {
	scope := policy.ListScope(access.FromContext(ctx), access.ResourceUsers)
	users, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list users", err)
	}
	return users, total, nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	rc := access.FromContext(ctx)
	if rc == nil || !rc.Actor.HasTenant() {
		return nil, internal.ErrTenantRequired()
	}
	tenantID := rc.Actor.TenantID

	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(255)
	v.Field("email", dto.Email).Required().Email().MaxLength(255)
	v.Field("phone", dto.Phone).Phone()
	v.Field("password", dto.Password).Required().MinLength(8).MaxLength(72)
	v.Field("type", dto.Type).Required().OneOf(access.TypeTeamMember, access.TypeClient)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	if appErr := validation.CheckUnique(ctx, s.unique,
		validation.TenantUnique("users", "email", dto.Email, tenantID, nil),
		validation.TenantUnique("users", "phone", deref(dto.Phone), tenantID, nil),
	); appErr != nil {
		return nil, appErr
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	owner := rc.Actor.OwnerID
	u := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		Phone:        dto.Phone,
		PasswordHash: hash,
		Type:         dto.Type,
		TenantID:     tenantID,
		CreatedBy:    &owner,
		Status:       access.StatusActive,
	}
	if err := s.repo.Create(ctx, u, dto.Type, owner); err != nil {
		s.logger.ErrorContext(ctx, "failed to create user", "error", err, "actor_id", rc.Actor.UserID)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	u.Roles = []string{dto.Type}

	s.logger.InfoContext(ctx, "user created", "user_id", u.ID, "type", u.Type, "created_by", owner)
	_ = s.events.Publish(ctx, events.NewUserCreatedEvent(u.ID, u.Type, owner))
	return u, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Update(ctx, u) {
		return nil, internal.ErrForbidden()
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.Phone != nil {
		u.Phone = dto.Phone
	}
	if dto.Status != nil {
		u.Status = *dto.Status
	}

	v := validation.NewValidator()
	v.Field("name", u.Name).Required().MaxLength(255)
	v.Field("email", u.Email).Required().Email().MaxLength(255)
	v.Field("phone", u.Phone).Phone()
	v.Field("status", u.Status).OneOf(access.StatusActive, access.StatusInactive)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	if appErr := validation.CheckUnique(ctx, s.unique,
		validation.TenantUnique("users", "email", u.Email, u.TenantID, &u.ID),
		validation.TenantUnique("users", "phone", deref(u.Phone), u.TenantID, &u.ID),
	); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}
	return u, nil
}

func (s *Service) load(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
