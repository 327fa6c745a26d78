package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
	"github.com/frahmantamala/legal-practice/internal/core/events"
)

type RepositoryAPI interface {
	ListByScope(ctx context.Context, scope int64) ([]*Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
	Create(ctx context.Context, r *Role) error
	SyncPermissions(ctx context.Context, roleID int64, permissions []string) error
	Assign(ctx context.Context, userID, roleID int64) error
	Delete(ctx context.Context, id int64) error
	InUse(ctx context.Context, id int64) (bool, error)
	GetSubject(ctx context.Context, userID int64) (*access.Subject, error)
}

type ServiceAPI interface {
	List(ctx context.Context) ([]*Role, error)
	Create(ctx context.Context, dto CreateRoleDTO) (*Role, error)
	SyncPermissions(ctx context.Context, id int64, dto SyncPermissionsDTO) (*Role, error)
	Assign(ctx context.Context, userID int64, dto AssignRoleDTO) error
	Delete(ctx context.Context, id int64) error
}

// Service manages the roles of the actor's company. Superadmins manage central roles and may reach any scope.
type Service struct {
	repo   RepositoryAPI
	unique validation.UniqueChecker
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, unique validation.UniqueChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, unique: unique, events: publisher, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]*Role, error) {
	rc := access.FromContext(ctx)
	if rc == nil {
		return nil, internal.ErrForbidden()
	}
	roles, err := s.repo.ListByScope(ctx, rc.Subject.ScopeOwnerID())
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	return roles, nil
}

func (s *Service) Create(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	rc := access.FromContext(ctx)
	if rc == nil {
		return nil, internal.ErrForbidden()
	}
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return nil, appErr
	}
	if access.IsBuiltinRole(dto.Name) {
		return nil, internal.NewValidationFieldError("name", fmt.Sprintf("%q is a reserved role name", dto.Name), internal.ErrCodeInvalidValue)
	}
	if appErr := s.checkGrantable(rc, dto.Permissions); appErr != nil {
		return nil, appErr
	}

	scope := rc.Subject.ScopeOwnerID()
	if appErr := validation.CheckUnique(ctx, s.unique, validation.UniqueRule{
		Field:       "name",
		Table:       "roles",
		Column:      "name",
		Value:       dto.Name,
		ScopeColumn: "created_by",
		ScopeID:     &scope,
	}); appErr != nil {
		return nil, appErr
	}

	r := &Role{
		Name:        dto.Name,
		CreatedBy:   scope,
		Label:       dto.Label,
		Description: dto.Description,
		Permissions: normalize(dto.Permissions),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, internal.NewInternalError("failed to create role", err)
	}

	s.logger.InfoContext(ctx, "role created", "role_id", r.ID, "name", r.Name, "created_by", scope)
	_ = s.events.Publish(ctx, events.NewRoleCreatedEvent(r.ID, r.Name, scope, rc.Actor.UserID))
	return r, nil
}

func (s *Service) SyncPermissions(ctx context.Context, id int64, dto SyncPermissionsDTO) (*Role, error) {
	rc := access.FromContext(ctx)
	r, err := s.load(ctx, rc, id)
	if err != nil {
		return nil, err
	}
	if appErr := s.checkGrantable(rc, dto.Permissions); appErr != nil {
		return nil, appErr
	}

	perms := normalize(dto.Permissions)
	if err := s.repo.SyncPermissions(ctx, r.ID, perms); err != nil {
		return nil, internal.NewInternalError("failed to sync role permissions", err)
	}
	r.Permissions = perms

	s.logger.InfoContext(ctx, "role permissions synced", "role_id", r.ID, "permissions", len(perms))
	_ = s.events.Publish(ctx, events.NewRolePermissionsSyncedEvent(r.ID, perms, rc.Actor.UserID))
	return r, nil
}

// Assign gives a user a role of the same scope. Users and roles outside the actor's company are reported as missing.
// Non-superadmins may only hand out roles whose permissions they hold, and no built-in role above their own kind.
func (s *Service) Assign(ctx context.Context, userID int64, dto AssignRoleDTO) error {
	rc := access.FromContext(ctx)
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return appErr
	}
	r, err := s.load(ctx, rc, dto.RoleID)
	if err != nil {
		return err
	}
	if !rc.Actor.IsSuperAdmin() && !canHandOut(rc, r) {
		s.logger.WarnContext(ctx, "role assignment refused", "role_id", r.ID, "name", r.Name, "actor_id", rc.Actor.UserID)
		return internal.ErrForbidden()
	}

	subject, err := s.repo.GetSubject(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
		}
		return internal.NewInternalError("failed to load user", err)
	}
	userScope := subject.ScopeOwnerID()
	if !rc.Actor.IsSuperAdmin() && userScope != rc.Subject.ScopeOwnerID() {
		return internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}
	if userScope != r.CreatedBy {
		return internal.NewValidationFieldError("role_id", "role does not belong to the user's company", internal.ErrCodeInvalidValue)
	}

	if err := s.repo.Assign(ctx, userID, r.ID); err != nil {
		return internal.NewInternalError("failed to assign role", err)
	}

	s.logger.InfoContext(ctx, "role assigned", "role_id", r.ID, "user_id", userID, "actor_id", rc.Actor.UserID)
	_ = s.events.Publish(ctx, events.NewRoleAssignedEvent(r.ID, userID, rc.Actor.UserID))
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	rc := access.FromContext(ctx)
	r, err := s.load(ctx, rc, id)
	if err != nil {
		return err
	}
	inUse, err := s.repo.InUse(ctx, r.ID)
	if err != nil {
		return internal.NewInternalError("failed to check role usage", err)
	}
	if inUse {
		return internal.NewConflictError("Role is still assigned to users", internal.ErrCodeRoleInUse)
	}
	if err := s.repo.Delete(ctx, r.ID); err != nil {
		return internal.NewInternalError("failed to delete role", err)
	}
	s.logger.InfoContext(ctx, "role deleted", "role_id", r.ID, "name", r.Name)
	return nil
}

// load fetches a role the actor may manage.
func (s *Service) load(ctx context.Context, rc *access.RequestContext, id int64) (*Role, error) {
	if rc == nil {
		return nil, internal.ErrForbidden()
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
		}
		return nil, internal.NewInternalError("failed to load role", err)
	}
	if !rc.Actor.IsSuperAdmin() && r.CreatedBy != rc.Subject.ScopeOwnerID() {
		return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
	}
	return r, nil
}

// checkGrantable rejects unknown permissions, and permissions a non-superadmin does not hold.
func (s *Service) checkGrantable(rc *access.RequestContext, perms []string) *internal.AppError {
	var violations []internal.ValidationError
	for _, p := range perms {
		perm := access.Permission(p)
		switch {
		case !access.IsKnown(perm):
			violations = append(violations, internal.ValidationError{
				Field: "permissions", Message: fmt.Sprintf("unknown permission %q", p), Code: string(internal.ErrCodeInvalidValue),
			})
		case !rc.Actor.IsSuperAdmin() && !rc.Can(perm):
			violations = append(violations, internal.ValidationError{
				Field: "permissions", Message: fmt.Sprintf("cannot grant %q", p), Code: string(internal.ErrCodeForbidden),
			})
		}
	}
	if len(violations) > 0 {
		return internal.NewValidationErrors(violations)
	}
	return nil
}

func canHandOut(rc *access.RequestContext, r *Role) bool {
	if !rc.Actor.CanAssignRole(r.Name) {
		return false
	}
	for _, p := range r.Permissions {
		if !rc.Can(access.Permission(p)) {
			return false
		}
	}
	return true
}

func normalize(perms []string) []string {
	set := make([]access.Permission, 0, len(perms))
	for _, p := range perms {
		set = append(set, access.Permission(p))
	}
	return access.NewPermissionSet(set...).Strings()
}
